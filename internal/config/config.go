package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/harrison/vtoggle/internal/models"
	"github.com/harrison/vtoggle/internal/semver"
	"gopkg.in/yaml.v3"
)

// Config represents vtoggle configuration options
type Config struct {
	// InputDir is the file or directory to read
	InputDir string `yaml:"input_dir"`

	// OutputDir is the root of the mirrored output tree
	OutputDir string `yaml:"output_dir"`

	// Exact selects exact version matching; false keeps the nearest lower version
	Exact bool `yaml:"exact"`

	// Conditions lists one required version per feature
	Conditions []models.Condition `yaml:"conditions"`

	// Exclude lists glob patterns (relative to the input root) to skip
	Exclude []string `yaml:"exclude"`

	// MaxConcurrency is the number of files processed in parallel (0 = number of CPUs)
	MaxConcurrency int `yaml:"max_concurrency"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written ("" disables file logging)
	LogDir string `yaml:"log_dir"`

	// MetricsFile receives Prometheus text-format counters after each run
	MetricsFile string `yaml:"metrics_file"`

	// DryRun transforms files without writing output
	DryRun bool `yaml:"dry_run"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		InputDir:       "src/",
		OutputDir:      "ver/",
		Exact:          true,
		MaxConcurrency: 0, // One worker per CPU
		LogLevel:       "info",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointers distinguish "absent" from an explicit false
	type yamlConfig struct {
		InputDir       string             `yaml:"input_dir"`
		OutputDir      string             `yaml:"output_dir"`
		Exact          *bool              `yaml:"exact"`
		Conditions     []models.Condition `yaml:"conditions"`
		Exclude        []string           `yaml:"exclude"`
		MaxConcurrency int                `yaml:"max_concurrency"`
		LogLevel       string             `yaml:"log_level"`
		LogDir         string             `yaml:"log_dir"`
		MetricsFile    string             `yaml:"metrics_file"`
		DryRun         *bool              `yaml:"dry_run"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.InputDir != "" {
		cfg.InputDir = yamlCfg.InputDir
	}
	if yamlCfg.OutputDir != "" {
		cfg.OutputDir = yamlCfg.OutputDir
	}
	if yamlCfg.Exact != nil {
		cfg.Exact = *yamlCfg.Exact
	}
	if len(yamlCfg.Conditions) > 0 {
		cfg.Conditions = yamlCfg.Conditions
	}
	if len(yamlCfg.Exclude) > 0 {
		cfg.Exclude = yamlCfg.Exclude
	}
	if yamlCfg.MaxConcurrency != 0 {
		cfg.MaxConcurrency = yamlCfg.MaxConcurrency
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.MetricsFile != "" {
		cfg.MetricsFile = yamlCfg.MetricsFile
	}
	if yamlCfg.DryRun != nil {
		cfg.DryRun = *yamlCfg.DryRun
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .vtoggle/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ".vtoggle", "config.yaml")
	return LoadConfig(configPath)
}

// Overrides holds command-line values. Nil fields were not given on the
// command line and leave the configuration untouched.
type Overrides struct {
	InputDir       *string
	OutputDir      *string
	Exact          *bool
	Conditions     []models.Condition
	Exclude        []string
	MaxConcurrency *int
	LogLevel       *string
	LogDir         *string
	MetricsFile    *string
	DryRun         *bool
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(o Overrides) {
	if o.InputDir != nil {
		c.InputDir = *o.InputDir
	}
	if o.OutputDir != nil {
		c.OutputDir = *o.OutputDir
	}
	if o.Exact != nil {
		c.Exact = *o.Exact
	}
	if len(o.Conditions) > 0 {
		c.Conditions = o.Conditions
	}
	if len(o.Exclude) > 0 {
		c.Exclude = o.Exclude
	}
	if o.MaxConcurrency != nil {
		c.MaxConcurrency = *o.MaxConcurrency
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.MetricsFile != nil {
		c.MetricsFile = *o.MetricsFile
	}
	if o.DryRun != nil {
		c.DryRun = *o.DryRun
	}
}

// Policy returns the run-wide match policy.
func (c *Config) Policy() models.MatchPolicy {
	return models.PolicyFromExact(c.Exact)
}

// ResolvedConditions returns the conditions with the run-wide policy applied.
func (c *Config) ResolvedConditions() []models.Condition {
	return models.WithPolicy(c.Conditions, c.Policy())
}

// Workers returns the effective number of parallel file workers.
func (c *Config) Workers() int {
	if c.MaxConcurrency > 0 {
		return c.MaxConcurrency
	}
	return runtime.NumCPU()
}

// Validate validates the configuration values
// Returns a *ConfigError if any values are invalid
func (c *Config) Validate() error {
	if err := ValidateConditions(c.Conditions); err != nil {
		return err
	}

	if strings.TrimSpace(c.InputDir) == "" {
		return NewConfigError("input_dir", "must not be empty")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return NewConfigError("output_dir", "must not be empty")
	}
	if SamePath(c.InputDir, c.OutputDir) {
		return NewConfigError("output_dir", fmt.Sprintf("input and output paths must differ (both %q)", c.InputDir))
	}

	if c.MaxConcurrency < 0 {
		return NewConfigError("max_concurrency", fmt.Sprintf("must be >= 0, got %d", c.MaxConcurrency))
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return NewConfigError("log_level", fmt.Sprintf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel))
	}

	return nil
}

// ValidateConditions rejects an empty condition set, malformed entries and
// repeated feature keys. Keys are compared case-insensitively because tag
// matching is case-insensitive.
func ValidateConditions(conditions []models.Condition) error {
	if len(conditions) == 0 {
		return NewConfigError("conditions", "no conditions supplied")
	}

	seen := make(map[string]bool, len(conditions))
	for _, cond := range conditions {
		if strings.TrimSpace(cond.Feature) == "" {
			return NewConfigError("conditions", "empty feature key")
		}
		if !semver.Valid(cond.Version) {
			return NewConfigError("conditions", fmt.Sprintf("feature %q: version %q must be major.minor.patch", cond.Feature, cond.Version))
		}

		key := strings.ToLower(cond.Feature)
		if seen[key] {
			return NewConfigError("conditions", fmt.Sprintf("duplicate feature key %q", cond.Feature))
		}
		seen[key] = true
	}

	return nil
}

// SamePath reports whether a and b name the same location once made
// absolute against the working directory.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
