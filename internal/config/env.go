package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/harrison/vtoggle/internal/models"
	"github.com/joho/godotenv"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvInputDir       = "VTOGGLE_INPUT_DIR"
	EnvOutputDir      = "VTOGGLE_OUTPUT_DIR"
	EnvExact          = "VTOGGLE_EXACT"
	EnvConditions     = "VTOGGLE_CONDITIONS"
	EnvLogLevel       = "VTOGGLE_LOG_LEVEL"
	EnvMaxConcurrency = "VTOGGLE_MAX_CONCURRENCY"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Variables already set are not overwritten and missing files
// are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides configuration values from VTOGGLE_* variables.
// lookup is normally os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(EnvInputDir); ok && v != "" {
		c.InputDir = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		c.OutputDir = v
	}
	if v, ok := lookup(EnvExact); ok && v != "" {
		exact, err := strconv.ParseBool(v)
		if err != nil {
			return NewConfigError(EnvExact, fmt.Sprintf("invalid boolean %q", v))
		}
		c.Exact = exact
	}
	if v, ok := lookup(EnvConditions); ok && v != "" {
		conds, err := models.ParseConditionList([]string{v})
		if err != nil {
			return NewConfigError(EnvConditions, err.Error())
		}
		c.Conditions = conds
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvMaxConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return NewConfigError(EnvMaxConcurrency, fmt.Sprintf("invalid integer %q", v))
		}
		c.MaxConcurrency = n
	}

	return nil
}
