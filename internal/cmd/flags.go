package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/config"
	"github.com/harrison/vtoggle/internal/models"
)

// addBuildFlags registers the flags shared by run and check.
func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("input", "i", "", "Input file or directory (default: src/)")
	cmd.Flags().StringP("output", "o", "", "Output directory (default: ver/)")
	cmd.Flags().StringSliceP("condition", "c", nil, "Condition feature:major.minor.patch (repeatable or comma separated)")
	cmd.Flags().BoolP("exact", "e", true, "Exact version matching; use --exact=false (or -e=false) to keep the nearest lower version")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns relative to the input root to skip (e.g. **/node_modules)")
	cmd.Flags().Int("max-concurrency", 0, "Files processed in parallel (0 = number of CPUs)")
	cmd.Flags().String("config", "", "Path to config file (default: .vtoggle/config.yaml)")
}

// noArgs rejects positional arguments. A stray boolean usually comes from
// "-e false", which the flag parser reads as -e followed by an argument.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if v, err := strconv.ParseBool(args[0]); err == nil {
		return fmt.Errorf("unexpected argument %q: boolean flags take their value after '=', e.g. --exact=%t", args[0], v)
	}
	return cobra.NoArgs(cmd, args)
}

// loadConfig layers defaults, the config file, .env and VTOGGLE_*
// variables, and explicitly set flags, then validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := config.LoadDotEnv(".env"); err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	overrides, err := overridesFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	cfg.MergeWithFlags(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// overridesFromFlags collects the flags that were set on the command line.
// Flags a command does not define are skipped.
func overridesFromFlags(cmd *cobra.Command) (config.Overrides, error) {
	var o config.Overrides
	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed("input") {
		v, _ := flags.GetString("input")
		o.InputDir = &v
	}
	if changed("output") {
		v, _ := flags.GetString("output")
		o.OutputDir = &v
	}
	if changed("condition") {
		values, _ := flags.GetStringSlice("condition")
		conds, err := models.ParseConditionList(values)
		if err != nil {
			return o, fmt.Errorf("invalid --condition: %w", err)
		}
		o.Conditions = conds
	}
	if changed("exact") {
		v, _ := flags.GetBool("exact")
		o.Exact = &v
	}
	if changed("exclude") {
		o.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if changed("max-concurrency") {
		v, _ := flags.GetInt("max-concurrency")
		o.MaxConcurrency = &v
	}
	if changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}
	if changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		o.LogDir = &v
	}
	if changed("metrics-file") {
		v, _ := flags.GetString("metrics-file")
		o.MetricsFile = &v
	}
	if changed("dry-run") {
		v, _ := flags.GetBool("dry-run")
		o.DryRun = &v
	}

	return o, nil
}

// buildOptions turns a validated config into builder options.
func buildOptions(cfg *config.Config) builder.Options {
	return builder.Options{
		InputPath:  cfg.InputDir,
		OutputPath: cfg.OutputDir,
		Conditions: cfg.ResolvedConditions(),
		Exclude:    cfg.Exclude,
		Workers:    cfg.Workers(),
		DryRun:     cfg.DryRun,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
