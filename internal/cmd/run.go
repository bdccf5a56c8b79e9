package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/config"
	"github.com/harrison/vtoggle/internal/display"
	"github.com/harrison/vtoggle/internal/filelock"
	"github.com/harrison/vtoggle/internal/fileutil"
	"github.com/harrison/vtoggle/internal/logger"
	"github.com/harrison/vtoggle/internal/models"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the version-toggled output tree",
		Long: `Copy the input tree to the output directory, resolving every tagged
region against the given conditions.

Configuration is loaded from .vtoggle/config.yaml if present, then from
.env and VTOGGLE_* environment variables. CLI flags override both.

Examples:
  # Keep checkout 2.0.0 regions, drop every other checkout version
  vtoggle run -c checkout:2.0.0

  # Several features, nearest lower version allowed
  vtoggle run -c checkout:2.1.0 -c banner:1.4.0 --exact=false

  # Custom directories, skip vendored code
  vtoggle run -i web/ -o dist/ -c checkout:2.0.0 --exclude '**/vendor/**'

  # Rebuild whenever the input changes
  vtoggle run -c checkout:2.0.0 --watch`,
		Args: noArgs,
		RunE: runCommand,
	}

	addBuildFlags(cmd)
	cmd.Flags().Bool("dry-run", false, "Transform files without writing output")
	cmd.Flags().Bool("watch", false, "Rebuild whenever a file under the input changes")
	cmd.Flags().Bool("verbose", false, "Log every file (forces debug level)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error (default: info)")
	cmd.Flags().String("log-dir", "", "Directory for per-run log files (default: no file log)")
	cmd.Flags().String("metrics-file", "", "Write Prometheus text-format metrics to this file after each run")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logLevel := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logLevel = "debug"
	}

	loggers := []builder.Logger{logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)}
	if cfg.LogDir != "" {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, logLevel)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		defer fileLog.Close()
		loggers = append(loggers, fileLog)
	}

	// Dry runs write nothing and need no lock
	if !cfg.DryRun {
		lock, err := filelock.AcquireOutputLock(cfg.OutputDir)
		if err != nil {
			return fmt.Errorf("failed to lock output %s: %w", cfg.OutputDir, err)
		}
		defer lock.Unlock()
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := builder.NewMetrics()
	b := builder.New(fileutil.NewOSFileSystem(), &multiLogger{loggers: loggers}, metrics)
	opts := buildOptions(cfg)

	result, runErr := b.Run(ctx, opts)
	if result == nil {
		// Nothing ran: bad options or an unreadable input root
		return fmt.Errorf("run failed: %w", runErr)
	}
	reportRun(cmd.ErrOrStderr(), cfg, opts.Conditions, result, metrics)

	if watch, _ := cmd.Flags().GetBool("watch"); watch {
		return watchCommand(ctx, cmd, cfg, b, opts, metrics)
	}

	if runErr != nil {
		if result.Failed > 0 {
			return fmt.Errorf("%d file(s) failed: %w", result.Failed, runErr)
		}
		return runErr
	}
	return nil
}

// watchCommand rebuilds on every input change until interrupted.
func watchCommand(ctx context.Context, cmd *cobra.Command, cfg *config.Config, b *builder.Builder, opts builder.Options, metrics *builder.Metrics) error {
	stderr := cmd.ErrOrStderr()
	w, err := b.NewWatcher(opts, builder.WatchOptions{
		OnRun: func(result *models.RunResult, err error) {
			if result == nil {
				fmt.Fprintf(stderr, "Rebuild failed: %v\n", err)
				return
			}
			reportRun(stderr, cfg, opts.Conditions, result, metrics)
		},
		OnError: func(err error) {
			fmt.Fprintf(stderr, "Watch error: %v\n", err)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.InputPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for changes (Ctrl+C to stop)...\n", opts.InputPath)
	return w.Run(ctx)
}

// reportRun prints post-run warnings and writes the metrics textfile.
func reportRun(w io.Writer, cfg *config.Config, conds []models.Condition, result *models.RunResult, metrics *builder.Metrics) {
	if unmatched := result.UnmatchedFeatures(conds); len(unmatched) > 0 && result.TotalFiles > 0 {
		display.WarnUnmatchedFeatures(unmatched).Display(w)
	}
	if failed := result.FailedFiles(); len(failed) > 0 {
		display.WarnFailedFiles(failed).Display(w)
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			fmt.Fprintf(w, "Warning: %v\n", err)
		}
	}
}

// multiLogger implements builder.Logger by delegating to multiple loggers
type multiLogger struct {
	loggers []builder.Logger
}

// LogRunStart forwards to all loggers
func (ml *multiLogger) LogRunStart(runID string, opts builder.Options) {
	for _, l := range ml.loggers {
		l.LogRunStart(runID, opts)
	}
}

// LogFileResult forwards to all loggers
func (ml *multiLogger) LogFileResult(result models.FileResult) error {
	var lastErr error
	for _, l := range ml.loggers {
		if err := l.LogFileResult(result); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result models.RunResult) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}
