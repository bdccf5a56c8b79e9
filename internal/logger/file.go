package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/models"
)

// DefaultLogDir is where FileLogger writes when no directory is configured.
var DefaultLogDir = filepath.Join(".vtoggle", "logs")

// FileLogger logs runs to files in .vtoggle/logs/.
// It creates a timestamped log file per invocation and maintains a
// latest.log symlink pointing to the most recent one.
// It is thread-safe and implements builder.Logger.
// Per-file results are always written regardless of level, so the file
// holds a complete record of what each run did.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger that writes to .vtoggle/logs/ at
// level "info".
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(DefaultLogDir, "info")
}

// NewFileLoggerWithDir creates a new FileLogger with a custom log directory.
func NewFileLoggerWithDir(logDir string) (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(logDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a new FileLogger with a custom log
// directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	timestamp := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", timestamp))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Create/update latest.log symlink
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	logger.writeRunLog("=== vtoggle Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// RunFile returns the path of the log file being written.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// LogRunStart writes the run header: ID, paths, policy and conditions.
func (fl *FileLogger) LogRunStart(runID string, opts builder.Options) {
	var sb strings.Builder
	ts := time.Now().Format("15:04:05")

	sb.WriteString(fmt.Sprintf("[%s] Run ID: %s\n", ts, runID))
	sb.WriteString(fmt.Sprintf("[%s] Input: %s\n", ts, opts.InputPath))
	sb.WriteString(fmt.Sprintf("[%s] Output: %s\n", ts, opts.OutputPath))
	for _, c := range opts.Conditions {
		sb.WriteString(fmt.Sprintf("[%s] Condition: %s (%s)\n", ts, c, c.Policy))
	}
	if len(opts.Exclude) > 0 {
		sb.WriteString(fmt.Sprintf("[%s] Exclude: %s\n", ts, strings.Join(opts.Exclude, ", ")))
	}
	if opts.DryRun {
		sb.WriteString(fmt.Sprintf("[%s] Dry run: no files will be written\n", ts))
	}

	fl.writeRunLog(sb.String())
}

// LogFileResult writes one line per file plus one line per feature that
// had regions in it.
func (fl *FileLogger) LogFileResult(result models.FileResult) error {
	var sb strings.Builder
	ts := time.Now().Format("15:04:05")

	sb.WriteString(fmt.Sprintf("[%s] %s: %s", ts, result.InputPath, result.Status))
	if result.OutputPath != "" && !result.Failed() {
		sb.WriteString(fmt.Sprintf(" -> %s", result.OutputPath))
	}
	sb.WriteString(fmt.Sprintf(" (%s)\n", formatDuration(result.Duration)))
	if result.Error != nil {
		sb.WriteString(fmt.Sprintf("[%s]   error: %v\n", ts, result.Error))
	}

	for _, o := range result.Features {
		if len(o.Versions) == 0 {
			continue
		}
		surviving := o.Surviving
		if surviving == "" {
			surviving = "none"
		}
		sb.WriteString(fmt.Sprintf("[%s]   %s: found [%s], kept %s x%d, removed %d\n",
			ts, o.Feature, strings.Join(o.Versions, ", "), surviving, o.Kept, o.Removed))
	}

	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.runLog == nil {
		return nil
	}
	if _, err := fl.runLog.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write run log: %w", err)
	}
	return nil
}

// LogSummary logs the run summary at INFO level.
func (fl *FileLogger) LogSummary(result models.RunResult) {
	if !fl.shouldLog("info") {
		return
	}

	status := "SUCCESS"
	if result.Failed > 0 {
		status = "FAILED"
	}

	var sb strings.Builder
	sb.WriteString("\n=== Run Summary ===\n")
	sb.WriteString(fmt.Sprintf("Run ID: %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Status: %s\n", status))
	sb.WriteString(fmt.Sprintf("Total files: %d\n", result.TotalFiles))
	sb.WriteString(fmt.Sprintf("Written: %d\n", result.Written))
	sb.WriteString(fmt.Sprintf("Passthrough: %d\n", result.Passthrough))
	sb.WriteString(fmt.Sprintf("Skipped: %d\n", result.Skipped))
	sb.WriteString(fmt.Sprintf("Failed: %d\n", result.Failed))
	sb.WriteString(fmt.Sprintf("Duration: %.2fs\n", result.Duration.Seconds()))

	if failed := result.FailedFiles(); len(failed) > 0 {
		sb.WriteString("\nFailed files:\n")
		for _, f := range failed {
			sb.WriteString(fmt.Sprintf("  - %s: %v\n", f.InputPath, f.Error))
		}
	}
	sb.WriteString("\n")

	fl.writeRunLog(sb.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		fl.runLog.Sync()
	}
}
