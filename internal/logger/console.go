// Package logger provides logging implementations for vtoggle runs.
//
// Loggers report run start, per-file results and the run summary, plus
// free-form leveled messages. Implementations are thread-safe and write to
// the console or to per-run log files.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal reports whether w is a TTY that should receive colors.
// NO_COLOR (via color.NoColor) always wins.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || f == nil {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}

	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
// Format: "[HH:MM:SS] [INFO] <message>"
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, levelColor(level).Sprint(level), message)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] [%s] %s\n", ts, level, message)
}

// LogRunStart logs the start of a run at INFO level.
// Format: "[HH:MM:SS] Run <id>: <input> -> <output> (<conditions>)"
func (cl *ConsoleLogger) LogRunStart(runID string, opts builder.Options) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	conds := formatConditions(opts.Conditions)
	mode := ""
	if opts.DryRun {
		mode = " [dry run]"
	}

	if cl.colorOutput {
		fmt.Fprintf(cl.writer, "[%s] Run %s: %s -> %s (%s)%s\n",
			timestamp(), color.New(color.Bold).Sprint(shortID(runID)), opts.InputPath, opts.OutputPath, conds, mode)
		return
	}
	fmt.Fprintf(cl.writer, "[%s] Run %s: %s -> %s (%s)%s\n",
		timestamp(), shortID(runID), opts.InputPath, opts.OutputPath, conds, mode)
}

// LogFileResult logs one processed file. Failures are logged at ERROR
// level, everything else at DEBUG.
// Format: "[HH:MM:SS] <path>: <status> [<feature>: v<kept> kept, N removed]"
func (cl *ConsoleLogger) LogFileResult(result models.FileResult) error {
	if cl.writer == nil {
		return nil
	}

	level := "debug"
	if result.Failed() {
		level = "error"
	}
	if !cl.shouldLog(level) {
		return nil
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	status := result.Status
	detail := formatFeatureOutcomes(result.Features, cl.colorOutput)
	if result.Error != nil {
		detail = result.Error.Error()
	}
	if cl.colorOutput {
		status = statusColor(result.Status).Sprint(result.Status)
	}

	message := fmt.Sprintf("[%s] %s: %s", timestamp(), displayPath(result.InputPath), status)
	if detail != "" {
		message += " " + detail
	}

	_, err := fmt.Fprintln(cl.writer, message)
	return err
}

// LogSummary logs the run summary with file statistics at INFO level.
func (cl *ConsoleLogger) LogSummary(result models.RunResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var sb strings.Builder

	if cl.colorOutput {
		scheme := newColorScheme()
		sb.WriteString(fmt.Sprintf("[%s] %s\n", ts, color.New(color.Bold).Sprint("=== Run Summary ===")))
		sb.WriteString(fmt.Sprintf("[%s] Total files: %d\n", ts, result.TotalFiles))
		sb.WriteString(fmt.Sprintf("[%s] %s\n", ts, scheme.success.Sprintf("Written: %d", result.Written)))
		sb.WriteString(fmt.Sprintf("[%s] Passthrough: %d\n", ts, result.Passthrough))
		if result.Skipped > 0 {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", ts, scheme.warn.Sprintf("Skipped (dry run): %d", result.Skipped)))
		}
		if result.Failed > 0 {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", ts, scheme.fail.Sprintf("Failed: %d", result.Failed)))
		} else {
			sb.WriteString(fmt.Sprintf("[%s] Failed: 0\n", ts))
		}
		sb.WriteString(fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration)))

		if failed := result.FailedFiles(); len(failed) > 0 {
			sb.WriteString(fmt.Sprintf("[%s] %s\n", ts, scheme.fail.Sprint("Failed files:")))
			for _, f := range failed {
				sb.WriteString(fmt.Sprintf("[%s]   - %s: %v\n", ts, scheme.fail.Sprint(f.InputPath), f.Error))
			}
		}
	} else {
		sb.WriteString(fmt.Sprintf("[%s] === Run Summary ===\n", ts))
		sb.WriteString(fmt.Sprintf("[%s] Total files: %d\n", ts, result.TotalFiles))
		sb.WriteString(fmt.Sprintf("[%s] Written: %d\n", ts, result.Written))
		sb.WriteString(fmt.Sprintf("[%s] Passthrough: %d\n", ts, result.Passthrough))
		if result.Skipped > 0 {
			sb.WriteString(fmt.Sprintf("[%s] Skipped (dry run): %d\n", ts, result.Skipped))
		}
		sb.WriteString(fmt.Sprintf("[%s] Failed: %d\n", ts, result.Failed))
		sb.WriteString(fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration)))

		if failed := result.FailedFiles(); len(failed) > 0 {
			sb.WriteString(fmt.Sprintf("[%s] Failed files:\n", ts))
			for _, f := range failed {
				sb.WriteString(fmt.Sprintf("[%s]   - %s: %v\n", ts, f.InputPath, f.Error))
			}
		}
	}

	io.WriteString(cl.writer, sb.String())
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// shortID returns the first block of a UUID for display.
func shortID(runID string) string {
	if i := strings.IndexByte(runID, '-'); i > 0 {
		return runID[:i]
	}
	return runID
}

func formatConditions(conds []models.Condition) string {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		parts = append(parts, fmt.Sprintf("%s %s", c, c.Policy))
	}
	return strings.Join(parts, ", ")
}

// displayPath shortens absolute paths under the working directory.
func displayPath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "250ms", "5s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder < time.Second {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, remainder/time.Second)
	case d >= time.Second:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// NoOpLogger is a Logger implementation that discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// LogRunStart is a no-op implementation.
func (n *NoOpLogger) LogRunStart(runID string, opts builder.Options) {}

// LogFileResult is a no-op implementation.
func (n *NoOpLogger) LogFileResult(result models.FileResult) error {
	return nil
}

// LogSummary is a no-op implementation.
func (n *NoOpLogger) LogSummary(result models.RunResult) {}
