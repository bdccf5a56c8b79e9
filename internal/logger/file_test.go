package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/models"
)

func readRunLog(t *testing.T, logger *FileLogger) string {
	t.Helper()
	data, err := os.ReadFile(logger.RunFile())
	if err != nil {
		t.Fatalf("Failed to read run log: %v", err)
	}
	return string(data)
}

// TestNewFileLogger_DefaultDir verifies .vtoggle/logs/ is created in the working directory.
func TestNewFileLogger_DefaultDir(t *testing.T) {
	tmpDir := t.TempDir()
	chdir(t, tmpDir)

	logger, err := NewFileLogger()
	if err != nil {
		t.Fatalf("NewFileLogger() error = %v", err)
	}
	defer logger.Close()

	logDir := filepath.Join(tmpDir, ".vtoggle", "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Expected log directory %s to exist", logDir)
	}
	if !strings.HasPrefix(filepath.Base(logger.RunFile()), "run-") {
		t.Errorf("Expected run-*.log, got %s", logger.RunFile())
	}
}

// TestLatestSymlink verifies latest.log points at the current run log.
func TestLatestSymlink(t *testing.T) {
	logDir := t.TempDir()

	logger, err := NewFileLoggerWithDir(logDir)
	if err != nil {
		t.Fatalf("NewFileLoggerWithDir() error = %v", err)
	}
	defer logger.Close()

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	if err != nil {
		t.Fatalf("Failed to read symlink: %v", err)
	}
	if target != filepath.Base(logger.RunFile()) {
		t.Errorf("latest.log -> %s, want %s", target, filepath.Base(logger.RunFile()))
	}

	// A second logger replaces the symlink instead of failing
	second, err := NewFileLoggerWithDir(logDir)
	if err != nil {
		t.Fatalf("second NewFileLoggerWithDir() error = %v", err)
	}
	defer second.Close()
}

func TestFileLogger_RunRecord(t *testing.T) {
	logger, err := NewFileLoggerWithDirAndLevel(t.TempDir(), "info")
	if err != nil {
		t.Fatalf("NewFileLoggerWithDirAndLevel() error = %v", err)
	}
	defer logger.Close()

	logger.LogRunStart("3f2a9c1e-0000-4000-8000-000000000000", builder.Options{
		InputPath:  "src",
		OutputPath: "ver",
		Conditions: []models.Condition{{Feature: "checkout", Version: "2.0.0", Policy: models.PolicyExact}},
		Exclude:    []string{"**/node_modules"},
	})
	if err := logger.LogFileResult(models.FileResult{
		InputPath:  "src/a.js",
		OutputPath: "ver/a.js",
		Status:     models.StatusWritten,
		Duration:   2 * time.Millisecond,
		Features: []models.FeatureOutcome{
			{Feature: "checkout", Versions: []string{"1.0.0", "2.0.0"}, Surviving: "2.0.0", Kept: 1, Removed: 1},
		},
	}); err != nil {
		t.Fatalf("LogFileResult() error = %v", err)
	}
	logger.LogDebug("filtered at info")
	logger.LogSummary(sampleResult())

	content := readRunLog(t, logger)
	for _, want := range []string{
		"=== vtoggle Run Log ===",
		"Run ID: 3f2a9c1e-0000-4000-8000-000000000000",
		"Condition: checkout:2.0.0 (exact)",
		"Exclude: **/node_modules",
		"src/a.js: WRITTEN -> ver/a.js (2ms)",
		"checkout: found [1.0.0, 2.0.0], kept 2.0.0 x1, removed 1",
		"=== Run Summary ===",
		"Status: FAILED",
		"  - src/c.js: no closing comment found",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("expected %q in run log:\n%s", want, content)
		}
	}
	if strings.Contains(content, "filtered at info") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestFileLogger_Close(t *testing.T) {
	logger, err := NewFileLoggerWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileLoggerWithDir() error = %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	// Writes after close are dropped
	if err := logger.LogFileResult(models.FileResult{InputPath: "a.js", Status: models.StatusWritten}); err != nil {
		t.Errorf("LogFileResult() after Close error = %v", err)
	}
	logger.LogInfo("after close")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to chdir to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	})
}
