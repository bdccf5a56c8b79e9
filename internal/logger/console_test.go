package logger

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/vtoggle/internal/builder"
	"github.com/harrison/vtoggle/internal/models"
)

// Compile-time checks that the loggers satisfy builder.Logger.
var (
	_ builder.Logger = (*ConsoleLogger)(nil)
	_ builder.Logger = (*FileLogger)(nil)
	_ builder.Logger = (*NoOpLogger)(nil)
)

func sampleResult() models.RunResult {
	return models.RunResult{
		RunID:       "3f2a9c1e-0000-4000-8000-000000000000",
		TotalFiles:  3,
		Written:     1,
		Passthrough: 1,
		Failed:      1,
		Duration:    1500 * time.Millisecond,
		Files: []models.FileResult{
			{InputPath: "src/a.js", Status: models.StatusWritten},
			{InputPath: "src/b.png", Status: models.StatusPassthrough},
			{InputPath: "src/c.js", Status: models.StatusFailed, Error: errors.New("no closing comment found for f v(1.0.0)")},
		},
	}
}

// TestNewConsoleLogger verifies the constructor normalizes the level.
func TestNewConsoleLogger(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"info", "info"},
		{"DEBUG", "debug"},
		{"  warn ", "warn"},
		{"", "info"},
		{"verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)
			if logger.logLevel != tt.want {
				t.Errorf("logLevel = %q, want %q", logger.logLevel, tt.want)
			}
			if logger.colorOutput {
				t.Error("expected color disabled for non-terminal writer")
			}
		})
	}
}

// TestConsoleLogger_LevelFiltering verifies messages below the configured level are dropped.
func TestConsoleLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "warn")

	logger.LogTrace("trace message")
	logger.LogDebug("debug message")
	logger.LogInfo("info message")
	logger.LogWarn("warn message")
	logger.LogError("error message")

	output := buf.String()
	for _, hidden := range []string{"trace message", "debug message", "info message"} {
		if strings.Contains(output, hidden) {
			t.Errorf("expected %q to be filtered, got %q", hidden, output)
		}
	}
	if !strings.Contains(output, "[WARN] warn message") {
		t.Errorf("expected warn message, got %q", output)
	}
	if !strings.Contains(output, "[ERROR] error message") {
		t.Errorf("expected error message, got %q", output)
	}
}

func TestConsoleLogger_NilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, "trace")
	logger.LogInfo("ignored")
	logger.LogRunStart("id", builder.Options{})
	logger.LogSummary(sampleResult())
	if err := logger.LogFileResult(models.FileResult{Status: models.StatusFailed}); err != nil {
		t.Errorf("LogFileResult() error = %v", err)
	}
}

func TestConsoleLogger_LogRunStart(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogRunStart("3f2a9c1e-0000-4000-8000-000000000000", builder.Options{
		InputPath:  "src",
		OutputPath: "ver",
		Conditions: []models.Condition{
			{Feature: "checkout", Version: "2.0.0", Policy: models.PolicyExact},
			{Feature: "banner", Version: "1.1.0", Policy: models.PolicyNearestLowerOrEqual},
		},
		DryRun: true,
	})

	output := buf.String()
	want := "Run 3f2a9c1e: src -> ver (checkout:2.0.0 exact, banner:1.1.0 nearest) [dry run]"
	if !strings.Contains(output, want) {
		t.Errorf("expected %q in %q", want, output)
	}
}

func TestConsoleLogger_LogFileResult(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		result   models.FileResult
		contains []string
		empty    bool
	}{
		{
			name:  "written file at debug",
			level: "debug",
			result: models.FileResult{
				InputPath: "src/a.js",
				Status:    models.StatusWritten,
				Features: []models.FeatureOutcome{
					{Feature: "checkout", Versions: []string{"1.0.0", "2.0.0"}, Surviving: "2.0.0", Kept: 1, Removed: 1},
					{Feature: "unused"},
				},
			},
			contains: []string{"src/a.js: WRITTEN [checkout: v2.0.0 kept, 1 removed]"},
		},
		{
			name:   "written file hidden at info",
			level:  "info",
			result: models.FileResult{InputPath: "src/a.js", Status: models.StatusWritten},
			empty:  true,
		},
		{
			name:  "failure shown at info",
			level: "info",
			result: models.FileResult{
				InputPath: "src/c.js",
				Status:    models.StatusFailed,
				Error:     errors.New("no closing comment found for f v(1.0.0)"),
			},
			contains: []string{"src/c.js: FAILED no closing comment found for f v(1.0.0)"},
		},
		{
			name:  "all regions removed",
			level: "debug",
			result: models.FileResult{
				InputPath: "src/x.html",
				Status:    models.StatusWritten,
				Features:  []models.FeatureOutcome{{Feature: "f", Versions: []string{"3.0.0", "4.0.0"}, Removed: 2}},
			},
			contains: []string{"[f: 2 removed]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			if err := logger.LogFileResult(tt.result); err != nil {
				t.Fatalf("LogFileResult() error = %v", err)
			}

			output := buf.String()
			if tt.empty && output != "" {
				t.Errorf("expected no output, got %q", output)
			}
			for _, want := range tt.contains {
				if !strings.Contains(output, want) {
					t.Errorf("expected %q in %q", want, output)
				}
			}
		})
	}
}

func TestConsoleLogger_LogSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	logger.LogSummary(sampleResult())

	output := buf.String()
	for _, want := range []string{
		"=== Run Summary ===",
		"Total files: 3",
		"Written: 1",
		"Passthrough: 1",
		"Failed: 1",
		"Duration: 1.5s",
		"Failed files:",
		"- src/c.js: no closing comment found",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in summary, got %q", want, output)
		}
	}
	if strings.Contains(output, "Skipped") {
		t.Errorf("skipped line should only appear for dry runs, got %q", output)
	}
}

func TestConsoleLogger_ColorOutput(t *testing.T) {
	saved := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = saved }()

	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")
	logger.colorOutput = true

	logger.LogError("boom")
	if err := logger.LogFileResult(models.FileResult{InputPath: "a.js", Status: models.StatusWritten}); err != nil {
		t.Fatalf("LogFileResult() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "\x1b[") {
		t.Errorf("expected ANSI codes in colored output, got %q", output)
	}
	if !strings.Contains(output, "boom") || !strings.Contains(output, "WRITTEN") {
		t.Errorf("expected message text in colored output, got %q", output)
	}
}

// TestConsoleLogger_Concurrent verifies lines are not interleaved under concurrent use.
func TestConsoleLogger_Concurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "debug")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogFileResult(models.FileResult{InputPath: "src/a.js", Status: models.StatusWritten})
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("expected 50 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !strings.HasSuffix(line, "src/a.js: WRITTEN") {
			t.Errorf("unexpected line %q", line)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{250 * time.Millisecond, "250ms"},
		{1500 * time.Millisecond, "1.5s"},
		{time.Minute, "1m"},
		{90 * time.Second, "1m30s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("3f2a9c1e-0000-4000"); got != "3f2a9c1e" {
		t.Errorf("shortID() = %q", got)
	}
	if got := shortID("plain"); got != "plain" {
		t.Errorf("shortID() = %q", got)
	}
}
