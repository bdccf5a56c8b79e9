package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/vtoggle/internal/models"
)

// colorScheme defines consistent colors for result types.
// Green: kept/written
// Red: failures
// Yellow: removed/skipped
// Cyan: labels and identifiers
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgCyan),
	}
}

func levelColor(level string) *color.Color {
	switch strings.ToUpper(level) {
	case "TRACE":
		return color.New(color.FgHiBlack)
	case "DEBUG":
		return color.New(color.FgCyan)
	case "INFO":
		return color.New(color.FgBlue)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

func statusColor(status string) *color.Color {
	switch status {
	case models.StatusWritten:
		return color.New(color.FgGreen)
	case models.StatusPassthrough:
		return color.New(color.FgHiBlack)
	case models.StatusSkipped:
		return color.New(color.FgYellow)
	case models.StatusFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.Reset)
	}
}

// formatFeatureOutcomes renders the features that had regions in a file.
// Features without regions are left out. Returns "" when none had any.
// Format: "[checkout: v2.0.0 kept, 1 removed; banner: 2 removed]"
func formatFeatureOutcomes(outcomes []models.FeatureOutcome, colored bool) string {
	scheme := newColorScheme()
	var parts []string

	for _, o := range outcomes {
		if len(o.Versions) == 0 {
			continue
		}

		name := o.Feature
		if colored {
			name = scheme.label.Sprint(o.Feature)
		}

		var detail []string
		if o.Surviving != "" {
			kept := fmt.Sprintf("v%s kept", o.Surviving)
			if o.Kept > 1 {
				kept = fmt.Sprintf("v%s kept x%d", o.Surviving, o.Kept)
			}
			if colored {
				kept = scheme.success.Sprint(kept)
			}
			detail = append(detail, kept)
		}
		if o.Removed > 0 {
			removed := fmt.Sprintf("%d removed", o.Removed)
			if colored {
				removed = scheme.warn.Sprint(removed)
			}
			detail = append(detail, removed)
		}

		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(detail, ", ")))
	}

	if len(parts) == 0 {
		return ""
	}
	return "[" + strings.Join(parts, "; ") + "]"
}
