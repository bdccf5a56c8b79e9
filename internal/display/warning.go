package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/vtoggle/internal/models"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files or names (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning, in yellow when out is a terminal.
func (w Warning) Display(out io.Writer) {
	w.render(out, colorEnabled(out))
}

func (w Warning) render(out io.Writer, colored bool) {
	var b strings.Builder

	b.WriteString("Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion: ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	yellow := color.New(color.FgYellow)
	if colored {
		yellow.EnableColor()
	} else {
		yellow.DisableColor()
	}
	yellow.Fprint(out, b.String())
}

// WarnUnmatchedFeatures creates a warning for condition features that
// matched no region in any processed file. Usually a typo in the key.
func WarnUnmatchedFeatures(features []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("%d feature(s) matched no tagged region", len(features)),
		Files:      features,
		Suggestion: "check the feature keys against the tags in your sources",
	}
}

// WarnFailedFiles creates a warning listing files that produced no output.
func WarnFailedFiles(failed []models.FileResult) Warning {
	files := make([]string, 0, len(failed))
	for _, f := range failed {
		files = append(files, fmt.Sprintf("%s: %v", f.InputPath, f.Error))
	}
	return Warning{
		Title:   fmt.Sprintf("%d file(s) were not written", len(failed)),
		Message: "Outputs of these files are missing or stale.",
		Files:   files,
	}
}

// colorEnabled reports whether out is a terminal and NO_COLOR is unset.
func colorEnabled(out io.Writer) bool {
	f, ok := out.(*os.File)
	if !ok || color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
