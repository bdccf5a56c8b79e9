package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/harrison/vtoggle/internal/models"
)

// CheckReport prints what a run would do to each file without writing
// anything. Files without tagged regions are only counted.
type CheckReport struct {
	writer  io.Writer
	colored bool
}

// NewCheckReport creates a report writing to w.
func NewCheckReport(w io.Writer) *CheckReport {
	return &CheckReport{writer: w, colored: colorEnabled(w)}
}

func (r *CheckReport) paint(attr color.Attribute, s string) string {
	c := color.New(attr)
	if r.colored {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Print writes the report for result.
func (r *CheckReport) Print(result *models.RunResult) {
	var tagged []models.FileResult
	for _, f := range result.Files {
		if f.Failed() || hasRegions(f) {
			tagged = append(tagged, f)
		}
	}

	fmt.Fprintf(r.writer, "Checked %d files, %d with tagged regions:\n", result.TotalFiles, countRegions(tagged))

	for i, f := range tagged {
		if f.Failed() {
			fmt.Fprintf(r.writer, "%s\n", r.paint(color.FgRed, fmt.Sprintf("  [%d/%d] %s: %v", i+1, len(tagged), f.InputPath, f.Error)))
			continue
		}
		fmt.Fprintf(r.writer, "%s\n", r.paint(color.FgCyan, fmt.Sprintf("  [%d/%d] %s", i+1, len(tagged), f.InputPath)))
		for _, o := range f.Features {
			if len(o.Versions) == 0 {
				continue
			}
			keeps := "removes all"
			if o.Surviving != "" {
				keeps = "keeps " + o.Surviving
			}
			fmt.Fprintf(r.writer, "        %s: %s -> %s\n", o.Feature, strings.Join(o.Versions, ", "), keeps)
		}
	}

	if result.Failed > 0 {
		fmt.Fprintf(r.writer, "%s %d file(s) failed\n", r.paint(color.FgRed, "✗"), result.Failed)
		return
	}
	fmt.Fprintf(r.writer, "%s No malformed regions\n", r.paint(color.FgGreen, "✓"))
}

func hasRegions(f models.FileResult) bool {
	for _, o := range f.Features {
		if len(o.Versions) > 0 {
			return true
		}
	}
	return false
}

func countRegions(files []models.FileResult) int {
	n := 0
	for _, f := range files {
		if hasRegions(f) {
			n++
		}
	}
	return n
}
