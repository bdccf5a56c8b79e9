// Package display provides terminal output for warnings and check reports.
//
// Warnings are shown after a run when something needs the user's
// attention but did not fail the run:
//
//	if unmatched := result.UnmatchedFeatures(conds); len(unmatched) > 0 {
//	    display.WarnUnmatchedFeatures(unmatched).Display(os.Stderr)
//	}
//
// The check report lists, per file with tagged regions, which versions
// were found and which one would survive:
//
//	display.NewCheckReport(os.Stdout).Print(result)
//
// Colors come from fatih/color and are enabled only when the writer is a
// terminal and NO_COLOR is unset. All functions accept io.Writer for
// testability.
package display
