package models

import "time"

// File processing status constants
const (
	StatusWritten     = "WRITTEN"     // Tagged regions resolved and output written
	StatusPassthrough = "PASSTHROUGH" // Unrecognized extension, copied unchanged
	StatusSkipped     = "SKIPPED"     // Dry run, nothing written
	StatusFailed      = "FAILED"      // Read, transform or write failed
)

// FeatureOutcome records what happened to one feature's regions in one file.
type FeatureOutcome struct {
	Feature   string   // Feature key from the condition
	Versions  []string // Discovered versions in order of appearance
	Surviving string   // Version whose bodies were kept ("" when none)
	Kept      int      // Regions whose body was kept
	Removed   int      // Regions removed entirely
}

// FileResult represents the result of processing a single file
type FileResult struct {
	InputPath  string           // Path that was read
	OutputPath string           // Mirrored output path
	Status     string           // One of the Status* constants
	Features   []FeatureOutcome // Per-feature outcomes (nil for pass-through files)
	Error      error            // Error if processing failed
	Duration   time.Duration    // Time taken to read, transform and write
}

// Failed reports whether the file produced no output because of an error.
func (r FileResult) Failed() bool {
	return r.Status == StatusFailed
}

// RunResult represents the aggregate result of one pass over the input tree
type RunResult struct {
	RunID       string        // Unique identifier of this run
	TotalFiles  int           // Number of files discovered
	Written     int           // Files transformed and written
	Passthrough int           // Files copied unchanged
	Skipped     int           // Files not written because of dry run
	Failed      int           // Files that failed
	Duration    time.Duration // Total run time
	Files       []FileResult  // Per-file results in scan order
}

// FailedFiles returns the results of files that failed, in scan order.
func (r *RunResult) FailedFiles() []FileResult {
	var failed []FileResult
	for _, f := range r.Files {
		if f.Failed() {
			failed = append(failed, f)
		}
	}
	return failed
}

// UnmatchedFeatures returns the features from conditions that matched no
// region in any processed file, in condition order.
func (r *RunResult) UnmatchedFeatures(conditions []Condition) []string {
	seen := make(map[string]bool)
	for _, f := range r.Files {
		for _, o := range f.Features {
			if len(o.Versions) > 0 {
				seen[o.Feature] = true
			}
		}
	}

	var unmatched []string
	for _, c := range conditions {
		if !seen[c.Feature] {
			unmatched = append(unmatched, c.Feature)
		}
	}
	return unmatched
}
