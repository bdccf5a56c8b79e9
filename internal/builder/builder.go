// Package builder walks an input tree, resolves the tagged regions of every
// file and writes the result to a mirrored output tree.
//
// Files are independent: each is read, transformed and written on its own,
// optionally in parallel. A file that fails (unreadable, malformed region,
// unwritable) produces no output and does not stop the others.
package builder

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/harrison/vtoggle/internal/config"
	"github.com/harrison/vtoggle/internal/filelock"
	"github.com/harrison/vtoggle/internal/fileutil"
	"github.com/harrison/vtoggle/internal/models"
	"github.com/harrison/vtoggle/internal/toggle"
)

// Logger receives run progress. Implementations must be safe for
// concurrent use.
type Logger interface {
	LogRunStart(runID string, opts Options)
	LogFileResult(result models.FileResult) error
	LogSummary(result models.RunResult)
}

// Options describes one run.
type Options struct {
	InputPath  string             // File or directory to read
	OutputPath string             // Root of the mirrored output tree
	Conditions []models.Condition // Policies already applied
	Exclude    []string           // Doublestar patterns relative to the input root
	Workers    int                // Parallel file workers (<= 0 means 1)
	DryRun     bool               // Transform but do not write
}

func (o Options) validate() error {
	if err := config.ValidateConditions(o.Conditions); err != nil {
		return err
	}
	if o.OutputPath == "" {
		return config.NewConfigError("output_dir", "must not be empty")
	}
	if config.SamePath(o.InputPath, o.OutputPath) {
		return config.NewConfigError("output_dir", "input and output paths must differ")
	}
	return nil
}

// Builder runs passes over an input tree.
type Builder struct {
	fs      fileutil.FileSystem
	logger  Logger
	metrics *Metrics
}

// New creates a Builder. logger and metrics may be nil.
func New(fsys fileutil.FileSystem, logger Logger, metrics *Metrics) *Builder {
	if fsys == nil {
		fsys = fileutil.NewOSFileSystem()
	}
	return &Builder{fs: fsys, logger: logger, metrics: metrics}
}

// Run performs one complete pass. The returned result lists every file in
// scan order. The error is a *config.ConfigError when opts are invalid (no
// file is touched), an *IOError when the input cannot be scanned, or the
// *FileError of the first failed file in scan order.
func (b *Builder) Run(ctx context.Context, opts Options) (*models.RunResult, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	runID := uuid.New().String()
	if b.logger != nil {
		b.logger.LogRunStart(runID, opts)
	}

	scan, err := fileutil.ScanTree(b.fs, opts.InputPath, fileutil.ScanOptions{
		Exclude:   opts.Exclude,
		SkipPaths: []string{opts.OutputPath, filelock.OutputLockPath(opts.OutputPath)},
	})
	if err != nil {
		return nil, NewIOError("scan", opts.InputPath, err)
	}

	// One engine per run: its pattern table is never shared across runs
	engine := toggle.NewEngine()
	results := mergeScanErrors(b.processAll(ctx, engine, scan, opts), scan.Errors)

	result := &models.RunResult{
		RunID:      runID,
		TotalFiles: len(scan.Files),
		Files:      results,
	}

	var firstErr error
	for _, r := range results {
		switch r.Status {
		case models.StatusWritten:
			result.Written++
		case models.StatusPassthrough:
			result.Passthrough++
		case models.StatusSkipped:
			result.Skipped++
		case models.StatusFailed:
			result.Failed++
			if firstErr == nil {
				firstErr = NewFileError(r.InputPath, r.Error)
			}
		}

		b.metrics.ObserveFile(r)
		if b.logger != nil {
			if logErr := b.logger.LogFileResult(r); logErr != nil && firstErr == nil {
				firstErr = fmt.Errorf("failed to log result for %s: %w", r.InputPath, logErr)
			}
		}
	}

	result.Duration = time.Since(start)
	b.metrics.ObserveRun(result)
	if b.logger != nil {
		b.logger.LogSummary(*result)
	}

	return result, firstErr
}

// mergeScanErrors places a failed result for every scan error at its
// position in the walk, so results stay in scan order.
func mergeScanErrors(files []models.FileResult, scanErrs []*fileutil.ScanError) []models.FileResult {
	if len(scanErrs) == 0 {
		return files
	}

	results := make([]models.FileResult, 0, len(files)+len(scanErrs))
	next := 0
	for _, se := range scanErrs {
		results = append(results, files[next:se.Index]...)
		next = se.Index
		results = append(results, models.FileResult{
			InputPath: se.Path,
			Status:    models.StatusFailed,
			Error:     NewIOError("scan", se.Path, se.Err),
		})
	}
	return append(results, files[next:]...)
}

// processAll fans files out to workers and returns results in scan order.
func (b *Builder) processAll(ctx context.Context, engine *toggle.Engine, scan *fileutil.ScanResult, opts Options) []models.FileResult {
	results := make([]models.FileResult, len(scan.Files))
	if len(scan.Files) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(scan.Files) {
		workers = len(scan.Files)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = b.processFile(engine, scan, scan.Files[i], opts)
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := range scan.Files {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(scan.Files); i++ {
		results[i] = models.FileResult{
			InputPath: scan.Files[i],
			Status:    models.StatusFailed,
			Error:     ctx.Err(),
		}
	}

	return results
}

// processFile reads, transforms and writes one file.
func (b *Builder) processFile(engine *toggle.Engine, scan *fileutil.ScanResult, path string, opts Options) models.FileResult {
	start := time.Now()
	result := models.FileResult{InputPath: path}
	fail := func(err error) models.FileResult {
		result.Status = models.StatusFailed
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	rel, err := scan.Rel(path)
	if err != nil {
		return fail(fmt.Errorf("failed to compute output path: %w", err))
	}
	result.OutputPath = filepath.Join(opts.OutputPath, rel)

	data, err := b.fs.ReadAll(path)
	if err != nil {
		return fail(NewIOError("read", path, err))
	}

	out := data
	result.Status = models.StatusPassthrough
	if dialect := toggle.DialectFor(b.fs.Ext(path)); dialect != nil {
		transformed, report, err := engine.TransformReport(string(data), dialect, opts.Conditions)
		if err != nil {
			return fail(err)
		}
		out = []byte(transformed)
		result.Features = report.Features
		result.Status = models.StatusWritten
	}

	if opts.DryRun {
		result.Status = models.StatusSkipped
		result.Duration = time.Since(start)
		return result
	}

	if err := b.fs.WriteAll(result.OutputPath, out); err != nil {
		return fail(NewIOError("write", result.OutputPath, err))
	}

	result.Duration = time.Since(start)
	return result
}
