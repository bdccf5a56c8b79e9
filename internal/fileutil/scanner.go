package fileutil

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ScanOptions configures the tree scan
type ScanOptions struct {
	// Exclude lists doublestar patterns matched against the slash-separated
	// path relative to the scan root (e.g. "**/node_modules", "vendor/**").
	// A matching directory is pruned; a matching file is skipped.
	Exclude []string
	// SkipPaths lists paths that are never entered, such as an output tree
	// nested inside the input tree.
	SkipPaths []string
}

// ScanResult contains the results of a tree scan
type ScanResult struct {
	// Root is the directory output paths are made relative to. For a
	// single-file scan it is the file's parent directory.
	Root string
	// Files contains every regular file found, in depth-first order
	Files []string
	// Errors contains paths that could not be listed or inspected, in walk
	// order
	Errors []*ScanError
}

// ScanError is a path the walk could not read. Index is the number of files
// found before it, which places the error among Files in walk order.
type ScanError struct {
	Path  string
	Index int
	Err   error
}

// Error implements the error interface for ScanError.
func (e *ScanError) Error() string {
	return fmt.Sprintf("error accessing %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Rel returns path relative to the scan root.
func (r *ScanResult) Rel(path string) (string, error) {
	return filepath.Rel(r.Root, path)
}

// ScanTree enumerates every file under input. When input is a file the
// result holds just that file. Directories are visited depth-first with
// children in the order ListChildren returns them, so the file order is
// deterministic.
func ScanTree(fsys FileSystem, input string, opts ScanOptions) (*ScanResult, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	isDir, err := fsys.IsDir(input)
	if err != nil {
		return nil, fmt.Errorf("failed to access input: %w", err)
	}

	if !isDir {
		return &ScanResult{
			Root:  filepath.Dir(input),
			Files: []string{input},
		}, nil
	}

	s := &scanner{
		fsys:   fsys,
		opts:   opts,
		skip:   make(map[string]bool, len(opts.SkipPaths)),
		result: &ScanResult{Root: input, Files: make([]string, 0)},
	}
	for _, p := range opts.SkipPaths {
		s.skip[absClean(p)] = true
	}

	s.walk(input)
	return s.result, nil
}

type scanner struct {
	fsys   FileSystem
	opts   ScanOptions
	skip   map[string]bool
	result *ScanResult
}

func (s *scanner) walk(dir string) {
	children, err := s.fsys.ListChildren(dir)
	if err != nil {
		s.fail(dir, err)
		return
	}

	for _, child := range children {
		if s.skip[absClean(child)] {
			continue
		}

		isDir, err := s.fsys.IsDir(child)
		if err != nil {
			s.fail(child, err)
			continue
		}

		if s.excluded(child) {
			continue
		}

		if isDir {
			s.walk(child)
			continue
		}
		s.result.Files = append(s.result.Files, child)
	}
}

func (s *scanner) fail(path string, err error) {
	s.result.Errors = append(s.result.Errors, &ScanError{Path: path, Index: len(s.result.Files), Err: err})
}

func (s *scanner) excluded(path string) bool {
	if len(s.opts.Exclude) == 0 {
		return false
	}

	rel, err := filepath.Rel(s.result.Root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range s.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func absClean(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
