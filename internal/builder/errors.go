package builder

import (
	"errors"
	"fmt"
	"strings"
)

// IOError represents a failed read, write or directory scan.
type IOError struct {
	Op   string // "read", "write" or "scan"
	Path string // Path the operation was applied to
	Err  error  // Underlying error
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Op: op, Path: path, Err: err}
}

// Error implements the error interface for IOError.
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error wrapping support.
func (e *IOError) Unwrap() error {
	return e.Err
}

// FileError ties a failure to the input file that produced it.
type FileError struct {
	Path string // Input file
	Err  error  // Underlying error (IOError, toggle.MalformedRegionError, ...)
}

// NewFileError creates a new FileError.
func NewFileError(path string, err error) *FileError {
	return &FileError{Path: path, Err: err}
}

// Error implements the error interface for FileError.
func (e *FileError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("file %s", e.Path))
	if e.Err != nil {
		sb.WriteString(fmt.Sprintf(": %v", e.Err))
	}
	return sb.String()
}

// Unwrap returns the underlying error for error wrapping support.
func (e *FileError) Unwrap() error {
	return e.Err
}

// IsIOError checks if the error is or wraps an IOError.
func IsIOError(err error) bool {
	if err == nil {
		return false
	}
	var ie *IOError
	return errors.As(err, &ie)
}

// IsFileError checks if the error is or wraps a FileError.
func IsFileError(err error) bool {
	if err == nil {
		return false
	}
	var fe *FileError
	return errors.As(err, &fe)
}
