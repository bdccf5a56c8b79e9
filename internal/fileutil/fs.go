package fileutil

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/harrison/vtoggle/internal/filelock"
)

// FileSystem is the I/O surface the tree walker needs. The OS
// implementation is used in production; tests substitute their own.
type FileSystem interface {
	// ReadAll returns the full contents of path.
	ReadAll(path string) ([]byte, error)
	// WriteAll writes data to path, creating intermediate directories.
	WriteAll(path string, data []byte) error
	// IsDir reports whether path is a directory.
	IsDir(path string) (bool, error)
	// ListChildren returns the paths of the entries of dir in a stable order.
	ListChildren(dir string) ([]string, error)
	// Ext returns the extension of path including the dot.
	Ext(path string) string
}

// OSFileSystem implements FileSystem on the local disk. Writes are atomic.
type OSFileSystem struct{}

// NewOSFileSystem returns the local-disk FileSystem.
func NewOSFileSystem() OSFileSystem {
	return OSFileSystem{}
}

// ReadAll implements FileSystem.
func (OSFileSystem) ReadAll(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteAll implements FileSystem.
func (OSFileSystem) WriteAll(path string, data []byte) error {
	return filelock.AtomicWrite(path, data, 0644)
}

// IsDir implements FileSystem.
func (OSFileSystem) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ListChildren implements FileSystem. Entries are sorted by name.
func (OSFileSystem) ListChildren(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	children := make([]string, 0, len(entries))
	for _, e := range entries {
		children = append(children, filepath.Join(dir, e.Name()))
	}
	sort.Strings(children)
	return children, nil
}

// Ext implements FileSystem.
func (OSFileSystem) Ext(path string) string {
	return filepath.Ext(path)
}
