package fileutil

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// MemFileSystem is an in-memory FileSystem. Directories exist implicitly
// as parents of files. ReadErrors, WriteErrors and ListErrors inject
// failures per path.
type MemFileSystem struct {
	mu          sync.Mutex
	files       map[string][]byte
	ReadErrors  map[string]error
	WriteErrors map[string]error
	ListErrors  map[string]error
}

// NewMemFileSystem creates a MemFileSystem holding files (path → content).
func NewMemFileSystem(files map[string]string) *MemFileSystem {
	m := &MemFileSystem{
		files:       make(map[string][]byte, len(files)),
		ReadErrors:  make(map[string]error),
		WriteErrors: make(map[string]error),
		ListErrors:  make(map[string]error),
	}
	for p, content := range files {
		m.files[filepath.Clean(p)] = []byte(content)
	}
	return m
}

// ReadAll implements FileSystem.
func (m *MemFileSystem) ReadAll(path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.ReadErrors[path]; err != nil {
		return nil, err
	}
	data, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteAll implements FileSystem.
func (m *MemFileSystem) WriteAll(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if err := m.WriteErrors[path]; err != nil {
		return err
	}
	if m.isDirLocked(path) {
		return &fs.PathError{Op: "write", Path: path, Err: fmt.Errorf("is a directory")}
	}
	m.files[path] = append([]byte(nil), data...)
	return nil
}

// IsDir implements FileSystem.
func (m *MemFileSystem) IsDir(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if _, ok := m.files[path]; ok {
		return false, nil
	}
	if m.isDirLocked(path) {
		return true, nil
	}
	return false, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
}

// ListChildren implements FileSystem.
func (m *MemFileSystem) ListChildren(dir string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dir = filepath.Clean(dir)
	if err := m.ListErrors[dir]; err != nil {
		return nil, err
	}
	if !m.isDirLocked(dir) {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	for p := range m.files {
		rest, ok := childOf(dir, p)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(rest, string(filepath.Separator))
		seen[filepath.Join(dir, name)] = true
	}

	children := make([]string, 0, len(seen))
	for c := range seen {
		children = append(children, c)
	}
	sort.Strings(children)
	return children, nil
}

// Ext implements FileSystem.
func (m *MemFileSystem) Ext(path string) string {
	return filepath.Ext(path)
}

// File returns the content stored at path.
func (m *MemFileSystem) File(path string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[filepath.Clean(path)]
	return string(data), ok
}

// Paths returns every stored file path, sorted.
func (m *MemFileSystem) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func (m *MemFileSystem) isDirLocked(path string) bool {
	for p := range m.files {
		if _, ok := childOf(path, p); ok {
			return true
		}
	}
	return false
}

// childOf returns the part of p below dir.
func childOf(dir, p string) (string, bool) {
	if dir == "." {
		if filepath.IsAbs(p) {
			return "", false
		}
		return p, true
	}
	prefix := dir + string(filepath.Separator)
	if dir == string(filepath.Separator) {
		prefix = dir
	}
	if !strings.HasPrefix(p, prefix) {
		return "", false
	}
	return strings.TrimPrefix(p, prefix), true
}
