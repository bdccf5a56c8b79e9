package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestLockUnlock(t *testing.T) {
	lock := NewFileLock(filepath.Join(t.TempDir(), "test.lock"))

	if err := lock.Lock(); err != nil {
		t.Fatalf("Failed to acquire lock: %v", err)
	}
	if err := lock.Unlock(); err != nil {
		t.Fatalf("Failed to release lock: %v", err)
	}
}

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock1 := NewFileLock(lockPath)
	lock2 := NewFileLock(lockPath)

	acquired, err := lock1.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Fatal("First TryLock should succeed")
	}

	acquired, err = lock2.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		t.Error("Second TryLock should fail when lock is held")
	}

	if err := lock1.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	acquired, err = lock2.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if !acquired {
		t.Error("TryLock should succeed after the first lock is released")
	}
	lock2.Unlock()
}

func TestOutputLockPath(t *testing.T) {
	got := OutputLockPath("build/ver/")
	want := filepath.Join("build", "ver.lock")
	if got != want {
		t.Errorf("OutputLockPath() = %q, want %q", got, want)
	}
}

func TestAcquireOutputLock(t *testing.T) {
	outputRoot := filepath.Join(t.TempDir(), "nested", "ver")

	lock, err := AcquireOutputLock(outputRoot)
	if err != nil {
		t.Fatalf("AcquireOutputLock() error = %v", err)
	}

	if _, err := AcquireOutputLock(outputRoot); !errors.Is(err, ErrLocked) {
		t.Errorf("second AcquireOutputLock() error = %v, want ErrLocked", err)
	}

	if _, err := os.Stat(outputRoot); !os.IsNotExist(err) {
		t.Errorf("lock must not create the output root itself")
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	again, err := AcquireOutputLock(outputRoot)
	if err != nil {
		t.Fatalf("AcquireOutputLock() after release error = %v", err)
	}
	again.Unlock()
}

func TestAtomicWrite(t *testing.T) {
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "a", "b", "out.js")

	if err := AtomicWrite(target, []byte("first"), 0); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("failed to read written file: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("content = %q, want %q", data, "first")
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}

	if err := AtomicWrite(target, []byte("second"), 0600); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}
	data, _ = os.ReadFile(target)
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(target))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file, found %d entries (temp files leaked)", len(entries))
	}
}

func TestAtomicWriteConcurrent(t *testing.T) {
	tmpDir := t.TempDir()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := filepath.Join(tmpDir, "dir", string(rune('a'+i))+".css")
			if err := AtomicWrite(path, []byte("x"), 0); err != nil {
				t.Errorf("AtomicWrite(%s) error = %v", path, err)
			}
		}(i)
	}
	wg.Wait()

	entries, err := os.ReadDir(filepath.Join(tmpDir, "dir"))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 20 {
		t.Errorf("expected 20 files, got %d", len(entries))
	}
}
