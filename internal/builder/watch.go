package builder

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/harrison/vtoggle/internal/filelock"
	"github.com/harrison/vtoggle/internal/models"
)

// DefaultDebounceDelay coalesces a burst of writes (editor save, git
// checkout) into one rebuild.
const DefaultDebounceDelay = 200 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	Debounce time.Duration                   // Quiet period before a rebuild (<= 0 means DefaultDebounceDelay)
	OnRun    func(*models.RunResult, error) // Called after every rebuild
	OnError  func(error)                    // Called for watcher errors; may be nil
}

// Watcher rebuilds the output tree whenever something under the input
// changes. Every rebuild is a complete Run.
type Watcher struct {
	builder *Builder
	opts    Options
	wopts   WatchOptions
	fsw     *fsnotify.Watcher

	input     string // Absolute input path
	inputFile bool   // Input is a single file
	output    string // Absolute output root
	lockPath  string
}

// NewWatcher starts watching opts.InputPath. The input tree is registered
// before NewWatcher returns, so changes made after it returns are seen.
// The caller performs the initial build; Run only reacts to changes.
func (b *Builder) NewWatcher(opts Options, wopts WatchOptions) (*Watcher, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if wopts.Debounce <= 0 {
		wopts.Debounce = DefaultDebounceDelay
	}

	input, err := filepath.Abs(opts.InputPath)
	if err != nil {
		return nil, NewIOError("watch", opts.InputPath, err)
	}
	output, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		return nil, NewIOError("watch", opts.OutputPath, err)
	}
	info, err := os.Stat(input)
	if err != nil {
		return nil, NewIOError("watch", opts.InputPath, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, NewIOError("watch", opts.InputPath, err)
	}

	w := &Watcher{
		builder:   b,
		opts:      opts,
		wopts:     wopts,
		fsw:       fsw,
		input:     input,
		inputFile: !info.IsDir(),
		output:    output,
		lockPath:  filelock.OutputLockPath(output),
	}

	root := input
	if w.inputFile {
		root = filepath.Dir(input)
		err = fsw.Add(root)
	} else {
		err = w.addRecursive(root)
	}
	if err != nil {
		fsw.Close()
		return nil, NewIOError("watch", root, err)
	}

	return w, nil
}

// addRecursive adds dir and every subdirectory outside the output tree.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Removed between the event and the walk
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.underOutput(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			if os.IsPermission(err) {
				return filepath.SkipDir
			}
			return err
		}
		return nil
	})
}

func (w *Watcher) underOutput(path string) bool {
	return path == w.output || strings.HasPrefix(path, w.output+string(filepath.Separator))
}

// ignored reports whether an event cannot affect the output.
func (w *Watcher) ignored(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return true
	}
	path := filepath.Clean(event.Name)
	if w.underOutput(path) || path == w.lockPath {
		return true
	}
	if strings.HasPrefix(filepath.Base(path), ".vtoggle-") {
		return true
	}
	if w.inputFile && path != w.input {
		return true
	}
	return false
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	trigger := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event) {
				continue
			}
			if event.Has(fsnotify.Create) && !w.inputFile {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						w.reportError(NewIOError("watch", event.Name, err))
					}
				}
			}

			if timer == nil {
				timer = time.AfterFunc(w.wopts.Debounce, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.wopts.Debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.reportError(err)

		case <-trigger:
			result, err := w.builder.Run(ctx, w.opts)
			if w.wopts.OnRun != nil {
				w.wopts.OnRun(result, err)
			}
		}
	}
}

// Close stops watching without waiting for Run to return.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) reportError(err error) {
	if w.wopts.OnError != nil {
		w.wopts.OnError(err)
	}
}
