// Package watch triggers a callback when files in a folder change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"
)

// DefaultDebounce is how long a burst of events is coalesced.
const DefaultDebounce = time.Second

// Watcher runs a callback after writes to a watched folder settle.
type Watcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	debounce time.Duration
	log      *charmlog.Logger
	// files limits events to these base names; empty means every file.
	files map[string]bool

	mu       sync.Mutex
	onChange func()
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFiles limits the watcher to files with these base names. Writes to
// other files in the folder, such as a build output, are ignored.
func WithFiles(names ...string) Option {
	return func(w *Watcher) {
		if w.files == nil {
			w.files = make(map[string]bool, len(names))
		}
		for _, name := range names {
			w.files[filepath.Base(name)] = true
		}
	}
}

// WithLogger sets the logger used for watcher errors.
func WithLogger(l *charmlog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New watches dir (not recursively).
func New(dir string, opts ...Option) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(absDir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", absDir, err)
	}
	w := &Watcher{
		watcher:  fsWatcher,
		dir:      absDir,
		debounce: DefaultDebounce,
		log:      charmlog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// OnChange sets the callback run after changes settle.
func (w *Watcher) OnChange(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

func (w *Watcher) fire() {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Run dispatches events until ctx is done or the watcher is closed. It
// closes the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context) error {
	trigger, cancel := debounce.New(w.debounce, w.fire)
	defer cancel()
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.log.Debug("change detected", "file", event.Name, "op", event.Op.String())
				trigger()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "dir", w.dir, "err", err)
		}
	}
}

func (w *Watcher) relevant(name string) bool {
	return len(w.files) == 0 || w.files[filepath.Base(name)]
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
