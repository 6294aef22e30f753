// Package watch re-lints when watched sources change. Events are
// debounced so an editor save burst triggers a single run.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches rapid-fire editor events.
const DefaultDebounce = 250 * time.Millisecond

// Relint is called with the paths that changed since the last flush.
// An empty slice means a structural change (create, rename, delete)
// and the caller should rediscover its file list.
type Relint func(changed []string)

type Watcher struct {
	fw       *fsnotify.Watcher
	debounce time.Duration
	handles  func(path string) bool
	relint   Relint

	mu      sync.Mutex
	pending map[string]bool
	dirty   bool
	timer   *time.Timer
}

// New builds a watcher. handles filters events down to lintable files;
// debounce <= 0 uses DefaultDebounce.
func New(debounce time.Duration, handles func(path string) bool, relint Relint) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		fw:       fw,
		debounce: debounce,
		handles:  handles,
		relint:   relint,
		pending:  make(map[string]bool),
	}, nil
}

// AddRoot watches a directory tree, or the parent directory of a plain
// file. Hidden directories are skipped.
func (w *Watcher) AddRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if base := filepath.Base(path); path != root && strings.HasPrefix(base, ".") {
			return filepath.SkipDir
		}
		return w.fw.Add(path)
	})
}

// Run pumps events until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fw.Close()
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return ctx.Err()
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// new directories need their own watch
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fw.Add(event.Name)
			w.markDirty()
			return
		}
	}

	if !w.handles(event.Name) {
		return
	}
	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.markChanged(event.Name)
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.markDirty()
	}
}

func (w *Watcher) markChanged(path string) {
	w.mu.Lock()
	w.pending[path] = true
	w.armTimer()
	w.mu.Unlock()
}

func (w *Watcher) markDirty() {
	w.mu.Lock()
	w.dirty = true
	w.armTimer()
	w.mu.Unlock()
}

// armTimer is called with w.mu held.
func (w *Watcher) armTimer() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	if !w.dirty {
		for path := range w.pending {
			changed = append(changed, path)
		}
	}
	w.pending = make(map[string]bool)
	w.dirty = false
	w.mu.Unlock()

	w.relint(changed)
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}
