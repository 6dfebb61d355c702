// Package watch re-runs a callback when files below a directory change.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doclinks/internal/logfields"
)

// DefaultDebounce is how long a burst of events must stay quiet before the
// callback runs.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a directory tree.
type Watcher struct {
	root     string
	debounce time.Duration
	onChange func(ctx context.Context)
}

// New creates a Watcher for root. onChange runs once per burst of changes;
// runs never overlap and a burst arriving during a run queues one more run.
func New(root string, debounce time.Duration, onChange func(ctx context.Context)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{root: root, debounce: debounce, onChange: onChange}
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := addDirsRecursive(fw, w.root); err != nil {
		return err
	}

	requests, trigger, stop := debouncer(w.debounce)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				w.onChange(ctx)
			}
		}
	}()
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			handleEvent(fw, ev, trigger)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// debouncer returns a channel that receives once per quiet period after
// trigger calls. The channel holds at most one pending request.
func debouncer(delay time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	requests := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case requests <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return requests, trigger, stop
}

func handleEvent(fw *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if ShouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(fw, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func addDirsRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := fw.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// ShouldIgnore reports whether a change to path is noise: hidden files,
// editor swap and backup files, and OS metadata files.
func ShouldIgnore(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db",
		base == "4913":
		return true
	}
	return false
}
