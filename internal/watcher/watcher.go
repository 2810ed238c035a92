// Package watcher watches asset source trees for changes with
// debouncing, so a burst of editor writes triggers one rebuild and
// one browser reload instead of many.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/assetforge/assetforge/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents one file change.
type ChangeEvent struct {
	Path    string
	ModTime time.Time
}

// FileFilter decides whether a changed path is interesting.
type FileFilter func(path string) bool

// ChangeHandler receives a debounced batch of changes.
type ChangeHandler func(events []ChangeEvent)

// ExtFilter accepts paths with one of the given extensions.
func ExtFilter(exts ...string) FileFilter {
	return func(path string) bool {
		ext := strings.ToLower(filepath.Ext(path))
		for _, e := range exts {
			if ext == e {
				return true
			}
		}
		return false
	}
}

// FileWatcher wraps fsnotify with filtering and debouncing.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	logger   logging.Logger

	mu       sync.RWMutex
	filters  []FileFilter
	handlers []ChangeHandler
}

// NewFileWatcher creates a watcher that flushes batches after
// debounce of quiet time.
func NewFileWatcher(debounce time.Duration, logger logging.Logger) (*FileWatcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		watcher:  w,
		debounce: debounce,
		logger:   logger.WithComponent("watcher"),
	}, nil
}

// AddFilter adds a file filter. With no filters every path matches.
func (fw *FileWatcher) AddFilter(filter FileFilter) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive watches a directory tree.
func (fw *FileWatcher) AddRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fw.watcher.Add(path)
		}
		return nil
	})
}

// Start runs the event loop until ctx is done.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.loop(ctx)
}

// Close stops the underlying watcher.
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) loop(ctx context.Context) {
	var pending []ChangeEvent
	timer := time.NewTimer(fw.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// Newly created directories join the watch set so files
			// added under them are seen.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := fw.watcher.Add(event.Name); err != nil {
						fw.logger.Warn(ctx, err, "could not watch new directory", "dir", event.Name)
					}
					continue
				}
			}
			if !fw.matches(event.Name) {
				continue
			}
			pending = append(pending, ChangeEvent{Path: event.Name, ModTime: time.Now()})
			timer.Reset(fw.debounce)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn(ctx, err, "watch error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := pending
			pending = nil
			fw.dispatch(batch)
		}
	}
}

func (fw *FileWatcher) matches(path string) bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	if len(fw.filters) == 0 {
		return true
	}
	for _, filter := range fw.filters {
		if filter(path) {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) dispatch(events []ChangeEvent) {
	fw.mu.RLock()
	handlers := append([]ChangeHandler(nil), fw.handlers...)
	fw.mu.RUnlock()

	for _, handler := range handlers {
		handler(events)
	}
}
