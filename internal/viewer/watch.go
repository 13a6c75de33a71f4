package viewer

import (
	"GopherViewer/internal/logger"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports changed asset files on a channel. It watches the parent
// directories, since editors often replace a file instead of writing it in
// place. Nothing here touches GL; the render loop drains Changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan string

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
	closed bool
}

func NewWatcher(debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &Watcher{
		watcher:  watcher,
		debounce: debounce,
		changes:  make(chan string, 64),
		files:    make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Watch adds files to the watched set.
func (w *Watcher) Watch(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make(map[string]bool)
	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		w.files[absPath] = true
		dirs[filepath.Dir(absPath)] = true
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	return nil
}

func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					w.handleFileChange(event.Name)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				logger.Log.Warn("Watcher error", zap.Error(err))
			}
		}
	}()
}

// handleFileChange posts path once it has been quiet for the debounce
// interval.
func (w *Watcher) handleFileChange(path string) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[absPath] {
		return
	}
	if timer, exists := w.timers[absPath]; exists {
		timer.Stop()
	}
	w.timers[absPath] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.timers, absPath)
		if w.closed {
			return
		}
		select {
		case w.changes <- absPath:
		default:
			logger.Log.Warn("Dropping file change, queue full", zap.String("path", absPath))
		}
	})
}

// Drain returns the pending changes without blocking, each path once.
func (w *Watcher) Drain() []string {
	var paths []string
	seen := make(map[string]bool)
	for {
		select {
		case path := <-w.changes:
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		default:
			return paths
		}
	}
}

func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()
	return w.watcher.Close()
}
