package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports debounced changes to a set of files.
type Watcher struct {
	mu sync.RWMutex

	fsw    *fsnotify.Watcher
	config Config

	// Watched files and the reference count of each watched directory.
	files map[string]bool
	dirs  map[string]int

	events chan Event
	errors chan error

	debounce    *debouncer
	totalEvents int64

	closed   bool
	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		config:  config,
		files:   make(map[string]bool),
		dirs:    make(map[string]int),
		events:  make(chan Event, config.BufferSize),
		errors:  make(chan error, config.BufferSize),
		closeCh: make(chan struct{}),
	}
	w.debounce = newDebouncer(config.DebounceDelay, w.events, w.closeCh)

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a file.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("watch %s: is a directory", absPath)
	}
	if w.files[absPath] {
		return ErrAlreadyWatching
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch stops watching a file.
func (w *Watcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.files[absPath] {
		return ErrNotWatching
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	return w.fsw.Remove(dir)
}

// IsWatching returns true if the file is being watched.
func (w *Watcher) IsWatching(path string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return w.files[absPath]
}

// WatchedPaths returns the watched files in sorted order.
func (w *Watcher) WatchedPaths() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	paths := make([]string, 0, len(w.files))
	for p := range w.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Events returns the debounced event channel. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// TotalEvents returns the number of raw file system events accepted.
func (w *Watcher) TotalEvents() int64 {
	return atomic.LoadInt64(&w.totalEvents)
}

// Close stops the watcher. Pending events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	w.closedWg.Wait()
	w.debounce.stop()

	close(w.events)
	close(w.errors)

	return w.fsw.Close()
}

// Run calls handle for every event until ctx is done or the watcher is
// closed. Errors from the underlying watcher are passed to onError when it
// is non-nil.
func (w *Watcher) Run(ctx context.Context, handle func(Event), onError func(error)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.events:
			if !ok {
				return ErrWatcherClosed
			}
			handle(event)
		case err, ok := <-w.errors:
			if !ok {
				return ErrWatcherClosed
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleFSEvent filters an fsnotify event down to the watched files.
func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}

	path := filepath.Clean(fsEvent.Name)
	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	atomic.AddInt64(&w.totalEvents, 1)
	w.debounce.add(Event{Path: path, Op: op, Timestamp: time.Now()})
}

// convertOp converts fsnotify.Op to Op. Chmod alone maps to zero.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

// sendError sends an error to the output channel, dropping it when full.
func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
