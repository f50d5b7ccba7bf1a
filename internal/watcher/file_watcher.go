package watcher

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period used when none is given.
const DefaultDebounce = 500 * time.Millisecond

// fileWatcher implements FileWatcher interface.
type fileWatcher struct {
	watcher       *fsnotify.Watcher
	filter        func(path string) bool // Which paths trigger a callback
	debounceTime  time.Duration          // Quiet period before firing callback
	callback      func(files []string)   // Callback to invoke with changed files
	ctx           context.Context        // Context for lifecycle management
	cancel        context.CancelFunc     // Cancel function for internal context
	accumulated   map[string]bool        // Accumulated file changes
	accumulatedMu sync.Mutex             // Protects accumulated map
	debounceTimer *time.Timer            // Current debounce timer
	timerMu       sync.Mutex             // Protects debounce timer
	stopOnce      sync.Once              // Ensures Stop() is idempotent
	doneCh        chan struct{}          // Signals watch goroutine has finished
}

// NewFileWatcher creates a watcher over the given directories. Directories are
// not watched recursively. Only events on paths accepted by filter are
// reported; a nil filter accepts everything. A non-positive debounce uses
// DefaultDebounce.
func NewFileWatcher(dirs []string, filter func(path string) bool, debounce time.Duration) (FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if filter == nil {
		filter = func(string) bool { return true }
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw := &fileWatcher{
		watcher:      watcher,
		filter:       filter,
		debounceTime: debounce,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	// Add each input directory (not recursive)
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	return fw, nil
}

// Start begins watching for file changes.
func (fw *fileWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	fw.callback = callback
	fw.ctx, fw.cancel = context.WithCancel(ctx)

	go fw.watch()
	return nil
}

// Stop stops the file watcher.
func (fw *fileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		if fw.cancel != nil {
			// Cancel context to signal goroutine
			fw.cancel()
			// Wait for goroutine to finish (only if Start() was called)
			<-fw.doneCh
		} else {
			// Never started, close doneCh manually
			close(fw.doneCh)
		}

		// Close watcher
		err = fw.watcher.Close()
	})
	return err
}

// watch is the main event loop.
func (fw *fileWatcher) watch() {
	defer close(fw.doneCh)

	fireCh := make(chan struct{}, 1)

	for {
		select {
		case <-fw.ctx.Done():
			// Context cancelled - clean shutdown
			fw.stopDebounceTimer()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			// Filter events by operation and path
			if !fw.shouldProcessEvent(event) {
				continue
			}

			// Accumulate file change
			fw.accumulatedMu.Lock()
			fw.accumulated[event.Name] = true
			fw.accumulatedMu.Unlock()

			// Reset debounce timer
			fw.resetDebounceTimer(fireCh)

		case <-fireCh:
			// Debounce period expired - fire callback
			fw.handleDebounceExpired()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			slog.Warn("file watcher error", "error", err)
		}
	}
}

// handleDebounceExpired fires the callback with the accumulated files, sorted.
func (fw *fileWatcher) handleDebounceExpired() {
	fw.accumulatedMu.Lock()
	if len(fw.accumulated) == 0 {
		fw.accumulatedMu.Unlock()
		return
	}

	files := make([]string, 0, len(fw.accumulated))
	for file := range fw.accumulated {
		files = append(files, file)
	}
	// Clear accumulated
	fw.accumulated = make(map[string]bool)
	fw.accumulatedMu.Unlock()

	// Fire callback
	sort.Strings(files)
	fw.callback(files)
}

// resetDebounceTimer resets the debounce timer, properly stopping the old one.
func (fw *fileWatcher) resetDebounceTimer(fireCh chan struct{}) {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	// Stop existing timer
	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
	}

	// Create new timer
	fw.debounceTimer = time.AfterFunc(fw.debounceTime, func() {
		// Send rebuild signal (non-blocking)
		select {
		case fireCh <- struct{}{}:
		default:
		}
	})
}

// stopDebounceTimer stops the debounce timer if it exists.
func (fw *fileWatcher) stopDebounceTimer() {
	fw.timerMu.Lock()
	defer fw.timerMu.Unlock()

	if fw.debounceTimer != nil {
		fw.debounceTimer.Stop()
		fw.debounceTimer = nil
	}
}

// shouldProcessEvent keeps write, create, remove and rename events on
// accepted paths.
func (fw *fileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	// Only care about WRITE, CREATE, REMOVE and RENAME events
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	// Check if the path belongs to the inputs
	return fw.filter(event.Name)
}
