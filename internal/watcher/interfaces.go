package watcher

import "context"

// FileWatcher monitors header files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback with debounced file changes.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}
