// Package watcher watches inbox directories for arriving files.
//
// It uses fsnotify and coalesces the bursts of create/write events a single
// copy produces into one event per path. Only files accepted by the
// configured filter are reported.
//
// Example usage:
//
//	w, err := watcher.New(watcher.Config{
//	    Filter: backup.IsBackupName,
//	}, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer w.Close()
//
//	if err := w.Start(ctx, []string{"~/Downloads"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	for event := range w.Events() {
//	    fmt.Printf("File %s: %s\n", event.Path, event.Op)
//	}
package watcher

import (
	"context"
	"time"
)

// Op describes a file operation type.
type Op uint32

// File operation types.
const (
	OpCreate Op = 1 << iota // File created or moved in
	OpWrite                 // File modified
)

// String returns a human-readable operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "CREATE"
	case OpWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Event represents a file arriving or changing in a watched directory.
type Event struct {
	// Path is the path to the file that triggered the event.
	Path string

	// Op is the first operation seen in the debounce window.
	Op Op

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}

// Watcher provides directory monitoring.
type Watcher interface {
	// Start begins watching the specified directories. It returns once the
	// watches are registered; events are delivered from a background
	// goroutine until ctx is cancelled or Stop is called.
	Start(ctx context.Context, paths []string) error

	// Stop halts event processing.
	Stop() error

	// Events returns the channel of debounced events.
	// The channel is closed by Close.
	Events() <-chan Event

	// Errors returns the channel for non-fatal watcher errors.
	// The channel is closed by Close.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Config contains watcher configuration.
type Config struct {
	// DebounceInterval is the quiet time required before emitting an event.
	// Multiple events for the same file within this interval are coalesced.
	// Default: 250ms.
	DebounceInterval time.Duration

	// Filter selects which base names are reported. Nil accepts every file.
	Filter func(name string) bool

	// CircuitBreakerThreshold is the number of fsnotify errors after which
	// ErrCircuitBreakerOpen is reported instead of the raw error.
	// Default: 5.
	CircuitBreakerThreshold int
}
