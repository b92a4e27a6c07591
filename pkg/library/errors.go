package library

import "errors"

// Common errors returned by the library package.
var (
	// ErrNoActiveSession is returned when no account is loaded.
	ErrNoActiveSession = errors.New("no active session")

	// ErrInvalidItem is returned for items without an id.
	ErrInvalidItem = errors.New("item has no id")

	// ErrInvalidProgress is returned for progress outside 0..100.
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
)
