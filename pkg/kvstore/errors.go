package kvstore

import "errors"

// Common errors returned by backends.
var (
	// ErrBackendClosed is returned when using a closed backend.
	ErrBackendClosed = errors.New("backend is closed")

	// ErrEmptyKey is returned when a key is empty.
	ErrEmptyKey = errors.New("key cannot be empty")
)
