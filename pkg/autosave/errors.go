package autosave

import "errors"

var (
	// ErrSaverClosed is returned when operations are attempted on a closed saver.
	ErrSaverClosed = errors.New("autosave is closed")

	// ErrAlreadyRunning is returned when starting a running saver.
	ErrAlreadyRunning = errors.New("autosave is already running")

	// ErrNotRunning is returned when stopping a saver that is not running.
	ErrNotRunning = errors.New("autosave is not running")
)
