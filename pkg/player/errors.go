package player

import "errors"

var (
	// ErrUntrustedHost is returned when the player URL leaves the trusted list.
	ErrUntrustedHost = errors.New("player host is not trusted")

	// ErrInvalidTitle is returned for missing ids or episode numbers.
	ErrInvalidTitle = errors.New("invalid title reference")
)
