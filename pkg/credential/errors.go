package credential

import "errors"

// Common errors returned by the credential package.
var (
	// ErrUnknownTokenFormat is returned when a token matches no supported scheme.
	ErrUnknownTokenFormat = errors.New("unknown credential token format")

	// ErrInvalidTokenFormat is returned when a token of a known scheme is malformed.
	ErrInvalidTokenFormat = errors.New("malformed credential token")

	// ErrInvalidConfig is returned when hashing parameters are out of range.
	ErrInvalidConfig = errors.New("invalid credential configuration")

	// ErrEmptyPassword is returned when hashing an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")
)
