package backup

import (
	"errors"
	"fmt"
)

// Common errors returned by the backup package.
var (
	// ErrFileTooLarge is returned when a file exceeds MaxFileSize.
	ErrFileTooLarge = errors.New("backup file exceeds maximum size")

	// ErrMalformedJSON is returned when a document cannot be decoded.
	ErrMalformedJSON = errors.New("malformed backup document")

	// ErrMissingEmail is returned when a document names no owner.
	ErrMissingEmail = errors.New("backup document has no email")

	// ErrUnsupportedVersion is returned for documents newer than FormatVersion.
	ErrUnsupportedVersion = errors.New("unsupported backup version")

	// ErrInvalidItem is returned when a library entry has no id.
	ErrInvalidItem = errors.New("backup contains an item without id")
)

// ParseError provides context about a document that failed to load.
type ParseError struct {
	Path string // File the document came from, empty for in-memory input
	Err  error  // Underlying error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("backup: %v", e.Err)
	}
	return fmt.Sprintf("backup %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
