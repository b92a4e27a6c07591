package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("catalog API key is not configured")

	// ErrInvalidRequest is returned for empty queries or bad ids.
	ErrInvalidRequest = errors.New("invalid catalog request")

	// ErrNotFound is returned when the API answers 404.
	ErrNotFound = errors.New("title not found")
)

// APIError is a non-200 answer from the catalog API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("catalog API returned status %d: %s", e.Status, body)
}

// Is makes a 404 APIError match ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == 404
}
