package httpapi

import (
	"errors"
	"net/http"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/backup"
	"github.com/0xmhha/watchvault/pkg/catalog"
	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/player"
	"github.com/0xmhha/watchvault/pkg/session"
)

// Common errors returned by the handlers.
var (
	// ErrBadRequest is returned for unreadable request bodies or parameters.
	ErrBadRequest = errors.New("bad request")

	// ErrCatalogUnavailable is returned when no catalog client is configured.
	ErrCatalogUnavailable = errors.New("catalog not configured")

	// ErrOriginNotAllowed is returned for browser requests from an origin
	// outside the allow-list.
	ErrOriginNotAllowed = errors.New("origin not allowed")

	// ErrUnsupportedMediaType is returned when a request body is not JSON.
	ErrUnsupportedMediaType = errors.New("request body must be application/json")
)

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	var (
		verr   *account.ValidationError
		perr   *backup.ParseError
		apiErr *catalog.APIError
	)

	switch {
	case errors.As(err, &verr),
		errors.As(err, &perr),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, library.ErrInvalidItem),
		errors.Is(err, library.ErrInvalidProgress),
		errors.Is(err, backup.ErrMalformedJSON),
		errors.Is(err, backup.ErrMissingEmail),
		errors.Is(err, backup.ErrUnsupportedVersion),
		errors.Is(err, backup.ErrInvalidItem),
		errors.Is(err, backup.ErrFileTooLarge),
		errors.Is(err, player.ErrInvalidTitle),
		errors.Is(err, catalog.ErrInvalidRequest),
		errors.Is(err, session.ErrConfirmationRequired):
		return http.StatusBadRequest
	case errors.Is(err, ErrOriginNotAllowed):
		return http.StatusForbidden
	case errors.Is(err, ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, session.ErrInvalidCredential),
		errors.Is(err, session.ErrNotLoggedIn),
		errors.Is(err, library.ErrNoActiveSession):
		return http.StatusUnauthorized
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, account.ErrDuplicateEmail),
		errors.Is(err, session.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrCatalogUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Server-side failure messages. The underlying error is logged, never sent.
const (
	msgInternal           = "Something went wrong"
	msgCatalogUnavailable = "Catalog is unavailable"
)

// messageFor returns the user-facing text for err. Session errors keep their
// wording; other client errors show the error itself.
func messageFor(err error, status int) string {
	var verr *account.ValidationError

	switch {
	case status == http.StatusServiceUnavailable:
		return msgCatalogUnavailable
	case status >= http.StatusInternalServerError:
		return msgInternal
	case errors.As(err, &verr),
		errors.Is(err, account.ErrDuplicateEmail),
		errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, session.ErrInvalidCredential),
		errors.Is(err, session.ErrNotLoggedIn),
		errors.Is(err, library.ErrNoActiveSession),
		errors.Is(err, session.ErrConfirmationRequired),
		errors.Is(err, session.ErrBusy):
		return session.Message(err)
	default:
		return err.Error()
	}
}
