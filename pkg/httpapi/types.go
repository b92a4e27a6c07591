// Package httpapi serves the library and session operations as a local
// JSON API for a browser front end.
//
// Every failure renders as {"success": false, "message": "..."} with a
// status derived from the error kind. The server is meant to listen on a
// loopback address; it carries no authentication of its own beyond the
// process-wide session. Browser requests are limited to the configured
// origins, and every POST, PUT or PATCH must be application/json so a foreign
// page cannot send one without a CORS preflight.
//
// Example usage:
//
//	srv := httpapi.New(httpapi.DefaultConfig(), httpapi.Deps{
//	    Sessions: mgr,
//	    Library:  lib,
//	    Player:   builder,
//	}, log)
//	if err := srv.ListenAndServe(ctx); err != nil {
//	    log.Error("server failed", "error", err)
//	}
package httpapi

import (
	"context"
	"time"

	"github.com/0xmhha/watchvault/pkg/catalog"
	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/media"
	"github.com/0xmhha/watchvault/pkg/player"
	"github.com/0xmhha/watchvault/pkg/session"
)

// Request body limits.
const (
	maxBodySize = 1 << 20
)

// Config contains server configuration.
type Config struct {
	// Addr is the listen address.
	// Default: 127.0.0.1:8787.
	Addr string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// AllowedOrigins lists browser origins that may call the API. A pattern
	// may hold one "*" wildcard. Requests without an Origin header (CLI
	// tools) are always accepted.
	// Default: http://localhost:* and http://127.0.0.1:*.
	AllowedOrigins []string
}

// DefaultConfig returns a loopback listener with conservative timeouts.
func DefaultConfig() Config {
	return Config{
		Addr:            "127.0.0.1:8787",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
	}
}

// Catalog is the subset of the catalog client the API exposes.
type Catalog interface {
	Search(ctx context.Context, query string, page int) (*catalog.Page, error)
	Trending(ctx context.Context, window string) (*catalog.Page, error)
	Details(ctx context.Context, t media.Type, id int64) (*catalog.Details, error)
	Recommend(ctx context.Context, genres []int) (*catalog.Page, error)
}

// Deps are the components the handlers operate on. Catalog may be nil.
type Deps struct {
	Sessions *session.Manager
	Library  *library.Store
	Catalog  Catalog
	Player   *player.Builder
}

// itemRequest carries a title reference.
type itemRequest struct {
	Item media.Item `json:"item"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirm"`
}

type deleteRequest struct {
	Confirm bool `json:"confirm"`
}

type progressRequest struct {
	Item     media.Item `json:"item"`
	Progress int        `json:"progress"`
}

type ratingRequest struct {
	Item  media.Item `json:"item"`
	Score float64    `json:"score"`
}

type sessionResponse struct {
	State         string `json:"state"`
	Email         string `json:"email,omitempty"`
	Authenticated bool   `json:"authenticated"`
}
