// Package library holds the signed-in user's working library: watchlist,
// watch history, progress, ratings, recently viewed titles and settings.
//
// A Store is empty until Load binds it to an account and is emptied again by
// Reset. Every mutation writes the whole snapshot back into the account
// directory and refreshes the session heartbeat; Persist does the same on
// demand and is what autosave calls.
//
// Example usage:
//
//	lib := library.New(library.DefaultConfig(), dir, records, logger.Default())
//	lib.Load(acct)
//	inList, err := lib.ToggleWatchlist(media.Item{ID: 42, Type: media.TypeMovie})
package library

import (
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
)

// Progress bounds, in percent.
const (
	ProgressNone     = 0
	ProgressStarted  = 50
	ProgressComplete = 100
)

// Rating bounds.
const (
	MinRating = 0.5
	MaxRating = 10.0
)

// Config contains library limits.
type Config struct {
	// HistoryLimit caps the watch history (default: 50).
	HistoryLimit int `yaml:"history_limit"`

	// RecentLimit caps the recently viewed list (default: 20).
	RecentLimit int `yaml:"recent_limit"`
}

// DefaultConfig returns the default limits.
func DefaultConfig() Config {
	return Config{
		HistoryLimit: 50,
		RecentLimit:  20,
	}
}

// Syncer receives snapshots. *account.Directory satisfies it.
type Syncer interface {
	Sync(email string, snapshot account.Snapshot, at time.Time) bool
}

// Heartbeat refreshes the persisted session record.
// *account.SessionRecords satisfies it.
type Heartbeat interface {
	Touch(email string, at time.Time) account.SessionRecord
}
