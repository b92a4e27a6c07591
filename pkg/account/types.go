// Package account owns the account directory and the persisted session record.
//
// The directory maps email to Account and is stored as one JSON document under
// a single key; every mutation rewrites the whole document. Emails are matched
// exactly as given: "A@b.com" and "a@b.com" are different accounts.
//
// Example usage:
//
//	dir := account.OpenDirectory(store, account.KeyUsers, logger.Default())
//	acct, err := dir.Create("a@b.com", token, time.Now())
//	if errors.Is(err, account.ErrDuplicateEmail) {
//	    ...
//	}
package account

import (
	"strings"
	"time"

	"github.com/0xmhha/watchvault/pkg/media"
)

// Default storage keys.
const (
	KeyUsers   = "users"
	KeySession = "session"
)

// Store is the key-value surface the directory persists through.
// *kvstore.Store satisfies it.
type Store interface {
	Set(key string, value []byte) bool
	Get(key string) ([]byte, bool)
	Remove(key string)
}

// Account is a registered credential plus its library snapshot.
type Account struct {
	Email           string    `json:"email"`
	CredentialToken string    `json:"credentialToken"`
	CreatedAt       time.Time `json:"createdAt"`
	LastSyncAt      time.Time `json:"lastSyncAt"`
	Data            Snapshot  `json:"data"`
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	c := *a
	c.Data = a.Data.Clone()
	return &c
}

// Snapshot is the serializable form of one user's library.
//
// JSON names match the export format so a backup's library section and an
// account's data are interchangeable.
type Snapshot struct {
	Watchlist      []media.Item            `json:"watchlist"`
	History        []media.HistoryEntry    `json:"watchHistory"`
	Progress       map[string]int          `json:"watchProgress"`
	Ratings        map[string]media.Rating `json:"userRatings"`
	RecentlyViewed []media.Item            `json:"recentlyViewed"`
	Settings       *Settings               `json:"settings,omitempty"`
}

// EmptySnapshot returns a snapshot with non-nil, empty collections.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Watchlist:      []media.Item{},
		History:        []media.HistoryEntry{},
		Progress:       map[string]int{},
		Ratings:        map[string]media.Rating{},
		RecentlyViewed: []media.Item{},
	}
}

// Clone returns a deep copy with nil collections replaced by empty ones.
func (s Snapshot) Clone() Snapshot {
	out := EmptySnapshot()

	for _, item := range s.Watchlist {
		out.Watchlist = append(out.Watchlist, item.Normalize())
	}
	for _, entry := range s.History {
		out.History = append(out.History, media.HistoryEntry{
			Item:      entry.Item.Normalize(),
			Timestamp: entry.Timestamp,
		})
	}
	for k, v := range s.Progress {
		out.Progress[k] = v
	}
	for k, v := range s.Ratings {
		out.Ratings[k] = v
	}
	for _, item := range s.RecentlyViewed {
		out.RecentlyViewed = append(out.RecentlyViewed, item.Normalize())
	}
	if s.Settings != nil {
		settings := *s.Settings
		out.Settings = &settings
	}

	return out
}

// Settings are per-user presentation preferences.
type Settings struct {
	Theme            string `json:"theme"`
	DevicePreference string `json:"devicePreference"`
	Username         string `json:"username"`
}

// Allowed settings values.
var (
	Themes            = []string{"dark", "light"}
	DevicePreferences = []string{"auto", "mobile", "tablet", "desktop", "tv"}
)

// DefaultSettings returns dark theme, automatic device detection and the
// email's local part as username.
func DefaultSettings(email string) Settings {
	username, _, _ := strings.Cut(email, "@")
	return Settings{
		Theme:            "dark",
		DevicePreference: "auto",
		Username:         username,
	}
}

// SessionRecord is the persisted "remember me" pointer.
//
// Its presence alone re-establishes a session on the next start; it is a
// convenience, not a credential check.
type SessionRecord struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}
