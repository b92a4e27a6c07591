package library

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/backup"
	"github.com/0xmhha/watchvault/pkg/logger"
	"github.com/0xmhha/watchvault/pkg/media"
)

// Store is the working copy of one user's library.
type Store struct {
	mu        sync.Mutex
	config    Config
	directory Syncer
	heartbeat Heartbeat
	logger    logger.Logger
	now       func() time.Time

	email     string
	active    bool
	watchlist []media.Item
	history   []media.HistoryEntry
	progress  map[string]int
	ratings   map[string]media.Rating
	recent    []media.Item
	settings  account.Settings
}

// New creates an empty Store.
func New(cfg Config, directory Syncer, heartbeat Heartbeat, log logger.Logger) *Store {
	defaults := DefaultConfig()
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaults.HistoryLimit
	}
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = defaults.RecentLimit
	}

	s := &Store{
		config:    cfg,
		directory: directory,
		heartbeat: heartbeat,
		logger:    log,
		now:       time.Now,
	}
	s.resetLocked()

	return s
}

// SetClock replaces the time source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Load binds the store to acct and replaces the working copies with its data.
func (s *Store) Load(acct *account.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadSnapshotLocked(acct.Email, acct.Data)
	s.email = acct.Email
	s.active = true

	s.logger.Info("library loaded",
		"email", acct.Email,
		"watchlist", len(s.watchlist),
		"history", len(s.history))
}

// Reset unbinds the store and empties every working copy.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.email = ""
	s.active = false
	s.watchlist = []media.Item{}
	s.history = []media.HistoryEntry{}
	s.progress = map[string]int{}
	s.ratings = map[string]media.Rating{}
	s.recent = []media.Item{}
	s.settings = account.Settings{}
}

// loadSnapshotLocked copies snap into the working copies, repairing
// duplicates and over-long lists left by older writers.
func (s *Store) loadSnapshotLocked(email string, snap account.Snapshot) {
	snap = snap.Clone()

	s.watchlist = dedupItems(snap.Watchlist)
	s.history = dedupHistory(snap.History)
	if len(s.history) > s.config.HistoryLimit {
		s.history = s.history[:s.config.HistoryLimit]
	}
	s.progress = snap.Progress
	s.ratings = snap.Ratings
	s.recent = dedupItems(snap.RecentlyViewed)
	if len(s.recent) > s.config.RecentLimit {
		s.recent = s.recent[:s.config.RecentLimit]
	}

	if snap.Settings != nil {
		s.settings = *snap.Settings
	} else {
		s.settings = account.DefaultSettings(email)
	}
}

// Active returns the bound email.
func (s *Store) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email, s.active
}

// AddToHistory records a watch event for item at the head of the history.
// An earlier entry for the same title is removed first.
func (s *Store) AddToHistory(item media.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}

	s.addHistoryLocked(item)
	s.persistLocked()

	return nil
}

func (s *Store) addHistoryLocked(item media.Item) {
	item = item.Normalize()

	s.history = slices.DeleteFunc(s.history, func(e media.HistoryEntry) bool {
		return e.Item.Same(item)
	})
	s.history = slices.Insert(s.history, 0, media.HistoryEntry{
		Item:      item,
		Timestamp: s.now(),
	})
	if len(s.history) > s.config.HistoryLimit {
		s.history = s.history[:s.config.HistoryLimit]
	}
}

// ToggleWatchlist removes item when present and prepends it otherwise.
// Returns whether the title is in the watchlist afterwards.
func (s *Store) ToggleWatchlist(item media.Item) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return false, err
	}

	item = item.Normalize()

	before := len(s.watchlist)
	s.watchlist = slices.DeleteFunc(s.watchlist, item.Same)
	added := len(s.watchlist) == before
	if added {
		s.watchlist = slices.Insert(s.watchlist, 0, item)
	}

	s.persistLocked()

	s.logger.Debug("watchlist toggled", "key", item.Key(), "in_watchlist", added)
	return added, nil
}

// SetProgress stores percent for item.
func (s *Store) SetProgress(item media.Item, percent int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}
	if percent < ProgressNone || percent > ProgressComplete {
		return fmt.Errorf("%w: got %d", ErrInvalidProgress, percent)
	}

	s.progress[item.Key()] = percent
	s.persistLocked()

	return nil
}

// MarkWatched sets progress to 100 and records a history event.
func (s *Store) MarkWatched(item media.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}

	s.progress[item.Key()] = ProgressComplete
	s.addHistoryLocked(item)
	s.persistLocked()

	return nil
}

// RecordPlayback records that playback of item started: a history event, and
// progress raised to 50 unless it is already higher.
func (s *Store) RecordPlayback(item media.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}

	s.addHistoryLocked(item)
	if s.progress[item.Key()] < ProgressStarted {
		s.progress[item.Key()] = ProgressStarted
	}
	s.persistLocked()

	return nil
}

// RecordView moves item to the head of the recently viewed list.
func (s *Store) RecordView(item media.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}

	item = item.Normalize()
	s.recent = slices.DeleteFunc(s.recent, item.Same)
	s.recent = slices.Insert(s.recent, 0, item)
	if len(s.recent) > s.config.RecentLimit {
		s.recent = s.recent[:s.config.RecentLimit]
	}
	s.persistLocked()

	return nil
}

// SetRating stores the user's score for item.
func (s *Store) SetRating(item media.Item, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}
	if score < MinRating || score > MaxRating {
		return account.NewValidationError("score",
			fmt.Sprintf("Rating must be between %.1f and %.0f", MinRating, MaxRating))
	}

	s.ratings[item.Key()] = media.Rating{Score: score, RatedAt: s.now()}
	s.persistLocked()

	return nil
}

// ClearRating removes the user's score for item.
func (s *Store) ClearRating(item media.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkLocked(item); err != nil {
		return err
	}

	delete(s.ratings, item.Key())
	s.persistLocked()

	return nil
}

// UpdateSettings validates and stores settings. An empty username falls back
// to the email's local part.
func (s *Store) UpdateSettings(settings account.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrNoActiveSession
	}
	if !slices.Contains(account.Themes, settings.Theme) {
		return account.NewValidationError("theme",
			"Theme must be one of "+strings.Join(account.Themes, ", "))
	}
	if !slices.Contains(account.DevicePreferences, settings.DevicePreference) {
		return account.NewValidationError("devicePreference",
			"Device preference must be one of "+strings.Join(account.DevicePreferences, ", "))
	}

	settings.Username = strings.TrimSpace(settings.Username)
	if settings.Username == "" {
		settings.Username = account.DefaultSettings(s.email).Username
	}

	s.settings = settings
	s.persistLocked()

	return nil
}

// Restore replaces the working copies with doc's library and persists.
// Settings are kept when the document carries none.
func (s *Store) Restore(doc backup.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrNoActiveSession
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	if doc.Email != s.email {
		s.logger.Warn("restoring a backup exported by another account",
			"email", s.email,
			"backup_email", doc.Email)
	}

	current := s.settings
	s.loadSnapshotLocked(s.email, doc.Snapshot)
	if doc.Settings == nil {
		s.settings = current
	}
	s.persistLocked()

	s.logger.Info("library restored",
		"email", s.email,
		"watchlist", len(s.watchlist),
		"history", len(s.history))

	return nil
}

// Persist writes the snapshot into the account directory and refreshes the
// session heartbeat.
func (s *Store) Persist() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return ErrNoActiveSession
	}
	s.persistLocked()
	return nil
}

func (s *Store) persistLocked() {
	at := s.now()

	if !s.directory.Sync(s.email, s.snapshotLocked(), at) {
		s.logger.Warn("account missing, library not synced", "email", s.email)
		return
	}
	s.heartbeat.Touch(s.email, at)

	s.logger.Debug("library synced",
		"email", s.email,
		"watchlist", len(s.watchlist),
		"history", len(s.history))
}

// Snapshot returns a copy of the working library.
func (s *Store) Snapshot() (account.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return account.Snapshot{}, ErrNoActiveSession
	}
	return s.snapshotLocked(), nil
}

func (s *Store) snapshotLocked() account.Snapshot {
	settings := s.settings
	return account.Snapshot{
		Watchlist:      s.watchlist,
		History:        s.history,
		Progress:       s.progress,
		Ratings:        s.ratings,
		RecentlyViewed: s.recent,
		Settings:       &settings,
	}.Clone()
}

// Export returns the library as a backup document. It never mutates state.
func (s *Store) Export() (backup.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return backup.Document{}, ErrNoActiveSession
	}
	return backup.New(s.email, s.snapshotLocked(), s.now()), nil
}

// IsInWatchlist reports whether item is in the watchlist.
func (s *Store) IsInWatchlist(item media.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.ContainsFunc(s.watchlist, item.Same)
}

// GetProgress returns the stored percent for item, 0 when unset.
func (s *Store) GetProgress(item media.Item) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress[item.Key()]
}

// GetRating returns the user's rating for item.
func (s *Store) GetRating(item media.Item) (media.Rating, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.ratings[item.Key()]
	return r, ok
}

// Settings returns the current settings.
func (s *Store) Settings() (account.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return account.Settings{}, ErrNoActiveSession
	}
	return s.settings, nil
}

// Watchlist returns a copy of the watchlist, newest first.
func (s *Store) Watchlist() []media.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.watchlist)
}

// History returns a copy of the history, newest first.
func (s *Store) History() []media.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// RecentlyViewed returns a copy of the recently viewed list.
func (s *Store) RecentlyViewed() []media.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.recent)
}

func (s *Store) checkLocked(item media.Item) error {
	if !s.active {
		return ErrNoActiveSession
	}
	if !item.Valid() {
		return ErrInvalidItem
	}
	return nil
}

// dedupItems keeps the first occurrence of every title.
func dedupItems(items []media.Item) []media.Item {
	out := make([]media.Item, 0, len(items))
	for _, item := range items {
		if !item.Valid() || slices.ContainsFunc(out, item.Same) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// dedupHistory keeps the newest entry of every title, ordered newest first.
func dedupHistory(entries []media.HistoryEntry) []media.HistoryEntry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b media.HistoryEntry) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	out := make([]media.HistoryEntry, 0, len(sorted))
	for _, entry := range sorted {
		if !entry.Item.Valid() {
			continue
		}
		if slices.ContainsFunc(out, func(e media.HistoryEntry) bool {
			return e.Item.Same(entry.Item)
		}) {
			continue
		}
		out = append(out, entry)
	}
	return out
}
