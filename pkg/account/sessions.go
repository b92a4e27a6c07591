package account

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/0xmhha/watchvault/pkg/logger"
)

// SessionRecords persists the single "current session" record.
type SessionRecords struct {
	store  Store
	key    string
	logger logger.Logger
}

// NewSessionRecords creates a record store writing under key.
func NewSessionRecords(store Store, key string, log logger.Logger) *SessionRecords {
	if key == "" {
		key = KeySession
	}
	return &SessionRecords{
		store:  store,
		key:    key,
		logger: log,
	}
}

// Save writes a fresh record for email with a new id.
func (r *SessionRecords) Save(email string, at time.Time) SessionRecord {
	rec := SessionRecord{
		ID:          uuid.NewString(),
		Email:       email,
		LastLoginAt: at,
	}
	r.write(rec)
	return rec
}

// Touch refreshes LastLoginAt, keeping the id when the record already
// belongs to email.
func (r *SessionRecords) Touch(email string, at time.Time) SessionRecord {
	rec, ok := r.Load()
	if !ok || rec.Email != email {
		return r.Save(email, at)
	}

	rec.LastLoginAt = at
	r.write(rec)
	return rec
}

// Load returns the stored record. A missing or unreadable record reports false.
func (r *SessionRecords) Load() (SessionRecord, bool) {
	raw, ok := r.store.Get(r.key)
	if !ok || len(raw) == 0 {
		return SessionRecord{}, false
	}

	var rec SessionRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		r.logger.Warn("session record unreadable, ignoring", "error", err)
		return SessionRecord{}, false
	}
	if rec.Email == "" {
		return SessionRecord{}, false
	}

	return rec, true
}

// Clear removes the record.
func (r *SessionRecords) Clear() {
	r.store.Remove(r.key)
}

func (r *SessionRecords) write(rec SessionRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("failed to marshal session record", "error", err)
		return
	}
	r.store.Set(r.key, data)
}
