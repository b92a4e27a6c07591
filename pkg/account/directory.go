package account

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/0xmhha/watchvault/pkg/credential"
	"github.com/0xmhha/watchvault/pkg/logger"
)

// Directory maps email to Account and persists the whole map on every change.
//
// Accounts handed out by Find and List are copies; changes go back through
// Create, Sync and Delete.
type Directory struct {
	mu       sync.Mutex
	store    Store
	key      string
	accounts map[string]*Account
	logger   logger.Logger
}

// OpenDirectory loads the directory stored under key.
//
// Missing or unreadable data yields an empty directory; a parse failure is
// logged, not returned.
func OpenDirectory(store Store, key string, log logger.Logger) *Directory {
	if key == "" {
		key = KeyUsers
	}

	d := &Directory{
		store:    store,
		key:      key,
		accounts: make(map[string]*Account),
		logger:   log,
	}
	d.load()

	return d
}

func (d *Directory) load() {
	raw, ok := d.store.Get(d.key)
	if !ok || len(raw) == 0 {
		return
	}

	var stored map[string]*Account
	if err := json.Unmarshal(raw, &stored); err != nil {
		d.logger.Warn("account directory unreadable, starting empty",
			"key", d.key,
			"error", err)
		return
	}

	for email, acct := range stored {
		if acct == nil {
			d.logger.Warn("skipping empty account record", "email", email)
			continue
		}
		// The map key is authoritative.
		acct.Email = email
		acct.Data = acct.Data.Clone()
		d.accounts[email] = acct
	}

	d.logger.Debug("account directory loaded", "accounts", len(d.accounts))
}

// Create registers a new account with an empty library.
//
// Returns a *ValidationError for a malformed email or empty token and
// ErrDuplicateEmail when the email is taken.
func (d *Directory) Create(email, token string, at time.Time) (*Account, error) {
	if !credential.ValidateEmailShape(email) {
		return nil, NewValidationError("email", "Invalid email address")
	}
	if token == "" {
		return nil, NewValidationError("password", "Password is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[email]; exists {
		return nil, ErrDuplicateEmail
	}

	acct := &Account{
		Email:           email,
		CredentialToken: token,
		CreatedAt:       at,
		LastSyncAt:      at,
		Data:            EmptySnapshot(),
	}
	d.accounts[email] = acct
	d.saveLocked()

	d.logger.Info("account created", "email", email)

	return acct.Clone(), nil
}

// Find returns a copy of the account for email.
func (d *Directory) Find(email string) (*Account, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	acct, ok := d.accounts[email]
	if !ok {
		return nil, false
	}
	return acct.Clone(), true
}

// Delete removes the account for email. Deleting a missing account is a no-op.
func (d *Directory) Delete(email string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.accounts[email]; !ok {
		return
	}

	delete(d.accounts, email)
	d.saveLocked()

	d.logger.Info("account deleted", "email", email)
}

// Sync stores snapshot as the account's library and stamps LastSyncAt.
//
// Returns false when the account no longer exists; a deleted account is never
// recreated by a late sync. The directory is written either way.
func (d *Directory) Sync(email string, snapshot Snapshot, at time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	acct, ok := d.accounts[email]
	if ok {
		acct.Data = snapshot.Clone()
		acct.LastSyncAt = at
	}
	d.saveLocked()

	return ok
}

// List returns copies of all accounts sorted by email.
func (d *Directory) List() []*Account {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]*Account, 0, len(d.accounts))
	for _, acct := range d.accounts {
		out = append(out, acct.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Email < out[j].Email
	})
	return out
}

// Len returns the number of accounts.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.accounts)
}

// saveLocked writes the entire directory. Callers hold d.mu.
func (d *Directory) saveLocked() {
	data, err := json.Marshal(d.accounts)
	if err != nil {
		d.logger.Error("failed to marshal account directory", "error", err)
		return
	}

	if !d.store.Set(d.key, data) {
		d.logger.Debug("account directory held in memory only", "key", d.key)
	}
}
