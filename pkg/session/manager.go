package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/autosave"
	"github.com/0xmhha/watchvault/pkg/credential"
	"github.com/0xmhha/watchvault/pkg/logger"
)

// Manager owns the process-wide session.
type Manager struct {
	config Config
	deps   Deps
	saver  *autosave.Saver
	logger logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	state State
	email string
}

// New creates a logged-out Manager.
func New(cfg Config, deps Deps, log logger.Logger) *Manager {
	return &Manager{
		config: cfg,
		deps:   deps,
		saver:  autosave.New(autosave.Config{Interval: cfg.AutosaveInterval}, deps.Library, log),
		logger: log,
		now:    time.Now,
		state:  StateLoggedOut,
	}
}

// SetClock replaces the time source used for session records.
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Signup registers a new account. It never logs in.
func (m *Manager) Signup(email, password, confirm string) error {
	if !credential.ValidateEmailShape(email) {
		return account.NewValidationError("email", "Invalid email address")
	}
	if !credential.LongEnough(password) {
		return account.NewValidationError("password",
			fmt.Sprintf("Password must be at least %d characters", credential.MinPasswordLength))
	}
	if password != confirm {
		return account.NewValidationError("confirm", "Passwords do not match")
	}
	if _, exists := m.deps.Directory.Find(email); exists {
		return account.ErrDuplicateEmail
	}

	token, err := m.deps.Credentials.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := m.deps.Directory.Create(email, token, m.clock()); err != nil {
		return err
	}

	m.logger.Info("user signed up", "email", email)
	return nil
}

// Login authenticates email and binds the library to the account.
//
// On failure the session is left exactly as it was. Logging in while another
// account is active flushes and replaces that session.
func (m *Manager) Login(email, password string) error {
	if !credential.ValidateEmailShape(email) {
		return account.NewValidationError("email", "Invalid email address")
	}

	prev, err := m.beginAuth()
	if err != nil {
		return err
	}

	acct, err := m.authenticate(email, password)
	if err != nil {
		m.endAuth(prev)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev == StateLoggedIn {
		m.teardownLocked(false)
	}
	m.establishLocked(acct)
	m.deps.Records.Save(email, m.now())

	m.logger.Info("login successful", "email", email)
	return nil
}

// beginAuth moves to Authenticating and returns the state to restore on
// failure.
func (m *Manager) beginAuth() (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateAuthenticating {
		return m.state, ErrBusy
	}
	prev := m.state
	m.state = StateAuthenticating
	return prev, nil
}

func (m *Manager) endAuth(prev State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = prev
}

func (m *Manager) authenticate(email, password string) (*account.Account, error) {
	acct, ok := m.deps.Directory.Find(email)
	if !ok {
		return nil, account.ErrAccountNotFound
	}

	ok, err := m.deps.Credentials.Verify(password, acct.CredentialToken)
	if err != nil {
		m.logger.Error("stored credential unreadable", "email", email, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if !ok {
		m.logger.Debug("login rejected", "email", email)
		return nil, ErrInvalidCredential
	}

	return acct, nil
}

// Logout flushes the library and ends the session. Without a session it logs a
// warning and returns ErrNotLoggedIn.
func (m *Manager) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLoggedIn {
		m.logger.Warn("logout without an active session")
		return ErrNotLoggedIn
	}

	email := m.email
	m.teardownLocked(true)

	m.logger.Info("logged out", "email", email)
	return nil
}

// Resume restores the session named by the persisted record, without a
// password. Returns false when resume is disabled, no record exists, or the
// record's account is gone.
func (m *Manager) Resume() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateLoggedIn {
		return true
	}
	if !m.config.AllowResume || m.state != StateLoggedOut {
		return false
	}

	rec, ok := m.deps.Records.Load()
	if !ok {
		return false
	}

	acct, ok := m.deps.Directory.Find(rec.Email)
	if !ok {
		m.logger.Warn("session record names a missing account, clearing", "email", rec.Email)
		m.deps.Records.Clear()
		return false
	}

	m.establishLocked(acct)
	m.deps.Records.Touch(rec.Email, m.now())

	m.logger.Info("session resumed", "email", rec.Email)
	return true
}

// DeleteAccount removes the active account, then logs out. The caller must
// pass confirmed=true.
func (m *Manager) DeleteAccount(confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLoggedIn {
		return ErrNotLoggedIn
	}

	email := m.email
	m.deps.Directory.Delete(email)
	m.teardownLocked(true)

	m.logger.Info("account deleted", "email", email)
	return nil
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns the signed-in email.
func (m *Manager) Current() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.email, m.state == StateLoggedIn
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateLoggedIn
}

// Close flushes the library and stops autosave, keeping the session record so
// the next process can resume.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateLoggedIn {
		m.stopAutosaveLocked()
		if err := m.deps.Library.Persist(); err != nil {
			m.logger.Warn("final flush failed", "error", err)
		}
	}

	if err := m.saver.Close(); err != nil && !errors.Is(err, autosave.ErrSaverClosed) {
		return err
	}
	return nil
}

func (m *Manager) establishLocked(acct *account.Account) {
	m.deps.Library.Load(acct)
	m.email = acct.Email
	m.state = StateLoggedIn

	if m.config.DisableAutosave {
		return
	}
	if err := m.saver.Start(context.Background()); err != nil {
		m.logger.Warn("autosave not started", "error", err)
	}
}

// teardownLocked stops autosave, flushes, and empties the session. The record
// is cleared only when clearRecord is set; a session switch overwrites it.
func (m *Manager) teardownLocked(clearRecord bool) {
	m.stopAutosaveLocked()

	if err := m.deps.Library.Persist(); err != nil {
		m.logger.Warn("flush before logout failed", "error", err)
	}

	m.state = StateLoggedOut
	m.email = ""

	// Unbind first so a concurrent mutation cannot touch the record again.
	m.deps.Library.Reset()
	if clearRecord {
		m.deps.Records.Clear()
	}
}

func (m *Manager) stopAutosaveLocked() {
	if err := m.saver.Stop(); err != nil &&
		!errors.Is(err, autosave.ErrNotRunning) &&
		!errors.Is(err, autosave.ErrSaverClosed) {
		m.logger.Warn("failed to stop autosave", "error", err)
	}
}

func (m *Manager) clock() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now()
}
