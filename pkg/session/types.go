// Package session tracks who is signed in.
//
// A Manager moves between LoggedOut, Authenticating and LoggedIn. Login binds
// the library to the account and starts autosave; Logout flushes the library,
// clears the persisted session record and empties the working copies.
//
// Resume re-establishes the last session from the persisted record alone,
// without a password. This is a "remember me" convenience and not a security
// boundary; Config.AllowResume turns it off.
//
// Example usage:
//
//	mgr := session.New(session.DefaultConfig(), session.Deps{
//	    Directory:   dir,
//	    Records:     records,
//	    Library:     lib,
//	    Credentials: creds,
//	}, logger.Default())
//	if err := mgr.Login("a@b.com", "secret1"); err != nil {
//	    fmt.Println(session.ResultOf(err).Message)
//	}
//	defer mgr.Close()
package session

import (
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/library"
)

// State is the authentication state.
type State int

// Authentication states.
const (
	StateLoggedOut State = iota
	StateAuthenticating
	StateLoggedIn
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged_out"
	case StateAuthenticating:
		return "authenticating"
	case StateLoggedIn:
		return "logged_in"
	default:
		return "unknown"
	}
}

// Config contains session manager configuration.
type Config struct {
	// AllowResume enables resuming from the persisted session record.
	AllowResume bool

	// AutosaveInterval is the periodic save interval while logged in.
	AutosaveInterval time.Duration

	// DisableAutosave turns off periodic saves. Mutations still persist.
	DisableAutosave bool
}

// DefaultConfig returns resume enabled and a 30s autosave.
func DefaultConfig() Config {
	return Config{
		AllowResume:      true,
		AutosaveInterval: 30 * time.Second,
	}
}

// Credentials hashes and checks passwords. *credential.Service satisfies it.
type Credentials interface {
	Hash(password string) (string, error)
	Verify(password, token string) (bool, error)
}

// Deps are the collaborators a Manager drives.
type Deps struct {
	Directory   *account.Directory
	Records     *account.SessionRecords
	Library     *library.Store
	Credentials Credentials
}

// Result is the display form of an operation outcome.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
