package session

import (
	"errors"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/library"
)

// Common errors returned by the session manager.
var (
	// ErrInvalidCredential is returned when the password does not match.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrNotLoggedIn is returned when an operation needs a session.
	ErrNotLoggedIn = errors.New("not logged in")

	// ErrConfirmationRequired is returned by DeleteAccount without confirmation.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrBusy is returned when another authentication is in progress.
	ErrBusy = errors.New("authentication in progress")
)

// Success messages.
const (
	MsgSignedUp  = "Account created successfully!"
	MsgLoggedIn  = "Login successful!"
	MsgLoggedOut = "Logged out successfully"
	MsgDeleted   = "Account deleted"
)

// Message maps an error to text fit for display.
func Message(err error) string {
	var verr *account.ValidationError

	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, account.ErrDuplicateEmail):
		return "Email already registered"
	case errors.Is(err, account.ErrAccountNotFound):
		return "Account not found"
	case errors.Is(err, ErrInvalidCredential):
		return "Incorrect password"
	case errors.Is(err, ErrNotLoggedIn), errors.Is(err, library.ErrNoActiveSession):
		return "Please log in first"
	case errors.Is(err, ErrConfirmationRequired):
		return "Account deletion must be confirmed"
	case errors.Is(err, ErrBusy):
		return "Another login is in progress"
	default:
		return "Something went wrong: " + err.Error()
	}
}

// ResultOf converts an operation's error into a Result.
func ResultOf(err error) Result {
	if err != nil {
		return Result{Success: false, Message: Message(err)}
	}
	return Result{Success: true}
}

// Succeeded returns a successful Result carrying msg.
func Succeeded(msg string) Result {
	return Result{Success: true, Message: msg}
}
