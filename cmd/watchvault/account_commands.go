package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/credential"
	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/session"
)

// sessionErrors are reported with session.Message text instead of the raw
// error chain.
var sessionErrors = []error{
	account.ErrDuplicateEmail,
	account.ErrAccountNotFound,
	session.ErrInvalidCredential,
	session.ErrNotLoggedIn,
	session.ErrConfirmationRequired,
	session.ErrBusy,
	library.ErrNoActiveSession,
}

func userError(err error) error {
	var verr *account.ValidationError
	if errors.As(err, &verr) {
		return errors.New(session.Message(err))
	}
	for _, target := range sessionErrors {
		if errors.Is(err, target) {
			return errors.New(session.Message(err))
		}
	}
	return err
}

// withApp wires the application, runs fn and closes it.
func (c *cli) withApp(fn func(a *app) error) error {
	a, err := c.newApp()
	if err != nil {
		return err
	}
	defer a.close()
	return fn(a)
}

// report prints okMsg on success. A failure is returned with the session
// layer's wording so the exit status reflects it.
func (c *cli) report(err error, okMsg string) error {
	if err != nil {
		return userError(err)
	}
	if okMsg != "" {
		fmt.Fprintln(c.stdout, okMsg)
	}
	return nil
}

// emailArg returns the single positional email, prompting when absent.
func (c *cli) emailArg(fs *flag.FlagSet) (string, error) {
	switch fs.NArg() {
	case 0:
		email, err := c.readLine("Email: ")
		return strings.TrimSpace(email), err
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("expected one email, got %d arguments", fs.NArg())
	}
}

func (c *cli) runSignup(args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	email, err := c.emailArg(fs)
	if err != nil {
		return err
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := c.readPassword("Confirm password: ")
	if err != nil {
		return err
	}

	if credential.LongEnough(password) {
		strength := credential.RateStrength(password)
		fmt.Fprintf(c.stderr, "Password strength: %s\n", strength.Level)
	}

	return c.withApp(func(a *app) error {
		return c.report(a.sessions.Signup(email, password, confirm), session.MsgSignedUp)
	})
}

func (c *cli) runLogin(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	email, err := c.emailArg(fs)
	if err != nil {
		return err
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	return c.withApp(func(a *app) error {
		return c.report(a.sessions.Login(email, password), session.MsgLoggedIn)
	})
}

func (c *cli) runLogout(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("logout takes no arguments")
	}

	return c.withApp(func(a *app) error {
		return c.report(a.sessions.Logout(), session.MsgLoggedOut)
	})
}

func (c *cli) runWhoami(args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("whoami takes no arguments")
	}

	return c.withApp(func(a *app) error {
		email, ok := a.sessions.Current()
		if !ok {
			fmt.Fprintln(c.stdout, "Not logged in")
			return nil
		}

		settings, err := a.lib.Settings()
		if err != nil {
			return c.report(err, "")
		}
		fmt.Fprintf(c.stdout, "%s (%s)\n", email, settings.Username)
		return nil
	})
}

func (c *cli) runDeleteAccount(args []string) error {
	fs := flag.NewFlagSet("delete-account", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	yes := fs.Bool("yes", false, "skip confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return c.withApp(func(a *app) error {
		email, ok := a.sessions.Current()
		if !ok {
			return c.report(session.ErrNotLoggedIn, "")
		}

		confirmed := *yes || c.confirm(fmt.Sprintf("Delete %s and all of its data?", email))
		if !confirmed {
			fmt.Fprintln(c.stdout, "Deletion cancelled.")
			return nil
		}
		return c.report(a.sessions.DeleteAccount(true), session.MsgDeleted)
	})
}
