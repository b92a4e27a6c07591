// Package main provides the watchvault CLI application.
//
// Watchvault keeps per-user watchlists, watch history, progress and ratings
// in a local database, with password-protected accounts, backup export and
// restore, and a local JSON API for a browser front end.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

// version is set during build time.
var version = "dev"

// errUsage is returned after usage text has been printed for a bad invocation.
var errUsage = errors.New("invalid usage")

func main() {
	c := newCLI(os.Stdin, os.Stdout, os.Stderr)
	if err := c.run(os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// cli holds global flags and the process's standard streams.
type cli struct {
	configPath string
	format     string

	stdin  io.Reader
	lines  *bufio.Reader
	stdout io.Writer
	stderr io.Writer
}

func newCLI(stdin io.Reader, stdout, stderr io.Writer) *cli {
	return &cli{
		stdin:  stdin,
		lines:  bufio.NewReader(stdin),
		stdout: stdout,
		stderr: stderr,
	}
}

// run parses global flags and dispatches the command.
func (c *cli) run(args []string) error {
	fs := flag.NewFlagSet("watchvault", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.StringVar(&c.configPath, "config", "", "path to configuration file")
	fs.StringVar(&c.format, "format", "", "output format (table, json, simple)")
	showVersion := fs.Bool("version", false, "show version information")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *showVersion {
		fmt.Fprintf(c.stdout, "watchvault %s\n", version)
		return nil
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return c.showUsage()
	}

	command, cmdArgs := rest[0], rest[1:]

	switch command {
	case "signup":
		return c.runSignup(cmdArgs)
	case "login":
		return c.runLogin(cmdArgs)
	case "logout":
		return c.runLogout(cmdArgs)
	case "whoami":
		return c.runWhoami(cmdArgs)
	case "delete-account":
		return c.runDeleteAccount(cmdArgs)
	case "watchlist":
		return c.runWatchlist(cmdArgs)
	case "history":
		return c.runHistory(cmdArgs)
	case "progress":
		return c.runProgress(cmdArgs)
	case "watched":
		return c.runWatched(cmdArgs)
	case "rate":
		return c.runRate(cmdArgs)
	case "settings":
		return c.runSettings(cmdArgs)
	case "stats":
		return c.runStats(cmdArgs)
	case "export":
		return c.runExport(cmdArgs)
	case "restore":
		return c.runRestore(cmdArgs)
	case "search":
		return c.runSearch(cmdArgs)
	case "play":
		return c.runPlay(cmdArgs)
	case "serve":
		return c.runServe(cmdArgs)
	case "config":
		return c.runConfig(cmdArgs)
	case "help":
		return c.showUsage()
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// showUsage displays usage information.
func (c *cli) showUsage() error {
	usage := `Watchvault - personal watchlist and watch history

Usage:
  watchvault [flags] <command> [command flags]

Account Commands:
  signup <email>          Create an account (prompts for a password)
  login <email>           Log in (prompts for a password)
  logout                  Save and end the session
  whoami                  Show the signed-in account
  delete-account          Delete the signed-in account (-yes to skip the prompt)

Library Commands:
  watchlist [add|remove|toggle <ref>]   List or change the watchlist
  history [add <ref>]     List or extend the watch history
  progress <ref> [0-100]  Show or set progress
  watched <ref>           Mark a title as watched
  rate <ref> <score>      Rate a title 0.5-10 (-clear to remove)
  settings [set]          Show or change settings (-theme, -device, -username)
  stats                   Library statistics (-activity for a per-day count)
  export                  Write a backup file (-dir to choose where)
  restore [file]          Restore the newest backup, a given file, or -watch an inbox

Catalog Commands:
  search <query>          Search movies and shows (-page)
  play <ref>              Print the player URL and record playback (-season, -episode)
  serve                   Run the local JSON API (-addr)

Other:
  config                  Configuration management (show, path, reset)
  help                    Show this help message

A <ref> is <type>/<id>, e.g. movie/329865 or tv/1399. A bare id means a movie.

Global Flags:
  -config     Path to configuration file
  -format     Output format (table, json, simple)
  -version    Show version information

Environment:
  WATCHVAULT_CONFIG, WATCHVAULT_DB, WATCHVAULT_LOG_LEVEL, WATCHVAULT_PEPPER,
  WATCHVAULT_REDIS_ADDR, TMDB_API_KEY (also read from ./.env)

Version: %s
`

	fmt.Fprintf(c.stdout, usage, version)
	return nil
}
