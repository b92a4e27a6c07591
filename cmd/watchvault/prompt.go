package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/0xmhha/watchvault/pkg/display"
)

// fileFD returns the descriptor behind v when it is an *os.File.
func fileFD(v interface{}) (int, bool) {
	f, ok := v.(*os.File)
	if !ok {
		return 0, false
	}
	return int(f.Fd()), true
}

// columns returns the terminal width of stdout, or 0.
func (c *cli) columns() int {
	fd, ok := fileFD(c.stdout)
	if !ok {
		return 0
	}
	return display.TerminalColumns(fd)
}

// readLine prints prompt and reads one line from stdin.
func (c *cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.stderr, prompt)

	line, err := c.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readPassword reads a password without echo from a terminal, or as a plain
// line when stdin is redirected.
func (c *cli) readPassword(prompt string) (string, error) {
	fd, ok := fileFD(c.stdin)
	if !ok || !term.IsTerminal(fd) {
		return c.readLine(prompt)
	}

	fmt.Fprint(c.stderr, prompt)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(c.stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (c *cli) confirm(prompt string) bool {
	answer, err := c.readLine(prompt + " [y/N]: ")
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
