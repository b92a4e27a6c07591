// Package display provides output formatting for library contents.
//
// It supports multiple output formats (table, JSON, simple text) for item
// lists, watch history and library statistics, and picks a layout class
// from the terminal width.
package display

import (
	"io"

	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
)

// Format represents an output format.
type Format string

const (
	// FormatTable displays output in a formatted table.
	FormatTable Format = "table"

	// FormatJSON displays output as JSON.
	FormatJSON Format = "json"

	// FormatSimple displays output in simple text format.
	FormatSimple Format = "simple"
)

// Formatter formats and displays library data.
type Formatter interface {
	// FormatItems formats a list of titles under a heading.
	//
	// Parameters:
	//   - w: Output writer
	//   - title: Section heading
	//   - items: Titles to format
	//
	// Returns error if formatting fails.
	FormatItems(w io.Writer, title string, items []media.Item) error

	// FormatHistory formats watch history with per-title progress.
	//
	// Parameters:
	//   - w: Output writer
	//   - entries: History entries, newest first
	//   - progress: Progress percentages keyed by "<type>-<id>"
	//
	// Returns error if formatting fails.
	FormatHistory(w io.Writer, entries []media.HistoryEntry, progress map[string]int) error

	// FormatStats formats library statistics.
	FormatStats(w io.Writer, stats insights.Statistics) error
}

// Config contains formatter configuration.
type Config struct {
	// Format specifies the output format.
	// Default: FormatTable.
	Format Format

	// ShowTimestamps enables timestamp display.
	// Default: true.
	ShowTimestamps bool

	// Compact enables compact output (less whitespace).
	// Default: false.
	Compact bool
}

// Device is a layout class.
type Device string

// Layout classes, matching the device preferences in account settings.
const (
	DeviceMobile  Device = "mobile"
	DeviceTablet  Device = "tablet"
	DeviceDesktop Device = "desktop"
	DeviceTV      Device = "tv"
)
