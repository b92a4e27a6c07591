package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/0xmhha/watchvault/pkg/media"
)

// timeLayout is used for every timestamp column.
const timeLayout = "2006-01-02 15:04"

// New creates a new formatter based on configuration.
func New(cfg Config) Formatter {
	if cfg.Format == "" {
		cfg.Format = FormatTable
	}

	switch cfg.Format {
	case FormatJSON:
		return &jsonFormatter{config: cfg}
	case FormatSimple:
		return &simpleFormatter{config: cfg}
	case FormatTable:
		fallthrough
	default:
		return &tableFormatter{config: cfg}
	}
}

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatSimple:
		return FormatSimple, nil
	default:
		return "", fmt.Errorf("unknown output format %q", s)
	}
}

// formatFloat formats a float with specified precision.
func formatFloat(f float64, precision int) string {
	format := fmt.Sprintf("%%.%df", precision)
	return fmt.Sprintf(format, f)
}

// year returns the release or first-air year, or "-".
func year(item media.Item) string {
	date := item.ReleaseDate
	if date == "" {
		date = item.FirstAirDate
	}
	if len(date) < 4 {
		return "-"
	}
	return date[:4]
}

// typeLabel is the short media type column.
func typeLabel(item media.Item) string {
	if item.ResolvedType() == media.TypeTV {
		return "TV"
	}
	return "Movie"
}

// progressLabel renders a progress value for humans.
func progressLabel(p int) string {
	switch {
	case p >= 100:
		return "watched"
	case p <= 0:
		return "-"
	default:
		return fmt.Sprintf("%d%%", p)
	}
}

// writeHeader writes a section header.
func writeHeader(w io.Writer, title string, compact bool) error {
	if compact {
		_, err := fmt.Fprintf(w, "%s\n", title)
		return err
	}

	_, err := fmt.Fprintf(w, "\n%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	return err
}
