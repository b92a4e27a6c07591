package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
)

// tableFormatter formats output as tables.
type tableFormatter struct {
	config Config
}

// FormatItems implements Formatter.FormatItems.
func (f *tableFormatter) FormatItems(w io.Writer, title string, items []media.Item) error {
	if err := writeHeader(w, title, f.config.Compact); err != nil {
		return err
	}

	rows := make([][]string, len(items))
	for i, item := range items {
		rows[i] = []string{
			strconv.FormatInt(item.ID, 10),
			typeLabel(item),
			item.DisplayTitle(),
			year(item),
			formatFloat(item.VoteAverage, 1),
		}
	}

	return f.writeTable(w, []string{"ID", "Type", "Title", "Year", "Score"}, rows)
}

// FormatHistory implements Formatter.FormatHistory.
func (f *tableFormatter) FormatHistory(w io.Writer, entries []media.HistoryEntry, progress map[string]int) error {
	if err := writeHeader(w, "Watch History", f.config.Compact); err != nil {
		return err
	}

	header := []string{"ID", "Type", "Title", "Progress"}
	if f.config.ShowTimestamps {
		header = append(header, "Watched At")
	}

	rows := make([][]string, len(entries))
	for i, e := range entries {
		row := []string{
			strconv.FormatInt(e.Item.ID, 10),
			typeLabel(e.Item),
			e.Item.DisplayTitle(),
			progressLabel(progress[e.Item.Key()]),
		}
		if f.config.ShowTimestamps {
			when := "-"
			if !e.Timestamp.IsZero() {
				when = e.Timestamp.Local().Format(timeLayout)
			}
			row = append(row, when)
		}
		rows[i] = row
	}

	return f.writeTable(w, header, rows)
}

// FormatStats implements Formatter.FormatStats.
func (f *tableFormatter) FormatStats(w io.Writer, stats insights.Statistics) error {
	if err := writeHeader(w, "Library Statistics", f.config.Compact); err != nil {
		return err
	}

	rows := [][]string{
		{"Watchlist", strconv.Itoa(stats.WatchlistCount)},
		{"Watched Titles", strconv.Itoa(stats.HistoryCount)},
		{"Movies", strconv.Itoa(stats.Movies)},
		{"TV Shows", strconv.Itoa(stats.Shows)},
		{"In Progress", strconv.Itoa(stats.InProgress)},
		{"Completed", strconv.Itoa(stats.Completed)},
		{"Rated", strconv.Itoa(stats.RatedCount)},
		{"Average Rating", formatFloat(stats.AvgRating, 1)},
		{"Active Days", strconv.Itoa(stats.ActiveDays)},
	}

	if f.config.ShowTimestamps && !stats.FirstWatched.IsZero() {
		rows = append(rows,
			[]string{"First Watched", stats.FirstWatched.Local().Format(timeLayout)},
			[]string{"Last Watched", stats.LastWatched.Local().Format(timeLayout)},
		)
	}

	return f.writeTable(w, []string{"Metric", "Value"}, rows)
}

// writeTable writes a formatted table.
func (f *tableFormatter) writeTable(w io.Writer, header []string, rows [][]string) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "Nothing here yet")
		return err
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if err := f.writeRow(w, header, widths); err != nil {
		return err
	}

	if !f.config.Compact {
		separator := make([]string, len(header))
		for i, width := range widths {
			separator[i] = strings.Repeat("-", width)
		}
		if err := f.writeRow(w, separator, widths); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if err := f.writeRow(w, row, widths); err != nil {
			return err
		}
	}

	if !f.config.Compact {
		_, err := fmt.Fprintln(w)
		return err
	}
	return nil
}

// writeRow writes a single table row. The last column is not padded.
func (f *tableFormatter) writeRow(w io.Writer, cells []string, widths []int) error {
	gap := "  "
	if f.config.Compact {
		gap = " "
	}

	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString(gap)
		}
		if i == len(cells)-1 {
			b.WriteString(cell)
			continue
		}
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}
