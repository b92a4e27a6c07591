package display

import (
	"fmt"
	"io"

	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
)

// simpleFormatter formats output as simple text.
type simpleFormatter struct {
	config Config
}

// FormatItems implements Formatter.FormatItems.
func (f *simpleFormatter) FormatItems(w io.Writer, _ string, items []media.Item) error {
	for _, item := range items {
		if _, err := fmt.Fprintf(w, "%s (%s) [%s %d]\n",
			item.DisplayTitle(),
			year(item),
			item.ResolvedType(),
			item.ID); err != nil {
			return err
		}
	}
	return nil
}

// FormatHistory implements Formatter.FormatHistory.
func (f *simpleFormatter) FormatHistory(w io.Writer, entries []media.HistoryEntry, progress map[string]int) error {
	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s [%s] - %s\n",
			e.Item.DisplayTitle(),
			e.Item.Key(),
			progressLabel(progress[e.Item.Key()])); err != nil {
			return err
		}
	}
	return nil
}

// FormatStats implements Formatter.FormatStats.
func (f *simpleFormatter) FormatStats(w io.Writer, stats insights.Statistics) error {
	_, err := fmt.Fprintf(w, "Watchlist: %d | Watched: %d (%d movies, %d shows) | In progress: %d | Completed: %d | Avg rating: %s\n",
		stats.WatchlistCount,
		stats.HistoryCount,
		stats.Movies,
		stats.Shows,
		stats.InProgress,
		stats.Completed,
		formatFloat(stats.AvgRating, 1))
	return err
}
