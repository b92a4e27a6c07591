package display

import (
	"encoding/json"
	"io"

	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
)

// jsonFormatter formats output as JSON.
type jsonFormatter struct {
	config Config
}

// historyRow is the JSON shape of one history line.
type historyRow struct {
	media.HistoryEntry
	Progress int `json:"progress"`
}

// FormatItems implements Formatter.FormatItems. The title is not emitted.
func (f *jsonFormatter) FormatItems(w io.Writer, _ string, items []media.Item) error {
	if items == nil {
		items = []media.Item{}
	}
	return f.encode(w, items)
}

// FormatHistory implements Formatter.FormatHistory.
func (f *jsonFormatter) FormatHistory(w io.Writer, entries []media.HistoryEntry, progress map[string]int) error {
	rows := make([]historyRow, len(entries))
	for i, e := range entries {
		rows[i] = historyRow{HistoryEntry: e, Progress: progress[e.Item.Key()]}
	}
	return f.encode(w, rows)
}

// FormatStats implements Formatter.FormatStats.
func (f *jsonFormatter) FormatStats(w io.Writer, stats insights.Statistics) error {
	return f.encode(w, stats)
}

func (f *jsonFormatter) encode(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	if !f.config.Compact {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}
