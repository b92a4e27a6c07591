package insights

import (
	"sort"
	"time"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/media"
)

// Compute summarizes snap. Days are counted in UTC.
func Compute(snap account.Snapshot) Statistics {
	stats := Statistics{
		WatchlistCount: len(snap.Watchlist),
		HistoryCount:   len(snap.History),
	}

	days := make(map[string]bool)
	for _, entry := range snap.History {
		switch entry.Item.ResolvedType() {
		case media.TypeTV:
			stats.Shows++
		default:
			stats.Movies++
		}

		ts := entry.Timestamp
		if ts.IsZero() {
			continue
		}
		if stats.FirstWatched.IsZero() || ts.Before(stats.FirstWatched) {
			stats.FirstWatched = ts
		}
		if ts.After(stats.LastWatched) {
			stats.LastWatched = ts
		}
		days[dayKey(ts)] = true
	}
	stats.ActiveDays = len(days)

	for _, percent := range snap.Progress {
		switch {
		case percent >= 100:
			stats.Completed++
		case percent > 0:
			stats.InProgress++
		}
	}

	var total float64
	for _, r := range snap.Ratings {
		total += r.Score
	}
	stats.RatedCount = len(snap.Ratings)
	if stats.RatedCount > 0 {
		stats.AvgRating = total / float64(stats.RatedCount)
	}

	return stats
}

// Activity counts history events per UTC day, oldest day first.
func Activity(snap account.Snapshot) []DayActivity {
	counts := make(map[string]int)
	for _, entry := range snap.History {
		if entry.Timestamp.IsZero() {
			continue
		}
		counts[dayKey(entry.Timestamp)]++
	}

	out := make([]DayActivity, 0, len(counts))
	for day, n := range counts {
		out = append(out, DayActivity{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out
}

// ContinueWatching returns up to limit history entries whose progress is
// strictly between 0 and 100, in history order.
func ContinueWatching(snap account.Snapshot, limit int) []media.HistoryEntry {
	out := make([]media.HistoryEntry, 0, limit)
	for _, entry := range snap.History {
		if len(out) >= limit {
			break
		}
		p := snap.Progress[entry.Item.Key()]
		if p > 0 && p < 100 {
			out = append(out, entry)
		}
	}
	return out
}

// GenreSeeds collects genre ids from the window most recent history items,
// keeping first-seen order, and returns at most limit of them. Histories
// shorter than MinHistoryForSeeds yield none.
func GenreSeeds(snap account.Snapshot, window, limit int) []int {
	if len(snap.History) < MinHistoryForSeeds {
		return nil
	}

	seen := make(map[int]bool)
	var out []int
	for i, entry := range snap.History {
		if i >= window {
			break
		}
		for _, g := range entry.Item.GenreIDs {
			if seen[g] {
				continue
			}
			seen[g] = true
			out = append(out, g)
		}
	}

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
