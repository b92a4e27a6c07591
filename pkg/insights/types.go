// Package insights derives statistics and suggestions from a library
// snapshot.
//
// Everything here is a pure function of the snapshot; nothing is stored.
//
// Example usage:
//
//	snap, _ := lib.Snapshot()
//	stats := insights.Compute(snap)
//	fmt.Printf("Watched: %d, in progress: %d\n", stats.HistoryCount, stats.InProgress)
package insights

import "time"

// Defaults for the home screen rows.
const (
	ContinueWatchingLimit = 5
	SeedHistoryWindow     = 5
	SeedGenreLimit        = 3
	MinHistoryForSeeds    = 3
)

// Statistics summarizes a library.
type Statistics struct {
	// WatchlistCount is the number of watchlist entries.
	WatchlistCount int `json:"watchlistCount"`

	// HistoryCount is the number of distinct titles in the history.
	HistoryCount int `json:"historyCount"`

	// Movies and Shows split the history by media type.
	Movies int `json:"movies"`
	Shows  int `json:"shows"`

	// InProgress counts titles with 0 < progress < 100.
	InProgress int `json:"inProgress"`

	// Completed counts titles at 100.
	Completed int `json:"completed"`

	// RatedCount and AvgRating describe the user's ratings.
	RatedCount int     `json:"ratedCount"`
	AvgRating  float64 `json:"avgRating"`

	// FirstWatched and LastWatched bound the history timestamps.
	FirstWatched time.Time `json:"firstWatched"`
	LastWatched  time.Time `json:"lastWatched"`

	// ActiveDays is the number of distinct days with a watch event.
	ActiveDays int `json:"activeDays"`
}

// DayActivity counts watch events on one calendar day.
type DayActivity struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
