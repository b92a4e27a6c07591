// Package autosave persists the active library on a fixed interval.
//
// Each tick writes the whole snapshot, so a tick racing a mutation-triggered
// save is harmless: the later write wins.
//
// Example usage:
//
//	saver := autosave.New(autosave.Config{Interval: 30 * time.Second}, lib, logger.Default())
//	if err := saver.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer saver.Stop()
package autosave

import "time"

// DefaultInterval is the save period used when Config.Interval is zero.
const DefaultInterval = 30 * time.Second

// Config holds autosave settings.
type Config struct {
	// Interval between saves (default: 30s).
	Interval time.Duration
}

// Persister is what the saver calls on each tick. *library.Store satisfies it.
type Persister interface {
	Persist() error
}
