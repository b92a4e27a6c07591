// Package kvstore is the durable key-value store behind accounts and sessions.
//
// A Store fronts a persistent Backend (a BoltDB file) and degrades to an
// in-process map when that backend is unusable. Degradation never reaches the
// caller as an error: it is logged, and Persistent reports whether data written
// now will survive a restart.
//
// Example usage:
//
//	store := kvstore.Open(kvstore.Config{
//	    Path: "~/.config/watchvault/watchvault.db",
//	}, logger.Default())
//	defer store.Close()
//
//	if !store.Persistent() {
//	    fmt.Println("data will not persist between runs")
//	}
//	store.Set("users", data)
//	raw, ok := store.Get("users")
package kvstore

import "time"

// Backend is a raw key-value substrate.
type Backend interface {
	// Get returns the value for key. A missing key returns (nil, false, nil).
	Get(key string) ([]byte, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error

	// Close releases the backend's resources.
	Close() error
}

// Config contains store configuration.
type Config struct {
	// Path is the BoltDB file path. "~" expands to the home directory.
	// An empty path selects the in-memory backend outright.
	Path string

	// Timeout bounds how long Open waits for the file lock (default: 1 second).
	Timeout time.Duration
}

// probeKey is written and deleted once at open to prove the backend works.
const probeKey = "__storage_test__"
