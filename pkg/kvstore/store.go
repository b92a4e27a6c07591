package kvstore

import (
	"sync"

	"github.com/0xmhha/watchvault/pkg/logger"
)

// Store is the durable key-value adapter with an in-memory fallback.
//
// Writes that the persistent backend rejects land in the fallback map and
// shadow the persistent value for that key until a later write succeeds or the
// key is removed.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	fallback   *memoryBackend
	shadowed   map[string]bool
	persistent bool
	logger     logger.Logger
}

// Open creates a Store over a BoltDB file, probing it with a throwaway write.
//
// Open never fails: when the file cannot be opened or the probe fails, the
// store runs on the in-memory fallback for the rest of the process.
func Open(cfg Config, log logger.Logger) *Store {
	if cfg.Path == "" {
		log.Warn("no storage path configured, data will not persist")
		return newStore(nil, log)
	}

	backend, err := NewBoltBackend(cfg.Path, cfg.Timeout)
	if err != nil {
		log.Warn("persistent storage unavailable, using memory",
			"path", cfg.Path,
			"error", err)
		return newStore(nil, log)
	}

	s := NewWithBackend(backend, log)
	if s.persistent {
		log.Info("storage opened", "path", expandHome(cfg.Path))
	}
	return s
}

// NewWithBackend creates a Store over an arbitrary backend and probes it.
func NewWithBackend(backend Backend, log logger.Logger) *Store {
	if err := probe(backend); err != nil {
		log.Warn("storage probe failed, using memory", "error", err)
		if closeErr := backend.Close(); closeErr != nil {
			log.Error("failed to close rejected backend", "error", closeErr)
		}
		return newStore(nil, log)
	}
	return newStore(backend, log)
}

func newStore(backend Backend, log logger.Logger) *Store {
	return &Store{
		backend:    backend,
		fallback:   newMemoryBackend(),
		shadowed:   make(map[string]bool),
		persistent: backend != nil,
		logger:     log,
	}
}

// probe writes and deletes probeKey.
func probe(b Backend) error {
	if err := b.Put(probeKey, []byte(probeKey)); err != nil {
		return err
	}
	return b.Delete(probeKey)
}

// Persistent reports whether the store is backed by durable storage.
// It is decided once, at open.
func (s *Store) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistent
}

// Set stores value under key.
//
// Returns true when the value reached durable storage and false when it only
// reached the in-memory fallback. Either way the value is readable via Get.
func (s *Store) Set(key string, value []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persistent {
		err := s.backend.Put(key, value)
		if err == nil {
			delete(s.shadowed, key)
			_ = s.fallback.Delete(key) //nolint:errcheck // memory delete cannot fail
			return true
		}
		s.logger.Warn("persistent write failed, keeping value in memory",
			"key", key,
			"error", err)
		s.shadowed[key] = true
	}

	if err := s.fallback.Put(key, value); err != nil {
		s.logger.Warn("memory write rejected", "key", key, "error", err)
	}
	return false
}

// Get returns the value stored under key.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persistent && !s.shadowed[key] {
		value, ok, err := s.backend.Get(key)
		if err == nil {
			return value, ok
		}
		s.logger.Warn("persistent read failed, reading memory",
			"key", key,
			"error", err)
	}

	value, ok, _ := s.fallback.Get(key) //nolint:errcheck // memory get cannot fail
	return value, ok
}

// Remove deletes key from durable storage and the fallback.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persistent {
		if err := s.backend.Delete(key); err != nil {
			s.logger.Warn("persistent delete failed", "key", key, "error", err)
		}
	}

	delete(s.shadowed, key)
	_ = s.fallback.Delete(key) //nolint:errcheck // memory delete cannot fail
}

// Close closes the persistent backend, if any.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	err := s.backend.Close()
	s.backend = nil
	s.persistent = false
	return err
}
