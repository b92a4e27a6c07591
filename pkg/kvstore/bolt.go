package kvstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucketKV holds every key written through the store.
var bucketKV = []byte("kv")

// boltBackend implements Backend using BoltDB.
type boltBackend struct {
	db *bolt.DB
}

// NewBoltBackend opens (or creates) the BoltDB file at path.
//
// Returns an error if the directory cannot be created, the file cannot be
// opened within timeout, or the bucket cannot be initialized.
func NewBoltBackend(path string, timeout time.Duration) (Backend, error) {
	if timeout == 0 {
		timeout = time.Second
	}

	dbPath := expandHome(path)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketKV)
		return createErr
	}); err != nil {
		_ = db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("failed to create kv bucket: %w", err)
	}

	return &boltBackend{db: db}, nil
}

// Get implements Backend.Get.
func (b *boltBackend) Get(key string) ([]byte, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}

	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketKV).Get([]byte(key))
		if data == nil {
			return nil
		}
		// Bolt values are only valid inside the transaction.
		value = append([]byte(nil), data...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return value, value != nil, nil
}

// Put implements Backend.Put.
func (b *boltBackend) Put(key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketKV).Put([]byte(key), value); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
		return nil
	})
}

// Delete implements Backend.Delete.
func (b *boltBackend) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKV).Delete([]byte(key))
	})
}

// Close implements Backend.Close.
func (b *boltBackend) Close() error {
	if err := b.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
