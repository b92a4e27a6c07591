// Package config provides configuration management for watchvault.
//
// Configuration is loaded from multiple sources with the following precedence:
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. A .env file in the working directory
// 4. Configuration file
// 5. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Database: %s\n", cfg.Storage.DBPath)
package config

import (
	"strings"
	"time"

	"github.com/0xmhha/watchvault/pkg/catalog"
	"github.com/0xmhha/watchvault/pkg/credential"
	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/player"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Sync.AutosaveInterval must be > 0
// - Library limits must be > 0
// - Catalog timeout and cache TTL must be > 0
// - Player base URL must be https.
type Config struct {
	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Periodic library flush
	Sync SyncConfig `yaml:"sync"`

	// Session resume behavior
	Session SessionConfig `yaml:"session"`

	// Password hashing
	Credential credential.Config `yaml:"credential"`

	// Library caps
	Library library.Config `yaml:"library"`

	// Catalog API client and its Redis cache
	Catalog catalog.Config `yaml:"catalog"`

	// Playback URL builder
	Player player.Config `yaml:"player"`

	// Local HTTP API
	Server ServerConfig `yaml:"server"`

	// Backup export and import
	Backup BackupConfig `yaml:"backup"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Path to BoltDB database file. Empty selects the in-memory store.
	DBPath string `yaml:"db_path"`

	// How long to wait for the database file lock
	OpenTimeout time.Duration `yaml:"open_timeout"`
}

// SyncConfig controls autosave.
type SyncConfig struct {
	// How often the active library is flushed
	AutosaveInterval time.Duration `yaml:"autosave_interval"`

	// Disable the periodic flush; mutations still persist immediately
	DisableAutosave bool `yaml:"disable_autosave"`
}

// SessionConfig controls session resume.
type SessionConfig struct {
	// Restore the last session at startup without a password
	AllowResume bool `yaml:"allow_resume"`
}

// ServerConfig configures the local HTTP API.
type ServerConfig struct {
	// Listen address, loopback by default
	Addr string `yaml:"addr"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Browser origins allowed to call the API; one "*" wildcard per entry
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BackupConfig configures export and restore.
type BackupConfig struct {
	// Directory export writes to
	Dir string `yaml:"dir"`

	// Directory `restore -watch` watches for dropped backup files
	InboxDir string `yaml:"inbox_dir"`

	// Quiet time before an arriving file is read
	Debounce time.Duration `yaml:"debounce"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Default output format (table, json, simple)
	Format string `yaml:"format"`

	// Show timestamps in history and stats
	ShowTimestamps bool `yaml:"show_timestamps"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
//
// Thread-safety: This method is read-only and thread-safe.
func (c *Config) Validate() error {
	if c.Storage.OpenTimeout <= 0 {
		return ErrInvalidOpenTimeout
	}

	if c.Sync.AutosaveInterval <= 0 {
		return ErrInvalidAutosaveInterval
	}

	switch c.Credential.Algorithm {
	case credential.AlgorithmArgon2id, credential.AlgorithmBcrypt:
	default:
		return ErrInvalidAlgorithm
	}

	if c.Library.HistoryLimit <= 0 || c.Library.RecentLimit <= 0 {
		return ErrInvalidLibraryLimit
	}

	if c.Catalog.Timeout <= 0 {
		return ErrInvalidCatalogTimeout
	}
	if c.Catalog.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}

	if !strings.HasPrefix(c.Player.BaseURL, "https://") {
		return ErrInvalidPlayerURL
	}

	if c.Server.Addr == "" {
		return ErrInvalidServerAddr
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin == "" || strings.Count(origin, "*") > 1 {
			return ErrInvalidAllowedOrigin
		}
	}

	validFormats := map[string]bool{
		"table":  true,
		"json":   true,
		"simple": true,
	}
	if !validFormats[c.Display.Format] {
		return ErrInvalidDisplayFormat
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath:      defaultDBPath(),
			OpenTimeout: time.Second,
		},
		Sync: SyncConfig{
			AutosaveInterval: 30 * time.Second,
		},
		Session: SessionConfig{
			AllowResume: true,
		},
		Credential: credential.DefaultConfig(),
		Library:    library.DefaultConfig(),
		Catalog:    catalog.DefaultConfig(),
		Player:     player.DefaultConfig(),
		Server: ServerConfig{
			Addr:            "127.0.0.1:8787",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			AllowedOrigins:  []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Backup: BackupConfig{
			Dir:      defaultBackupDir(),
			InboxDir: defaultBackupDir(),
			Debounce: 250 * time.Millisecond,
		},
		Display: DisplayConfig{
			Format:         "table",
			ShowTimestamps: true,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Output: "stderr",
			Format: "text",
		},
	}
}
