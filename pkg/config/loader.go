package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the loader.
const (
	EnvConfig    = "WATCHVAULT_CONFIG"
	EnvDB        = "WATCHVAULT_DB"
	EnvLogLevel  = "WATCHVAULT_LOG_LEVEL"
	EnvRedisAddr = "WATCHVAULT_REDIS_ADDR"
	EnvPepper    = "WATCHVAULT_PEPPER"
	EnvAPIKey    = "TMDB_API_KEY"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. .env file
	// 3. Configuration file
	// 4. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile reads a configuration file over the defaults, without
	// environment overrides or validation.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
	envFile    string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, $WATCHVAULT_CONFIG is used, then the first of
// ./config.yaml and ~/.config/watchvault/config.yaml that exists.
func NewLoader(configPath string) Loader {
	return &loader{
		configPath: configPath,
		envFile:    ".env",
	}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	// .env never overrides variables already set in the environment.
	if err := godotenv.Load(l.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", l.envFile, err)
	}

	explicit := l.configPath
	if explicit == "" {
		explicit = os.Getenv(EnvConfig)
	}

	configPath := explicit
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	cfg := Default()
	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// A named file must load; a discovered one is best effort.
			if explicit != "" {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = fileCfg
		}
	}

	cfg = l.applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
//
// The file is decoded on top of Default(), so keys it omits keep their
// defaults and explicit false or zero values are honored.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // nolint:gosec
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing standard config path, or "".
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - WATCHVAULT_DB: Path to database file
//   - WATCHVAULT_LOG_LEVEL: Log level
//   - WATCHVAULT_REDIS_ADDR: Catalog cache address
//   - WATCHVAULT_PEPPER: Password pepper
//   - TMDB_API_KEY: Catalog API key
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if dbPath := os.Getenv(EnvDB); dbPath != "" {
		result.Storage.DBPath = dbPath
	}

	if logLevel := os.Getenv(EnvLogLevel); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	if addr := os.Getenv(EnvRedisAddr); addr != "" {
		result.Catalog.Redis.Addr = addr
	}

	if pepper := os.Getenv(EnvPepper); pepper != "" {
		result.Credential.Pepper = pepper
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		result.Catalog.APIKey = key
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file,
// with environment overrides and validation.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// File is created with 0600 permissions (read/write for owner only).
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
