package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrInvalidOpenTimeout is returned when the storage open timeout is <= 0.
	ErrInvalidOpenTimeout = errors.New("invalid storage open timeout: must be > 0")

	// ErrInvalidAutosaveInterval is returned when the autosave interval is <= 0.
	ErrInvalidAutosaveInterval = errors.New("invalid autosave interval: must be > 0")

	// ErrInvalidAlgorithm is returned for an unknown password hashing algorithm.
	ErrInvalidAlgorithm = errors.New("invalid credential algorithm: must be argon2id or bcrypt")

	// ErrInvalidLibraryLimit is returned when a library cap is <= 0.
	ErrInvalidLibraryLimit = errors.New("invalid library limit: must be > 0")

	// ErrInvalidCatalogTimeout is returned when the catalog timeout is <= 0.
	ErrInvalidCatalogTimeout = errors.New("invalid catalog timeout: must be > 0")

	// ErrInvalidCacheTTL is returned when the catalog cache TTL is <= 0.
	ErrInvalidCacheTTL = errors.New("invalid catalog cache ttl: must be > 0")

	// ErrInvalidPlayerURL is returned when the player base URL is not https.
	ErrInvalidPlayerURL = errors.New("invalid player base url: must be https")

	// ErrInvalidServerAddr is returned when the server address is empty.
	ErrInvalidServerAddr = errors.New("invalid server address")

	// ErrInvalidAllowedOrigin is returned when an allowed origin is empty or has more than one wildcard.
	ErrInvalidAllowedOrigin = errors.New("invalid allowed origin: must be non-empty with at most one '*'")

	// ErrInvalidDisplayFormat is returned when the display format is not recognized.
	ErrInvalidDisplayFormat = errors.New("invalid display format: must be table, json, or simple")

	// ErrInvalidLogLevel is returned when log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level: must be debug, info, warn, or error")

	// ErrInvalidLogFormat is returned when log format is not recognized.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")

	// ErrConfigNotFound is returned when config file is not found.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when config file has invalid YAML syntax.
	ErrInvalidYAML = errors.New("invalid YAML syntax in config file")
)
