// Package catalog is a client for the TMDB-style title catalog.
//
// Responses are mapped onto media.Item. Raw responses can be cached in Redis;
// a cache failure is logged and the request goes to the API.
//
// Example usage:
//
//	client, err := catalog.New(catalog.Config{APIKey: key}, nil, logger.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	page, err := client.Search(ctx, "arrival", 1)
package catalog

import (
	"context"
	"time"

	"github.com/0xmhha/watchvault/pkg/media"
)

// Config contains catalog client configuration.
type Config struct {
	// BaseURL is the API root (default: https://api.themoviedb.org/3).
	BaseURL string `yaml:"base_url"`

	// APIKey is the TMDB API key.
	APIKey string `yaml:"api_key"`

	// Timeout bounds each HTTP request (default: 15s).
	Timeout time.Duration `yaml:"timeout"`

	// CacheTTL is how long cached responses live (default: 10m).
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Redis configures the optional response cache.
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the response cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// DefaultConfig returns the TMDB defaults without an API key.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "https://api.themoviedb.org/3",
		Timeout:  15 * time.Second,
		CacheTTL: 10 * time.Minute,
		Redis: RedisConfig{
			Prefix: "watchvault:catalog:",
		},
	}
}

// Cache stores raw API responses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Page is one page of list results.
type Page struct {
	Page         int          `json:"page"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Results      []media.Item `json:"results"`
}

// Genre is a named catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Season summarizes one season of a show.
type Season struct {
	SeasonNumber int    `json:"season_number"`
	Name         string `json:"name"`
	EpisodeCount int    `json:"episode_count"`
	AirDate      string `json:"air_date"`
}

// Episode is one episode in a season listing.
type Episode struct {
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	AirDate       string  `json:"air_date"`
	Runtime       int     `json:"runtime"`
	VoteAverage   float64 `json:"vote_average"`
}

// Details is the full record for one title.
type Details struct {
	media.Item
	Genres          []Genre  `json:"genres"`
	Runtime         int      `json:"runtime"`
	VoteCount       int      `json:"vote_count"`
	Tagline         string   `json:"tagline"`
	Status          string   `json:"status"`
	NumberOfSeasons int      `json:"number_of_seasons"`
	Seasons         []Season `json:"seasons"`
}

// DiscoverOptions filters a discover query.
type DiscoverOptions struct {
	Genres        []int
	SortBy        string
	MinVotes      int
	OriginCountry string
	Page          int
}
