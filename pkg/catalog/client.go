package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/0xmhha/watchvault/pkg/logger"
	"github.com/0xmhha/watchvault/pkg/media"
)

// maxBody caps how much of a response is read.
const maxBody = 4 * 1024 * 1024

// Client is the catalog API client.
type Client struct {
	config Config
	http   *http.Client
	cache  Cache
	logger logger.Logger
}

// New creates a Client. cache may be nil.
func New(cfg Config, cache Cache, log logger.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
		logger: log,
	}, nil
}

// Search runs a multi search and keeps movies and shows only.
func (c *Client) Search(ctx context.Context, query string, page int) (*Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", ErrInvalidRequest)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", strconv.Itoa(max(page, 1)))

	var result Page
	if err := c.get(ctx, "/search/multi", params, &result); err != nil {
		return nil, err
	}

	result.Results = keepTitles(result.Results)
	return &result, nil
}

// Trending returns this week's (or today's, window "day") trending titles.
func (c *Client) Trending(ctx context.Context, window string) (*Page, error) {
	if window != "day" {
		window = "week"
	}

	var result Page
	if err := c.get(ctx, "/trending/all/"+window, nil, &result); err != nil {
		return nil, err
	}

	result.Results = keepTitles(result.Results)
	return &result, nil
}

// Details fetches the full record for a movie or show.
func (c *Client) Details(ctx context.Context, t media.Type, id int64) (*Details, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: id %d", ErrInvalidRequest, id)
	}
	if t != media.TypeTV {
		t = media.TypeMovie
	}

	var result Details
	if err := c.get(ctx, fmt.Sprintf("/%s/%d", t, id), nil, &result); err != nil {
		return nil, err
	}

	for _, g := range result.Genres {
		result.GenreIDs = append(result.GenreIDs, g.ID)
	}
	result.MediaType = t
	result.Item = result.Item.Normalize()
	return &result, nil
}

// Season lists the episodes of one season.
func (c *Client) Season(ctx context.Context, showID int64, season int) ([]Episode, error) {
	if showID <= 0 || season < 0 {
		return nil, fmt.Errorf("%w: show %d season %d", ErrInvalidRequest, showID, season)
	}

	var result struct {
		Episodes []Episode `json:"episodes"`
	}
	if err := c.get(ctx, fmt.Sprintf("/tv/%d/season/%d", showID, season), nil, &result); err != nil {
		return nil, err
	}
	return result.Episodes, nil
}

// Discover queries the discover endpoint for movies or shows.
func (c *Client) Discover(ctx context.Context, t media.Type, opts DiscoverOptions) (*Page, error) {
	if t != media.TypeTV {
		t = media.TypeMovie
	}

	params := url.Values{}
	params.Set("sort_by", "popularity.desc")
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	if len(opts.Genres) > 0 {
		ids := make([]string, 0, len(opts.Genres))
		for _, g := range opts.Genres {
			ids = append(ids, strconv.Itoa(g))
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if opts.MinVotes > 0 {
		params.Set("vote_count.gte", strconv.Itoa(opts.MinVotes))
	}
	if opts.OriginCountry != "" {
		params.Set("with_origin_country", opts.OriginCountry)
	}
	params.Set("page", strconv.Itoa(max(opts.Page, 1)))

	var result Page
	if err := c.get(ctx, "/discover/"+string(t), params, &result); err != nil {
		return nil, err
	}

	// Discover results carry no media_type.
	for i := range result.Results {
		result.Results[i].MediaType = t
		result.Results[i] = result.Results[i].Normalize()
	}
	return &result, nil
}

// Recommend returns well-rated movies in the seed genres.
func (c *Client) Recommend(ctx context.Context, genres []int) (*Page, error) {
	if len(genres) == 0 {
		return &Page{Results: []media.Item{}}, nil
	}
	return c.Discover(ctx, media.TypeMovie, DiscoverOptions{
		Genres:   genres,
		SortBy:   "vote_average.desc",
		MinVotes: 1000,
	})
}

// get fetches path with params into out, consulting the cache first.
func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	key := cacheKey(path, params)

	if body, ok := c.cached(ctx, key); ok {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
		c.logger.Warn("cached catalog response unreadable", "key", key)
	}

	body, err := c.fetch(ctx, path, params)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}

	c.store(ctx, key, body)
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", c.redactURL(err, path))
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching catalog", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", c.redactURL(err, path))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func (c *Client) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
		return nil, false
	}
	return body, ok
}

func (c *Client) store(ctx context.Context, key string, body []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, body, c.config.CacheTTL); err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
}

// redactURL replaces the URL of a *url.Error, which carries the api_key
// query parameter, with the bare endpoint.
func (c *Client) redactURL(err error, path string) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	return &url.Error{Op: uerr.Op, URL: c.config.BaseURL + path, Err: uerr.Err}
}

// cacheKey is path plus sorted params. The API key never enters it.
func cacheKey(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(path)
	for i, k := range keys {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strings.Join(params[k], ","))
	}
	return b.String()
}

// keepTitles drops people and other non-title results and normalizes types.
func keepTitles(items []media.Item) []media.Item {
	out := make([]media.Item, 0, len(items))
	for _, item := range items {
		if item.MediaType != media.TypeMovie && item.MediaType != media.TypeTV {
			continue
		}
		out = append(out, item.Normalize())
	}
	return out
}
