package player

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/0xmhha/watchvault/pkg/media"
)

// Builder produces player URLs.
type Builder struct {
	config Config
	base   *url.URL
}

// New validates cfg and returns a Builder.
func New(cfg Config) (*Builder, error) {
	defaults := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	if cfg.Color == "" {
		cfg.Color = defaults.Color
	}
	if len(cfg.TrustedDomains) == 0 {
		cfg.TrustedDomains = defaults.TrustedDomains
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid player base URL: %w", err)
	}
	if base.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s must use https", ErrUntrustedHost, cfg.BaseURL)
	}
	if !hostTrusted(base.Hostname(), cfg.TrustedDomains) {
		return nil, fmt.Errorf("%w: %s", ErrUntrustedHost, base.Hostname())
	}

	return &Builder{config: cfg, base: base}, nil
}

// MovieURL returns the player URL for a movie.
func (b *Builder) MovieURL(id int64) (string, error) {
	if id <= 0 {
		return "", fmt.Errorf("%w: movie id %d", ErrInvalidTitle, id)
	}

	q := url.Values{}
	q.Set("overlay", "true")
	q.Set("color", b.config.Color)

	return b.build(fmt.Sprintf("/movie/%d", id), q)
}

// EpisodeURL returns the player URL for one episode with autoplay of the next.
func (b *Builder) EpisodeURL(ep Episode) (string, error) {
	if ep.ShowID <= 0 || ep.Season < 0 || ep.Episode <= 0 {
		return "", fmt.Errorf("%w: show %d S%dE%d", ErrInvalidTitle, ep.ShowID, ep.Season, ep.Episode)
	}

	q := url.Values{}
	q.Set("nextEpisode", "true")
	q.Set("autoplayNextEpisode", "true")
	q.Set("episodeSelector", "true")
	q.Set("overlay", "true")
	q.Set("color", b.config.Color)

	return b.build(fmt.Sprintf("/tv/%d/%d/%d", ep.ShowID, ep.Season, ep.Episode), q)
}

// URLFor returns the URL for item: movies directly, shows at season 1
// episode 1.
func (b *Builder) URLFor(item media.Item) (string, error) {
	if item.ResolvedType() == media.TypeTV {
		return b.EpisodeURL(Episode{ShowID: item.ID, Season: 1, Episode: 1})
	}
	return b.MovieURL(item.ID)
}

// IsTrusted reports whether rawURL is an https URL on a trusted host.
func (b *Builder) IsTrusted(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme != "https" {
		return false
	}
	return hostTrusted(u.Hostname(), b.config.TrustedDomains)
}

func (b *Builder) build(path string, q url.Values) (string, error) {
	u := *b.base
	u.Path = b.base.Path + path
	u.RawQuery = q.Encode()

	out := u.String()
	if !b.IsTrusted(out) {
		return "", fmt.Errorf("%w: %s", ErrUntrustedHost, u.Hostname())
	}
	return out, nil
}

// hostTrusted matches host against domains exactly or as a subdomain.
func hostTrusted(host string, domains []string) bool {
	host = strings.ToLower(host)
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
