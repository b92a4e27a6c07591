// Package player builds embeddable player URLs for catalog titles.
//
// Only hosts on the trusted list are ever returned; a misconfigured base URL
// fails instead of handing the front end an arbitrary origin.
package player

// Config contains player URL settings.
type Config struct {
	// BaseURL is the player origin (default: https://player.videasy.net).
	BaseURL string `yaml:"base_url"`

	// Color is the accent color passed to the player, hex without '#'.
	Color string `yaml:"color"`

	// TrustedDomains lists hosts a player URL may point at. Subdomains of a
	// listed host are accepted.
	TrustedDomains []string `yaml:"trusted_domains"`
}

// DefaultConfig returns the videasy player settings.
func DefaultConfig() Config {
	return Config{
		BaseURL:        "https://player.videasy.net",
		Color:          "8B5CF6",
		TrustedDomains: []string{"player.videasy.net", "videasy.net"},
	}
}

// Episode addresses one TV episode.
type Episode struct {
	ShowID  int64 `json:"showId"`
	Season  int   `json:"season"`
	Episode int   `json:"episode"`
}
