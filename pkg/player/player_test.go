package player

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/watchvault/pkg/media"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := New(DefaultConfig())
	require.NoError(t, err)
	return b
}

func TestMovieURL(t *testing.T) {
	b := newBuilder(t)

	got, err := b.MovieURL(603)
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "player.videasy.net", u.Host)
	assert.Equal(t, "/movie/603", u.Path)
	assert.Equal(t, "true", u.Query().Get("overlay"))
	assert.Equal(t, "8B5CF6", u.Query().Get("color"))

	_, err = b.MovieURL(0)
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestEpisodeURL(t *testing.T) {
	b := newBuilder(t)

	got, err := b.EpisodeURL(Episode{ShowID: 1399, Season: 2, Episode: 5})
	require.NoError(t, err)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "/tv/1399/2/5", u.Path)
	for _, key := range []string{"nextEpisode", "autoplayNextEpisode", "episodeSelector", "overlay"} {
		assert.Equal(t, "true", u.Query().Get(key), key)
	}

	_, err = b.EpisodeURL(Episode{ShowID: 1399, Season: 1, Episode: 0})
	assert.ErrorIs(t, err, ErrInvalidTitle)
}

func TestURLFor(t *testing.T) {
	b := newBuilder(t)

	got, err := b.URLFor(media.Item{ID: 7, MediaType: media.TypeTV})
	require.NoError(t, err)
	assert.Contains(t, got, "/tv/7/1/1?")

	got, err = b.URLFor(media.Item{ID: 7})
	require.NoError(t, err)
	assert.Contains(t, got, "/movie/7?")
}

func TestNewRejectsUntrustedBase(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "other host", cfg: Config{BaseURL: "https://evil.example.com"}},
		{name: "lookalike suffix", cfg: Config{BaseURL: "https://notvideasy.net"}},
		{name: "plain http", cfg: Config{BaseURL: "http://player.videasy.net"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, ErrUntrustedHost)
		})
	}
}

func TestIsTrusted(t *testing.T) {
	b := newBuilder(t)

	assert.True(t, b.IsTrusted("https://player.videasy.net/movie/1"))
	assert.True(t, b.IsTrusted("https://cdn.videasy.net/x"))
	assert.False(t, b.IsTrusted("https://videasy.net.evil.com/x"))
	assert.False(t, b.IsTrusted("http://player.videasy.net/movie/1"))
	assert.False(t, b.IsTrusted("::bad"))
}
