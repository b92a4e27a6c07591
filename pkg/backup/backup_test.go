package backup

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/media"
)

func sampleSnapshot() account.Snapshot {
	snap := account.EmptySnapshot()
	snap.Watchlist = []media.Item{{ID: 42, Type: media.TypeMovie, Title: "Arrival"}}
	snap.History = []media.HistoryEntry{{
		Item:      media.Item{ID: 7, MediaType: media.TypeTV, Name: "Dark"},
		Timestamp: time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC),
	}}
	snap.Progress["tv-7"] = 50
	snap.Ratings["movie-42"] = media.Rating{Score: 8.5, RatedAt: time.Date(2025, 2, 1, 11, 0, 0, 0, time.UTC)}
	settings := account.DefaultSettings("a@b.com")
	snap.Settings = &settings
	return snap
}

func TestFileName(t *testing.T) {
	at := time.UnixMilli(1700000000123)

	assert.Equal(t, "watchvault-backup-jane-1700000000123.json", FileName("jane@b.com", at))
	assert.Equal(t, "watchvault-backup-a_b-1700000000123.json", FileName("a/b@c.com", at))
	assert.Equal(t, "watchvault-backup-user-1700000000123.json", FileName("", at))
}

func TestWriteAndParseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	at := time.Date(2025, 2, 2, 0, 0, 0, 0, time.UTC)
	doc := New("a@b.com", sampleSnapshot(), at)

	path, err := Write(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, FileName("a@b.com", at), filepath.Base(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, FormatVersion, got.Version)
	assert.Equal(t, "a@b.com", got.Email)
	assert.True(t, at.Equal(got.ExportDate))
	require.Len(t, got.Watchlist, 1)
	assert.Equal(t, media.TypeMovie, got.Watchlist[0].MediaType)
	require.Len(t, got.History, 1)
	assert.Equal(t, int64(7), got.History[0].Item.ID)
	assert.Equal(t, 50, got.Progress["tv-7"])
	assert.Equal(t, 8.5, got.Ratings["movie-42"].Score)
	require.NotNil(t, got.Settings)
	assert.Equal(t, "a", got.Settings.Username)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, key := range []string{`"watchHistory"`, `"watchProgress"`, `"userRatings"`, `"recentlyViewed"`, `"exportDate"`} {
		assert.Contains(t, string(raw), key)
	}
}

func TestParseBrowserExport(t *testing.T) {
	raw := `{
  "email": "a@b.com",
  "watchlist": [{"id": 42, "type": "movie", "title": "Arrival"}],
  "watchHistory": [{"item": {"id": 7, "type": "tv", "media_type": "tv"}, "timestamp": 1700000000000}],
  "watchProgress": {"tv-7": 100},
  "userRatings": {},
  "recentlyViewed": [],
  "settings": {"theme": "light", "devicePreference": "auto", "username": "a"},
  "exportDate": "2025-01-01T00:00:00.000Z"
}`

	doc, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Version)
	assert.Equal(t, media.TypeMovie, doc.Watchlist[0].MediaType)
	assert.True(t, time.UnixMilli(1700000000000).Equal(doc.History[0].Timestamp))
	assert.Equal(t, "light", doc.Settings.Theme)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "malformed", raw: `{"email":`, wantErr: ErrMalformedJSON},
		{name: "no email", raw: `{"watchlist":[]}`, wantErr: ErrMissingEmail},
		{name: "future version", raw: `{"version":99,"email":"a@b.com"}`, wantErr: ErrUnsupportedVersion},
		{name: "item without id", raw: `{"email":"a@b.com","watchlist":[{"title":"x"}]}`, wantErr: ErrInvalidItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			assert.ErrorIs(t, err, tt.wantErr)

			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
		})
	}
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := ParseFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0600))
	_, err = ParseFile(bad)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, bad, pe.Path)
	assert.True(t, strings.Contains(err.Error(), bad))

	big := filepath.Join(dir, "big.json")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxFileSize+1), 0600))
	_, err = ParseFile(big)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		"watchvault-backup-jane-1700000000000.json",
		"watchvault-backup-first-last-1700000500000.json",
		"zaids-movies-backup-old-1600000000000.json",
		"notes.txt",
		"other.json",
	}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "watchvault-backup-dir-1.json"), 0700))

	found, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, found, 3)

	assert.Equal(t, "first-last", found[0].Owner)
	assert.Equal(t, "jane", found[1].Owner)
	assert.Equal(t, "old", found[2].Owner)
	assert.True(t, time.UnixMilli(1700000500000).Equal(found[0].CreatedAt))
	assert.Equal(t, int64(2), found[0].Size)
}

func TestDiscoverMissingDir(t *testing.T) {
	found, err := Discover(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestIsBackupName(t *testing.T) {
	assert.True(t, IsBackupName("watchvault-backup-a-1.json"))
	assert.True(t, IsBackupName("zaids-movies-backup-a-1.json"))
	assert.False(t, IsBackupName("watchvault-backup-a-1.json.tmp"))
	assert.False(t, IsBackupName(".backup-123.tmp"))
}
