package account

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/watchvault/pkg/kvstore"
	"github.com/0xmhha/watchvault/pkg/logger"
	"github.com/0xmhha/watchvault/pkg/media"
)

func memoryStore(t *testing.T) *kvstore.Store {
	t.Helper()
	return kvstore.NewWithBackend(kvstore.NewMemoryBackend(), logger.Noop())
}

func TestCreateAndFind(t *testing.T) {
	store := memoryStore(t)
	dir := OpenDirectory(store, KeyUsers, logger.Noop())
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	acct, err := dir.Create("a@b.com", "token", now)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", acct.Email)
	assert.Equal(t, now, acct.CreatedAt)
	assert.Equal(t, now, acct.LastSyncAt)
	assert.Empty(t, acct.Data.Watchlist)
	assert.NotNil(t, acct.Data.Progress)

	found, ok := dir.Find("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "token", found.CredentialToken)

	_, ok = dir.Find("nobody@b.com")
	assert.False(t, ok)
	assert.Equal(t, 1, dir.Len())
}

func TestCreateValidation(t *testing.T) {
	dir := OpenDirectory(memoryStore(t), KeyUsers, logger.Noop())

	tests := []struct {
		name    string
		email   string
		token   string
		wantErr error
	}{
		{name: "bad email", email: "not-an-email", token: "t", wantErr: ErrValidation},
		{name: "empty token", email: "a@b.com", token: "", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dir.Create(tt.email, tt.token, time.Now())
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			assert.True(t, errors.As(err, &verr))
		})
	}
	assert.Equal(t, 0, dir.Len())
}

func TestCreateDuplicateIsCaseSensitive(t *testing.T) {
	dir := OpenDirectory(memoryStore(t), KeyUsers, logger.Noop())

	_, err := dir.Create("a@b.com", "t1", time.Now())
	require.NoError(t, err)

	_, err = dir.Create("a@b.com", "t2", time.Now())
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Keys are matched exactly; a differently cased email is a new account.
	_, err = dir.Create("A@b.com", "t3", time.Now())
	assert.NoError(t, err)
	assert.Equal(t, 2, dir.Len())
}

func TestDirectoryPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	store := kvstore.Open(kvstore.Config{Path: path}, logger.Noop())
	require.True(t, store.Persistent())

	dir := OpenDirectory(store, KeyUsers, logger.Noop())
	_, err := dir.Create("a@b.com", "token", time.Now())
	require.NoError(t, err)

	snap := EmptySnapshot()
	snap.Watchlist = append(snap.Watchlist, media.Item{ID: 42, Type: media.TypeMovie})
	require.True(t, dir.Sync("a@b.com", snap, time.Now()))
	require.NoError(t, store.Close())

	reopened := kvstore.Open(kvstore.Config{Path: path}, logger.Noop())
	defer reopened.Close()

	again := OpenDirectory(reopened, KeyUsers, logger.Noop())
	acct, ok := again.Find("a@b.com")
	require.True(t, ok)
	require.Len(t, acct.Data.Watchlist, 1)
	assert.Equal(t, int64(42), acct.Data.Watchlist[0].ID)
	assert.Equal(t, media.TypeMovie, acct.Data.Watchlist[0].MediaType)
}

func TestOpenDirectoryCorruptData(t *testing.T) {
	store := memoryStore(t)
	store.Set(KeyUsers, []byte("{not json"))

	dir := OpenDirectory(store, KeyUsers, logger.Noop())
	assert.Equal(t, 0, dir.Len())

	_, err := dir.Create("a@b.com", "token", time.Now())
	assert.NoError(t, err)
}

func TestOpenDirectoryMapKeyWins(t *testing.T) {
	store := memoryStore(t)
	raw, err := json.Marshal(map[string]*Account{
		"a@b.com": {Email: "other@b.com", CredentialToken: "t"},
		"c@d.com": nil,
	})
	require.NoError(t, err)
	store.Set(KeyUsers, raw)

	dir := OpenDirectory(store, "", logger.Noop())
	acct, ok := dir.Find("a@b.com")
	require.True(t, ok)
	assert.Equal(t, "a@b.com", acct.Email)
	assert.NotNil(t, acct.Data.Ratings)
	assert.Equal(t, 1, dir.Len())
}

func TestDelete(t *testing.T) {
	store := memoryStore(t)
	dir := OpenDirectory(store, KeyUsers, logger.Noop())

	_, err := dir.Create("a@b.com", "token", time.Now())
	require.NoError(t, err)

	dir.Delete("a@b.com")
	_, ok := dir.Find("a@b.com")
	assert.False(t, ok)

	// Deleting again is harmless.
	dir.Delete("a@b.com")

	again := OpenDirectory(store, KeyUsers, logger.Noop())
	assert.Equal(t, 0, again.Len())
}

func TestSyncNeverResurrects(t *testing.T) {
	dir := OpenDirectory(memoryStore(t), KeyUsers, logger.Noop())

	_, err := dir.Create("a@b.com", "token", time.Now())
	require.NoError(t, err)
	dir.Delete("a@b.com")

	assert.False(t, dir.Sync("a@b.com", EmptySnapshot(), time.Now()))
	_, ok := dir.Find("a@b.com")
	assert.False(t, ok)
}

func TestSyncUpdatesSnapshot(t *testing.T) {
	dir := OpenDirectory(memoryStore(t), KeyUsers, logger.Noop())
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	synced := created.Add(time.Hour)

	_, err := dir.Create("a@b.com", "token", created)
	require.NoError(t, err)

	snap := EmptySnapshot()
	snap.Progress["movie-1"] = 40
	require.True(t, dir.Sync("a@b.com", snap, synced))

	// Mutating the caller's copy afterwards must not leak in.
	snap.Progress["movie-1"] = 99

	acct, ok := dir.Find("a@b.com")
	require.True(t, ok)
	assert.Equal(t, 40, acct.Data.Progress["movie-1"])
	assert.Equal(t, synced, acct.LastSyncAt)
	assert.Equal(t, created, acct.CreatedAt)
}

func TestFindReturnsCopy(t *testing.T) {
	dir := OpenDirectory(memoryStore(t), KeyUsers, logger.Noop())
	_, err := dir.Create("a@b.com", "token", time.Now())
	require.NoError(t, err)

	acct, _ := dir.Find("a@b.com")
	acct.Data.Progress["tv-9"] = 10
	acct.CredentialToken = "changed"

	again, _ := dir.Find("a@b.com")
	assert.Empty(t, again.Data.Progress)
	assert.Equal(t, "token", again.CredentialToken)
}

func TestList(t *testing.T) {
	dir := OpenDirectory(memoryStore(t), KeyUsers, logger.Noop())
	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		_, err := dir.Create(email, "token", time.Now())
		require.NoError(t, err)
	}

	list := dir.List()
	require.Len(t, list, 3)
	assert.Equal(t, "a@x.com", list[0].Email)
	assert.Equal(t, "b@x.com", list[1].Email)
	assert.Equal(t, "c@x.com", list[2].Email)
}

func TestSnapshotCloneNormalizes(t *testing.T) {
	snap := Snapshot{
		Watchlist: []media.Item{{ID: 1, MediaType: media.TypeTV}},
		History:   []media.HistoryEntry{{Item: media.Item{ID: 2}}},
		Settings:  &Settings{Theme: "light"},
	}

	out := snap.Clone()
	assert.Equal(t, media.TypeTV, out.Watchlist[0].Type)
	assert.Equal(t, media.TypeMovie, out.History[0].Item.MediaType)
	assert.NotNil(t, out.Progress)
	assert.NotNil(t, out.RecentlyViewed)

	out.Settings.Theme = "dark"
	assert.Equal(t, "light", snap.Settings.Theme)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings("jane.doe@example.com")
	assert.Equal(t, "dark", s.Theme)
	assert.Equal(t, "auto", s.DevicePreference)
	assert.Equal(t, "jane.doe", s.Username)
}
