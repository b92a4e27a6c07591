package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/catalog"
	"github.com/0xmhha/watchvault/pkg/credential"
	"github.com/0xmhha/watchvault/pkg/kvstore"
	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/logger"
	"github.com/0xmhha/watchvault/pkg/media"
	"github.com/0xmhha/watchvault/pkg/player"
	"github.com/0xmhha/watchvault/pkg/session"
)

var arrival = media.Item{ID: 329865, MediaType: media.TypeMovie, Title: "Arrival", GenreIDs: []int{18, 878}}

type fakeCatalog struct {
	seeds     []int
	searchErr error
}

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*catalog.Page, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if strings.TrimSpace(query) == "" {
		return nil, catalog.ErrInvalidRequest
	}
	return &catalog.Page{Page: page, Results: []media.Item{arrival}}, nil
}

func (f *fakeCatalog) Trending(context.Context, string) (*catalog.Page, error) {
	return nil, &catalog.APIError{Status: http.StatusUnauthorized, Body: "bad key"}
}

func (f *fakeCatalog) Details(_ context.Context, t media.Type, id int64) (*catalog.Details, error) {
	if id != arrival.ID || t != media.TypeMovie {
		return nil, &catalog.APIError{Status: http.StatusNotFound}
	}
	return &catalog.Details{Item: arrival.Normalize(), Runtime: 116}, nil
}

func (f *fakeCatalog) Recommend(_ context.Context, genres []int) (*catalog.Page, error) {
	f.seeds = genres
	return &catalog.Page{Results: []media.Item{}}, nil
}

type testServer struct {
	handler http.Handler
	lib     *library.Store
	catalog *fakeCatalog
}

func newTestServer(t *testing.T, withCatalog bool) *testServer {
	t.Helper()

	store := kvstore.NewWithBackend(kvstore.NewMemoryBackend(), logger.Noop())
	dir := account.OpenDirectory(store, account.KeyUsers, logger.Noop())
	records := account.NewSessionRecords(store, account.KeySession, logger.Noop())
	lib := library.New(library.DefaultConfig(), dir, records, logger.Noop())

	credCfg := credential.DefaultConfig()
	credCfg.Algorithm = credential.AlgorithmBcrypt
	credCfg.BcryptCost = bcrypt.MinCost
	creds, err := credential.New(credCfg)
	require.NoError(t, err)

	sessCfg := session.DefaultConfig()
	sessCfg.DisableAutosave = true
	mgr := session.New(sessCfg, session.Deps{
		Directory:   dir,
		Records:     records,
		Library:     lib,
		Credentials: creds,
	}, logger.Noop())
	t.Cleanup(func() { _ = mgr.Close() })

	builder, err := player.New(player.DefaultConfig())
	require.NoError(t, err)

	ts := &testServer{lib: lib}
	deps := Deps{Sessions: mgr, Library: lib, Player: builder}
	if withCatalog {
		ts.catalog = &fakeCatalog{}
		deps.Catalog = ts.catalog
	}
	ts.handler = New(DefaultConfig(), deps, logger.Noop()).Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

// send issues a request with explicit headers and a raw body.
func (ts *testServer) send(t *testing.T, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/auth/signup",
		credentialsRequest{Email: "ana@example.com", Password: "secret1", Confirm: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: "ana@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/auth/signup",
		credentialsRequest{Email: "ana@example.com", Password: "secret1", Confirm: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, session.Result{Success: true, Message: session.MsgSignedUp}, decodeBody[session.Result](t, rec))

	rec = ts.do(t, http.MethodPost, "/api/auth/signup",
		credentialsRequest{Email: "ana@example.com", Password: "secret1", Confirm: "secret1"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered", decodeBody[session.Result](t, rec).Message)

	rec = ts.do(t, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: "ana@example.com", Password: "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, session.Result{Success: false, Message: "Incorrect password"}, decodeBody[session.Result](t, rec))

	rec = ts.do(t, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: "nobody@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: "ana@example.com", Password: "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/session", nil)
	assert.Equal(t, sessionResponse{State: "logged_in", Email: "ana@example.com", Authenticated: true},
		decodeBody[sessionResponse](t, rec))

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Please log in first", decodeBody[session.Result](t, rec).Message)

	rec = ts.do(t, http.MethodPost, "/api/auth/resume", nil)
	assert.False(t, decodeBody[sessionResponse](t, rec).Authenticated)
}

func TestSignupValidationMessage(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodPost, "/api/auth/signup",
		credentialsRequest{Email: "ana@example.com", Password: "123", Confirm: "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", decodeBody[session.Result](t, rec).Message)

	rec = ts.do(t, http.MethodPost, "/api/auth/signup", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decodeBody[session.Result](t, rec).Success)
}

func TestLibraryRequiresSession(t *testing.T) {
	ts := newTestServer(t, true)

	for _, path := range []string{"/api/library/watchlist", "/api/library/stats", "/api/catalog/recommendations"} {
		rec := ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Equal(t, session.Result{Success: false, Message: "Please log in first"},
			decodeBody[session.Result](t, rec), path)
	}
}

func TestWatchlistAndHistory(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/library/watchlist", itemRequest{Item: arrival})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]bool{"inWatchlist": true}, decodeBody[map[string]bool](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/library/watchlist/movie/329865", nil)
	assert.Equal(t, map[string]bool{"inWatchlist": true}, decodeBody[map[string]bool](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/library/watchlist/tv/329865", nil)
	assert.Equal(t, map[string]bool{"inWatchlist": false}, decodeBody[map[string]bool](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/library/watchlist", nil)
	items := decodeBody[itemsResponse](t, rec).Items
	require.Len(t, items, 1)
	assert.Equal(t, "Arrival", items[0].Title)

	rec = ts.do(t, http.MethodPost, "/api/library/history", itemRequest{Item: arrival})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/library/history", nil)
	history := decodeBody[historyResponse](t, rec).History
	require.Len(t, history, 1)
	assert.Equal(t, arrival.ID, history[0].Item.ID)

	rec = ts.do(t, http.MethodPost, "/api/library/history", itemRequest{Item: media.Item{Title: "no id"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProgressAndRatings(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	rec := ts.do(t, http.MethodPut, "/api/library/progress", progressRequest{Item: arrival, Progress: 40})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/library/progress/movie/329865", nil)
	assert.Equal(t, map[string]int{"progress": 40}, decodeBody[map[string]int](t, rec))

	rec = ts.do(t, http.MethodPut, "/api/library/progress", progressRequest{Item: arrival, Progress: 140})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/library/watched", itemRequest{Item: arrival})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 100, ts.lib.GetProgress(arrival))

	rec = ts.do(t, http.MethodGet, "/api/library/progress/film/1", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/library/ratings", ratingRequest{Item: arrival, Score: 8.5})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/library/ratings/movie/329865", nil)
	rating := decodeBody[map[string]*media.Rating](t, rec)["rating"]
	require.NotNil(t, rating)
	assert.Equal(t, 8.5, rating.Score)

	rec = ts.do(t, http.MethodPut, "/api/library/ratings", ratingRequest{Item: arrival, Score: 11})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/api/library/ratings/movie/329865", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/library/ratings/movie/329865", nil)
	assert.Nil(t, decodeBody[map[string]*media.Rating](t, rec)["rating"])
}

func TestPlayback(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/library/playback", itemRequest{Item: arrival})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(decodeBody[map[string]string](t, rec)["url"],
		"https://player.videasy.net/movie/329865"))
	assert.Equal(t, library.ProgressStarted, ts.lib.GetProgress(arrival))
	assert.Len(t, ts.lib.History(), 1)

	rec = ts.do(t, http.MethodPost, "/api/library/playback", itemRequest{Item: media.Item{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, ts.lib.History(), 1)
}

func TestPlayerURL(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodGet, "/api/player/url?type=tv&id=1399&season=2&episode=3", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["url"], "/tv/1399/2/3")

	rec = ts.do(t, http.MethodGet, "/api/player/url?id=5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["url"], "/movie/5")

	rec = ts.do(t, http.MethodGet, "/api/player/url?id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/player/url?type=book&id=5", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettings(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/library/settings", nil)
	settings := decodeBody[account.Settings](t, rec)
	assert.Equal(t, "dark", settings.Theme)
	assert.Equal(t, "ana", settings.Username)

	rec = ts.do(t, http.MethodPut, "/api/library/settings", `{"theme":"light"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settings = decodeBody[account.Settings](t, rec)
	assert.Equal(t, "light", settings.Theme)
	assert.Equal(t, "auto", settings.DevicePreference)

	rec = ts.do(t, http.MethodPut, "/api/library/settings", `{"theme":"purple"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportRestore(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	ts.do(t, http.MethodPost, "/api/library/watchlist", itemRequest{Item: arrival})

	rec := ts.do(t, http.MethodGet, "/api/library/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "watchvault-backup-ana-")
	exported := rec.Body.String()

	ts.do(t, http.MethodPost, "/api/library/watchlist", itemRequest{Item: arrival})
	assert.Empty(t, ts.lib.Watchlist())

	rec = ts.do(t, http.MethodPost, "/api/library/restore", exported)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Restored 1 watchlist items and 0 history entries", decodeBody[session.Result](t, rec).Message)
	assert.True(t, ts.lib.IsInWatchlist(arrival))

	rec = ts.do(t, http.MethodPost, "/api/library/restore", `{"watchlist":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/library/restore", "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStats(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	ts.do(t, http.MethodPut, "/api/library/progress", progressRequest{Item: arrival, Progress: 40})
	ts.do(t, http.MethodPost, "/api/library/history", itemRequest{Item: arrival})

	rec := ts.do(t, http.MethodGet, "/api/library/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[statsResponse](t, rec)
	assert.Equal(t, 1, resp.Stats.HistoryCount)
	assert.Equal(t, 1, resp.Stats.InProgress)
	assert.Len(t, resp.ContinueWatching, 1)
	assert.Len(t, resp.Activity, 1)
}

func TestDeleteAccount(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)

	rec := ts.do(t, http.MethodDelete, "/api/account", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Account deletion must be confirmed", decodeBody[session.Result](t, rec).Message)

	rec = ts.do(t, http.MethodDelete, "/api/account", deleteRequest{Confirm: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/auth/login",
		credentialsRequest{Email: "ana@example.com", Password: "secret1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogRoutes(t *testing.T) {
	ts := newTestServer(t, true)

	rec := ts.do(t, http.MethodGet, "/api/catalog/search?q=arrival&page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[catalog.Page](t, rec)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Results, 1)

	rec = ts.do(t, http.MethodGet, "/api/catalog/search?q=", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/catalog/search?q=x&page=two", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/catalog/trending", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/catalog/details/movie/1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Details while logged in fills recently viewed.
	ts.login(t)
	rec = ts.do(t, http.MethodGet, "/api/catalog/details/movie/329865", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 116, decodeBody[catalog.Details](t, rec).Runtime)

	rec = ts.do(t, http.MethodGet, "/api/library/recent", nil)
	require.Len(t, decodeBody[itemsResponse](t, rec).Items, 1)

	for i := 0; i < 3; i++ {
		ts.do(t, http.MethodPost, "/api/library/history",
			itemRequest{Item: media.Item{ID: int64(100 + i), GenreIDs: []int{27}}})
	}
	rec = ts.do(t, http.MethodGet, "/api/catalog/recommendations", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{27}, ts.catalog.seeds)
}

func TestCatalogUnavailable(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.do(t, http.MethodGet, "/api/catalog/search?q=x", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Catalog is unavailable", decodeBody[session.Result](t, rec).Message)
}

func TestCrossSiteRequestsRejected(t *testing.T) {
	ts := newTestServer(t, false)
	ts.login(t)
	ts.do(t, http.MethodPost, "/api/library/watchlist", itemRequest{Item: arrival})
	require.True(t, ts.lib.IsInWatchlist(arrival))

	const wipe = `{"watchlist":[],"history":[]}`

	rec := ts.send(t, http.MethodPost, "/api/library/restore", wipe, map[string]string{
		"Content-Type": "text/plain",
		"Origin":       "https://evil.example",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = ts.send(t, http.MethodPost, "/api/library/restore", wipe, map[string]string{
		"Content-Type": "text/plain",
	})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = ts.send(t, http.MethodPost, "/api/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = ts.send(t, http.MethodPost, "/api/library/restore", wipe, map[string]string{
		"Content-Type": "application/json",
		"Origin":       "https://evil.example",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.send(t, http.MethodDelete, "/api/library/watchlist/movie/329865", "", map[string]string{
		"Origin": "https://evil.example",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.True(t, ts.lib.IsInWatchlist(arrival))

	rec = ts.send(t, http.MethodGet, "/api/library/watchlist", "", map[string]string{
		"Origin": "http://localhost:5173",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	ts := newTestServer(t, false)

	preflight := func(origin string) *httptest.ResponseRecorder {
		return ts.send(t, http.MethodOptions, "/api/library/restore", "", map[string]string{
			"Origin":                         origin,
			"Access-Control-Request-Method":  http.MethodPost,
			"Access-Control-Request-Headers": "Content-Type",
		})
	}

	rec := preflight("http://127.0.0.1:3000")
	assert.Equal(t, "http://127.0.0.1:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight("https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequireJSONAcceptsParameters(t *testing.T) {
	ts := newTestServer(t, false)

	rec := ts.send(t, http.MethodPost, "/api/auth/signup",
		`{"email":"ana@example.com","password":"secret1","confirm":"secret1"}`,
		map[string]string{"Content-Type": "application/json; charset=utf-8"})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestOriginAllowed(t *testing.T) {
	patterns := []string{"http://localhost:*", "https://app.example.com"}

	tests := []struct {
		origin string
		want   bool
	}{
		{"http://localhost:5173", true},
		{"HTTP://LOCALHOST:8080", true},
		{"https://app.example.com", true},
		{"https://app.example.com.evil.example", false},
		{"http://localhost.evil.example", false},
		{"https://evil.example", false},
		{"null", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			assert.Equal(t, tt.want, originAllowed(tt.origin, patterns))
		})
	}

	assert.True(t, originAllowed("https://anything.example", []string{"*"}))
	assert.False(t, originAllowed("http://localhost:5173", nil))
}

func TestInternalErrorsAreNotEchoed(t *testing.T) {
	ts := newTestServer(t, true)
	ts.catalog.searchErr = &url.Error{
		Op:  "Get",
		URL: "https://api.themoviedb.org/3/search/multi?api_key=SECRETKEY123&query=x",
		Err: errors.New("connection refused"),
	}

	rec := ts.do(t, http.MethodGet, "/api/catalog/search?q=x", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Something went wrong", decodeBody[session.Result](t, rec).Message)
	assert.NotContains(t, rec.Body.String(), "SECRETKEY123")
	assert.NotContains(t, rec.Body.String(), "api_key")
}

func TestListenAndServeStops(t *testing.T) {
	ts := newTestServer(t, false)

	cfg := DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	srv := New(cfg, Deps{Library: ts.lib}, logger.Noop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
