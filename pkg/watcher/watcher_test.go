package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xmhha/watchvault/pkg/backup"
	"github.com/0xmhha/watchvault/pkg/logger"
)

const testDebounce = 50 * time.Millisecond

func newStarted(t *testing.T, cfg Config) (Watcher, string) {
	t.Helper()

	dir := t.TempDir()
	if cfg.DebounceInterval == 0 {
		cfg.DebounceInterval = testDebounce
	}

	w, err := New(cfg, logger.Noop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	require.NoError(t, w.Start(ctx, []string{dir}))
	return w, dir
}

func waitEvent(t *testing.T, w Watcher) Event {
	t.Helper()

	select {
	case ev, ok := <-w.Events():
		require.True(t, ok, "events channel closed")
		return ev
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func assertNoEvent(t *testing.T, w Watcher, within time.Duration) {
	t.Helper()

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %s %s", ev.Op, ev.Path)
	case <-time.After(within):
	}
}

func TestNewAndClose(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	require.NoError(t, err)
	require.NotNil(t, w)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second close is a no-op")

	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestStartErrors(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()

	ctx := context.Background()

	err = w.Start(ctx, []string{filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, ErrInvalidPath)

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))
	err = w.Start(ctx, []string{file})
	assert.ErrorIs(t, err, ErrInvalidPath)

	assert.ErrorIs(t, w.Stop(), ErrNotStarted)

	require.NoError(t, w.Start(ctx, []string{t.TempDir()}))
	assert.ErrorIs(t, w.Start(ctx, []string{t.TempDir()}), ErrAlreadyStarted)
	require.NoError(t, w.Stop())
}

func TestStartAfterClose(t *testing.T) {
	w, err := New(Config{}, logger.Noop())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.ErrorIs(t, w.Start(context.Background(), []string{t.TempDir()}), ErrWatcherClosed)
	assert.ErrorIs(t, w.Stop(), ErrWatcherClosed)
}

func TestFilteredCreate(t *testing.T) {
	w, dir := newStarted(t, Config{Filter: backup.IsBackupName})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	name := filepath.Join(dir, "watchvault-backup-ana-1700000000000.json")
	require.NoError(t, os.WriteFile(name, []byte("{}"), 0o600))

	ev := waitEvent(t, w)
	assert.Equal(t, name, ev.Path)
	assert.Equal(t, OpCreate, ev.Op)
	assert.False(t, ev.Timestamp.IsZero())

	assertNoEvent(t, w, 4*testDebounce)
}

func TestDebounceCoalesces(t *testing.T) {
	w, dir := newStarted(t, Config{DebounceInterval: 150 * time.Millisecond})

	name := filepath.Join(dir, "a.json")
	f, err := os.Create(name)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := f.WriteString("chunk")
		require.NoError(t, err)
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	ev := waitEvent(t, w)
	assert.Equal(t, name, ev.Path)
	assert.Equal(t, OpCreate, ev.Op, "create followed by writes stays a create")

	assertNoEvent(t, w, 300*time.Millisecond)
}

func TestWriteToExistingFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "existing.json")
	require.NoError(t, os.WriteFile(name, []byte("{}"), 0o600))

	w, err := New(Config{DebounceInterval: testDebounce}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Start(context.Background(), []string{dir}))

	require.NoError(t, os.WriteFile(name, []byte(`{"a":1}`), 0o600))

	ev := waitEvent(t, w)
	assert.Equal(t, OpWrite, ev.Op)
}

func TestRemoveIgnored(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "gone.json")
	require.NoError(t, os.WriteFile(name, []byte("{}"), 0o600))

	w, err := New(Config{DebounceInterval: testDebounce}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Start(context.Background(), []string{dir}))

	require.NoError(t, os.Remove(name))
	assertNoEvent(t, w, 4*testDebounce)
}

func TestContextCancelStopsDelivery(t *testing.T) {
	dir := t.TempDir()

	w, err := New(Config{DebounceInterval: testDebounce}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx, []string{dir}))
	cancel()
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "late.json"), []byte("{}"), 0o600))
	assertNoEvent(t, w, 4*testDebounce)
}

func TestHandleErrorCircuitBreaker(t *testing.T) {
	w, err := New(Config{CircuitBreakerThreshold: 2}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()

	impl := w.(*watcher)
	boom := errors.New("boom")

	impl.handleError(boom)
	impl.handleError(boom)

	assert.Equal(t, boom, <-w.Errors())
	assert.ErrorIs(t, <-w.Errors(), ErrCircuitBreakerOpen)
}

func TestHandleEventOps(t *testing.T) {
	w, err := New(Config{DebounceInterval: time.Hour}, logger.Noop())
	require.NoError(t, err)
	defer w.Close()

	impl := w.(*watcher)
	impl.handleEvent(fsnotify.Event{Name: "/x/a.json", Op: fsnotify.Chmod})
	impl.handleEvent(fsnotify.Event{Name: "/x/b.json", Op: fsnotify.Rename})
	impl.handleEvent(fsnotify.Event{Name: "/x/c.json", Op: fsnotify.Write})

	impl.debounceMu.Lock()
	defer impl.debounceMu.Unlock()
	assert.Equal(t, map[string]Op{"/x/c.json": OpWrite}, impl.pending)
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "CREATE", OpCreate.String())
	assert.Equal(t, "WRITE", OpWrite.String())
	assert.Equal(t, "UNKNOWN", Op(0).String())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "inbox"), expandHome("~/inbox"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
}
