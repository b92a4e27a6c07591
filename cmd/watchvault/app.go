package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/0xmhha/watchvault/pkg/account"
	"github.com/0xmhha/watchvault/pkg/catalog"
	"github.com/0xmhha/watchvault/pkg/config"
	"github.com/0xmhha/watchvault/pkg/credential"
	"github.com/0xmhha/watchvault/pkg/display"
	"github.com/0xmhha/watchvault/pkg/kvstore"
	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/logger"
	"github.com/0xmhha/watchvault/pkg/player"
	"github.com/0xmhha/watchvault/pkg/session"
)

// app is the wired component graph for one CLI invocation.
type app struct {
	cfg      *config.Config
	log      logger.Logger
	store    *kvstore.Store
	dir      *account.Directory
	records  *account.SessionRecords
	lib      *library.Store
	sessions *session.Manager
	player   *player.Builder
	catalog  *catalog.Client
	redis    *redis.Client
	closeLog func()
}

// newApp loads configuration and wires every component. The stored session
// is resumed when the configuration allows it.
func (c *cli) newApp() (*app, error) {
	cfg, err := config.NewLoader(c.configPath).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, closeLog := c.newLogger(cfg)

	store := kvstore.Open(kvstore.Config{
		Path:    cfg.Storage.DBPath,
		Timeout: cfg.Storage.OpenTimeout,
	}, log)
	if !store.Persistent() {
		fmt.Fprintln(c.stderr, "Warning: storage is unavailable; changes will be lost when this command exits.")
	}

	creds, err := credential.New(cfg.Credential)
	if err != nil {
		_ = store.Close()
		closeLog()
		return nil, fmt.Errorf("failed to initialize credentials: %w", err)
	}

	builder, err := player.New(cfg.Player)
	if err != nil {
		_ = store.Close()
		closeLog()
		return nil, fmt.Errorf("failed to initialize player: %w", err)
	}

	dir := account.OpenDirectory(store, account.KeyUsers, log)
	records := account.NewSessionRecords(store, account.KeySession, log)
	lib := library.New(cfg.Library, dir, records, log)

	mgr := session.New(session.Config{
		AllowResume:      cfg.Session.AllowResume,
		AutosaveInterval: cfg.Sync.AutosaveInterval,
		DisableAutosave:  cfg.Sync.DisableAutosave,
	}, session.Deps{
		Directory:   dir,
		Records:     records,
		Library:     lib,
		Credentials: creds,
	}, log)

	a := &app{
		cfg:      cfg,
		log:      log,
		store:    store,
		dir:      dir,
		records:  records,
		lib:      lib,
		sessions: mgr,
		player:   builder,
		closeLog: closeLog,
	}

	if mgr.Resume() {
		email, _ := mgr.Current()
		log.Debug("resumed session", "email", email)
	}

	return a, nil
}

// newLogger builds the logger from the logging section. The returned func
// closes a log file, if one was opened.
func (c *cli) newLogger(cfg *config.Config) (logger.Logger, func()) {
	var out io.Writer = c.stderr
	closer := func() {}
	switch cfg.Logging.Output {
	case "", "stderr":
	case "stdout":
		out = c.stdout
	default:
		f, err := os.OpenFile(cfg.Logging.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600) // nolint:gosec
		if err != nil {
			fmt.Fprintf(c.stderr, "Warning: cannot open log file %s: %v\n", cfg.Logging.Output, err)
			break
		}
		out = f
		closer = func() { _ = f.Close() }
	}

	return logger.NewWithWriter(out, logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}), closer
}

// catalogClient lazily creates the catalog client, with the Redis cache when
// an address is configured and reachable.
func (a *app) catalogClient(ctx context.Context) (*catalog.Client, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}

	var cache catalog.Cache
	if a.cfg.Catalog.Redis.Addr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		client, err := catalog.NewRedisClient(pingCtx, a.cfg.Catalog.Redis, a.log)
		cancel()
		if err != nil {
			a.log.Warn("catalog cache unavailable, continuing without it", "error", err)
		} else {
			a.redis = client
			cache = catalog.NewRedisCache(client, a.cfg.Catalog.Redis.Prefix)
		}
	}

	client, err := catalog.New(a.cfg.Catalog, cache, a.log)
	if err != nil {
		return nil, fmt.Errorf("catalog unavailable (set %s): %w", config.EnvAPIKey, err)
	}
	a.catalog = client
	return client, nil
}

// formatter returns a display formatter honoring the -format flag, the
// configured default and the user's device preference.
func (a *app) formatter(c *cli) (display.Formatter, error) {
	name := c.format
	if name == "" {
		name = a.cfg.Display.Format
	}
	format, err := display.ParseFormat(name)
	if err != nil {
		return nil, err
	}

	pref := "auto"
	if settings, err := a.lib.Settings(); err == nil {
		pref = settings.DevicePreference
	}
	device := display.ResolveDevice(pref, c.columns())

	return display.New(display.Config{
		Format:         format,
		ShowTimestamps: a.cfg.Display.ShowTimestamps && !device.Compact(),
		Compact:        device.Compact(),
	}), nil
}

// close flushes the library and releases resources. The session record is
// kept so the next invocation resumes.
func (a *app) close() {
	if err := a.sessions.Close(); err != nil {
		a.log.Error("failed to close session", "error", err)
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Error("failed to close redis client", "error", err)
		}
	}
	if err := a.store.Close(); err != nil {
		a.log.Error("failed to close store", "error", err)
	}
	a.closeLog()
}
