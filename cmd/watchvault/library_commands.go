package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/0xmhha/watchvault/pkg/backup"
	"github.com/0xmhha/watchvault/pkg/insights"
	"github.com/0xmhha/watchvault/pkg/media"
	"github.com/0xmhha/watchvault/pkg/session"
	"github.com/0xmhha/watchvault/pkg/watcher"
)

// lookupTimeout bounds the title lookup done for a ref.
const lookupTimeout = 5 * time.Second

// parseRef parses "<type>/<id>" or a bare movie id.
func parseRef(ref string) (media.Item, error) {
	kind, idText, found := strings.Cut(strings.TrimSpace(ref), "/")
	if !found {
		kind, idText = string(media.TypeMovie), kind
	}

	t := media.Type(strings.ToLower(kind))
	if t != media.TypeMovie && t != media.TypeTV {
		return media.Item{}, fmt.Errorf("unknown media type %q in %q (use movie or tv)", kind, ref)
	}

	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || id <= 0 {
		return media.Item{}, fmt.Errorf("invalid id in %q", ref)
	}

	return media.Item{ID: id, MediaType: t}.Normalize(), nil
}

// resolveRef parses ref and fills in the title from the catalog when an API
// key is configured. Lookup failures leave the bare item.
func (a *app) resolveRef(ref string) (media.Item, error) {
	item, err := parseRef(ref)
	if err != nil {
		return media.Item{}, err
	}
	if a.cfg.Catalog.APIKey == "" {
		return item, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	client, err := a.catalogClient(ctx)
	if err != nil {
		return item, nil
	}
	details, err := client.Details(ctx, item.ResolvedType(), item.ID)
	if err != nil {
		a.log.Warn("title lookup failed", "ref", ref, "error", err)
		return item, nil
	}
	return details.Item.Normalize(), nil
}

// requireLogin fails with the "please log in" message when no library is
// loaded.
func (a *app) requireLogin() error {
	if _, ok := a.lib.Active(); !ok {
		return userError(session.ErrNotLoggedIn)
	}
	return nil
}

// refArgs requires exactly n positional arguments, the first a ref.
func refArgs(fs *flag.FlagSet, name string, n int) error {
	if fs.NArg() != n {
		return fmt.Errorf("%s: expected %d argument(s), got %d", name, n, fs.NArg())
	}
	return nil
}

func (c *cli) runWatchlist(args []string) error {
	fs := flag.NewFlagSet("watchlist", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return c.withApp(func(a *app) error {
		if fs.NArg() == 0 {
			if err := a.requireLogin(); err != nil {
				return err
			}
			f, err := a.formatter(c)
			if err != nil {
				return err
			}
			return f.FormatItems(c.stdout, "Watchlist", a.lib.Watchlist())
		}

		action := fs.Arg(0)
		if fs.NArg() != 2 {
			return fmt.Errorf("watchlist %s: expected a ref", action)
		}
		item, err := a.resolveRef(fs.Arg(1))
		if err != nil {
			return err
		}

		present := a.lib.IsInWatchlist(item)
		switch action {
		case "add":
			if present {
				fmt.Fprintf(c.stdout, "%s is already in your watchlist\n", item.DisplayTitle())
				return nil
			}
		case "remove":
			if !present {
				fmt.Fprintf(c.stdout, "%s is not in your watchlist\n", item.DisplayTitle())
				return nil
			}
		case "toggle":
		default:
			return fmt.Errorf("unknown watchlist action: %s", action)
		}

		added, err := a.lib.ToggleWatchlist(item)
		if err != nil {
			return c.report(err, "")
		}
		if added {
			fmt.Fprintf(c.stdout, "Added %s to your watchlist\n", item.DisplayTitle())
		} else {
			fmt.Fprintf(c.stdout, "Removed %s from your watchlist\n", item.DisplayTitle())
		}
		return nil
	})
}

func (c *cli) runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	limit := fs.Int("limit", 0, "show at most this many entries (0 = all)")
	recent := fs.Bool("recent", false, "show recently viewed titles instead")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return c.withApp(func(a *app) error {
		if fs.NArg() > 0 {
			if fs.Arg(0) != "add" || fs.NArg() != 2 {
				return fmt.Errorf("usage: history [add <ref>]")
			}
			item, err := a.resolveRef(fs.Arg(1))
			if err != nil {
				return err
			}
			return c.report(a.lib.AddToHistory(item), fmt.Sprintf("Added %s to your history", item.DisplayTitle()))
		}

		if err := a.requireLogin(); err != nil {
			return err
		}
		f, err := a.formatter(c)
		if err != nil {
			return err
		}

		if *recent {
			items := a.lib.RecentlyViewed()
			if *limit > 0 && len(items) > *limit {
				items = items[:*limit]
			}
			return f.FormatItems(c.stdout, "Recently Viewed", items)
		}

		entries := a.lib.History()
		if *limit > 0 && len(entries) > *limit {
			entries = entries[:*limit]
		}
		snap, err := a.lib.Snapshot()
		if err != nil {
			return c.report(err, "")
		}
		return f.FormatHistory(c.stdout, entries, snap.Progress)
	})
}

func (c *cli) runProgress(args []string) error {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 && fs.NArg() != 2 {
		return fmt.Errorf("usage: progress <ref> [0-100]")
	}

	var percent int
	if fs.NArg() == 2 {
		p, err := strconv.Atoi(strings.TrimSuffix(fs.Arg(1), "%"))
		if err != nil {
			return fmt.Errorf("invalid progress %q", fs.Arg(1))
		}
		percent = p
	}

	return c.withApp(func(a *app) error {
		item, err := a.resolveRef(fs.Arg(0))
		if err != nil {
			return err
		}

		if fs.NArg() == 1 {
			if err := a.requireLogin(); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "%s: %d%%\n", item.DisplayTitle(), a.lib.GetProgress(item))
			return nil
		}

		return c.report(a.lib.SetProgress(item, percent),
			fmt.Sprintf("Progress for %s set to %d%%", item.DisplayTitle(), percent))
	})
}

func (c *cli) runWatched(args []string) error {
	fs := flag.NewFlagSet("watched", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := refArgs(fs, "watched", 1); err != nil {
		return err
	}

	return c.withApp(func(a *app) error {
		item, err := a.resolveRef(fs.Arg(0))
		if err != nil {
			return err
		}
		return c.report(a.lib.MarkWatched(item), fmt.Sprintf("Marked %s as watched", item.DisplayTitle()))
	})
}

func (c *cli) runRate(args []string) error {
	fs := flag.NewFlagSet("rate", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	clearRating := fs.Bool("clear", false, "remove the rating")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() < 1 || fs.NArg() > 2 || (*clearRating && fs.NArg() != 1) {
		return fmt.Errorf("usage: rate <ref> [score] | rate -clear <ref>")
	}

	return c.withApp(func(a *app) error {
		item, err := a.resolveRef(fs.Arg(0))
		if err != nil {
			return err
		}

		switch {
		case *clearRating:
			return c.report(a.lib.ClearRating(item), fmt.Sprintf("Cleared rating for %s", item.DisplayTitle()))
		case fs.NArg() == 1:
			if err := a.requireLogin(); err != nil {
				return err
			}
			rating, ok := a.lib.GetRating(item)
			if !ok {
				fmt.Fprintf(c.stdout, "%s is not rated\n", item.DisplayTitle())
				return nil
			}
			fmt.Fprintf(c.stdout, "%s: %s/10\n", item.DisplayTitle(), strconv.FormatFloat(rating.Score, 'f', -1, 64))
			return nil
		}

		score, err := strconv.ParseFloat(fs.Arg(1), 64)
		if err != nil {
			return fmt.Errorf("invalid score %q", fs.Arg(1))
		}
		return c.report(a.lib.SetRating(item, score),
			fmt.Sprintf("Rated %s %s/10", item.DisplayTitle(), strconv.FormatFloat(score, 'f', -1, 64)))
	})
}

func (c *cli) runSettings(args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	theme := fs.String("theme", "", "dark or light")
	device := fs.String("device", "", "auto, mobile, tablet, desktop or tv")
	username := fs.String("username", "", "display name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	setting := fs.NArg() == 1 && fs.Arg(0) == "set"
	if fs.NArg() > 0 && !setting {
		return fmt.Errorf("usage: settings [set -theme ... -device ... -username ...]")
	}

	return c.withApp(func(a *app) error {
		current, err := a.lib.Settings()
		if err != nil {
			return c.report(err, "")
		}

		if setting {
			if *theme != "" {
				current.Theme = *theme
			}
			if *device != "" {
				current.DevicePreference = *device
			}
			if *username != "" {
				current.Username = *username
			}
			if err := a.lib.UpdateSettings(current); err != nil {
				return c.report(err, "")
			}
			if current, err = a.lib.Settings(); err != nil {
				return c.report(err, "")
			}
			fmt.Fprintln(c.stdout, "Settings saved")
		}

		fmt.Fprintf(c.stdout, "Theme:    %s\n", current.Theme)
		fmt.Fprintf(c.stdout, "Device:   %s\n", current.DevicePreference)
		fmt.Fprintf(c.stdout, "Username: %s\n", current.Username)
		return nil
	})
}

func (c *cli) runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	activity := fs.Bool("activity", false, "show watch events per day")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return c.withApp(func(a *app) error {
		snap, err := a.lib.Snapshot()
		if err != nil {
			return c.report(err, "")
		}
		f, err := a.formatter(c)
		if err != nil {
			return err
		}

		if err := f.FormatStats(c.stdout, insights.Compute(snap)); err != nil {
			return err
		}

		if cont := insights.ContinueWatching(snap, insights.ContinueWatchingLimit); len(cont) > 0 {
			fmt.Fprintln(c.stdout)
			if err := f.FormatHistory(c.stdout, cont, snap.Progress); err != nil {
				return err
			}
		}

		if *activity {
			fmt.Fprintln(c.stdout)
			for _, day := range insights.Activity(snap) {
				fmt.Fprintf(c.stdout, "%s  %s %d\n", day.Date, strings.Repeat("#", day.Count), day.Count)
			}
		}
		return nil
	})
}

func (c *cli) runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	dir := fs.String("dir", "", "directory to write the backup to (default: backup.dir)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return c.withApp(func(a *app) error {
		doc, err := a.lib.Export()
		if err != nil {
			return c.report(err, "")
		}

		target := *dir
		if target == "" {
			target = a.cfg.Backup.Dir
		}
		path, err := backup.Write(target, doc)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.stdout, "Backup written to %s\n", path)
		return nil
	})
}

func (c *cli) runRestore(args []string) error {
	fs := flag.NewFlagSet("restore", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	list := fs.Bool("list", false, "list backups found in backup.dir")
	watch := fs.Bool("watch", false, "restore each backup that arrives in backup.inbox_dir")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("usage: restore [-list | -watch | <file>]")
	}

	return c.withApp(func(a *app) error {
		switch {
		case *list:
			return c.listBackups(a)
		case *watch:
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.watchInbox(ctx, a)
		}

		path := fs.Arg(0)
		if path == "" {
			found, err := backup.Discover(a.cfg.Backup.Dir)
			if err != nil {
				return err
			}
			if len(found) == 0 {
				return fmt.Errorf("no backups found in %s", a.cfg.Backup.Dir)
			}
			path = found[0].Path
		}
		return c.restoreFile(a, path)
	})
}

func (c *cli) listBackups(a *app) error {
	found, err := backup.Discover(a.cfg.Backup.Dir)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		fmt.Fprintf(c.stdout, "No backups in %s\n", a.cfg.Backup.Dir)
		return nil
	}
	for _, info := range found {
		fmt.Fprintf(c.stdout, "%s  %-16s %8d  %s\n",
			info.CreatedAt.Local().Format("2006-01-02 15:04"), info.Owner, info.Size, info.Path)
	}
	return nil
}

func (c *cli) restoreFile(a *app, path string) error {
	doc, err := backup.ParseFile(path)
	if err != nil {
		return err
	}
	if err := a.lib.Restore(doc); err != nil {
		return c.report(err, "")
	}
	fmt.Fprintf(c.stdout, "Restored %d watchlist and %d history entries from %s\n",
		len(doc.Watchlist), len(doc.History), path)
	return nil
}

// watchInbox restores every backup file that lands in the inbox directory
// until ctx is done.
func (c *cli) watchInbox(ctx context.Context, a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{
		DebounceInterval: a.cfg.Backup.Debounce,
		Filter:           backup.IsBackupName,
	}, a.log)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Start(ctx, []string{a.cfg.Backup.InboxDir}); err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Watching %s for backups (Ctrl+C to stop)\n", a.cfg.Backup.InboxDir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events():
			if !ok {
				return nil
			}
			if err := c.restoreFile(a, ev.Path); err != nil {
				fmt.Fprintf(c.stderr, "Skipping %s: %v\n", ev.Path, err)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			if errors.Is(err, watcher.ErrCircuitBreakerOpen) {
				return err
			}
			a.log.Warn("inbox watcher error", "error", err)
		}
	}
}
