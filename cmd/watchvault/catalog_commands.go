package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/0xmhha/watchvault/pkg/httpapi"
	"github.com/0xmhha/watchvault/pkg/media"
	"github.com/0xmhha/watchvault/pkg/player"
)

func (c *cli) runSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	page := fs.Int("page", 1, "result page")
	trending := fs.String("trending", "", "list trending titles for a window (day or week) instead")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" && *trending == "" {
		return fmt.Errorf("usage: search <query> | search -trending day|week")
	}

	return c.withApp(func(a *app) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		client, err := a.catalogClient(ctx)
		if err != nil {
			return err
		}
		f, err := a.formatter(c)
		if err != nil {
			return err
		}

		if *trending != "" {
			res, err := client.Trending(ctx, *trending)
			if err != nil {
				return err
			}
			return f.FormatItems(c.stdout, "Trending", res.Results)
		}

		res, err := client.Search(ctx, query, *page)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("Results for %q (page %d of %d)", query, res.Page, res.TotalPages)
		return f.FormatItems(c.stdout, title, res.Results)
	})
}

func (c *cli) runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	season := fs.Int("season", 1, "season number (tv only)")
	episode := fs.Int("episode", 1, "episode number (tv only)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := refArgs(fs, "play", 1); err != nil {
		return err
	}

	return c.withApp(func(a *app) error {
		item, err := a.resolveRef(fs.Arg(0))
		if err != nil {
			return err
		}

		url, err := playURL(a.player, item, *season, *episode)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.stdout, url)

		if _, ok := a.lib.Active(); !ok {
			return nil
		}
		if err := a.lib.RecordPlayback(item); err != nil {
			return c.report(err, "")
		}
		a.log.Debug("playback recorded", "key", item.Key())
		return nil
	})
}

// playURL builds the player URL, honoring the episode for shows.
func playURL(b *player.Builder, item media.Item, season, episode int) (string, error) {
	if item.ResolvedType() == media.TypeTV {
		return b.EpisodeURL(player.Episode{ShowID: item.ID, Season: season, Episode: episode})
	}
	return b.MovieURL(item.ID)
}

func (c *cli) runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	addr := fs.String("addr", "", "listen address (default: server.addr)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return c.withApp(func(a *app) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := httpapi.Config{
			Addr:            a.cfg.Server.Addr,
			ReadTimeout:     a.cfg.Server.ReadTimeout,
			WriteTimeout:    a.cfg.Server.WriteTimeout,
			ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
			AllowedOrigins:  a.cfg.Server.AllowedOrigins,
		}
		if *addr != "" {
			cfg.Addr = *addr
		}

		deps := httpapi.Deps{
			Sessions: a.sessions,
			Library:  a.lib,
			Player:   a.player,
		}
		if client, err := a.catalogClient(ctx); err != nil {
			fmt.Fprintf(c.stderr, "Warning: %v; catalog routes will return 503\n", err)
		} else {
			deps.Catalog = client
		}

		fmt.Fprintf(c.stdout, "Serving on http://%s (Ctrl+C to stop)\n", cfg.Addr)
		return httpapi.New(cfg, deps, a.log).ListenAndServe(ctx)
	})
}
