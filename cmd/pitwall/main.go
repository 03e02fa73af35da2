package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pitwall/pitwall/pkg/config"
	"github.com/pitwall/pitwall/pkg/source"
	"github.com/pitwall/pitwall/services/update"
)

type globalOpts struct {
	ConfigPath string `long:"config" short:"c" default:"pitwall.toml" env:"PITWALL_CONFIG_PATH" description:"path to the configuration file"`
	Debug      bool   `long:"debug" description:"enable debug logging"`
}

var (
	opts globalOpts

	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type feedCommand struct{}

func (cmd *feedCommand) Execute(_ []string) error {
	return withManager(func(ctx context.Context, m *update.Manager) error {
		return m.UpdateFeed(ctx)
	})
}

type archiveCommand struct {
	MissingOnly bool `long:"missing-only" description:"only fill weekends that have no videos yet"`
}

func (cmd *archiveCommand) Execute(_ []string) error {
	return withManager(func(ctx context.Context, m *update.Manager) error {
		return m.UpdateArchive(ctx, cmd.MissingOnly)
	})
}

type standingsCommand struct{}

func (cmd *standingsCommand) Execute(_ []string) error {
	return withManager(func(ctx context.Context, m *update.Manager) error {
		return m.UpdateStandings(ctx)
	})
}

type watchCommand struct {
	Schedule string `long:"schedule" default:"@every 30m" description:"cron schedule for update runs"`
}

func (cmd *watchCommand) Execute(_ []string) error {
	return withManager(func(ctx context.Context, m *update.Manager) error {
		return watch(ctx, m, cmd.Schedule)
	})
}

// withManager loads configuration, wires the upstream clients, and runs
// the given update until it completes or the process is signalled.
func withManager(run func(context.Context, *update.Manager) error) error {
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Debugf("loading configuration %q", opts.ConfigPath)
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration file")
	}

	videos, err := source.NewYouTube(ctx, source.YouTubeConfig{
		Key:      cfg.YouTube.Key,
		Playlist: cfg.YouTube.Playlist,
		PageSize: cfg.YouTube.PageSize,
		MaxPages: cfg.YouTube.MaxPages,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to create youtube client")
	}

	standings := source.NewErgast(cfg.Standings.URL)

	return run(ctx, update.NewManager(cfg, videos, standings))
}

// watch keeps the artifacts fresh on a cron schedule until the context
// is cancelled. A run that overlaps a still-active one is skipped.
func watch(ctx context.Context, m *update.Manager, schedule string) error {
	group, ctx := errgroup.WithContext(ctx)

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		if err := m.UpdateAll(ctx); err != nil {
			log.WithError(err).Error("update run failed")
		}
	})
	if err != nil {
		return err
	}

	group.Go(func() error {
		defer func() {
			log.Info("shutting down cron")
			c.Stop()
		}()

		// Initial run on startup so a restart doesn't wait a full period.
		if err := m.UpdateAll(ctx); err != nil {
			log.WithError(err).Error("update run failed")
		}

		c.Start()

		<-ctx.Done()
		return ctx.Err()
	})

	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}

	log.Info("gracefully stopped")
	return nil
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		TimestampFormat: time.RFC3339,
		FullTimestamp:   true,
	})

	log.WithFields(log.Fields{
		"version": version,
		"commit":  commit,
		"date":    date,
	}).Debug("running pitwall")

	parser := flags.NewParser(&opts, flags.Default)

	mustAddCommand(parser, "feed", "update the current feed artifact",
		"Fetch recent videos, keep the newest weekends, and write the feed artifact.", &feedCommand{})
	mustAddCommand(parser, "archive", "update the season archive",
		"Fetch recent videos and merge them into the season archive artifact.", &archiveCommand{})
	mustAddCommand(parser, "standings", "update the championship standings",
		"Fetch driver and constructor standings and write the standings artifact.", &standingsCommand{})
	mustAddCommand(parser, "watch", "run updates on a schedule",
		"Keep all artifacts fresh on a cron schedule until interrupted.", &watchCommand{})

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}
		log.WithError(err).Fatal("command failed")
	}
}

func mustAddCommand(parser *flags.Parser, name, short, long string, cmd interface{}) {
	if _, err := parser.AddCommand(name, short, long, cmd); err != nil {
		log.WithError(err).Fatalf("failed to register command: %s", name)
	}
}
