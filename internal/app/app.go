package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/five82/healthdesk/internal/api"
	"github.com/five82/healthdesk/internal/config"
	"github.com/five82/healthdesk/internal/logging"
	"github.com/five82/healthdesk/internal/prefs"
	"github.com/five82/healthdesk/internal/state"
	"github.com/five82/healthdesk/internal/ui"
)

// Options configure the healthdesk console.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/healthdesk/prefs.toml
	Open       string // start location; empty uses the saved one
	PollEvery  int    // seconds; zero uses the config value
	Version    string
}

// Run boots the console until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Version: opts.Version,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = closer.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	client, err := api.NewClient(cfg.APIBase, cfg.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	source := api.NewCachedSource(client, cfg.CacheSize, cfg.CacheTTL)

	store := &state.Store{}

	interval := cfg.PollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller
	StartPoller(ctx, store, client, source, interval, logger)

	// Do initial refresh to populate store before UI starts
	_ = refresh(ctx, store, client, source, logger)

	start := strings.TrimSpace(opts.Open)
	if start == "" {
		start = userPrefs.StartLocation
	}
	logger.Info().Str("api", client.BaseURL()).Str("start", start).Msg("console started")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Source:    source,
		Store:     store,
		Config:    cfg,
		Logger:    logger,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		Start:     start,
	})

	stats := source.Stats()
	logger.Info().
		Uint64("cache_hits", stats.Hits).
		Uint64("cache_misses", stats.Misses).
		Uint64("cache_shared", stats.Shared).
		Msg("console stopped")
	return err
}
