package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-jobsift/internal/browser"
	"go-jobsift/internal/config"
	"go-jobsift/internal/dedup"
	"go-jobsift/internal/export"
	"go-jobsift/internal/models"
	"go-jobsift/internal/pipeline"
	"go-jobsift/internal/scraper"
	"go-jobsift/internal/scraper/jobspy"
	"go-jobsift/internal/scraper/linkedin"
	"go-jobsift/internal/scraper/replay"
	"go-jobsift/internal/telegram"
)

// app is everything a run needs, wired from config
type app struct {
	runner  *pipeline.Runner
	bot     *telegram.Bot
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp wires the collector, seen store, exporter and notifier. A dry run
// reads the seen store but never writes it, exports nothing and stays quiet.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, dryRun bool) (*app, error) {
	a := &app{}

	collector, err := newCollector(cfg, logger, a)
	if err != nil {
		a.Close()
		return nil, err
	}

	store, err := dedup.OpenStore(ctx, dedup.StoreOptions{
		Backend:     cfg.SeenStore.Backend,
		Path:        cfg.SeenStore.Path,
		RedisURL:    cfg.SeenStore.RedisURL,
		RedisKey:    cfg.SeenStore.RedisKey,
		DatabaseURL: cfg.SeenStore.DatabaseURL,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, store.Close)
	if dryRun {
		store = dedup.NewReadOnlyStore(store)
	}

	a.runner = pipeline.NewRunner(cfg, collector, dedup.NewDeduplicator(store, logger), logger)

	if captureDir := cfg.Collector.CaptureDir; captureDir != "" {
		a.runner.Capture = func(q scraper.Query, postings []models.Posting) error {
			return replay.Capture(captureDir, q, postings)
		}
	}

	if dryRun {
		return a, nil
	}

	a.runner.Exporter = export.NewExporter(cfg.OutputDir)

	if cfg.Telegram.Enabled() {
		bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Limit())
		if err != nil {
			logger.Warn("⚠️ Telegram disabled", zap.Error(err))
		} else {
			a.bot = bot
			a.runner.Notifier = bot
			logger.Info("🤖 Telegram bot initialized")
		}
	}

	return a, nil
}

func newCollector(cfg *config.Config, logger *zap.Logger, a *app) (scraper.Collector, error) {
	switch cfg.Collector.Kind {
	case "jobspy":
		return jobspy.NewCollector(cfg.Collector.JobSpyURL, cfg.Collector.APIKey, cfg.Collector.Timeout), nil
	case "linkedin":
		headless := cfg.Collector.Headless == nil || *cfg.Collector.Headless
		mgr, err := browser.NewManager(browser.Options{
			Headless:      headless,
			CookiesPath:   cfg.Collector.CookiesPath,
			CookieDomains: []string{"linkedin.com"},
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, mgr.Close)
		return linkedin.NewScraper(mgr, logger, cfg.Collector.ScreenshotDir), nil
	case "replay":
		return replay.NewCollector(cfg.Collector.ReplayDir), nil
	default:
		return nil, fmt.Errorf("unknown collector %q", cfg.Collector.Kind)
	}
}
