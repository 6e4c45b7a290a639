// Package pipeline runs one batch: collect per term and search, filter each
// batch, dedupe the merged set, normalize descriptions, export, notify.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"go-jobsift/internal/config"
	"go-jobsift/internal/dedup"
	apperrors "go-jobsift/internal/errors"
	"go-jobsift/internal/filter"
	"go-jobsift/internal/models"
	"go-jobsift/internal/normalize"
	"go-jobsift/internal/scraper"
)

// Exporter writes the surviving postings and returns where they went
type Exporter interface {
	Export(postings []models.Posting) (string, error)
}

// Notifier is told about every successful run
type Notifier interface {
	NotifyRun(ctx context.Context, res *Result) error
}

// CaptureFunc receives each raw batch before filtering
type CaptureFunc func(q scraper.Query, postings []models.Posting) error

// BatchStats is the outcome of one term and search
type BatchStats struct {
	Term     string
	Location string
	Found    int
	Counts   filter.Counts
	Kept     int
}

type Result struct {
	RunID   string
	Batches []BatchStats
	//postings left after filtering, summed over batches
	Merged     int
	Dedup      dedup.Stats
	Postings   []models.Posting
	OutputPath string
}

type Runner struct {
	cfg       *config.Config
	collector scraper.Collector
	dedup     *dedup.Deduplicator
	logger    *zap.Logger

	//optional
	Exporter Exporter
	Notifier Notifier
	Capture  CaptureFunc
}

func NewRunner(cfg *config.Config, collector scraper.Collector, d *dedup.Deduplicator, logger *zap.Logger) *Runner {
	return &Runner{cfg: cfg, collector: collector, dedup: d, logger: logger}
}

// Query builds the collector request for one term and search
func (r *Runner) Query(term string, search config.Search) scraper.Query {
	fetchDescription := true
	if r.cfg.LinkedInFetchDescription != nil {
		fetchDescription = *r.cfg.LinkedInFetchDescription
	}
	return scraper.Query{
		Sites:                    r.cfg.SiteList(),
		SearchTerm:               term,
		Location:                 search.Location,
		Distance:                 search.Distance,
		IsRemote:                 search.IsRemote,
		ResultsWanted:            r.cfg.ResultsWanted,
		CountryIndeed:            r.cfg.CountryIndeed,
		HoursOld:                 r.cfg.Lookback(),
		LinkedInFetchDescription: fetchDescription,
		DescriptionFormat:        r.cfg.DescriptionFormat,
	}
}

// Run executes the batch. The first collector failure aborts the run before
// anything is deduplicated or exported.
func (r *Runner) Run(ctx context.Context, runID string) (*Result, error) {
	logger := r.logger.With(zap.String("run_id", runID))
	res := &Result{RunID: runID}

	logger.Info("🚀 Starting run",
		zap.String("collector", r.collector.Name()),
		zap.Strings("terms", r.cfg.Terms),
		zap.Int("searches", len(r.cfg.Searches)),
		zap.Strings("sites", r.cfg.Sites),
		zap.Int("hours_old", r.cfg.Lookback()))

	var merged []models.Posting
	for _, term := range r.cfg.Terms {
		for _, search := range r.cfg.Searches {
			kept, stats, err := r.runBatch(ctx, logger, term, search)
			if err != nil {
				return nil, err
			}
			res.Batches = append(res.Batches, stats)
			merged = append(merged, kept...)
		}
	}
	res.Merged = len(merged)
	logger.Info("📦 Total postings after filtering", zap.Int("count", res.Merged))

	fresh, dedupStats, err := r.dedup.Dedupe(ctx, merged)
	if err != nil {
		return nil, err
	}
	res.Dedup = dedupStats

	res.Postings = normalize.Postings(fresh)

	if r.Exporter != nil {
		path, err := r.Exporter.Export(res.Postings)
		if err != nil {
			return nil, err
		}
		res.OutputPath = path
		logger.Info("💾 Exported postings", zap.String("path", path), zap.Int("count", len(res.Postings)))
	} else {
		logger.Info("🧪 Dry run, skipping export", zap.Int("count", len(res.Postings)))
	}

	if r.Notifier != nil {
		if err := r.Notifier.NotifyRun(ctx, res); err != nil {
			logger.Warn("⚠️ Failed to send run summary", zap.Error(err))
		}
	}

	return res, nil
}

func (r *Runner) runBatch(ctx context.Context, logger *zap.Logger, term string, search config.Search) ([]models.Posting, BatchStats, error) {
	stats := BatchStats{Term: term, Location: search.Location}
	q := r.Query(term, search)

	raw, err := r.collector.Collect(ctx, q)
	if err != nil {
		logger.Error("❌ Collector failed, aborting run",
			zap.String("term", term), zap.String("location", search.Location), zap.Error(err))
		return nil, stats, apperrors.Collection(
			fmt.Sprintf("%s search for %q in %q failed", r.collector.Name(), term, search.Location), err)
	}

	if r.Capture != nil {
		if err := r.Capture(q, raw); err != nil {
			logger.Warn("⚠️ Failed to capture batch", zap.String("location", search.Location), zap.Error(err))
		}
	}

	ex := filter.NewExclusions(search.FilterState, r.cfg.Exclusions.Companies, r.cfg.Exclusions.TitleTerms)
	kept, counts := filter.Apply(raw, ex)

	stats.Found = len(raw)
	stats.Counts = counts
	stats.Kept = len(kept)

	logger.Info("📋 Batch filtered",
		zap.String("term", term),
		zap.String("location", search.Location),
		zap.Int("found", stats.Found),
		zap.Int("removed_for_state", counts.State),
		zap.Int("removed_for_company", counts.Company),
		zap.Int("removed_for_title", counts.Title),
		zap.Int("remaining", stats.Kept))

	return kept, stats, nil
}
