package dedup

import (
	"context"
	"regexp"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	apperrors "go-jobsift/internal/errors"
	"go-jobsift/internal/models"
)

var linkedInIDRegex = regexp.MustCompile(`linkedin\.com/jobs/view/(\d+)`)

// ExtractLinkedInID returns the numeric id following linkedin.com/jobs/view/ in url
func ExtractLinkedInID(url string) (string, bool) {
	match := linkedInIDRegex.FindStringSubmatch(url)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Stats describes one Dedupe call
type Stats struct {
	Input      int
	Duplicates int
	NewIDs     int
	Unkeyed    int
}

// Deduplicator drops LinkedIn postings whose id is already in the Store and
// records the ids of the ones it lets through. Postings from other sites
// always pass.
type Deduplicator struct {
	mu     sync.Mutex
	store  Store
	seen   mapset.Set[string]
	logger *zap.Logger
}

func NewDeduplicator(store Store, logger *zap.Logger) *Deduplicator {
	return &Deduplicator{store: store, logger: logger}
}

// load reads the store once; later calls reuse the in-memory set
func (d *Deduplicator) load(ctx context.Context) error {
	if d.seen != nil {
		return nil
	}
	seen, err := d.store.Load(ctx)
	if err != nil {
		return err
	}
	d.seen = seen
	d.logger.Info("📋 Loaded previously seen LinkedIn ids", zap.Int("count", seen.Cardinality()))
	return nil
}

// Dedupe returns the postings not seen before, in input order. New LinkedIn
// ids are appended to the store before it returns. LinkedIn URLs without an
// id are kept and never recorded.
func (d *Deduplicator) Dedupe(ctx context.Context, postings []models.Posting) ([]models.Posting, Stats, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	stats := Stats{Input: len(postings)}
	if err := d.load(ctx); err != nil {
		return nil, stats, err
	}

	kept := make([]models.Posting, 0, len(postings))
	batchIDs := mapset.NewThreadUnsafeSet[string]()
	var newIDs []string

	for _, p := range postings {
		if !p.Site.IsLinkedIn() {
			kept = append(kept, p)
			continue
		}

		id, ok := ExtractLinkedInID(p.JobURL)
		if !ok {
			stats.Unkeyed++
			d.logger.Warn("⚠️ LinkedIn posting without job id, keeping it",
				zap.Error(apperrors.MalformedURL("no /jobs/view/<id> in url", nil)),
				zap.String("job_url", p.JobURL))
			kept = append(kept, p)
			continue
		}

		if d.seen.Contains(id) || batchIDs.Contains(id) {
			stats.Duplicates++
			continue
		}

		batchIDs.Add(id)
		newIDs = append(newIDs, id)
		kept = append(kept, p)
	}

	if err := d.store.Append(ctx, newIDs); err != nil {
		return nil, stats, err
	}
	for _, id := range newIDs {
		d.seen.Add(id)
	}
	stats.NewIDs = len(newIDs)

	d.logger.Info("🔍 Deduplication finished",
		zap.Int("input", stats.Input),
		zap.Int("kept", len(kept)),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("new_ids", stats.NewIDs),
		zap.Int("unkeyed", stats.Unkeyed))

	return kept, stats, nil
}
