// Package replay serves previously captured batches from disk, one CSV per
// search, so a run can be reproduced without touching the job boards.
package replay

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go-jobsift/internal/export"
	"go-jobsift/internal/models"
	"go-jobsift/internal/scraper"
)

var nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]+`)

type Collector struct {
	Dir string
}

func NewCollector(dir string) *Collector {
	return &Collector{Dir: dir}
}

func (c *Collector) Name() string {
	return "replay"
}

// FileName is the capture file for a term and location, e.g.
// "software-engineer_new-york-ny.csv"
func FileName(term, location string) string {
	return slug(term) + "_" + slug(location) + ".csv"
}

// Collect reads the capture for q. Rows for sites the query does not ask
// for are dropped. A missing capture is an error like any failed search.
func (c *Collector) Collect(ctx context.Context, q scraper.Query) ([]models.Posting, error) {
	path := filepath.Join(c.Dir, FileName(q.SearchTerm, q.Location))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	rows, err := export.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read capture %s: %w", path, err)
	}

	if len(q.Sites) == 0 {
		return rows, nil
	}
	postings := make([]models.Posting, 0, len(rows))
	for _, p := range rows {
		if q.WantsSite(p.Site) {
			postings = append(postings, p)
		}
	}
	return postings, nil
}

// Capture writes a batch where Collect will find it
func Capture(dir string, q scraper.Query, postings []models.Posting) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, FileName(q.SearchTerm, q.Location)))
	if err != nil {
		return err
	}
	if err := export.WriteCSV(f, postings); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func slug(s string) string {
	return strings.Trim(nonAlnumRegex.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
