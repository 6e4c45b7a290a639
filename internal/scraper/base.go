// Package scraper defines the Source Collector boundary: one blocking call per
// search that returns already-materialized postings or fails.
package scraper

import (
	"context"

	"go-jobsift/internal/models"
)

// Query is one search request handed to a Collector
type Query struct {
	Sites                    []models.Site
	SearchTerm               string
	Location                 string
	Distance                 int
	IsRemote                 bool
	ResultsWanted            int
	CountryIndeed            string
	HoursOld                 int
	LinkedInFetchDescription bool
	DescriptionFormat        string
}

// WantsSite reports whether the query asks for the given site
func (q Query) WantsSite(site models.Site) bool {
	for _, s := range q.Sites {
		if s == site {
			return true
		}
	}
	return false
}

// Collector defines the interface that all posting sources must implement.
// Implementations never retry or paginate; any error is fatal to the run.
type Collector interface {
	//Collect runs one search
	Collect(ctx context.Context, q Query) ([]models.Posting, error)

	//Name is the collector name (jobspy, linkedin, replay)
	Name() string
}
