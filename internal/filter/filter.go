package filter

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"go-jobsift/internal/models"
)

// Exclusions is the rule set for one search. Companies match exactly and
// TitleTerms match as case-sensitive substrings, first hit wins.
type Exclusions struct {
	FilterState string
	Companies   mapset.Set[string]
	TitleTerms  []string
}

// NewExclusions builds an Exclusions from plain lists
func NewExclusions(filterState string, companies, titleTerms []string) Exclusions {
	return Exclusions{
		FilterState: filterState,
		Companies:   mapset.NewThreadUnsafeSet(companies...),
		TitleTerms:  titleTerms,
	}
}

// Reason says which rule removed a posting
type Reason int

const (
	Keep Reason = iota
	RemovedForState
	RemovedForCompany
	RemovedForTitle
)

func (r Reason) String() string {
	switch r {
	case RemovedForState:
		return "state"
	case RemovedForCompany:
		return "company"
	case RemovedForTitle:
		return "title"
	default:
		return "keep"
	}
}

// Counts holds how many postings each rule removed
type Counts struct {
	State   int
	Company int
	Title   int
}

// Removed is the total number of removed postings
func (c Counts) Removed() int {
	return c.State + c.Company + c.Title
}

// Add accumulates another batch's counts
func (c *Counts) Add(other Counts) {
	c.State += other.State
	c.Company += other.Company
	c.Title += other.Title
}

// Evaluate returns the first rule that rejects the posting, or Keep.
// Order: state, company, title.
func Evaluate(p models.Posting, ex Exclusions) Reason {
	if ex.FilterState != "" {
		code, ok := ParseRegion(p.Location)
		//unparseable locations can never equal a two-letter code
		if !ok || code != ex.FilterState {
			return RemovedForState
		}
	}

	if ex.Companies != nil && ex.Companies.Contains(p.Company) {
		return RemovedForCompany
	}

	for _, term := range ex.TitleTerms {
		if term == "" {
			continue
		}
		if strings.Contains(p.Title, term) {
			return RemovedForTitle
		}
	}

	return Keep
}

// Apply keeps the postings that pass every rule, in input order, and counts
// the removals per rule. len(kept)+counts.Removed() == len(postings).
func Apply(postings []models.Posting, ex Exclusions) ([]models.Posting, Counts) {
	kept := make([]models.Posting, 0, len(postings))
	var counts Counts

	for _, p := range postings {
		switch Evaluate(p, ex) {
		case RemovedForState:
			counts.State++
		case RemovedForCompany:
			counts.Company++
		case RemovedForTitle:
			counts.Title++
		default:
			kept = append(kept, p)
		}
	}

	return kept, counts
}
