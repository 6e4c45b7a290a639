package models

import (
	"strings"
	"time"
)

// Site is the job board a posting was collected from
type Site string

const (
	SiteIndeed       Site = "indeed"
	SiteLinkedIn     Site = "linkedin"
	SiteZipRecruiter Site = "zip_recruiter"
	SiteGlassdoor    Site = "glassdoor"
	SiteGoogle       Site = "google"
	SiteBayt         Site = "bayt"
	SiteNaukri       Site = "naukri"
)

var knownSites = []Site{
	SiteIndeed, SiteLinkedIn, SiteZipRecruiter, SiteGlassdoor, SiteGoogle, SiteBayt, SiteNaukri,
}

// ParseSite maps a collector's site label onto a known Site, ignoring case.
// Unknown labels are kept lowercased so they still flow through the pipeline.
func ParseSite(s string) Site {
	label := strings.ToLower(strings.TrimSpace(s))
	for _, site := range knownSites {
		if string(site) == label {
			return site
		}
	}
	return Site(label)
}

// IsLinkedIn reports whether the site is LinkedIn, case-insensitively
func (s Site) IsLinkedIn() bool {
	return strings.EqualFold(string(s), string(SiteLinkedIn))
}

// DateLayout is the layout used for DatePosted on the wire and in exports
const DateLayout = "2006-01-02"

// Posting is one scraped job posting. Collectors produce it; only Description
// is rewritten afterwards (markup -> plain text) before export.
type Posting struct {
	Site        Site       `json:"site"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	Title       string     `json:"title"`
	JobURL      string     `json:"job_url"`
	DatePosted  *time.Time `json:"date_posted,omitempty"`
	JobType     string     `json:"job_type,omitempty"`
	Description string     `json:"description,omitempty"`
}

// DatePostedString formats DatePosted, or returns "" when unknown
func (p Posting) DatePostedString() string {
	if p.DatePosted == nil {
		return ""
	}
	return p.DatePosted.Format(DateLayout)
}
