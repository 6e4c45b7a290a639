// Package jobspy collects postings from a JobSpy-compatible HTTP service
// (POST /api/v1/search_jobs), which scrapes every supported board in one call.
package jobspy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go-jobsift/internal/models"
	"go-jobsift/internal/scraper"
)

const (
	searchPath  = "/api/v1/search_jobs"
	httpTimeout = 5 * time.Minute
)

// Collector calls the search endpoint once per query
type Collector struct {
	BaseURL string
	APIKey  string
	client  *http.Client
	now     func() time.Time
}

// NewCollector constructs a collector with a shared HTTP client. Scrapes that
// fetch LinkedIn descriptions are slow, so timeout should be generous.
func NewCollector(baseURL, apiKey string, timeout time.Duration) *Collector {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &Collector{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (c *Collector) Name() string {
	return "jobspy"
}

// searchRequest mirrors the keyword arguments of jobspy.scrape_jobs
type searchRequest struct {
	SiteName                 []string `json:"site_name"`
	SearchTerm               string   `json:"search_term"`
	Location                 string   `json:"location,omitempty"`
	Distance                 int      `json:"distance"`
	IsRemote                 bool     `json:"is_remote"`
	ResultsWanted            int      `json:"results_wanted"`
	CountryIndeed            string   `json:"country_indeed,omitempty"`
	HoursOld                 int      `json:"hours_old,omitempty"`
	LinkedInFetchDescription bool     `json:"linkedin_fetch_description"`
	DescriptionFormat        string   `json:"description_format,omitempty"`
}

type searchResponse struct {
	Count int         `json:"count"`
	Jobs  []searchJob `json:"jobs"`
}

// searchJob mirrors one row of the scrape_jobs dataframe. Columns may be null.
type searchJob struct {
	Site        *string `json:"site"`
	JobURL      *string `json:"job_url"`
	Title       *string `json:"title"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	DatePosted  *string `json:"date_posted"`
	JobType     *string `json:"job_type"`
	Description *string `json:"description"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Collect posts the query and maps the returned rows onto postings
func (c *Collector) Collect(ctx context.Context, q scraper.Query) ([]models.Posting, error) {
	sites := make([]string, len(q.Sites))
	for i, s := range q.Sites {
		sites[i] = string(s)
	}

	body, err := json.Marshal(searchRequest{
		SiteName:                 sites,
		SearchTerm:               q.SearchTerm,
		Location:                 q.Location,
		Distance:                 q.Distance,
		IsRemote:                 q.IsRemote,
		ResultsWanted:            q.ResultsWanted,
		CountryIndeed:            q.CountryIndeed,
		HoursOld:                 q.HoursOld,
		LinkedInFetchDescription: q.LinkedInFetchDescription,
		DescriptionFormat:        q.DescriptionFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+searchPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("jobspy returned %d: %s", resp.StatusCode, string(respBody))
	}

	var apiResp searchResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	now := c.now()
	postings := make([]models.Posting, 0, len(apiResp.Jobs))
	for _, j := range apiResp.Jobs {
		postings = append(postings, models.Posting{
			Site:        models.ParseSite(str(j.Site)),
			Company:     str(j.Company),
			Location:    str(j.Location),
			Title:       str(j.Title),
			JobURL:      str(j.JobURL),
			DatePosted:  scraper.ParsePostedDate(str(j.DatePosted), now),
			JobType:     str(j.JobType),
			Description: str(j.Description),
		})
	}

	return postings, nil
}
