// Package linkedin collects postings from the public LinkedIn job search
// page with a headless browser. Only the guest search is used, no login.
package linkedin

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"go-jobsift/internal/browser"
	"go-jobsift/internal/models"
	"go-jobsift/internal/scraper"
)

const (
	searchURL   = "https://www.linkedin.com/jobs/search"
	viewURL     = "https://www.linkedin.com/jobs/view/"
	urnPrefix   = "urn:li:jobPosting:"
	pageTimeout = 30000

	resultsSelector = ".base-search-card, .jobs-search__results-list"
	//guest search renders one of these when the query matches nothing
	noResultsSelector = ".no-results, .jobs-search-no-results, .jobs-search-no-results-banner, .jobs-search-two-pane__no-results-banner"
)

// ErrUnrecognizedPage is returned for a search page that shows neither job
// cards nor the no-results banner, typically an authwall or a block page
var ErrUnrecognizedPage = errors.New("linkedin search page has no results list")

// PageSource opens browser tabs; *browser.Manager satisfies it
type PageSource interface {
	NewPage() (playwright.Page, error)
}

type Scraper struct {
	pages         PageSource
	logger        *zap.Logger
	screenshotDir string
	now           func() time.Time
}

func NewScraper(pages PageSource, logger *zap.Logger, screenshotDir string) *Scraper {
	return &Scraper{pages: pages, logger: logger, screenshotDir: screenshotDir, now: time.Now}
}

func (s *Scraper) Name() string {
	return "linkedin"
}

// Collect loads one search results page and parses its job cards. Queries
// that do not include LinkedIn return nothing.
func (s *Scraper) Collect(ctx context.Context, q scraper.Query) ([]models.Posting, error) {
	if !q.WantsSite(models.SiteLinkedIn) {
		return nil, nil
	}

	page, err := s.pages.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	target := SearchURL(q)
	s.logger.Info("🌐 Visiting LinkedIn job search", zap.String("url", target))
	if _, err := page.Goto(target, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(pageTimeout),
	}); err != nil {
		return nil, fmt.Errorf("failed to load linkedin search: %w", err)
	}

	listed := true
	if _, err := page.WaitForSelector(resultsSelector+", "+noResultsSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		//the content check below decides between empty and blocked
		listed = false
		s.logger.Warn("⚠️ LinkedIn job list did not render", zap.String("search_term", q.SearchTerm), zap.Error(err))
	}

	if listed && q.ResultsWanted > 25 {
		if err := browser.HumanScroll(page, q.ResultsWanted/25); err != nil {
			s.logger.Warn("⚠️ Scrolling stopped early, later cards may be missing", zap.Error(err))
		}
	}

	content, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to read page content: %w", err)
	}

	postings, err := ParseSearchResults(content, s.now())
	if err != nil {
		s.debugScreenshot(page, "linkedin_blocked")
		return nil, err
	}
	if len(postings) == 0 {
		s.logger.Info("📭 LinkedIn search returned no jobs", zap.String("search_term", q.SearchTerm))
		return nil, nil
	}
	if q.ResultsWanted > 0 && len(postings) > q.ResultsWanted {
		postings = postings[:q.ResultsWanted]
	}

	if q.LinkedInFetchDescription {
		for i := range postings {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			desc, err := s.fetchDescription(postings[i].JobURL)
			if err != nil {
				s.logger.Warn("⚠️ Could not fetch description", zap.String("job_url", postings[i].JobURL), zap.Error(err))
				continue
			}
			postings[i].Description = desc
			browser.RandomDelay(500, 1500)
		}
	}

	s.logger.Info("📄 Parsed LinkedIn results", zap.Int("count", len(postings)))
	return postings, nil
}

// fetchDescription returns the description markup of a job view page
func (s *Scraper) fetchDescription(jobURL string) (string, error) {
	page, err := s.pages.NewPage()
	if err != nil {
		return "", err
	}
	defer page.Close()

	if _, err := page.Goto(jobURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(pageTimeout),
	}); err != nil {
		return "", err
	}
	content, err := page.Content()
	if err != nil {
		return "", err
	}
	return ParseDescription(content)
}

func (s *Scraper) debugScreenshot(page playwright.Page, name string) {
	if s.screenshotDir == "" {
		return
	}
	path, err := browser.Screenshot(page, s.screenshotDir, name)
	if err != nil {
		s.logger.Warn("⚠️ Failed to capture screenshot", zap.Error(err))
		return
	}
	s.logger.Info("📸 Screenshot saved", zap.String("path", path))
}

// SearchURL builds the guest search url for q
func SearchURL(q scraper.Query) string {
	v := url.Values{}
	v.Set("keywords", q.SearchTerm)
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.Distance > 0 {
		v.Set("distance", strconv.Itoa(q.Distance))
	}
	if q.HoursOld > 0 {
		v.Set("f_TPR", "r"+strconv.Itoa(q.HoursOld*3600))
	}
	if q.IsRemote {
		v.Set("f_WT", "2")
	}
	v.Set("position", "1")
	v.Set("pageNum", "0")
	return searchURL + "?" + v.Encode()
}

// ParseSearchResults extracts postings from a rendered search page. Job urls
// are rebuilt from the posting urn so they carry the numeric id. A page with
// neither a results list nor the no-results banner yields ErrUnrecognizedPage.
func ParseSearchResults(content string, now time.Time) ([]models.Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse search page: %w", err)
	}
	if doc.Find(resultsSelector).Length() == 0 {
		if doc.Find(noResultsSelector).Length() > 0 {
			return nil, nil
		}
		return nil, ErrUnrecognizedPage
	}

	var postings []models.Posting
	doc.Find(".base-search-card").Each(func(_ int, card *goquery.Selection) {
		title := clean(card.Find(".base-search-card__title").First().Text())
		if title == "" {
			return
		}

		p := models.Posting{
			Site:     models.SiteLinkedIn,
			Title:    title,
			Company:  clean(card.Find(".base-search-card__subtitle").First().Text()),
			Location: clean(card.Find(".job-search-card__location").First().Text()),
			JobURL:   jobURL(card),
		}
		if datetime, ok := card.Find("time").First().Attr("datetime"); ok {
			p.DatePosted = scraper.ParsePostedDate(datetime, now)
		}
		postings = append(postings, p)
	})

	return postings, nil
}

// ParseDescription returns the description section as markdown, the format
// every collector hands to the normalizer
func ParseDescription(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", err
	}
	markup := doc.Find(".show-more-less-html__markup, .description__text").First()
	if markup.Length() == 0 {
		return "", nil
	}
	html, err := markup.Html()
	if err != nil {
		return "", err
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	text, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert description: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func jobURL(card *goquery.Selection) string {
	urn, _ := card.Attr("data-entity-urn")
	if urn == "" {
		urn, _ = card.Parents().Filter("[data-entity-urn]").First().Attr("data-entity-urn")
	}
	if id := strings.TrimPrefix(urn, urnPrefix); id != urn && id != "" {
		return viewURL + id
	}

	href, _ := card.Find("a.base-card__full-link").First().Attr("href")
	//drop tracking params so the same job keeps one url
	return strings.Split(href, "?")[0]
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
