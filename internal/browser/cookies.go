package browser

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// ErrNoCookies is returned when an export holds no usable cookie for the
// requested domains
var ErrNoCookies = errors.New("no usable cookies in export")

// exportedCookie covers both the browser extension export and the
// Playwright storage state layout
type exportedCookie struct {
	Name           string  `json:"name"`
	Value          string  `json:"value"`
	Domain         string  `json:"domain"`
	Path           string  `json:"path"`
	Expires        float64 `json:"expires"`
	ExpirationDate float64 `json:"expirationDate"`
	Session        bool    `json:"session"`
	HTTPOnly       bool    `json:"httpOnly"`
	Secure         bool    `json:"secure"`
	SameSite       string  `json:"sameSite"`
}

type storageState struct {
	Cookies []exportedCookie `json:"cookies"`
}

// CookieFilter selects which cookies of an export reach the browser
type CookieFilter struct {
	//suffixes like "linkedin.com"; empty keeps every domain
	Domains []string
	Now     time.Time
}

// LoadCookies reads a cookie export from path. The file may be a json array
// from a browser extension, a Playwright storage state, or a Netscape
// cookies.txt.
func LoadCookies(path string, filter CookieFilter) ([]playwright.OptionalCookie, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseCookies(data, filter)
}

// ParseCookies decodes an export and drops cookies that are expired or belong
// to other domains
func ParseCookies(data []byte, filter CookieFilter) ([]playwright.OptionalCookie, error) {
	exported, err := decodeCookies(data)
	if err != nil {
		return nil, err
	}
	if filter.Now.IsZero() {
		filter.Now = time.Now()
	}

	var cookies []playwright.OptionalCookie
	for _, c := range exported {
		if c.Name == "" || !filter.matches(c.Domain) || c.expired(filter.Now) {
			continue
		}
		cookies = append(cookies, c.toPlaywright())
	}
	if len(cookies) == 0 {
		return nil, ErrNoCookies
	}
	return cookies, nil
}

func decodeCookies(data []byte) ([]exportedCookie, error) {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return nil, ErrNoCookies
	case trimmed[0] == '[':
		var cookies []exportedCookie
		if err := json.Unmarshal(trimmed, &cookies); err != nil {
			return nil, fmt.Errorf("decode cookie array: %w", err)
		}
		return cookies, nil
	case trimmed[0] == '{':
		var state storageState
		if err := json.Unmarshal(trimmed, &state); err != nil {
			return nil, fmt.Errorf("decode storage state: %w", err)
		}
		if state.Cookies == nil {
			return nil, errors.New("storage state has no cookies key")
		}
		return state.Cookies, nil
	default:
		return parseNetscape(trimmed)
	}
}

// parseNetscape reads the tab separated cookies.txt layout:
// domain, include subdomains, path, secure, expiry, name, value
func parseNetscape(data []byte) ([]exportedCookie, error) {
	var cookies []exportedCookie
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		httpOnly := false
		if rest, ok := strings.CutPrefix(text, "#HttpOnly_"); ok {
			text, httpOnly = rest, true
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.Split(text, "\t")
		if len(fields) != 7 {
			return nil, fmt.Errorf("cookies.txt line %d: got %d fields, want 7", line, len(fields))
		}
		expires, err := strconv.ParseFloat(fields[4], 64)
		if err != nil {
			return nil, fmt.Errorf("cookies.txt line %d: bad expiry %q", line, fields[4])
		}
		cookies = append(cookies, exportedCookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Expires:  expires,
			Name:     fields[5],
			Value:    fields[6],
			HTTPOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}

func (f CookieFilter) matches(domain string) bool {
	if len(f.Domains) == 0 {
		return true
	}
	domain = strings.ToLower(strings.TrimPrefix(domain, "."))
	for _, want := range f.Domains {
		want = strings.ToLower(strings.TrimPrefix(want, "."))
		if domain == want || strings.HasSuffix(domain, "."+want) {
			return true
		}
	}
	return false
}

// expiry in unix seconds, 0 for session cookies
func (c exportedCookie) expiry() float64 {
	if c.Session {
		return 0
	}
	if c.Expires > 0 {
		return c.Expires
	}
	return c.ExpirationDate
}

func (c exportedCookie) expired(now time.Time) bool {
	exp := c.expiry()
	return exp > 0 && exp < float64(now.Unix())
}

func (c exportedCookie) toPlaywright() playwright.OptionalCookie {
	path := c.Path
	if path == "" {
		path = "/"
	}
	cookie := playwright.OptionalCookie{
		Name:   c.Name,
		Value:  c.Value,
		Domain: playwright.String(c.Domain),
		Path:   playwright.String(path),
	}
	if exp := c.expiry(); exp > 0 {
		cookie.Expires = playwright.Float(exp)
	}
	if c.HTTPOnly {
		cookie.HttpOnly = playwright.Bool(true)
	}
	if c.Secure {
		cookie.Secure = playwright.Bool(true)
	}

	//extensions use chrome's names, storage state uses playwright's
	switch strings.ToLower(c.SameSite) {
	case "lax":
		cookie.SameSite = playwright.SameSiteAttributeLax
	case "strict":
		cookie.SameSite = playwright.SameSiteAttributeStrict
	case "none", "no_restriction":
		cookie.SameSite = playwright.SameSiteAttributeNone
	}
	return cookie
}
