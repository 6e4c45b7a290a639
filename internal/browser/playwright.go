// Package browser owns the Playwright lifecycle for collectors that need a
// real browser.
package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// Options controls how the browser is launched
type Options struct {
	Headless bool
	//optional cookie export, see LoadCookies
	CookiesPath string
	//only cookies for these domains are loaded; empty loads all
	CookieDomains []string
}

// Manager holds one Chromium instance and one context shared by all pages
type Manager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
}

// NewManager starts Playwright and launches Chromium. Close must be called
// to stop the driver process.
func NewManager(opts Options) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
		Viewport:  &playwright.Size{Width: 1366, Height: 900},
		Locale:    playwright.String("en-US"),
	})
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	m := &Manager{pw: pw, browser: browser, context: bctx}

	if opts.CookiesPath != "" {
		cookies, err := LoadCookies(opts.CookiesPath, CookieFilter{Domains: opts.CookieDomains})
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("could not load cookies: %w", err)
		}
		if err := bctx.AddCookies(cookies); err != nil {
			m.Close()
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}

	return m, nil
}

// NewPage opens a tab in the shared context
func (m *Manager) NewPage() (playwright.Page, error) {
	return m.context.NewPage()
}

func (m *Manager) Close() error {
	if m.context != nil {
		m.context.Close()
	}
	if m.browser != nil {
		m.browser.Close()
	}
	if m.pw != nil {
		return m.pw.Stop()
	}
	return nil
}
