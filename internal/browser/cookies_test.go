package browser

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cookieNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func TestParseCookies_ExtensionExport(t *testing.T) {
	data := []byte(`[
		{"name": "li_at", "value": "abc", "domain": ".linkedin.com", "path": "/", "expirationDate": 1890000000, "httpOnly": true, "secure": true, "sameSite": "no_restriction"},
		{"name": "lang", "value": "v=2&lang=en-us", "domain": ".www.linkedin.com", "path": "/", "session": true, "sameSite": "lax"},
		{"name": "old", "value": "x", "domain": ".linkedin.com", "path": "/", "expirationDate": 1600000000},
		{"name": "_ga", "value": "GA1", "domain": ".google.com", "path": "/"}
	]`)

	cookies, err := ParseCookies(data, CookieFilter{Domains: []string{"linkedin.com"}, Now: cookieNow})
	require.NoError(t, err)
	require.Len(t, cookies, 2, "expired and foreign cookies are dropped")

	assert.Equal(t, "li_at", cookies[0].Name)
	assert.Equal(t, ".linkedin.com", *cookies[0].Domain)
	assert.Equal(t, float64(1890000000), *cookies[0].Expires)
	assert.True(t, *cookies[0].HttpOnly)
	assert.Equal(t, playwright.SameSiteAttributeNone, cookies[0].SameSite)

	assert.Equal(t, "lang", cookies[1].Name)
	assert.Nil(t, cookies[1].Expires)
	assert.Nil(t, cookies[1].Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, cookies[1].SameSite)
}

func TestParseCookies_StorageState(t *testing.T) {
	data := []byte(`{"cookies": [
		{"name": "li_at", "value": "abc", "domain": ".linkedin.com", "path": "/", "expires": -1, "httpOnly": true, "secure": true, "sameSite": "Strict"},
		{"name": "JSESSIONID", "value": "ajax:1", "domain": "www.linkedin.com", "path": "", "expires": 1890000000, "sameSite": "None"}
	], "origins": []}`)

	cookies, err := ParseCookies(data, CookieFilter{Now: cookieNow})
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	assert.Nil(t, cookies[0].Expires, "negative expiry is a session cookie")
	assert.Equal(t, playwright.SameSiteAttributeStrict, cookies[0].SameSite)
	assert.Equal(t, "/", *cookies[1].Path)
	assert.Equal(t, playwright.SameSiteAttributeNone, cookies[1].SameSite)
}

func TestParseCookies_Netscape(t *testing.T) {
	data := []byte("# Netscape HTTP Cookie File\n" +
		"\n" +
		"#HttpOnly_.linkedin.com\tTRUE\t/\tTRUE\t1890000000\tli_at\tabc\n" +
		".linkedin.com\tTRUE\t/\tFALSE\t0\tlang\tv=2\n" +
		".example.com\tTRUE\t/\tFALSE\t0\tother\t1\n")

	cookies, err := ParseCookies(data, CookieFilter{Domains: []string{".linkedin.com"}, Now: cookieNow})
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	assert.Equal(t, "li_at", cookies[0].Name)
	assert.True(t, *cookies[0].HttpOnly)
	assert.True(t, *cookies[0].Secure)
	assert.Equal(t, float64(1890000000), *cookies[0].Expires)

	assert.Equal(t, "lang", cookies[1].Name)
	assert.Nil(t, cookies[1].Expires)
	assert.Nil(t, cookies[1].HttpOnly)
}

func TestParseCookies_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{name: "empty", data: "  \n", wantErr: ErrNoCookies},
		{name: "empty array", data: "[]", wantErr: ErrNoCookies},
		{name: "only foreign domains", data: `[{"name": "a", "value": "1", "domain": "notlinkedin.com"}]`, wantErr: ErrNoCookies},
		{name: "only expired", data: `[{"name": "a", "value": "1", "domain": "linkedin.com", "expires": 1000}]`, wantErr: ErrNoCookies},
		{name: "object without cookies", data: `{"not": "an array"}`},
		{name: "broken json", data: `[{"name": `},
		{name: "short cookies.txt line", data: ".linkedin.com\tTRUE\t/\n"},
		{name: "bad cookies.txt expiry", data: ".linkedin.com\tTRUE\t/\tFALSE\tsoon\tli_at\tabc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCookies([]byte(tt.data), CookieFilter{Domains: []string{"linkedin.com"}, Now: cookieNow})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLoadCookies(t *testing.T) {
	_, err := LoadCookies(filepath.Join(t.TempDir(), "missing.json"), CookieFilter{})
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "cookies.txt")
	require.NoError(t, os.WriteFile(path, []byte("linkedin.com\tFALSE\t/\tFALSE\t0\tlang\tv=2\n"), 0644))
	cookies, err := LoadCookies(path, CookieFilter{Domains: []string{"linkedin.com"}})
	require.NoError(t, err)
	require.Len(t, cookies, 1)
	assert.Equal(t, "linkedin.com", *cookies[0].Domain)
}
