package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobsift/internal/models"
)

func date(s string) *time.Time {
	d, _ := time.Parse(models.DateLayout, s)
	return &d
}

func samplePostings() []models.Posting {
	return []models.Posting{
		{
			Site:        models.SiteLinkedIn,
			Company:     "Acme, Inc.",
			Location:    "New York, NY",
			Title:       `Software Engineer "Platform"`,
			JobURL:      "https://www.linkedin.com/jobs/view/4012345678",
			DatePosted:  date("2026-10-17"),
			JobType:     "fulltime",
			Description: "Line one, with comma.\n\nLine \"two\" with quotes\\ and a backslash.",
		},
		{
			Site:     models.SiteIndeed,
			Company:  "",
			Location: "Stamford, CT",
			Title:    "Backend Engineer",
			JobURL:   "https://www.indeed.com/viewjob?jk=abc123",
		},
	}
}

func TestWriteCSV_QuotesEveryField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePostings()[1:]))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"site","company","location","title","job_url","date_posted","job_type","description"`, lines[0])
	assert.Equal(t, `"indeed","","Stamford, CT","Backend Engineer","https://www.indeed.com/viewjob?jk=abc123","","",""`, lines[1])
}

func TestWriteCSV_EscapesQuotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, samplePostings()[:1]))

	assert.Contains(t, buf.String(), `"Software Engineer ""Platform"""`)
	assert.Contains(t, buf.String(), `"Acme, Inc."`)
}

func TestRoundTrip(t *testing.T) {
	postings := samplePostings()

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, postings))

	read, err := ReadCSV(&buf)
	require.NoError(t, err)
	assert.Equal(t, postings, read)
}

func TestRoundTrip_LineEndings(t *testing.T) {
	tests := []struct {
		name  string
		title string
		desc  string
	}{
		{name: "crlf", title: "Engineer\r\nNight shift", desc: "One\r\n\r\nTwo"},
		{name: "lone cr", title: "Engineer\rNight shift", desc: "One\rTwo"},
		{name: "mixed", title: "A\nB\r\nC\rD", desc: "\r\n"},
		{name: "quote then crlf", title: `"Lead"` + "\r\n", desc: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postings := []models.Posting{{
				Site:        models.SiteIndeed,
				Title:       tt.title,
				JobURL:      "https://www.indeed.com/viewjob?jk=1",
				Description: tt.desc,
			}}

			var buf bytes.Buffer
			require.NoError(t, WriteCSV(&buf, postings))

			read, err := ReadCSV(&buf)
			require.NoError(t, err)
			assert.Equal(t, postings, read)
		})
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	header := `"site","company","location","title","job_url","date_posted","job_type","description"` + "\n"

	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated field", input: header + `"indeed","acme`},
		{name: "short row", input: header + `"indeed","acme"` + "\n"},
		{name: "text after closing quote", input: header + `"indeed"x,"","","","","","",""` + "\n"},
		{name: "trailing comma at end of input", input: header + `"indeed",`},
		{name: "bad date", input: header + `"indeed","","","t","u","yesterday","",""` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestReadCSV_Empty(t *testing.T) {
	read, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, read)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	read, err = ReadCSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, read)
}

func TestReadCSV_RejectsForeignHeader(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b,c,d,e,f,g,h\n"))
	assert.Error(t, err)
}

func TestFileName(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 5, 3, 0, time.UTC)
	assert.Equal(t, "jobs_2026-10-18_09-05-03.csv", FileName(now))
}

func TestExporter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	exporter := NewExporter(dir)
	exporter.Now = func() time.Time { return time.Date(2026, 10, 18, 9, 5, 3, 0, time.UTC) }

	path, err := exporter.Export(samplePostings())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "jobs_2026-10-18_09-05-03.csv"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	read, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Equal(t, samplePostings(), read)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestExporter_Export_SameSecond(t *testing.T) {
	dir := t.TempDir()
	exporter := NewExporter(dir)
	exporter.Now = func() time.Time { return time.Date(2026, 10, 18, 9, 5, 3, 0, time.UTC) }

	first := []models.Posting{{Site: models.SiteIndeed, Title: "first run", JobURL: "https://a"}}
	second := []models.Posting{{Site: models.SiteIndeed, Title: "second run", JobURL: "https://b"}}
	third := []models.Posting{{Site: models.SiteIndeed, Title: "third run", JobURL: "https://c"}}

	firstPath, err := exporter.Export(first)
	require.NoError(t, err)
	secondPath, err := exporter.Export(second)
	require.NoError(t, err)
	thirdPath, err := exporter.Export(third)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "jobs_2026-10-18_09-05-03.csv"), firstPath)
	assert.Equal(t, filepath.Join(dir, "jobs_2026-10-18_09-05-03_2.csv"), secondPath)
	assert.Equal(t, filepath.Join(dir, "jobs_2026-10-18_09-05-03_3.csv"), thirdPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	for path, want := range map[string][]models.Posting{firstPath: first, secondPath: second, thirdPath: third} {
		f, err := os.Open(path)
		require.NoError(t, err)
		read, err := ReadCSV(f)
		f.Close()
		require.NoError(t, err)
		assert.Equal(t, want, read, path)
	}
}
