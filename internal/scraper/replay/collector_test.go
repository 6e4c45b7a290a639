package replay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobsift/internal/models"
	"go-jobsift/internal/scraper"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "software-engineer_new-york-ny.csv", FileName("Software Engineer", "New York, NY"))
	assert.Equal(t, "c-developer_.csv", FileName("C++ Developer", ""))
}

func TestCaptureThenCollect(t *testing.T) {
	dir := t.TempDir()
	q := scraper.Query{SearchTerm: "software engineer", Location: "Boston, MA"}
	batch := []models.Posting{
		{Site: models.SiteIndeed, Title: "Software Engineer", Location: "Boston, MA", JobURL: "https://www.indeed.com/viewjob?jk=1"},
		{Site: models.SiteLinkedIn, Title: "Go Engineer", Location: "Cambridge, MA", JobURL: "https://www.linkedin.com/jobs/view/42"},
	}
	require.NoError(t, Capture(dir, q, batch))

	c := NewCollector(dir)
	got, err := c.Collect(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, batch, got)

	q.Sites = []models.Site{models.SiteLinkedIn}
	got, err = c.Collect(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Go Engineer", got[0].Title)
}

func TestCollect_MissingCapture(t *testing.T) {
	_, err := NewCollector(t.TempDir()).Collect(context.Background(), scraper.Query{SearchTerm: "go", Location: "Nowhere"})
	assert.Error(t, err)
}
