package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-jobsift/internal/models"
)

var (
	excludeTerms     = []string{"Senior", "Sr", "Lead", "Founding", "III", "IV", "Manager", "Staff", "Principal"}
	excludeCompanies = []string{"Jobright.ai", "Jobs via Dice", "Lensa"}
)

func TestRegionCode(t *testing.T) {
	tests := []struct {
		name     string
		location string
		expected string
		ok       bool
	}{
		{name: "city and state", location: "Boston, MA", expected: "MA", ok: true},
		{name: "country suffix stripped", location: "Brooklyn, NY, US", expected: "NY", ok: true},
		{name: "only suffix stripped once", location: "Austin, TX, US, US", expected: "US", ok: true},
		{name: "other country kept", location: "Toronto, ON, CA", expected: "CA", ok: true},
		{name: "empty", location: "", expected: "", ok: false},
		{name: "single char", location: "X", expected: "X", ok: false},
		{name: "suffix only", location: ", US", expected: "", ok: false},
		{name: "short after strip", location: "Y, US", expected: "Y", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ParseRegion(tt.location)
			assert.Equal(t, tt.expected, code)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, RegionCode(tt.location))
		})
	}
}

func TestEvaluate(t *testing.T) {
	ex := NewExclusions("NY", excludeCompanies, excludeTerms)

	tests := []struct {
		name     string
		posting  models.Posting
		expected Reason
	}{
		{
			name:     "kept with country suffix",
			posting:  models.Posting{Location: "Brooklyn, NY, US", Company: "Acme", Title: "Software Engineer"},
			expected: Keep,
		},
		{
			name:     "wrong state",
			posting:  models.Posting{Location: "Boston, MA", Company: "Acme", Title: "Software Engineer"},
			expected: RemovedForState,
		},
		{
			name:     "unparseable location rejected",
			posting:  models.Posting{Location: "", Company: "Acme", Title: "Software Engineer"},
			expected: RemovedForState,
		},
		{
			name:     "excluded company",
			posting:  models.Posting{Location: "New York, NY", Company: "Lensa", Title: "Software Engineer"},
			expected: RemovedForCompany,
		},
		{
			name:     "company match is case-sensitive",
			posting:  models.Posting{Location: "New York, NY", Company: "lensa", Title: "Software Engineer"},
			expected: Keep,
		},
		{
			name:     "title keyword",
			posting:  models.Posting{Location: "New York, NY", Company: "Acme", Title: "Senior Software Engineer"},
			expected: RemovedForTitle,
		},
		{
			name:     "title match is substring",
			posting:  models.Posting{Location: "New York, NY", Company: "Acme", Title: "Software Engineer IV"},
			expected: RemovedForTitle,
		},
		{
			name:     "title match is case-sensitive",
			posting:  models.Posting{Location: "New York, NY", Company: "Acme", Title: "senior software engineer"},
			expected: Keep,
		},
		{
			name:     "state wins over company and title",
			posting:  models.Posting{Location: "Boston, MA", Company: "Lensa", Title: "Senior Engineer"},
			expected: RemovedForState,
		},
		{
			name:     "company wins over title",
			posting:  models.Posting{Location: "New York, NY", Company: "Lensa", Title: "Senior Engineer"},
			expected: RemovedForCompany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.posting, ex))
		})
	}
}

func TestEvaluate_NoStateFilter(t *testing.T) {
	ex := NewExclusions("", nil, []string{"Senior"})

	assert.Equal(t, Keep, Evaluate(models.Posting{Location: "", Title: "Engineer"}, ex))
	assert.Equal(t, Keep, Evaluate(models.Posting{Location: "Paris, FR", Title: "Engineer"}, ex))
	assert.Equal(t, RemovedForTitle, Evaluate(models.Posting{Title: "Senior Engineer"}, ex))
}

func TestEvaluate_EmptyTermsIgnored(t *testing.T) {
	ex := Exclusions{TitleTerms: []string{"", "Staff"}}

	assert.Equal(t, Keep, Evaluate(models.Posting{Title: "Engineer"}, ex))
	assert.Equal(t, RemovedForTitle, Evaluate(models.Posting{Title: "Staff Engineer"}, ex))
}

func TestApply(t *testing.T) {
	postings := []models.Posting{
		{JobURL: "1", Location: "New York, NY", Company: "Acme", Title: "Software Engineer"},
		{JobURL: "2", Location: "Boston, MA", Company: "Acme", Title: "Software Engineer"},
		{JobURL: "3", Location: "New York, NY", Company: "Jobs via Dice", Title: "Senior Engineer"},
		{JobURL: "4", Location: "Brooklyn, NY, US", Company: "Beta", Title: "Staff Engineer"},
		{JobURL: "5", Location: "Queens, NY, US", Company: "Gamma", Title: "Backend Engineer"},
		{JobURL: "6", Location: "", Company: "Delta", Title: "Engineer"},
	}

	kept, counts := Apply(postings, NewExclusions("NY", excludeCompanies, excludeTerms))

	var urls []string
	for _, p := range kept {
		urls = append(urls, p.JobURL)
	}
	assert.Equal(t, []string{"1", "5"}, urls, "kept postings keep input order")
	assert.Equal(t, Counts{State: 2, Company: 1, Title: 1}, counts)
	assert.Equal(t, len(postings), len(kept)+counts.Removed())
}

func TestApply_Empty(t *testing.T) {
	kept, counts := Apply(nil, NewExclusions("CT", excludeCompanies, excludeTerms))

	assert.Empty(t, kept)
	assert.Equal(t, 0, counts.Removed())
}

func TestCounts_Add(t *testing.T) {
	total := Counts{State: 1}
	total.Add(Counts{State: 2, Company: 3, Title: 4})

	assert.Equal(t, Counts{State: 3, Company: 3, Title: 4}, total)
	assert.Equal(t, 10, total.Removed())
}
