package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePostedDate(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "iso date", input: "2026-10-17", expected: "2026-10-17"},
		{name: "iso datetime", input: "2026-10-17T08:00:00Z", expected: "2026-10-17"},
		{name: "us slash date", input: "10/05/2026", expected: "2026-10-05"},
		{name: "relative days", input: "3 days ago", expected: "2026-10-15"},
		{name: "relative hours", input: "20 hours ago", expected: "2026-10-17"},
		{name: "relative week", input: "1 week ago", expected: "2026-10-11"},
		{name: "today", input: "Today", expected: "2026-10-18"},
		{name: "yesterday", input: "yesterday", expected: "2026-10-17"},
		{name: "empty", input: "", expected: ""},
		{name: "pandas nan", input: "nan", expected: ""},
		{name: "garbage", input: "Recently", expected: ""},
		{name: "invalid month", input: "13/01/2026", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePostedDate(tt.input, now)
			if tt.expected == "" {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.expected, got.Format("2006-01-02"))
			}
		})
	}
}
