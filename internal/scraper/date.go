package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-jobsift/internal/models"
)

var (
	isoDateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	usDateRegex   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	relativeRegex = regexp.MustCompile(`(?i)^(\d+)\s*(minute|hour|day|week|month)s?\s+ago$`)
)

// ParsePostedDate turns a collector's date string into a date. Unknown or
// unparseable values yield nil; the posting is kept either way.
func ParsePostedDate(dateStr string, now time.Time) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	switch strings.ToLower(dateStr) {
	case "", "n/a", "nan", "none", "null":
		return nil
	case "today", "just now":
		return dateOnly(now)
	case "yesterday":
		return dateOnly(now.AddDate(0, 0, -1))
	}

	//case 1: ISO "2026-01-27" or "2026-01-27T..."
	if isoDateRegex.MatchString(dateStr) {
		if d, err := time.Parse(models.DateLayout, dateStr[:10]); err == nil {
			return &d
		}
	}

	//case 2: US boards use mm/dd/yyyy
	if m := usDateRegex.FindStringSubmatch(dateStr); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			return &d
		}
	}

	//case 3: "3 days ago"
	if m := relativeRegex.FindStringSubmatch(dateStr); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch strings.ToLower(m[2]) {
		case "minute":
			return dateOnly(now.Add(-time.Duration(n) * time.Minute))
		case "hour":
			return dateOnly(now.Add(-time.Duration(n) * time.Hour))
		case "day":
			return dateOnly(now.AddDate(0, 0, -n))
		case "week":
			return dateOnly(now.AddDate(0, 0, -7*n))
		case "month":
			return dateOnly(now.AddDate(0, -n, 0))
		}
	}

	//default
	return nil
}

func dateOnly(t time.Time) *time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}
