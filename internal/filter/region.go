package filter

import "strings"

const countrySuffix = ", US"

// RegionCode derives the two-character region code from a "City, Region[, US]"
// location: a trailing ", US" is stripped, then the last two bytes are taken.
// Shorter remainders are returned whole.
func RegionCode(location string) string {
	loc := strings.TrimSuffix(location, countrySuffix)
	if len(loc) < 2 {
		return loc
	}
	return loc[len(loc)-2:]
}

// ParseRegion is RegionCode plus a flag that is false when the location is
// too short to carry a two-character code ("", "X", ", US").
func ParseRegion(location string) (string, bool) {
	code := RegionCode(location)
	return code, len(code) == 2
}
