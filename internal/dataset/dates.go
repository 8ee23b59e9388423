package dataset

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order; the first successful parse wins.
// Single-digit layout elements also accept zero-padded input.
var dateLayouts = []string{
	"2006-1-2",
	time.RFC3339,
	"2006-1-2T15:04:05",
	"2006-1-2 15:04:05",
	"2006/1/2",
	"1/2/2006",
	"2-1-2006",
	"2.1.2006",
	"20060102",
	"2006-1",
	"Jan 2006",
	"January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// ParseYear extracts the calendar year from a loosely formatted date.
// It reports false when no known layout matches; it never returns year 0.
func ParseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	if len(s) == 4 {
		y, err := strconv.Atoi(s)
		if err != nil || !validYear(y) {
			return 0, false
		}
		return y, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if validYear(t.Year()) {
				return t.Year(), true
			}
			return 0, false
		}
	}
	return 0, false
}

func validYear(y int) bool {
	return y >= 1000 && y <= 9999
}
