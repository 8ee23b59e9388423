package analytics

import (
	"sort"

	"fidash/pkg/contracts/domain"
)

// LatestAndPrevious returns the values of the two most recent observations
// of indicatorCode for gender. Rows without a year sort before dated rows so
// they never count as the latest. current is nil when no row matches and
// previous is nil when fewer than two rows match. A matching row whose value
// is blank yields a nil value in its position.
func LatestAndPrevious(observations []domain.Record, indicatorCode string, gender domain.Gender) (current, previous *float64) {
	latest, earlier := LatestPair(observations, indicatorCode, gender)
	if latest != nil {
		current = copyValue(latest.Value)
	}
	if earlier != nil {
		previous = copyValue(earlier.Value)
	}
	return current, previous
}

// LatestPair returns the rows LatestAndPrevious takes its values from, so
// callers can label a change with the year it is measured against.
func LatestPair(observations []domain.Record, indicatorCode string, gender domain.Gender) (latest, previous *domain.Record) {
	var rows []domain.Record
	for _, r := range observations {
		if r.IndicatorCode == indicatorCode && r.Gender == gender {
			rows = append(rows, r)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return yearKey(rows[i]) < yearKey(rows[j])
	})

	n := len(rows)
	if n >= 1 {
		latest = &rows[n-1]
	}
	if n >= 2 {
		previous = &rows[n-2]
	}
	return latest, previous
}

// yearKey sorts undated rows first
func yearKey(r domain.Record) int {
	if r.Year == nil {
		return -1
	}
	return *r.Year
}

func copyValue(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
