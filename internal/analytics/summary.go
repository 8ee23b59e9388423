package analytics

import (
	"sort"
	"strings"

	"fidash/pkg/contracts/domain"
)

// TypeCount is the number of unified rows of one record type
type TypeCount struct {
	RecordType string `json:"record_type"`
	Count      int    `json:"count"`
}

// CountRecordTypes tallies record types, most frequent first
func CountRecordTypes(types []string) []TypeCount {
	index := make(map[string]int)
	var counts []TypeCount
	for _, t := range types {
		t = strings.ToLower(strings.TrimSpace(t))
		i, ok := index[t]
		if !ok {
			i = len(counts)
			index[t] = i
			counts = append(counts, TypeCount{RecordType: t})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// EventItem is one entry of the events timeline
type EventItem struct {
	Indicator string `json:"indicator"`
	Year      int    `json:"year"`
}

// RecentEvents returns up to n dated events, newest first. Events without a
// name or year are skipped.
func RecentEvents(events []domain.Record, n int) []EventItem {
	var items []EventItem
	for _, e := range events {
		if e.Year == nil || e.Indicator == "" {
			continue
		}
		items = append(items, EventItem{Indicator: e.Indicator, Year: *e.Year})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Year > items[j].Year
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

// YearRange returns the earliest and latest known year across groups
func YearRange(groups ...[]domain.Record) (first, last int, ok bool) {
	for _, records := range groups {
		for _, r := range records {
			if r.Year == nil {
				continue
			}
			y := *r.Year
			if !ok || y < first {
				first = y
			}
			if !ok || y > last {
				last = y
			}
			ok = true
		}
	}
	return first, last, ok
}

// Pillars returns the known pillars present in records, in display order
func Pillars(records []domain.Record) []domain.Pillar {
	present := make(PillarSet)
	for _, r := range records {
		present[r.Pillar] = true
	}
	return present.Slice()
}

// SeriesPoint is one yearly value of an indicator
type SeriesPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// Series returns the yearly mean of indicatorCode for gender, oldest first.
// Rows without a year or value are ignored.
func Series(observations []domain.Record, indicatorCode string, gender domain.Gender) []SeriesPoint {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, r := range observations {
		if r.IndicatorCode != indicatorCode || r.Gender != gender || r.Year == nil || r.Value == nil {
			continue
		}
		sums[*r.Year] += *r.Value
		counts[*r.Year]++
	}

	points := make([]SeriesPoint, 0, len(sums))
	for year, sum := range sums {
		points = append(points, SeriesPoint{Year: year, Value: sum / float64(counts[year])})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// GenderPoint compares male and female values for one year
type GenderPoint struct {
	Year   int     `json:"year"`
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
	Gap    float64 `json:"gap"`
}

// GenderGap pairs the male and female series of indicatorCode. Years present
// in only one series are skipped.
func GenderGap(observations []domain.Record, indicatorCode string) []GenderPoint {
	female := make(map[int]float64)
	for _, p := range Series(observations, indicatorCode, domain.GenderFemale) {
		female[p.Year] = p.Value
	}

	var out []GenderPoint
	for _, m := range Series(observations, indicatorCode, domain.GenderMale) {
		f, ok := female[m.Year]
		if !ok {
			continue
		}
		out = append(out, GenderPoint{Year: m.Year, Male: m.Value, Female: f, Gap: m.Value - f})
	}
	return out
}
