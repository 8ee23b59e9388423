package analytics

import (
	"sort"

	"fidash/pkg/contracts/domain"
)

// PillarSet is the set of pillars selected by the user
type PillarSet map[domain.Pillar]bool

// NewPillarSet builds a set from the given pillars
func NewPillarSet(pillars ...domain.Pillar) PillarSet {
	set := make(PillarSet, len(pillars))
	for _, p := range pillars {
		set[p] = true
	}
	return set
}

// Slice returns the selected pillars in display order
func (s PillarSet) Slice() []domain.Pillar {
	var out []domain.Pillar
	for _, p := range domain.AllPillars {
		if s[p] {
			out = append(out, p)
		}
	}
	return out
}

// TrendQuery selects observations for the trends view. MinYear and MaxYear
// are inclusive; the caller guarantees MinYear <= MaxYear.
type TrendQuery struct {
	Pillars PillarSet
	MinYear int
	MaxYear int
	Unit    string
}

// TrendPoint is the mean of one (indicator, year, pillar) group
type TrendPoint struct {
	IndicatorCode string        `json:"indicator_code"`
	Year          int           `json:"year"`
	Pillar        domain.Pillar `json:"pillar"`
	Mean          float64       `json:"value"`
	Count         int           `json:"count"`
}

// Filter keeps the observations whose pillar is selected, whose year is known
// and within range, and whose unit matches exactly. Input order is kept.
func Filter(observations []domain.Record, q TrendQuery) []domain.Record {
	if len(q.Pillars) == 0 {
		return nil
	}

	var out []domain.Record
	for _, r := range observations {
		if !q.Pillars[r.Pillar] || r.Year == nil {
			continue
		}
		if *r.Year < q.MinYear || *r.Year > q.MaxYear {
			continue
		}
		if r.Unit != q.Unit {
			continue
		}
		out = append(out, r)
	}
	return out
}

type groupKey struct {
	code   string
	year   int
	pillar domain.Pillar
}

// FilterAndAggregate filters the observations and reduces every
// (indicator, year, pillar) group to the mean of its present values. Groups
// without any present value are dropped. Groups are returned in the order
// their first row appears in the input.
func FilterAndAggregate(observations []domain.Record, q TrendQuery) []TrendPoint {
	filtered := Filter(observations, q)

	index := make(map[groupKey]int)
	var (
		keys  []groupKey
		sums  []float64
		count []int
	)
	for _, r := range filtered {
		k := groupKey{code: r.IndicatorCode, year: *r.Year, pillar: r.Pillar}
		i, ok := index[k]
		if !ok {
			i = len(keys)
			index[k] = i
			keys = append(keys, k)
			sums = append(sums, 0)
			count = append(count, 0)
		}
		if r.Value != nil {
			sums[i] += *r.Value
			count[i]++
		}
	}

	points := make([]TrendPoint, 0, len(keys))
	for i, k := range keys {
		if count[i] == 0 {
			continue
		}
		points = append(points, TrendPoint{
			IndicatorCode: k.code,
			Year:          k.year,
			Pillar:        k.pillar,
			Mean:          sums[i] / float64(count[i]),
			Count:         count[i],
		})
	}
	return points
}

// SortPoints orders points by indicator, then year, then pillar
func SortPoints(points []TrendPoint) {
	sort.SliceStable(points, func(i, j int) bool {
		a, b := points[i], points[j]
		if a.IndicatorCode != b.IndicatorCode {
			return a.IndicatorCode < b.IndicatorCode
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Pillar < b.Pillar
	})
}

// Indicators returns the distinct indicator codes of points in order of
// first appearance
func Indicators(points []TrendPoint) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, p := range points {
		if !seen[p.IndicatorCode] {
			seen[p.IndicatorCode] = true
			codes = append(codes, p.IndicatorCode)
		}
	}
	return codes
}
