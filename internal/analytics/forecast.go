package analytics

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"fidash/pkg/contracts/domain"
)

// ScenarioPoints returns the forecast of indicatorCode under scenario,
// oldest first
func ScenarioPoints(ft domain.ForecastTable, indicatorCode string, scenario domain.Scenario) []domain.ForecastPoint {
	var out []domain.ForecastPoint
	for _, p := range ft.Points {
		if p.IndicatorCode == indicatorCode && p.Scenario == scenario {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// ScenarioValue returns the forecast for one year, if present
func ScenarioValue(ft domain.ForecastTable, indicatorCode string, scenario domain.Scenario, year int) (float64, bool) {
	for _, p := range ft.Points {
		if p.IndicatorCode == indicatorCode && p.Scenario == scenario && p.Year == year {
			return p.Value, true
		}
	}
	return 0, false
}

// FirstForecastYear returns the earliest forecast year of indicatorCode
func FirstForecastYear(ft domain.ForecastTable, indicatorCode string) (int, bool) {
	year, ok := 0, false
	for _, p := range ft.Points {
		if p.IndicatorCode != indicatorCode {
			continue
		}
		if !ok || p.Year < year {
			year, ok = p.Year, true
		}
	}
	return year, ok
}

// Projection is a forecast series anchored at the last historical value so
// the line joins the history without a gap
type Projection struct {
	Scenario domain.Scenario `json:"scenario"`
	Points   []SeriesPoint   `json:"points"`
	Lower    []SeriesPoint   `json:"lower,omitempty"`
	Upper    []SeriesPoint   `json:"upper,omitempty"`
}

// Project builds the display series of a scenario, capping every value at
// limit. When anchor is non-nil it is prepended to the value and band series.
func Project(points []domain.ForecastPoint, scenario domain.Scenario, anchor *SeriesPoint, limit float64) Projection {
	proj := Projection{Scenario: scenario}
	hasBand := false
	for _, p := range points {
		if p.CILower != nil && p.CIUpper != nil {
			hasBand = true
			break
		}
	}

	if anchor != nil {
		a := SeriesPoint{Year: anchor.Year, Value: Cap(anchor.Value, limit)}
		proj.Points = append(proj.Points, a)
		if hasBand {
			proj.Lower = append(proj.Lower, a)
			proj.Upper = append(proj.Upper, a)
		}
	}

	for _, p := range points {
		proj.Points = append(proj.Points, SeriesPoint{Year: p.Year, Value: Cap(p.Value, limit)})
		if hasBand && p.CILower != nil && p.CIUpper != nil {
			proj.Lower = append(proj.Lower, SeriesPoint{Year: p.Year, Value: Cap(*p.CILower, limit)})
			proj.Upper = append(proj.Upper, SeriesPoint{Year: p.Year, Value: Cap(*p.CIUpper, limit)})
		}
	}
	return proj
}

// Cap limits v to at most limit. A non-positive limit disables capping.
func Cap(v, limit float64) float64 {
	if limit <= 0 {
		return v
	}
	return math.Min(v, limit)
}

// ForecastRow summarises one forecast year of an indicator
type ForecastRow struct {
	Year    int      `json:"year"`
	Base    *float64 `json:"base"`
	RangeLo *float64 `json:"range_low"`
	RangeHi *float64 `json:"range_high"`
}

// ForecastSummary lists the base value and the pessimistic to optimistic
// range for every forecast year of indicatorCode, capped at limit
func ForecastSummary(ft domain.ForecastTable, indicatorCode string, limit float64) []ForecastRow {
	rows := make(map[int]*ForecastRow)
	var years []int
	for _, p := range ft.Points {
		if p.IndicatorCode != indicatorCode {
			continue
		}
		row, ok := rows[p.Year]
		if !ok {
			row = &ForecastRow{Year: p.Year}
			rows[p.Year] = row
			years = append(years, p.Year)
		}
		v := Cap(p.Value, limit)
		switch p.Scenario {
		case domain.ScenarioBase:
			row.Base = &v
		case domain.ScenarioPessimistic:
			row.RangeLo = &v
		case domain.ScenarioOptimistic:
			row.RangeHi = &v
		}
	}

	sort.Ints(years)
	out := make([]ForecastRow, 0, len(years))
	for _, y := range years {
		out = append(out, *rows[y])
	}
	return out
}

// TopEvents ranks the events of the impact matrix by the sum of their
// numeric impacts and returns the first n. Unparseable cells count as zero.
func TopEvents(m domain.ImpactMatrix, n int) []domain.EventImpact {
	ranked := make([]domain.EventImpact, 0, len(m.Rows))
	for _, row := range m.Rows {
		if len(row) == 0 {
			continue
		}
		total := 0.0
		for _, cell := range row[1:] {
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil && !math.IsNaN(v) {
				total += v
			}
		}
		ranked = append(ranked, domain.EventImpact{Event: row[0], Total: total})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Total > ranked[j].Total })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
