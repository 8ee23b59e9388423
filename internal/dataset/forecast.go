package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"fidash/pkg/contracts/domain"
)

// ForecastColumns must be present in the forecast table
var ForecastColumns = []string{"indicator_code", "year", "scenario", "value"}

// ParseForecast converts the forecast table into typed points. A row with an
// unknown scenario or a non-numeric year or value makes the table malformed.
func ParseForecast(t Table) (domain.ForecastTable, error) {
	if err := t.Require(ForecastColumns...); err != nil {
		return domain.ForecastTable{}, err
	}

	code, year, scenario, value := t.Index("indicator_code"), t.Index("year"), t.Index("scenario"), t.Index("value")
	lower, upper := t.Index("ci_lower"), t.Index("ci_upper")

	points := make([]domain.ForecastPoint, 0, len(t.Rows))
	for i, row := range t.Rows {
		line := i + 2

		y, err := strconv.Atoi(strings.TrimSpace(row[year]))
		if err != nil || !validYear(y) {
			return domain.ForecastTable{}, fmt.Errorf("line %d: invalid year %q", line, row[year])
		}

		sc := domain.Scenario(strings.ToLower(strings.TrimSpace(row[scenario])))
		if !sc.Valid() {
			return domain.ForecastTable{}, fmt.Errorf("line %d: unknown scenario %q", line, row[scenario])
		}

		v := parseValue(strings.TrimSpace(row[value]))
		if v == nil {
			return domain.ForecastTable{}, fmt.Errorf("line %d: invalid value %q", line, row[value])
		}

		p := domain.ForecastPoint{
			IndicatorCode: strings.TrimSpace(row[code]),
			Year:          y,
			Scenario:      sc,
			Value:         *v,
		}
		if lower >= 0 {
			p.CILower = parseValue(strings.TrimSpace(row[lower]))
		}
		if upper >= 0 {
			p.CIUpper = parseValue(strings.TrimSpace(row[upper]))
		}
		points = append(points, p)
	}

	return domain.ForecastTable{Header: t.Header, Rows: t.Rows, Points: points}, nil
}

// ParseImpact validates the impact matrix: an event column followed by at
// least one indicator column. Cells are kept as text.
func ParseImpact(t Table) (domain.ImpactMatrix, error) {
	if len(t.Header) < 2 {
		return domain.ImpactMatrix{}, fmt.Errorf("impact matrix needs an event column and at least one indicator column, got %d columns", len(t.Header))
	}
	return domain.ImpactMatrix{Header: t.Header, Rows: t.Rows}, nil
}
