package exporter

import (
	"fidash/internal/analytics"
	"fidash/pkg/contracts/domain"
)

// Table is a named header plus records ready for export
type Table struct {
	Name    string
	Headers []string
	Records [][]string
}

// Export table names
const (
	TableObservations = "observations"
	TableForecast     = "forecast"
	TableImpact       = "impact"
	TableTrends       = "trends"
)

// Download file names
var fileNames = map[string]string{
	TableObservations: "ethiopia_fi_observations",
	TableForecast:     "ethiopia_fi_forecasts_2025_2027",
	TableImpact:       "event_impact_matrix",
	TableTrends:       "ethiopia_fi_trends",
}

// FileName returns the download name of table with the given extension
func FileName(table, ext string) string {
	base, ok := fileNames[table]
	if !ok {
		base = table
	}
	return base + "." + ext
}

// ObservationsTable exports records with their original cells under header
func ObservationsTable(header []string, records []domain.Record) Table {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = r.Fields
	}
	return Table{Name: TableObservations, Headers: header, Records: rows}
}

// ForecastTable exports the forecast file as loaded
func ForecastTable(ft domain.ForecastTable) Table {
	return Table{Name: TableForecast, Headers: ft.Header, Records: ft.Rows}
}

// ImpactTable exports the impact matrix as loaded
func ImpactTable(m domain.ImpactMatrix) Table {
	return Table{Name: TableImpact, Headers: m.Header, Records: m.Rows}
}

// TrendsTable exports aggregated trend points
func TrendsTable(points []analytics.TrendPoint) Table {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{p.IndicatorCode, formatInt(p.Year), string(p.Pillar), formatFloat(p.Mean), formatInt(p.Count)}
	}
	return Table{
		Name:    TableTrends,
		Headers: []string{"indicator_code", "year", "pillar", "value", "count"},
		Records: rows,
	}
}
