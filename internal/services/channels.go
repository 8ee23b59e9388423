package services

import (
	"image/color"

	"fidash/internal/analytics"
	"fidash/internal/charts"
	"fidash/pkg/contracts/domain"
)

// BarValue is one bar of a channel comparison chart
type BarValue struct {
	Label string  `json:"label"`
	Code  string  `json:"code"`
	Value float64 `json:"value"`
	// FromData is false when the value is the built-in fallback
	FromData bool `json:"from_data"`
}

// InfraSeries is one infrastructure indicator over the years
type InfraSeries struct {
	Label    string                  `json:"label"`
	Code     string                  `json:"code"`
	Points   []analytics.SeriesPoint `json:"points"`
	FromData bool                    `json:"from_data"`
}

type barDef struct {
	label    string
	code     string
	fallback float64
	color    color.Color
}

var providerDefs = []barDef{
	{label: "Telebirr", code: "USG_TELEBIRR_USERS", fallback: 54.8, color: charts.Green},
	{label: "M-Pesa", code: "USG_MPESA_USERS", fallback: 10.8, color: charts.Red},
	{label: "CBE Birr", code: "USG_CBEBIRR_USERS", fallback: 2.5, color: charts.Blue},
}

// FY2024/25 transaction counts in millions
var transactionDefs = []barDef{
	{label: "P2P Digital", code: "USG_P2P_COUNT", fallback: 128.3, color: charts.Green},
	{label: "ATM Withdrawals", code: "USG_ATM_COUNT", fallback: 119.3, color: charts.Blue},
}

type seriesDef struct {
	label    string
	code     string
	fallback []analytics.SeriesPoint
	color    color.Color
}

var infraDefs = []seriesDef{
	{label: "4G Coverage", code: "ACC_4G_COVERAGE", color: charts.Blue,
		fallback: []analytics.SeriesPoint{{Year: 2023, Value: 37.5}, {Year: 2025, Value: 70.8}}},
	{label: "Smartphone Penetration", code: "ACC_SMARTPHONE_PEN", color: charts.Purple,
		fallback: []analytics.SeriesPoint{{Year: 2023, Value: 20}, {Year: 2025, Value: 24}}},
}

func barValues(observations []domain.Record, defs []barDef) []BarValue {
	out := make([]BarValue, len(defs))
	for i, d := range defs {
		out[i] = BarValue{Label: d.label, Code: d.code, Value: d.fallback}
		if current, _ := analytics.LatestAndPrevious(observations, d.code, domain.GenderAll); current != nil {
			out[i].Value = *current
			out[i].FromData = true
		}
	}
	return out
}

func infraSeries(observations []domain.Record) []InfraSeries {
	out := make([]InfraSeries, len(infraDefs))
	for i, d := range infraDefs {
		out[i] = InfraSeries{Label: d.label, Code: d.code, Points: d.fallback}
		if points := analytics.Series(observations, d.code, domain.GenderAll); len(points) > 0 {
			out[i].Points = points
			out[i].FromData = true
		}
	}
	return out
}

func categories(values []BarValue, defs []barDef) []charts.Category {
	out := make([]charts.Category, len(values))
	for i, v := range values {
		out[i] = charts.Category{Name: v.Label, Value: v.Value, Color: defs[i].color}
	}
	return out
}

func infraFigure(series []InfraSeries) charts.Figure {
	groups := make([]charts.GroupSeries, len(series))
	for i, s := range series {
		groups[i] = charts.GroupSeries{Name: s.Label, Points: s.Points, Color: infraDefs[i].color}
	}
	return charts.Infrastructure(groups)
}
