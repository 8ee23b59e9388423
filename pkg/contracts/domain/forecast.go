package domain

// Scenario names a forecast trajectory
type Scenario string

const (
	ScenarioBase        Scenario = "base"
	ScenarioOptimistic  Scenario = "optimistic"
	ScenarioPessimistic Scenario = "pessimistic"
	ScenarioTrend       Scenario = "trend"
)

// Valid reports whether s is a known scenario
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioBase, ScenarioOptimistic, ScenarioPessimistic, ScenarioTrend:
		return true
	}
	return false
}

// Description returns the narrative shown next to the scenario gauge
func (s Scenario) Description() string {
	switch s {
	case ScenarioBase:
		return "Expected event effects materialize as planned"
	case ScenarioOptimistic:
		return "Strong execution, synergies realized, accelerated adoption"
	case ScenarioPessimistic:
		return "Economic headwinds, slower adoption, infrastructure delays"
	case ScenarioTrend:
		return "Historical trend extrapolated without event effects"
	}
	return ""
}

// ForecastPoint is one row of the forecast table
type ForecastPoint struct {
	IndicatorCode string   `json:"indicator_code"`
	Year          int      `json:"year"`
	Scenario      Scenario `json:"scenario"`
	Value         float64  `json:"value"`
	CILower       *float64 `json:"ci_lower,omitempty"`
	CIUpper       *float64 `json:"ci_upper,omitempty"`
}

// ForecastTable is the parsed forecast file with its original cells
type ForecastTable struct {
	Header []string        `json:"header"`
	Rows   [][]string      `json:"-"`
	Points []ForecastPoint `json:"points"`
}

// Indicators returns the indicator codes in first-appearance order
func (t ForecastTable) Indicators() []string {
	seen := make(map[string]bool)
	var codes []string
	for _, p := range t.Points {
		if !seen[p.IndicatorCode] {
			seen[p.IndicatorCode] = true
			codes = append(codes, p.IndicatorCode)
		}
	}
	return codes
}
