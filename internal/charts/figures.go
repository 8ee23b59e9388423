package charts

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"

	"fidash/internal/analytics"
	"fidash/pkg/contracts/domain"
)

// EmptyTrendsText is shown when the trend filters match nothing
const EmptyTrendsText = "No data available for selected filters. Try adjusting the year range or pillars."

func float(v float64) *float64 { return &v }

// Trends draws one line per indicator from aggregated trend points
func Trends(points []analytics.TrendPoint) Figure {
	fig := Figure{
		Title:     "Indicator Trends by Year",
		XLabel:    "Year",
		YLabel:    "Value (%)",
		EmptyText: EmptyTrendsText,
	}

	sorted := append([]analytics.TrendPoint(nil), points...)
	analytics.SortPoints(sorted)

	// one line per indicator and pillar so the same code under two pillars
	// is not joined into a zigzag
	type key struct {
		code   string
		pillar domain.Pillar
	}
	index := make(map[key]int)
	for _, p := range sorted {
		k := key{p.IndicatorCode, p.Pillar}
		i, ok := index[k]
		if !ok {
			i = len(fig.Lines)
			index[k] = i
			name := p.IndicatorCode
			if countPillars(sorted, p.IndicatorCode) > 1 {
				name = fmt.Sprintf("%s (%s)", p.IndicatorCode, p.Pillar)
			}
			fig.Lines = append(fig.Lines, Line{Name: name, Color: SeriesColor(i)})
		}
		fig.Lines[i].Points = append(fig.Lines[i].Points, analytics.SeriesPoint{Year: p.Year, Value: p.Mean})
	}
	return fig
}

func countPillars(points []analytics.TrendPoint, code string) int {
	seen := make(map[domain.Pillar]bool)
	for _, p := range points {
		if p.IndicatorCode == code {
			seen[p.Pillar] = true
		}
	}
	return len(seen)
}

// Ownership draws the account ownership trajectory against the target
func Ownership(history []analytics.SeriesPoint, target float64) Figure {
	return Figure{
		Title:  "Account Ownership Trajectory",
		XLabel: "Year",
		YLabel: "Account Ownership (%)",
		YMin:   float(0),
		YMax:   float(100),
		Lines:  []Line{{Name: "Account Ownership", Points: history, Color: Green, Bold: true}},
		References: []Reference{
			{Name: fmt.Sprintf("NFIS-II Target (%.0f%%)", target), Y: target, Color: Red},
		},
	}
}

// Gender draws male and female ownership with the gap between them
func Gender(points []analytics.GenderPoint) Figure {
	var male, female, gap []analytics.SeriesPoint
	for _, p := range points {
		male = append(male, analytics.SeriesPoint{Year: p.Year, Value: p.Male})
		female = append(female, analytics.SeriesPoint{Year: p.Year, Value: p.Female})
		gap = append(gap, analytics.SeriesPoint{Year: p.Year, Value: p.Gap})
	}
	return Figure{
		Title:  "Account Ownership by Gender",
		XLabel: "Year",
		YLabel: "Account Ownership (%) / Gap (pp)",
		YMin:   float(0),
		Lines: []Line{
			{Name: "Male", Points: male, Color: Blue, Bold: true},
			{Name: "Female", Points: female, Color: Red, Bold: true},
		},
		Bars: []Bar{{Name: "Gender Gap", Points: gap, Color: Purple}},
	}
}

// Category is one labelled bar
type Category struct {
	Name  string
	Value float64
	Color color.Color
}

func categorical(title, ylabel string, cats []Category) Figure {
	fig := Figure{Title: title, YLabel: ylabel, YMin: float(0)}
	bar := Bar{Name: ylabel}
	for _, c := range cats {
		fig.Categories = append(fig.Categories, c.Name)
		bar.Values = append(bar.Values, c.Value)
		bar.Colors = append(bar.Colors, c.Color)
	}
	if len(cats) > 0 {
		fig.Bars = []Bar{bar}
	}
	return fig
}

// Channels compares the registered users of the mobile money providers
func Channels(providers []Category) Figure {
	return categorical("Mobile Money User Base", "Users (M)", providers)
}

// Transactions compares digital P2P transfers with ATM withdrawals
func Transactions(channels []Category) Figure {
	return categorical("P2P vs ATM Transactions", "Transactions (M)", channels)
}

// GroupSeries is one series of a grouped bar chart over years
type GroupSeries struct {
	Name   string
	Points []analytics.SeriesPoint
	Color  color.Color
}

// Infrastructure draws the series as bars grouped by year
func Infrastructure(series []GroupSeries) Figure {
	fig := Figure{Title: "Infrastructure Growth", YLabel: "Coverage (%)", YMin: float(0), YMax: float(100)}

	var years []int
	seen := make(map[int]bool)
	for _, s := range series {
		for _, p := range s.Points {
			if !seen[p.Year] {
				seen[p.Year] = true
				years = append(years, p.Year)
			}
		}
	}
	sort.Ints(years)
	for _, y := range years {
		fig.Categories = append(fig.Categories, strconv.Itoa(y))
	}

	for _, s := range series {
		values := make([]float64, len(years))
		for _, p := range s.Points {
			values[sort.SearchInts(years, p.Year)] = p.Value
		}
		fig.Bars = append(fig.Bars, Bar{Name: s.Name, Values: values, Color: s.Color})
	}
	return fig
}

// ForecastInput holds everything the forecast chart of one indicator needs
type ForecastInput struct {
	Title      string
	YLabel     string
	History    []analytics.SeriesPoint
	Projection analytics.Projection
	ShowBand   bool
	Target     *float64
}

// Forecast draws history followed by the chosen projection
func Forecast(in ForecastInput) Figure {
	fig := Figure{
		Title:  in.Title,
		XLabel: "Year",
		YLabel: in.YLabel,
		YMin:   float(0),
		YMax:   float(110),
		Lines:  []Line{{Name: "Historical", Points: in.History, Color: Navy}},
	}

	if in.Projection.Scenario == domain.ScenarioTrend {
		fig.Lines = append(fig.Lines, Line{Name: "Linear Trend", Points: in.Projection.Points, Color: Grey, Dashed: true})
	} else {
		fig.Lines = append(fig.Lines, Line{Name: "Base Scenario", Points: in.Projection.Points, Color: Green, Bold: true})
		if in.ShowBand && len(in.Projection.Upper) > 0 {
			fig.Bands = append(fig.Bands, Band{Name: "95% CI", Lower: in.Projection.Lower, Upper: in.Projection.Upper, Color: Green})
		}
	}

	if in.Target != nil {
		fig.References = append(fig.References, Reference{
			Name:  fmt.Sprintf("NFIS-II Target (%.0f%%)", *in.Target),
			Y:     *in.Target,
			Color: Red,
		})
	}
	return fig
}

var scenarioColors = map[domain.Scenario]color.Color{
	domain.ScenarioBase:        Green,
	domain.ScenarioOptimistic:  Blue,
	domain.ScenarioPessimistic: Red,
}

// ScenarioName is the display label of a scenario
func ScenarioName(s domain.Scenario) string {
	switch s {
	case domain.ScenarioBase:
		return "Base Case"
	case domain.ScenarioOptimistic:
		return "Optimistic"
	case domain.ScenarioPessimistic:
		return "Pessimistic"
	case domain.ScenarioTrend:
		return "Trend Only"
	}
	return string(s)
}

// Scenarios compares every scenario, emphasising the selected one
func Scenarios(history []analytics.SeriesPoint, projections []analytics.Projection, selected domain.Scenario, target float64) Figure {
	fig := Figure{
		Title:  "Scenario Comparison",
		XLabel: "Year",
		YLabel: "Account Ownership (%)",
		YMin:   float(0),
		YMax:   float(100),
		Lines:  []Line{{Name: "Historical", Points: history, Color: Navy}},
		References: []Reference{
			{Name: fmt.Sprintf("NFIS-II Target (%.0f%%)", target), Y: target, Color: Purple},
		},
	}
	for i, proj := range projections {
		c, ok := scenarioColors[proj.Scenario]
		if !ok {
			c = SeriesColor(i + 3)
		}
		fig.Lines = append(fig.Lines, Line{
			Name:   ScenarioName(proj.Scenario),
			Points: proj.Points,
			Color:  c,
			Dashed: proj.Scenario != selected,
			Bold:   proj.Scenario == selected,
		})
	}
	return fig
}
