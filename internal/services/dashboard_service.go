package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fidash/internal/analytics"
	"fidash/internal/charts"
	"fidash/internal/config"
	"fidash/internal/dataset"
	apierrors "fidash/internal/errors"
	"fidash/internal/infrastructure"
	"fidash/pkg/contracts/domain"
)

// OwnershipCode is the headline indicator tracked against the NFIS-II target
const OwnershipCode = "ACC_OWNERSHIP"

// View names used in logs and metrics
const (
	ViewOverview    = "overview"
	ViewTrends      = "trends"
	ViewForecasts   = "forecasts"
	ViewProjections = "projections"
)

// Forecast models selectable on the forecasts page
const (
	ModelEvent = "event"
	ModelTrend = "trend"
)

// SnapshotProvider hands out the loaded dataset
type SnapshotProvider interface {
	Get(ctx context.Context) (*dataset.Snapshot, error)
}

// DashboardService builds the view models of the four report pages
type DashboardService struct {
	store   SnapshotProvider
	cfg     config.DashboardConfig
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewDashboardService creates a dashboard service. metrics may be nil.
func NewDashboardService(store SnapshotProvider, cfg config.DashboardConfig, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		store:   store,
		cfg:     cfg,
		metrics: metrics,
		logger:  infrastructure.WithComponent(logger, "dashboard_service"),
	}
}

// Config returns the presentation constants in use
func (s *DashboardService) Config() config.DashboardConfig {
	return s.cfg
}

func (s *DashboardService) snapshot(ctx context.Context, view string) (*dataset.Snapshot, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "dataset unavailable",
			slog.String("view", view),
			slog.String("error", err.Error()))
		infrastructure.RecordViewRender(ctx, s.metrics, view, err)
		return nil, err
	}
	return snap, nil
}

// DataSummary describes what was loaded
type DataSummary struct {
	Load         dataset.LoadSummary   `json:"load"`
	RecordTypes  []analytics.TypeCount `json:"record_types"`
	RecentEvents []analytics.EventItem `json:"recent_events"`
	FirstYear    int                   `json:"first_year,omitempty"`
	LastYear     int                   `json:"last_year,omitempty"`
	Pillars      []domain.Pillar       `json:"pillars"`
	LoadedAt     time.Time             `json:"loaded_at"`
}

// TemporalRange formats the observed year span for display
func (d DataSummary) TemporalRange() string {
	if d.FirstYear == 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d-%d", d.FirstYear, d.LastYear)
}

// Summary returns counts, coverage and the recent events timeline
func (s *DashboardService) Summary(ctx context.Context) (*DataSummary, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.summarize(snap), nil
}

func (s *DashboardService) summarize(snap *dataset.Snapshot) *DataSummary {
	var types []string
	if col := snap.Unified.Index(dataset.ColRecordType); col >= 0 {
		types = make([]string, len(snap.Unified.Rows))
		for i, row := range snap.Unified.Rows {
			types[i] = row[col]
		}
	}

	summary := &DataSummary{
		Load:         snap.Summary,
		RecordTypes:  analytics.CountRecordTypes(types),
		RecentEvents: analytics.RecentEvents(snap.Events, s.cfg.RecentEvents),
		Pillars:      analytics.Pillars(snap.Observations),
		LoadedAt:     snap.LoadedAt,
	}
	if first, last, ok := analytics.YearRange(snap.Observations); ok {
		summary.FirstYear, summary.LastYear = first, last
	}
	return summary
}

// OverviewView is the landing page model
type OverviewView struct {
	Cards        []MetricCard            `json:"cards"`
	Summary      *DataSummary            `json:"summary"`
	Ownership    []analytics.SeriesPoint `json:"ownership"`
	Transactions []BarValue              `json:"transactions"`
	Target       float64                 `json:"target"`
}

// Overview builds the metric cards, data summary and ownership trajectory
func (s *DashboardService) Overview(ctx context.Context) (*OverviewView, error) {
	snap, err := s.snapshot(ctx, ViewOverview)
	if err != nil {
		return nil, err
	}

	view := &OverviewView{
		Cards:        s.cards(snap.Observations),
		Summary:      s.summarize(snap),
		Ownership:    analytics.Series(snap.Observations, OwnershipCode, domain.GenderAll),
		Transactions: barValues(snap.Observations, transactionDefs),
		Target:       s.cfg.Target,
	}
	infrastructure.RecordViewRender(ctx, s.metrics, ViewOverview, nil)
	return view, nil
}

// Metrics returns only the overview cards
func (s *DashboardService) Metrics(ctx context.Context) ([]MetricCard, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	return s.cards(snap.Observations), nil
}

// TrendsQuery holds the controls of the trends page
type TrendsQuery struct {
	Pillars []domain.Pillar
	From    int
	To      int
}

// TrendQuery converts the page controls into a filter on percentage rows
func (q TrendsQuery) TrendQuery() analytics.TrendQuery {
	return analytics.TrendQuery{
		Pillars: analytics.NewPillarSet(q.Pillars...),
		MinYear: q.From,
		MaxYear: q.To,
		Unit:    domain.UnitPercent,
	}
}

// TrendsView is the trends page model
type TrendsView struct {
	Pillars        []domain.Pillar         `json:"pillars"`
	From           int                     `json:"from"`
	To             int                     `json:"to"`
	Points         []analytics.TrendPoint  `json:"points"`
	Indicators     []string                `json:"indicators"`
	Message        string                  `json:"message,omitempty"`
	Gender         []analytics.GenderPoint `json:"gender"`
	Providers      []BarValue              `json:"providers"`
	Infrastructure []InfraSeries           `json:"infrastructure"`
}

// Empty reports whether no trend point matched the filters
func (v TrendsView) Empty() bool {
	return len(v.Points) == 0
}

// Trends filters and aggregates the observations for the trends page
func (s *DashboardService) Trends(ctx context.Context, q TrendsQuery) (*TrendsView, error) {
	snap, err := s.snapshot(ctx, ViewTrends)
	if err != nil {
		return nil, err
	}

	points := analytics.FilterAndAggregate(snap.Observations, q.TrendQuery())
	view := &TrendsView{
		Pillars:        q.TrendQuery().Pillars.Slice(),
		From:           q.From,
		To:             q.To,
		Points:         points,
		Indicators:     analytics.Indicators(points),
		Gender:         analytics.GenderGap(snap.Observations, OwnershipCode),
		Providers:      barValues(snap.Observations, providerDefs),
		Infrastructure: infraSeries(snap.Observations),
	}
	if len(points) == 0 {
		view.Message = charts.EmptyTrendsText
	}

	s.logger.DebugContext(ctx, "trends aggregated",
		slog.Any("pillars", view.Pillars),
		slog.Int("from", q.From),
		slog.Int("to", q.To),
		slog.Int("points", len(points)))
	infrastructure.RecordViewRender(ctx, s.metrics, ViewTrends, nil)
	return view, nil
}

// ForecastsQuery holds the controls of the forecasts page
type ForecastsQuery struct {
	Model string
	CI    bool
}

func (q ForecastsQuery) scenario() domain.Scenario {
	if q.Model == ModelTrend {
		return domain.ScenarioTrend
	}
	return domain.ScenarioBase
}

// ForecastPanel is the chart and summary of one forecast indicator
type ForecastPanel struct {
	IndicatorCode string                  `json:"indicator_code"`
	Name          string                  `json:"name"`
	History       []analytics.SeriesPoint `json:"history"`
	Projection    analytics.Projection    `json:"projection"`
	ShowBand      bool                    `json:"show_band"`
	Rows          []analytics.ForecastRow `json:"rows"`
	Target        *float64                `json:"target,omitempty"`
	TargetYear    *int                    `json:"target_year,omitempty"`
}

// ForecastsView is the forecasts page model
type ForecastsView struct {
	Model  string          `json:"model"`
	CI     bool            `json:"ci"`
	Panels []ForecastPanel `json:"panels"`
}

// Forecasts builds one panel per indicator of the forecast table
func (s *DashboardService) Forecasts(ctx context.Context, q ForecastsQuery) (*ForecastsView, error) {
	snap, err := s.snapshot(ctx, ViewForecasts)
	if err != nil {
		return nil, err
	}
	if q.Model == "" {
		q.Model = ModelEvent
	}

	view := &ForecastsView{Model: q.Model, CI: q.CI}
	for _, code := range snap.Forecast.Indicators() {
		view.Panels = append(view.Panels, s.forecastPanel(snap, code, q))
	}
	infrastructure.RecordViewRender(ctx, s.metrics, ViewForecasts, nil)
	return view, nil
}

func (s *DashboardService) forecastPanel(snap *dataset.Snapshot, code string, q ForecastsQuery) ForecastPanel {
	history := analytics.Series(snap.Observations, code, domain.GenderAll)
	scenario := q.scenario()
	panel := ForecastPanel{
		IndicatorCode: code,
		Name:          indicatorName(snap.Observations, code),
		History:       history,
		Projection:    analytics.Project(analytics.ScenarioPoints(snap.Forecast, code, scenario), scenario, lastPoint(history), s.cfg.DisplayCap),
		ShowBand:      q.CI && scenario == domain.ScenarioBase,
		Rows:          analytics.ForecastSummary(snap.Forecast, code, s.cfg.DisplayCap),
	}

	if code == OwnershipCode {
		target := s.cfg.Target
		panel.Target = &target
		for _, p := range analytics.ScenarioPoints(snap.Forecast, code, domain.ScenarioBase) {
			if p.Value >= target {
				year := p.Year
				panel.TargetYear = &year
				break
			}
		}
	}
	return panel
}

// ProjectionsQuery holds the controls of the projections page
type ProjectionsQuery struct {
	Scenario domain.Scenario
}

// Gauge shows progress toward the target in the first forecast year
type Gauge struct {
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
	Target    float64 `json:"target"`
	Threshold float64 `json:"threshold"`
	Delta     float64 `json:"delta"`
	OnTrack   bool    `json:"on_track"`
}

// Percent is the gauge fill relative to the display cap
func (g Gauge) Percent() float64 {
	if g.Value <= 0 {
		return 0
	}
	if g.Value >= 100 {
		return 100
	}
	return g.Value
}

// ProjectionsView is the projections page model
type ProjectionsView struct {
	Scenario     domain.Scenario         `json:"scenario"`
	ScenarioName string                  `json:"scenario_name"`
	Description  string                  `json:"description"`
	Gauge        *Gauge                  `json:"gauge,omitempty"`
	History      []analytics.SeriesPoint `json:"history"`
	Projections  []analytics.Projection  `json:"projections"`
	TopEvents    []domain.EventImpact    `json:"top_events"`
	Impact       domain.ImpactMatrix     `json:"impact"`
	Target       float64                 `json:"target"`
}

var comparedScenarios = []domain.Scenario{domain.ScenarioBase, domain.ScenarioOptimistic, domain.ScenarioPessimistic}

// Projections builds the scenario gauge, comparison and impact ranking
func (s *DashboardService) Projections(ctx context.Context, q ProjectionsQuery) (*ProjectionsView, error) {
	snap, err := s.snapshot(ctx, ViewProjections)
	if err != nil {
		return nil, err
	}
	view := s.projections(snap, q)
	infrastructure.RecordViewRender(ctx, s.metrics, ViewProjections, nil)
	return view, nil
}

func (s *DashboardService) projections(snap *dataset.Snapshot, q ProjectionsQuery) *ProjectionsView {
	if q.Scenario == "" {
		q.Scenario = domain.ScenarioBase
	}

	history := analytics.Series(snap.Observations, OwnershipCode, domain.GenderAll)
	view := &ProjectionsView{
		Scenario:     q.Scenario,
		ScenarioName: charts.ScenarioName(q.Scenario),
		Description:  q.Scenario.Description(),
		History:      history,
		TopEvents:    analytics.TopEvents(snap.Impact, s.cfg.TopEvents),
		Impact:       snap.Impact,
		Target:       s.cfg.Target,
	}
	anchor := lastPoint(history)
	for _, sc := range comparedScenarios {
		points := analytics.ScenarioPoints(snap.Forecast, OwnershipCode, sc)
		if len(points) == 0 {
			continue
		}
		view.Projections = append(view.Projections, analytics.Project(points, sc, anchor, 0))
	}

	if year, ok := analytics.FirstForecastYear(snap.Forecast, OwnershipCode); ok {
		if value, ok := analytics.ScenarioValue(snap.Forecast, OwnershipCode, q.Scenario, year); ok {
			view.Gauge = &Gauge{
				Year:      year,
				Value:     value,
				Target:    s.cfg.Target,
				Threshold: s.cfg.GaugeThreshold,
				Delta:     value - s.cfg.Target,
				OnTrack:   value >= s.cfg.GaugeThreshold,
			}
		}
	}
	return view
}

// ChartQuery carries the page controls a chart depends on
type ChartQuery struct {
	Trends      TrendsQuery
	Forecasts   ForecastsQuery
	Projections ProjectionsQuery
}

// Chart names
const (
	ChartTrends         = "trends"
	ChartOwnership      = "ownership"
	ChartGender         = "gender"
	ChartScenarios      = "scenarios"
	ChartChannels       = "channels"
	ChartTransactions   = "transactions"
	ChartInfrastructure = "infrastructure"
	ChartForecastPrefix = "forecast-"
)

// Figure builds the named chart. Unknown names and forecast indicators
// without data are not found.
func (s *DashboardService) Figure(ctx context.Context, name string, q ChartQuery) (charts.Figure, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return charts.Figure{}, err
	}

	switch name {
	case ChartTrends:
		return charts.Trends(analytics.FilterAndAggregate(snap.Observations, q.Trends.TrendQuery())), nil
	case ChartOwnership:
		return charts.Ownership(analytics.Series(snap.Observations, OwnershipCode, domain.GenderAll), s.cfg.Target), nil
	case ChartGender:
		return charts.Gender(analytics.GenderGap(snap.Observations, OwnershipCode)), nil
	case ChartScenarios:
		view := s.projections(snap, q.Projections)
		return charts.Scenarios(view.History, view.Projections, view.Scenario, view.Target), nil
	case ChartChannels:
		return charts.Channels(categories(barValues(snap.Observations, providerDefs), providerDefs)), nil
	case ChartTransactions:
		return charts.Transactions(categories(barValues(snap.Observations, transactionDefs), transactionDefs)), nil
	case ChartInfrastructure:
		return infraFigure(infraSeries(snap.Observations)), nil
	}

	if code, ok := strings.CutPrefix(name, ChartForecastPrefix); ok && code != "" {
		for _, c := range snap.Forecast.Indicators() {
			if c != code {
				continue
			}
			panel := s.forecastPanel(snap, code, q.Forecasts)
			return charts.Forecast(charts.ForecastInput{
				Title:      panel.Name + " Forecast",
				YLabel:     panel.Name + " (%)",
				History:    panel.History,
				Projection: panel.Projection,
				ShowBand:   panel.ShowBand,
				Target:     panel.Target,
			}), nil
		}
	}

	return charts.Figure{}, apierrors.NotFoundError("chart " + name)
}

// RenderChart renders the named chart as SVG
func (s *DashboardService) RenderChart(ctx context.Context, name string, q ChartQuery) ([]byte, error) {
	fig, err := s.Figure(ctx, name, q)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := charts.RenderSVG(&buf, fig); err != nil {
		s.logger.ErrorContext(ctx, "chart render failed",
			slog.String("chart", name),
			slog.String("error", err.Error()))
		return nil, apierrors.NewRenderError(name, err)
	}
	infrastructure.RecordChartRender(ctx, s.metrics, name)
	return buf.Bytes(), nil
}

func lastPoint(points []analytics.SeriesPoint) *analytics.SeriesPoint {
	if len(points) == 0 {
		return nil
	}
	p := points[len(points)-1]
	return &p
}

func indicatorName(observations []domain.Record, code string) string {
	for _, r := range observations {
		if r.IndicatorCode == code && r.Indicator != "" {
			return r.Indicator
		}
	}
	return code
}
