package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fidash/internal/config"
	apierrors "fidash/internal/errors"
	"fidash/internal/middleware"
	"fidash/internal/services"
	"fidash/pkg/contracts/domain"
)

type trendsParams struct {
	Pillars []string `query:"pillar" validate:"dive,pillar"`
	From    int      `query:"from" validate:"gte=2000,lte=2100"`
	To      int      `query:"to" validate:"gte=2000,lte=2100,gtefield=From"`
}

type forecastsParams struct {
	Model string `query:"model" validate:"omitempty,oneof=event trend"`
	CI    bool   `query:"ci"`
}

type projectionsParams struct {
	Scenario string `query:"scenario" validate:"omitempty,oneof=base optimistic pessimistic"`
}

// QueryParser decodes and validates the page controls. Absent controls take
// the dashboard defaults.
type QueryParser struct {
	validator *middleware.Validator
	defaults  config.DashboardConfig
}

// NewQueryParser creates a parser using defaults for absent controls
func NewQueryParser(defaults config.DashboardConfig) *QueryParser {
	return &QueryParser{
		validator: middleware.NewValidator(),
		defaults:  defaults,
	}
}

// DefaultPillars are selected on the trends page when none are given
var DefaultPillars = []domain.Pillar{domain.PillarAccess, domain.PillarUsage}

// Trends parses pillar, from and to
func (p *QueryParser) Trends(r *http.Request) (services.TrendsQuery, error) {
	return p.trends(r.URL.Query(), DefaultPillars)
}

// Forecasts parses model and ci
func (p *QueryParser) Forecasts(r *http.Request) (services.ForecastsQuery, error) {
	values := r.URL.Query()
	params := forecastsParams{Model: values.Get("model")}
	if raw := values.Get("ci"); raw != "" {
		ci, err := strconv.ParseBool(raw)
		if err != nil {
			return services.ForecastsQuery{}, apierrors.ErrValidation("ci", "must be true or false")
		}
		params.CI = ci
	}
	if err := p.validator.ValidateStruct(params); err != nil {
		return services.ForecastsQuery{}, err
	}

	if params.Model == "" {
		params.Model = services.ModelEvent
	}
	return services.ForecastsQuery{Model: params.Model, CI: params.CI}, nil
}

// Projections parses scenario
func (p *QueryParser) Projections(r *http.Request) (services.ProjectionsQuery, error) {
	params := projectionsParams{Scenario: r.URL.Query().Get("scenario")}
	if err := p.validator.ValidateStruct(params); err != nil {
		return services.ProjectionsQuery{}, err
	}

	scenario := domain.Scenario(params.Scenario)
	if scenario == "" {
		scenario = domain.ScenarioBase
	}
	return services.ProjectionsQuery{Scenario: scenario}, nil
}

// Chart parses the controls of every page a chart can belong to
func (p *QueryParser) Chart(r *http.Request) (services.ChartQuery, error) {
	var (
		q   services.ChartQuery
		err error
	)
	if q.Trends, err = p.Trends(r); err != nil {
		return q, err
	}
	if q.Forecasts, err = p.Forecasts(r); err != nil {
		return q, err
	}
	if q.Projections, err = p.Projections(r); err != nil {
		return q, err
	}
	return q, nil
}

// ExportFilter returns nil when the request carries no filter controls.
// Otherwise absent pillars mean all pillars.
func (p *QueryParser) ExportFilter(r *http.Request) (*services.TrendsQuery, error) {
	values := r.URL.Query()
	if !values.Has("pillar") && !values.Has("from") && !values.Has("to") {
		return nil, nil
	}
	q, err := p.trends(values, domain.AllPillars)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (p *QueryParser) trends(values url.Values, defaultPillars []domain.Pillar) (services.TrendsQuery, error) {
	params := trendsParams{From: p.defaults.DefaultFrom, To: p.defaults.DefaultTo}
	for _, raw := range values["pillar"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name != "" {
				params.Pillars = append(params.Pillars, name)
			}
		}
	}

	var err error
	if params.From, err = yearParam(values, "from", params.From); err != nil {
		return services.TrendsQuery{}, err
	}
	if params.To, err = yearParam(values, "to", params.To); err != nil {
		return services.TrendsQuery{}, err
	}
	if err := p.validator.ValidateStruct(params); err != nil {
		return services.TrendsQuery{}, err
	}

	q := services.TrendsQuery{From: params.From, To: params.To}
	if !values.Has("pillar") {
		q.Pillars = append(q.Pillars, defaultPillars...)
		return q, nil
	}
	for _, name := range params.Pillars {
		q.Pillars = append(q.Pillars, domain.Pillar(strings.ToUpper(name)))
	}
	return q, nil
}

func yearParam(values url.Values, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return fallback, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierrors.ErrValidation(name, "must be a four-digit year")
	}
	return year, nil
}
