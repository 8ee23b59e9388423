package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fidash/internal/charts"
	apierrors "fidash/internal/errors"
	"fidash/internal/infrastructure"
	"fidash/internal/services"
	"fidash/pkg/contracts"
	"fidash/pkg/contracts/domain"
)

// Page names, each backed by <name>.html
const (
	pageOverview    = "overview"
	pageTrends      = "trends"
	pageForecasts   = "forecasts"
	pageProjections = "projections"
	pageError       = "error"
)

var pageTitles = map[string]string{
	pageOverview:    "Overview",
	pageTrends:      "Trends",
	pageForecasts:   "Forecasts",
	pageProjections: "Inclusion Projections",
	pageError:       "Error",
}

// pageData is what every page template receives
type pageData struct {
	Title      string
	Active     string
	Version    string
	DataFormat string
	Query      template.URL
	View       interface{}
	Pillars    []domain.Pillar
	Scenarios  []domain.Scenario
	Error      *errorView
}

type errorView struct {
	Title   string
	Detail  string
	TraceID string
}

// PageHandler renders the four report pages
type PageHandler struct {
	service      *services.DashboardService
	params       *QueryParser
	pages        map[string]*template.Template
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewPageHandler parses the page templates found in templates
func NewPageHandler(service *services.DashboardService, params *QueryParser, templates fs.FS, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*PageHandler, error) {
	pages := make(map[string]*template.Template, len(pageTitles))
	for name := range pageTitles {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templates, "layout.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		pages[name] = t
	}

	return &PageHandler{
		service:      service,
		params:       params,
		pages:        pages,
		logger:       logger.With(slog.String("component", "page_handler")),
		errorHandler: errorHandler,
	}, nil
}

// Overview handles GET /
func (h *PageHandler) Overview(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Overview(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageOverview, pageData{View: view})
}

// Trends handles GET /trends
func (h *PageHandler) Trends(w http.ResponseWriter, r *http.Request) {
	q, err := h.params.Trends(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	view, err := h.service.Trends(r.Context(), q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, pageTrends, pageData{
		View:    view,
		Pillars: domain.AllPillars,
		Query:   trendsQuery(q),
	})
}

// Forecasts handles GET /forecasts
func (h *PageHandler) Forecasts(w http.ResponseWriter, r *http.Request) {
	q, err := h.params.Forecasts(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	view, err := h.service.Forecasts(r.Context(), q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	values := url.Values{"model": {q.Model}, "ci": {strconv.FormatBool(q.CI)}}
	h.render(w, r, http.StatusOK, pageForecasts, pageData{
		View:  view,
		Query: template.URL(values.Encode()),
	})
}

// Projections handles GET /projections
func (h *PageHandler) Projections(w http.ResponseWriter, r *http.Request) {
	q, err := h.params.Projections(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	view, err := h.service.Projections(r.Context(), q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	values := url.Values{"scenario": {string(q.Scenario)}}
	h.render(w, r, http.StatusOK, pageProjections, pageData{
		View:      view,
		Scenarios: []domain.Scenario{domain.ScenarioBase, domain.ScenarioOptimistic, domain.ScenarioPessimistic},
		Query:     template.URL(values.Encode()),
	})
}

func trendsQuery(q services.TrendsQuery) template.URL {
	values := url.Values{
		"from": {strconv.Itoa(q.From)},
		"to":   {strconv.Itoa(q.To)},
	}
	if len(q.Pillars) == 0 {
		// keep an explicit empty selection from falling back to the defaults
		values.Set("pillar", "")
	}
	for _, p := range q.Pillars {
		values.Add("pillar", string(p))
	}
	return template.URL(values.Encode())
}

// renderError shows the error page with the status the JSON API would use
func (h *PageHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.errorHandler.ErrorToProblem(err, r)
	h.logger.WarnContext(r.Context(), "page not rendered",
		slog.String("path", r.URL.Path),
		slog.Int("status", problem.Status),
		slog.String("error", err.Error()))

	h.render(w, r, problem.Status, pageError, pageData{Error: &errorView{
		Title:   problem.Title,
		Detail:  problem.Detail,
		TraceID: infrastructure.GetTraceID(r.Context()),
	}})
}

// render executes a page into a buffer first so a template failure never
// leaves a half-written page behind
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	data.Title = pageTitles[page]
	data.Active = page
	data.Version = contracts.Version
	data.DataFormat = contracts.DataFormatVersion

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.ErrorContext(r.Context(), "template execution failed",
			slog.String("page", page),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, apierrors.NewRenderError(page, err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write page", slog.String("error", err.Error()))
	}
}

var templateFuncs = template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"opt": func(v *float64) string {
		if v == nil {
			return "n/a"
		}
		return fmt.Sprintf("%.1f%%", *v)
	},
	"deref":     func(v *float64) float64 { return *v },
	"deref_int": func(v *int) int { return *v },
	"has": func(set []domain.Pillar, p domain.Pillar) bool {
		for _, s := range set {
			if s == p {
				return true
			}
		}
		return false
	},
	"join": func(v interface{}) string {
		switch items := v.(type) {
		case []string:
			return strings.Join(items, ", ")
		case []domain.Pillar:
			names := make([]string, len(items))
			for i, p := range items {
				names[i] = string(p)
			}
			return strings.Join(names, ", ")
		}
		return fmt.Sprint(v)
	},
	"heat":         heatClass,
	"scenarioName": charts.ScenarioName,
}

// heatClass buckets an impact cell for the matrix colouring
func heatClass(cell string) string {
	v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	switch {
	case err != nil || v == 0:
		return "zero"
	case v >= 10:
		return "pos-high"
	case v > 0:
		return "pos"
	default:
		return "neg"
	}
}
