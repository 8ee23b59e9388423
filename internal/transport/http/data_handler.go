package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "fidash/internal/errors"
	"fidash/internal/middleware"
	"fidash/internal/services"
	"fidash/pkg/contracts/domain"
)

// DataHandler serves the dashboard view models as JSON
type DataHandler struct {
	service      *services.DashboardService
	params       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDataHandler creates a new data handler with RFC 7807 error handling
func NewDataHandler(service *services.DashboardService, params *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DataHandler {
	return &DataHandler{
		service:      service,
		params:       params,
		logger:       logger.With(slog.String("component", "data_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the data routes
func (h *DataHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/summary", h.GetSummary)
	r.Get("/metrics", h.GetMetrics)
	r.Get("/trends", h.GetTrends)
	r.Get("/forecasts", h.GetForecasts)
	r.Get("/scenarios", h.GetScenarios)
	r.Get("/impact", h.GetImpact)
	return r
}

func (h *DataHandler) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	h.logger.WarnContext(r.Context(), "data request failed",
		slog.String("what", what),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, err)
}

// GetSummary handles GET /api/data/summary
func (h *DataHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, r, "summary", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   summary,
	})
}

// GetMetrics handles GET /api/data/metrics
func (h *DataHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	cards, err := h.service.Metrics(r.Context())
	if err != nil {
		h.fail(w, r, "metrics", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   cards,
		"count":  len(cards),
	})
}

// GetTrends handles GET /api/data/trends
func (h *DataHandler) GetTrends(w http.ResponseWriter, r *http.Request) {
	q, err := h.params.Trends(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Trends(r.Context(), q)
	if err != nil {
		h.fail(w, r, "trends", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
		"count":  len(view.Points),
	})
}

// GetForecasts handles GET /api/data/forecasts
func (h *DataHandler) GetForecasts(w http.ResponseWriter, r *http.Request) {
	q, err := h.params.Forecasts(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Forecasts(r.Context(), q)
	if err != nil {
		h.fail(w, r, "forecasts", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
		"count":  len(view.Panels),
	})
}

// GetScenarios handles GET /api/data/scenarios
func (h *DataHandler) GetScenarios(w http.ResponseWriter, r *http.Request) {
	q, err := h.params.Projections(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	view, err := h.service.Projections(r.Context(), q)
	if err != nil {
		h.fail(w, r, "scenarios", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   view,
	})
}

// GetImpact handles GET /api/data/impact
func (h *DataHandler) GetImpact(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Projections(r.Context(), services.ProjectionsQuery{Scenario: domain.ScenarioBase})
	if err != nil {
		h.fail(w, r, "impact", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"matrix":     view.Impact,
			"top_events": view.TopEvents,
		},
	})
}
