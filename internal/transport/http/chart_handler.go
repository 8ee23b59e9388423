package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "fidash/internal/errors"
	"fidash/internal/services"
)

// ChartHandler serves SVG charts
type ChartHandler struct {
	service      *services.DashboardService
	params       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a new chart handler
func NewChartHandler(service *services.DashboardService, params *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		params:       params,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{name}.svg", h.Chart)
	return r
}

// Chart handles GET /charts/{name}.svg
func (h *ChartHandler) Chart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	q, err := h.params.Chart(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	svg, err := h.service.RenderChart(r.Context(), name, q)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(svg); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write chart",
			slog.String("chart", name),
			slog.String("error", err.Error()))
	}
}
