package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "fidash/internal/errors"
	"fidash/internal/services"
)

// ExportHandler serves table downloads
type ExportHandler struct {
	service      *services.ExportService
	params       *QueryParser
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service *services.ExportService, params *QueryParser, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		params:       params,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{file}", h.Download)
	return r
}

// Download handles GET /api/export/{table}.{format}
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	dot := strings.LastIndexByte(file, '.')
	if dot <= 0 || dot == len(file)-1 {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("export "+file))
		return
	}
	table, format := file[:dot], strings.ToLower(file[dot+1:])

	filter, err := h.params.ExportFilter(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.service.Export(r.Context(), services.ExportRequest{Table: table, Format: format, Filter: filter})
	if err != nil {
		h.logger.WarnContext(r.Context(), "export failed",
			slog.String("table", table),
			slog.String("format", format),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", slog.String("error", err.Error()))
	}
}
