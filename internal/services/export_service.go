package services

import (
	"bytes"
	"context"
	"log/slog"

	"fidash/internal/analytics"
	"fidash/internal/dataset"
	apierrors "fidash/internal/errors"
	"fidash/internal/exporter"
	"fidash/internal/infrastructure"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// TableAll bundles every source table into one workbook
const TableAll = "all"

const workbookName = "ethiopia_fi_dashboard.xlsx"

// Content types of the export formats
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ExportRequest selects a table and format. Filter, when set, restricts
// the observations and shapes the trends table.
type ExportRequest struct {
	Table  string
	Format string
	Filter *TrendsQuery
}

// ExportFile is a rendered download
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ExportService renders the loaded tables as CSV or Excel downloads
type ExportService struct {
	store    SnapshotProvider
	csv      *exporter.CSVWriter
	defaults TrendsQuery
	metrics  *infrastructure.BusinessMetrics
	logger   *slog.Logger
}

// NewExportService creates an export service. defaults is the trends filter
// used for the trends table when a request carries none.
func NewExportService(store SnapshotProvider, defaults TrendsQuery, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportService{
		store:    store,
		csv:      exporter.NewCSVWriter(),
		defaults: defaults,
		metrics:  metrics,
		logger:   infrastructure.WithComponent(logger, "export_service"),
	}
}

// Export renders the requested table
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportFile, error) {
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, err
	}

	var tables []exporter.Table
	if req.Table == TableAll {
		if req.Format != FormatXLSX {
			return nil, apierrors.UnsupportedFormatError(req.Format)
		}
		tables = []exporter.Table{
			s.observations(snap, req.Filter),
			exporter.ForecastTable(snap.Forecast),
			exporter.ImpactTable(snap.Impact),
		}
	} else {
		t, err := s.table(snap, req)
		if err != nil {
			return nil, err
		}
		tables = []exporter.Table{t}
	}

	var buf bytes.Buffer
	file := &ExportFile{Name: exporter.FileName(req.Table, req.Format)}
	if req.Table == TableAll {
		file.Name = workbookName
	}
	switch req.Format {
	case FormatCSV:
		file.ContentType = ContentTypeCSV
		err = s.csv.WriteTable(&buf, tables[0])
	case FormatXLSX:
		file.ContentType = ContentTypeXLSX
		err = exporter.WriteXLSX(&buf, tables...)
	default:
		return nil, apierrors.UnsupportedFormatError(req.Format)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "export failed",
			slog.String("table", req.Table),
			slog.String("format", req.Format),
			slog.String("error", err.Error()))
		return nil, apierrors.NewExportError(req.Table, err)
	}

	file.Data = buf.Bytes()
	infrastructure.RecordExport(ctx, s.metrics, req.Table, req.Format, int64(len(file.Data)))
	s.logger.InfoContext(ctx, "table exported",
		slog.String("table", req.Table),
		slog.String("format", req.Format),
		slog.Int("bytes", len(file.Data)))
	return file, nil
}

func (s *ExportService) table(snap *dataset.Snapshot, req ExportRequest) (exporter.Table, error) {
	switch req.Table {
	case exporter.TableObservations:
		return s.observations(snap, req.Filter), nil
	case exporter.TableForecast:
		return exporter.ForecastTable(snap.Forecast), nil
	case exporter.TableImpact:
		return exporter.ImpactTable(snap.Impact), nil
	case exporter.TableTrends:
		q := s.defaults
		if req.Filter != nil {
			q = *req.Filter
		}
		points := analytics.FilterAndAggregate(snap.Observations, q.TrendQuery())
		analytics.SortPoints(points)
		return exporter.TrendsTable(points), nil
	}
	return exporter.Table{}, apierrors.NotFoundError("table " + req.Table)
}

// observations exports the whole partition, or the rows Filter keeps when
// a filter is given, with the original header and cells
func (s *ExportService) observations(snap *dataset.Snapshot, filter *TrendsQuery) exporter.Table {
	rows := snap.Observations
	if filter != nil {
		rows = analytics.Filter(snap.Observations, filter.TrendQuery())
	}
	return exporter.ObservationsTable(snap.Unified.Header, rows)
}
