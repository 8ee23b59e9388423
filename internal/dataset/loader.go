package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"fidash/internal/infrastructure"
	"fidash/pkg/contracts/domain"
)

// Files locates the three source tables
type Files struct {
	Unified  string
	Forecast string
	Impact   string
}

// LoadSummary counts the rows of the unified table by partition
type LoadSummary struct {
	Total        int `json:"total"`
	Observations int `json:"observations"`
	Events       int `json:"events"`
	Other        int `json:"other"`
	Undated      int `json:"undated"`
}

// Snapshot is the immutable result of a successful load
type Snapshot struct {
	Unified      Table
	Observations []domain.Record
	Events       []domain.Record
	Forecast     domain.ForecastTable
	Impact       domain.ImpactMatrix
	Summary      LoadSummary
	LoadedAt     time.Time
}

// Loader reads the source tables from disk
type Loader struct {
	files   Files
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
}

// NewLoader creates a loader for files. metrics may be nil.
func NewLoader(files Files, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		files:   files,
		logger:  logger.With(slog.String("component", "dataset_loader")),
		metrics: metrics,
		tracer:  otel.Tracer("fidash/dataset"),
	}
}

// Load reads the three tables concurrently. Any failure aborts the load with
// an error wrapping ErrDataUnavailable; there is no partial snapshot.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	ctx, span := l.tracer.Start(ctx, "dataset.Load")
	defer span.End()

	start := time.Now()
	l.logger.InfoContext(ctx, "loading dataset",
		slog.String("unified", l.files.Unified),
		slog.String("forecast", l.files.Forecast),
		slog.String("impact", l.files.Impact))

	snap, err := l.load(ctx)
	duration := time.Since(start)

	var summary LoadSummary
	if snap != nil {
		summary = snap.Summary
	}
	infrastructure.RecordDatasetLoad(ctx, l.metrics, duration, summary.Total, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("dataset.records", summary.Total),
		attribute.Int("dataset.observations", summary.Observations),
		attribute.Int("dataset.events", summary.Events),
	)
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.Int("records", summary.Total),
		slog.Int("observations", summary.Observations),
		slog.Int("events", summary.Events),
		slog.Int("other", summary.Other),
		slog.Int("undated", summary.Undated),
		slog.Int("forecast_points", len(snap.Forecast.Points)),
		slog.Int("impact_rows", len(snap.Impact.Rows)),
		slog.Duration("duration", duration))

	return snap, nil
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	var (
		unified  Table
		forecast domain.ForecastTable
		impact   domain.ImpactMatrix
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := l.read(gctx, l.files.Unified)
		if err != nil {
			return err
		}
		if err := t.Require(UnifiedColumns...); err != nil {
			return unavailable(l.files.Unified, err)
		}
		unified = t
		return nil
	})

	g.Go(func() error {
		t, err := l.read(gctx, l.files.Forecast)
		if err != nil {
			return err
		}
		ft, err := ParseForecast(t)
		if err != nil {
			return unavailable(l.files.Forecast, err)
		}
		forecast = ft
		return nil
	})

	g.Go(func() error {
		t, err := l.read(gctx, l.files.Impact)
		if err != nil {
			return err
		}
		m, err := ParseImpact(t)
		if err != nil {
			return unavailable(l.files.Impact, err)
		}
		impact = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	observations, events := Partition(unified)
	summary := Summarize(unified, observations, events)
	l.logUndated(ctx, observations, events)

	return &Snapshot{
		Unified:      unified,
		Observations: observations,
		Events:       events,
		Forecast:     forecast,
		Impact:       impact,
		Summary:      summary,
		LoadedAt:     time.Now(),
	}, nil
}

// read loads one table unless the group was already cancelled
func (l *Loader) read(ctx context.Context, path string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, unavailable(path, err)
	}
	if path == "" {
		return Table{}, unavailable(path, fmt.Errorf("no file configured"))
	}

	t, err := ReadTableFile(path)
	if err != nil {
		return Table{}, unavailable(path, err)
	}
	if err := ctx.Err(); err != nil {
		return Table{}, unavailable(path, err)
	}

	l.logger.DebugContext(ctx, "table read",
		slog.String("path", path),
		slog.Int("columns", len(t.Header)),
		slog.Int("rows", len(t.Rows)))
	return t, nil
}

func (l *Loader) logUndated(ctx context.Context, groups ...[]domain.Record) {
	for _, records := range groups {
		for _, r := range records {
			if r.Year == nil {
				l.logger.DebugContext(ctx, "unparseable observation date",
					slog.String("record_type", string(r.RecordType)),
					slog.String("indicator_code", r.IndicatorCode),
					slog.String("observation_date", r.ObservationDate))
			}
		}
	}
}

// Summarize counts the unified rows by partition
func Summarize(t Table, observations, events []domain.Record) LoadSummary {
	s := LoadSummary{
		Total:        len(t.Rows),
		Observations: len(observations),
		Events:       len(events),
	}
	s.Other = s.Total - s.Observations - s.Events
	for _, group := range [][]domain.Record{observations, events} {
		for _, r := range group {
			if r.Year == nil {
				s.Undated++
			}
		}
	}
	return s
}
