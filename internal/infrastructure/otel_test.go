package infrastructure

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"fidash/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// manualMetrics returns business metrics backed by a reader the test can collect
func manualMetrics(t *testing.T) (*BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := CreateBusinessMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumOf(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	s, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected int64 sum, got %T", data)
	var total int64
	for _, dp := range s.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOTelInitialization(t *testing.T) {
	tests := []struct {
		name       string
		cfg        config.TelemetryConfig
		wantTrace  bool
		wantMetric bool
		wantErr    bool
	}{
		{
			name:       "stdout traces and prometheus",
			cfg:        config.TelemetryConfig{Environment: "test", TraceExporter: "stdout", MetricExporter: "prometheus", SampleRatio: 1},
			wantTrace:  true,
			wantMetric: true,
		},
		{
			name: "everything disabled",
			cfg:  config.TelemetryConfig{TraceExporter: "none", MetricExporter: "none"},
		},
		{
			name:    "unknown trace exporter",
			cfg:     config.TelemetryConfig{TraceExporter: "jaeger", MetricExporter: "none"},
			wantErr: true,
		},
		{
			name:    "unknown metric exporter",
			cfg:     config.TelemetryConfig{TraceExporter: "none", MetricExporter: "statsd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, quietLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantTrace, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetric, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetric, providers.PrometheusHTTP != nil)

			_, err = CreateBusinessMetrics(providers.Meter)
			assert.NoError(t, err)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

func TestPrometheusEndpoint(t *testing.T) {
	providers, err := InitializeOTel(config.TelemetryConfig{TraceExporter: "none", MetricExporter: "prometheus"}, quietLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	RecordExport(context.Background(), metrics, "forecast", "csv", 128)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "dashboard_exports_total")
}

func TestRecordDatasetLoad(t *testing.T) {
	metrics, reader := manualMetrics(t)
	ctx := context.Background()

	RecordDatasetLoad(ctx, metrics, 20*time.Millisecond, 33, nil)
	RecordDatasetLoad(ctx, metrics, 5*time.Millisecond, 0, errors.New("missing file"))

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["dataset_loads_total"]))

	hist, ok := data["dataset_load_duration_seconds"].(metricdata.Histogram[float64])
	require.True(t, ok)
	var count uint64
	for _, dp := range hist.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)

	gauge, ok := data["dataset_records"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(33), gauge.DataPoints[0].Value)
}

func TestRecordHelpers(t *testing.T) {
	metrics, reader := manualMetrics(t)
	ctx := context.Background()

	RecordViewRender(ctx, metrics, "overview", nil)
	RecordViewRender(ctx, metrics, "trends", errors.New("boom"))
	RecordChartRender(ctx, metrics, "ownership")
	RecordExport(ctx, metrics, "impact", "xlsx", 512)

	data := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, data["dashboard_view_renders_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["dashboard_chart_renders_total"]))
	assert.Equal(t, int64(1), sumOf(t, data["dashboard_exports_total"]))
	assert.Equal(t, int64(512), sumOf(t, data["dashboard_export_bytes_total"]))
}

func TestRecordHelpersNilMetrics(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordDatasetLoad(ctx, nil, time.Second, 1, nil)
		RecordViewRender(ctx, nil, "overview", nil)
		RecordChartRender(ctx, nil, "trends")
		RecordExport(ctx, nil, "trends", "csv", 1)
	})
}

func TestSpanHelpers(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	ctx, span := tp.Tracer("test").Start(context.Background(), "dataset.Load")
	traceID := TraceIDFromContext(ctx)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	RecordError(ctx, errors.New("unreadable"))
	RecordError(ctx, nil)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "unreadable", spans[0].Status.Description)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "exception", spans[0].Events[0].Name)

	assert.Empty(t, TraceIDFromContext(context.Background()))
}
