package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"fidash/internal/config"
	"fidash/internal/dataset"
	"fidash/internal/dataset/testutil"
	"fidash/internal/infrastructure"
)

// failingProvider always reports the dataset as unavailable
type failingProvider struct{}

func (failingProvider) Get(context.Context) (*dataset.Snapshot, error) {
	return nil, fmt.Errorf("read forecast: %w", dataset.ErrDataUnavailable)
}

func fixtureStore(t *testing.T) *dataset.Store {
	t.Helper()
	return dataset.NewStore(dataset.NewLoader(testutil.WriteFixtures(t), nil, nil))
}

func newDashboard(t *testing.T, metrics *infrastructure.BusinessMetrics) *DashboardService {
	t.Helper()
	return NewDashboardService(fixtureStore(t), config.Default().Dashboard, metrics, nil)
}

func manualMetrics(t *testing.T) (*infrastructure.BusinessMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	metrics, err := infrastructure.CreateBusinessMetrics(provider.Meter("test"))
	require.NoError(t, err)
	return metrics, reader
}

// counterByAttr sums the data points of a counter whose attribute key has
// the given value
func counterByAttr(t *testing.T, reader *sdkmetric.ManualReader, name, key, value string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
					total += dp.Value
				}
			}
		}
	}
	return total
}
