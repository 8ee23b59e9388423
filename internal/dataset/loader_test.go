package dataset_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fidash/internal/dataset"
	"fidash/internal/dataset/testutil"
	"fidash/pkg/contracts/domain"
)

func TestLoaderLoad(t *testing.T) {
	snap := testutil.MustLoad(t)

	assert.Equal(t, dataset.LoadSummary{
		Total:        33,
		Observations: 22,
		Events:       10,
		Other:        1,
		Undated:      1,
	}, snap.Summary)

	assert.Len(t, snap.Forecast.Points, 24)
	assert.Equal(t, []string{"ACC_OWNERSHIP", "USG_DIGITAL_PAYMENT"}, snap.Forecast.Indicators())
	assert.Len(t, snap.Impact.Rows, 6)
	assert.False(t, snap.LoadedAt.IsZero())

	first := snap.Forecast.Points[0]
	assert.Equal(t, domain.ScenarioBase, first.Scenario)
	require.NotNil(t, first.CILower)
	assert.InDelta(t, 42.9, *first.CILower, 1e-9)
	assert.Nil(t, snap.Forecast.Points[3].CIUpper)
}

func TestLoaderLoadFailures(t *testing.T) {
	tests := []struct {
		name     string
		unified  string
		forecast string
		impact   string
	}{
		{"missing unified file", "", testutil.ForecastCSV, testutil.ImpactCSV},
		{"missing forecast file", testutil.UnifiedCSV, "", testutil.ImpactCSV},
		{"missing impact file", testutil.UnifiedCSV, testutil.ForecastCSV, ""},
		{"unified without required columns", "record_type,value_numeric\nobservation,1\n", testutil.ForecastCSV, testutil.ImpactCSV},
		{"ragged unified rows", "record_type,observation_date,indicator_code,pillar,gender,unit,value_numeric\nobservation,2024\n", testutil.ForecastCSV, testutil.ImpactCSV},
		{"unknown forecast scenario", testutil.UnifiedCSV, "indicator_code,year,scenario,value\nACC_OWNERSHIP,2025,wild,1\n", testutil.ImpactCSV},
		{"non numeric forecast value", testutil.UnifiedCSV, "indicator_code,year,scenario,value\nACC_OWNERSHIP,2025,base,high\n", testutil.ImpactCSV},
		{"single column impact matrix", testutil.UnifiedCSV, testutil.ForecastCSV, "event\nTelebirr\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := testutil.WriteTables(t, tt.unified, tt.forecast, tt.impact)

			snap, err := dataset.NewLoader(files, nil, nil).Load(context.Background())
			require.Error(t, err)
			assert.Nil(t, snap)
			assert.True(t, errors.Is(err, dataset.ErrDataUnavailable))
		})
	}
}

func TestLoaderCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := dataset.NewLoader(testutil.WriteFixtures(t), nil, nil).Load(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, dataset.ErrDataUnavailable)
}
