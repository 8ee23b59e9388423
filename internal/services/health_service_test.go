package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fidash/internal/config"
	"fidash/internal/dataset"
	"fidash/internal/dataset/testutil"
	"fidash/pkg/contracts"
)

func TestHealthReadiness(t *testing.T) {
	tests := []struct {
		name    string
		store   func(t *testing.T) *dataset.Store
		load    bool
		status  string
		dataset string
	}{
		{
			name:    "before first load",
			store:   fixtureStore,
			status:  StatusNotReady,
			dataset: "pending",
		},
		{
			name:    "after successful load",
			store:   fixtureStore,
			load:    true,
			status:  StatusReady,
			dataset: "healthy",
		},
		{
			name: "after failed load",
			store: func(t *testing.T) *dataset.Store {
				files := testutil.WriteTables(t, testutil.UnifiedCSV, "", testutil.ImpactCSV)
				return dataset.NewStore(dataset.NewLoader(files, nil, nil))
			},
			load:    true,
			status:  StatusNotReady,
			dataset: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := tt.store(t)
			if tt.load {
				_, _ = store.Get(context.Background())
			}

			svc := NewHealthService(contracts.Version, nil, store, nil)
			status := svc.ReadinessCheck(context.Background())
			assert.Equal(t, tt.status, status.Status)
			assert.Equal(t, tt.status == StatusReady, svc.Ready())

			health, ok := status.Services["dataset"].(ServiceHealth)
			require.True(t, ok)
			assert.Equal(t, tt.dataset, health.Status)
		})
	}
}

func TestReadinessListsMissingFiles(t *testing.T) {
	cfg := config.Default()
	cfg.Data.Dir = t.TempDir()
	paths, err := config.GetPaths(cfg)
	require.NoError(t, err)

	svc := NewHealthService(contracts.Version, paths, nil, nil)
	status := svc.ReadinessCheck(context.Background())

	assert.Equal(t, StatusNotReady, status.Status)
	assert.Len(t, status.Services["missing_files"], 3)
}

func TestHealthAndLiveness(t *testing.T) {
	svc := NewHealthService("1.2.3", nil, fixtureStore(t), nil)

	health := svc.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, health.Status)
	assert.Equal(t, "1.2.3", health.Version)
	assert.Contains(t, health.Runtime, "go_version")

	live := svc.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, live.Status)

	assert.Equal(t, contracts.Version, svc.Version().Version)
}
