package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"fidash/internal/config"
	"fidash/internal/infrastructure"
	"fidash/pkg/contracts"
)

// LoadState reports the state of the memoized dataset
type LoadState interface {
	Loaded() bool
	Attempted() bool
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	paths     *config.Paths
	store     LoadState
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

// Health states
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusAlive    = "alive"
)

// NewHealthService creates a health service. paths may be nil when the data
// files are not resolved from configuration.
func NewHealthService(version string, paths *config.Paths, store LoadState, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		paths:     paths,
		store:     store,
		startTime: time.Now(),
		logger:    infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"uptime":     time.Since(hs.startTime).Round(time.Second).String(),
		},
		Services: map[string]interface{}{
			"dataset": hs.datasetHealth(),
		},
	}

	hs.logger.DebugContext(ctx, "health check completed", slog.String("status", status.Status))
	return status
}

// ReadinessCheck reports ready only once the dataset has been loaded
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"dataset": hs.datasetHealth(),
		},
	}
	if !hs.Ready() {
		status.Status = StatusNotReady
	}
	if hs.paths != nil {
		if missing := hs.paths.Missing(); len(missing) > 0 {
			status.Services["missing_files"] = missing
		}
	}

	hs.logger.DebugContext(ctx, "readiness check completed", slog.String("status", status.Status))
	return status
}

// Ready reports whether the dataset snapshot is available
func (hs *HealthService) Ready() bool {
	return hs.store != nil && hs.store.Loaded()
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// Version returns build information
func (hs *HealthService) Version() contracts.VersionInfo {
	return contracts.GetVersionInfo()
}

func (hs *HealthService) datasetHealth() ServiceHealth {
	switch {
	case hs.store == nil || !hs.store.Attempted():
		return ServiceHealth{Status: "pending", Message: "dataset not loaded yet"}
	case hs.store.Loaded():
		return ServiceHealth{Status: "healthy", Uptime: time.Since(hs.startTime).Round(time.Second).String()}
	default:
		return ServiceHealth{Status: "unhealthy", Message: "dataset load failed"}
	}
}
