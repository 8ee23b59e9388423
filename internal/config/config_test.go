package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various sources
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "data/processed", cfg.Data.Dir)
				assert.Equal(t, 70.0, cfg.Dashboard.Target)
				assert.Equal(t, 2011, cfg.Dashboard.DefaultFrom)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"FIDASH_SERVER_PORT":               "9090",
				"FIDASH_SERVER_READ_TIMEOUT":       "5s",
				"FIDASH_SECURITY_ALLOWED_ORIGINS":  "http://a.example,http://b.example",
				"FIDASH_LOGGING_LEVEL":             "debug",
				"FIDASH_TELEMETRY_TRACE_EXPORTER":  "stdout",
				"FIDASH_DASHBOARD_GAUGE_THRESHOLD": "55",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
				assert.Equal(t, 55.0, cfg.Dashboard.GaugeThreshold)
			},
		},
		{
			name: "yaml file overlays defaults",
			file: "server:\n  port: 7070\ndata:\n  dir: /srv/data\n  unified_file: unified.csv\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "/srv/data", cfg.Data.Dir)
				assert.Equal(t, "unified.csv", cfg.Data.UnifiedFile)
				assert.Equal(t, "forecast_2025_2027.csv", cfg.Data.ForecastFile)
			},
		},
		{
			name: "environment wins over file",
			env:  map[string]string{"FIDASH_SERVER_PORT": "6060"},
			file: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 6060, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"FIDASH_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"FIDASH_TELEMETRY_TRACE_EXPORTER": "otlp"},
			wantErr: true,
		},
		{
			name:    "inverted default range",
			env:     map[string]string{"FIDASH_DASHBOARD_DEFAULT_FROM": "2030"},
			wantErr: true,
		},
		{
			name:    "missing explicit file",
			env:     map[string]string{"FIDASH_CONFIG": "/nonexistent/fidash.yaml"},
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			file:    "server: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// an explicit, possibly empty, file keeps a config.yaml in the
			// working directory from leaking in
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.file), 0644))
			t.Setenv("FIDASH_CONFIG", configPath)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestServerAddress(t *testing.T) {
	assert.Equal(t, ":8080", Default().Server.Address())
	assert.Equal(t, "127.0.0.1:9000", ServerConfig{Host: "127.0.0.1", Port: 9000}.Address())
}

func TestGetPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Data.Dir = dir
	cfg.Data.ImpactFile = filepath.Join(dir, "elsewhere", "impact.csv")

	require.NoError(t, os.WriteFile(filepath.Join(dir, cfg.Data.UnifiedFile), []byte("x"), 0644))

	paths, err := GetPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ethiopia_fi_unified_data_enriched.csv"), paths.UnifiedFile)
	assert.Equal(t, filepath.Join(dir, "forecast_2025_2027.csv"), paths.ForecastFile)
	assert.Equal(t, cfg.Data.ImpactFile, paths.ImpactFile)
	assert.Equal(t, []string{paths.ForecastFile, paths.ImpactFile}, paths.Missing())
	assert.True(t, FileExists(paths.UnifiedFile))
	assert.False(t, FileExists(dir))
}
