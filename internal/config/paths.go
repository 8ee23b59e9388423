package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved locations of every file the application reads
type Paths struct {
	DataDir      string
	UnifiedFile  string
	ForecastFile string
	ImpactFile   string
	LogFile      string
}

// GetPaths resolves the configured data files. Relative file names are
// joined to the data directory; a relative data directory is taken from the
// working directory.
func GetPaths(cfg *Config) (*Paths, error) {
	dataDir := cfg.Data.Dir
	if dataDir == "" {
		dataDir = "."
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	return &Paths{
		DataDir:      abs,
		UnifiedFile:  resolve(abs, cfg.Data.UnifiedFile),
		ForecastFile: resolve(abs, cfg.Data.ForecastFile),
		ImpactFile:   resolve(abs, cfg.Data.ImpactFile),
		LogFile:      cfg.Logging.FilePath,
	}, nil
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(dir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Missing lists the data files that do not exist
func (p *Paths) Missing() []string {
	var missing []string
	for _, f := range []string{p.UnifiedFile, p.ForecastFile, p.ImpactFile} {
		if !FileExists(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Path resolution complete",
		slog.Group("paths",
			slog.String("data_dir", p.DataDir),
			slog.String("unified", p.UnifiedFile),
			slog.String("forecast", p.ForecastFile),
			slog.String("impact", p.ImpactFile),
			slog.String("log_file", p.LogFile),
		),
		slog.Any("missing", p.Missing()),
	)
}
