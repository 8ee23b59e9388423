package contracts

import "runtime"

const (
	// Version is the dashboard release reported by /api/version and health
	Version = "0.3.0"

	// DataFormatVersion is the version of the unified data table layout
	DataFormatVersion = "unified-v2"

	// APIVersion is the version of the JSON API
	APIVersion = "v1"
)

// Overridden with -ldflags "-X fidash/pkg/contracts.GitCommit=..."
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the /api/version response body
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	DataFormat string `json:"data_format"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
}

// GetVersionInfo returns the build and format versions of this binary
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:    Version,
		APIVersion: APIVersion,
		DataFormat: DataFormatVersion,
		BuildTime:  BuildTime,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
	}
}
