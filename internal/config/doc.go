// Package config provides centralized configuration management for the
// dashboard. It loads configuration from multiple sources, validates it and
// resolves the locations of the data files.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (config.yaml or configs/config.yaml, or the
//	   path in FIDASH_CONFIG)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern FIDASH_<SECTION>_<FIELD>:
//
//	FIDASH_SERVER_PORT=8080
//	FIDASH_LOGGING_LEVEL=debug
//	FIDASH_DATA_DIR=/srv/fidash/data/processed
//	FIDASH_TELEMETRY_TRACE_EXPORTER=stdout
//	FIDASH_DASHBOARD_TARGET=70
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := config.GetPaths(cfg)
package config
