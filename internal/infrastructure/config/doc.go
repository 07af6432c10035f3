// Package config provides 12-factor configuration for the asset runtime.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional TOML file can be layered on top.
//
// Configuration Sections:
//   - Storage: bundled and persistent package roots
//   - Loader: dependency walk mode and handle pool size
//   - Update: update checking switch, server base URL, HTTP tuning
//   - Logging: log level and output format
//   - Metrics: optional Prometheus listen address
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	if !cfg.Update.Enabled {
//	    // skip straight to startup
//	}
//
// Environment Variables:
//   - ASSET_ROOT, ASSET_PERSISTENT_ROOT
//   - LOADER_TRANSITIVE, LOADER_POOL_SIZE
//   - UPDATE_ENABLED, UPDATE_BASE_URL, UPDATE_TIMEOUT, UPDATE_RETRIES
//   - UPDATE_RATE_LIMIT, UPDATE_CONCURRENCY, UPDATE_EXCLUDE, UPDATE_SCAN_LOCAL
//   - LOG_LEVEL, LOG_DEV, METRICS_ADDR
package config
