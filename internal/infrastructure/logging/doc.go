// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components take a *Logger and derive a named child so every line carries
// its origin (loader, catalog, update, remote, storage).
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	log := logger.Named("loader")
//	log.Warn("Package load failed", zap.String("package", name), zap.Error(err))
package logging
