// Package main is the startup entry point for content-driven applications.
//
// It runs the update check against the configured update server, loads the
// package catalog and installs the process-wide loader. When METRICS_ADDR is
// set the admin endpoint keeps serving until the process is signalled.
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional TOML file (-config), whose keys win over the environment
//   - -dev forces the development logger
//
// Usage:
//
//	./launcher -config launcher.toml
//	UPDATE_ENABLED=false ./launcher -dev
//
// Exit codes:
//   - 0: application started
//   - 1: configuration or startup failure
//   - 2: blocked, e.g. a major update is required
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
