// Package http serves the read-only admin endpoint.
//
// Routes:
//   - GET /health: liveness plus catalog and registry sizes
//   - GET /packages: every registry entry with its reference count
//   - GET /packages/*name: one registry entry
//   - GET /update: the most recent update run
//   - GET /metrics: Prometheus exposition
package http
