// Package api exposes the optional admin endpoint of a running launcher.
//
// Subpackages:
//   - http: gin handlers and router for health, packages, update status and metrics
//   - middleware: CORS, rate limiting and request logging
package api
