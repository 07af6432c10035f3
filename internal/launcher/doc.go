// Package launcher wires configuration into a running update check and
// package loader.
//
// Launcher Lifecycle:
//  1. Build logger and Prometheus registry
//  2. Open package storage over the persistent and bundled roots
//  3. Build local and remote sources and the update orchestrator
//  4. Optionally serve the admin endpoint
//  5. Run the update check; on Starting, load the catalog from storage,
//     install the process-wide loader and call the application hook
//  6. Close shuts the admin endpoint down
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	l, err := launcher.New(cfg, launcher.WithApplication(run))
//	res, err := l.Run(ctx)
//	defer l.Close()
package launcher
