// Package providers groups the collaborators the update orchestrator talks
// to.
//
// Available Providers:
//   - local: version and content manifest of the installed content, read
//     from the persistent root with the bundled root as fallback
//   - remote: version, content manifest and package downloads from the
//     update server
//
// Both satisfy the interfaces declared in internal/domain/update; the
// launcher wires them together.
package providers
