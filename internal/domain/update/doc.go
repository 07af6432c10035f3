// Package update drives the startup update check.
//
// The Orchestrator is an explicit state machine. Each transition happens
// only after the operation that triggers it settles, and no two fetches run
// at once:
//
//	Init -> FetchingLocalVersion -> FetchingRemoteVersion -> Negotiating
//	     Negotiating -> ComparingContent -> Starting -> Started
//	     Negotiating -> Starting -> Started
//	     Negotiating -> Blocked (major update)
//
// A disabled orchestrator goes straight from Init to Starting. An
// unreachable update server never blocks startup: the remote version falls
// back to the local one. Failures while comparing or applying content do
// block, and are returned to the caller together with the Result.
//
// Collaborators:
//   - LocalVersionReader / RemoteVersionFetcher: version descriptors
//   - ManifestSource: package name to content hash maps, local and remote
//   - Updater: applies the stale package list (optional)
//   - VersionWriter: persists the remote version once content is current (optional)
//   - Starter: hands control to the application
package update
