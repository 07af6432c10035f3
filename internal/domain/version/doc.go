// Package version classifies the gap between a local and a remote content
// version.
//
// Versions are compared numerically on their first two dot-separated
// components, MAJOR and MINOR. Anything after MINOR (PATCH, build tags) is
// ignored and can never trigger an update.
//
// Outcomes:
//   - UpToDate: remote is not ahead on MAJOR or MINOR
//   - IncrementalRequired: same MAJOR, remote MINOR ahead
//   - MajorRequired: remote MAJOR ahead, a full reinstall is needed
//   - Indeterminate: either side failed to parse; callers proceed
//
// Example Usage:
//
//	n := version.NewNegotiator(logger)
//	switch n.Classify("1.2", "1.3") {
//	case version.IncrementalRequired:
//		// compare content manifests
//	}
package version
