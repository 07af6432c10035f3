// Package remote talks to the update server.
//
// Components:
//   - Client: resty over a go-retryablehttp transport, guarded by a circuit
//     breaker and a token bucket rate limiter
//   - Source: fetches the remote version descriptor and content manifest
//   - Downloader: fetches stale packages into the persistent root with
//     bounded parallelism, verifying each content hash before an atomic
//     rename
//
// Every failed request surfaces as a *FetchError carrying the resource,
// the URL and, for HTTP failures, the status code.
//
// Example Usage:
//
//	client, err := remote.NewClient(remote.ClientConfig{Timeout: 10 * time.Second})
//	src := remote.NewSource(client, "https://cdn.example.com/game")
//	v, err := src.FetchRemoteVersion(ctx)
package remote
