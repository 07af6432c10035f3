/*
Package resilience provides a circuit breaker for calls to the update server.

# Overview

A client that cannot reach its update server should fail fast instead of
waiting out every timeout on each request. The breaker opens after a run of
failures, rejects calls while open, and lets a bounded number of trial calls
through once its timeout elapses.

# Usage

	breaker := resilience.New("update-server", resilience.Policy{
		Cooldown: 30 * time.Second,
		Trip: func(t resilience.Tally) bool {
			return t.FailureStreak >= 3
		},
	})

	body, err := resilience.Call(breaker, func() ([]byte, error) {
		return fetch(ctx, url)
	})
	if errors.Is(err, resilience.ErrOpen) {
		// server considered down
	}
*/
package resilience
