// Package id issues sortable identifiers for update runs and downloads.
//
// An identifier is a prefix, an underscore and a ULID, e.g.
// "run_01HZX3M4Q6W2T9B8K7C5D1E0FA". The ULID timestamp orders runs logged
// across restarts and can be recovered with Split.
package id

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RunID identifies one update orchestrator run
type RunID string

// DownloadID identifies one package download
type DownloadID string

const (
	RunPrefix      = "run"
	DownloadPrefix = "dl"

	separator = "_"
)

// Generator issues strictly increasing ULIDs
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewGenerator creates a generator seeded from crypto/rand
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Next returns the next ULID
func (g *Generator) Next() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// Prefixed returns prefix_ULID
func (g *Generator) Prefixed(prefix string) string {
	return prefix + separator + g.Next().String()
}

var shared = sync.OnceValue(NewGenerator)

// NewRunID issues a run identifier
func NewRunID() RunID {
	return RunID(shared().Prefixed(RunPrefix))
}

// NewDownloadID issues a download identifier
func NewDownloadID() DownloadID {
	return DownloadID(shared().Prefixed(DownloadPrefix))
}

func (id RunID) String() string      { return string(id) }
func (id DownloadID) String() string { return string(id) }

// Time returns when the run started
func (id RunID) Time() (time.Time, error) {
	_, u, err := Split(string(id))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

// Split separates a prefixed identifier. A bare ULID has an empty prefix.
func Split(s string) (string, ulid.ULID, error) {
	prefix, raw := "", s
	if i := strings.LastIndex(s, separator); i >= 0 {
		prefix, raw = s[:i], s[i+1:]
	}
	u, err := ulid.ParseStrict(raw)
	if err != nil {
		return "", ulid.ULID{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return prefix, u, nil
}

// IsValid reports whether s is a bare or prefixed ULID
func IsValid(s string) bool {
	_, _, err := Split(s)
	return err == nil
}
