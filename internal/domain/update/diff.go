package update

import (
	"fmt"
	"sort"

	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/bmatcuk/doublestar/v4"
)

// Diff returns the packages present in remote whose local hash differs or
// is missing, sorted by name. Packages only present locally are ignored.
func Diff(local, remote types.ContentManifest) []string {
	var stale []string
	for name, hash := range remote {
		if have, ok := local[name]; !ok || have != hash {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	return stale
}

// Exclusions filters package names with doublestar glob patterns
type Exclusions struct {
	patterns []string
}

// NewExclusions validates patterns
func NewExclusions(patterns []string) (*Exclusions, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid exclusion pattern %q", p)
		}
	}
	return &Exclusions{patterns: patterns}, nil
}

// Match reports whether name matches any pattern
func (e *Exclusions) Match(name string) bool {
	if e == nil {
		return false
	}
	for _, p := range e.patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Filter splits names into kept and excluded, preserving order
func (e *Exclusions) Filter(names []string) (kept, excluded []string) {
	for _, name := range names {
		if e.Match(name) {
			excluded = append(excluded, name)
			continue
		}
		kept = append(kept, name)
	}
	return kept, excluded
}
