package loader

import "github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"

// Handle is a pooled registry entry for one resident package. A nil
// backing package records a failed load.
type Handle struct {
	name     string
	pkg      storage.Package
	refCount int
}

// Name returns the package name the handle is registered under
func (h *Handle) Name() string { return h.name }

// Package returns the backing package, nil after a failed load
func (h *Handle) Package() storage.Package { return h.pkg }

// RefCount returns the number of outstanding retains
func (h *Handle) RefCount() int { return h.refCount }

// reset returns the handle to its neutral state
func (h *Handle) reset() {
	h.name = ""
	h.pkg = nil
	h.refCount = 0
}

// neutral reports whether the handle carries no state
func (h *Handle) neutral() bool {
	return h.name == "" && h.pkg == nil && h.refCount == 0
}
