package loader

import (
	"sync"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"
)

var (
	defaultMu     sync.Mutex
	defaultLoader *Synchronized
)

// Init installs the process-wide loader, replacing any previous one.
// Packages still held by a replaced loader stay open until released
// through it.
func Init(store storage.Storage, cfg Config) *Synchronized {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLoader = NewSynchronized(New(store, cfg))
	return defaultLoader
}

// Default returns the process-wide loader, or nil before Init
func Default() *Synchronized {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultLoader
}

// Reset forgets the process-wide loader. Tests call it between cases.
func Reset() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLoader = nil
}
