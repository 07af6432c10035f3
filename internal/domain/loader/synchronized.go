package loader

import (
	"sync"

	"github.com/GriffinCanCode/assetpack/internal/domain/catalog"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
)

// Synchronized serialises every call into a Loader
type Synchronized struct {
	mu     sync.Mutex
	loader *Loader
}

// NewSynchronized wraps l
func NewSynchronized(l *Loader) *Synchronized {
	return &Synchronized{loader: l}
}

// Catalog returns the wrapped loader's catalog
func (s *Synchronized) Catalog() *catalog.Catalog {
	return s.loader.Catalog()
}

func (s *Synchronized) LoadByName(packageName string) storage.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.LoadByName(packageName)
}

func (s *Synchronized) LoadByDescriptor(desc *types.PackageDescriptor) storage.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.LoadByDescriptor(desc)
}

func (s *Synchronized) LoadByHash(contentHash string) storage.Package {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.LoadByHash(contentHash)
}

func (s *Synchronized) UnloadByName(packageName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader.UnloadByName(packageName)
}

func (s *Synchronized) UnloadByDescriptor(desc *types.PackageDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loader.UnloadByDescriptor(desc)
}

func (s *Synchronized) RefCount(packageName string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.RefCount(packageName)
}

func (s *Synchronized) Resident() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Resident()
}

func (s *Synchronized) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loader.Entries()
}

var (
	_ PackageLoader = (*Loader)(nil)
	_ PackageLoader = (*Synchronized)(nil)
)
