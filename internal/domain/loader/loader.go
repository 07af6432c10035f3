package loader

import (
	"slices"

	"github.com/GriffinCanCode/assetpack/internal/domain/catalog"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"go.uber.org/zap"
)

// PackageLoader is the loading surface shared by Loader and Synchronized
type PackageLoader interface {
	LoadByName(packageName string) storage.Package
	LoadByDescriptor(desc *types.PackageDescriptor) storage.Package
	LoadByHash(contentHash string) storage.Package
	UnloadByName(packageName string)
	UnloadByDescriptor(desc *types.PackageDescriptor)
	RefCount(packageName string) (int, bool)
	Resident() []string
}

// Config configures a Loader
type Config struct {
	// Catalog resolves hashes and, in transitive mode, package dependencies
	Catalog *catalog.Catalog
	// Pool recycles handles; defaults to a HandlePool of PoolSize
	Pool     Pool
	PoolSize int
	// Transitive walks dependencies of dependencies instead of one level
	Transitive bool
	Logger     *logging.Logger
	Metrics    *monitoring.Metrics
}

// Loader reference-counts packages opened from storage. It is not safe for
// concurrent use; wrap it in Synchronized when several goroutines load.
type Loader struct {
	store      storage.Storage
	catalog    *catalog.Catalog
	registry   *Registry
	pool       Pool
	transitive bool
	// retained holds, per descriptor, the dependency names each outstanding
	// LoadByDescriptor call retained
	retained   map[retainKey][][]string
	logger     *logging.Logger
	metrics    *monitoring.Metrics
}

type retainKey struct {
	hash        string
	packageName string
}

func keyOf(desc *types.PackageDescriptor) retainKey {
	return retainKey{hash: desc.ContentHash, packageName: desc.PackageName}
}

// New creates a loader over store
func New(store storage.Storage, cfg Config) *Loader {
	pool := cfg.Pool
	if pool == nil {
		pool = NewHandlePool(cfg.PoolSize, cfg.Metrics)
	}
	cat := cfg.Catalog
	if cat == nil {
		cat = catalog.New(cfg.Logger, cfg.Metrics)
	}

	return &Loader{
		store:      store,
		catalog:    cat,
		registry:   NewRegistry(),
		pool:       pool,
		transitive: cfg.Transitive,
		retained:   make(map[retainKey][][]string),
		logger:     logging.OrNop(cfg.Logger).Named("loader"),
		metrics:    cfg.Metrics,
	}
}

// Catalog returns the catalog the loader resolves against
func (l *Loader) Catalog() *catalog.Catalog {
	return l.catalog
}

// LoadByName retains packageName, opening it on first use. A failed open
// is cached as a nil package with one reference; it is not retried until
// every reference has been released.
func (l *Loader) LoadByName(packageName string) storage.Package {
	if h, ok := l.registry.Get(packageName); ok {
		h.refCount++
		l.metrics.RecordLoad(monitoring.LoadHit, l.registry.Len())
		return h.pkg
	}

	h := l.pool.Acquire()
	h.name = packageName
	h.refCount = 1

	pkg, err := l.store.Open(packageName)
	result := monitoring.LoadOpened
	if err != nil {
		result = monitoring.LoadFailed
		l.logger.Error("Package load failed",
			zap.String("package", packageName),
			zap.Error(err))
	} else {
		h.pkg = pkg
		l.logger.Debug("Package loaded", zap.String("package", packageName))
	}

	l.registry.Put(h)
	l.metrics.RecordLoad(result, l.registry.Len())
	return h.pkg
}

// LoadByDescriptor retains the descriptor's package and its dependencies
// and returns the descriptor's own package. A nil descriptor is a no-op.
// The dependency names are recorded so the matching UnloadByDescriptor
// releases the same set even if the catalog or descriptor changes.
func (l *Loader) LoadByDescriptor(desc *types.PackageDescriptor) storage.Package {
	if desc == nil {
		return nil
	}

	deps := l.dependencyNames(desc)
	pkg := l.LoadByName(desc.PackageName)
	for _, dep := range deps {
		l.LoadByName(dep)
	}

	key := keyOf(desc)
	l.retained[key] = append(l.retained[key], deps)
	return pkg
}

// LoadByHash looks the hash up in the catalog and loads the descriptor
func (l *Loader) LoadByHash(contentHash string) storage.Package {
	desc := l.catalog.Lookup(contentHash)
	if desc == nil {
		l.logger.Warn("Content hash not in catalog", zap.String("hash", contentHash))
		return nil
	}
	return l.LoadByDescriptor(desc)
}

// UnloadByName releases one reference. At zero the package is closed, the
// handle reset and pooled, and the entry removed.
func (l *Loader) UnloadByName(packageName string) {
	h, ok := l.registry.Get(packageName)
	if !ok || h.refCount <= 0 {
		return
	}

	h.refCount--
	if h.refCount > 0 {
		return
	}

	if h.pkg != nil {
		if err := h.pkg.Close(); err != nil {
			l.logger.Warn("Package close failed",
				zap.String("package", packageName),
				zap.Error(err))
		}
	}
	h.reset()
	l.pool.Release(h)
	l.registry.Remove(packageName)

	l.metrics.RecordUnload(l.registry.Len())
	l.logger.Debug("Package unloaded", zap.String("package", packageName))
}

// UnloadByDescriptor releases exactly the names one earlier
// LoadByDescriptor of the same descriptor retained. Without an outstanding
// load it does nothing.
func (l *Loader) UnloadByDescriptor(desc *types.PackageDescriptor) {
	if desc == nil {
		return
	}

	key := keyOf(desc)
	loads := l.retained[key]
	if len(loads) == 0 {
		l.logger.Warn("Descriptor unloaded without a matching load",
			zap.String("hash", desc.ContentHash),
			zap.String("package", desc.PackageName))
		return
	}
	deps := loads[len(loads)-1]
	if len(loads) == 1 {
		delete(l.retained, key)
	} else {
		l.retained[key] = loads[:len(loads)-1]
	}

	l.UnloadByName(desc.PackageName)
	for _, dep := range deps {
		l.UnloadByName(dep)
	}
}

// RefCount returns the reference count of a resident package
func (l *Loader) RefCount(packageName string) (int, bool) {
	h, ok := l.registry.Get(packageName)
	if !ok {
		return 0, false
	}
	return h.refCount, true
}

// Resident returns the names currently in the registry, sorted
func (l *Loader) Resident() []string {
	return l.registry.Names()
}

// Entry describes one registry entry
type Entry struct {
	Name     string `json:"name"`
	RefCount int    `json:"ref_count"`
	Failed   bool   `json:"failed"`
}

// Entries returns every registry entry, sorted by name
func (l *Loader) Entries() []Entry {
	names := l.registry.Names()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		h, _ := l.registry.Get(name)
		out = append(out, Entry{Name: name, RefCount: h.refCount, Failed: h.pkg == nil})
	}
	return out
}

// dependencyNames lists the names retained alongside desc.PackageName.
// The flat walk returns a copy of desc.Dependencies. The transitive walk
// follows the catalog's per-package dependency index, visiting each name
// once so cyclic graphs terminate.
func (l *Loader) dependencyNames(desc *types.PackageDescriptor) []string {
	if !l.transitive {
		return slices.Clone(desc.Dependencies)
	}

	visited := map[string]bool{desc.PackageName: true}
	var out []string
	queue := append([]string(nil), desc.Dependencies...)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true
		out = append(out, name)
		queue = append(queue, l.catalog.Dependencies(name)...)
	}
	return out
}
