package catalog

import (
	"slices"
	"sync"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"go.uber.org/zap"
)

// index is one immutable generation of the catalog
type index struct {
	byHash    map[string]*types.PackageDescriptor
	byPackage map[string][]string
}

// Catalog maps content hashes to descriptors. Each Load builds a complete
// new index and swaps it in, so readers never see a partial catalog.
type Catalog struct {
	mu      sync.RWMutex
	current *index

	logger  *logging.Logger
	metrics *monitoring.Metrics
}

// New creates an empty catalog
func New(logger *logging.Logger, metrics *monitoring.Metrics) *Catalog {
	return &Catalog{
		current: &index{},
		logger:  logging.OrNop(logger).Named("catalog"),
		metrics: metrics,
	}
}

// Load replaces the catalog with the descriptors in manifestBytes. A
// repeated content hash keeps the first descriptor and logs the later one.
// On a fatal error the catalog is left empty.
func (c *Catalog) Load(manifestBytes []byte) error {
	c.swap(&index{})

	descs, err := DecodeManifest(manifestBytes)
	if err != nil {
		c.logger.Error("Catalog manifest rejected", zap.Error(err))
		return err
	}

	next := &index{
		byHash:    make(map[string]*types.PackageDescriptor, len(descs)),
		byPackage: make(map[string][]string),
	}
	duplicates := 0
	for i := range descs {
		desc := &descs[i]
		if _, exists := next.byHash[desc.ContentHash]; exists {
			duplicates++
			c.logger.Error("Duplicate content hash in catalog",
				zap.String("hash", desc.ContentHash),
				zap.String("asset", desc.AssetName),
				zap.String("package", desc.PackageName))
			continue
		}
		next.byHash[desc.ContentHash] = desc
		next.byPackage[desc.PackageName] = appendMissing(next.byPackage[desc.PackageName], desc.Dependencies)
	}

	c.swap(next)
	c.metrics.SetCatalog(len(next.byHash), duplicates)
	c.logger.Info("Catalog loaded",
		zap.Int("descriptors", len(next.byHash)),
		zap.Int("duplicates", duplicates))
	return nil
}

// LoadFromStorage reads the manifest from the well-known root package
func (c *Catalog) LoadFromStorage(store storage.Storage) error {
	c.swap(&index{})

	pkg, err := store.Open(paths.CatalogPackage)
	if err != nil {
		c.logger.Error("Catalog root package unavailable", zap.Error(err))
		return &Error{Op: "open", Err: joinCause(ErrRootPackageMissing, err)}
	}
	defer pkg.Close()

	blob, err := pkg.Asset(paths.CatalogAsset)
	if err != nil {
		c.logger.Error("Catalog descriptor table unavailable", zap.Error(err))
		return &Error{Op: "open", Err: joinCause(ErrDescriptorTableMissing, err)}
	}
	return c.Load(blob)
}

// Lookup returns a copy of the descriptor for contentHash, or nil.
// Changing the copy does not change the catalog.
func (c *Catalog) Lookup(contentHash string) *types.PackageDescriptor {
	c.mu.RLock()
	desc, ok := c.current.byHash[contentHash]
	c.mu.RUnlock()
	if !ok {
		return nil
	}

	out := *desc
	out.Dependencies = slices.Clone(desc.Dependencies)
	return &out
}

// Len returns the number of descriptors
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.current.byHash)
}

// Dependencies returns the union of the dependency lists of every
// descriptor stored in packageName, in first-seen order.
func (c *Catalog) Dependencies(packageName string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.current.byPackage[packageName])
}

func (c *Catalog) swap(next *index) {
	c.mu.Lock()
	c.current = next
	c.mu.Unlock()
}

func appendMissing(dst, src []string) []string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if d == s {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}
