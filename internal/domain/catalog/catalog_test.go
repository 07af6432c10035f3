package catalog

import (
	"errors"
	"fmt"
	"testing"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/infrastructure/storage"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func encode(t *testing.T, descs []types.PackageDescriptor) []byte {
	t.Helper()
	blob, err := EncodeManifest(descs)
	require.NoError(t, err)
	return blob
}

func TestLookupAllDescriptors(t *testing.T) {
	for _, n := range []int{0, 1, 5, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			descs := make([]types.PackageDescriptor, n)
			for i := range descs {
				descs[i] = types.PackageDescriptor{
					ContentHash: fmt.Sprintf("hash-%d", i),
					AssetName:   fmt.Sprintf("asset-%d", i),
					PackageName: fmt.Sprintf("pkg-%d", i%3),
				}
			}

			c := New(nil, nil)
			require.NoError(t, c.Load(encode(t, descs)))
			assert.Equal(t, n, c.Len())

			for _, want := range descs {
				got := c.Lookup(want.ContentHash)
				require.NotNil(t, got)
				assert.Equal(t, want.AssetName, got.AssetName)
				assert.Equal(t, want.PackageName, got.PackageName)
			}
			assert.Nil(t, c.Lookup("hash-unknown"))
		})
	}
}

func TestDuplicateHashFirstWins(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := New(logging.Wrap(zap.New(core)), nil)

	blob := encode(t, []types.PackageDescriptor{
		{ContentHash: "a", PackageName: "p1"},
		{ContentHash: "a", PackageName: "p2"},
		{ContentHash: "b", PackageName: "p3"},
	})

	require.NoError(t, c.Load(blob))
	assert.Equal(t, "p1", c.Lookup("a").PackageName)
	assert.Equal(t, "p3", c.Lookup("b").PackageName)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, logs.FilterMessage("Duplicate content hash in catalog").Len())
}

func TestLoadClearsPreviousState(t *testing.T) {
	c := New(nil, nil)
	require.NoError(t, c.Load(encode(t, []types.PackageDescriptor{{ContentHash: "old", PackageName: "p"}})))
	require.NoError(t, c.Load(encode(t, []types.PackageDescriptor{{ContentHash: "new", PackageName: "p"}})))

	assert.Nil(t, c.Lookup("old"))
	assert.NotNil(t, c.Lookup("new"))
}

func TestFatalLoadLeavesCatalogEmpty(t *testing.T) {
	noTable, err := msgpack.Marshal(map[string]int{"version": 1})
	require.NoError(t, err)

	tests := []struct {
		name    string
		blob    []byte
		wantErr error
	}{
		{"empty", nil, ErrEmptyManifest},
		{"garbage", []byte("not a manifest"), ErrCorruptManifest},
		{"no descriptor table", noTable, ErrDescriptorTableMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(nil, nil)
			require.NoError(t, c.Load(encode(t, []types.PackageDescriptor{{ContentHash: "x", PackageName: "p"}})))

			err := c.Load(tt.blob)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var catErr *Error
			assert.True(t, errors.As(err, &catErr))
			assert.Equal(t, 0, c.Len())
			assert.Nil(t, c.Lookup("x"))
		})
	}
}

func TestEmptyTableIsNotAnError(t *testing.T) {
	c := New(nil, nil)
	require.NoError(t, c.Load(encode(t, nil)))
	assert.Equal(t, 0, c.Len())
}

func TestDependenciesIndex(t *testing.T) {
	c := New(nil, nil)
	require.NoError(t, c.Load(encode(t, []types.PackageDescriptor{
		{ContentHash: "h1", PackageName: "characters", Dependencies: []string{"materials", "shaders"}},
		{ContentHash: "h2", PackageName: "characters", Dependencies: []string{"shaders", "audio"}},
		{ContentHash: "h3", PackageName: "materials", Dependencies: []string{"shaders"}},
		{ContentHash: "h4", PackageName: "shaders"},
	})))

	assert.Equal(t, []string{"materials", "shaders", "audio"}, c.Dependencies("characters"))
	assert.Equal(t, []string{"shaders"}, c.Dependencies("materials"))
	assert.Empty(t, c.Dependencies("shaders"))
	assert.Empty(t, c.Dependencies("unknown"))
}

func TestLookupReturnsCopy(t *testing.T) {
	c := New(nil, nil)
	require.NoError(t, c.Load(encode(t, []types.PackageDescriptor{
		{ContentHash: "h1", PackageName: "characters", Dependencies: []string{"materials"}},
	})))

	got := c.Lookup("h1")
	got.Dependencies[0] = "zzz"
	got.PackageName = "other"

	again := c.Lookup("h1")
	assert.Equal(t, "characters", again.PackageName)
	assert.Equal(t, []string{"materials"}, again.Dependencies)

	deps := c.Dependencies("characters")
	deps[0] = "zzz"
	assert.Equal(t, []string{"materials"}, c.Dependencies("characters"))
}

type memStore map[string]map[string][]byte

type memPkg struct {
	name   string
	assets map[string][]byte
}

func (s memStore) Open(name string) (storage.Package, error) {
	assets, ok := s[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &memPkg{name: name, assets: assets}, nil
}

func (p *memPkg) Name() string     { return p.name }
func (p *memPkg) Assets() []string { return nil }
func (p *memPkg) Close() error     { return nil }
func (p *memPkg) Asset(name string) ([]byte, error) {
	data, ok := p.assets[name]
	if !ok {
		return nil, storage.ErrAssetNotFound
	}
	return data, nil
}

func TestLoadFromStorage(t *testing.T) {
	blob := encode(t, []types.PackageDescriptor{{ContentHash: "h", PackageName: "p"}})

	t.Run("ok", func(t *testing.T) {
		c := New(nil, nil)
		store := memStore{paths.CatalogPackage: {paths.CatalogAsset: blob}}
		require.NoError(t, c.LoadFromStorage(store))
		assert.NotNil(t, c.Lookup("h"))
	})

	t.Run("root package missing", func(t *testing.T) {
		c := New(nil, nil)
		err := c.LoadFromStorage(memStore{})
		assert.ErrorIs(t, err, ErrRootPackageMissing)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("asset missing", func(t *testing.T) {
		c := New(nil, nil)
		err := c.LoadFromStorage(memStore{paths.CatalogPackage: {}})
		assert.ErrorIs(t, err, ErrDescriptorTableMissing)
		assert.Equal(t, 0, c.Len())
	})
}
