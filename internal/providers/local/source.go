package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/shared/codec"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/GriffinCanCode/assetpack/internal/shared/utils"
	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"
)

// ErrNotFound is returned when no root holds the requested descriptor
var ErrNotFound = errors.New("local descriptor not found")

// Options configures a Source
type Options struct {
	// Scan computes the content manifest by hashing package files
	Scan   bool
	Hasher *utils.Hasher
	Logger *logging.Logger
}

// Source serves local version and content descriptors
type Source struct {
	roots  paths.Roots
	scan   bool
	hasher *utils.Hasher
	logger *logging.Logger
}

// NewSource creates a source over roots
func NewSource(roots paths.Roots, opts Options) *Source {
	hasher := opts.Hasher
	if hasher == nil {
		hasher = utils.DefaultHasher()
	}
	return &Source{
		roots:  roots,
		scan:   opts.Scan,
		hasher: hasher,
		logger: logging.OrNop(opts.Logger).Named("local"),
	}
}

// ReadLocalVersion reads version.json from the first root holding it
func (s *Source) ReadLocalVersion(ctx context.Context) (types.VersionDescriptor, error) {
	data, path, err := s.readFirst(paths.VersionFile)
	if err != nil {
		return types.VersionDescriptor{}, err
	}
	v, err := codec.DecodeVersion(data)
	if err != nil {
		return types.VersionDescriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	s.logger.Debug("Local version read", zap.String("path", path), zap.String("version", v.Version))
	return v, nil
}

// WriteLocalVersion persists v into the persistent root
func (s *Source) WriteLocalVersion(ctx context.Context, v types.VersionDescriptor) error {
	data, err := codec.EncodeVersion(v)
	if err != nil {
		return fmt.Errorf("failed to encode version: %w", err)
	}
	path := s.roots.PersistentFile(paths.VersionFile)
	if err := utils.WriteFileAtomic(path, data, 0o644); err != nil {
		return err
	}
	s.logger.Info("Local version written", zap.String("path", path), zap.String("version", v.Version))
	return nil
}

// ContentManifest returns the installed package name to hash map
func (s *Source) ContentManifest(ctx context.Context) (types.ContentManifest, error) {
	if s.scan {
		return s.Scan(ctx)
	}

	data, path, err := s.readFirst(paths.ContentManifestFile)
	if err != nil {
		return nil, err
	}
	m, err := codec.DecodeContentManifest(data, codec.FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// WriteContentManifest persists m into the persistent root
func (s *Source) WriteContentManifest(ctx context.Context, m types.ContentManifest) error {
	data, err := codec.EncodeContentManifest(m, codec.FormatJSON)
	if err != nil {
		return fmt.Errorf("failed to encode content manifest: %w", err)
	}
	return utils.WriteFileAtomic(s.roots.PersistentFile(paths.ContentManifestFile), data, 0o644)
}

// Scan hashes every package file under the roots. Descriptor files at the
// top of a root are skipped.
func (s *Source) Scan(ctx context.Context) (types.ContentManifest, error) {
	manifest := types.ContentManifest{}

	roots := s.roots.Ordered()
	// bundled first so persistent entries overwrite
	for i := len(roots) - 1; i >= 0; i-- {
		found, err := s.scanRoot(ctx, roots[i])
		if err != nil {
			return nil, err
		}
		for name, hash := range found {
			manifest[name] = hash
		}
	}

	s.logger.Debug("Local content scanned", zap.Int("packages", len(manifest)))
	return manifest, nil
}

func (s *Source) scanRoot(ctx context.Context, root string) (types.ContentManifest, error) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var mu sync.Mutex
	found := types.ContentManifest{}
	conf := fastwalk.Config{Follow: false}

	err := fastwalk.Walk(&conf, root, func(p string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if isDescriptor(name) {
			return nil
		}

		hash, err := s.hasher.HashFile(p)
		if err != nil {
			return err
		}

		mu.Lock()
		found[name] = hash
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return found, nil
}

func isDescriptor(name string) bool {
	switch name {
	case paths.VersionFile, paths.ContentManifestFile:
		return true
	}
	return filepath.Ext(name) == ".tmp"
}

func (s *Source) readFirst(name string) ([]byte, string, error) {
	for _, root := range s.roots.Ordered() {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, path, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrNotFound, name)
}
