package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/assetpack/internal/infrastructure/logging"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"go.uber.org/zap"
)

var (
	ErrNotFound             = errors.New("package not found")
	ErrInvalidName          = errors.New("invalid package name")
	ErrUnsupportedContainer = errors.New("unsupported package container")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrClosed               = errors.New("package is closed")
)

// Package is an opened physical package. The loader hands it to the runtime
// untouched and closes it when the last reference is released.
type Package interface {
	Name() string
	Asset(name string) ([]byte, error)
	Assets() []string
	Close() error
}

// Storage opens packages by name.
type Storage interface {
	Open(name string) (Package, error)
}

// FileStorage opens packages from an ordered list of directories. The first
// root holding the file wins, so a persistent root listed before the bundled
// root lets downloaded packages shadow shipped ones.
type FileStorage struct {
	roots  []string
	logger *logging.Logger
}

// NewFileStorage creates a storage over roots, searched in order
func NewFileStorage(roots []string, logger *logging.Logger) *FileStorage {
	return &FileStorage{
		roots:  roots,
		logger: logging.OrNop(logger).Named("storage"),
	}
}

// Roots returns the search roots in lookup order
func (s *FileStorage) Roots() []string {
	return s.roots
}

// Locate returns the path the package would be opened from
func (s *FileStorage) Locate(name string) (string, error) {
	if err := paths.ValidatePackageName(name); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidName, err)
	}

	for _, root := range s.roots {
		path := filepath.Join(root, filepath.FromSlash(name))
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Open locates and opens the named package
func (s *FileStorage) Open(name string) (Package, error) {
	path, err := s.Locate(name)
	if err != nil {
		return nil, err
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	s.logger.Debug("Opening package",
		zap.String("package", name),
		zap.String("path", path),
		zap.String("format", string(format)))

	if format == FormatZip {
		pkg, err := openZip(name, path)
		if err != nil {
			return nil, err
		}
		return pkg, nil
	}

	pkg, err := openTar(name, path, format)
	if err != nil {
		return nil, err
	}
	return pkg, nil
}
