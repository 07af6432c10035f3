// Package paths provides the well-known file names and path derivation rules
// shared by the loader, the local sources and the remote sources.
package paths

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Well-known names
const (
	// CatalogPackage is the root package holding the binary catalog manifest
	CatalogPackage = "catalog.pkg"

	// CatalogAsset is the asset name of the descriptor table inside CatalogPackage
	CatalogAsset = "catalog.bin"

	// VersionFile is the version descriptor, both on disk and on the update server
	VersionFile = "version.json"

	// ContentManifestFile maps package names to content hashes
	ContentManifestFile = "content.json"

	// PackagesDir is the sub-path packages live under on the update server
	PackagesDir = "packages"
)

// Roots groups the two local storage roots.
type Roots struct {
	// Bundled is the read-only content shipped with the application
	Bundled string
	// Persistent is the writable location updates are downloaded into
	Persistent string
}

// Ordered returns the roots in lookup order, persistent first.
// Empty roots are skipped.
func (r Roots) Ordered() []string {
	var out []string
	if r.Persistent != "" {
		out = append(out, r.Persistent)
	}
	if r.Bundled != "" && r.Bundled != r.Persistent {
		out = append(out, r.Bundled)
	}
	return out
}

// BundledFile returns name joined to the bundled root
func (r Roots) BundledFile(name string) string {
	return filepath.Join(r.Bundled, name)
}

// PersistentFile returns name joined to the persistent root
func (r Roots) PersistentFile(name string) string {
	return filepath.Join(r.Persistent, name)
}

// ServerURL joins a configured base URL with the given path elements.
func ServerURL(base string, elem ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("base url %q must be absolute", base)
	}
	u.Path = path.Join(append([]string{"/", u.Path}, elem...)...)
	return u.String(), nil
}

// PackageURL returns the download URL of a package
func PackageURL(base, packageName string) (string, error) {
	return ServerURL(base, PackagesDir, packageName)
}

// ValidatePackageName checks that a package name is safe to join to a root.
// Nested names ("ui/atlas") are allowed; absolute paths and parent
// traversal are not.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return fmt.Errorf("package name %q cannot be an absolute path", name)
	}
	clean := filepath.ToSlash(filepath.Clean(name))
	if clean != filepath.ToSlash(name) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("package name %q contains invalid path components", name)
	}
	return nil
}
