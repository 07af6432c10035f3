package types

// PackageDescriptor describes one logical asset in the catalog.
// Several descriptors may point at the same physical package.
type PackageDescriptor struct {
	ContentHash  string   `msgpack:"hash" json:"hash"`
	AssetName    string   `msgpack:"asset" json:"asset"`
	PackageName  string   `msgpack:"package" json:"package"`
	Dependencies []string `msgpack:"deps,omitempty" json:"deps,omitempty"`
}

// ContentManifest maps a package name to the content hash of its current build.
type ContentManifest map[string]string

// Names returns the package names in the manifest in no particular order.
func (m ContentManifest) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	return names
}
