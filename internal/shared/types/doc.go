// Package types provides shared data structures for the asset pipeline.
//
// Core Types:
//   - PackageDescriptor: Catalog entry for one logical asset
//   - VersionDescriptor: Local or remote application content version
//   - ContentManifest: Package name to content hash mapping
//
// Example Usage:
//
//	desc := &types.PackageDescriptor{
//	    ContentHash:  "9f2c...",
//	    AssetName:    "hero.prefab",
//	    PackageName:  "characters",
//	    Dependencies: []string{"shared-materials"},
//	}
package types
