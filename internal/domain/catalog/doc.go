// Package catalog holds the content-addressed package catalog.
//
// The catalog is a binary (msgpack) descriptor table stored as catalog.bin
// inside the root package catalog.pkg. Each descriptor names a logical
// asset by content hash, the physical package that stores it, and the
// packages that must be resident alongside it.
//
// Loading is all-or-nothing: a corrupt or missing table leaves the catalog
// empty and returns a *catalog.Error. Duplicate hashes are not fatal; the
// first descriptor wins.
//
// Example Usage:
//
//	cat := catalog.New(logger, metrics)
//	if err := cat.LoadFromStorage(store); err != nil {
//	    return err
//	}
//	desc := cat.Lookup(hash)
package catalog
