// Package loader loads packages on demand, reference-counts them and
// releases them deterministically.
//
// Components:
//   - Loader: LoadByName / LoadByDescriptor / LoadByHash and their unload
//     counterparts
//   - Registry: package name to resident Handle
//   - HandlePool: recycles Handles so churny load/unload cycles do not allocate
//   - Synchronized: mutex wrapper for callers on several goroutines
//
// Loading a descriptor retains its own package plus every package in its
// dependency list. By default the walk is one level deep; Config.Transitive
// follows dependencies of dependencies through the catalog with a visited
// set. Every retain must be matched by one release per name. The loader
// records the names each LoadByDescriptor retained, and UnloadByDescriptor
// releases that recorded set, so a catalog reload in between does not
// change what is released.
//
// A failed open is not an error return: the handle stays registered with a
// nil package so repeated requests do not hammer storage. Callers must
// check for nil.
//
// Example Usage:
//
//	l := loader.New(store, loader.Config{Catalog: cat, Logger: logger})
//	pkg := l.LoadByHash(hash)
//	if pkg == nil {
//	    // not in catalog, or the package failed to open
//	}
//	defer l.UnloadByDescriptor(cat.Lookup(hash))
package loader
