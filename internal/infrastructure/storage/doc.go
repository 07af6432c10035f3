// Package storage opens physical asset packages from local disk.
//
// A package is a container of named assets. Supported containers, sniffed
// by content rather than by extension:
//   - zip (read lazily, the archive stays open until Close)
//   - tar, tar+gzip, tar+zstd (decoded into memory on open)
//
// Example Usage:
//
//	store := storage.NewFileStorage([]string{persistentRoot, bundledRoot}, logger)
//	pkg, err := store.Open("characters")
//	if err != nil {
//	    return err
//	}
//	defer pkg.Close()
//	data, err := pkg.Asset("hero.prefab")
package storage
