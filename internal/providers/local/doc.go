// Package local reads and writes the on-disk descriptors of installed
// content.
//
// Every read looks in the persistent root first and falls back to the
// bundled root, so a version or manifest written after an update shadows
// the one shipped with the application. Writes always go to the persistent
// root and are atomic.
//
// The content manifest is normally read from content.json. In scan mode it
// is computed instead by walking both roots with fastwalk and hashing every
// package file; persistent files override bundled files of the same name.
package local
