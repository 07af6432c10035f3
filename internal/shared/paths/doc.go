// # Layout
//
//	<bundled>/                 (shipped with the application, read-only)
//	  ├── catalog.pkg          (root package, contains catalog.bin)
//	  ├── version.json
//	  ├── content.json
//	  └── <package files>
//	<persistent>/              (writable, shadows bundled)
//	  ├── version.json         (written after a successful update)
//	  └── <downloaded package files>
//	<base-url>/
//	  ├── version.json
//	  ├── content.json
//	  └── packages/<package files>
//
// # Usage
//
//	roots := paths.Roots{Bundled: "/opt/game/assets", Persistent: "/var/lib/game"}
//	for _, root := range roots.Ordered() {
//	    // persistent first, then bundled
//	}
//	versionURL, err := paths.ServerURL(baseURL, paths.VersionFile)
package paths
