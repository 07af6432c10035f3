package update

import (
	"context"

	"github.com/GriffinCanCode/assetpack/internal/shared/types"
)

// LocalVersionReader reads the version the installed content was built at
type LocalVersionReader interface {
	ReadLocalVersion(ctx context.Context) (types.VersionDescriptor, error)
}

// RemoteVersionFetcher fetches the version published by the update server.
// Implementations own their network timeout.
type RemoteVersionFetcher interface {
	FetchRemoteVersion(ctx context.Context) (types.VersionDescriptor, error)
}

// ManifestSource yields a package name to content hash map
type ManifestSource interface {
	ContentManifest(ctx context.Context) (types.ContentManifest, error)
}

// Updater downloads and applies the named packages
type Updater interface {
	Update(ctx context.Context, packages []string, remote types.ContentManifest) error
}

// VersionWriter persists the version the local content now matches
type VersionWriter interface {
	WriteLocalVersion(ctx context.Context, v types.VersionDescriptor) error
}

// Starter hands control to the application
type Starter interface {
	Start(ctx context.Context) error
}

// StarterFunc adapts a function to Starter
type StarterFunc func(ctx context.Context) error

func (f StarterFunc) Start(ctx context.Context) error { return f(ctx) }

// Collaborators wires the orchestrator to storage, network and application
type Collaborators struct {
	Local         LocalVersionReader
	Remote        RemoteVersionFetcher
	LocalContent  ManifestSource
	RemoteContent ManifestSource
	Updater       Updater
	VersionWriter VersionWriter
	Starter       Starter
}
