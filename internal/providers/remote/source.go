package remote

import (
	"context"

	"github.com/GriffinCanCode/assetpack/internal/shared/codec"
	"github.com/GriffinCanCode/assetpack/internal/shared/paths"
	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/GriffinCanCode/assetpack/internal/shared/utils"
)

// Resource labels used in errors and metrics
const (
	ResourceVersion  = "version"
	ResourceManifest = "manifest"
	ResourcePackage  = "package"
)

// Source reads descriptors published under a base URL
type Source struct {
	client       *Client
	baseURL      string
	manifestFile string
}

// NewSource creates a source for baseURL
func NewSource(client *Client, baseURL string) *Source {
	return &Source{
		client:       client,
		baseURL:      baseURL,
		manifestFile: paths.ContentManifestFile,
	}
}

// WithManifestFile overrides the content manifest file name, e.g. to a
// YAML variant
func (s *Source) WithManifestFile(name string) *Source {
	s.manifestFile = name
	return s
}

// FetchRemoteVersion fetches the published version descriptor
func (s *Source) FetchRemoteVersion(ctx context.Context) (types.VersionDescriptor, error) {
	url, err := paths.ServerURL(s.baseURL, paths.VersionFile)
	if err != nil {
		return types.VersionDescriptor{}, &FetchError{Resource: ResourceVersion, URL: s.baseURL, Err: err}
	}

	body, err := s.client.Get(ctx, ResourceVersion, url, utils.MaxVersionFileSize)
	if err != nil {
		return types.VersionDescriptor{}, err
	}

	v, err := codec.DecodeVersion(body)
	if err != nil {
		return types.VersionDescriptor{}, &FetchError{Resource: ResourceVersion, URL: url, Err: err}
	}
	return v, nil
}

// ContentManifest fetches the published package name to hash map
func (s *Source) ContentManifest(ctx context.Context) (types.ContentManifest, error) {
	url, err := paths.ServerURL(s.baseURL, s.manifestFile)
	if err != nil {
		return nil, &FetchError{Resource: ResourceManifest, URL: s.baseURL, Err: err}
	}

	body, err := s.client.Get(ctx, ResourceManifest, url, utils.MaxContentManifestSize)
	if err != nil {
		return nil, err
	}

	m, err := codec.DecodeContentManifest(body, codec.FormatFor(s.manifestFile))
	if err != nil {
		return nil, &FetchError{Resource: ResourceManifest, URL: url, Err: err}
	}
	return m, nil
}
