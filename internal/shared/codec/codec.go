// Package codec decodes and encodes the textual descriptors exchanged with
// the update server: the version descriptor and the content manifest.
package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/GriffinCanCode/assetpack/internal/shared/utils"
	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// Format of a content manifest document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	versionLimit  = utils.NewSizeValidator("version descriptor", utils.MaxVersionFileSize)
	manifestLimit = utils.NewSizeValidator("content manifest", utils.MaxContentManifestSize)
)

// FormatFor picks the manifest format from a file name or URL path
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeVersion accepts either a JSON object {"version": "1.2"} or the bare
// version text.
func DecodeVersion(data []byte) (types.VersionDescriptor, error) {
	if err := versionLimit.ValidateSize(data); err != nil {
		return types.VersionDescriptor{}, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return types.VersionDescriptor{}, fmt.Errorf("version descriptor is empty")
	}

	if trimmed[0] != '{' {
		return types.VersionDescriptor{Version: string(trimmed)}, nil
	}

	var v types.VersionDescriptor
	if err := sonic.Unmarshal(trimmed, &v); err != nil {
		return types.VersionDescriptor{}, fmt.Errorf("failed to parse version descriptor: %w", err)
	}
	if v.Version == "" {
		return types.VersionDescriptor{}, fmt.Errorf("version descriptor has no version field")
	}
	return v, nil
}

// EncodeVersion renders the JSON form of a version descriptor
func EncodeVersion(v types.VersionDescriptor) ([]byte, error) {
	return sonic.ConfigStd.MarshalIndent(v, "", "  ")
}

// DecodeContentManifest parses a package name to content hash mapping
func DecodeContentManifest(data []byte, format Format) (types.ContentManifest, error) {
	if err := manifestLimit.ValidateSize(data); err != nil {
		return nil, err
	}

	manifest := types.ContentManifest{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &manifest)
	default:
		err = sonic.Unmarshal(data, &manifest)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse content manifest: %w", err)
	}

	for name, hash := range manifest {
		if name == "" {
			return nil, fmt.Errorf("content manifest has an empty package name")
		}
		if hash == "" {
			return nil, fmt.Errorf("content manifest entry %q has an empty hash", name)
		}
	}
	return manifest, nil
}

// EncodeContentManifest renders a manifest in the given format
func EncodeContentManifest(m types.ContentManifest, format Format) ([]byte, error) {
	if format == FormatYAML {
		return yaml.Marshal(m)
	}
	return sonic.ConfigStd.MarshalIndent(m, "", "  ")
}
