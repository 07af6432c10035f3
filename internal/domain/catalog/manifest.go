package catalog

import (
	"bytes"
	"fmt"

	"github.com/GriffinCanCode/assetpack/internal/shared/types"
	"github.com/GriffinCanCode/assetpack/internal/shared/utils"
	"github.com/vmihailenco/msgpack/v5"
)

// manifest is the on-disk descriptor table. Descriptors is a pointer so an
// absent table can be told apart from an empty one.
type manifest struct {
	Descriptors *[]types.PackageDescriptor `msgpack:"descriptors"`
}

var manifestLimit = utils.NewSizeValidator("catalog manifest", utils.MaxCatalogManifestSize)

// DecodeManifest deserializes the binary catalog into its ordered
// descriptor list.
func DecodeManifest(blob []byte) ([]types.PackageDescriptor, error) {
	if len(blob) == 0 {
		return nil, &Error{Op: "decode", Err: ErrEmptyManifest}
	}
	if err := manifestLimit.ValidateSize(blob); err != nil {
		return nil, &Error{Op: "decode", Err: err}
	}

	var m manifest
	dec := msgpack.NewDecoder(bytes.NewReader(blob))
	if err := dec.Decode(&m); err != nil {
		return nil, &Error{Op: "decode", Err: fmt.Errorf("%w: %v", ErrCorruptManifest, err)}
	}
	if m.Descriptors == nil {
		return nil, &Error{Op: "decode", Err: ErrDescriptorTableMissing}
	}
	return *m.Descriptors, nil
}

// EncodeManifest serializes descriptors in order. Build tooling uses it to
// produce catalog.bin.
func EncodeManifest(descs []types.PackageDescriptor) ([]byte, error) {
	if descs == nil {
		descs = []types.PackageDescriptor{}
	}
	return msgpack.Marshal(&manifest{Descriptors: &descs})
}
