package types

// VersionDescriptor carries a "MAJOR.MINOR[.PATCH...]" version string.
type VersionDescriptor struct {
	Version string `json:"version" yaml:"version"`
}

// String returns the raw version string
func (v VersionDescriptor) String() string {
	return v.Version
}
