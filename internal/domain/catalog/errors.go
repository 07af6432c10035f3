package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyManifest          = errors.New("catalog manifest is empty")
	ErrCorruptManifest        = errors.New("catalog manifest cannot be decoded")
	ErrDescriptorTableMissing = errors.New("catalog descriptor table is missing")
	ErrRootPackageMissing     = errors.New("catalog root package cannot be opened")
)

// Error is a fatal catalog load failure. The catalog is empty afterwards.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func joinCause(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}
