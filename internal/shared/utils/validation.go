package utils

import (
	"fmt"
	"strings"
)

// Payload size limits (in bytes)
const (
	MaxVersionFileSize      = 4 * 1024          // 4KB - version descriptor
	MaxContentManifestSize  = 8 * 1024 * 1024   // 8MB - content manifest
	MaxCatalogManifestSize  = 64 * 1024 * 1024  // 64MB - binary catalog
	MaxPackageDownloadBytes = 2 * 1024 * 1024 * 1024
)

// SizeValidator rejects payloads above a byte limit
type SizeValidator struct {
	what    string
	maxSize int
}

// NewSizeValidator creates a validator for the named payload kind
func NewSizeValidator(what string, maxSize int) *SizeValidator {
	return &SizeValidator{what: what, maxSize: maxSize}
}

// ValidateSize checks data against the limit
func (v *SizeValidator) ValidateSize(data []byte) error {
	if len(data) > v.maxSize {
		return fmt.Errorf("%s too large: %d bytes (max %d)", v.what, len(data), v.maxSize)
	}
	return nil
}

// ValidateHash checks that s looks like a lowercase hex digest
func ValidateHash(s string) error {
	if s == "" {
		return fmt.Errorf("content hash cannot be empty")
	}
	if strings.Trim(s, "0123456789abcdef") != "" {
		return fmt.Errorf("content hash %q is not lowercase hex", s)
	}
	return nil
}
