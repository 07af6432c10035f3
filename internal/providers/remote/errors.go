package remote

import (
	"errors"
	"fmt"
)

var (
	ErrBadStatus    = errors.New("unexpected status")
	ErrHashMismatch = errors.New("content hash mismatch")
	ErrTooLarge     = errors.New("payload too large")
)

// FetchError reports a failed remote request
type FetchError struct {
	Resource   string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s from %s: status %d: %v", e.Resource, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s from %s: %v", e.Resource, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
