package update

import "errors"

var (
	ErrMajorUpdateRequired = errors.New("major update required")
	ErrContentComparison   = errors.New("content comparison failed")
	ErrUpdateFailed        = errors.New("update failed")
	ErrLocalVersion        = errors.New("local version unavailable")
	ErrStartFailed         = errors.New("application start failed")
	ErrMissingCollaborator = errors.New("missing collaborator")
)
