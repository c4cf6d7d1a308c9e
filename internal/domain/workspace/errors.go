package workspace

import "errors"

var (
	// ErrNameRequired indicates an empty workspace or team name.
	ErrNameRequired = errors.New("name is required")
	// ErrTokenRequired indicates an empty invite token.
	ErrTokenRequired = errors.New("invite token is required")
	// ErrNotDemo is returned when resetting a workspace that is not a demo.
	ErrNotDemo = errors.New("active workspace is not a demo workspace")
)

// StatusActive marks a workspace membership that can be used right away.
// Joins that need approval come back with a different status.
const StatusActive = "ACTIVE"
