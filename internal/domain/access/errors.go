package access

import "errors"

var (
	ErrAccessLevelNotFound = errors.New("access level not found")
	ErrPageAccessDenied    = errors.New("you do not have access to this page")
)
