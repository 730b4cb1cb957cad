package githubapi

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrEmptyUsername  = errors.New("empty username")
	ErrUserNotFound   = errors.New("github user not found")
	ErrUpstreamStatus = errors.New("unexpected upstream status")
)
