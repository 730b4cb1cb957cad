package api

import "errors"

// Sentinel kinds for API errors.
var (
	ErrMissingUsername = errors.New("missing username parameter")
	ErrBadRequest      = errors.New("bad request")
)
