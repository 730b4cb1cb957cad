package config

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyAddr      = errors.New("addr must not be empty")
	ErrInvalidTTL     = errors.New("cache_ttl_seconds must be positive")
	ErrEmptyBaseURL   = errors.New("github_base_url must not be empty")
	ErrInvalidColumns = errors.New("default_columns must be positive and within max_columns")
)
