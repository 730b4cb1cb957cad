// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CacheTTLSeconds is the response cache time-to-live.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// CacheMaxEntries bounds the response cache; 0 disables the bound.
	CacheMaxEntries int `koanf:"cache_max_entries"`

	// CacheCleanupSeconds is the janitor sweep interval; 0 disables the janitor.
	CacheCleanupSeconds int `koanf:"cache_cleanup_seconds"`

	// GitHubBaseURL points at the GitHub REST API root.
	GitHubBaseURL string `koanf:"github_base_url"`

	// GitHubToken optionally authenticates upstream requests.
	GitHubToken string `koanf:"github_token"`

	// FetchTimeoutSeconds bounds a single upstream fetch round.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// ReposPerPage caps the repository listing page size.
	ReposPerPage int `koanf:"repos_per_page"`

	// DefaultColumns is the badge grid column count when unspecified.
	DefaultColumns int `koanf:"default_columns"`

	// MaxColumns caps the caller-supplied columns parameter.
	MaxColumns int `koanf:"max_columns"`

	// DefaultTheme names the theme used when none is requested.
	DefaultTheme string `koanf:"default_theme"`
}

// New creates a Config populated with defaults.
func New() *Config {
	c := &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		CacheTTLSeconds:     60,
		CacheMaxEntries:     10_000,
		CacheCleanupSeconds: 120,
		GitHubBaseURL:       "https://api.github.com",
		GitHubToken:         "",
		FetchTimeoutSeconds: 10,
		ReposPerPage:        100,
		DefaultColumns:      3,
		MaxColumns:          6,
		DefaultTheme:        "uplink",
	}
	return c
}
