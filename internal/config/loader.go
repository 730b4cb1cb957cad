package config

import (
	"context"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if TROPHY_CONFIG is set
//  3. env (prefix TROPHY_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TROPHY_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: TROPHY_ADDR, TROPHY_CACHE_TTL_SECONDS, ...
	// Map env keys like TROPHY_CACHE_TTL_SECONDS -> cache_ttl_seconds (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TROPHY_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "trophy_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	// Basic validation
	if cfg.Addr == "" {
		return nil, ErrEmptyAddr
	}
	if cfg.CacheTTLSeconds <= 0 {
		return nil, ErrInvalidTTL
	}
	if cfg.GitHubBaseURL == "" {
		return nil, ErrEmptyBaseURL
	}
	if cfg.DefaultColumns < 1 || (cfg.MaxColumns > 0 && cfg.DefaultColumns > cfg.MaxColumns) {
		return nil, ErrInvalidColumns
	}
	return &cfg, nil
}
