// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/uplinkhq/trophy/internal/adapters/cache"
	"github.com/uplinkhq/trophy/internal/adapters/githubapi"
	"github.com/uplinkhq/trophy/internal/domain/theme"
	"github.com/uplinkhq/trophy/internal/domain/trophy"
	"github.com/uplinkhq/trophy/internal/render"
	"github.com/uplinkhq/trophy/pkg/logger"
	"github.com/uplinkhq/trophy/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultCacheTTL   = 60 * time.Second
	defaultCacheSweep = 2 * time.Minute
	defaultMaxColumns = 6
)

// BadgeRequest carries the normalized parameters of one badge render.
type BadgeRequest struct {
	Username string
	Columns  int
	Hide     []string
	Theme    string
}

// Service implements the badge pipeline: cache lookup, upstream fetch,
// derivation, render, cache store.
type Service struct {
	mu sync.RWMutex

	// Core components
	cache   cache.Store
	fetcher githubapi.Fetcher

	// Configuration
	cacheTTL       time.Duration
	cacheMax       int
	cacheSweep     time.Duration
	defaultColumns int
	maxColumns     int
	defaultTheme   string

	// State
	started   bool
	startTime time.Time

	// Logging
	logger logger.Logger

	// now anchors account-age derivation; overridable in tests.
	now func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCache injects a response cache. A TTL cache is built from the
// configured TTL when none is provided.
func WithCache(c cache.Store) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithFetcher injects the upstream fetcher.
func WithFetcher(f githubapi.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCacheTTL sets the response cache time-to-live.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithCacheMaxEntries bounds the response cache.
func WithCacheMaxEntries(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.cacheMax = n
		}
	}
}

// WithCacheSweepInterval sets the cache janitor interval.
func WithCacheSweepInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.cacheSweep = d
		}
	}
}

// WithDefaultColumns sets the badge grid column count used when the caller
// supplies none.
func WithDefaultColumns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.defaultColumns = n
		}
	}
}

// WithMaxColumns caps the caller-supplied column count.
func WithMaxColumns(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxColumns = n
		}
	}
}

// WithDefaultTheme names the theme used when none is requested.
func WithDefaultTheme(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.defaultTheme = name
		}
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:       defaultCacheTTL,
		cacheSweep:     defaultCacheSweep,
		defaultColumns: render.DefaultColumns,
		maxColumns:     defaultMaxColumns,
		defaultTheme:   theme.DefaultName,
		now:            time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting trophy badge service...")

	if s.cache == nil {
		cacheOpts := []cache.Option{
			cache.WithTTL(s.cacheTTL),
			cache.WithSweepInterval(s.cacheSweep),
		}
		if s.cacheMax > 0 {
			cacheOpts = append(cacheOpts, cache.WithMaxEntries(s.cacheMax))
		}
		s.cache = cache.New(cacheOpts...)
	}
	if s.fetcher == nil {
		s.fetcher = githubapi.NewClient()
	}

	s.started = true
	s.startTime = s.now()
	s.logger.Info(ctx, "trophy badge service started",
		logger.Duration("cacheTTL", s.cacheTTL),
		logger.Int("defaultColumns", s.defaultColumns),
		logger.String("defaultTheme", s.defaultTheme),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping trophy badge service...")

	if s.cache != nil {
		_ = s.cache.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "trophy badge service stopped")
}

// CacheTTL exposes the configured time-to-live for response headers.
func (s *Service) CacheTTL() time.Duration {
	return s.cacheTTL
}

// Badge runs the full pipeline for req. cached reports whether the response
// came from the cache without touching upstream.
func (s *Service) Badge(ctx context.Context, req BadgeRequest) (payload []byte, cached bool, err error) {
	if req.Username == "" {
		return nil, false, githubapi.ErrEmptyUsername
	}

	req = s.normalize(req)
	key := cacheKey(req)

	if payload, ok := s.cache.Get(ctx, key); ok {
		s.logger.Debug(ctx, "cache hit", logger.String("key", key))
		return payload, true, nil
	}

	payload, err = s.renderFresh(ctx, req)
	if err != nil {
		return nil, false, err
	}

	s.cache.Set(ctx, key, payload)
	return payload, false, nil
}

// Debug fetches the three raw upstream documents and returns a pretty-printed
// dump. It never reads or writes the cache.
func (s *Service) Debug(ctx context.Context, username string) ([]byte, error) {
	if username == "" {
		return nil, githubapi.ErrEmptyUsername
	}

	metrics.RecordDebugRequest()

	bundle, err := s.fetcher.Fetch(ctx, username)
	if err != nil {
		return nil, err
	}

	dump := map[string]json.RawMessage{
		"user":   bundle.RawProfile,
		"repos":  bundle.RawRepositories,
		"events": bundle.RawEvents,
	}
	out, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal debug dump: %w", err)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"cacheTTL":       s.cacheTTL.String(),
		"defaultColumns": s.defaultColumns,
		"defaultTheme":   s.defaultTheme,
	}

	if s.started {
		cacheStats := s.cache.Stats()
		stats["uptime"] = s.now().Sub(s.startTime).String()
		stats["cacheEntries"] = s.cache.Len()
		stats["cacheHits"] = cacheStats.Hits
		stats["cacheMisses"] = cacheStats.Misses
		stats["cacheEvictions"] = cacheStats.Evictions

		metrics.UpdateCacheEntries(s.cache.Len())
	}

	return stats
}

// renderFresh fetches, derives, filters, and renders a badge.
func (s *Service) renderFresh(ctx context.Context, req BadgeRequest) ([]byte, error) {
	bundle, err := s.fetcher.Fetch(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	deriveStart := time.Now()
	trophies := trophy.Derive(bundle.Profile, bundle.Repositories, bundle.Events, s.now())
	metrics.RecordDeriveLatency(float64(time.Since(deriveStart).Milliseconds()))

	if len(req.Hide) > 0 {
		filtered := trophy.FilterTitles(trophies, req.Hide)
		metrics.RecordTrophiesHidden(len(trophies) - len(filtered))
		trophies = filtered
	}

	payload := render.Badge(req.Username, trophies, theme.Lookup(req.Theme), req.Columns)
	metrics.RecordBadgeRendered()

	s.logger.Info(ctx, "badge rendered",
		logger.String("username", req.Username),
		logger.Int("trophies", len(trophies)),
		logger.String("theme", req.Theme),
		logger.Int("columns", req.Columns),
	)

	return payload, nil
}

// normalize clamps and canonicalizes request parameters so equivalent
// requests share one cache entry.
func (s *Service) normalize(req BadgeRequest) BadgeRequest {
	if req.Columns < 1 {
		req.Columns = s.defaultColumns
	}
	if s.maxColumns > 0 && req.Columns > s.maxColumns {
		req.Columns = s.maxColumns
	}
	if req.Theme == "" || !theme.Known(req.Theme) {
		req.Theme = s.defaultTheme
	} else {
		req.Theme = strings.ToLower(strings.TrimSpace(req.Theme))
	}

	hide := make([]string, 0, len(req.Hide))
	for _, h := range req.Hide {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			hide = append(hide, h)
		}
	}
	sort.Strings(hide)
	req.Hide = hide

	return req
}

// cacheKey composes the full parameter set so two requests with different
// rendering options never share a cached render.
func cacheKey(req BadgeRequest) string {
	return fmt.Sprintf("%s|%s|%d|%s", req.Username, req.Theme, req.Columns, strings.Join(req.Hide, ","))
}
