// Package githubapi fetches the upstream GitHub resources a badge needs.
//
// One fetch issues three independent GET requests (profile, repositories,
// events) concurrently and joins them before returning. The fetcher does not
// validate payload shape beyond JSON decoding; derivation owns degradation.
package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/uplinkhq/trophy/internal/domain/github"
	"github.com/uplinkhq/trophy/pkg/logger"
	"github.com/uplinkhq/trophy/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultBaseURL   = "https://api.github.com"
	defaultTimeout   = 10 * time.Second
	defaultPerPage   = 100
	defaultUserAgent = "trophy-badge-service"
	maxResponseBytes = 4 << 20 // GitHub caps event pages well below this
)

// Bundle carries the three fetched resources plus their raw documents for
// debug introspection.
type Bundle struct {
	Profile      *github.Profile
	Repositories []github.Repository
	Events       []github.Event

	RawProfile      json.RawMessage
	RawRepositories json.RawMessage
	RawEvents       json.RawMessage
}

// Fetcher retrieves the three upstream resources for a username.
type Fetcher interface {
	Fetch(ctx context.Context, username string) (*Bundle, error)
}

// Client implements Fetcher against the GitHub REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	perPage    int
	userAgent  string
	token      string
	logger     logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root. Used in tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds a single fetch round.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithPerPage caps the repository listing page size.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithToken authenticates requests with a bearer token. Anonymous when empty.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a GitHub API client with configuration options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		perPage:    defaultPerPage,
		userAgent:  defaultUserAgent,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.Get().Named("githubapi")
	}

	return c
}

// fetchResult is one leg of the three-way fan-out.
type fetchResult struct {
	body   []byte
	status int
	err    error
}

// Fetch retrieves profile, repositories, and events for username. The three
// requests run concurrently; a failure in any one fails the fetch. An unknown
// user surfaces as ErrUserNotFound, detectable with errors.Is.
func (c *Client) Fetch(ctx context.Context, username string) (*Bundle, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}

	start := time.Now()
	metrics.RecordGitHubFetch()

	var (
		wg      sync.WaitGroup
		profile fetchResult
		repos   fetchResult
		events  fetchResult
	)

	urls := map[*fetchResult]string{
		&profile: fmt.Sprintf("%s/users/%s", c.baseURL, username),
		&repos:   fmt.Sprintf("%s/users/%s/repos?per_page=%d", c.baseURL, username, c.perPage),
		&events:  fmt.Sprintf("%s/users/%s/events", c.baseURL, username),
	}

	for res, url := range urls {
		wg.Add(1)
		go func(res *fetchResult, url string) {
			defer wg.Done()
			res.body, res.status, res.err = c.get(ctx, url)
		}(res, url)
	}
	wg.Wait()

	metrics.RecordGitHubFetchLatency(float64(time.Since(start).Milliseconds()))

	// The profile is authoritative for user existence; check it before
	// joining generic failures so errors.Is(err, ErrUserNotFound) holds.
	if notFound(&profile) {
		metrics.RecordGitHubUserNotFound()
		return nil, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}

	var joined *multierror.Error
	for res, url := range urls {
		switch {
		case res.err != nil:
			joined = multierror.Append(joined, fmt.Errorf("GET %s: %w", url, res.err))
		case res.status < http.StatusOK || res.status >= http.StatusMultipleChoices:
			joined = multierror.Append(joined, fmt.Errorf("GET %s: status %d: %w", url, res.status, ErrUpstreamStatus))
		}
	}
	if err := joined.ErrorOrNil(); err != nil {
		metrics.RecordGitHubFetchError()
		metrics.RecordErrorByComponent("githubapi", "fetch_failed")
		c.logger.Warn(ctx, "github fetch failed",
			logger.String("username", username),
			logger.Error(err),
		)
		return nil, err
	}

	p, err := github.DecodeProfile(profile.body)
	if err != nil {
		metrics.RecordGitHubFetchError()
		return nil, fmt.Errorf("decode profile for %q: %w", username, err)
	}
	if p.NotFound() {
		metrics.RecordGitHubUserNotFound()
		return nil, fmt.Errorf("user %q: %w", username, ErrUserNotFound)
	}

	// Repos and events degrade to nil on shape problems; derivation handles it.
	bundle := &Bundle{
		Profile:         p,
		Repositories:    github.DecodeRepositories(repos.body),
		Events:          github.DecodeEvents(events.body),
		RawProfile:      json.RawMessage(profile.body),
		RawRepositories: json.RawMessage(repos.body),
		RawEvents:       json.RawMessage(events.body),
	}

	c.logger.Debug(ctx, "github fetch complete",
		logger.String("username", username),
		logger.Int("repos", len(bundle.Repositories)),
		logger.Int("events", len(bundle.Events)),
		logger.Duration("elapsed", time.Since(start)),
	)

	return bundle, nil
}

// notFound reports whether the profile leg carries GitHub's unknown-user
// signal, either as a 404 status or a {"message": "Not Found"} body.
func notFound(profile *fetchResult) bool {
	if profile.err != nil {
		return false
	}
	if profile.status == http.StatusNotFound {
		return true
	}
	p, err := github.DecodeProfile(profile.body)
	return err == nil && p.NotFound()
}

// get performs one GET and reads the body.
func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
