package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// readResponseBody reads and closes the response body.
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

// badgeURL composes the badge endpoint URL for one username.
func badgeURL(config *Config, username string) string {
	q := url.Values{}
	q.Set("username", username)
	if config.Theme != "" {
		q.Set("theme", config.Theme)
	}
	if config.Columns > 0 {
		q.Set("columns", strconv.Itoa(config.Columns))
	}
	return strings.TrimRight(config.BaseURL, "/") + "/badge?" + q.Encode()
}

// fetchRound requests a badge for every username concurrently and returns
// one result per username, keyed by username.
func fetchRound(ctx context.Context, config *Config, client *HTTPClient) map[string]result {
	jobs := make(chan string, len(config.Usernames))
	results := make(chan result, len(config.Usernames))

	var wg sync.WaitGroup
	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for username := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
					results <- fetchBadge(ctx, config, client, username)
				}
			}
		}()
	}

	for _, username := range config.Usernames {
		jobs <- username
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make(map[string]result, len(config.Usernames))
	for r := range results {
		out[r.Username] = r
	}
	return out
}

// fetchBadge performs one badge request and captures its outcome.
func fetchBadge(ctx context.Context, config *Config, client *HTTPClient, username string) result {
	start := time.Now()
	resp, err := client.Get(ctx, badgeURL(config, username))
	if err != nil {
		return result{Username: username, Err: err, Latency: time.Since(start)}
	}

	body, err := readResponseBody(resp)
	latency := time.Since(start)
	if err != nil {
		return result{Username: username, Err: err, Latency: latency}
	}

	r := result{
		Username:   username,
		Status:     resp.StatusCode,
		CacheState: resp.Header.Get("X-Cache"),
		Latency:    latency,
		Body:       body,
	}

	if resp.StatusCode == http.StatusOK {
		contentType := resp.Header.Get("Content-Type")
		switch {
		case !strings.HasPrefix(contentType, "image/svg+xml"):
			r.Err = fmt.Errorf("unexpected content type %q", contentType)
		case !bytes.HasPrefix(body, []byte("<svg")):
			r.Err = fmt.Errorf("body is not an SVG document")
		}
	}

	return r
}
