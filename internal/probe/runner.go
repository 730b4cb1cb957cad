package probe

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/uplinkhq/trophy/pkg/logger"
)

// Run executes the complete badge probe.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}
	runID := uuid.NewString()

	logger.Get().Info(ctx, "starting trophy badge probe",
		logger.String("runID", runID),
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", len(config.Usernames)),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: First round populates the cache
	log.Printf("📤 Round 1: rendering %d badges with %d workers...", len(config.Usernames), config.Workers)
	first := fetchRound(ctx, config, client)
	tally(first, stats, config.Verbose)

	// Step 3: Second round must be served from cache
	log.Printf("📥 Round 2: repeating the same requests...")
	second := fetchRound(ctx, config, client)
	tally(second, stats, config.Verbose)

	// Step 4: Verify cache behavior between rounds
	if err := verifyRounds(ctx, first, second, stats); err != nil {
		return fmt.Errorf("cache verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "probe completed successfully", logger.String("runID", runID))
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 response counts as healthy (the endpoint serves Prometheus metrics)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// tally folds one round of results into the running statistics.
func tally(round map[string]result, stats *Stats, verbose bool) {
	for username, r := range round {
		stats.RequestsSent++
		switch {
		case r.Err != nil:
			stats.Failed++
			log.Printf("❌ %s: %v", username, r.Err)
			continue
		case r.Status == http.StatusNotFound:
			stats.NotFound++
			log.Printf("⚠️  %s: user not found", username)
			continue
		case r.Status != http.StatusOK:
			stats.Failed++
			log.Printf("❌ %s: unexpected status %d", username, r.Status)
			continue
		}

		stats.Succeeded++
		switch r.CacheState {
		case "HIT":
			stats.CacheHits++
		case "MISS":
			stats.CacheMisses++
		}
		if verbose {
			log.Printf("✅ %s: %d bytes in %s (cache %s)", username, len(r.Body), r.Latency, r.CacheState)
		}
	}
}

// verifyRounds checks that the second round was served from cache with
// byte-identical payloads, and compares latencies between rounds.
func verifyRounds(ctx context.Context, first, second map[string]result, stats *Stats) error {
	var (
		missTotal, hitTotal time.Duration
		missCount, hitCount int
	)

	for username, a := range first {
		b, ok := second[username]
		if !ok {
			return fmt.Errorf("user %q missing from second round", username)
		}
		if a.Err != nil || b.Err != nil || a.Status != http.StatusOK || b.Status != http.StatusOK {
			continue
		}

		if b.CacheState != "HIT" {
			return fmt.Errorf("user %q: second request was not served from cache (X-Cache=%q)", username, b.CacheState)
		}

		if bytes.Equal(a.Body, b.Body) {
			stats.BytesIdentical++
		} else {
			stats.BytesDivergent++
			return fmt.Errorf("user %q: cached payload differs from the original render", username)
		}

		missTotal += a.Latency
		missCount++
		hitTotal += b.Latency
		hitCount++
	}

	if missCount > 0 {
		stats.MissLatencyAvg = missTotal / time.Duration(missCount)
	}
	if hitCount > 0 {
		stats.HitLatencyAvg = hitTotal / time.Duration(hitCount)
	}

	logger.Get().Info(ctx, "cache verification passed",
		logger.Int("identical", stats.BytesIdentical),
		logger.Duration("missLatencyAvg", stats.MissLatencyAvg),
		logger.Duration("hitLatencyAvg", stats.HitLatencyAvg))
	return nil
}

// displayFinalStats prints the final probe statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("requestsSent", stats.RequestsSent),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("notFound", stats.NotFound),
		logger.Int("cacheHits", stats.CacheHits),
		logger.Int("cacheMisses", stats.CacheMisses),
		logger.Int("bytesIdentical", stats.BytesIdentical),
		logger.Duration("missLatencyAvg", stats.MissLatencyAvg),
		logger.Duration("hitLatencyAvg", stats.HitLatencyAvg),
		logger.String("duration", stats.Duration.String()))
}
