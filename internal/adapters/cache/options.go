// Package cache provides the short-lived response cache for rendered badges.
package cache

import "time"

// WithTTL sets the entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *TTLCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries bounds the number of entries. Zero or negative disables the
// bound.
func WithMaxEntries(n int) Option {
	return func(c *TTLCache) {
		c.maxEntries = n
	}
}

// WithSweepInterval sets the janitor interval. Zero or negative disables the
// janitor; expiry then happens only lazily on Get.
func WithSweepInterval(d time.Duration) Option {
	return func(c *TTLCache) {
		c.sweepEvery = d
	}
}

// WithClock overrides the time source. Used in tests to control expiry.
func WithClock(now func() time.Time) Option {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}
