// Package cache provides the short-lived response cache for rendered badges.
//
// Entries expire after a fixed TTL. Expiry is lazy on lookup, with an optional
// background janitor sweeping expired entries so memory does not grow with
// usernames that are never requested again.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/uplinkhq/trophy/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL           = 60 * time.Second
	defaultMaxEntries    = 10000
	defaultSweepInterval = 2 * time.Minute
)

// Store is the response cache contract. Absence is a normal outcome, never an
// error; the store itself cannot fail.
type Store interface {
	// Get returns the payload for key, or false if absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores payload under key, unconditionally overwriting.
	Set(ctx context.Context, key string, payload []byte)

	// Len returns the current number of live entries.
	Len() int

	// Stats returns hit/miss/eviction counters.
	Stats() Stats

	// Close stops the background janitor.
	Close() error
}

// Stats captures cache performance counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// entry is one cached response with its write timestamp.
type entry struct {
	key      string
	payload  []byte
	storedAt time.Time
}

// TTLCache implements Store with a map plus an insertion-ordered list used
// for oldest-first eviction when the entry bound is exceeded.
type TTLCache struct {
	mu         sync.Mutex
	data       map[string]*list.Element
	order      *list.List // front = most recently written
	ttl        time.Duration
	maxEntries int
	sweepEvery time.Duration
	stats      Stats
	stopCh     chan struct{}
	closeOnce  sync.Once
	now        func() time.Time
}

// Option applies a configuration option to the TTLCache.
type Option func(*TTLCache)

// New creates a TTLCache with configuration options and starts the janitor
// unless sweeping is disabled.
func New(opts ...Option) *TTLCache {
	c := &TTLCache{
		data:       make(map[string]*list.Element),
		order:      list.New(),
		ttl:        defaultTTL,
		maxEntries: defaultMaxEntries,
		sweepEvery: defaultSweepInterval,
		stopCh:     make(chan struct{}),
		now:        time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	if c.sweepEvery > 0 {
		go c.janitor()
	}

	return c
}

// Get returns the payload for key if present and fresh. Expired entries are
// evicted on the spot.
func (c *TTLCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.data[key]
	if !found {
		c.stats.Misses++
		metrics.RecordCacheMiss()
		return nil, false
	}

	e := elem.Value.(*entry)
	if c.expired(e) {
		c.removeElement(elem)
		c.stats.Misses++
		metrics.RecordCacheMiss()
		metrics.UpdateCacheEntries(len(c.data))
		return nil, false
	}

	c.stats.Hits++
	metrics.RecordCacheHit()
	return e.payload, true
}

// Set stores payload under key. An existing entry is overwritten and its
// timestamp reset; last writer wins.
func (c *TTLCache) Set(ctx context.Context, key string, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.data[key]; found {
		e := elem.Value.(*entry)
		e.payload = payload
		e.storedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.maxEntries > 0 && c.order.Len() >= c.maxEntries {
		c.evictOldest()
	}

	elem := c.order.PushFront(&entry{
		key:      key,
		payload:  payload,
		storedAt: c.now(),
	})
	c.data[key] = elem
	metrics.UpdateCacheEntries(len(c.data))
}

// Len returns the number of entries currently held, expired or not.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Stats returns a snapshot of the hit/miss/eviction counters.
func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close stops the janitor goroutine. Safe to call more than once.
func (c *TTLCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopCh)
	})
	return nil
}

// janitor periodically sweeps expired entries.
func (c *TTLCache) janitor() {
	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep removes every expired entry.
func (c *TTLCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if c.expired(elem.Value.(*entry)) {
			c.removeElement(elem)
		}
		elem = prev
	}
	metrics.UpdateCacheEntries(len(c.data))
}

// expired reports whether e has outlived the TTL. Must hold c.mu.
func (c *TTLCache) expired(e *entry) bool {
	return c.now().Sub(e.storedAt) > c.ttl
}

// evictOldest drops the least recently written entry. Must hold c.mu.
func (c *TTLCache) evictOldest() {
	if elem := c.order.Back(); elem != nil {
		c.removeElement(elem)
	}
}

// removeElement unlinks elem from both structures. Must hold c.mu.
func (c *TTLCache) removeElement(elem *list.Element) {
	e := elem.Value.(*entry)
	delete(c.data, e.key)
	c.order.Remove(elem)
	c.stats.Evictions++
	metrics.RecordCacheEviction()
}
