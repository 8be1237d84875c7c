package benchmark

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
	"github.com/sellside-labs/acquisition-engine/pkg/errors"
)

// DefaultTTL is how long a resolved lookup (including an explicit miss)
// remains memoized before the backing store is consulted again.
const DefaultTTL = 30 * time.Minute

// Clock abstracts time for deterministic TTL testing.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// CacheMetrics receives cache events.  The prometheus package provides the
// production implementation; the zero value used in tests is a no-op.
type CacheMetrics interface {
	Hit()
	Miss()
	Evict(n int)
}

type nopCacheMetrics struct{}

func (nopCacheMetrics) Hit()        {}
func (nopCacheMetrics) Miss()       {}
func (nopCacheMetrics) Evict(_ int) {}

type cacheEntry struct {
	bm        *Benchmark // nil records an explicit miss
	expiresAt time.Time
}

// Cache is a read-through memo in front of a benchmark Store.  Results,
// including explicit misses, are memoized per lowercase-trimmed
// (industry, category) pair for a fixed TTL.  Expired entries are dropped
// lazily on access or in bulk by Sweep.
//
// Concurrent use is safe: reads share an RWMutex and a duplicate write after
// a racing miss is harmless because both writers store the same value.
type Cache struct {
	store   Store
	ttl     time.Duration
	clock   Clock
	logger  logging.Logger
	metrics CacheMetrics

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// CacheOption customises a Cache.
type CacheOption func(*Cache)

// WithTTL overrides the default 30-minute entry lifetime.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects a Clock, used by tests to advance time deterministically.
func WithClock(clk Clock) CacheOption {
	return func(c *Cache) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithLogger injects a Logger.
func WithLogger(log logging.Logger) CacheOption {
	return func(c *Cache) {
		if log != nil {
			c.logger = log
		}
	}
}

// WithMetrics injects a CacheMetrics sink.
func WithMetrics(m CacheMetrics) CacheOption {
	return func(c *Cache) {
		if m != nil {
			c.metrics = m
		}
	}
}

// NewCache constructs a Cache over store.
func NewCache(store Store, opts ...CacheOption) *Cache {
	c := &Cache{
		store:   store,
		ttl:     DefaultTTL,
		clock:   SystemClock{},
		logger:  logging.NewNopLogger(),
		metrics: nopCacheMetrics{},
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// cacheKey normalises the lookup pair.
func cacheKey(industry, category string) string {
	return strings.ToLower(strings.TrimSpace(industry)) + "|" + strings.ToLower(strings.TrimSpace(category))
}

// Lookup resolves a benchmark for the industry/category pair.
//
// Resolution order on a memo miss:
//  1. exact case-insensitive match on both industry and category
//  2. match on industry alone
//  3. the "Default" row
//
// The resolved value — nil included — is memoized for the TTL.  Store errors
// are returned to the caller and never memoized, so a transient store outage
// does not poison the cache.
func (c *Cache) Lookup(ctx context.Context, industry, category string) (*Benchmark, error) {
	key := cacheKey(industry, category)
	now := c.clock.Now()

	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		if now.Before(entry.expiresAt) {
			c.metrics.Hit()
			return entry.bm, nil
		}
		// Lazy eviction of the expired entry.
		c.mu.Lock()
		if cur, still := c.entries[key]; still && !now.Before(cur.expiresAt) {
			delete(c.entries, key)
			c.metrics.Evict(1)
		}
		c.mu.Unlock()
	}

	c.metrics.Miss()
	bm, err := c.resolve(ctx, industry, category)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{bm: bm, expiresAt: now.Add(c.ttl)}
	c.mu.Unlock()

	if bm == nil {
		c.logger.Warn("benchmark lookup exhausted all tiers",
			logging.String("industry", industry),
			logging.String("category", category))
	}
	return bm, nil
}

// resolve walks the three fallback tiers against the backing store.
func (c *Cache) resolve(ctx context.Context, industry, category string) (*Benchmark, error) {
	industry = strings.TrimSpace(industry)
	category = strings.TrimSpace(category)

	if industry != "" && category != "" {
		bm, err := c.store.FindExactMatch(ctx, industry, category)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBenchmarkStoreUnavailable, "exact benchmark lookup failed")
		}
		if bm != nil {
			return bm, nil
		}
	}

	if industry != "" {
		bm, err := c.store.FindByIndustry(ctx, industry)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeBenchmarkStoreUnavailable, "industry benchmark lookup failed")
		}
		if bm != nil {
			return bm, nil
		}
	}

	bm, err := c.store.FindDefault(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBenchmarkStoreUnavailable, "default benchmark lookup failed")
	}
	return bm, nil
}

// Sweep evicts all expired entries and returns how many were removed.
// Intended to be driven by a periodic ticker in long-running processes.
func (c *Cache) Sweep() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		c.metrics.Evict(removed)
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = c.ttl
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}

// Len returns the number of memoized entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
