package redis

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
)

// DefaultStoreTTL bounds how long a shared benchmark entry lives.  It matches
// the in-process cache TTL so both tiers age out together.
const DefaultStoreTTL = 30 * time.Minute

// envelope is the serialized cache entry.  Misses are cached too, so that a
// listing with an unknown industry does not hammer the database from every
// engine instance.
type envelope struct {
	Miss      bool                 `json:"miss"`
	Benchmark *benchmark.Benchmark `json:"benchmark,omitempty"`
}

// BenchmarkStore decorates an inner benchmark.Store with a shared Redis
// tier.  Redis failures are never surfaced: the store degrades to the inner
// store and logs, because benchmark lookups must stay available when the
// cache tier is down.
type BenchmarkStore struct {
	inner  benchmark.Store
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger logging.Logger
}

// BenchmarkStoreOption customises a BenchmarkStore.
type BenchmarkStoreOption func(*BenchmarkStore)

// WithKeyPrefix overrides the cache key prefix.
func WithKeyPrefix(prefix string) BenchmarkStoreOption {
	return func(s *BenchmarkStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithTTL overrides the entry TTL.
func WithTTL(ttl time.Duration) BenchmarkStoreOption {
	return func(s *BenchmarkStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger injects a Logger.
func WithLogger(log logging.Logger) BenchmarkStoreOption {
	return func(s *BenchmarkStore) {
		if log != nil {
			s.logger = log
		}
	}
}

// NewBenchmarkStore wraps inner with the shared Redis tier.
func NewBenchmarkStore(inner benchmark.Store, client *Client, opts ...BenchmarkStoreOption) *BenchmarkStore {
	s := &BenchmarkStore{
		inner:  inner,
		prefix: "acq:benchmark:",
		ttl:    DefaultStoreTTL,
		logger: logging.NewNopLogger(),
	}
	if client != nil {
		s.rdb = client.rdb
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ benchmark.Store = (*BenchmarkStore)(nil)

// FindExactMatch implements benchmark.Store.
func (s *BenchmarkStore) FindExactMatch(ctx context.Context, industry, category string) (*benchmark.Benchmark, error) {
	return s.through(ctx, s.key("exact", industry, category), func(ctx context.Context) (*benchmark.Benchmark, error) {
		return s.inner.FindExactMatch(ctx, industry, category)
	})
}

// FindByIndustry implements benchmark.Store.
func (s *BenchmarkStore) FindByIndustry(ctx context.Context, industry string) (*benchmark.Benchmark, error) {
	return s.through(ctx, s.key("industry", industry, ""), func(ctx context.Context) (*benchmark.Benchmark, error) {
		return s.inner.FindByIndustry(ctx, industry)
	})
}

// FindDefault implements benchmark.Store.
func (s *BenchmarkStore) FindDefault(ctx context.Context) (*benchmark.Benchmark, error) {
	return s.through(ctx, s.key("default", "", ""), func(ctx context.Context) (*benchmark.Benchmark, error) {
		return s.inner.FindDefault(ctx)
	})
}

func (s *BenchmarkStore) key(tier, industry, category string) string {
	norm := func(v string) string { return strings.ToLower(strings.TrimSpace(v)) }
	return s.prefix + tier + ":" + norm(industry) + "|" + norm(category)
}

// through reads the Redis entry for key, falling back to the loader and
// writing back the result (including misses) on a cache miss.
func (s *BenchmarkStore) through(ctx context.Context, key string, load func(context.Context) (*benchmark.Benchmark, error)) (*benchmark.Benchmark, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			var env envelope
			if jsonErr := json.Unmarshal(raw, &env); jsonErr == nil {
				if env.Miss {
					return nil, nil
				}
				return env.Benchmark, nil
			}
			s.logger.Warn("discarding corrupt benchmark cache entry", logging.String("key", key))
		case err != redis.Nil:
			s.logger.Warn("redis read failed, falling through to store",
				logging.String("key", key), logging.Err(err))
		}
	}

	bm, err := load(ctx)
	if err != nil {
		// Store errors are never cached; the next lookup retries.
		return nil, err
	}

	if s.rdb != nil {
		raw, jsonErr := json.Marshal(envelope{Miss: bm == nil, Benchmark: bm})
		if jsonErr == nil {
			if setErr := s.rdb.Set(ctx, key, raw, s.ttl).Err(); setErr != nil {
				s.logger.Warn("redis write failed", logging.String("key", key), logging.Err(setErr))
			}
		}
	}
	return bm, nil
}
