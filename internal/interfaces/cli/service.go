package cli

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/sellside-labs/acquisition-engine/internal/application/deal"
	"github.com/sellside-labs/acquisition-engine/internal/config"
	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/database/postgres"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/database/postgres/repositories"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/database/redis"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/prometheus"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "acqengine"

// buildService assembles the evaluation service from configuration.  With
// database.enabled the benchmark store is Postgres, fronted by Redis when
// redis.enabled; otherwise the built-in seed serves lookups.  With
// metrics.enabled the engine metric set is registered and exposed over HTTP
// for the life of the process.  The returned cleanup releases every
// connection and must always be called.
func buildService(ctx context.Context, cliCtx *CLIContext) (*deal.Service, func(), error) {
	cfg := cliCtx.Config
	log := cliCtx.Logger

	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	store, err := buildBenchmarkStore(ctx, cfg, log, &cleanups)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	cacheOpts := []benchmark.CacheOption{
		benchmark.WithTTL(cfg.Cache.TTL),
		benchmark.WithLogger(log),
	}

	var metrics *prometheus.EngineMetrics
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace: metricsNamespace,
		}, log)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		metrics = prometheus.NewEngineMetrics(collector)
		cacheOpts = append(cacheOpts, benchmark.WithMetrics(prometheus.NewCacheMetricsAdapter(metrics)))
		cleanups = append(cleanups, serveMetrics(cfg.Metrics, collector.Handler(), log))
	}

	cache := benchmark.NewCache(store, cacheOpts...)
	return deal.NewServiceFromConfig(cfg, cache, log, metrics), cleanup, nil
}

// buildBenchmarkStore picks the benchmark store tier: seed, Postgres, or
// Redis-fronted Postgres.  Connections it opens are appended to cleanups.
func buildBenchmarkStore(ctx context.Context, cfg *config.Config, log logging.Logger, cleanups *[]func()) (benchmark.Store, error) {
	if !cfg.Database.Enabled {
		return benchmark.NewStaticStore(benchmark.SeedRows()), nil
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database, log)
	if err != nil {
		return nil, err
	}
	*cleanups = append(*cleanups, conn.Close)

	var store benchmark.Store = repositories.NewBenchmarkRepository(conn.Pool(), log)
	if cfg.Redis.Enabled {
		client, err := redis.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		*cleanups = append(*cleanups, func() { _ = client.Close() })
		store = redis.NewBenchmarkStore(store, client,
			redis.WithKeyPrefix(cfg.Redis.KeyPrefix),
			redis.WithTTL(cfg.Cache.TTL),
			redis.WithLogger(log),
		)
	}
	return store, nil
}

// serveMetrics exposes the collector over HTTP and returns its shutdown.
func serveMetrics(cfg config.MetricsConfig, handler http.Handler, log logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, handler)
	srv := &http.Server{Addr: cfg.Addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics endpoint stopped", logging.Err(err))
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}
