// Package repositories provides the PostgreSQL-backed implementation of the
// benchmark store interface.
package repositories

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
	"github.com/sellside-labs/acquisition-engine/pkg/errors"
)

const benchmarkColumns = `industry, category,
	sde_multiple_median, sde_multiple_p25, sde_multiple_p75,
	ebitda_margin_median, ebitda_margin_p25, ebitda_margin_p75,
	ebitda_multiple_median`

// BenchmarkRepository reads industry benchmark rows.  It satisfies
// benchmark.Store: a clean miss is (nil, nil), never an error.
type BenchmarkRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewBenchmarkRepository builds a repository over the given pool.
func NewBenchmarkRepository(pool *pgxpool.Pool, log logging.Logger) *BenchmarkRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &BenchmarkRepository{pool: pool, logger: log}
}

var _ benchmark.Store = (*BenchmarkRepository)(nil)

// FindExactMatch returns the row matching both industry and category,
// case-insensitively.
func (r *BenchmarkRepository) FindExactMatch(ctx context.Context, industry, category string) (*benchmark.Benchmark, error) {
	query := `SELECT ` + benchmarkColumns + `
		FROM industry_benchmarks
		WHERE LOWER(industry) = LOWER($1) AND LOWER(category) = LOWER($2)
		LIMIT 1`
	return r.queryOne(ctx, query, industry, category)
}

// FindByIndustry returns one row for the industry regardless of category.
// The lowest category in sort order wins so repeated lookups stay stable.
func (r *BenchmarkRepository) FindByIndustry(ctx context.Context, industry string) (*benchmark.Benchmark, error) {
	query := `SELECT ` + benchmarkColumns + `
		FROM industry_benchmarks
		WHERE LOWER(industry) = LOWER($1)
		ORDER BY category
		LIMIT 1`
	return r.queryOne(ctx, query, industry)
}

// FindDefault returns the ultimate-fallback row.
func (r *BenchmarkRepository) FindDefault(ctx context.Context) (*benchmark.Benchmark, error) {
	query := `SELECT ` + benchmarkColumns + `
		FROM industry_benchmarks
		WHERE industry = $1
		ORDER BY category
		LIMIT 1`
	return r.queryOne(ctx, query, benchmark.DefaultIndustry)
}

func (r *BenchmarkRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*benchmark.Benchmark, error) {
	row := r.pool.QueryRow(ctx, query, args...)

	var bm benchmark.Benchmark
	err := row.Scan(
		&bm.Industry, &bm.Category,
		&bm.SDEMultipleMedian, &bm.SDEMultipleP25, &bm.SDEMultipleP75,
		&bm.EBITDAMarginMedian, &bm.EBITDAMarginP25, &bm.EBITDAMarginP75,
		&bm.EBITDAMultipleMedian,
	)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "benchmark query failed")
	}
	return &bm, nil
}

// Upsert inserts or replaces a benchmark row.  Used by seeding and tests.
func (r *BenchmarkRepository) Upsert(ctx context.Context, bm *benchmark.Benchmark) error {
	query := `INSERT INTO industry_benchmarks (` + benchmarkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (industry, category) DO UPDATE SET
			sde_multiple_median = EXCLUDED.sde_multiple_median,
			sde_multiple_p25 = EXCLUDED.sde_multiple_p25,
			sde_multiple_p75 = EXCLUDED.sde_multiple_p75,
			ebitda_margin_median = EXCLUDED.ebitda_margin_median,
			ebitda_margin_p25 = EXCLUDED.ebitda_margin_p25,
			ebitda_margin_p75 = EXCLUDED.ebitda_margin_p75,
			ebitda_multiple_median = EXCLUDED.ebitda_multiple_median,
			updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query,
		bm.Industry, bm.Category,
		bm.SDEMultipleMedian, bm.SDEMultipleP25, bm.SDEMultipleP75,
		bm.EBITDAMarginMedian, bm.EBITDAMarginP25, bm.EBITDAMarginP75,
		bm.EBITDAMultipleMedian,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "benchmark upsert failed")
	}
	return nil
}
