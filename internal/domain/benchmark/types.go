// Package benchmark provides industry valuation benchmarks and the
// time-bounded lookup cache in front of the backing benchmark store.
//
// Lookups resolve through three tiers: an exact (industry, category) match,
// an industry-only match, and finally the row named "Default" which the
// store invariant guarantees exists.  A lookup therefore never hard-fails
// on missing data; it returns nil only when even the default row is absent.
package benchmark

import "context"

// DefaultIndustry is the name of the ultimate-fallback benchmark row.
const DefaultIndustry = "Default"

// Benchmark carries the valuation multiples and margin statistics for one
// (industry, category) pair.  Median fields drive inference and valuation
// fit; the percentile bands are informational and may be absent.
type Benchmark struct {
	Industry string `json:"industry"`
	Category string `json:"category"`

	// SDEMultipleMedian is the median price-to-SDE multiple observed for
	// closed transactions in this segment.
	SDEMultipleMedian *float64 `json:"sde_multiple_median"`
	SDEMultipleP25    *float64 `json:"sde_multiple_p25"`
	SDEMultipleP75    *float64 `json:"sde_multiple_p75"`

	// EBITDAMarginMedian is the median EBITDA margin (fraction of revenue).
	EBITDAMarginMedian *float64 `json:"ebitda_margin_median"`
	EBITDAMarginP25    *float64 `json:"ebitda_margin_p25"`
	EBITDAMarginP75    *float64 `json:"ebitda_margin_p75"`

	// EBITDAMultipleMedian is the median enterprise-value-to-EBITDA multiple,
	// used for enterprise-value estimates in fit scoring.
	EBITDAMultipleMedian *float64 `json:"ebitda_multiple_median"`
}

// IsDefault reports whether this is the fallback row.
func (b *Benchmark) IsDefault() bool {
	return b != nil && b.Industry == DefaultIndustry
}

// Store is the read-only contract the benchmark record store must satisfy.
// All three lookups match case-insensitively and return (nil, nil) on a
// clean miss; an error indicates the store itself failed, not absent data.
type Store interface {
	// FindExactMatch returns the benchmark for the exact industry and
	// category pair, or nil.
	FindExactMatch(ctx context.Context, industry, category string) (*Benchmark, error)

	// FindByIndustry returns a benchmark for the industry regardless of
	// category, or nil.  When several categories exist the store picks its
	// canonical row (the postgres implementation takes the lowest category
	// in sort order for determinism).
	FindByIndustry(ctx context.Context, industry string) (*Benchmark, error)

	// FindDefault returns the row named "Default", or nil if it is missing.
	FindDefault(ctx context.Context) (*Benchmark, error)
}
