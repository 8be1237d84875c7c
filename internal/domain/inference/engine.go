// Package inference derives missing EBITDA/SDE figures from partial listing
// data.  Four estimation methods are tried in a fixed priority order; the
// first method whose preconditions hold wins outright — methods are mutually
// exclusive outputs, never merged.  Every produced result then passes a
// sanity-validation policy which can downgrade confidence but never discards
// a value: a low-confidence estimate is still more useful to a reviewer than
// nothing.
package inference

import (
	"context"

	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// Method identifies which estimation strategy produced a result.  The
// enumeration is closed; Manual is reserved for operator-entered figures
// recorded upstream and is never produced by Infer.
type Method string

const (
	MethodListedMultiple Method = "LISTED_MULTIPLE"
	MethodCrossCheck     Method = "CROSS_CHECK"
	MethodRevenueMargin  Method = "REVENUE_MARGIN"
	MethodPriceMultiple  Method = "PRICE_MULTIPLE"
	MethodManual         Method = "MANUAL"
)

// Confidence levels per method.  CrossCheck drops to its fallback level when
// either of its sanity bounds fails; any method drops to ConfidenceDegraded
// when post-hoc validation fails.
const (
	ConfidenceListedMultiple     = 0.90
	ConfidenceCrossCheck         = 0.70
	ConfidenceRevenueMargin      = 0.60
	ConfidencePriceMultiple      = 0.45
	ConfidenceCrossCheckFallback = 0.40
	ConfidenceDegraded           = 0.20
)

// Fixed SDE/EBITDA conversion ratio pair.  SDE includes owner compensation
// add-backs, so it sits above EBITDA for the small businesses this engine
// covers.
const (
	SDEFromEBITDARatio = 1.15
	EBITDAFromSDERatio = 0.87
)

// Cross-check sanity bounds on implied multiples.
const (
	minImpliedRevenueMultiple  = 0.3
	maxImpliedRevenueMultiple  = 5.0
	minImpliedEarningsMultiple = 1.0
	maxImpliedEarningsMultiple = 12.0
)

// Result is a freshly computed inference.  Monetary fields are rounded to the
// nearest whole currency unit.  A Result is never mutated after creation; a
// recomputation fully replaces any prior result.
type Result struct {
	InferredEBITDA *float64 `json:"inferred_ebitda"`
	InferredSDE    *float64 `json:"inferred_sde"`
	Method         Method   `json:"inference_method"`
	Confidence     float64  `json:"inference_confidence"`
}

// Engine runs the prioritized inference pipeline.  It is stateless and safe
// for concurrent use; the benchmark cache it reads through handles its own
// synchronisation.
type Engine struct {
	benchmarks *benchmark.Cache
	policy     ValidationPolicy
	logger     logging.Logger
	steps      []step
}

// step is one try-predicate-compute stage of the pipeline.  run returns nil
// when its preconditions are not met, handing control to the next step.
type step struct {
	method Method
	run    func(snap *listing.Snapshot, bm *benchmark.Benchmark) *Result
}

// EngineOption customises an Engine.
type EngineOption func(*Engine)

// WithValidationPolicy replaces the default sanity-bound policy.
func WithValidationPolicy(p ValidationPolicy) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.policy = p
		}
	}
}

// WithLogger injects a Logger.
func WithLogger(log logging.Logger) EngineOption {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// NewEngine constructs an inference Engine over the given benchmark cache.
func NewEngine(benchmarks *benchmark.Cache, opts ...EngineOption) *Engine {
	e := &Engine{
		benchmarks: benchmarks,
		policy:     DefaultBoundsPolicy(),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	// Priority order is part of the contract: listed multiple beats the
	// cross-check, which beats revenue-times-margin, which beats
	// price-over-multiple.
	e.steps = []step{
		{method: MethodListedMultiple, run: inferFromListedMultiple},
		{method: MethodCrossCheck, run: inferFromCrossCheck},
		{method: MethodRevenueMargin, run: inferFromRevenueMargin},
		{method: MethodPriceMultiple, run: inferFromPriceMultiple},
	}
	return e
}

// Infer derives missing earnings for the snapshot.
//
// Returns (nil, nil) when both EBITDA and SDE are already reported —
// inference is additive and never overrides confirmed figures — or when no
// method's preconditions can be met.  A non-nil error indicates only that
// the benchmark store itself failed.
//
// Infer is a pure function of the snapshot and the benchmark data: calling
// it twice on the same immutable snapshot yields an identical result.
func (e *Engine) Infer(ctx context.Context, snap *listing.Snapshot) (*Result, error) {
	if snap == nil {
		return nil, nil
	}
	if snap.HasReportedEarnings() {
		return nil, nil
	}

	bm, err := e.lookupBenchmark(ctx, snap)
	if err != nil {
		return nil, err
	}

	for _, st := range e.steps {
		res := st.run(snap, bm)
		if res == nil {
			continue
		}
		if violations := e.policy.Validate(snap, res); len(violations) > 0 {
			e.logger.Warn("inference failed sanity validation, downgrading confidence",
				logging.String("listing_id", snap.ID.String()),
				logging.String("method", string(res.Method)),
				logging.Any("violations", violations))
			res.Confidence = ConfidenceDegraded
		}
		res.InferredEBITDA = common.RoundCurrencyPtr(res.InferredEBITDA)
		res.InferredSDE = common.RoundCurrencyPtr(res.InferredSDE)
		return res, nil
	}
	return nil, nil
}

// lookupBenchmark resolves the snapshot's benchmark row.  A snapshot with no
// industry still resolves through to the Default tier.
func (e *Engine) lookupBenchmark(ctx context.Context, snap *listing.Snapshot) (*benchmark.Benchmark, error) {
	if e.benchmarks == nil {
		return nil, nil
	}
	return e.benchmarks.Lookup(ctx, common.StringValue(snap.Industry), common.StringValue(snap.Category))
}

// ─────────────────────────────────────────────────────────────────────────────
// Method 1 — Listed Multiple (0.90)
// ─────────────────────────────────────────────────────────────────────────────

// inferFromListedMultiple backs earnings out of the listing's own published
// price-to-earnings multiples, the most trustworthy source because both
// inputs come from the seller.  The missing counterpart figure is derived
// via the fixed ratio pair.
func inferFromListedMultiple(snap *listing.Snapshot, _ *benchmark.Benchmark) *Result {
	if !common.IsPositive(snap.AskingPrice) {
		return nil
	}
	asking := *snap.AskingPrice

	var sde, ebitda *float64
	if common.IsPositive(snap.PriceToSDE) {
		v := asking / *snap.PriceToSDE
		sde = &v
	}
	if common.IsPositive(snap.PriceToEBITDA) {
		v := asking / *snap.PriceToEBITDA
		ebitda = &v
	}
	if sde == nil && ebitda == nil {
		return nil
	}
	if sde == nil {
		v := *ebitda * SDEFromEBITDARatio
		sde = &v
	}
	if ebitda == nil {
		v := *sde * EBITDAFromSDERatio
		ebitda = &v
	}
	return &Result{
		InferredEBITDA: ebitda,
		InferredSDE:    sde,
		Method:         MethodListedMultiple,
		Confidence:     ConfidenceListedMultiple,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Method 2 — Cross-Check (0.70, or 0.40 on bound fallback)
// ─────────────────────────────────────────────────────────────────────────────

// inferFromCrossCheck estimates EBITDA from revenue and the benchmark margin,
// but only stands behind the estimate when both the implied revenue multiple
// and the implied earnings multiple look sane.  When either bound fails it
// falls back to the price-over-multiple computation at reduced confidence;
// if that computation's own inputs are missing the step yields nothing and
// priority order continues.
func inferFromCrossCheck(snap *listing.Snapshot, bm *benchmark.Benchmark) *Result {
	if !common.IsPositive(snap.AskingPrice) || !common.IsPositive(snap.Revenue) {
		return nil
	}
	if bm == nil || !common.IsPositive(bm.EBITDAMarginMedian) {
		return nil
	}
	asking := *snap.AskingPrice
	revenue := *snap.Revenue

	fallback := func() *Result {
		res := computePriceOverMultiple(snap, bm)
		if res == nil {
			return nil
		}
		res.Method = MethodCrossCheck
		res.Confidence = ConfidenceCrossCheckFallback
		return res
	}

	revMultiple := asking / revenue
	if revMultiple < minImpliedRevenueMultiple || revMultiple > maxImpliedRevenueMultiple {
		return fallback()
	}

	ebitda := revenue * *bm.EBITDAMarginMedian
	impliedEarningsMultiple := asking / ebitda
	if impliedEarningsMultiple < minImpliedEarningsMultiple || impliedEarningsMultiple > maxImpliedEarningsMultiple {
		return fallback()
	}

	sde := ebitda * SDEFromEBITDARatio
	return &Result{
		InferredEBITDA: &ebitda,
		InferredSDE:    &sde,
		Method:         MethodCrossCheck,
		Confidence:     ConfidenceCrossCheck,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Method 3 — Revenue × Margin (0.60)
// ─────────────────────────────────────────────────────────────────────────────

func inferFromRevenueMargin(snap *listing.Snapshot, bm *benchmark.Benchmark) *Result {
	if !common.IsPositive(snap.Revenue) {
		return nil
	}
	if bm == nil || !common.IsPositive(bm.EBITDAMarginMedian) {
		return nil
	}
	ebitda := *snap.Revenue * *bm.EBITDAMarginMedian
	sde := ebitda * SDEFromEBITDARatio
	return &Result{
		InferredEBITDA: &ebitda,
		InferredSDE:    &sde,
		Method:         MethodRevenueMargin,
		Confidence:     ConfidenceRevenueMargin,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Method 4 — Price / Multiple (0.45)
// ─────────────────────────────────────────────────────────────────────────────

func inferFromPriceMultiple(snap *listing.Snapshot, bm *benchmark.Benchmark) *Result {
	return computePriceOverMultiple(snap, bm)
}

// computePriceOverMultiple divides the asking price by the benchmark's median
// SDE multiple.  Shared between method 4 and the cross-check fallback.
func computePriceOverMultiple(snap *listing.Snapshot, bm *benchmark.Benchmark) *Result {
	if !common.IsPositive(snap.AskingPrice) {
		return nil
	}
	if bm == nil || !common.IsPositive(bm.SDEMultipleMedian) {
		return nil
	}
	sde := *snap.AskingPrice / *bm.SDEMultipleMedian
	ebitda := sde * EBITDAFromSDERatio
	return &Result{
		InferredEBITDA: &ebitda,
		InferredSDE:    &sde,
		Method:         MethodPriceMultiple,
		Confidence:     ConfidencePriceMultiple,
	}
}
