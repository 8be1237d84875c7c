package inference

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/internal/testutil"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

func testBenchmarkCache(t *testing.T, rows []benchmark.Benchmark) *benchmark.Cache {
	t.Helper()
	return benchmark.NewCache(benchmark.NewStaticStore(rows))
}

func defaultRows() []benchmark.Benchmark {
	return []benchmark.Benchmark{
		{
			Industry:           "SaaS",
			Category:           "B2B",
			SDEMultipleMedian:  common.Float64(4.0),
			EBITDAMarginMedian: common.Float64(0.25),
		},
		{
			Industry:           benchmark.DefaultIndustry,
			SDEMultipleMedian:  common.Float64(3.0),
			EBITDAMarginMedian: common.Float64(0.15),
		},
	}
}

func saasSnapshot() *listing.Snapshot {
	return &listing.Snapshot{
		ID:       common.NewID(),
		Industry: common.String("SaaS"),
		Category: common.String("B2B"),
	}
}

func TestInferSkipsListingsWithReportedEarnings(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.EBITDA = common.Float64(300000)
	snap.SDE = common.Float64(350000)
	snap.AskingPrice = common.Float64(1000000)
	snap.PriceToSDE = common.Float64(4.0)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestInferListedMultipleFromPriceToSDE(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1000000)
	snap.PriceToSDE = common.Float64(4.0)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodListedMultiple, res.Method)
	assert.InDelta(t, ConfidenceListedMultiple, res.Confidence, 1e-9)
	require.NotNil(t, res.InferredSDE)
	require.NotNil(t, res.InferredEBITDA)
	// 1,000,000 / 4.0 = 250,000 SDE; EBITDA = 250,000 × 0.87 = 217,500.
	assert.Equal(t, 250000.0, *res.InferredSDE)
	assert.Equal(t, 217500.0, *res.InferredEBITDA)
}

func TestInferListedMultipleWinsOverRevenueMethods(t *testing.T) {
	// Revenue alone would satisfy both the revenue-margin and the
	// price-over-multiple methods, but a listed multiple outranks them.
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1000000)
	snap.PriceToSDE = common.Float64(4.0)
	snap.Revenue = common.Float64(800000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodListedMultiple, res.Method)
	assert.InDelta(t, ConfidenceListedMultiple, res.Confidence, 1e-9)
	require.NotNil(t, res.InferredSDE)
	assert.Equal(t, 250000.0, *res.InferredSDE)
}

func TestInferListedMultipleFromPriceToEBITDA(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(900000)
	snap.PriceToEBITDA = common.Float64(4.5)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodListedMultiple, res.Method)
	// 900,000 / 4.5 = 200,000 EBITDA; SDE = 200,000 × 1.15 = 230,000.
	assert.Equal(t, 200000.0, *res.InferredEBITDA)
	assert.Equal(t, 230000.0, *res.InferredSDE)
}

func TestInferListedMultipleRoundsToWholeUnits(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1000000)
	snap.PriceToSDE = common.Float64(3.0)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	// 1,000,000 / 3 = 333,333.33… rounds to 333,333.
	assert.Equal(t, 333333.0, *res.InferredSDE)
	// 333,333.33… × 0.87 = 290,000.00 before rounding.
	assert.Equal(t, 290000.0, *res.InferredEBITDA)
}

func TestInferCrossCheckWithinBounds(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1000000)
	snap.Revenue = common.Float64(800000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodCrossCheck, res.Method)
	assert.InDelta(t, ConfidenceCrossCheck, res.Confidence, 1e-9)
	// revenue multiple 1.25 ok; EBITDA = 800,000 × 0.25 = 200,000;
	// implied earnings multiple 5.0 ok; SDE = 200,000 × 1.15 = 230,000.
	assert.Equal(t, 200000.0, *res.InferredEBITDA)
	assert.Equal(t, 230000.0, *res.InferredSDE)
}

func TestInferCrossCheckFallsBackOnRevenueMultipleBound(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	// 6x revenue breaches the upper revenue-multiple bound of 5.0.
	snap.AskingPrice = common.Float64(6000000)
	snap.Revenue = common.Float64(1000000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodCrossCheck, res.Method)
	assert.InDelta(t, ConfidenceCrossCheckFallback, res.Confidence, 1e-9)
	// Fallback computes price over median SDE multiple: 6,000,000 / 4.0.
	assert.Equal(t, 1500000.0, *res.InferredSDE)
	assert.Equal(t, 1305000.0, *res.InferredEBITDA)
}

func TestInferCrossCheckFallsBackOnEarningsMultipleBound(t *testing.T) {
	rows := []benchmark.Benchmark{{
		Industry:           "SaaS",
		Category:           "B2B",
		SDEMultipleMedian:  common.Float64(4.0),
		EBITDAMarginMedian: common.Float64(0.02),
	}}
	e := NewEngine(testBenchmarkCache(t, rows))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1000000)
	snap.Revenue = common.Float64(1000000)

	// EBITDA estimate 20,000 implies a 50x earnings multiple, past the 12x cap.
	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodCrossCheck, res.Method)
	assert.InDelta(t, ConfidenceCrossCheckFallback, res.Confidence, 1e-9)
	assert.Equal(t, 250000.0, *res.InferredSDE)
}

func TestInferCrossCheckFallbackUnavailableContinuesToRevenueMargin(t *testing.T) {
	// No SDE multiple: the fallback computation cannot run, so the pipeline
	// must continue to revenue × margin instead of giving up.
	rows := []benchmark.Benchmark{{
		Industry:           "SaaS",
		Category:           "B2B",
		EBITDAMarginMedian: common.Float64(0.25),
	}}
	e := NewEngine(testBenchmarkCache(t, rows))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(6000000)
	snap.Revenue = common.Float64(1000000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodRevenueMargin, res.Method)
	// 6x revenue also breaches the validation bound, so confidence degrades.
	assert.InDelta(t, ConfidenceDegraded, res.Confidence, 1e-9)
	assert.Equal(t, 250000.0, *res.InferredEBITDA)
}

func TestInferRevenueMargin(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.Revenue = common.Float64(2000000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodRevenueMargin, res.Method)
	assert.InDelta(t, ConfidenceRevenueMargin, res.Confidence, 1e-9)
	// 2,000,000 × 0.25 = 500,000 EBITDA; SDE = 575,000.
	assert.Equal(t, 500000.0, *res.InferredEBITDA)
	assert.Equal(t, 575000.0, *res.InferredSDE)
}

func TestInferRevenueMarginUsesDefaultBenchmark(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := &listing.Snapshot{
		ID:       common.NewID(),
		Industry: common.String("Underwater Basket Weaving"),
		Revenue:  common.Float64(1000000),
	}

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodRevenueMargin, res.Method)
	// Default tier margin 0.15.
	assert.Equal(t, 150000.0, *res.InferredEBITDA)
}

func TestInferPriceMultiple(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1200000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodPriceMultiple, res.Method)
	assert.InDelta(t, ConfidencePriceMultiple, res.Confidence, 1e-9)
	// 1,200,000 / 4.0 = 300,000 SDE; EBITDA = 261,000.
	assert.Equal(t, 300000.0, *res.InferredSDE)
	assert.Equal(t, 261000.0, *res.InferredEBITDA)
}

func TestInferReturnsNilWhenNoMethodApplies(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestInferReturnsNilWithoutBenchmarkAndOnlyRevenue(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, nil))
	snap := saasSnapshot()
	snap.Revenue = common.Float64(1000000)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestInferDowngradesConfidenceOnValidationFailure(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	// Listed multiple of 20x SDE breaches the 12x validation bound.
	snap.AskingPrice = common.Float64(2000000)
	snap.PriceToSDE = common.Float64(20.0)

	res, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, MethodListedMultiple, res.Method)
	assert.InDelta(t, ConfidenceDegraded, res.Confidence, 1e-9)
	// Values are kept even when confidence degrades.
	assert.Equal(t, 100000.0, *res.InferredSDE)
}

func TestInferLogsWarningOnValidationFailure(t *testing.T) {
	logger := testutil.NewMockLogger()
	e := NewEngine(testBenchmarkCache(t, defaultRows()), WithLogger(logger))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(2000000)
	snap.PriceToSDE = common.Float64(20.0)

	_, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)

	found := false
	for _, msg := range logger.GetMessages() {
		if msg.Level == "warn" {
			found = true
		}
	}
	assert.True(t, found, "expected a warning for the degraded result")
}

func TestInferIsDeterministic(t *testing.T) {
	e := NewEngine(testBenchmarkCache(t, defaultRows()))
	snap := saasSnapshot()
	snap.AskingPrice = common.Float64(1000000)
	snap.Revenue = common.Float64(800000)

	first, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	second, err := e.Infer(context.Background(), snap)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first.Method, second.Method)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, *first.InferredEBITDA, *second.InferredEBITDA)
	assert.Equal(t, *first.InferredSDE, *second.InferredSDE)
}

func TestBoundsPolicyFlagsEBITDAAboveRevenue(t *testing.T) {
	p := DefaultBoundsPolicy()
	snap := saasSnapshot()
	snap.Revenue = common.Float64(100000)
	res := &Result{
		InferredEBITDA: common.Float64(150000),
		InferredSDE:    common.Float64(172500),
		Method:         MethodRevenueMargin,
		Confidence:     ConfidenceRevenueMargin,
	}

	violations := p.Validate(snap, res)
	assert.NotEmpty(t, violations)
}
