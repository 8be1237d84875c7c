package prometheus

import "time"

// EngineMetrics holds every metric the valuation engine emits.
type EngineMetrics struct {
	// Benchmark cache
	CacheHitsTotal      CounterVec
	CacheMissesTotal    CounterVec
	CacheEvictionsTotal CounterVec
	CacheEntries        GaugeVec

	// Inference
	InferenceResultsTotal CounterVec
	InferenceConfidence   HistogramVec

	// Valuation / fit / quality
	ValuationScenariosTotal CounterVec
	FitScoreDistribution    HistogramVec
	QualityFindingsTotal    CounterVec

	// Deal value waterfall
	DealValueResolutionsTotal CounterVec

	// Orchestration
	EvaluationDuration HistogramVec
	EvaluationsTotal   CounterVec
}

var (
	confidenceBuckets = []float64{0.2, 0.4, 0.45, 0.6, 0.7, 0.9, 1.0}
	fitScoreBuckets   = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
	durationBuckets   = []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25}
)

// NewEngineMetrics registers the engine's metric set against the collector.
func NewEngineMetrics(collector MetricsCollector) *EngineMetrics {
	return &EngineMetrics{
		CacheHitsTotal:      collector.RegisterCounter("benchmark_cache_hits_total", "Benchmark cache hits"),
		CacheMissesTotal:    collector.RegisterCounter("benchmark_cache_misses_total", "Benchmark cache misses"),
		CacheEvictionsTotal: collector.RegisterCounter("benchmark_cache_evictions_total", "Benchmark cache entries evicted"),
		CacheEntries:        collector.RegisterGauge("benchmark_cache_entries", "Benchmark cache entry count"),

		InferenceResultsTotal: collector.RegisterCounter("inference_results_total", "Inference results by method", "method"),
		InferenceConfidence:   collector.RegisterHistogram("inference_confidence", "Inference confidence distribution", confidenceBuckets),

		ValuationScenariosTotal: collector.RegisterCounter("valuation_scenarios_total", "Valuation scenarios computed", "earnings_type"),
		FitScoreDistribution:    collector.RegisterHistogram("fit_score", "Fit score distribution", fitScoreBuckets),
		QualityFindingsTotal:    collector.RegisterCounter("quality_findings_total", "Quality findings by rule and severity", "rule", "severity"),

		DealValueResolutionsTotal: collector.RegisterCounter("deal_value_resolutions_total", "Deal value waterfall resolutions", "outcome"),

		EvaluationDuration: collector.RegisterHistogram("evaluation_duration_seconds", "End-to-end listing evaluation duration", durationBuckets),
		EvaluationsTotal:   collector.RegisterCounter("evaluations_total", "Listing evaluations", "status"),
	}
}

// ObserveEvaluation records one end-to-end evaluation.
func (m *EngineMetrics) ObserveEvaluation(d time.Duration, status string) {
	if m == nil {
		return
	}
	m.EvaluationDuration.WithLabelValues().Observe(d.Seconds())
	m.EvaluationsTotal.WithLabelValues(status).Inc()
}

// CacheMetricsAdapter bridges EngineMetrics to the benchmark cache's
// instrumentation hooks.
type CacheMetricsAdapter struct {
	m *EngineMetrics
}

// NewCacheMetricsAdapter wraps m for use by the benchmark cache.
func NewCacheMetricsAdapter(m *EngineMetrics) *CacheMetricsAdapter {
	return &CacheMetricsAdapter{m: m}
}

// Hit implements benchmark.CacheMetrics.
func (a *CacheMetricsAdapter) Hit() {
	a.m.CacheHitsTotal.WithLabelValues().Inc()
}

// Miss implements benchmark.CacheMetrics.
func (a *CacheMetricsAdapter) Miss() {
	a.m.CacheMissesTotal.WithLabelValues().Inc()
}

// Evict implements benchmark.CacheMetrics.
func (a *CacheMetricsAdapter) Evict(n int) {
	a.m.CacheEvictionsTotal.WithLabelValues().Add(float64(n))
}
