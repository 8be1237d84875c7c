// Package deal is the orchestration layer: it wires the benchmark cache,
// inference engine, valuation calculator, fit scorer, and quality checks into
// the two operations the rest of the product calls — evaluating a single
// listing and rolling a pipeline of opportunities up into totals.
package deal

import (
	"context"
	"time"

	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/domain/fitscore"
	"github.com/sellside-labs/acquisition-engine/internal/domain/inference"
	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/internal/domain/pipeline"
	"github.com/sellside-labs/acquisition-engine/internal/domain/quality"
	"github.com/sellside-labs/acquisition-engine/internal/domain/valuation"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/prometheus"
	"github.com/sellside-labs/acquisition-engine/pkg/errors"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// Attributes carry the qualitative deal facts a reviewer records about a
// target; they feed both the valuation adjustments and the fit score.
type Attributes struct {
	RecurringRevenuePct   *float64                 `json:"recurring_revenue_pct"`
	RevenueCAGR           *float64                 `json:"revenue_cagr"`
	RevenueTrend          valuation.TrendDirection `json:"revenue_trend"`
	CustomerConcentration *float64                 `json:"customer_concentration"`
	DataCenterExperience  bool                     `json:"data_center_experience"`
	KeyPersonRisk         valuation.RiskLevel      `json:"key_person_risk"`

	OwnerAge           *float64 `json:"owner_age"`
	YearsInBusiness    *float64 `json:"years_in_business"`
	State              *string  `json:"state"`
	Metro              *string  `json:"metro"`
	TradesCovered      []string `json:"trades_covered"`
	CertificationCount int      `json:"certification_count"`

	// UseSDE values the deal on seller's discretionary earnings instead of
	// EBITDA, the usual basis for owner-operated targets.
	UseSDE bool `json:"use_sde"`
}

// Dossier is everything known about one listing at evaluation time.
type Dossier struct {
	Snapshot   *listing.Snapshot         `json:"snapshot"`
	Periods    []listing.FinancialPeriod `json:"periods"`
	Attributes Attributes                `json:"attributes"`
}

// Evaluation is the combined output of one listing evaluation.
type Evaluation struct {
	ListingID   string              `json:"listing_id"`
	Inference   *inference.Result   `json:"inference,omitempty"`
	Valuation   *valuation.Scenario `json:"valuation,omitempty"`
	FitScore    fitscore.Result     `json:"fit_score"`
	Findings    []quality.Finding   `json:"findings"`
	EvaluatedAt time.Time           `json:"evaluated_at"`
}

// StageSummary aggregates one pipeline stage.
type StageSummary struct {
	Count    int                 `json:"count"`
	Resolved int                 `json:"resolved"`
	Value    pipeline.ValueRange `json:"value"`
}

// PipelineSummary is the rolled-up view of a set of opportunities.
type PipelineSummary struct {
	Total      pipeline.ValueRange             `json:"total"`
	Midpoint   float64                         `json:"midpoint"`
	Resolved   int                             `json:"resolved"`
	Unresolved int                             `json:"unresolved"`
	ByStage    map[pipeline.Stage]StageSummary `json:"by_stage"`
}

// Service orchestrates the engines.  All injected collaborators are safe for
// concurrent use, so Service is too.
type Service struct {
	inference  *inference.Engine
	fit        *fitscore.Engine
	quality    *quality.Engine
	benchmarks *benchmark.Cache

	baseMultipleLow  float64
	baseMultipleHigh float64
	pipelineRange    pipeline.MultipleRange

	logger  logging.Logger
	metrics *prometheus.EngineMetrics
	now     func() time.Time
}

// Dependencies collect the collaborators Service needs.
type Dependencies struct {
	Inference  *inference.Engine
	FitScorer  *fitscore.Engine
	Quality    *quality.Engine
	Benchmarks *benchmark.Cache

	BaseMultipleLow  float64
	BaseMultipleHigh float64
	PipelineRange    pipeline.MultipleRange
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithLogger injects a Logger.
func WithLogger(log logging.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithMetrics injects the engine metric set.
func WithMetrics(m *prometheus.EngineMetrics) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithClock overrides the evaluation timestamp source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires a Service from its dependencies.
func NewService(deps Dependencies, opts ...ServiceOption) *Service {
	s := &Service{
		inference:        deps.Inference,
		fit:              deps.FitScorer,
		quality:          deps.Quality,
		benchmarks:       deps.Benchmarks,
		baseMultipleLow:  deps.BaseMultipleLow,
		baseMultipleHigh: deps.BaseMultipleHigh,
		pipelineRange:    deps.PipelineRange,
		logger:           logging.NewNopLogger(),
		now:              time.Now,
	}
	if s.pipelineRange == (pipeline.MultipleRange{}) {
		s.pipelineRange = pipeline.DefaultMultipleRange()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvaluateListing runs the full evaluation: infer missing earnings, build a
// valuation scenario, score thesis fit, and screen the financials.
func (s *Service) EvaluateListing(ctx context.Context, dossier *Dossier) (*Evaluation, error) {
	if dossier == nil || dossier.Snapshot == nil {
		return nil, errors.InvalidParam("dossier with a listing snapshot is required")
	}
	start := s.now()
	snap := *dossier.Snapshot
	attrs := dossier.Attributes

	inferred, err := s.inference.Infer(ctx, &snap)
	if err != nil {
		s.observeEvaluation(start, "error")
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "listing evaluation failed")
	}
	if inferred != nil {
		snap.InferredEBITDA = inferred.InferredEBITDA
		snap.InferredSDE = inferred.InferredSDE
		method := string(inferred.Method)
		snap.InferenceMethod = &method
		snap.InferenceConfidence = &inferred.Confidence
		s.recordInference(inferred)
	}

	scenario := valuation.Compute(valuation.Input{
		EBITDA:                snap.EffectiveEBITDA(),
		SDE:                   snap.EffectiveSDE(),
		UseSDE:                attrs.UseSDE,
		BaseMultipleLow:       s.baseMultipleLow,
		BaseMultipleHigh:      s.baseMultipleHigh,
		RecurringRevenuePct:   attrs.RecurringRevenuePct,
		RevenueCAGR:           attrs.RevenueCAGR,
		RevenueTrend:          attrs.RevenueTrend,
		CustomerConcentration: attrs.CustomerConcentration,
		DataCenterExperience:  attrs.DataCenterExperience,
		KeyPersonRisk:         attrs.KeyPersonRisk,
	})
	if scenario != nil && s.metrics != nil {
		s.metrics.ValuationScenariosTotal.WithLabelValues(string(scenario.EarningsType)).Inc()
	}

	fit := s.fit.Compute(fitscore.Input{
		OwnerAge:                attrs.OwnerAge,
		TradeCategory:           snap.Industry,
		Revenue:                 snap.Revenue,
		YearsInBusiness:         attrs.YearsInBusiness,
		State:                   attrs.State,
		Metro:                   attrs.Metro,
		RecurringRevenuePct:     attrs.RecurringRevenuePct,
		TradesCovered:           attrs.TradesCovered,
		KeyPersonRisk:           attrs.KeyPersonRisk,
		CertificationCount:      attrs.CertificationCount,
		AskingPrice:             snap.AskingPrice,
		EBITDA:                  snap.EffectiveEBITDA(),
		BenchmarkEBITDAMultiple: s.benchmarkEBITDAMultiple(ctx, &snap),
	})
	if s.metrics != nil {
		s.metrics.FitScoreDistribution.WithLabelValues().Observe(float64(fit.FitScore))
	}

	findings := s.quality.Run(dossier.Periods)
	if s.metrics != nil {
		for _, f := range findings {
			s.metrics.QualityFindingsTotal.WithLabelValues(f.ID, string(f.Severity)).Inc()
		}
	}

	s.observeEvaluation(start, "ok")
	s.logger.Info("listing evaluated",
		logging.String("listing_id", snap.ID.String()),
		logging.Int("fit_score", fit.FitScore),
		logging.Int("findings", len(findings)),
		logging.Bool("inferred", inferred != nil),
	)

	return &Evaluation{
		ListingID:   snap.ID.String(),
		Inference:   inferred,
		Valuation:   scenario,
		FitScore:    fit,
		Findings:    findings,
		EvaluatedAt: start,
	}, nil
}

// ResolvePipeline rolls the opportunities up through the deal-value
// waterfall, totalling by stage and overall.
func (s *Service) ResolvePipeline(opps []*pipeline.Opportunity) PipelineSummary {
	summary := PipelineSummary{ByStage: make(map[pipeline.Stage]StageSummary)}

	for _, opp := range opps {
		if opp == nil {
			continue
		}
		stage := summary.ByStage[opp.Stage]
		stage.Count++

		vr := pipeline.ResolveDealValue(opp, s.pipelineRange)
		if vr == nil {
			summary.Unresolved++
			s.countResolution("unresolved")
		} else {
			summary.Resolved++
			summary.Total.Low += vr.Low
			summary.Total.High += vr.High
			stage.Resolved++
			stage.Value.Low += vr.Low
			stage.Value.High += vr.High
			s.countResolution("resolved")
		}
		summary.ByStage[opp.Stage] = stage
	}

	summary.Midpoint = summary.Total.Midpoint()
	return summary
}

// benchmarkEBITDAMultiple resolves the snapshot's benchmark row and returns
// its median EBITDA multiple.  A failed lookup only costs the fit scorer its
// benchmark anchor, so it is logged and swallowed.
func (s *Service) benchmarkEBITDAMultiple(ctx context.Context, snap *listing.Snapshot) *float64 {
	if s.benchmarks == nil {
		return nil
	}
	bm, err := s.benchmarks.Lookup(ctx, common.StringValue(snap.Industry), common.StringValue(snap.Category))
	if err != nil {
		s.logger.Warn("benchmark lookup for fit scoring failed",
			logging.String("listing_id", snap.ID.String()),
			logging.Err(err))
		return nil
	}
	if bm == nil {
		return nil
	}
	return bm.EBITDAMultipleMedian
}

func (s *Service) recordInference(res *inference.Result) {
	if s.metrics == nil || res == nil {
		return
	}
	s.metrics.InferenceResultsTotal.WithLabelValues(string(res.Method)).Inc()
	s.metrics.InferenceConfidence.WithLabelValues().Observe(res.Confidence)
}

func (s *Service) countResolution(outcome string) {
	if s.metrics != nil {
		s.metrics.DealValueResolutionsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) observeEvaluation(start time.Time, status string) {
	if s.metrics != nil {
		s.metrics.ObserveEvaluation(s.now().Sub(start), status)
	}
}
