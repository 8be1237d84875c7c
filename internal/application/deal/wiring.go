package deal

import (
	"github.com/sellside-labs/acquisition-engine/internal/config"
	"github.com/sellside-labs/acquisition-engine/internal/domain/benchmark"
	"github.com/sellside-labs/acquisition-engine/internal/domain/fitscore"
	"github.com/sellside-labs/acquisition-engine/internal/domain/inference"
	"github.com/sellside-labs/acquisition-engine/internal/domain/pipeline"
	"github.com/sellside-labs/acquisition-engine/internal/domain/quality"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/logging"
	"github.com/sellside-labs/acquisition-engine/internal/infrastructure/monitoring/prometheus"
)

// BoundsPolicyFromConfig converts the inference sub-config into the domain
// validation policy.
func BoundsPolicyFromConfig(cfg config.InferenceConfig) inference.BoundsPolicy {
	return inference.BoundsPolicy{
		MinSDEMultiple:     cfg.MinSDEMultiple,
		MaxSDEMultiple:     cfg.MaxSDEMultiple,
		MinRevenueMultiple: cfg.MinRevenueMultiple,
		MaxRevenueMultiple: cfg.MaxRevenueMultiple,
	}
}

// ThresholdsFromConfig converts the quality sub-config into engine thresholds.
func ThresholdsFromConfig(cfg config.QualityConfig) quality.Thresholds {
	return quality.Thresholds{
		EarningsFloor:       cfg.EarningsFloor,
		AddBackWarnRatio:    cfg.AddBackWarnRatio,
		AddBackErrorRatio:   cfg.AddBackErrorRatio,
		GrossMarginLow:      cfg.GrossMarginLow,
		GrossMarginHigh:     cfg.GrossMarginHigh,
		EBITDAMarginLow:     cfg.EBITDAMarginLow,
		EBITDAMarginHigh:    cfg.EBITDAMarginHigh,
		OwnerCompShareOfSDE: cfg.OwnerCompShareOfSDE,
		YoYRevenueSwing:     cfg.YoYRevenueSwing,
		ArithmeticTolerance: cfg.ArithmeticTolerance,
	}
}

// ProfileFromConfig converts the fit-score sub-config into the thesis profile.
func ProfileFromConfig(cfg config.FitScoreConfig) fitscore.Profile {
	return fitscore.Profile{
		TargetTrades:         cfg.TargetTrades,
		SecondaryTrades:      cfg.SecondaryTrades,
		RevenueSweetSpotLow:  cfg.RevenueSweetSpotLow,
		RevenueSweetSpotHigh: cfg.RevenueSweetSpotHigh,
		TargetStates:         cfg.TargetStates,
		TargetMetros:         cfg.TargetMetros,
		NeighborStates:       cfg.NeighborStates,
		EVSweetSpotLow:       cfg.EVSweetSpotLow,
		EVSweetSpotHigh:      cfg.EVSweetSpotHigh,
		ValuationMultiple:    cfg.ValuationMultiple,
	}
}

// NewServiceFromConfig assembles the full evaluation stack on top of an
// already-constructed benchmark cache.  The cache is built separately because
// its store (Postgres, optionally fronted by Redis) is an infrastructure
// concern owned by the caller.
func NewServiceFromConfig(cfg *config.Config, cache *benchmark.Cache, log logging.Logger, metrics *prometheus.EngineMetrics) *Service {
	if log == nil {
		log = logging.NewNopLogger()
	}
	eng := inference.NewEngine(cache,
		inference.WithValidationPolicy(BoundsPolicyFromConfig(cfg.Inference)),
		inference.WithLogger(log),
	)
	return NewService(Dependencies{
		Inference:        eng,
		FitScorer:        fitscore.NewEngine(ProfileFromConfig(cfg.FitScore)),
		Quality:          quality.NewEngine(ThresholdsFromConfig(cfg.Quality)),
		Benchmarks:       cache,
		BaseMultipleLow:  cfg.Valuation.BaseMultipleLow,
		BaseMultipleHigh: cfg.Valuation.BaseMultipleHigh,
		PipelineRange: pipeline.MultipleRange{
			Low:  cfg.Pipeline.MultipleLow,
			High: cfg.Pipeline.MultipleHigh,
		},
	}, WithLogger(log), WithMetrics(metrics))
}
