// Package fitscore grades how well a target company matches the acquisition
// thesis.  Ten criteria each map an input attribute through a fixed bucket
// table to a raw 1–10 score; the weighted sum, clamped to [0, 100], is the
// fit score.  Scoring always succeeds: a missing input lands in that
// criterion's lowest or neutral bucket, never in an error.
package fitscore

import (
	"math"
	"strings"

	"github.com/sellside-labs/acquisition-engine/internal/domain/valuation"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// Criterion identifiers, stable for display and persistence.
const (
	CriterionOwnerAge         = "owner_age"
	CriterionTradeFit         = "trade_fit"
	CriterionRevenueSize      = "revenue_size"
	CriterionYearsInBusiness  = "years_in_business"
	CriterionGeography        = "geography"
	CriterionRecurringRevenue = "recurring_revenue"
	CriterionCrossSellSynergy = "cross_sell_synergy"
	CriterionKeyPersonRisk    = "key_person_risk"
	CriterionCertifications   = "certifications"
	CriterionValuationFit     = "valuation_fit"
)

// Criterion weights.  These must sum to exactly 1.0; changing one is a
// deliberate recalibration of the whole thesis, not a runtime input.
const (
	WeightOwnerAge         = 0.20
	WeightTradeFit         = 0.15
	WeightRevenueSize      = 0.10
	WeightYearsInBusiness  = 0.10
	WeightGeography        = 0.10
	WeightRecurringRevenue = 0.10
	WeightCrossSellSynergy = 0.10
	WeightKeyPersonRisk    = 0.05
	WeightCertifications   = 0.05
	WeightValuationFit     = 0.05
)

// Input is everything the scorer reads about a target.  Nullable fields left
// nil fall into the criterion's missing-input bucket.
type Input struct {
	OwnerAge              *float64
	TradeCategory         *string
	Revenue               *float64
	YearsInBusiness       *float64
	State                 *string
	Metro                 *string
	RecurringRevenuePct   *float64
	TradesCovered         []string
	KeyPersonRisk         valuation.RiskLevel
	CertificationCount    int
	AskingPrice           *float64
	EBITDA                *float64

	// BenchmarkEBITDAMultiple is the trade benchmark's median EBITDA
	// multiple.  When set it supersedes the profile multiple for the
	// valuation-fit EV estimate.
	BenchmarkEBITDAMultiple *float64
}

// Profile is the configured acquisition thesis the criteria score against.
type Profile struct {
	TargetTrades    []string
	SecondaryTrades []string

	RevenueSweetSpotLow  float64
	RevenueSweetSpotHigh float64

	TargetStates   []string
	TargetMetros   []string
	NeighborStates []string

	// Enterprise-value band the buyer can actually transact in, plus the
	// multiple used to estimate EV from EBITDA when no asking price exists.
	EVSweetSpotLow     float64
	EVSweetSpotHigh    float64
	ValuationMultiple  float64
}

// DefaultProfile returns the thesis used when no profile is configured: a
// sub-$10M services roll-up anchored in Texas.
func DefaultProfile() Profile {
	return Profile{
		TargetTrades:         []string{"HVAC", "Electrical", "Plumbing"},
		SecondaryTrades:      []string{"Mechanical", "Controls", "Fire Protection"},
		RevenueSweetSpotLow:  1000000,
		RevenueSweetSpotHigh: 5000000,
		TargetStates:         []string{"TX"},
		TargetMetros:         []string{"Dallas-Fort Worth", "Austin", "San Antonio", "Houston"},
		NeighborStates:       []string{"OK", "LA", "AR", "NM"},
		EVSweetSpotLow:       1000000,
		EVSweetSpotHigh:      7500000,
		ValuationMultiple:    4.0,
	}
}

// CriterionScore is one scored criterion.  Weighted = Raw × Weight × 10, so a
// perfect 10 on a 20% criterion contributes 20 points.
type CriterionScore struct {
	Criterion string  `json:"criterion"`
	Raw       float64 `json:"raw"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
}

// Result is the full breakdown plus the clamped, rounded total.
type Result struct {
	FitScore  int              `json:"fit_score"`
	Breakdown []CriterionScore `json:"breakdown"`
}

// Engine scores inputs against a fixed Profile.  Stateless and safe for
// concurrent use.
type Engine struct {
	profile Profile
}

// NewEngine builds an Engine; a zero-value profile is replaced with the
// default thesis.
func NewEngine(profile Profile) *Engine {
	if profile.ValuationMultiple == 0 && len(profile.TargetTrades) == 0 {
		profile = DefaultProfile()
	}
	return &Engine{profile: profile}
}

// Compute scores the input.  It never fails.
func (e *Engine) Compute(in Input) Result {
	raws := []CriterionScore{
		{Criterion: CriterionOwnerAge, Weight: WeightOwnerAge, Raw: scoreOwnerAge(in.OwnerAge)},
		{Criterion: CriterionTradeFit, Weight: WeightTradeFit, Raw: e.scoreTradeFit(in.TradeCategory)},
		{Criterion: CriterionRevenueSize, Weight: WeightRevenueSize, Raw: e.scoreRevenueSize(in.Revenue)},
		{Criterion: CriterionYearsInBusiness, Weight: WeightYearsInBusiness, Raw: scoreYearsInBusiness(in.YearsInBusiness)},
		{Criterion: CriterionGeography, Weight: WeightGeography, Raw: e.scoreGeography(in.State, in.Metro)},
		{Criterion: CriterionRecurringRevenue, Weight: WeightRecurringRevenue, Raw: scoreRecurringRevenue(in.RecurringRevenuePct)},
		{Criterion: CriterionCrossSellSynergy, Weight: WeightCrossSellSynergy, Raw: e.scoreCrossSellSynergy(in.TradesCovered)},
		{Criterion: CriterionKeyPersonRisk, Weight: WeightKeyPersonRisk, Raw: scoreKeyPersonRisk(in.KeyPersonRisk)},
		{Criterion: CriterionCertifications, Weight: WeightCertifications, Raw: scoreCertifications(in.CertificationCount)},
		{Criterion: CriterionValuationFit, Weight: WeightValuationFit, Raw: e.scoreValuationFit(in.AskingPrice, in.EBITDA, in.BenchmarkEBITDAMultiple)},
	}

	var total float64
	for i := range raws {
		raws[i].Weighted = raws[i].Raw * raws[i].Weight * 10
		total += raws[i].Weighted
	}

	return Result{
		FitScore:  int(math.Round(common.Clamp(total, 0, 100))),
		Breakdown: raws,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Bucket tables
// ─────────────────────────────────────────────────────────────────────────────

// scoreOwnerAge favours owners approaching retirement, the strongest seller
// motivation signal in this segment.
func scoreOwnerAge(age *float64) float64 {
	if age == nil {
		return 5
	}
	switch a := *age; {
	case a >= 60:
		return 10
	case a >= 55:
		return 8
	case a >= 50:
		return 6
	case a >= 45:
		return 4
	case a >= 40:
		return 3
	default:
		return 2
	}
}

func (e *Engine) scoreTradeFit(trade *string) float64 {
	if trade == nil || strings.TrimSpace(*trade) == "" {
		return 1
	}
	if containsFold(e.profile.TargetTrades, *trade) {
		return 10
	}
	if containsFold(e.profile.SecondaryTrades, *trade) {
		return 6
	}
	return 2
}

func (e *Engine) scoreRevenueSize(revenue *float64) float64 {
	if !common.IsPositive(revenue) {
		return 1
	}
	r := *revenue
	low, high := e.profile.RevenueSweetSpotLow, e.profile.RevenueSweetSpotHigh
	switch {
	case r >= low && r <= high:
		return 10
	case r > high && r <= high*1.5:
		return 7
	case r >= low/2 && r < low:
		return 6
	case r > high*1.5:
		return 4
	default:
		return 2
	}
}

func scoreYearsInBusiness(years *float64) float64 {
	if years == nil {
		return 3
	}
	switch y := *years; {
	case y >= 20:
		return 10
	case y >= 15:
		return 9
	case y >= 10:
		return 8
	case y >= 5:
		return 6
	case y >= 2:
		return 4
	default:
		return 2
	}
}

func (e *Engine) scoreGeography(state, metro *string) float64 {
	if state == nil || strings.TrimSpace(*state) == "" {
		return 3
	}
	if containsFold(e.profile.TargetStates, *state) {
		if metro != nil && containsFold(e.profile.TargetMetros, *metro) {
			return 10
		}
		return 8
	}
	if containsFold(e.profile.NeighborStates, *state) {
		return 5
	}
	return 2
}

func scoreRecurringRevenue(pct *float64) float64 {
	if pct == nil {
		return 3
	}
	switch p := *pct; {
	case p >= 0.5:
		return 10
	case p >= 0.3:
		return 8
	case p >= 0.15:
		return 6
	case p > 0:
		return 4
	default:
		return 1
	}
}

// scoreCrossSellSynergy counts how many of the target's covered trades
// overlap with the thesis trade lists; broader overlap means more cross-sell
// into the existing book.
func (e *Engine) scoreCrossSellSynergy(covered []string) float64 {
	overlap := 0
	for _, trade := range covered {
		if containsFold(e.profile.TargetTrades, trade) || containsFold(e.profile.SecondaryTrades, trade) {
			overlap++
		}
	}
	switch {
	case overlap >= 3:
		return 10
	case overlap == 2:
		return 8
	case overlap == 1:
		return 6
	default:
		return 2
	}
}

// scoreKeyPersonRisk is inverted: low risk scores high.
func scoreKeyPersonRisk(risk valuation.RiskLevel) float64 {
	switch risk {
	case valuation.RiskLow:
		return 10
	case valuation.RiskMedium:
		return 6
	case valuation.RiskHigh:
		return 2
	default:
		return 5
	}
}

func scoreCertifications(count int) float64 {
	switch {
	case count >= 4:
		return 10
	case count == 3:
		return 8
	case count == 2:
		return 7
	case count == 1:
		return 5
	default:
		return 2
	}
}

// scoreValuationFit estimates enterprise value from the asking price, or from
// EBITDA × a multiple when no ask is published, and scores its distance from
// the transactable band.  The trade benchmark's median EBITDA multiple is
// preferred; the profile multiple is the fallback.
func (e *Engine) scoreValuationFit(askingPrice, ebitda, benchmarkMultiple *float64) float64 {
	var ev float64
	switch {
	case common.IsPositive(askingPrice):
		ev = *askingPrice
	case common.IsPositive(ebitda):
		multiple := e.profile.ValuationMultiple
		if common.IsPositive(benchmarkMultiple) {
			multiple = *benchmarkMultiple
		}
		ev = *ebitda * multiple
	default:
		return 5
	}
	low, high := e.profile.EVSweetSpotLow, e.profile.EVSweetSpotHigh
	switch {
	case ev >= low && ev <= high:
		return 10
	case ev >= low/2 && ev <= high*2:
		return 6
	default:
		return 2
	}
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
