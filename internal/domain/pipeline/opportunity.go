// Package pipeline models deal-flow opportunities and owns the single
// sanctioned answer to "what is this deal worth".  Every aggregate, chart,
// and export must go through ResolveDealValue rather than combining fields
// itself, so the valuation story stays consistent across the whole system.
package pipeline

import (
	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// Stage is an opportunity's position in the acquisition funnel.
type Stage string

const (
	StageProspect   Stage = "prospect"
	StageContacted  Stage = "contacted"
	StageNDA        Stage = "nda"
	StageDiligence  Stage = "diligence"
	StageLOI        Stage = "loi"
	StageClosedWon  Stage = "closed_won"
	StageClosedLost Stage = "closed_lost"
)

// Opportunity is one tracked deal.  Monetary fields the team has not
// recorded yet are nil, never zero.
type Opportunity struct {
	ID    common.ID `json:"id"`
	Name  string    `json:"name"`
	Stage Stage     `json:"stage"`

	DealValue    *float64 `json:"deal_value"`
	OfferPrice   *float64 `json:"offer_price"`
	ActualEBITDA *float64 `json:"actual_ebitda"`

	// Listing is the linked marketplace snapshot, when one exists.
	Listing *listing.Snapshot `json:"listing,omitempty"`
}

// MultipleRange is the configured pipeline-wide earnings multiple band.
type MultipleRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// DefaultMultipleRange mirrors the valuation calculator's base range.
func DefaultMultipleRange() MultipleRange {
	return MultipleRange{Low: 3.0, High: 5.0}
}

func (r MultipleRange) valid() bool {
	return r.Low > 0 && r.High >= r.Low
}

// ValueRange is a resolved deal value.  Exact figures carry Low == High.
type ValueRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Midpoint is the arithmetic mean of the range bounds.
func (v ValueRange) Midpoint() float64 {
	return (v.Low + v.High) / 2
}

func exact(v float64) *ValueRange {
	return &ValueRange{Low: v, High: v}
}

// ResolveDealValue walks the five-tier waterfall and returns the first
// resolvable value, or nil when nothing on the opportunity or its linked
// listing can price the deal.  Nil means "unknown" and callers must exclude
// such opportunities from sums rather than count them as zero.
//
// Resolution order: recorded deal value, recorded offer price, actual EBITDA
// times the multiple range, the linked listing's reported-else-inferred
// EBITDA times the multiple range, and finally the listing's asking price.
func ResolveDealValue(opp *Opportunity, multiples MultipleRange) *ValueRange {
	if opp == nil {
		return nil
	}
	if common.IsPositive(opp.DealValue) {
		return exact(*opp.DealValue)
	}
	if common.IsPositive(opp.OfferPrice) {
		return exact(*opp.OfferPrice)
	}
	if multiples.valid() && common.IsPositive(opp.ActualEBITDA) {
		return &ValueRange{
			Low:  *opp.ActualEBITDA * multiples.Low,
			High: *opp.ActualEBITDA * multiples.High,
		}
	}
	if opp.Listing != nil {
		if ebitda := opp.Listing.EffectiveEBITDA(); multiples.valid() && common.IsPositive(ebitda) {
			return &ValueRange{
				Low:  *ebitda * multiples.Low,
				High: *ebitda * multiples.High,
			}
		}
		if common.IsPositive(opp.Listing.AskingPrice) {
			return exact(*opp.Listing.AskingPrice)
		}
	}
	return nil
}

// SumDealValues totals the resolvable opportunities and reports how many
// were priced versus skipped as unknown.
func SumDealValues(opps []*Opportunity, multiples MultipleRange) (total ValueRange, resolved, skipped int) {
	for _, opp := range opps {
		vr := ResolveDealValue(opp, multiples)
		if vr == nil {
			skipped++
			continue
		}
		total.Low += vr.Low
		total.High += vr.High
		resolved++
	}
	return total, resolved, skipped
}
