// Package listing defines the read-only views of an acquisition target that
// the computation engines consume: the point-in-time listing snapshot and the
// structured financial-statement periods.  The record store that produces
// these views is an external collaborator; nothing in this package performs
// I/O or mutation.
package listing

import (
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// Snapshot is a point-in-time view of a target company as scraped or entered
// into the deal pipeline.  Nearly every numeric field is optional: listings
// routinely publish an asking price with no earnings, or revenue with no
// multiples.  Absent values are nil, never zero.
type Snapshot struct {
	ID common.ID `json:"id"`

	// Headline financials, all nullable.
	AskingPrice   *float64 `json:"asking_price"`
	Revenue       *float64 `json:"revenue"`
	EBITDA        *float64 `json:"ebitda"`
	SDE           *float64 `json:"sde"`
	CashFlow      *float64 `json:"cash_flow"`
	PriceToSDE    *float64 `json:"price_to_sde"`
	PriceToEBITDA *float64 `json:"price_to_ebitda"`

	// Classification used for benchmark resolution.
	Industry *string `json:"industry"`
	Category *string `json:"category"`

	// Outputs of a prior inference run, stored by the collaborator.
	// Re-running inference on the same snapshot reproduces the same method
	// and confidence; these fields never feed back into the computation.
	InferredEBITDA      *float64 `json:"inferred_ebitda"`
	InferredSDE         *float64 `json:"inferred_sde"`
	InferenceMethod     *string  `json:"inference_method"`
	InferenceConfidence *float64 `json:"inference_confidence"`
}

// HasReportedEarnings reports whether both EBITDA and SDE are already present.
// Inference is additive and never overrides confirmed figures, so a snapshot
// with both earnings known is not a candidate for inference.
func (s *Snapshot) HasReportedEarnings() bool {
	return s.EBITDA != nil && s.SDE != nil
}

// EffectiveEBITDA returns the reported EBITDA when present, otherwise the
// stored inferred EBITDA, otherwise nil.
func (s *Snapshot) EffectiveEBITDA() *float64 {
	if s.EBITDA != nil {
		return s.EBITDA
	}
	return s.InferredEBITDA
}

// EffectiveSDE returns the reported SDE when present, otherwise the stored
// inferred SDE, otherwise nil.
func (s *Snapshot) EffectiveSDE() *float64 {
	if s.SDE != nil {
		return s.SDE
	}
	return s.InferredSDE
}
