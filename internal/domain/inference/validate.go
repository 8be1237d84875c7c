package inference

import (
	"fmt"

	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// ValidationPolicy judges whether an inferred result is economically
// plausible.  A non-empty slice of violation descriptions downgrades the
// result's confidence to ConfidenceDegraded; the values themselves are kept.
type ValidationPolicy interface {
	Validate(snap *listing.Snapshot, res *Result) []string
}

// BoundsPolicy is the default ValidationPolicy: hard bounds on implied
// multiples plus basic positivity and margin coherence.
type BoundsPolicy struct {
	MinSDEMultiple     float64
	MaxSDEMultiple     float64
	MinRevenueMultiple float64
	MaxRevenueMultiple float64
}

// DefaultBoundsPolicy returns bounds calibrated for sub-$10M small-business
// deals, where SDE multiples above 12x or asking prices past 5x revenue are
// almost always data errors rather than real pricing.
func DefaultBoundsPolicy() BoundsPolicy {
	return BoundsPolicy{
		MinSDEMultiple:     1.0,
		MaxSDEMultiple:     12.0,
		MinRevenueMultiple: 0.3,
		MaxRevenueMultiple: 5.0,
	}
}

// Validate implements ValidationPolicy.
func (p BoundsPolicy) Validate(snap *listing.Snapshot, res *Result) []string {
	if res == nil {
		return nil
	}
	var violations []string

	if res.InferredSDE != nil && *res.InferredSDE <= 0 {
		violations = append(violations, fmt.Sprintf("inferred SDE %.2f is not positive", *res.InferredSDE))
	}
	if res.InferredEBITDA != nil && *res.InferredEBITDA <= 0 {
		violations = append(violations, fmt.Sprintf("inferred EBITDA %.2f is not positive", *res.InferredEBITDA))
	}

	if snap != nil && common.IsPositive(snap.AskingPrice) && common.IsPositive(res.InferredSDE) {
		m := *snap.AskingPrice / *res.InferredSDE
		if m < p.MinSDEMultiple || m > p.MaxSDEMultiple {
			violations = append(violations,
				fmt.Sprintf("implied SDE multiple %.2f outside [%.1f, %.1f]", m, p.MinSDEMultiple, p.MaxSDEMultiple))
		}
	}

	if snap != nil && common.IsPositive(snap.AskingPrice) && common.IsPositive(snap.Revenue) {
		m := *snap.AskingPrice / *snap.Revenue
		if m < p.MinRevenueMultiple || m > p.MaxRevenueMultiple {
			violations = append(violations,
				fmt.Sprintf("implied revenue multiple %.2f outside [%.1f, %.1f]", m, p.MinRevenueMultiple, p.MaxRevenueMultiple))
		}
	}

	// EBITDA above revenue means the margin computation went through bad data.
	if snap != nil && common.IsPositive(snap.Revenue) && common.IsPositive(res.InferredEBITDA) &&
		*res.InferredEBITDA > *snap.Revenue {
		violations = append(violations, "inferred EBITDA exceeds reported revenue")
	}

	return violations
}
