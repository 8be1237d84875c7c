// Package valuation converts an earnings figure into a low/high enterprise
// value range.  A base multiple range is shifted by a fixed table of
// stackable ±0.5 adjustments; every triggered adjustment is retained with a
// human-readable reason so the resulting scenario is auditable.
package valuation

import (
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// EarningsType names which earnings base a scenario was built on.
type EarningsType string

const (
	EarningsEBITDA EarningsType = "EBITDA"
	EarningsSDE    EarningsType = "SDE"
)

// TrendDirection classifies a revenue trajectory.
type TrendDirection string

const (
	TrendGrowing   TrendDirection = "growing"
	TrendFlat      TrendDirection = "flat"
	TrendDeclining TrendDirection = "declining"
)

// RiskLevel grades key-person exposure.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Default base multiple range and the fixed step every adjustment applies.
const (
	DefaultBaseMultipleLow  = 3.0
	DefaultBaseMultipleHigh = 5.0
	AdjustmentStep          = 0.5
	MultipleFloor           = 1.0
)

// Adjustment condition thresholds.
const (
	recurringRevenueBonusThreshold = 0.20
	revenueCAGRBonusThreshold      = 0.10
	concentrationBonusThreshold    = 0.20
	concentrationPenaltyThreshold  = 0.40
)

// Input carries the deal attributes the calculator reads.  Nullable fields
// left nil simply leave their adjustments untriggered.
type Input struct {
	EBITDA *float64
	SDE    *float64
	UseSDE bool

	// Caller-overridable base range; zero values fall back to the defaults.
	BaseMultipleLow  float64
	BaseMultipleHigh float64

	RecurringRevenuePct   *float64
	RevenueCAGR           *float64
	RevenueTrend          TrendDirection
	CustomerConcentration *float64
	DataCenterExperience  bool
	KeyPersonRisk         RiskLevel
}

// Adjustment is one triggered multiple shift.
type Adjustment struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// Scenario is a fully derived valuation range.  It is created on demand from
// the caller's assumptions and never persisted by this package.
type Scenario struct {
	EarningsBase         float64      `json:"earnings_base"`
	EarningsType         EarningsType `json:"earnings_type"`
	BaseMultipleLow      float64      `json:"base_multiple_low"`
	BaseMultipleHigh     float64      `json:"base_multiple_high"`
	Adjustments          []Adjustment `json:"adjustments"`
	TotalAdjustment      float64      `json:"total_adjustment"`
	AdjustedMultipleLow  float64      `json:"adjusted_multiple_low"`
	AdjustedMultipleHigh float64      `json:"adjusted_multiple_high"`
	ValuationLow         float64      `json:"valuation_low"`
	ValuationHigh        float64      `json:"valuation_high"`
	Midpoint             float64      `json:"midpoint"`
}

// adjustmentRule is one row of the fixed adjustment table.  applies must be
// side-effect free; rules fire independently and their values sum.
type adjustmentRule struct {
	label   string
	value   float64
	reason  string
	applies func(in Input) bool
}

var adjustmentRules = []adjustmentRule{
	{
		label:  "recurring_revenue_strong",
		value:  AdjustmentStep,
		reason: "Recurring revenue above 20% of total supports a premium multiple",
		applies: func(in Input) bool {
			return in.RecurringRevenuePct != nil && *in.RecurringRevenuePct > recurringRevenueBonusThreshold
		},
	},
	{
		label:  "recurring_revenue_absent",
		value:  -AdjustmentStep,
		reason: "No recurring revenue, every dollar must be re-won each year",
		applies: func(in Input) bool {
			return in.RecurringRevenuePct != nil && *in.RecurringRevenuePct == 0
		},
	},
	{
		label:  "revenue_growth",
		value:  AdjustmentStep,
		reason: "Revenue CAGR above 10% demonstrates durable growth",
		applies: func(in Input) bool {
			return in.RevenueCAGR != nil && *in.RevenueCAGR > revenueCAGRBonusThreshold
		},
	},
	{
		label:  "revenue_declining",
		value:  -AdjustmentStep,
		reason: "Declining revenue trend raises sustainability risk",
		applies: func(in Input) bool {
			return in.RevenueTrend == TrendDeclining
		},
	},
	{
		label:  "customer_diversification",
		value:  AdjustmentStep,
		reason: "Top-customer concentration below 20% limits single-account exposure",
		applies: func(in Input) bool {
			return in.CustomerConcentration != nil && *in.CustomerConcentration < concentrationBonusThreshold
		},
	},
	{
		label:  "customer_concentration",
		value:  -AdjustmentStep,
		reason: "Top-customer concentration above 40% is a material revenue risk",
		applies: func(in Input) bool {
			return in.CustomerConcentration != nil && *in.CustomerConcentration > concentrationPenaltyThreshold
		},
	},
	{
		label:  "data_center_experience",
		value:  AdjustmentStep,
		reason: "Existing data-center experience fits the acquisition thesis",
		applies: func(in Input) bool {
			return in.DataCenterExperience
		},
	},
	{
		label:  "key_person_risk",
		value:  -AdjustmentStep,
		reason: "High key-person risk threatens post-close continuity",
		applies: func(in Input) bool {
			return in.KeyPersonRisk == RiskHigh
		},
	},
}

// Compute builds a Scenario from the input, or returns nil when the selected
// earnings base is missing or non-positive.  Nil is a no-op signal, not an
// error: there is simply nothing to value.
func Compute(in Input) *Scenario {
	base, etype := selectEarningsBase(in)
	if !common.IsPositive(base) {
		return nil
	}

	low := in.BaseMultipleLow
	high := in.BaseMultipleHigh
	if low == 0 && high == 0 {
		low, high = DefaultBaseMultipleLow, DefaultBaseMultipleHigh
	}

	var (
		adjustments []Adjustment
		total       float64
	)
	for _, rule := range adjustmentRules {
		if !rule.applies(in) {
			continue
		}
		adjustments = append(adjustments, Adjustment{
			Label:  rule.label,
			Value:  rule.value,
			Reason: rule.reason,
		})
		total += rule.value
	}

	adjLow := low + total
	adjHigh := high + total
	if adjLow < MultipleFloor {
		adjLow = MultipleFloor
	}
	if adjHigh < MultipleFloor {
		adjHigh = MultipleFloor
	}

	valLow := *base * adjLow
	valHigh := *base * adjHigh
	return &Scenario{
		EarningsBase:         *base,
		EarningsType:         etype,
		BaseMultipleLow:      low,
		BaseMultipleHigh:     high,
		Adjustments:          adjustments,
		TotalAdjustment:      total,
		AdjustedMultipleLow:  adjLow,
		AdjustedMultipleHigh: adjHigh,
		ValuationLow:         valLow,
		ValuationHigh:        valHigh,
		Midpoint:             (valLow + valHigh) / 2,
	}
}

func selectEarningsBase(in Input) (*float64, EarningsType) {
	if in.UseSDE {
		return in.SDE, EarningsSDE
	}
	return in.EBITDA, EarningsEBITDA
}
