package listing

import "sort"

// LineItemCategory tags a financial-statement line item.  The quality-check
// engine uses these tags to verify that the expected statement sections are
// present; the enumeration is closed so new categories require a code change.
type LineItemCategory string

const (
	CategoryRevenue           LineItemCategory = "revenue"
	CategoryCOGS              LineItemCategory = "cogs"
	CategoryOperatingExpense  LineItemCategory = "operating_expense"
	CategoryOwnerCompensation LineItemCategory = "owner_compensation"
	CategoryAddBack           LineItemCategory = "add_back"
	CategoryOther             LineItemCategory = "other"
)

// LineItem is a single categorised row of a financial period.
type LineItem struct {
	Category LineItemCategory `json:"category"`
	Label    string           `json:"label"`
	Amount   float64          `json:"amount"`
}

// FinancialPeriod is one fiscal year of structured statement data for a
// target.  Margins are fractions in [0,1], not percentages.  Fields the
// upstream extraction could not populate are nil.
type FinancialPeriod struct {
	Year int `json:"year"`

	TotalRevenue   *float64 `json:"total_revenue"`
	COGS           *float64 `json:"cogs"`
	GrossProfit    *float64 `json:"gross_profit"`
	EBITDA         *float64 `json:"ebitda"`
	AdjustedEBITDA *float64 `json:"adjusted_ebitda"`
	SDE            *float64 `json:"sde"`
	GrossMargin    *float64 `json:"gross_margin"`
	EBITDAMargin   *float64 `json:"ebitda_margin"`
	TotalAddBacks  *float64 `json:"total_add_backs"`

	LineItems []LineItem `json:"line_items"`
}

// HasCategory reports whether any line item carries the given category.
func (p *FinancialPeriod) HasCategory(cat LineItemCategory) bool {
	for _, li := range p.LineItems {
		if li.Category == cat {
			return true
		}
	}
	return false
}

// SortPeriodsDesc returns a copy of periods ordered by year, most recent
// first.  The input slice is not modified.
func SortPeriodsDesc(periods []FinancialPeriod) []FinancialPeriod {
	sorted := make([]FinancialPeriod, len(periods))
	copy(sorted, periods)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Year > sorted[j].Year
	})
	return sorted
}
