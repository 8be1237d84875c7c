// Package quality screens a target's financial periods for red flags before
// anyone spends diligence hours on them.  Ten deterministic rules each
// produce zero or more findings; findings come back sorted by severity so a
// reviewer sees dealbreakers first.
package quality

import (
	"fmt"
	"math"
	"sort"

	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

// Severity grades a finding.  Sort order is error, warning, info.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

func severityRank(s Severity) int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Stable rule identifiers.
const (
	RuleNegativeEBITDA          = "negative-ebitda"
	RuleEarningsBelowFloor      = "earnings-below-floor"
	RuleAddBackRatio            = "addback-ratio"
	RuleGrossMarginOutOfBand    = "gross-margin-out-of-band"
	RuleEBITDAMarginOutOfBand   = "ebitda-margin-out-of-band"
	RuleOwnerCompConcentration  = "owner-comp-concentration"
	RuleYoYRevenueSwing         = "yoy-revenue-swing"
	RuleMissingLineCategories   = "missing-line-categories"
	RuleArithmeticInconsistency = "arithmetic-inconsistency"
	RuleSinglePeriod            = "single-period"
)

// Finding is one triggered rule.
type Finding struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// Thresholds are the tunable limits the rules check against.  All ratios are
// fractions, not percentages.
type Thresholds struct {
	EarningsFloor        float64
	AddBackWarnRatio     float64
	AddBackErrorRatio    float64
	GrossMarginLow       float64
	GrossMarginHigh      float64
	EBITDAMarginLow      float64
	EBITDAMarginHigh     float64
	OwnerCompShareOfSDE  float64
	YoYRevenueSwing      float64
	ArithmeticTolerance  float64
}

// DefaultThresholds returns limits calibrated for small trade-services
// businesses.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EarningsFloor:       150000,
		AddBackWarnRatio:    0.30,
		AddBackErrorRatio:   0.50,
		GrossMarginLow:      0.25,
		GrossMarginHigh:     0.70,
		EBITDAMarginLow:     0.10,
		EBITDAMarginHigh:    0.45,
		OwnerCompShareOfSDE: 0.40,
		YoYRevenueSwing:     0.20,
		ArithmeticTolerance: 1.0,
	}
}

// expectedCategories every complete period should carry line items for.
var expectedCategories = []listing.LineItemCategory{
	listing.CategoryRevenue,
	listing.CategoryCOGS,
	listing.CategoryOperatingExpense,
}

// Engine runs the rule set.  Stateless and safe for concurrent use.
type Engine struct {
	thresholds Thresholds
}

// NewEngine builds an Engine; a zero-value Thresholds gets the defaults.
func NewEngine(thresholds Thresholds) *Engine {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}
	return &Engine{thresholds: thresholds}
}

// Run evaluates every rule over the periods and returns the findings sorted
// by severity.  An empty input yields an empty, non-nil slice.
func (e *Engine) Run(periods []listing.FinancialPeriod) []Finding {
	findings := []Finding{}
	if len(periods) == 0 {
		return findings
	}

	sorted := listing.SortPeriodsDesc(periods)
	latest := sorted[0]

	findings = appendFinding(findings, e.checkNegativeEBITDA(latest))
	findings = appendFinding(findings, e.checkEarningsFloor(latest))
	findings = appendFinding(findings, e.checkAddBackRatio(latest))
	findings = appendFinding(findings, e.checkGrossMargin(latest))
	findings = appendFinding(findings, e.checkEBITDAMargin(latest))
	findings = appendFinding(findings, e.checkOwnerCompConcentration(latest))
	findings = append(findings, e.checkYoYRevenueSwings(sorted)...)
	findings = appendFinding(findings, e.checkMissingCategories(latest))
	findings = appendFinding(findings, e.checkArithmetic(latest))
	findings = appendFinding(findings, e.checkSinglePeriod(sorted))

	sort.SliceStable(findings, func(i, j int) bool {
		return severityRank(findings[i].Severity) < severityRank(findings[j].Severity)
	})
	return findings
}

func appendFinding(findings []Finding, f *Finding) []Finding {
	if f == nil {
		return findings
	}
	return append(findings, *f)
}

// effectiveEBITDA prefers the adjusted figure when the seller provided one.
func effectiveEBITDA(p listing.FinancialPeriod) *float64 {
	if p.AdjustedEBITDA != nil {
		return p.AdjustedEBITDA
	}
	return p.EBITDA
}

func (e *Engine) checkNegativeEBITDA(p listing.FinancialPeriod) *Finding {
	ebitda := effectiveEBITDA(p)
	if ebitda == nil || *ebitda >= 0 {
		return nil
	}
	return &Finding{
		ID:       RuleNegativeEBITDA,
		Severity: SeverityError,
		Title:    "Negative EBITDA",
		Message:  fmt.Sprintf("EBITDA for %d is %.0f; the business is losing money at the operating line.", p.Year, *ebitda),
	}
}

func (e *Engine) checkEarningsFloor(p listing.FinancialPeriod) *Finding {
	ebitda := effectiveEBITDA(p)
	if ebitda == nil || *ebitda < 0 || *ebitda >= e.thresholds.EarningsFloor {
		return nil
	}
	return &Finding{
		ID:       RuleEarningsBelowFloor,
		Severity: SeverityWarning,
		Title:    "Earnings below thesis floor",
		Message:  fmt.Sprintf("EBITDA of %.0f for %d is below the %.0f minimum the thesis requires.", *ebitda, p.Year, e.thresholds.EarningsFloor),
	}
}

func (e *Engine) checkAddBackRatio(p listing.FinancialPeriod) *Finding {
	if !common.IsPositive(p.TotalRevenue) || !common.IsPositive(p.TotalAddBacks) {
		return nil
	}
	ratio := *p.TotalAddBacks / *p.TotalRevenue
	switch {
	case ratio > e.thresholds.AddBackErrorRatio:
		return &Finding{
			ID:       RuleAddBackRatio,
			Severity: SeverityError,
			Title:    "Add-backs dominate revenue",
			Message:  fmt.Sprintf("Add-backs are %.0f%% of %d revenue; the adjusted earnings are mostly reconstruction.", ratio*100, p.Year),
		}
	case ratio > e.thresholds.AddBackWarnRatio:
		return &Finding{
			ID:       RuleAddBackRatio,
			Severity: SeverityWarning,
			Title:    "High add-back ratio",
			Message:  fmt.Sprintf("Add-backs are %.0f%% of %d revenue; scrutinize each adjustment.", ratio*100, p.Year),
		}
	}
	return nil
}

func (e *Engine) checkGrossMargin(p listing.FinancialPeriod) *Finding {
	if p.GrossMargin == nil {
		return nil
	}
	m := *p.GrossMargin
	switch {
	case m < e.thresholds.GrossMarginLow:
		return &Finding{
			ID:       RuleGrossMarginOutOfBand,
			Severity: SeverityWarning,
			Title:    "Gross margin below band",
			Message:  fmt.Sprintf("Gross margin of %.0f%% in %d is below the expected %.0f%% floor for this segment.", m*100, p.Year, e.thresholds.GrossMarginLow*100),
		}
	case m > e.thresholds.GrossMarginHigh:
		return &Finding{
			ID:       RuleGrossMarginOutOfBand,
			Severity: SeverityInfo,
			Title:    "Gross margin above band",
			Message:  fmt.Sprintf("Gross margin of %.0f%% in %d is unusually high; confirm COGS is fully loaded.", m*100, p.Year),
		}
	}
	return nil
}

func (e *Engine) checkEBITDAMargin(p listing.FinancialPeriod) *Finding {
	if p.EBITDAMargin == nil {
		return nil
	}
	m := *p.EBITDAMargin
	switch {
	case m < e.thresholds.EBITDAMarginLow:
		return &Finding{
			ID:       RuleEBITDAMarginOutOfBand,
			Severity: SeverityWarning,
			Title:    "EBITDA margin below band",
			Message:  fmt.Sprintf("EBITDA margin of %.0f%% in %d is below the %.0f%% floor.", m*100, p.Year, e.thresholds.EBITDAMarginLow*100),
		}
	case m > e.thresholds.EBITDAMarginHigh:
		return &Finding{
			ID:       RuleEBITDAMarginOutOfBand,
			Severity: SeverityInfo,
			Title:    "EBITDA margin above band",
			Message:  fmt.Sprintf("EBITDA margin of %.0f%% in %d is unusually high; verify expense completeness.", m*100, p.Year),
		}
	}
	return nil
}

// checkOwnerCompConcentration flags periods where the SDE-to-EBITDA gap —
// the owner compensation folded back into SDE — makes up too much of SDE,
// meaning the earnings depend heavily on replacing the owner cheaply.
func (e *Engine) checkOwnerCompConcentration(p listing.FinancialPeriod) *Finding {
	ebitda := effectiveEBITDA(p)
	if !common.IsPositive(p.SDE) || ebitda == nil {
		return nil
	}
	impliedOwnerComp := *p.SDE - *ebitda
	if impliedOwnerComp <= 0 {
		return nil
	}
	share := impliedOwnerComp / *p.SDE
	if share <= e.thresholds.OwnerCompShareOfSDE {
		return nil
	}
	return &Finding{
		ID:       RuleOwnerCompConcentration,
		Severity: SeverityWarning,
		Title:    "Owner compensation dominates SDE",
		Message:  fmt.Sprintf("Implied owner compensation is %.0f%% of %d SDE; post-close earnings hinge on replacement cost.", share*100, p.Year),
	}
}

// checkYoYRevenueSwings emits one finding per adjacent period pair whose
// revenue moved more than the swing threshold in either direction.
func (e *Engine) checkYoYRevenueSwings(sorted []listing.FinancialPeriod) []Finding {
	var findings []Finding
	for i := 0; i+1 < len(sorted); i++ {
		newer, older := sorted[i], sorted[i+1]
		if !common.IsPositive(older.TotalRevenue) || newer.TotalRevenue == nil {
			continue
		}
		change := (*newer.TotalRevenue - *older.TotalRevenue) / *older.TotalRevenue
		if math.Abs(change) <= e.thresholds.YoYRevenueSwing {
			continue
		}
		direction := "grew"
		if change < 0 {
			direction = "fell"
		}
		findings = append(findings, Finding{
			ID:       RuleYoYRevenueSwing,
			Severity: SeverityWarning,
			Title:    "Large year-over-year revenue swing",
			Message:  fmt.Sprintf("Revenue %s %.0f%% from %d to %d; understand what drove it.", direction, math.Abs(change)*100, older.Year, newer.Year),
		})
	}
	return findings
}

func (e *Engine) checkMissingCategories(p listing.FinancialPeriod) *Finding {
	var missing []string
	for _, cat := range expectedCategories {
		if !p.HasCategory(cat) {
			missing = append(missing, string(cat))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &Finding{
		ID:       RuleMissingLineCategories,
		Severity: SeverityInfo,
		Title:    "Missing expected line-item categories",
		Message:  fmt.Sprintf("Period %d has no line items for: %v.", p.Year, missing),
	}
}

func (e *Engine) checkArithmetic(p listing.FinancialPeriod) *Finding {
	if p.TotalRevenue == nil || p.COGS == nil || p.GrossProfit == nil {
		return nil
	}
	diff := math.Abs(*p.TotalRevenue - *p.COGS - *p.GrossProfit)
	if diff <= e.thresholds.ArithmeticTolerance {
		return nil
	}
	return &Finding{
		ID:       RuleArithmeticInconsistency,
		Severity: SeverityError,
		Title:    "Financials do not reconcile",
		Message:  fmt.Sprintf("Revenue minus COGS differs from gross profit by %.0f in %d; the statements are internally inconsistent.", diff, p.Year),
	}
}

func (e *Engine) checkSinglePeriod(sorted []listing.FinancialPeriod) *Finding {
	if len(sorted) != 1 {
		return nil
	}
	return &Finding{
		ID:       RuleSinglePeriod,
		Severity: SeverityInfo,
		Title:    "Only one financial period available",
		Message:  fmt.Sprintf("Only %d is on file; trend checks cannot run until more history arrives.", sorted[0].Year),
	}
}
