package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

func fullLineItems() []listing.LineItem {
	return []listing.LineItem{
		{Category: listing.CategoryRevenue, Label: "Service revenue", Amount: 2000000},
		{Category: listing.CategoryCOGS, Label: "Materials and labor", Amount: 1200000},
		{Category: listing.CategoryOperatingExpense, Label: "SG&A", Amount: 500000},
	}
}

func healthyPeriod(year int) listing.FinancialPeriod {
	return listing.FinancialPeriod{
		Year:         year,
		TotalRevenue: common.Float64(2000000),
		COGS:         common.Float64(1200000),
		GrossProfit:  common.Float64(800000),
		EBITDA:       common.Float64(300000),
		SDE:          common.Float64(380000),
		GrossMargin:  common.Float64(0.40),
		EBITDAMargin: common.Float64(0.15),
		LineItems:    fullLineItems(),
	}
}

func findByID(findings []Finding, id string) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.ID == id {
			out = append(out, f)
		}
	}
	return out
}

func TestRunEmptyInputReturnsEmptySlice(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	findings := e.Run(nil)
	require.NotNil(t, findings)
	assert.Empty(t, findings)
}

func TestRunHealthyMultiYearHistoryIsClean(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	findings := e.Run([]listing.FinancialPeriod{
		healthyPeriod(2025), healthyPeriod(2024), healthyPeriod(2023),
	})
	assert.Empty(t, findings)
}

func TestRunNegativeEBITDAIsError(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.EBITDA = common.Float64(-50000)
	p.EBITDAMargin = nil
	p.SDE = nil

	findings := e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)})
	hits := findByID(findings, RuleNegativeEBITDA)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityError, hits[0].Severity)
}

func TestRuleIdentifiersAreHyphenated(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	findings := e.Run([]listing.FinancialPeriod{{
		Year:   2023,
		EBITDA: common.Float64(-50000),
	}})

	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, "negative-ebitda")
	for _, id := range ids {
		assert.NotContains(t, id, "_")
	}
}

func TestRunFindingsSortedBySeverity(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.EBITDA = common.Float64(-50000)
	p.EBITDAMargin = nil
	p.SDE = nil
	p.LineItems = nil // triggers the missing-categories info

	findings := e.Run([]listing.FinancialPeriod{p})
	require.GreaterOrEqual(t, len(findings), 3)
	assert.Equal(t, SeverityError, findings[0].Severity)
	for i := 1; i < len(findings); i++ {
		assert.LessOrEqual(t,
			severityRank(findings[i-1].Severity), severityRank(findings[i].Severity))
	}
}

func TestRunUsesMostRecentPeriodForSingleYearChecks(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	old := healthyPeriod(2022)
	old.EBITDA = common.Float64(-100000)
	old.SDE = nil
	// The negative year is history; only the latest period is screened.
	findings := e.Run([]listing.FinancialPeriod{old, healthyPeriod(2025), healthyPeriod(2024)})
	assert.Empty(t, findByID(findings, RuleNegativeEBITDA))
}

func TestRunEarningsBelowFloor(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.EBITDA = common.Float64(90000)
	p.SDE = nil
	p.EBITDAMargin = nil

	findings := e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)})
	hits := findByID(findings, RuleEarningsBelowFloor)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityWarning, hits[0].Severity)
}

func TestRunAddBackRatioTiers(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	warn := healthyPeriod(2025)
	warn.TotalAddBacks = common.Float64(700000) // 35% of revenue
	hits := findByID(e.Run([]listing.FinancialPeriod{warn, healthyPeriod(2024)}), RuleAddBackRatio)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityWarning, hits[0].Severity)

	errp := healthyPeriod(2025)
	errp.TotalAddBacks = common.Float64(1100000) // 55% of revenue
	hits = findByID(e.Run([]listing.FinancialPeriod{errp, healthyPeriod(2024)}), RuleAddBackRatio)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityError, hits[0].Severity)
}

func TestRunGrossMarginBands(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	low := healthyPeriod(2025)
	low.GrossMargin = common.Float64(0.15)
	hits := findByID(e.Run([]listing.FinancialPeriod{low, healthyPeriod(2024)}), RuleGrossMarginOutOfBand)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityWarning, hits[0].Severity)

	high := healthyPeriod(2025)
	high.GrossMargin = common.Float64(0.85)
	hits = findByID(e.Run([]listing.FinancialPeriod{high, healthyPeriod(2024)}), RuleGrossMarginOutOfBand)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityInfo, hits[0].Severity)
}

func TestRunEBITDAMarginBands(t *testing.T) {
	e := NewEngine(DefaultThresholds())

	low := healthyPeriod(2025)
	low.EBITDAMargin = common.Float64(0.05)
	hits := findByID(e.Run([]listing.FinancialPeriod{low, healthyPeriod(2024)}), RuleEBITDAMarginOutOfBand)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityWarning, hits[0].Severity)

	high := healthyPeriod(2025)
	high.EBITDAMargin = common.Float64(0.55)
	hits = findByID(e.Run([]listing.FinancialPeriod{high, healthyPeriod(2024)}), RuleEBITDAMarginOutOfBand)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityInfo, hits[0].Severity)
}

func TestRunOwnerCompConcentration(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	// SDE 500k on 200k EBITDA: implied owner comp is 60% of SDE.
	p.EBITDA = common.Float64(200000)
	p.SDE = common.Float64(500000)
	p.EBITDAMargin = nil

	hits := findByID(e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)}), RuleOwnerCompConcentration)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityWarning, hits[0].Severity)
}

func TestRunYoYSwingOneFindingPerAdjacentPair(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p2025 := healthyPeriod(2025)
	p2025.TotalRevenue = common.Float64(3000000) // +50% vs 2024
	p2024 := healthyPeriod(2024)
	p2024.TotalRevenue = common.Float64(2000000) // −33% vs 2023
	p2023 := healthyPeriod(2023)
	p2023.TotalRevenue = common.Float64(3000000) // +7% vs 2022, under threshold
	p2022 := healthyPeriod(2022)
	p2022.TotalRevenue = common.Float64(2800000)

	// Arithmetic checks only look at the latest year, so keep it consistent.
	p2025.GrossProfit = common.Float64(1800000)
	p2025.GrossMargin = common.Float64(0.60)
	p2025.EBITDAMargin = common.Float64(0.10)

	hits := findByID(e.Run([]listing.FinancialPeriod{p2023, p2025, p2022, p2024}), RuleYoYRevenueSwing)
	assert.Len(t, hits, 2)
}

func TestRunMissingCategoriesInfo(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.LineItems = []listing.LineItem{
		{Category: listing.CategoryRevenue, Label: "Service revenue", Amount: 2000000},
	}

	hits := findByID(e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)}), RuleMissingLineCategories)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityInfo, hits[0].Severity)
	assert.Contains(t, hits[0].Message, "cogs")
}

func TestRunArithmeticInconsistencyError(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.GrossProfit = common.Float64(900000) // revenue − COGS is 800,000

	hits := findByID(e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)}), RuleArithmeticInconsistency)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityError, hits[0].Severity)
}

func TestRunArithmeticWithinToleranceIsClean(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.GrossProfit = common.Float64(800000.5)

	assert.Empty(t, findByID(e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)}), RuleArithmeticInconsistency))
}

func TestRunSinglePeriodInfo(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	findings := e.Run([]listing.FinancialPeriod{healthyPeriod(2025)})
	hits := findByID(findings, RuleSinglePeriod)
	require.Len(t, hits, 1)
	assert.Equal(t, SeverityInfo, hits[0].Severity)
}

func TestRunAdjustedEBITDAPreferred(t *testing.T) {
	e := NewEngine(DefaultThresholds())
	p := healthyPeriod(2025)
	p.EBITDA = common.Float64(-20000)
	p.AdjustedEBITDA = common.Float64(250000)
	p.SDE = common.Float64(320000)

	findings := e.Run([]listing.FinancialPeriod{p, healthyPeriod(2024)})
	assert.Empty(t, findByID(findings, RuleNegativeEBITDA))
	assert.Empty(t, findByID(findings, RuleEarningsBelowFloor))
}

func TestNewEngineZeroThresholdsUsesDefaults(t *testing.T) {
	e := NewEngine(Thresholds{})
	assert.Equal(t, DefaultThresholds(), e.thresholds)
}
