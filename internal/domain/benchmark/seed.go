package benchmark

import "github.com/sellside-labs/acquisition-engine/pkg/types/common"

// SeedRows returns the built-in trade-services benchmark set, matching the
// rows the database migrations seed.  It backs offline evaluation when no
// database is configured.
func SeedRows() []Benchmark {
	row := func(industry, category string, sdeMed, sdeP25, sdeP75, marginMed, marginP25, marginP75, ebitdaMult float64) Benchmark {
		return Benchmark{
			Industry:             industry,
			Category:             category,
			SDEMultipleMedian:    common.Float64(sdeMed),
			SDEMultipleP25:       common.Float64(sdeP25),
			SDEMultipleP75:       common.Float64(sdeP75),
			EBITDAMarginMedian:   common.Float64(marginMed),
			EBITDAMarginP25:      common.Float64(marginP25),
			EBITDAMarginP75:      common.Float64(marginP75),
			EBITDAMultipleMedian: common.Float64(ebitdaMult),
		}
	}
	return []Benchmark{
		row("HVAC", "Commercial", 3.2, 2.5, 4.1, 0.14, 0.09, 0.19, 4.2),
		row("HVAC", "Residential", 2.9, 2.2, 3.6, 0.12, 0.08, 0.17, 3.8),
		row("Electrical", "Commercial", 3.0, 2.4, 3.9, 0.13, 0.08, 0.18, 4.0),
		row("Plumbing", "Commercial", 3.1, 2.4, 3.8, 0.13, 0.09, 0.18, 4.0),
		row("Mechanical", "Commercial", 3.4, 2.6, 4.3, 0.15, 0.10, 0.20, 4.4),
		{
			Industry:             DefaultIndustry,
			SDEMultipleMedian:    common.Float64(3.0),
			EBITDAMarginMedian:   common.Float64(0.15),
			EBITDAMultipleMedian: common.Float64(4.0),
		},
	}
}
