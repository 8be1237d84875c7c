package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

func TestHasReportedEarnings(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{"both present", Snapshot{EBITDA: common.Float64(100), SDE: common.Float64(120)}, true},
		{"only ebitda", Snapshot{EBITDA: common.Float64(100)}, false},
		{"only sde", Snapshot{SDE: common.Float64(120)}, false},
		{"neither", Snapshot{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.HasReportedEarnings())
		})
	}
}

func TestEffectiveEBITDA_PrefersReported(t *testing.T) {
	s := Snapshot{EBITDA: common.Float64(500000), InferredEBITDA: common.Float64(420000)}
	assert.Equal(t, 500000.0, *s.EffectiveEBITDA())

	s = Snapshot{InferredEBITDA: common.Float64(420000)}
	assert.Equal(t, 420000.0, *s.EffectiveEBITDA())

	assert.Nil(t, (&Snapshot{}).EffectiveEBITDA())
}

func TestEffectiveSDE_PrefersReported(t *testing.T) {
	s := Snapshot{SDE: common.Float64(300000), InferredSDE: common.Float64(250000)}
	assert.Equal(t, 300000.0, *s.EffectiveSDE())

	s = Snapshot{InferredSDE: common.Float64(250000)}
	assert.Equal(t, 250000.0, *s.EffectiveSDE())
}

func TestHasCategory(t *testing.T) {
	p := FinancialPeriod{LineItems: []LineItem{
		{Category: CategoryRevenue, Label: "Service revenue", Amount: 1_200_000},
		{Category: CategoryCOGS, Label: "Materials", Amount: 400_000},
	}}
	assert.True(t, p.HasCategory(CategoryRevenue))
	assert.True(t, p.HasCategory(CategoryCOGS))
	assert.False(t, p.HasCategory(CategoryOwnerCompensation))
}

func TestSortPeriodsDesc(t *testing.T) {
	periods := []FinancialPeriod{{Year: 2021}, {Year: 2023}, {Year: 2022}}
	sorted := SortPeriodsDesc(periods)

	assert.Equal(t, []int{2023, 2022, 2021}, []int{sorted[0].Year, sorted[1].Year, sorted[2].Year})
	// input untouched
	assert.Equal(t, 2021, periods[0].Year)
}
