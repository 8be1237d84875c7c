package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/internal/domain/pipeline"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

func TestPipelineCmd_TableOutput(t *testing.T) {
	path := writeTempJSON(t, "opps.json", []*pipeline.Opportunity{
		{Stage: pipeline.StageProspect, DealValue: common.Float64(2_000_000)},
		{Stage: pipeline.StageDiligence, Listing: &listing.Snapshot{
			AskingPrice: common.Float64(1_500_000),
		}},
		{Stage: pipeline.StageContacted},
	})

	out, err := executeCommand(t, "--output", "table", "pipeline", path)
	require.NoError(t, err)
	assert.Contains(t, out, "prospect")
	assert.Contains(t, out, "diligence")
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "3500000")
}

func TestPipelineCmd_TextOutput(t *testing.T) {
	path := writeTempJSON(t, "opps.json", []*pipeline.Opportunity{
		{Stage: pipeline.StageLOI, OfferPrice: common.Float64(900_000)},
	})

	out, err := executeCommand(t, "pipeline", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 resolved")
}

func TestPipelineCmd_EmptyPipeline(t *testing.T) {
	path := writeTempJSON(t, "opps.json", []*pipeline.Opportunity{})

	out, err := executeCommand(t, "--output", "json", "pipeline", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"resolved": 0`)
}

func TestQualityCmd_FindingsTable(t *testing.T) {
	path := writeTempJSON(t, "periods.json", []listing.FinancialPeriod{
		{
			Year:         2024,
			TotalRevenue: common.Float64(2_000_000),
			EBITDA:       common.Float64(-50_000),
		},
	})

	out, err := executeCommand(t, "--output", "table", "quality", path)
	require.NoError(t, err)
	assert.Contains(t, out, "negative-ebitda")
	assert.Contains(t, out, "error")
}

func TestQualityCmd_CleanInput(t *testing.T) {
	path := writeTempJSON(t, "periods.json", []listing.FinancialPeriod{})

	out, err := executeCommand(t, "quality", path)
	require.NoError(t, err)
	assert.Contains(t, out, "no findings")
}
