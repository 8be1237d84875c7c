package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside-labs/acquisition-engine/internal/application/deal"
	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/pkg/types/common"
)

func TestEvaluateCmd_JSONOutput(t *testing.T) {
	path := writeTempJSON(t, "dossier.json", deal.Dossier{
		Snapshot: &listing.Snapshot{
			ID:          common.NewID(),
			AskingPrice: common.Float64(1_200_000),
			PriceToSDE:  common.Float64(4.0),
			Industry:    common.String("HVAC"),
			Category:    common.String("Commercial"),
		},
	})

	out, err := executeCommand(t, "--output", "json", "evaluate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"fit_score"`)
	assert.Contains(t, out, `"LISTED_MULTIPLE"`)
}

func TestEvaluateCmd_TableOutput(t *testing.T) {
	path := writeTempJSON(t, "dossier.json", deal.Dossier{
		Snapshot: &listing.Snapshot{
			ID:     common.NewID(),
			EBITDA: common.Float64(400_000),
			SDE:    common.Float64(460_000),
		},
	})

	out, err := executeCommand(t, "--output", "table", "evaluate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "fit_score")
	assert.Contains(t, out, "valuation_low")
}

func TestEvaluateCmd_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "evaluate", "/nonexistent/dossier.json")
	assert.Error(t, err)
}

func TestEvaluateCmd_InvalidJSON(t *testing.T) {
	path := writeTempJSON(t, "bad.json", "not a dossier")

	_, err := executeCommand(t, "evaluate", path)
	assert.Error(t, err)
}

func TestEvaluateCmd_EmptyDossier(t *testing.T) {
	path := writeTempJSON(t, "empty.json", deal.Dossier{})

	_, err := executeCommand(t, "evaluate", path)
	assert.Error(t, err)
}
