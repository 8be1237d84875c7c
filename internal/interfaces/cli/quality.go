package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sellside-labs/acquisition-engine/internal/application/deal"
	"github.com/sellside-labs/acquisition-engine/internal/domain/listing"
	"github.com/sellside-labs/acquisition-engine/internal/domain/quality"
)

// qualityResult wraps findings for table output.
type qualityResult struct {
	Findings []quality.Finding `json:"findings"`
}

func (r qualityResult) TableHeaders() []string {
	return []string{"SEVERITY", "RULE", "MESSAGE"}
}

func (r qualityResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		rows = append(rows, []string{string(f.Severity), f.ID, f.Message})
	}
	return rows
}

func (r qualityResult) String() string {
	if len(r.Findings) == 0 {
		return "no findings"
	}
	s := fmt.Sprintf("%d finding(s):", len(r.Findings))
	for _, f := range r.Findings {
		s += fmt.Sprintf("\n  [%s] %s: %s", f.Severity, f.ID, f.Message)
	}
	return s
}

// NewQualityCmd creates the quality command: financial-statement screening
// over a JSON array of annual periods.
func NewQualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality <periods.json>",
		Short: "Screen financial periods for data-quality and red-flag issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			var periods []listing.FinancialPeriod
			if err := readJSONFile(cmd, args[0], &periods); err != nil {
				return err
			}

			eng := quality.NewEngine(deal.ThresholdsFromConfig(cliCtx.Config.Quality))
			return PrintResult(cmd, qualityResult{Findings: eng.Run(periods)})
		},
	}
}
