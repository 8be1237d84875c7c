package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sellside-labs/acquisition-engine/internal/application/deal"
	"github.com/sellside-labs/acquisition-engine/internal/domain/pipeline"
)

// pipelineResult wraps a pipeline summary for table output.
type pipelineResult struct {
	deal.PipelineSummary
}

func (r pipelineResult) TableHeaders() []string {
	return []string{"STAGE", "COUNT", "RESOLVED", "LOW", "HIGH"}
}

func (r pipelineResult) TableRows() [][]string {
	stages := []pipeline.Stage{
		pipeline.StageProspect,
		pipeline.StageContacted,
		pipeline.StageNDA,
		pipeline.StageDiligence,
		pipeline.StageLOI,
		pipeline.StageClosedWon,
		pipeline.StageClosedLost,
	}

	var rows [][]string
	for _, st := range stages {
		sum, ok := r.ByStage[st]
		if !ok {
			continue
		}
		rows = append(rows, []string{
			string(st),
			strconv.Itoa(sum.Count),
			strconv.Itoa(sum.Resolved),
			fmt.Sprintf("%.0f", sum.Value.Low),
			fmt.Sprintf("%.0f", sum.Value.High),
		})
	}
	rows = append(rows, []string{
		"total",
		strconv.Itoa(r.Resolved + r.Unresolved),
		strconv.Itoa(r.Resolved),
		fmt.Sprintf("%.0f", r.Total.Low),
		fmt.Sprintf("%.0f", r.Total.High),
	})
	return rows
}

func (r pipelineResult) String() string {
	return fmt.Sprintf("%d opportunit(ies): %d resolved to %.0f–%.0f (midpoint %.0f), %d without a resolvable value",
		r.Resolved+r.Unresolved, r.Resolved, r.Total.Low, r.Total.High, r.Midpoint, r.Unresolved)
}

// NewPipelineCmd creates the pipeline command: deal-value rollup over a JSON
// array of opportunities.
func NewPipelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pipeline <opportunities.json>",
		Short: "Roll a pipeline of opportunities up into deal-value totals by stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			var opps []*pipeline.Opportunity
			if err := readJSONFile(cmd, args[0], &opps); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			svc, cleanup, err := buildService(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			return PrintResult(cmd, pipelineResult{svc.ResolvePipeline(opps)})
		},
	}
}
