package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sellside-labs/acquisition-engine/internal/application/deal"
)

// evaluateResult wraps an evaluation for table output.
type evaluateResult struct {
	*deal.Evaluation
}

func (r evaluateResult) TableHeaders() []string {
	return []string{"FIELD", "VALUE"}
}

func (r evaluateResult) TableRows() [][]string {
	rows := [][]string{
		{"listing", r.ListingID},
		{"fit_score", strconv.Itoa(r.FitScore.FitScore)},
		{"findings", strconv.Itoa(len(r.Findings))},
	}
	if r.Inference != nil {
		rows = append(rows,
			[]string{"inference_method", string(r.Inference.Method)},
			[]string{"inference_confidence", fmt.Sprintf("%.2f", r.Inference.Confidence)},
		)
	}
	if r.Valuation != nil {
		rows = append(rows,
			[]string{"valuation_low", fmt.Sprintf("%.0f", r.Valuation.ValuationLow)},
			[]string{"valuation_high", fmt.Sprintf("%.0f", r.Valuation.ValuationHigh)},
			[]string{"valuation_midpoint", fmt.Sprintf("%.0f", r.Valuation.Midpoint)},
		)
	}
	return rows
}

func (r evaluateResult) String() string {
	s := fmt.Sprintf("listing %s: fit score %d, %d finding(s)",
		r.ListingID, r.FitScore.FitScore, len(r.Findings))
	if r.Valuation != nil {
		s += fmt.Sprintf(", valued %.0f–%.0f", r.Valuation.ValuationLow, r.Valuation.ValuationHigh)
	}
	return s
}

// NewEvaluateCmd creates the evaluate command: full evaluation of one listing
// dossier read from a JSON file.
func NewEvaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate <dossier.json>",
		Short: "Evaluate a listing dossier: infer earnings, value, score fit, screen quality",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			var dossier deal.Dossier
			if err := readJSONFile(cmd, args[0], &dossier); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cliCtx.Timeout)
			defer cancel()

			svc, cleanup, err := buildService(ctx, cliCtx)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := svc.EvaluateListing(ctx, &dossier)
			if err != nil {
				return err
			}

			return PrintResult(cmd, evaluateResult{out})
		},
	}
}
