package cli

import (
	"github.com/rcliao/context-priority/internal/tokens"
	"github.com/spf13/cobra"
)

type estimateOutput struct {
	BudgetTokens int                    `json:"budget_tokens" yaml:"budget_tokens"`
	Display      tokens.DisplayEstimate `json:"display" yaml:"display"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "estimate [text]",
		Short: "Estimate the token cost of text",
		Long:  "Print the budgeting estimate used by selection and the coarser display estimate.",
		Run:   runEstimate,
	}

	RootCmd.AddCommand(cmd)
}

func runEstimate(cmd *cobra.Command, args []string) {
	text := readContent(args)
	printOut(cmd, estimateOutput{
		BudgetTokens: tokens.Estimate(text),
		Display:      tokens.EstimateDisplay(text),
	})
}
