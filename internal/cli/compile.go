package cli

import (
	"fmt"

	"github.com/rcliao/context-priority/internal/planner"
	"github.com/spf13/cobra"
)

type compileOutput struct {
	Prompt  string                 `json:"prompt" yaml:"prompt"`
	Explain planner.CompileExplain `json:"explain" yaml:"explain"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Render active items as prompt text",
		Long:  "Render the active ids in order. A parent is left out when one of its parts is also active.",
		Run:   runCompile,
	}

	cmd.Flags().StringP("input", "i", "", "Pool file (YAML or JSON) instead of the workspace")
	cmd.Flags().StringP("active", "a", "", "Comma-separated active ids, in prompt order (required)")
	cmd.Flags().Bool("text", false, "Print only the rendered prompt")

	cmd.MarkFlagRequired("active")

	RootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) {
	active, _ := cmd.Flags().GetString("active")
	textOnly, _ := cmd.Flags().GetBool("text")

	pool := loadPool(cmd)
	prompt, explain := planner.CompileActive(pool.Items, splitIDs(active), pool.Relationships)

	if textOnly {
		fmt.Fprintln(cmd.OutOrStdout(), prompt)
		return
	}
	printOut(cmd, compileOutput{Prompt: prompt, Explain: explain})
}
