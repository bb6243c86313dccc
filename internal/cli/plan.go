package cli

import (
	"strings"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/planner"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "plan [query]",
		Short: "Recommend items to unfold into the active set",
		Long: "Rank inactive items by lexical match and closure cost, and recommend seeds whose " +
			"closure fits the budget. With --apply, unfold the given seeds instead.",
		Run: runPlan,
	}

	cmd.Flags().StringP("input", "i", "", "Pool file (YAML or JSON) instead of the workspace")
	cmd.Flags().StringP("active", "a", "", "Comma-separated ids already in the active set")
	cmd.Flags().String("apply", "", "Comma-separated seed ids to unfold")
	cmd.Flags().IntP("budget", "b", 0, "Token budget for unfolded items (default from config)")
	cmd.Flags().Int("top-k", 0, "Max recommended seeds (default from config)")
	cmd.Flags().String("kinds", "", "Comma-separated closure relationship kinds")
	cmd.Flags().String("direction", "", "Closure direction: out, in, both (default from config)")

	RootCmd.AddCommand(cmd)
}

func runPlan(cmd *cobra.Command, args []string) {
	active, _ := cmd.Flags().GetString("active")
	apply, _ := cmd.Flags().GetString("apply")
	kinds, _ := cmd.Flags().GetString("kinds")
	direction, _ := cmd.Flags().GetString("direction")

	p := loadConfig().PlanParams()
	if cmd.Flags().Changed("budget") {
		p.Budget, _ = cmd.Flags().GetInt("budget")
	}
	if cmd.Flags().Changed("top-k") {
		p.TopK, _ = cmd.Flags().GetInt("top-k")
	}
	if kinds != "" {
		p.ClosureKinds = splitIDs(kinds)
	}
	if direction != "" {
		p.Direction = deps.ParseDirection(strings.ToLower(direction))
	}

	pool := loadPool(cmd)
	p.Items = pool.Items
	p.Relationships = pool.Relationships
	p.ActiveIDs = splitIDs(active)

	if apply != "" {
		printOut(cmd, planner.ApplySeeds(splitIDs(apply), p))
		return
	}
	p.Query = strings.TrimSpace(readContent(args))
	printOut(cmd, planner.PlanUnfold(p))
}
