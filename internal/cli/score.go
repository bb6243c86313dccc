package cli

import (
	"sort"
	"strings"

	"github.com/rcliao/context-priority/internal/engine"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/rules"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "score [request]",
		Short: "Score the pool against a request",
		Long:  "Score every item against the request (positional or stdin) and apply manual rules. Output is sorted by priority.",
		Run:   runScore,
	}

	cmd.Flags().StringP("input", "i", "", "Pool file (YAML or JSON) instead of the workspace")
	cmd.Flags().Bool("no-rules", false, "Skip the manual rule overlay")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")

	RootCmd.AddCommand(cmd)
}

func runScore(cmd *cobra.Command, args []string) {
	noRules, _ := cmd.Flags().GetBool("no-rules")
	limit, _ := cmd.Flags().GetInt("limit")
	request := strings.TrimSpace(readContent(args))

	pool := loadPool(cmd)
	scores := engine.ScoreItems(pool.Items, request, nowFunc())
	if !noRules {
		scores = engine.ApplyManualRules(scores, rules.Map(pool.Rules))
	}

	sort.SliceStable(scores, func(i, j int) bool {
		if scores[i].Priority != scores[j].Priority {
			return scores[i].Priority > scores[j].Priority
		}
		return scores[i].ID < scores[j].ID
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	if scores == nil {
		scores = []model.Score{}
	}

	printOut(cmd, scores)
}
