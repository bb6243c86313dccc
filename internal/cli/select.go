package cli

import (
	"strings"
	"time"

	"github.com/rcliao/context-priority/internal/deps"
	"github.com/rcliao/context-priority/internal/engine"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/planner"
	"github.com/rcliao/context-priority/internal/rules"
	"github.com/spf13/cobra"
)

// nowFunc is the clock used for recency.
var nowFunc = time.Now

type selectOutput struct {
	Request   string                `json:"request" yaml:"request"`
	Selection model.SelectionResult `json:"selection" yaml:"selection"`
	Scores    []model.Score         `json:"scores,omitempty" yaml:"scores,omitempty"`
	DepMap    deps.Map              `json:"dependency_map,omitempty" yaml:"dependency_map,omitempty"`
	Prompt    string                `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Warnings  []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "select [request]",
		Short: "Pick the items that fit a token budget",
		Long: "Run the full pipeline: score, apply manual rules, build the dependency map, and " +
			"select within the budget. Dependency closures are never split.",
		Run: runSelect,
	}

	cmd.Flags().StringP("input", "i", "", "Pool file (YAML or JSON) instead of the workspace")
	cmd.Flags().IntP("budget", "b", 0, "Token budget (default from config)")
	cmd.Flags().Bool("explain", false, "Include scores and the dependency map")
	cmd.Flags().Bool("compile", false, "Also render the selected items as prompt text")

	RootCmd.AddCommand(cmd)
}

func runSelect(cmd *cobra.Command, args []string) {
	c := loadConfig()
	budget := c.Budget
	if cmd.Flags().Changed("budget") {
		budget, _ = cmd.Flags().GetInt("budget")
	}
	explain, _ := cmd.Flags().GetBool("explain")
	compile, _ := cmd.Flags().GetBool("compile")
	request := strings.TrimSpace(readContent(args))

	pool := loadPool(cmd)
	log := logger()

	res := engine.Run(engine.Input{
		Items:         pool.Items,
		Relationships: pool.Relationships,
		Rules:         rules.Map(pool.Rules),
		Request:       request,
		Budget:        budget,
		Now:           nowFunc(),
	}, c.EngineSettings())

	out := selectOutput{Request: request, Selection: res.Selection}
	for _, w := range res.Warnings {
		log.Warn("selection input", "err", w)
		out.Warnings = append(out.Warnings, w.Error())
	}
	if explain {
		out.Scores = res.Scores
		out.DepMap = res.DependencyMap
	}
	if compile {
		ids := make([]string, 0, len(res.Selection.Selected))
		for _, sc := range res.Selection.Selected {
			ids = append(ids, sc.ID)
		}
		out.Prompt, _ = planner.CompileActive(pool.Items, ids, pool.Relationships)
	}
	log.Debug("selection done", "items", len(pool.Items), "selected", len(res.Selection.Selected),
		"used_tokens", res.Selection.UsedTokens, "budget", budget)

	printOut(cmd, out)
}
