package cli

import (
	"github.com/rcliao/context-priority/internal/engine"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/spf13/cobra"
)

type itemView struct {
	model.Item    `yaml:",inline"`
	Rule          model.ManualRule     `json:"rule" yaml:"rule"`
	Tokens        int                  `json:"estimated_tokens" yaml:"estimated_tokens"`
	Relationships []model.Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve an item with its rule and token estimate",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	cmd.Flags().Bool("links", false, "Include relationships touching the item")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	withLinks, _ := cmd.Flags().GetBool("links")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	it, err := s.GetItem(ctx, args[0])
	if err != nil {
		exitErr("get", err)
	}

	scope := getScope()
	rm, err := s.Rules(ctx, scope)
	if err != nil {
		exitErr("rules", err)
	}
	view := itemView{Item: *it, Rule: model.RuleNone, Tokens: engine.EstimateTokens(it.Text)}
	if r, ok := rm[it.ID]; ok {
		view.Rule = r
	}

	if withLinks {
		rels, err := s.Relationships(ctx, scope)
		if err != nil {
			exitErr("relationships", err)
		}
		for _, r := range rels {
			if r.FromID == it.ID || r.ToID == it.ID {
				view.Relationships = append(view.Relationships, r)
			}
		}
	}

	printOut(cmd, view)
}
