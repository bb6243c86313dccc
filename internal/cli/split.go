package cli

import (
	"fmt"

	"github.com/rcliao/context-priority/internal/chunker"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/store"
	"github.com/spf13/cobra"
)

type splitOutput struct {
	ParentID      string               `json:"parent_id" yaml:"parent_id"`
	Parts         []model.Item         `json:"parts" yaml:"parts"`
	Relationships []model.Relationship `json:"relationships" yaml:"relationships"`
	Saved         bool                 `json:"saved" yaml:"saved"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "split <id>",
		Short: "Split an oversized item into linked parts",
		Long:  "Split an item's text on headings and paragraph breaks. With --save, parts are stored and linked to the parent by has-part.",
		Args:  cobra.ExactArgs(1),
		Run:   runSplit,
	}

	cmd.Flags().Int("target", chunker.DefaultTargetChars, "Target characters per part")
	cmd.Flags().Int("max", chunker.DefaultMaxChars, "Maximum characters per part")
	cmd.Flags().Bool("save", false, "Store the parts and has-part relationships")

	RootCmd.AddCommand(cmd)
}

func runSplit(cmd *cobra.Command, args []string) {
	target, _ := cmd.Flags().GetInt("target")
	maxChars, _ := cmd.Flags().GetInt("max")
	save, _ := cmd.Flags().GetBool("save")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	parent, err := s.GetItem(ctx, args[0])
	if err != nil {
		exitErr("split", err)
	}

	parts, rels := chunker.Split(*parent, chunker.Options{TargetChars: target, MaxChars: maxChars}, nil)
	if len(parts) == 0 {
		exitErr("split", fmt.Errorf("item %s fits in a single part", parent.ID))
	}

	if save {
		scope := getScope()
		for _, p := range parts {
			if _, err := s.PutItem(ctx, store.PutParams{
				Scope:     scope,
				ID:        p.ID,
				Kind:      p.Kind,
				Text:      p.Text,
				CreatedAt: p.CreatedAt,
				Metadata:  p.Metadata,
			}); err != nil {
				exitErr("save part", err)
			}
		}
		for _, r := range rels {
			if _, err := s.Link(ctx, store.LinkParams{FromID: r.FromID, ToID: r.ToID, Kind: r.Kind}); err != nil {
				exitErr("link part", err)
			}
		}
	}

	printOut(cmd, splitOutput{ParentID: parent.ID, Parts: parts, Relationships: rels, Saved: save})
}
