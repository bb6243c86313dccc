package cli

import (
	"fmt"

	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Run:     runList,
	}

	cmd.Flags().StringP("kind", "k", "", "Filter by kind")
	cmd.Flags().IntP("limit", "l", 20, "Max results (0 = all)")
	cmd.Flags().Bool("ids-only", false, "Only output item ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	items, err := s.ListItems(cmd.Context(), store.ListParams{
		Scope: getScope(),
		Kind:  model.ParseKind(kind),
		Limit: limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if idsOnly {
		for _, it := range items {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", it.ID, it.Kind)
		}
		return
	}

	if items == nil {
		items = []model.Item{}
	}
	printOut(cmd, items)
}
