package cli

import (
	"github.com/rcliao/context-priority/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "link <from-id> <to-id>",
		Short: "Create or remove a relationship between items",
		Args:  cobra.ExactArgs(2),
		Run:   runLink,
	}

	cmd.Flags().StringP("kind", "k", "", "Relationship kind, e.g. depends-on, references, has-part, replies-to (required)")
	cmd.Flags().Bool("rm", false, "Remove the relationship")

	cmd.MarkFlagRequired("kind")

	RootCmd.AddCommand(cmd)
}

func runLink(cmd *cobra.Command, args []string) {
	kind, _ := cmd.Flags().GetString("kind")
	rm, _ := cmd.Flags().GetBool("rm")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rel, err := s.Link(cmd.Context(), store.LinkParams{
		FromID: args[0],
		ToID:   args[1],
		Kind:   kind,
		Remove: rm,
	})
	if err != nil {
		exitErr("link", err)
	}

	printOut(cmd, rel)
}
