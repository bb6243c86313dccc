package cli

import (
	"github.com/rcliao/context-priority/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	scopesCmd := &cobra.Command{
		Use:   "scopes",
		Short: "Scope management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List scopes with live items",
		Run:   runScopesList,
	}

	scopesCmd.AddCommand(listCmd)
	RootCmd.AddCommand(scopesCmd)
}

func runScopesList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rows, err := s.ListScopes(cmd.Context())
	if err != nil {
		exitErr("list scopes", err)
	}
	if rows == nil {
		rows = []store.ScopeStats{}
	}

	printOut(cmd, rows)
}
