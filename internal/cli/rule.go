package cli

import (
	"fmt"

	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/rules"
	"github.com/spf13/cobra"
)

func init() {
	ruleCmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage manual rules (pin, always, never)",
	}

	setCmd := &cobra.Command{
		Use:   "set <id> <none|pin|always|never>",
		Short: "Set the manual rule for an item",
		Args:  cobra.ExactArgs(2),
		Run:   runRuleSet,
	}

	clearCmd := &cobra.Command{
		Use:   "clear <id>",
		Short: "Remove the manual rule for an item",
		Args:  cobra.ExactArgs(1),
		Run:   runRuleClear,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List manual rules of the scope",
		Run:   runRuleList,
	}

	ruleCmd.AddCommand(setCmd, clearCmd, listCmd)
	RootCmd.AddCommand(ruleCmd)
}

func runRuleSet(cmd *cobra.Command, args []string) {
	rule, err := rules.Parse(args[1])
	if err != nil {
		exitErr("parse rule", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if _, err := s.GetItem(cmd.Context(), args[0]); err != nil {
		exitErr("rule", err)
	}
	if err := s.SetRule(cmd.Context(), getScope(), args[0], rule); err != nil {
		exitErr("rule", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"rule":%q}`+"\n", args[0], rule)
}

func runRuleClear(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.ClearRule(cmd.Context(), getScope(), args[0]); err != nil {
		exitErr("rule", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"id":%q,"rule":%q}`+"\n", args[0], model.RuleNone)
}

func runRuleList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	rm, err := s.Rules(cmd.Context(), getScope())
	if err != nil {
		exitErr("rule", err)
	}

	printOut(cmd, rm)
}
