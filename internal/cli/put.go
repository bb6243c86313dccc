package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/store"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "put [text]",
		Short: "Store an item",
		Long:  "Store an item in the workspace. Text can be a positional arg or piped via stdin.",
		Run:   runPut,
	}

	cmd.Flags().String("id", "", "Item id (default: generated ULID; an existing id is updated)")
	cmd.Flags().StringP("kind", "k", "message", "Kind: message, decision, assumption, plan, resource, fold, context_candidate, memory_item")
	cmd.Flags().String("created-at", "", "RFC3339 timestamp (default: now)")
	cmd.Flags().String("meta", "", "JSON metadata object")

	RootCmd.AddCommand(cmd)
}

func runPut(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetString("id")
	kind, _ := cmd.Flags().GetString("kind")
	createdAt, _ := cmd.Flags().GetString("created-at")
	meta, _ := cmd.Flags().GetString("meta")

	text := readContent(args)
	if strings.TrimSpace(text) == "" {
		exitErr("put", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	var metadata map[string]any
	if meta != "" {
		if err := json.Unmarshal([]byte(meta), &metadata); err != nil {
			exitErr("parse meta", err)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	it, err := s.PutItem(cmd.Context(), store.PutParams{
		Scope:     getScope(),
		ID:        id,
		Kind:      model.ParseKind(kind),
		Text:      strings.TrimSpace(text),
		CreatedAt: createdAt,
		Metadata:  metadata,
	})
	if err != nil {
		exitErr("put", err)
	}

	printOut(cmd, it)
}
