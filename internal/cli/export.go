package cli

import (
	"fmt"
	"os"

	"github.com/rcliao/context-priority/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the scope as a pool bundle",
		Long:  "Export items, relationships, and rules of the current scope. The output can be fed back through import or --input.",
		Run:   runExport,
	}

	cmd.Flags().StringP("output", "o", "", "Write the bundle as YAML to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	output, _ := cmd.Flags().GetString("output")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	pool, err := s.ExportPool(cmd.Context(), getScope())
	if err != nil {
		exitErr("export", err)
	}

	if output == "" {
		printOut(cmd, pool)
		return
	}

	b, err := config.WritePool(pool)
	if err != nil {
		exitErr("encode pool", err)
	}
	if err := os.WriteFile(output, b, 0o644); err != nil {
		exitErr("write pool", err)
	}
	logger().Info("exported pool", "scope", getScope(), "items", len(pool.Items), "path", output)
	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"items":%d,"relationships":%d,"rules":%d,"path":%q}`+"\n",
		len(pool.Items), len(pool.Relationships), len(pool.Rules), output)
}
