package cli

import (
	"io"
	"os"

	"github.com/rcliao/context-priority/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a pool bundle",
		Long:  "Import a YAML or JSON pool bundle (file or stdin) into the current scope. Expects the format produced by export.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	pool, err := config.ParsePool(data)
	if err != nil {
		exitErr("parse pool", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := s.ImportPool(cmd.Context(), getScope(), pool)
	if err != nil {
		exitErr("import", err)
	}

	printOut(cmd, res)
}
