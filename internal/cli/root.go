// Package cli implements the context-priority CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/context-priority/internal/config"
	"github.com/rcliao/context-priority/internal/logging"
	"github.com/rcliao/context-priority/internal/model"
	"github.com/rcliao/context-priority/internal/store"
)

var (
	dbPath     string
	configPath string
	scopeFlag  string
	logLevel   string
	formatFlag string

	cfgOnce sync.Once
	cfg     *config.Config
	cfgErr  error
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "context-priority",
	Short: "Rank and budget conversation context for LLM prompts",
	Long: "Scores a pool of conversation items against a request, applies manual rules, " +
		"and picks the subset that fits a token budget without splitting dependencies. " +
		"Items live in a SQLite workspace or in a YAML/JSON pool file.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $CONTEXT_PRIORITY_DB or ~/.context-priority/workspace.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ~/.context-priority/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&scopeFlag, "scope", "s", "", "Workspace scope (default from config)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or yaml")
}

func loadConfig() *config.Config {
	cfgOnce.Do(func() {
		cfg, cfgErr = config.Load(configPath)
	})
	if cfgErr != nil {
		exitErr("load config", cfgErr)
	}
	return cfg
}

func logger() *slog.Logger {
	level := logLevel
	if level == "" {
		level = loadConfig().LogLevel
	}
	return logging.NewLogger(os.Stderr, logging.LevelFromString(level))
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	if env := os.Getenv("CONTEXT_PRIORITY_DB"); env != "" {
		return env
	}
	return loadConfig().DBPath
}

func getScope() string {
	if scopeFlag != "" {
		return scopeFlag
	}
	return loadConfig().Scope
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath(), logger())
}

// loadPool reads the candidate pool from --input when given, else from the workspace.
func loadPool(cmd *cobra.Command) *model.Pool {
	input, _ := cmd.Flags().GetString("input")
	if input != "" {
		pool, err := config.LoadPool(input)
		if err != nil {
			exitErr("load pool", err)
		}
		return pool
	}
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()
	pool, err := s.Pool(cmd.Context(), getScope())
	if err != nil {
		exitErr("load pool", err)
	}
	return pool
}

// readContent takes positional args first, then piped stdin.
func readContent(args []string) string {
	if len(args) > 0 {
		return strings.Join(args, " ")
	}
	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) == 0 {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		return string(b)
	}
	return ""
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func printOut(cmd *cobra.Command, v any) {
	var (
		b   []byte
		err error
	)
	switch formatFlag {
	case "yaml", "yml":
		b, err = yaml.Marshal(v)
	default:
		b, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		exitErr("encode output", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(b), "\n"))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
