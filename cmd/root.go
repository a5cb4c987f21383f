package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/abhisek/parabola/internal/grading"
	"github.com/abhisek/parabola/internal/llm"
	"github.com/abhisek/parabola/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "parabola",
	Short: "Quadratic graph drawing exercise",
	Long:  "Parabola walks students through graphing a quadratic function in five steps and grades their explanation with an LLM.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd, false)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PARABOLA_DB env var)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(problemCmd)
	rootCmd.AddCommand(submissionsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then PARABOLA_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the local SQLite database.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newLogger builds the slog logger selected by --log-format.
func newLogger(cmd *cobra.Command, w io.Writer) *slog.Logger {
	format, _ := cmd.Flags().GetString("log-format")
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, nil))
	}
	return slog.New(slog.NewTextHandler(w, nil))
}

// newGrader builds the LLM grader, or grading.Unavailable when no provider
// is configured. Grading calls are logged to events.
func newGrader(ctx context.Context, events store.EventRepo, attachImage bool, logger *slog.Logger) grading.Gateway {
	cfg, ok := llm.Resolve()
	if !ok {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", cfg.Validate())
		fmt.Fprintln(os.Stderr, "Explanations will get a provisional zero score.")
		return grading.Unavailable{}
	}
	provider, err := llm.NewProvider(ctx, cfg, events)
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider unavailable:", err)
		fmt.Fprintln(os.Stderr, "Explanations will get a provisional zero score.")
		return grading.Unavailable{}
	}
	gcfg := grading.DefaultGraderConfig()
	gcfg.AttachImage = attachImage
	if cfg.Grading.Timeout > 0 {
		gcfg.Timeout = cfg.Grading.Timeout
	}
	if cfg.Grading.MaxTokens > 0 {
		gcfg.MaxTokens = cfg.Grading.MaxTokens
	}
	return grading.NewGrader(provider, gcfg, logger)
}
