package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ashita-ai/architect/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

// errToolFailed makes `architect call` exit non-zero after printing an
// error envelope. The envelope text is the only output.
var errToolFailed = errors.New("tool call failed")

func main() {
	os.Exit(run0())
}

func run0() int {
	// Load .env file if present (non-fatal; production won't have one).
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errToolFailed) {
			fmt.Fprintln(os.Stderr, "architect:", err)
		}
		return 1
	}
	return 0
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "architect",
		Short: "MCP server for software architecture analysis, generation and evaluation",
		Long: `architect exposes three MCP tools (analyze_architecture,
generate_architecture, evaluate_architecture) that delegate reasoning to a
language model and validate its structured answer.

Configuration is read from the environment; see ARCHITECT_* variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = newLogger(cmd.ErrOrStderr(), cfg.SlogLevel())
			slog.SetDefault(a.logger)
			return nil
		},
	}

	root.AddCommand(
		newServeCmd(a),
		newToolsCmd(a),
		newPromptsCmd(a),
		newCallCmd(a),
	)
	return root
}

// newLogger writes JSON logs to w. Stdout belongs to the stdio transport,
// so callers pass stderr.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
