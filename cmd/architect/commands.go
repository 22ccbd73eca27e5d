package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ashita-ai/architect/internal/architect"
	"github.com/ashita-ai/architect/internal/gateway"
	"github.com/ashita-ai/architect/internal/prompts"
)

// offlineBackend stands in for a model when a command only needs the
// operation table.
var offlineBackend = gateway.BackendFunc(func(context.Context, gateway.Request) (string, error) {
	return "", errors.New("no model backend configured")
})

type toolView struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      []architect.Param `json:"params"`
}

func newToolsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the available operations and their parameters as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ops := a.newDispatcher(offlineBackend).Operations()
			views := make([]toolView, 0, len(ops))
			for _, op := range ops {
				views = append(views, toolView{Name: op.Name, Description: op.Description, Params: op.Params()})
			}
			return writeIndented(cmd.OutOrStdout(), views)
		},
	}
}

type promptView struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Arguments   []argumentView `json:"arguments"`
}

type argumentView struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
}

func newPromptsCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "Print the prompt catalog as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := prompts.Load()
			if err != nil {
				return fmt.Errorf("prompt catalog: %w", err)
			}
			entries := catalog.Entries()
			views := make([]promptView, 0, len(entries))
			for _, e := range entries {
				args := make([]argumentView, 0, len(e.Arguments))
				for _, arg := range e.Arguments {
					args = append(args, argumentView(arg))
				}
				views = append(views, promptView{Name: e.Name, Description: e.Description, Arguments: args})
			}
			return writeIndented(cmd.OutOrStdout(), views)
		},
	}
}

func newCallCmd(a *app) *cobra.Command {
	var rawArgs string

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Run one operation and print its result",
		Example: `  architect call analyze_architecture \
    --args '{"description":"Monolith on one VM","requirements":["99.9% uptime"],"domain":"retail"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var arguments map[string]any
			if rawArgs != "" {
				if err := json.Unmarshal([]byte(rawArgs), &arguments); err != nil {
					return fmt.Errorf("--args must be a JSON object: %w", err)
				}
			}

			backend, err := newBackend(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return fmt.Errorf("model backend: %w", err)
			}

			env := a.newDispatcher(backend).Dispatch(cmd.Context(), args[0], arguments)
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), env.Text()); err != nil {
				return err
			}
			if env.IsError {
				return errToolFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rawArgs, "args", "", "operation arguments as a JSON object")
	return cmd
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
