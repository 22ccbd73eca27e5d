package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	for _, e := range s.catalog.Entries() {
		opts := []mcplib.PromptOption{mcplib.WithPromptDescription(e.Description)}
		for _, a := range e.Arguments {
			argOpts := []mcplib.ArgumentOption{mcplib.ArgumentDescription(a.Description)}
			if a.Required {
				argOpts = append(argOpts, mcplib.RequiredArgument())
			}
			opts = append(opts, mcplib.WithArgument(a.Name, argOpts...))
		}
		s.mcpServer.AddPrompt(mcplib.NewPrompt(e.Name, opts...), s.handlePrompt)
	}
}

func (s *Server) handlePrompt(ctx context.Context, request mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) {
	rendered, err := s.catalog.Render(request.Params.Name, request.Params.Arguments)
	if err != nil {
		s.logger.Debug("mcp: prompt render failed", "prompt", request.Params.Name, "error", err)
		return nil, err
	}
	return &mcplib.GetPromptResult{
		Description: rendered.Description,
		Messages: []mcplib.PromptMessage{
			{
				Role:    mcplib.RoleUser,
				Content: mcplib.TextContent{Type: "text", Text: rendered.Text},
			},
		},
	}, nil
}
