package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/architect/internal/architect"
)

func (s *Server) registerTools() {
	for _, op := range s.dispatcher.Operations() {
		tool, err := toolFor(op)
		if err != nil {
			// Input schemas are static; a marshal failure is a programming error.
			panic(err)
		}
		s.mcpServer.AddTool(tool, s.toolHandler(op.Name))
	}
}

func toolFor(op architect.Operation) (mcplib.Tool, error) {
	raw, err := json.Marshal(op.Input)
	if err != nil {
		return mcplib.Tool{}, fmt.Errorf("mcp: marshal %s input schema: %w", op.Name, err)
	}
	tool := mcplib.NewToolWithRawSchema(op.Name, op.Description, raw)
	tool.Annotations.ReadOnlyHint = mcplib.ToBoolPtr(true)
	tool.Annotations.DestructiveHint = mcplib.ToBoolPtr(false)
	tool.Annotations.IdempotentHint = mcplib.ToBoolPtr(false)
	tool.Annotations.OpenWorldHint = mcplib.ToBoolPtr(true)
	return tool, nil
}

// toolHandler forwards a tool call to the dispatcher. Failures are always
// tool-level results, never JSON-RPC errors.
func (s *Server) toolHandler(name string) func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		env := s.dispatcher.Dispatch(ctx, name, request.GetArguments())
		return toolResult(env), nil
	}
}

func toolResult(env architect.Envelope) *mcplib.CallToolResult {
	if env.IsError {
		return errorResult(env.Text())
	}
	content := make([]mcplib.Content, 0, len(env.Content))
	for _, b := range env.Content {
		content = append(content, mcplib.TextContent{Type: "text", Text: b.Text})
	}
	return &mcplib.CallToolResult{Content: content}
}
