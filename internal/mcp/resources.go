package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/ashita-ai/architect/internal/architect"
	"github.com/ashita-ai/architect/internal/schema"
)

// StylesURI lists the architectural styles generate_architecture accepts.
const StylesURI = "architect://styles"

// OutputSchemaURI returns the resource URI of an operation's output schema.
func OutputSchemaURI(operation string) string {
	return "architect://schemas/" + operation + "/output"
}

var outputShapes = map[string]schema.Shape{
	architect.OpAnalyze:  schema.AnalyzeShape,
	architect.OpGenerate: schema.GenerateShape,
	architect.OpEvaluate: schema.EvaluateShape,
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			StylesURI,
			"Architectural Styles",
			mcplib.WithResourceDescription("Styles accepted by generate_architecture"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleStyles,
	)

	for _, op := range s.dispatcher.Operations() {
		shape, ok := outputShapes[op.Name]
		if !ok {
			continue
		}
		uri := OutputSchemaURI(op.Name)
		s.mcpServer.AddResource(
			mcplib.NewResource(
				uri,
				op.Name+" output schema",
				mcplib.WithResourceDescription("JSON Schema the model output of "+op.Name+" must satisfy"),
				mcplib.WithMIMEType("application/schema+json"),
			),
			jsonResource(uri, "application/schema+json", shape.Output.Schema()),
		)
	}
}

func (s *Server) handleStyles(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return jsonResource(StylesURI, "application/json", schema.Styles)(ctx, request)
}

func jsonResource(uri, mimeType string, v any) func(context.Context, mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	return func(context.Context, mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("mcp: marshal %s: %w", uri, err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: mimeType,
				Text:     string(data),
			},
		}, nil
	}
}
