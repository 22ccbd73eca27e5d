// Package mcp exposes the architect operations and prompt catalog over the
// Model Context Protocol.
//
// Every dispatch operation becomes an MCP tool whose input schema comes
// from the schema registry, and every catalog entry becomes an MCP prompt.
package mcp

import (
	"context"
	"log/slog"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/ashita-ai/architect/internal/architect"
	"github.com/ashita-ai/architect/internal/prompts"
)

// ServerName is the name reported during MCP initialization.
const ServerName = "architect-server"

// Dispatcher is the subset of architect.Dispatcher the adapter uses.
type Dispatcher interface {
	Operations() []architect.Operation
	Dispatch(ctx context.Context, name string, args map[string]any) architect.Envelope
}

// Server wraps the mcp-go server with architect's dispatcher and catalog.
type Server struct {
	mcpServer  *mcpserver.MCPServer
	dispatcher Dispatcher
	catalog    *prompts.Catalog
	logger     *slog.Logger
}

// New creates an MCP server with every operation registered as a tool and
// every catalog entry as a prompt.
func New(dispatcher Dispatcher, catalog *prompts.Catalog, logger *slog.Logger, version string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		catalog:    catalog,
		logger:     logger,
	}

	s.mcpServer = mcpserver.NewMCPServer(
		ServerName,
		version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithPromptCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
		mcpserver.WithRecovery(),
	)

	s.registerTools()
	s.registerPrompts()
	s.registerResources()

	return s
}

// MCPServer returns the underlying mcp-go server for transport setup.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{
			mcplib.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
