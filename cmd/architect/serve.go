package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ashita-ai/architect/internal/architect"
	"github.com/ashita-ai/architect/internal/config"
	"github.com/ashita-ai/architect/internal/gateway"
	"github.com/ashita-ai/architect/internal/mcp"
	"github.com/ashita-ai/architect/internal/prompts"
	"github.com/ashita-ai/architect/internal/ratelimit"
	"github.com/ashita-ai/architect/internal/server"
	"github.com/ashita-ai/architect/internal/telemetry"
)

// shutdownTimeout bounds the drain of in-flight HTTP requests.
const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tools over stdio or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if transport != "" {
				a.cfg.Transport = transport
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&transport, "transport", "", "transport to serve: stdio or http (default from ARCHITECT_TRANSPORT)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	a.logger.Info("architect starting", "version", version, "transport", a.cfg.Transport)

	otelShutdown, err := telemetry.Init(ctx, telemetry.Settings{
		Endpoint:    a.cfg.OTELEndpoint,
		ServiceName: a.cfg.ServiceName,
		Version:     version,
		Insecure:    a.cfg.OTELInsecure,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() { _ = otelShutdown(context.Background()) }()

	backend, err := newBackend(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("model backend: %w", err)
	}

	mcpSrv, err := a.newMCPServer(backend)
	if err != nil {
		return err
	}

	switch a.cfg.Transport {
	case config.TransportHTTP:
		return a.serveHTTP(ctx, mcpSrv.MCPServer(), backend.Name())
	default:
		return a.serveStdio(ctx, mcpSrv.MCPServer())
	}
}

// newMCPServer wires backend through the gateway, service and dispatcher
// into an MCP server.
func (a *app) newMCPServer(backend gateway.Backend) (*mcp.Server, error) {
	catalog, err := prompts.Load()
	if err != nil {
		return nil, fmt.Errorf("prompt catalog: %w", err)
	}
	return mcp.New(a.newDispatcher(backend), catalog, a.logger, version), nil
}

func (a *app) newDispatcher(backend gateway.Backend) *architect.Dispatcher {
	gw := gateway.New(backend, a.logger)
	return architect.NewDispatcher(architect.New(gw, a.logger), a.logger)
}

func (a *app) serveStdio(ctx context.Context, s *mcpserver.MCPServer) error {
	stdio := mcpserver.NewStdioServer(s)
	stdio.SetErrorLogger(slog.NewLogLogger(a.logger.Handler(), slog.LevelError))

	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio transport: %w", err)
	}
	a.logger.Info("architect stopped")
	return nil
}

func (a *app) serveHTTP(ctx context.Context, s *mcpserver.MCPServer, backend string) error {
	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if a.cfg.RateLimitEnabled {
		limiter = ratelimit.NewMemoryLimiter(a.cfg.RateLimitRPS, a.cfg.RateLimitBurst)
		a.logger.Info("rate limiting: memory (in-process token bucket)",
			"rps", a.cfg.RateLimitRPS, "burst", a.cfg.RateLimitBurst)
	}
	defer func() { _ = limiter.Close() }()

	srv := server.New(server.Config{
		MCPServer:    s,
		Logger:       a.logger,
		Limiter:      limiter,
		Port:         a.cfg.Port,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		Version:      version,
		Backend:      backend,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("http transport: %w", err)
	}
	a.logger.Info("architect stopped")
	return nil
}
