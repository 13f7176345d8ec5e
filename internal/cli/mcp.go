package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/ticketchat/pkg/adapters/mcp"
)

// MCPOptions configures the Model Context Protocol server.
type MCPOptions struct {
	Options
	// SSE serves over HTTP Server-Sent Events instead of stdio.
	SSE  bool
	Port int
}

// RunMCP exposes the engine as MCP tools.
// Logs always go to stderr so they never corrupt JSON-RPC on stdout.
func RunMCP(opts MCPOptions) error {
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}
	logger := createLogger(cfg, false)

	app, err := Build(cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := mcp.NewServer(app.Engine, mcp.WithLogger(logger), mcp.WithSessions(app.Sessions))

	if !opts.SSE {
		logger.Info("starting mcp server", "transport", "stdio")
		return srv.ServeStdio()
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	logger.Info("starting mcp server", "transport", "sse", "port", opts.Port)
	if err := srv.ServeSSE(sigCtx, opts.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("mcp server stopped gracefully")
	return nil
}
