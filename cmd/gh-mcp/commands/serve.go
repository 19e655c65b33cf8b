package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/event"
	"github.com/opencode-ai/gh-mcp/internal/logging"
	"github.com/opencode-ai/gh-mcp/internal/metrics"
	"github.com/opencode-ai/gh-mcp/internal/server"
	"github.com/opencode-ai/gh-mcp/pkg/mcpserver/github"
)

var (
	serveTransport string
	servePort      int
	serveHostname  string
	serveCORS      bool
	serveMetrics   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server exposing every GitHub operation as a tool.

With --transport stdio (the default) the server speaks MCP on stdin/stdout
and logs never go to stdout. With --transport http it serves the streamable
HTTP transport on /mcp, plus /tools, /health and /metrics.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveTransport, "transport", "t", "stdio", "Transport (stdio|http)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on (http)")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "127.0.0.1", "Hostname to listen on (http)")
	serveCmd.Flags().BoolVar(&serveCORS, "cors", false, "Enable CORS (http)")
	serveCmd.Flags().BoolVar(&serveMetrics, "metrics", true, "Serve Prometheus metrics on /metrics (http)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := event.NewBus()
	defer bus.Close()

	go func() {
		if err := event.RunAudit(ctx, bus, logging.Component("audit")); err != nil {
			logging.Warn().Err(err).Msg("command audit stopped")
		}
	}()

	c := newCatalog(settingsFrom(cmd.Context()), bus)
	mcp := github.NewServer(c, Version)

	logging.Info().
		Str("version", Version).
		Str("transport", serveTransport).
		Str("program", c.Settings().Program).
		Str("log_file", logging.GetLogFilePath()).
		Msg("starting gh-mcp")

	switch serveTransport {
	case "stdio":
		return serveStdio(ctx, mcp)
	case "http":
		return serveHTTP(ctx, c, mcp, bus)
	default:
		return fmt.Errorf("unknown transport %q (expected stdio or http)", serveTransport)
	}
}

func serveStdio(ctx context.Context, mcp *mcpserver.MCPServer) error {
	stdio := mcpserver.NewStdioServer(mcp)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func serveHTTP(ctx context.Context, c *catalog.Catalog, mcp *mcpserver.MCPServer, bus *event.Bus) error {
	cfg := server.DefaultConfig()
	cfg.Port = servePort
	cfg.Hostname = serveHostname
	cfg.EnableCORS = serveCORS

	opts := []server.Option{
		server.WithVersion(Version),
		server.WithLogger(logging.Component("server")),
	}
	if serveMetrics {
		m := metrics.New()
		m.Attach(bus)
		defer m.Detach()
		opts = append(opts, server.WithMetrics(m))
	}

	srv := server.New(cfg, c, mcp, opts...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdown(srv)
	return nil
}

func shutdown(srv *server.Server) {
	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
	}
	logging.Info().Msg("server stopped")
}
