// Package server provides the HTTP transport: the streamable MCP endpoint,
// a small JSON API over the catalog, health and metrics.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/opencode-ai/gh-mcp/internal/catalog"
	"github.com/opencode-ai/gh-mcp/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Hostname     string
	Port         int
	EnableCORS   bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Hostname:    "127.0.0.1",
		Port:        8080,
		ReadTimeout: 30 * time.Second,
		// Commands may run up to the configured timeout; no write timeout.
		WriteTimeout: 0,
	}
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Hostname, strconv.Itoa(c.Port))
}

// Server is the HTTP server.
type Server struct {
	config  *Config
	router  *chi.Mux
	mu      sync.Mutex
	httpSrv *http.Server
	catalog *catalog.Catalog
	mcp     *mcpserver.StreamableHTTPServer
	metrics *metrics.Metrics
	logger  zerolog.Logger
	version string
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves m on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// New creates a new Server. mcp is served on /mcp with the streamable HTTP transport.
func New(cfg *Config, c *catalog.Catalog, mcp *mcpserver.MCPServer, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		catalog: c,
		mcp:     mcpserver.NewStreamableHTTPServer(mcp, mcpserver.WithEndpointPath("/mcp")),
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures middleware for the server.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	if s.config.EnableCORS {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version", "X-Request-ID"},
			ExposedHeaders: []string{"Mcp-Session-Id", "X-Request-ID"},
			MaxAge:         300,
		}))
	}
}

// requestLogger logs each request through zerolog instead of chi's stdout logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return err
	}
	return s.Serve(l)
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	httpSrv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.mu.Lock()
	s.httpSrv = httpSrv
	s.mu.Unlock()
	s.logger.Info().Str("addr", l.Addr().String()).Msg("listening")

	err := httpSrv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	httpSrv := s.httpSrv
	s.mu.Unlock()
	if httpSrv == nil {
		return nil
	}
	return httpSrv.Shutdown(ctx)
}

// Router returns the Chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
