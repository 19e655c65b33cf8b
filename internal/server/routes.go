package server

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	r := s.router

	r.Get("/health", s.health)

	// MCP streamable HTTP transport (POST requests, GET stream, DELETE session)
	r.Handle("/mcp", s.mcp)

	r.Route("/tools", func(r chi.Router) {
		r.Get("/", s.listTools)
		r.Post("/{name}", s.callTool)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}
}
