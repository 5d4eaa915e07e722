// Package server exposes the MCP server over HTTP for remote clients.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server holds dependencies for the HTTP transport.
type Server struct {
	mcp    *mcpserver.MCPServer
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a Server exposing mcpSrv at /mcp. When apiKey is non-empty,
// /mcp requires the X-API-Key header; /healthz is always open.
func New(mcpSrv *mcpserver.MCPServer, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		mcp:    mcpSrv,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	streamable := mcpserver.NewStreamableHTTPServer(s.mcp)
	s.router.Route("/mcp", func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(APIKeyAuth(s.apiKey))
		}
		r.Handle("/", streamable)
		r.Handle("/*", streamable)
	})
}
