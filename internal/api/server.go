// Package api provides the REST management API for DelveDNS. It
// exposes health, statistics, and query journal endpoints via a
// Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/delvedns/delvedns/internal/api/handlers"
	"github.com/delvedns/delvedns/internal/api/middleware"
	"github.com/delvedns/delvedns/internal/config"
)

// Server is the management REST API server.
//
// Security note: do not expose the API to untrusted networks without
// an API key configured.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
	handler    *handlers.Handler
}

// New builds the API server. The returned server is wired to h but
// does not listen until ListenAndServe.
func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handler) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	RegisterRoutes(engine, h, cfg)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, httpServer: httpServer, handler: h}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Handler exposes the handler set for late wiring of runtime
// components.
func (s *Server) Handler() *handlers.Handler {
	return s.handler
}

// ListenAndServe serves until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown performs a graceful shutdown bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
