// Package httpapi exposes the Gemini token vault REST API.
package httpapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gerritforge/gemini-vault/internal/service"
)

// Server wires the vault into echo handlers.
type Server struct {
	echo    *echo.Echo
	vault   service.TokenVault
	signKey []byte
	log     *zap.Logger
	ready   func(ctx context.Context) error
}

// New constructs the HTTP server. ready is called by the readiness probe and
// should ping the backing store.
func New(log *zap.Logger, vault service.TokenVault, signKey []byte, ready func(ctx context.Context) error) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, vault: vault, signKey: signKey, log: log, ready: ready}

	e.Use(s.recoverMiddleware)
	e.Use(s.loggingMiddleware)

	// Observability endpoints (no auth required).
	e.GET("/health/live", s.handleLiveness)
	e.GET("/health/ready", s.handleReadiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Token endpoints, authenticated routes under /a/ like the host REST API.
	a := e.Group("/a", s.requireAuth)
	a.PUT("/accounts/:account/gemini.token", s.handleSetToken)
	a.GET("/accounts/:account/gemini.token", s.handleGetToken)

	return s
}

// Start begins serving on addr and blocks until the listener fails or closes.
func (s *Server) Start(addr string) error {
	err := s.echo.Start(addr)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// StartTLS is Start with a PEM certificate/key pair.
func (s *Server) StartTLS(addr, certFile, keyFile string) error {
	err := s.echo.StartTLS(addr, certFile, keyFile)
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown performs a graceful shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler { return s.echo }
