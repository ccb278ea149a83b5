package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/tildaslashalef/remediator/internal/config"
	"github.com/tildaslashalef/remediator/internal/loggy"
	"github.com/tildaslashalef/remediator/internal/remediation"
)

// Server wraps the HTTP server lifecycle
type Server struct {
	httpServer *http.Server
	logger     *loggy.Logger
}

// New creates a server for the given configuration and remediation service
func New(cfg config.ServerConfig, svc *remediation.Service, logger *loggy.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.ListenAddr(),
			Handler:      NewRouter(svc, logger),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger: logger,
	}
}

// Start blocks serving HTTP until Shutdown is called or the listener fails
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", "addr", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until the context expires
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("HTTP server shutting down")
	return s.httpServer.Shutdown(ctx)
}
