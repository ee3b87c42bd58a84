package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"shortform/internal/logging"
	"shortform/internal/queue"
	"shortform/internal/workflow"
)

// StatusFunc supplies the current workflow summary for the status endpoint.
type StatusFunc func(ctx context.Context) workflow.StatusSummary

// ServerConfig wires the API server's collaborators.
type ServerConfig struct {
	Bind      string
	Token     string
	Store     *queue.Store
	Status    StatusFunc
	Logger    *slog.Logger
	LogDir    string
	StartTime time.Time
}

// Server is the daemon's local HTTP control surface.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	listener net.Listener
}

// NewServer builds a server bound to cfg.Bind. Listening starts in Start.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Status == nil {
		cfg.Status = func(context.Context) workflow.StatusSummary { return workflow.StatusSummary{} }
	}
	if cfg.StartTime.IsZero() {
		cfg.StartTime = time.Now()
	}
	bind := cfg.Bind
	if bind == "" {
		bind = "127.0.0.1:7474"
	}
	router := NewRouter(cfg)
	return &Server{
		httpServer: &http.Server{
			Addr:        bind,
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// Start listens and serves until Shutdown. Blocks.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.listener = listener
	s.logger.Info("starting HTTP server", "addr", listener.Addr().String())
	if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr reports the bound address once Start has been called, falling back to
// the configured bind address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
