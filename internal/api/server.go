package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/heimdex/msve-edl/internal/photos"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

type ServerConfig struct {
	Port      int
	Store     photos.ProjectStore
	FrameRate int
	Format    string
	AuthToken string
	Logger    *slog.Logger
	StartTime time.Time
	Version   string
}

func NewServer(cfg ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			// Loopback only: the API exposes local file paths.
			Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:           NewRouter(cfg),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

// Listen binds the server address. Start calls it when needed; calling it
// first lets a caller learn the port chosen for Port 0.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	return nil
}

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.logger.Info("starting HTTP server", "addr", s.Addr())
	err := s.httpServer.Serve(s.listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound address once listening, otherwise the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}
