package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"todo/internal/log"
	"todo/internal/storage"
)

// DefaultAddr matches the default base URL of the REST backend.
const DefaultAddr = "localhost:3001"

// Config is the configuration of the development server.
type Config struct {
	Addr            string
	Repository      storage.Repository
	ShutdownTimeout time.Duration
	Logger          log.Logger
}

func (c *Config) defaults() error {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "server.Server"})
	return nil
}

// Server runs the /todos collection over HTTP.
type Server struct {
	srv             *http.Server
	shutdownTimeout time.Duration
	logger          log.Logger
}

// New creates a new server.
func New(cfg Config) (*Server, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	h, err := NewHandler(HandlerConfig{Repository: cfg.Repository, Logger: cfg.Logger})
	if err != nil {
		return nil, fmt.Errorf("could not create handler: %w", err)
	}

	return &Server{
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          cfg.Logger,
	}, nil
}

// Serve accepts connections on l until Stop is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Infof("listening on http://%s", l.Addr())
	if err := s.srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address and serves until Stop is called.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(l)
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Errorf("could not shut down server: %s", err)
		return
	}
	s.logger.Infof("shut down gracefully")
}
