package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns the server defaults. Score streams clear
// their own write deadline, so WriteTimeout only bounds plain requests.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 30 * time.Second,
	}
}

// ServerConfigFromEnv applies HOST and PORT overrides to the defaults
func ServerConfigFromEnv() (ServerConfig, error) {
	cfg := DefaultServerConfig()
	cfg.Host = os.Getenv("HOST")
	if raw := os.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port < 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid PORT %q", raw)
		}
		cfg.Port = port
	}
	return cfg, nil
}

// Server runs the API until its context ends
type Server struct {
	http   *http.Server
	logger *slog.Logger
	config ServerConfig
	ready  chan struct{}
	addr   net.Addr
}

// NewServer creates a new API server
func NewServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		http: &http.Server{
			Addr:              net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
			Handler:           handler,
			ReadHeaderTimeout: config.ReadTimeout,
			ReadTimeout:       config.ReadTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		logger: logger,
		config: config,
		ready:  make(chan struct{}),
	}
}

// OnShutdown registers fn to run when shutdown begins. Long-lived
// handlers such as score streams use it to return so draining can finish.
func (s *Server) OnShutdown(fn func()) {
	s.http.RegisterOnShutdown(fn)
}

// Run listens and serves until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.http.Addr, err)
	}
	s.addr = ln.Addr()
	close(s.ready)
	s.logger.Info("HTTP server listening", slog.String("addr", s.addr.String()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Ready is closed once the listener is bound
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once Ready is closed, else the configured one
func (s *Server) Addr() string {
	select {
	case <-s.ready:
		return s.addr.String()
	default:
		return s.http.Addr
	}
}
