// Package http is the Gin adapter exposing the user sync API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/user-sync-service/internal/platform/config"
)

// Server owns the Gin engine and the listener it is served on.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	cfg    *config.ServerConfig
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New builds a Server from cfg. Routes are registered on Engine before Start.
func New(cfg *config.ServerConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(maxBodySize(cfg.MaxRequestSize))

	return &Server{
		engine: engine,
		http: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) Config() *config.ServerConfig {
	return s.cfg
}

// Addr is the bound address once Start has run, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.http.Addr
}

// Start binds the listener and serves in the background. A bind failure
// or a serve error arrives on the returned channel, which is closed when
// serving stops.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		errCh <- fmt.Errorf("listening on %s: %w", s.http.Addr, err)
		close(errCh)

		return errCh
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("serving user sync API",
		slog.String("addr", ln.Addr().String()),
		slog.Duration("request_timeout", s.cfg.RequestTimeout),
		slog.Duration("import_timeout", s.cfg.ImportTimeout),
		slog.Duration("write_timeout", s.cfg.WriteTimeout),
	)

	go func() {
		defer close(errCh)

		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serving http: %w", err)
		}
	}()

	return errCh
}

// Shutdown stops accepting connections and waits for in-flight requests,
// bounded by ctx. A running bulk import holds shutdown until it finishes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("draining HTTP server")

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("HTTP server stopped")

	return nil
}

// maxBodySize caps request bodies; oversized create and update payloads
// fail while binding.
func maxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
