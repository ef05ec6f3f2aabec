// Package server exposes the graph and run APIs over HTTP: JSON endpoints
// for creating graphs and submitting runs, websocket endpoints for live
// log streaming, and the usual health and metrics routes.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hupe1980/flowgraph/logging"
	"github.com/hupe1980/flowgraph/runner"
	"github.com/hupe1980/flowgraph/tool"
)

// Options configures the server.
type Options struct {
	// Addr is the listen address. Defaults to ":8080".
	Addr string

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end over a Runner.
type Server struct {
	httpServer      *http.Server
	logger          logging.Logger
	shutdownTimeout time.Duration
}

// New builds a Server routing requests to r, with tools from registry.
func New(r *runner.Runner, registry *tool.Registry, optFns ...func(o *Options)) *Server {
	opts := Options{
		Addr:            ":8080",
		Logger:          logging.NoOpLogger{},
		ShutdownTimeout: 10 * time.Second,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	mux := http.NewServeMux()
	NewHandler(r, registry, opts.Logger).RegisterRoutes(mux)

	return &Server{
		httpServer: &http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		logger:          opts.Logger,
		shutdownTimeout: opts.ShutdownTimeout,
	}
}

// Handler returns the server's root handler, useful for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// ListenAndServe serves requests until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("server.listening addr=%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
