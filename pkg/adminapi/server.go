package adminapi

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/marmos91/notifyd/internal/logger"
	"github.com/marmos91/notifyd/pkg/registry"
)

// Server is the admin/introspection HTTP server. It is
// optional: the daemon runs fine with it disabled.
type Server struct {
	server       *http.Server
	shutdownOnce sync.Once
}

// NewServer creates a Server listening on addr, backed by reg. The server
// is created in a stopped state; call Start to begin serving.
func NewServer(addr string, reg *registry.Registry) *Server {
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(reg),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start serves until ctx is cancelled, then gracefully shuts down.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("admin server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Stop(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("admin server failed: %w", err)
	}
}

// Stop gracefully shuts the server down. Safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var stopErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			stopErr = fmt.Errorf("admin server shutdown: %w", err)
		}
	})
	return stopErr
}
