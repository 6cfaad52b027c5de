// Package httpapi exposes the gateway's HTTP surface: the batch sync
// endpoint for field clients and the public verification endpoint.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rbagirov/medsync/internal/logging"
	"github.com/rbagirov/medsync/internal/server/anchor"
)

// Server serves the sync and verification endpoints over HTTP.
type Server struct {
	address string
	logger  logging.Logger
	anchor  *anchor.Service
}

// NewServer builds a Server listening on address once Run is called.
func NewServer(address string, logger logging.Logger, svc *anchor.Service) *Server {
	return &Server{
		address: address,
		logger:  logger.With("module", "httpapi"),
		anchor:  svc,
	}
}

// Router assembles the chi router with the gateway routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Post("/sync/records", s.handleSync)
	r.Get("/verify/{recordHash}", s.handleVerify)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
