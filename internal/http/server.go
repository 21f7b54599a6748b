package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tomek7667/sysdash/internal/domain"
	sjson "github.com/tomek7667/sysdash/internal/json"
)

// Sampler is the read side of the ResourceMonitor.
type Sampler interface {
	Performance() domain.PerformanceSnapshot
	Processes() []domain.ProcessEntry
}

type Server struct {
	port    int
	sampler Sampler
	hub     *Hub
	r       *chi.Mux
}

func New(port int, sampler Sampler, streamInterval time.Duration) *Server {
	s := &Server{
		r:       chi.NewRouter(),
		port:    port,
		sampler: sampler,
		hub:     NewHub(sampler, streamInterval),
	}
	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.RealIP)
	s.r.Use(newRequestLogger(slog.Default(), sjson.PerformancePath, sjson.ProcessesPath, "/metrics", "/healthz", "/ws"))
	s.r.Use(middleware.Recoverer)

	s.r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		s.addAPIRoutes(r)
		s.addIndexRoute(r)
		s.addMetricsRoute(r)
	})
	// The stream is long-lived, so it stays outside the timeout group.
	s.r.Get("/ws", s.hub.ServeHTTP)
	return s
}

func (s *Server) Handler() http.Handler {
	return s.r
}

// Serve listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() {
		host, err := preferredHostIP()
		if err != nil || host == "" {
			host = "localhost"
		}
		slog.Info("http: listening", "addr", addr, "url", fmt.Sprintf("http://%s:%d", host, s.port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve on %s: %w", addr, err)
	case <-ctx.Done():
	}

	slog.Info("http: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
