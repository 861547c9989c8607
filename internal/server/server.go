// Package server serves a generated crate dataset over HTTP.
//
// The dataset is loaded once and never modified, so handlers share it
// without locking. Routes:
//
//	GET /healthz
//	GET /crates                ?topic=, ?sort=score|name, ?limit=
//	GET /crates/{name}
//	GET /topics
//	GET /topics/{topic}
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/cratescore/pkg/catalog"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second
)

// Server exposes a read-only view over generated entries.
type Server struct {
	entries []catalog.GeneratedEntry
	logger  *log.Logger
	router  chi.Router
}

// New builds a server over entries. If logger is nil, log.Default() is used.
func New(entries []catalog.GeneratedEntry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if entries == nil {
		entries = []catalog.GeneratedEntry{}
	}
	s := &Server{entries: entries, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/crates", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{name}", s.handleCrate)
	})
	r.Route("/topics", func(r chi.Router) {
		r.Get("/", s.handleTopics)
		r.Get("/{topic}", s.handleTopic)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such route")
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	s.logger.Info("serving dataset", "addr", addr, "crates", len(s.entries))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}
