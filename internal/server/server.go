// Package server serves the publications page and its JSON API over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/thithuypham/folio/internal/catalog"
	"github.com/thithuypham/folio/internal/project"
	"github.com/thithuypham/folio/internal/publication"
	"github.com/thithuypham/folio/internal/render"
	"github.com/thithuypham/folio/internal/storage"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// Searcher runs keyword searches. *storage.DB satisfies it.
type Searcher interface {
	Query(f storage.QueryFilters) ([]publication.Publication, error)
}

// Options holds everything the server shows.
type Options struct {
	Publications *publication.Collection
	Projects     []project.Project
	Page         render.Options

	// Search backs /api/search. The route answers 503 when it is nil.
	Search Searcher
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	pubs     []publication.Publication
	coll     *publication.Collection
	summary  catalog.Summary
	projects []project.Project
	page     render.Options
	search   Searcher
	router   *chi.Mux
	logger   *zap.Logger
}

// New creates a server with all routes configured.
// The collection is read once; every request derives its view from it.
func New(opts Options, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	coll := opts.Publications
	if coll == nil {
		coll, _ = publication.NewCollection(nil)
	}

	s := &Server{
		pubs:     coll.All(),
		coll:     coll,
		summary:  catalog.Summarize(coll.All()),
		projects: opts.Projects,
		page:     opts.Page,
		search:   opts.Search,
		router:   chi.NewRouter(),
		logger:   logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/publications", http.StatusFound)
	})
	s.router.Get("/publications", s.handlePublicationsPage)
	s.router.Get("/projects", s.handleProjectsPage)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/publications", s.handleListPublications)
		r.Get("/publications/{id}", s.handleGetPublication)
		r.Get("/facets", s.handleFacets)
		r.Get("/stats", s.handleStats)
		r.Get("/search", s.handleSearch)
		r.Get("/projects", s.handleListProjects)
	})
}

// requestLogger logs one line per request with zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// Run listens on addr and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", zap.String("addr", ln.Addr().String()), zap.Int("publications", len(s.pubs)))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
