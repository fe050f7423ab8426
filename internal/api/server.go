// Package api serves the phylo pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz           liveness probe
//	GET    /version           build information
//	GET    /metrics           Prometheus metrics
//	POST   /v1/analyze        run the analysis pipeline (body: pipeline.Options)
//	POST   /v1/drop           drop or keep tips of one tree
//	POST   /v1/match          match trait labels to the tips of one tree
//	POST   /v1/mrca           most recent common ancestor of tips
//	POST   /v1/trees          archive a tree
//	GET    /v1/trees          list archived trees
//	GET    /v1/trees/{id}     fetch an archived tree
//	DELETE /v1/trees/{id}     delete an archived tree
//
// Errors are JSON bodies of the form {"error", "code", "request_id"}.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/phylo/pkg/pipeline"
	"github.com/matzehuels/phylo/pkg/storage"
)

const (
	// requestTimeout bounds the work done for one request.
	requestTimeout = 60 * time.Second

	// shutdownTimeout bounds graceful shutdown.
	shutdownTimeout = 10 * time.Second
)

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  storage.Store
	logger *log.Logger
}

// New creates a server. A nil store falls back to an in-memory archive.
func New(runner *pipeline.Runner, store storage.Store, logger *log.Logger) *Server {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: store, logger: logger}
}

// Routes returns the HTTP handler serving every route.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/drop", s.handleDrop)
		r.Post("/match", s.handleMatch)
		r.Post("/mrca", s.handleMRCA)

		r.Route("/trees", func(r chi.Router) {
			r.Post("/", s.handlePutTree)
			r.Get("/", s.handleListTrees)
			r.Get("/{id}", s.handleGetTree)
			r.Delete("/{id}", s.handleDeleteTree)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
