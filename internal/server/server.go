// Package server exposes the spoor REST API over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/spoor-app/spoor/internal/db"
	"github.com/spoor-app/spoor/internal/events"
)

// Server serves the hunt, node and log endpoints backed by the local
// database.
type Server struct {
	hunts  *db.HuntRepository
	nodes  *db.NodeRepository
	logs   *db.LogRepository
	logger zerolog.Logger
	bus    *events.Bus
}

// Options configures a Server.
type Options struct {
	DB     *db.DB
	Logger zerolog.Logger

	// Bus, when set, receives hunt and node lifecycle events.
	Bus *events.Bus
}

// New creates a Server over the given database.
func New(opts Options) *Server {
	return &Server{
		hunts:  db.NewHuntRepository(opts.DB),
		nodes:  db.NewNodeRepository(opts.DB),
		logs:   db.NewLogRepository(opts.DB),
		logger: opts.Logger,
		bus:    opts.Bus,
	}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/hunts", func(r chi.Router) {
			r.Get("/", s.handleListHunts)
			r.Post("/", s.handleCreateHunt)

			r.Route("/{huntID}", func(r chi.Router) {
				r.Get("/", s.handleGetHunt)
				r.Put("/", s.handleUpdateHunt)
				r.Delete("/", s.handleDeleteHunt)

				r.Get("/nodes", s.handleListNodes)
				r.Post("/nodes", s.handleCreateNode)

				r.Get("/logs", s.handleListLogs)
				r.Post("/logs", s.handleCreateLog)

				r.Get("/semantic-analysis", s.handleSemanticAnalysis)
			})
		})

		r.Route("/nodes/{nodeID}", func(r chi.Router) {
			r.Put("/", s.handleUpdateNode)
			r.Delete("/", s.handleDeleteNode)
		})

		r.Delete("/logs/{logID}", s.handleDeleteLog)
	})

	return r
}

// ListenAndServe runs the HTTP server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info().Str("addr", addr).Msg("server listening")

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
