// Package server exposes the diagram editor over HTTP.
//
// The API is JSON, authenticated with bearer tokens. Each open diagram is
// backed by an [editor.Session] held in memory and persisted on every
// mutation, so the stored source text stays the document of record.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okrause/tikzcanvas/pkg/auth"
	"github.com/okrause/tikzcanvas/pkg/canvas"
	"github.com/okrause/tikzcanvas/pkg/config"
	"github.com/okrause/tikzcanvas/pkg/editor"
	"github.com/okrause/tikzcanvas/pkg/store"
)

// Server wires the store, token issuer and per-diagram sessions behind a
// chi router.
type Server struct {
	cfg    config.Config
	store  store.Store
	tokens *auth.Tokens
	log    *log.Logger
	mapper canvas.Mapper

	mu       sync.Mutex
	sessions map[string]*editor.Session // keyed by owner ID + diagram ID
}

// New builds a Server from configuration.
func New(cfg config.Config, st store.Store, logger *log.Logger) *Server {
	return &Server{
		cfg:      cfg,
		store:    st,
		tokens:   auth.NewTokens(cfg.Server.JWTSecret, cfg.Server.TokenTTLDuration()),
		log:      logger,
		mapper:   cfg.Canvas.Mapper(),
		sessions: make(map[string]*editor.Session),
	}
}

// Router assembles the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/api/register", s.handleRegister)
	r.Post("/api/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/me", s.handleMe)

		r.Route("/api/diagrams", func(r chi.Router) {
			r.Get("/", s.handleListDiagrams)
			r.Post("/", s.handleCreateDiagram)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDiagram)
				r.Put("/", s.handleUpdateDiagram)
				r.Delete("/", s.handleDeleteDiagram)
				r.Post("/text", s.handleSetText)
				r.Post("/drag", s.handleDrag)
				r.Get("/render", s.handleRender)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// requestLogger logs each request with its status and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

// session returns the open session for a stored diagram, loading it on
// first use.
func (s *Server) session(ctx context.Context, ownerID, id string) (*editor.Session, error) {
	key := ownerID + "/" + id

	s.mu.Lock()
	if sess, ok := s.sessions[key]; ok {
		s.mu.Unlock()
		return sess, nil
	}
	s.mu.Unlock()

	sess := editor.New(s.mapper)
	sess.SetSnap(s.cfg.Canvas.SnapGrid)
	if err := sess.Open(ctx, s.store, ownerID, id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[key]; ok {
		return existing, nil
	}
	s.sessions[key] = sess
	return sess, nil
}

// dropSession forgets the in-memory session for a diagram.
func (s *Server) dropSession(ownerID, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, ownerID+"/"+id)
}
