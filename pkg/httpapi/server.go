package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/0xmhha/watchvault/pkg/library"
	"github.com/0xmhha/watchvault/pkg/logger"
)

// Server is the local JSON API.
type Server struct {
	config Config
	deps   Deps
	logger logger.Logger
	router chi.Router
}

// New creates a Server and registers its routes.
func New(cfg Config, deps Deps, log logger.Logger) *Server {
	defaults := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = defaults.Addr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.AllowedOrigins == nil {
		cfg.AllowedOrigins = defaults.AllowedOrigins
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: log,
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))
	r.Use(s.checkOrigin)
	r.Use(s.requireJSON)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Post("/resume", s.handleResume)
		})
		r.Get("/session", s.handleSession)
		r.Delete("/account", s.handleDeleteAccount)

		r.Route("/library", func(r chi.Router) {
			r.Use(s.requireSession)

			r.Get("/watchlist", s.handleWatchlist)
			r.Post("/watchlist", s.handleToggleWatchlist)
			r.Get("/watchlist/{type}/{id}", s.handleInWatchlist)

			r.Get("/history", s.handleHistory)
			r.Post("/history", s.handleAddHistory)

			r.Get("/progress/{type}/{id}", s.handleGetProgress)
			r.Put("/progress", s.handleSetProgress)
			r.Post("/watched", s.handleMarkWatched)
			r.Post("/playback", s.handlePlayback)

			r.Get("/ratings/{type}/{id}", s.handleGetRating)
			r.Put("/ratings", s.handleSetRating)
			r.Delete("/ratings/{type}/{id}", s.handleClearRating)

			r.Get("/recent", s.handleRecent)
			r.Post("/recent", s.handleRecordView)

			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)

			r.Get("/export", s.handleExport)
			r.Post("/restore", s.handleRestore)
			r.Get("/stats", s.handleStats)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/search", s.handleSearch)
			r.Get("/trending", s.handleTrending)
			r.Get("/details/{type}/{id}", s.handleDetails)
			r.With(s.requireSession).Get("/recommendations", s.handleRecommendations)
		})

		r.Get("/player/url", s.handlePlayerURL)
	})

	return r
}

// requireSession rejects library requests while logged out.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.deps.Library.Active(); !ok {
			s.writeError(w, r, library.ErrNoActiveSession)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLog logs each request at debug level.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start))
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.config.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api shutdown failed: %w", err)
	}
	s.logger.Info("api stopped")
	return nil
}
