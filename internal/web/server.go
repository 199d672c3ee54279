// Package web provides the HTTP surface for the import service.
// All endpoints speak JSON except the template downloads.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/config"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/importer"
	"github.com/x1mrdonut1x/trade-link-sub000/internal/logging"
)

// Server is the HTTP server for the import service.
type Server struct {
	service *importer.Service
	pool    *pgxpool.Pool
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server. pool may be nil in tests; only the health
// endpoint touches it directly.
func NewServer(service *importer.Service, pool *pgxpool.Pool, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		pool:    pool,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute)
		s.router.Use(limiter.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/import", func(r chi.Router) {
		r.Post("/process", s.handleProcess)
		r.Post("/execute", s.handleExecute)

		r.Get("/template/{entity}", s.handleTemplate)

		r.Get("/history", s.handleListHistory)

		r.Get("/mappings", s.handleListMappings)
		r.Post("/mappings", s.handleSaveMapping)
		r.Get("/mappings/{id}", s.handleGetMapping)
		r.Delete("/mappings/{id}", s.handleDeleteMapping)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.pool != nil {
		if err := s.pool.Ping(r.Context()); err != nil {
			logging.FromContext(r.Context()).Error("health check failed", "error", err)
			s.respondError(w, r, err, http.StatusServiceUnavailable)
			return
		}
	}
	writeJSON(w, map[string]string{"status": "ok"})
}

// securityHeaders adds defensive headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
