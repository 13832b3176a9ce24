package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftlens/internal/recovery"
	"github.com/claude/liftlens/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	recovery *recovery.Service
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, recoverySvc *recovery.Service, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		recovery: recoverySvc,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleIngestSession)
		r.Delete("/api/v1/recovery/history", s.handleClearRecoveryHistory)
	})

	// Analytics endpoints
	s.router.Get("/api/v1/sessions", s.handleQuerySessions)
	s.router.Get("/api/v1/sessions/{id}", s.handleGetSession)
	s.router.Get("/api/v1/sessions/{id}/metrics", s.handleSessionMetrics)
	s.router.Get("/api/v1/exercises/progress", s.handleExerciseProgress)
	s.router.Get("/api/v1/records", s.handleRecords)
	s.router.Get("/api/v1/trends", s.handleTrends)
	s.router.Get("/api/v1/streaks", s.handleStreaks)
	s.router.Get("/api/v1/recovery", s.handleRecovery)
	s.router.Get("/api/v1/recovery/history", s.handleRecoveryHistory)
	s.router.Get("/api/v1/recommendations", s.handleRecommendations)
	s.router.Get("/api/v1/export", s.handleExport)
}
