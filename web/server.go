package web

import (
	"net/http"

	"payouts/config"
	"payouts/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server carries the HTTP surface of the application: the
// presentation-facing intents for auth, the leaderboard and the
// balance update workflow.
type Server struct {
	cfg   *config.Config
	auth  service.AuthService
	board service.LeaderboardService
}

// New creates a new Server
func New(cfg *config.Config, auth service.AuthService, board service.LeaderboardService) *Server {
	return &Server{
		cfg:   cfg,
		auth:  auth,
		board: board,
	}
}

// Router builds the route table
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	// Leaderboard is public: it renders before anyone signs in
	r.Get("/leaderboard", s.handleLeaderboard)

	r.Post("/auth/signup", s.handleSignUp)
	r.Post("/auth/login", s.handleLogIn)
	r.With(s.authenticated).Post("/auth/logout", s.handleLogOut)
	r.With(s.authenticated).Get("/me", s.handleMe)

	r.With(s.authenticated).Post("/updates", s.handleSubmitUpdate)
	r.With(s.authenticated).Get("/updates", s.handlePendingUpdates)
	r.With(s.authenticated).Post("/updates/{id}/approve", s.handleApprove)
	r.With(s.authenticated).Delete("/updates/{id}", s.handleDismiss)

	return r
}
