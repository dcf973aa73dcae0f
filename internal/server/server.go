package server

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/claude/liftlog/internal/auth"
	"github.com/claude/liftlog/internal/routine"
	"github.com/claude/liftlog/internal/session"
	"github.com/claude/liftlog/internal/storage"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       *routine.Store
	controller  *session.Controller
	guard       *routine.Guard
	authClient  *auth.Client
	sessions    *storage.DB
	redirectURL string
	log         *slog.Logger
	router      chi.Router
}

// New creates a new Server with all routes configured. redirectURL is where
// the provider's emailed login link sends the browser back to.
func New(store *routine.Store, controller *session.Controller, guard *routine.Guard,
	authClient *auth.Client, sessions *storage.DB, redirectURL string, log *slog.Logger) *Server {
	s := &Server{
		store:       store,
		controller:  controller,
		guard:       guard,
		authClient:  authClient,
		sessions:    sessions,
		redirectURL: redirectURL,
		log:         log,
		router:      chi.NewRouter(),
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

	// Auth endpoints reachable without a session
	s.router.Post("/api/v1/auth/login", s.handleLogin)
	s.router.Get("/auth/callback", s.handleAuthCallback)
	s.router.Post("/api/v1/auth/logout", s.handleLogout)

	// Everything touching workout state requires a login session
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireSession)

		r.Get("/api/v1/auth/me", s.handleMe)

		r.Get("/api/v1/routines", s.handleListRoutines)
		r.Post("/api/v1/routines", s.handleAddRoutine)
		r.Patch("/api/v1/routines/{setID}", s.handleRenameRoutine)
		r.Post("/api/v1/routines/{setID}/select", s.handleSelectRoutine)
		r.Post("/api/v1/routines/{setID}/exercises", s.handleAddExercise)
		r.Patch("/api/v1/routines/{setID}/exercises/{exerciseID}", s.handleUpdateExercise)
		r.Post("/api/v1/routines/{setID}/exercises/{exerciseID}/entries", s.handleAddEntry)
		r.Patch("/api/v1/routines/{setID}/exercises/{exerciseID}/entries/{entryID}", s.handleUpdateEntry)
		r.Delete("/api/v1/routines/{setID}/exercises/{exerciseID}/entries/{entryID}", s.handleRemoveEntry)

		r.Get("/api/v1/deletions", s.handlePendingDeletion)
		r.Post("/api/v1/deletions", s.handleRequestDeletion)
		r.Post("/api/v1/deletions/confirm", s.handleConfirmDeletion)
		r.Post("/api/v1/deletions/cancel", s.handleCancelDeletion)

		r.Get("/api/v1/session", s.handleSessionStatus)
		r.Post("/api/v1/session/start", s.handleSessionStart)
		r.Post("/api/v1/session/toggle", s.handleSessionToggle)
		r.Post("/api/v1/session/finish", s.handleSessionFinish)
		r.Get("/api/v1/session/summary", s.handleGetSummary)
		r.Delete("/api/v1/session/summary", s.handleDismissSummary)
		r.Post("/api/v1/session/summary/save", s.handleSaveSummary)
	})
}

// SetMCP mounts the MCP transport handler.
func (s *Server) SetMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

// SetFrontend mounts the embedded SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
