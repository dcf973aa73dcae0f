package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/claude/liftlog/internal/storage"
	"github.com/google/uuid"
)

// defaultSessionTTL applies when the provider does not report a token
// lifetime.
const defaultSessionTTL = 7 * 24 * time.Hour

type loginRequest struct {
	Email string `json:"email"`
}

type loginResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: "invalid JSON: " + err.Error()})
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeJSON(w, http.StatusBadRequest, loginResponse{Message: "please enter a valid email address"})
		return
	}

	if err := s.authClient.RequestMagicLink(r.Context(), email, s.redirectURL); err != nil {
		s.log.Error("magic link request failed", "error", err)
		writeJSON(w, http.StatusBadGateway, loginResponse{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{OK: true, Message: "Check your email for a login link."})
}

// handleAuthCallback resolves the emailed link. It is idempotent and safe to
// hit without callback parameters; in that case it just sends the browser
// home. Any verification failure redirects to the logged-out view; the user
// is never left in an ambiguous state.
func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	tokenHash := r.URL.Query().Get("token_hash")
	if tokenHash == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	providerSession, err := s.authClient.Verify(r.Context(), tokenHash)
	if err != nil {
		s.log.Warn("magic link verification failed", "error", err)
		http.Redirect(w, r, "/?login=failed", http.StatusSeeOther)
		return
	}

	ttl := defaultSessionTTL
	if providerSession.ExpiresIn > 0 {
		ttl = time.Duration(providerSession.ExpiresIn) * time.Second
	}

	token := uuid.NewString()
	now := time.Now()
	err = s.sessions.CreateSession(r.Context(), storage.LoginSession{
		Token:       token,
		Email:       providerSession.User.Email,
		AccessToken: providerSession.AccessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	})
	if err != nil {
		s.log.Error("storing login session failed", "error", err)
		http.Redirect(w, r, "/?login=failed", http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Info("user logged in", "email", providerSession.User.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	info, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// handleLogout ends the login session. It succeeds regardless of provider or
// store failures: the cookie is always cleared so the browser lands on the
// logged-out view either way.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		login, err := s.sessions.GetSession(r.Context(), cookie.Value)
		if err == nil {
			if err := s.authClient.Logout(r.Context(), login.AccessToken); err != nil {
				s.log.Warn("provider logout failed", "error", err)
			}
		} else if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn("session lookup during logout failed", "error", err)
		}
		if err := s.sessions.DeleteSession(r.Context(), cookie.Value); err != nil {
			s.log.Warn("session delete failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
