package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/liftlog/internal/storage"
)

func newSessionStore(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening session store: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestRequireSessionMissingCookie verifies requests without a cookie are
// rejected before reaching the handler.
func TestRequireSessionMissingCookie(t *testing.T) {
	s := &Server{sessions: newSessionStore(t), log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	called := false
	handler := s.requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if called {
		t.Error("handler reached without a session")
	}
}

// TestRequireSessionUnknownToken verifies an unrecognized token is treated
// the same as no cookie.
func TestRequireSessionUnknownToken(t *testing.T) {
	s := &Server{sessions: newSessionStore(t), log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	handler := s.requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with an unknown token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routines", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestRequireSessionInjectsUser verifies a valid session passes through and
// the user lands in the request context.
func TestRequireSessionInjectsUser(t *testing.T) {
	db := newSessionStore(t)
	s := &Server{sessions: db, log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	now := time.Now()
	err := db.CreateSession(t.Context(), storage.LoginSession{
		Token:       "tok-good",
		Email:       "lifter@example.com",
		AccessToken: "jwt",
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	var got UserInfo
	handler := s.requireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/routines", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "tok-good"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if got.Email != "lifter@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "lifter@example.com")
	}
}

// TestCORSPreflight verifies OPTIONS requests short-circuit with the CORS
// headers set.
func TestCORSPreflight(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached on preflight")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/routines", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Error("missing Access-Control-Allow-Methods header")
	}
}
