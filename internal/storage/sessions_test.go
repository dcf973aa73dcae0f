package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestSessionRoundTrip verifies a created session comes back by token with
// its fields intact.
func TestSessionRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	now := time.Now()
	want := LoginSession{
		Token:       "tok-abc",
		Email:       "lifter@example.com",
		AccessToken: "provider-jwt",
		CreatedAt:   now,
		ExpiresAt:   now.Add(time.Hour),
	}
	if err := db.CreateSession(ctx, want); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := db.GetSession(ctx, "tok-abc")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Email != want.Email {
		t.Errorf("email = %q, want %q", got.Email, want.Email)
	}
	if got.AccessToken != want.AccessToken {
		t.Errorf("access_token = %q, want %q", got.AccessToken, want.AccessToken)
	}
	if got.ExpiresAt.Unix() != want.ExpiresAt.Unix() {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt.Unix(), want.ExpiresAt.Unix())
	}
}

// TestGetSessionUnknownToken verifies lookups of unknown tokens report
// ErrNotFound.
func TestGetSessionUnknownToken(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetSession(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestGetSessionExpired verifies an expired session behaves exactly like a
// missing one.
func TestGetSessionExpired(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := LoginSession{
		Token:       "tok-old",
		Email:       "lifter@example.com",
		AccessToken: "provider-jwt",
		CreatedAt:   time.Now().Add(-2 * time.Hour),
		ExpiresAt:   time.Now().Add(-time.Hour),
	}
	if err := db.CreateSession(ctx, s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	_, err := db.GetSession(ctx, "tok-old")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

// TestDeleteSession verifies deletion removes the row and that deleting an
// unknown token is not an error.
func TestDeleteSession(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := LoginSession{
		Token:       "tok-del",
		Email:       "lifter@example.com",
		AccessToken: "provider-jwt",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	if err := db.CreateSession(ctx, s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := db.DeleteSession(ctx, "tok-del"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := db.GetSession(ctx, "tok-del"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err after delete = %v, want ErrNotFound", err)
	}

	if err := db.DeleteSession(ctx, "never-existed"); err != nil {
		t.Errorf("DeleteSession(unknown) = %v, want nil", err)
	}
}

// TestDeleteExpired verifies the sweep removes only expired rows and
// reports the count.
func TestDeleteExpired(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	now := time.Now()
	fresh := LoginSession{Token: "fresh", Email: "a@example.com", AccessToken: "t", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	stale1 := LoginSession{Token: "stale1", Email: "b@example.com", AccessToken: "t", CreatedAt: now.Add(-3 * time.Hour), ExpiresAt: now.Add(-2 * time.Hour)}
	stale2 := LoginSession{Token: "stale2", Email: "c@example.com", AccessToken: "t", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}
	for _, s := range []LoginSession{fresh, stale1, stale2} {
		if err := db.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession(%s): %v", s.Token, err)
		}
	}

	n, err := db.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted = %d, want 2", n)
	}
	if _, err := db.GetSession(ctx, "fresh"); err != nil {
		t.Errorf("fresh session gone after sweep: %v", err)
	}
}

// TestCreateSessionReplacesToken verifies re-creating a session under the
// same token overwrites the old row instead of failing.
func TestCreateSessionReplacesToken(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	now := time.Now()
	first := LoginSession{Token: "tok", Email: "old@example.com", AccessToken: "t1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	second := LoginSession{Token: "tok", Email: "new@example.com", AccessToken: "t2", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	if err := db.CreateSession(ctx, first); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := db.CreateSession(ctx, second); err != nil {
		t.Fatalf("CreateSession (replace): %v", err)
	}

	got, err := db.GetSession(ctx, "tok")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Email != "new@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "new@example.com")
	}
}

// TestOpenIsIdempotent verifies reopening an existing database applies no
// duplicate migrations and leaves the data readable.
func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s := LoginSession{Token: "tok", Email: "a@example.com", AccessToken: "t", CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	if err := db.CreateSession(ctx, s); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	db.Close()

	db2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	if _, err := db2.GetSession(ctx, "tok"); err != nil {
		t.Errorf("session lost across reopen: %v", err)
	}
}
