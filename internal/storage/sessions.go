// Package storage keeps the server's own login sessions in a local SQLite
// database: the browser cookie token mapped to the provider access token.
// Workout data never touches this store; routines live in memory only.
package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrNotFound is returned when a session token is unknown or expired.
var ErrNotFound = errors.New("session not found")

// LoginSession links a browser cookie token to a provider session.
type LoginSession struct {
	Token       string
	Email       string
	AccessToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// DB wraps the SQLite session database.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the session database at dir/liftlog.db and applies
// pending migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "liftlog.db")
	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening session db: %w", err)
	}
	return &DB{db: db}, nil
}

func runMigrations(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, "sqlite://"+dbPath)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close() //nolint:errcheck

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// CreateSession stores a new login session. Timestamps are kept as Unix
// seconds so scans never depend on driver-specific time parsing.
func (d *DB) CreateSession(ctx context.Context, s LoginSession) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO login_sessions (token, email, access_token, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.Token, s.Email, s.AccessToken, s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// GetSession looks up a session by cookie token. Expired sessions are
// treated as missing.
func (d *DB) GetSession(ctx context.Context, token string) (*LoginSession, error) {
	var s LoginSession
	var created, expires int64
	err := d.db.QueryRowContext(ctx,
		`SELECT token, email, access_token, created_at, expires_at
		 FROM login_sessions WHERE token = ?`, token,
	).Scan(&s.Token, &s.Email, &s.AccessToken, &created, &expires)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying session: %w", err)
	}
	s.CreatedAt = time.Unix(created, 0)
	s.ExpiresAt = time.Unix(expires, 0)
	if time.Now().After(s.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &s, nil
}

// DeleteSession removes a session by cookie token. Deleting an unknown
// token is not an error.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM login_sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// DeleteExpired removes all expired sessions. Returns the count removed.
func (d *DB) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := d.db.ExecContext(ctx, `DELETE FROM login_sessions WHERE expires_at < ?`, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("deleting expired sessions: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the session database.
func (d *DB) Close() error {
	return d.db.Close()
}
