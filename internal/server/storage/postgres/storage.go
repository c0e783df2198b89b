// Package postgres implements storage.Storage on PostgreSQL through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/pressly/goose/v3"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/server/storage"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

var _ storage.Storage = (*Storage)(nil)

// Storage represents PostgreSQL storage implementation
type Storage struct {
	db    *sql.DB
	clock clock.Clock
}

// Option настраивает Storage
type Option func(*Storage)

// WithClock подменяет источник времени (для тестов)
func WithClock(c clock.Clock) Option {
	return func(s *Storage) {
		s.clock = c
	}
}

// New opens a connection pool for dsn, checks it and applies migrations
func New(ctx context.Context, dsn string, opts ...Option) (*Storage, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := NewWithDB(db, opts...)

	if err := s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// NewWithDB wraps an already opened pool without running migrations
func NewWithDB(db *sql.DB, opts ...Option) *Storage {
	s := &Storage{db: db, clock: clock.Real}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the database connection
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool
func (s *Storage) Close() error {
	return s.db.Close()
}

// runMigrations применяет встроенные миграции
func (s *Storage) runMigrations(ctx context.Context) error {
	fsys, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, s.db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up failed: %w", err)
	}

	return nil
}

func (s *Storage) nowMillis() int64 {
	return clock.Millis(s.clock.Now())
}
