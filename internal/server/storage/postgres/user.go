package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

// SaveUser creates the user or replaces all fields of an existing one
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, password_hash, salt, iterations, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = EXCLUDED.password_hash,
			salt = EXCLUDED.salt,
			iterations = EXCLUDED.iterations,
			created_at = EXCLUDED.created_at
	`

	if _, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Salt,
		user.Iterations,
		clock.Millis(user.CreatedAt),
	); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves user by username
func (s *Storage) GetUser(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, password_hash, salt, iterations, created_at
		FROM users
		WHERE username = $1
	`

	user := &models.User{}
	var createdAt int64

	if err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.Salt,
		&user.Iterations,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = clock.FromMillis(createdAt)

	return user, nil
}
