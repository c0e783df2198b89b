package sqlite

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
	// ON CONFLICT DO UPDATE вместо INSERT OR REPLACE: REPLACE удаляет строку
	// и каскадно удалил бы объекты и токены пользователя
	query := `
		INSERT INTO users (username, password_hash, salt, iterations, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE SET
			password_hash = excluded.password_hash,
			salt = excluded.salt,
			iterations = excluded.iterations,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Salt,
		user.Iterations,
		clock.Millis(user.CreatedAt),
	)

	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

// GetUser retrieves user by username
func (s *Storage) GetUser(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, password_hash, salt, iterations, created_at
		FROM users
		WHERE username = ?
	`

	user := &models.User{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.PasswordHash,
		&user.Salt,
		&user.Iterations,
		&createdAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.CreatedAt = clock.FromMillis(createdAt)

	return user, nil
}
