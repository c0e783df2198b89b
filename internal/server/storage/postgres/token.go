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

// SaveAuthToken stores a new bearer token
func (s *Storage) SaveAuthToken(ctx context.Context, token *models.AuthToken) error {
	query := `
		INSERT INTO auth_tokens (id, owner, secret, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			owner = EXCLUDED.owner,
			secret = EXCLUDED.secret,
			expires_at = EXCLUDED.expires_at
	`

	if _, err := s.db.ExecContext(ctx, query,
		token.ID,
		token.Owner,
		token.Secret,
		clock.Millis(token.ExpiresAt),
	); err != nil {
		return fmt.Errorf("failed to save auth token: %w", err)
	}

	return nil
}

// GetAuthToken retrieves a non-expired token by id
func (s *Storage) GetAuthToken(ctx context.Context, id []byte) (*models.AuthToken, error) {
	query := `
		SELECT id, owner, secret, expires_at
		FROM auth_tokens
		WHERE id = $1 AND expires_at > $2
	`

	token := &models.AuthToken{}
	var expiresAt int64

	if err := s.db.QueryRowContext(ctx, query, id, s.nowMillis()).Scan(
		&token.ID,
		&token.Owner,
		&token.Secret,
		&expiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}

	token.ExpiresAt = clock.FromMillis(expiresAt)

	return token, nil
}

// DeleteAuthToken deletes the token if it belongs to owner
func (s *Storage) DeleteAuthToken(ctx context.Context, owner string, id []byte) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE id = $1 AND owner = $2`,
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("failed to delete auth token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrTokenNotFound
	}

	return nil
}

// DeleteStaleAuthTokens removes all expired tokens
func (s *Storage) DeleteStaleAuthTokens(ctx context.Context) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM auth_tokens WHERE expires_at <= $1`,
		s.nowMillis(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale auth tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(rows), nil
}
