package storage

import (
	"context"

	"github.com/iudanet/objsync/internal/models"
)

// TokenStorage defines interface for bearer token persistence
type TokenStorage interface {
	// SaveAuthToken stores a new bearer token
	// If token with same id exists, it will be replaced
	SaveAuthToken(ctx context.Context, token *models.AuthToken) error

	// GetAuthToken retrieves a token by id
	// Returns ErrTokenNotFound if token doesn't exist or has already expired,
	// regardless of whether the expired row was purged yet
	GetAuthToken(ctx context.Context, id []byte) (*models.AuthToken, error)

	// DeleteAuthToken deletes the token only if it belongs to owner
	// Returns ErrTokenNotFound if nothing was deleted
	DeleteAuthToken(ctx context.Context, owner string, id []byte) error

	// DeleteStaleAuthTokens removes all expired tokens
	// Returns number of deleted tokens
	DeleteStaleAuthTokens(ctx context.Context) (int, error)
}
