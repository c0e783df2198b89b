package storage

import (
	"context"

	"github.com/iudanet/objsync/internal/models"
)

// UserStorage defines interface for user persistence
type UserStorage interface {
	// SaveUser creates the user or replaces every field of an existing one.
	// Replacing a user keeps their objects and tokens.
	SaveUser(ctx context.Context, user *models.User) error

	// GetUser retrieves user by username
	// Returns ErrUserNotFound if user doesn't exist
	GetUser(ctx context.Context, username string) (*models.User, error)
}
