// Package provision creates user records outside of the HTTP surface.
package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/iudanet/objsync/internal/crypto"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
	"github.com/iudanet/objsync/internal/validation"
)

// AddUser validates the credentials, hashes the password with the given
// PBKDF2 cost and stores the user. An existing user with the same name is
// replaced; their objects and tokens are kept.
func AddUser(ctx context.Context, users storage.UserStorage, username, password string, iterations int, now time.Time) (*models.User, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	params := crypto.DefaultPasswordParams
	params.Iterations = iterations

	hashed, err := crypto.HashPassword(password, params)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hashed.Hash,
		Salt:         hashed.Salt,
		Iterations:   hashed.Iterations,
		CreatedAt:    now,
	}
	if err := users.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return user, nil
}
