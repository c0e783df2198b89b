package provision

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/objsync/internal/crypto"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage/sqlite"
)

var testEpoch = time.UnixMilli(1_700_000_000_000)

func setupStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddUser(t *testing.T) {
	ctx := context.Background()
	s := setupStorage(t)

	user, err := AddUser(ctx, s, "alice", "s3cret", 1000, testEpoch)
	require.NoError(t, err)
	assert.Equal(t, 1000, user.Iterations)
	assert.Len(t, user.Salt, crypto.SaltSize)
	assert.Len(t, user.PasswordHash, crypto.HashSize)

	stored, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, testEpoch.Equal(stored.CreatedAt))
	assert.True(t, crypto.VerifyPassword(crypto.HashedPassword{
		Salt:       stored.Salt,
		Hash:       stored.PasswordHash,
		Iterations: stored.Iterations,
	}, "s3cret"))
}

func TestAddUser_ReplaceKeepsObjects(t *testing.T) {
	ctx := context.Background()
	s := setupStorage(t)

	_, err := AddUser(ctx, s, "alice", "old", 1000, testEpoch)
	require.NoError(t, err)
	_, err = s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "a", Data: `1`}})
	require.NoError(t, err)

	_, err = AddUser(ctx, s, "alice", "new", 1000, testEpoch)
	require.NoError(t, err)

	stored, err := s.GetUser(ctx, "alice")
	require.NoError(t, err)
	hp := crypto.HashedPassword{Salt: stored.Salt, Hash: stored.PasswordHash, Iterations: stored.Iterations}
	assert.True(t, crypto.VerifyPassword(hp, "new"))
	assert.False(t, crypto.VerifyPassword(hp, "old"))

	objects, err := s.GetObjectsByOwner(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}

func TestAddUser_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		username   string
		password   string
		iterations int
	}{
		{name: "short username", username: "ab", password: "x", iterations: 1000},
		{name: "colon in username", username: "a:b:c", password: "x", iterations: 1000},
		{name: "empty password", username: "alice", password: "", iterations: 1000},
		{name: "zero iterations", username: "alice", password: "x", iterations: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := setupStorage(t)

			_, err := AddUser(ctx, s, tt.username, tt.password, tt.iterations, testEpoch)
			require.Error(t, err)

			_, err = s.GetUser(ctx, tt.username)
			assert.Error(t, err)
		})
	}
}
