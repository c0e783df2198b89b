//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
	"github.com/iudanet/objsync/internal/server/storage/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "objsync_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/objsync_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func TestStorage_EndToEnd(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewManual(time.UnixMilli(1_700_000_000_000))

	var s *postgres.Storage
	// Контейнер слушает порт раньше, чем postgres готов принимать запросы
	require.Eventually(t, func() bool {
		var err error
		s, err = postgres.New(ctx, dsn, postgres.WithClock(clk))
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)
	t.Cleanup(func() { _ = s.Close() })

	for _, name := range []string{"alice", "bob"} {
		require.NoError(t, s.SaveUser(ctx, &models.User{
			Username:     name,
			PasswordHash: []byte("hash"),
			Salt:         []byte("salt"),
			Iterations:   1,
			CreatedAt:    clk.Now(),
		}))
	}

	t.Run("objects", func(t *testing.T) {
		first, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "a", Data: `1`}, {ID: "b", Data: `2`}})
		require.NoError(t, err)

		second, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "a", Data: `3`}})
		require.NoError(t, err)
		assert.Equal(t, first+1, second)

		objects, err := s.GetObjectsByOwner(ctx, "alice", 0)
		require.NoError(t, err)
		require.Len(t, objects, 2)
		assert.Equal(t, "b", objects[0].ID)
		assert.Equal(t, "a", objects[1].ID)
		assert.Equal(t, `3`, objects[1].Data)

		objects, err = s.GetObjectsByOwner(ctx, "bob", 0)
		require.NoError(t, err)
		assert.Empty(t, objects)
	})

	t.Run("concurrent batches of one owner", func(t *testing.T) {
		var wg sync.WaitGroup
		for w := 0; w < 8; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				_, err := s.SaveObjects(ctx, "bob", []models.ObjectInput{
					{ID: fmt.Sprintf("x%d", w), Data: `{}`},
					{ID: fmt.Sprintf("y%d", w), Data: `{}`},
				})
				assert.NoError(t, err)
			}(w)
		}
		wg.Wait()

		objects, err := s.GetObjectsByOwner(ctx, "bob", 0)
		require.NoError(t, err)
		require.Len(t, objects, 16)
		for i := 1; i < len(objects); i++ {
			assert.Greater(t, objects[i].ModifiedAt, objects[i-1].ModifiedAt)
		}
	})

	t.Run("tokens", func(t *testing.T) {
		token := &models.AuthToken{
			ID:        []byte("0123456789abcdef"),
			Secret:    []byte("secret"),
			Owner:     "alice",
			ExpiresAt: clk.Now().Add(time.Minute),
		}
		require.NoError(t, s.SaveAuthToken(ctx, token))

		got, err := s.GetAuthToken(ctx, token.ID)
		require.NoError(t, err)
		assert.Equal(t, token.Secret, got.Secret)

		clk.Advance(time.Minute)
		_, err = s.GetAuthToken(ctx, token.ID)
		assert.ErrorIs(t, err, storage.ErrTokenNotFound)

		n, err := s.DeleteStaleAuthTokens(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}
