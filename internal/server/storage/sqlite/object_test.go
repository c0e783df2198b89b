package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

func TestObjectStorage_SaveObjects_Watermarks(t *testing.T) {
	ctx := context.Background()
	s, clk, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")
	now := clock.Millis(testEpoch)

	last, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{
		{ID: "a", Data: `{"n":1}`},
		{ID: "b", Data: `{"n":2}`},
		{ID: "c", Data: `{"n":3}`},
	})
	require.NoError(t, err)
	assert.Equal(t, now+2, last)

	objects, err := s.GetObjectsByOwner(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, objects, 3)
	for i, obj := range objects {
		assert.Equal(t, now+int64(i), obj.ModifiedAt)
		assert.Equal(t, "alice", obj.Owner)
	}
	assert.Equal(t, "a", objects[0].ID)
	assert.Equal(t, "c", objects[2].ID)

	// Часы не сдвинулись: следующий батч продолжает после максимума
	last, err = s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "d", Data: `{}`}})
	require.NoError(t, err)
	assert.Equal(t, now+3, last)

	// Часы ушли назад: watermark всё равно растёт
	clk.Set(testEpoch.Add(-time.Hour))
	last, err = s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "e", Data: `{}`}})
	require.NoError(t, err)
	assert.Equal(t, now+4, last)

	// Часы ушли вперёд: watermark догоняет реальное время
	clk.Set(testEpoch.Add(time.Hour))
	last, err = s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "f", Data: `{}`}})
	require.NoError(t, err)
	assert.Equal(t, clock.Millis(testEpoch.Add(time.Hour)), last)
}

func TestObjectStorage_SaveObjects_Upsert(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")

	first, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "a", Data: `{"v":1}`}})
	require.NoError(t, err)

	second, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "a", Data: `{"v":2}`}})
	require.NoError(t, err)
	assert.Greater(t, second, first)

	obj, err := s.GetObject(ctx, "alice", "a")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, obj.Data)
	assert.Equal(t, second, obj.ModifiedAt)

	objects, err := s.GetObjectsByOwner(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}

func TestObjectStorage_SaveObjects_DuplicateIDInBatch(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")

	last, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{
		{ID: "a", Data: `"first"`},
		{ID: "a", Data: `"second"`},
	})
	require.NoError(t, err)

	// Последний элемент батча побеждает
	obj, err := s.GetObject(ctx, "alice", "a")
	require.NoError(t, err)
	assert.Equal(t, `"second"`, obj.Data)
	assert.Equal(t, last, obj.ModifiedAt)
}

func TestObjectStorage_SaveObjects_Empty(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")

	last, err := s.SaveObjects(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), last)

	written, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "a", Data: `1`}})
	require.NoError(t, err)

	last, err = s.SaveObjects(ctx, "alice", []models.ObjectInput{})
	require.NoError(t, err)
	assert.Equal(t, written, last)

	objects, err := s.GetObjectsByOwner(ctx, "alice", 0)
	require.NoError(t, err)
	assert.Len(t, objects, 1)
}

func TestObjectStorage_SaveObjects_UnknownOwner(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")
	_, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: "keep", Data: `1`}})
	require.NoError(t, err)

	// Батч с несуществующим владельцем откатывается целиком
	_, err = s.SaveObjects(ctx, "ghost", []models.ObjectInput{{ID: "a", Data: `1`}, {ID: "b", Data: `2`}})
	require.Error(t, err)

	objects, err := s.GetObjectsByOwner(ctx, "ghost", 0)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestObjectStorage_GetObjectsByOwner_Since(t *testing.T) {
	ctx := context.Background()
	s, clk, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")
	createTestUser(t, ctx, s, "bob")

	var marks []int64
	for i := 0; i < 5; i++ {
		last, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{{ID: fmt.Sprintf("obj-%d", i), Data: `{}`}})
		require.NoError(t, err)
		marks = append(marks, last)
		clk.Advance(time.Second)
	}

	_, err := s.SaveObjects(ctx, "bob", []models.ObjectInput{{ID: "bob-only", Data: `{}`}})
	require.NoError(t, err)

	tests := []struct {
		name    string
		wantIDs []string
		since   int64
	}{
		{name: "since zero returns all", since: 0, wantIDs: []string{"obj-0", "obj-1", "obj-2", "obj-3", "obj-4"}},
		{name: "since is exclusive", since: marks[2], wantIDs: []string{"obj-3", "obj-4"}},
		{name: "since last returns nothing", since: marks[4], wantIDs: []string{}},
		{name: "negative since returns all", since: -1, wantIDs: []string{"obj-0", "obj-1", "obj-2", "obj-3", "obj-4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects, err := s.GetObjectsByOwner(ctx, "alice", tt.since)
			require.NoError(t, err)
			require.NotNil(t, objects)

			ids := make([]string, 0, len(objects))
			for _, obj := range objects {
				ids = append(ids, obj.ID)
				assert.Equal(t, "alice", obj.Owner)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestObjectStorage_GetObjectsByOwner_Idempotent(t *testing.T) {
	ctx := context.Background()
	s, clk, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")

	var marks []int64
	for i := 0; i < 5; i++ {
		last, err := s.SaveObjects(ctx, "alice", []models.ObjectInput{
			{ID: fmt.Sprintf("obj-%d", i), Data: fmt.Sprintf(`{"n":%d}`, i)},
			{ID: fmt.Sprintf("extra-%d", i), Data: `null`},
		})
		require.NoError(t, err)
		marks = append(marks, last)
		clk.Advance(time.Millisecond)
	}

	for _, since := range []int64{0, marks[2], marks[4]} {
		first, err := s.GetObjectsByOwner(ctx, "alice", since)
		require.NoError(t, err)

		// время идет, но записей нет: результат не меняется
		clk.Advance(time.Hour)

		second, err := s.GetObjectsByOwner(ctx, "alice", since)
		require.NoError(t, err)
		assert.Equal(t, first, second, "since=%d", since)
	}
}

func TestObjectStorage_GetObject_NotFound(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")
	createTestUser(t, ctx, s, "bob")
	_, err := s.SaveObjects(ctx, "bob", []models.ObjectInput{{ID: "a", Data: `1`}})
	require.NoError(t, err)

	// Объект другого владельца не виден
	obj, err := s.GetObject(ctx, "alice", "a")
	assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	assert.Nil(t, obj)
}

func TestObjectStorage_SaveObjects_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, _, cleanup := setupTestStorage(t)
	defer cleanup()

	createTestUser(t, ctx, s, "alice")

	const writers = 10
	const perBatch = 5

	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			batch := make([]models.ObjectInput, perBatch)
			for i := range batch {
				batch[i] = models.ObjectInput{ID: fmt.Sprintf("w%d-%d", w, i), Data: `{}`}
			}
			_, err := s.SaveObjects(ctx, "alice", batch)
			errs <- err
		}(w)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	objects, err := s.GetObjectsByOwner(ctx, "alice", 0)
	require.NoError(t, err)
	require.Len(t, objects, writers*perBatch)

	// Все watermark уникальны и строго возрастают
	for i := 1; i < len(objects); i++ {
		assert.Greater(t, objects[i].ModifiedAt, objects[i-1].ModifiedAt)
	}
}
