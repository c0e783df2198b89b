package handlers

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockObjectStorage is an in-memory ObjectStorage for testing
type mockObjectStorage struct {
	objects   map[string]map[string]*models.StoredObject // owner -> id -> object
	clock     clock.Clock
	saveError error
	getError  error
	batches   [][]models.ObjectInput
	mu        sync.Mutex
}

func newMockObjectStorage(clk clock.Clock) *mockObjectStorage {
	return &mockObjectStorage{
		objects: make(map[string]map[string]*models.StoredObject),
		clock:   clk,
	}
}

func (m *mockObjectStorage) currentMax(owner string) int64 {
	var current int64
	for _, obj := range m.objects[owner] {
		if obj.ModifiedAt > current {
			current = obj.ModifiedAt
		}
	}
	return current
}

func (m *mockObjectStorage) SaveObjects(ctx context.Context, owner string, batch []models.ObjectInput) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveError != nil {
		return 0, m.saveError
	}
	m.batches = append(m.batches, batch)

	current := m.currentMax(owner)
	if len(batch) == 0 {
		return current, nil
	}

	if m.objects[owner] == nil {
		m.objects[owner] = make(map[string]*models.StoredObject)
	}

	base := storage.NextWatermark(clock.Millis(m.clock.Now()), current)
	var last int64
	for i, in := range batch {
		last = base + int64(i)
		m.objects[owner][in.ID] = &models.StoredObject{Owner: owner, ID: in.ID, Data: in.Data, ModifiedAt: last}
	}
	return last, nil
}

func (m *mockObjectStorage) GetObjectsByOwner(ctx context.Context, owner string, since int64) ([]*models.StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}

	result := make([]*models.StoredObject, 0)
	for _, obj := range m.objects[owner] {
		if obj.ModifiedAt > since {
			result = append(result, obj)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ModifiedAt < result[j].ModifiedAt })
	return result, nil
}

func (m *mockObjectStorage) GetObject(ctx context.Context, owner, id string) (*models.StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.getError != nil {
		return nil, m.getError
	}
	obj, ok := m.objects[owner][id]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return obj, nil
}

// mockTokenStorage is an in-memory TokenStorage for testing
type mockTokenStorage struct {
	tokens      map[string]*models.AuthToken
	saveError   error
	deleteError error
	deleted     [][]byte
}

func newMockTokenStorage() *mockTokenStorage {
	return &mockTokenStorage{tokens: make(map[string]*models.AuthToken)}
}

func (m *mockTokenStorage) SaveAuthToken(ctx context.Context, token *models.AuthToken) error {
	if m.saveError != nil {
		return m.saveError
	}
	m.tokens[string(token.ID)] = token
	return nil
}

func (m *mockTokenStorage) GetAuthToken(ctx context.Context, id []byte) (*models.AuthToken, error) {
	token, ok := m.tokens[string(id)]
	if !ok {
		return nil, storage.ErrTokenNotFound
	}
	return token, nil
}

func (m *mockTokenStorage) DeleteAuthToken(ctx context.Context, owner string, id []byte) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	token, ok := m.tokens[string(id)]
	if !ok || token.Owner != owner {
		return storage.ErrTokenNotFound
	}
	delete(m.tokens, string(id))
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockTokenStorage) DeleteStaleAuthTokens(ctx context.Context) (int, error) {
	return 0, nil
}
