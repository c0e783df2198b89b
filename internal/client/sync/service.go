package sync

//go:generate moq -out service_mock.go . Service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/iudanet/objsync/internal/client/api"
	"github.com/iudanet/objsync/internal/client/storage"
	pkgapi "github.com/iudanet/objsync/pkg/api"
)

// ErrNotLoggedIn is returned when an operation needs a session and there is none
var ErrNotLoggedIn = errors.New("not logged in, run 'objsync login' first")

// Service определяет операции синхронизации
type Service interface {
	// Push отправляет объекты на сервер одним батчем и возвращает modifiedAt
	// последнего из них. Курсор не сдвигается: между ним и этим значением
	// могли появиться изменения других устройств.
	Push(ctx context.Context, objects []pkgapi.ObjectInput) (int64, error)

	// Pull получает изменения после сохраненного курсора, кэширует их
	// и сдвигает курсор
	Pull(ctx context.Context) (*PullResult, error)

	// Fetch запрашивает один объект с сервера, минуя кэш
	Fetch(ctx context.Context, id string) (*storage.Object, error)

	// Status возвращает локальное состояние синхронизации
	Status(ctx context.Context) (*Status, error)
}

// PullResult contains pull operation results
type PullResult struct {
	Pulled int   // количество полученных объектов
	Since  int64 // курсор до запроса
	Cursor int64 // курсор после запроса
}

// Status описывает локальное состояние клиента
type Status struct {
	Session       *storage.Session // nil, если вход не выполнен
	DeviceID      string
	Cursor        int64
	CachedObjects int
}

type service struct {
	apiClient api.ClientAPI
	sessions  storage.SessionStorage
	cache     storage.ObjectCache
	metadata  storage.MetadataStorage
	logger    *slog.Logger
}

// NewService creates a new sync service
func NewService(apiClient api.ClientAPI, sessions storage.SessionStorage, cache storage.ObjectCache, metadata storage.MetadataStorage, logger *slog.Logger) Service {
	return &service{
		apiClient: apiClient,
		sessions:  sessions,
		cache:     cache,
		metadata:  metadata,
		logger:    logger,
	}
}

func (s *service) Push(ctx context.Context, objects []pkgapi.ObjectInput) (int64, error) {
	session, err := s.session(ctx)
	if err != nil {
		return 0, err
	}

	modifiedAt, err := s.apiClient.PutObjects(ctx, session.Token, objects)
	if err != nil {
		return 0, err
	}

	s.logger.Info("objects pushed",
		slog.Int("count", len(objects)),
		slog.Int64("modified_at", modifiedAt))

	return modifiedAt, nil
}

func (s *service) Pull(ctx context.Context) (*PullResult, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	since, err := s.metadata.GetCursor(ctx)
	if err != nil {
		return nil, err
	}

	remote, err := s.apiClient.GetObjects(ctx, session.Token, since)
	if err != nil {
		return nil, err
	}

	cursor := since
	objects := make([]storage.Object, 0, len(remote))
	for _, obj := range remote {
		// сервер отдает объекты по возрастанию, но курсор не должен зависеть от порядка
		if obj.ModifiedAt > cursor {
			cursor = obj.ModifiedAt
		}
		objects = append(objects, storage.Object{
			ID:         obj.ID,
			Data:       obj.Data,
			ModifiedAt: obj.ModifiedAt,
		})
	}

	if err := s.cache.ApplyPull(ctx, objects, cursor); err != nil {
		return nil, fmt.Errorf("failed to cache pulled objects: %w", err)
	}

	s.logger.Info("objects pulled",
		slog.Int("count", len(objects)),
		slog.Int64("since", since),
		slog.Int64("cursor", cursor))

	return &PullResult{Pulled: len(objects), Since: since, Cursor: cursor}, nil
}

func (s *service) Fetch(ctx context.Context, id string) (*storage.Object, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}

	obj, err := s.apiClient.GetObject(ctx, session.Token, id)
	if err != nil {
		return nil, err
	}

	return &storage.Object{ID: obj.ID, Data: obj.Data, ModifiedAt: obj.ModifiedAt}, nil
}

func (s *service) Status(ctx context.Context) (*Status, error) {
	status := &Status{}

	session, err := s.sessions.GetSession(ctx)
	switch {
	case err == nil:
		status.Session = session
	case !errors.Is(err, storage.ErrSessionNotFound):
		return nil, err
	}

	if status.DeviceID, err = s.metadata.GetDeviceID(ctx); err != nil {
		return nil, err
	}
	if status.Cursor, err = s.metadata.GetCursor(ctx); err != nil {
		return nil, err
	}

	objects, err := s.cache.ListObjects(ctx)
	if err != nil {
		return nil, err
	}
	status.CachedObjects = len(objects)

	return status, nil
}

func (s *service) session(ctx context.Context) (*storage.Session, error) {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	return session, nil
}
