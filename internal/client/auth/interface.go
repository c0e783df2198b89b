package auth

//go:generate moq -out service_mock.go . Service

import (
	"context"

	"github.com/iudanet/objsync/internal/client/storage"
)

// Service управляет bearer token текущего устройства
type Service interface {
	// Login обменивает username и пароль на токен и сохраняет сессию.
	// При смене пользователя или сервера локальный кэш сбрасывается.
	Login(ctx context.Context, username, password string) (*storage.Session, error)

	// Logout отзывает токен на сервере и удаляет сессию.
	// Returns storage.ErrSessionNotFound if not logged in
	Logout(ctx context.Context) error

	// Session returns the current session or storage.ErrSessionNotFound
	Session(ctx context.Context) (*storage.Session, error)
}
