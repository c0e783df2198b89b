package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/iudanet/objsync/internal/client/api"
	"github.com/iudanet/objsync/internal/client/storage"
	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/validation"
)

type service struct {
	apiClient api.ClientAPI
	sessions  storage.SessionStorage
	cache     storage.ObjectCache
	clock     clock.Clock
	logger    *slog.Logger
	serverURL string
}

// NewService создает сервис авторизации для сервера serverURL
func NewService(apiClient api.ClientAPI, sessions storage.SessionStorage, cache storage.ObjectCache, serverURL string, clk clock.Clock, logger *slog.Logger) Service {
	return &service{
		apiClient: apiClient,
		sessions:  sessions,
		cache:     cache,
		clock:     clk,
		logger:    logger,
		serverURL: serverURL,
	}
}

func (s *service) Login(ctx context.Context, username, password string) (*storage.Session, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}

	token, err := s.apiClient.IssueToken(ctx, username, password)
	if err != nil {
		if api.IsStatus(err, http.StatusForbidden) {
			return nil, fmt.Errorf("invalid username or password: %w", err)
		}
		return nil, err
	}

	prev, err := s.sessions.GetSession(ctx)
	if err != nil && !errors.Is(err, storage.ErrSessionNotFound) {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	// кэш принадлежит владельцу токена
	if prev == nil || prev.Username != username || prev.ServerURL != s.serverURL {
		if err := s.cache.Clear(ctx); err != nil {
			return nil, err
		}
	}

	// предыдущий токен этого устройства больше не нужен
	if prev != nil && prev.ServerURL == s.serverURL {
		if err := s.apiClient.RevokeToken(ctx, prev.Token); err != nil {
			s.logger.Warn("failed to revoke previous token", slog.Any("error", err))
		}
	}

	session := &storage.Session{
		ServerURL: s.serverURL,
		Username:  username,
		Token:     token,
		IssuedAt:  clock.Millis(s.clock.Now()),
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.logger.Debug("logged in", slog.String("username", username))
	return session, nil
}

func (s *service) Logout(ctx context.Context) error {
	session, err := s.sessions.GetSession(ctx)
	if err != nil {
		return err
	}

	if err := s.apiClient.RevokeToken(ctx, session.Token); err != nil {
		// Токен уже недействителен (истек или пользователь удален):
		// на сервере отзывать нечего, удаляем только локальную сессию
		if !api.IsStatus(err, http.StatusForbidden) && !api.IsStatus(err, http.StatusUnauthorized) {
			return fmt.Errorf("failed to revoke token: %w", err)
		}
		s.logger.Warn("token already rejected by server", slog.Any("error", err))
	}

	return s.sessions.DeleteSession(ctx)
}

func (s *service) Session(ctx context.Context) (*storage.Session, error) {
	return s.sessions.GetSession(ctx)
}
