package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/crypto"
	"github.com/iudanet/objsync/internal/server/auth"
	"github.com/iudanet/objsync/internal/server/storage"
	"github.com/iudanet/objsync/pkg/api"
)

// TokenHandler выдает и отзывает bearer токены
type TokenHandler struct {
	logger *slog.Logger
	tokens storage.TokenStorage
	clock  clock.Clock
	ttl    time.Duration
}

// NewTokenHandler создает новый handler для токенов
func NewTokenHandler(logger *slog.Logger, tokens storage.TokenStorage, ttl time.Duration, clk clock.Clock) *TokenHandler {
	return &TokenHandler{
		logger: logger,
		tokens: tokens,
		clock:  clk,
		ttl:    ttl,
	}
}

// Issue обрабатывает PUT /user/token
// Выдает новый токен аутентифицированному пользователю
func (h *TokenHandler) Issue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user not found in context")
		SendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := crypto.NewAuthToken(user.Username, h.clock.Now(), h.ttl)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate auth token", slog.Any("error", err))
		SendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.tokens.SaveAuthToken(ctx, token); err != nil {
		h.logger.ErrorContext(ctx, "failed to save auth token",
			slog.String("username", user.Username),
			slog.Any("error", err))
		SendError(w, h.logger, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "auth token issued",
		slog.String("username", user.Username),
		slog.Time("expires_at", token.ExpiresAt))

	SendJSON(w, h.logger, api.TokenResponse{Token: crypto.EncodeToken(token.ID, token.Secret)}, http.StatusOK)
}

// Revoke обрабатывает DELETE /user/token
// Удаляет переданный токен, только если он принадлежит вызывающему
func (h *TokenHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, ok := auth.UserFromContext(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "user not found in context")
		SendError(w, h.logger, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req api.RevokeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode revoke request", slog.Any("error", err))
		sendBodyError(w, h.logger, err)
		return
	}

	if req.Token == "" {
		SendError(w, h.logger, "token is required", http.StatusBadRequest)
		return
	}

	id, _, err := crypto.DecodeToken(req.Token)
	if err != nil {
		SendError(w, h.logger, "invalid token format", http.StatusBadRequest)
		return
	}

	if err := h.tokens.DeleteAuthToken(ctx, user.Username, id); err != nil {
		// Уже удаленный или чужой токен: ответ тот же, что и при успехе
		if !errors.Is(err, storage.ErrTokenNotFound) {
			h.logger.ErrorContext(ctx, "failed to delete auth token",
				slog.String("username", user.Username),
				slog.Any("error", err))
			SendError(w, h.logger, "internal server error", http.StatusInternalServerError)
			return
		}
	} else {
		h.logger.InfoContext(ctx, "auth token revoked", slog.String("username", user.Username))
	}

	w.WriteHeader(http.StatusAccepted)
}
