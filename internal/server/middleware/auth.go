package middleware

//go:generate moq -out authenticator_mock.go . Authenticator

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/auth"
	"github.com/iudanet/objsync/internal/server/handlers"
)

// Authenticator разрешает заголовок Authorization в пользователя
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*models.User, error)
}

// AuthMiddleware создает middleware для проверки Basic или Bearer credentials
// При отказе следующий handler не вызывается
func AuthMiddleware(logger *slog.Logger, gw Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// Заголовок не логируется: он содержит пароль или секрет токена
			user, err := gw.Authenticate(ctx, r.Header.Get("Authorization"))
			if err != nil {
				status := auth.StatusCode(err)

				switch {
				case errors.Is(err, auth.ErrMissingCredential):
					logger.DebugContext(ctx, "Missing Authorization header", slog.String("path", r.URL.Path))
					w.Header().Set("WWW-Authenticate", `Basic realm="objsync"`)
					handlers.SendError(w, logger, "missing credentials", status)
				case errors.Is(err, auth.ErrMalformedCredential):
					logger.WarnContext(ctx, "Malformed Authorization header", slog.Any("error", err))
					handlers.SendError(w, logger, "malformed credentials", status)
				case errors.Is(err, auth.ErrInvalidCredential):
					logger.WarnContext(ctx, "Invalid credentials", slog.String("remote_addr", r.RemoteAddr))
					handlers.SendError(w, logger, "invalid credentials", status)
				default:
					logger.ErrorContext(ctx, "Authentication failed", slog.Any("error", err))
					handlers.SendError(w, logger, "internal server error", status)
				}
				return
			}

			logger.DebugContext(ctx, "User authenticated", slog.String("username", user.Username))

			next.ServeHTTP(w, r.WithContext(auth.WithUser(ctx, user)))
		})
	}
}
