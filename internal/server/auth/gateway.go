// Package auth resolves an Authorization header to a verified user.
package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/crypto"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

const (
	schemeBasic  = "basic"
	schemeBearer = "bearer"
)

// Gateway проверяет Basic и Bearer credentials
type Gateway struct {
	users  storage.UserStorage
	tokens storage.TokenStorage
	clock  clock.Clock
	logger *slog.Logger

	// dummy используется для неизвестных пользователей, чтобы время ответа
	// не зависело от существования username
	dummy crypto.HashedPassword
}

// Option настраивает Gateway
type Option func(*gatewayOptions)

type gatewayOptions struct {
	clock      clock.Clock
	iterations int
}

// WithClock подменяет источник времени (для тестов)
func WithClock(c clock.Clock) Option {
	return func(o *gatewayOptions) {
		o.clock = c
	}
}

// WithIterations sets the PBKDF2 cost of the dummy hash; it should match the
// cost used for real users
func WithIterations(n int) Option {
	return func(o *gatewayOptions) {
		o.iterations = n
	}
}

// NewGateway creates a new auth gateway
func NewGateway(users storage.UserStorage, tokens storage.TokenStorage, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	o := gatewayOptions{
		clock:      clock.Real,
		iterations: crypto.DefaultIterations,
	}
	for _, opt := range opts {
		opt(&o)
	}

	params := crypto.DefaultPasswordParams
	params.Iterations = o.iterations

	dummy, err := crypto.HashPassword("objsync-dummy-password", params)
	if err != nil {
		return nil, fmt.Errorf("failed to create dummy hash: %w", err)
	}

	return &Gateway{
		users:  users,
		tokens: tokens,
		clock:  o.clock,
		logger: logger,
		dummy:  *dummy,
	}, nil
}

// Authenticate resolves the Authorization header value to a user.
// Errors are ErrMissingCredential, ErrMalformedCredential, ErrInvalidCredential
// or a wrapped storage failure; use StatusCode to map them.
func (g *Gateway) Authenticate(ctx context.Context, header string) (*models.User, error) {
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return nil, ErrMissingCredential
	}
	if len(fields) != 2 {
		return nil, fmt.Errorf("%w: expected scheme and payload", ErrMalformedCredential)
	}

	scheme, payload := strings.ToLower(fields[0]), fields[1]

	switch scheme {
	case schemeBasic:
		return g.authenticateBasic(ctx, payload)
	case schemeBearer:
		return g.authenticateBearer(ctx, payload)
	default:
		return nil, fmt.Errorf("%w: unsupported scheme", ErrMalformedCredential)
	}
}

func (g *Gateway) authenticateBasic(ctx context.Context, payload string) (*models.User, error) {
	username, password, err := decodeBasic(payload)
	if err != nil {
		return nil, err
	}

	user, err := g.users.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			// Тратим столько же времени, сколько на настоящую проверку
			crypto.VerifyPassword(g.dummy, password)
			g.logger.DebugContext(ctx, "Basic auth for unknown user")
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	stored := crypto.HashedPassword{
		Salt:       user.Salt,
		Hash:       user.PasswordHash,
		Iterations: user.Iterations,
	}
	if !crypto.VerifyPassword(stored, password) {
		g.logger.DebugContext(ctx, "Basic auth password mismatch", slog.String("username", username))
		return nil, ErrInvalidCredential
	}

	return user, nil
}

func (g *Gateway) authenticateBearer(ctx context.Context, payload string) (*models.User, error) {
	id, secret, err := crypto.DecodeToken(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedCredential, err)
	}

	token, err := g.tokens.GetAuthToken(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to get auth token: %w", err)
	}

	// Хранилище уже фильтрует по времени, но между запросом и проверкой
	// токен мог истечь
	if token.IsExpired(g.clock.Now()) {
		return nil, ErrInvalidCredential
	}

	user, err := g.users.GetUser(ctx, token.Owner)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			g.logger.WarnContext(ctx, "Bearer token owner no longer exists", slog.String("username", token.Owner))
			return nil, ErrInvalidCredential
		}
		return nil, fmt.Errorf("failed to get token owner: %w", err)
	}

	if !crypto.SecretsEqual(token.Secret, secret) {
		return nil, ErrInvalidCredential
	}

	return user, nil
}

// decodeBasic декодирует base64(username:password)
// Пароль может содержать ':', поэтому делим по первому двоеточию
func decodeBasic(payload string) (username, password string, err error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return "", "", fmt.Errorf("%w: invalid base64", ErrMalformedCredential)
		}
	}

	if !utf8.Valid(raw) {
		return "", "", fmt.Errorf("%w: not valid UTF-8", ErrMalformedCredential)
	}

	username, password, ok := strings.Cut(string(raw), ":")
	if !ok {
		return "", "", fmt.Errorf("%w: missing ':' separator", ErrMalformedCredential)
	}

	return username, password, nil
}
