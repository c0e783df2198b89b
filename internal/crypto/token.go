package crypto

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/objsync/internal/models"
)

const (
	// TokenIDSize - размер публичного идентификатора токена в байтах
	TokenIDSize = 16
	// TokenSecretSize - размер секретной части токена в байтах
	TokenSecretSize = 32

	tokenDelimiter = ":"
)

// ErrMalformedToken возвращается, если строку токена нельзя разобрать
var ErrMalformedToken = errors.New("malformed token")

// NewAuthToken генерирует новый токен со случайными id и secret
func NewAuthToken(owner string, now time.Time, ttl time.Duration) (*models.AuthToken, error) {
	id, err := RandomBytes(TokenIDSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token id: %w", err)
	}

	secret, err := RandomBytes(TokenSecretSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}

	return &models.AuthToken{
		ID:        id,
		Owner:     owner,
		Secret:    secret,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// EncodeToken сериализует токен в строку "base64(id):base64(secret)".
// Строка отдается клиенту один раз.
func EncodeToken(id, secret []byte) string {
	return base64.StdEncoding.EncodeToString(id) + tokenDelimiter + base64.StdEncoding.EncodeToString(secret)
}

// DecodeToken разбирает строку, полученную от EncodeToken
func DecodeToken(s string) (id, secret []byte, err error) {
	parts := strings.Split(s, tokenDelimiter)
	if len(parts) != 2 {
		return nil, nil, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedToken, len(parts))
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, nil, fmt.Errorf("%w: empty field", ErrMalformedToken)
	}

	id, err = base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid id encoding", ErrMalformedToken)
	}

	secret, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid secret encoding", ErrMalformedToken)
	}

	return id, secret, nil
}

// SecretsEqual сравнивает секреты за константное время.
// Разная длина дает false; длина секрета не является тайной.
func SecretsEqual(expected, actual []byte) bool {
	return subtle.ConstantTimeCompare(expected, actual) == 1
}
