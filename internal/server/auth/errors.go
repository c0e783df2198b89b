package auth

import (
	"errors"
	"net/http"
)

// Классы отказа аутентификации
var (
	// ErrMissingCredential означает, что заголовок Authorization отсутствует
	ErrMissingCredential = errors.New("missing credential")

	// ErrMalformedCredential означает синтаксически неверный заголовок:
	// неизвестная схема, битый base64, не UTF-8, неверное число полей
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrInvalidCredential означает корректно оформленные, но неверные данные:
	// неизвестный пользователь, неверный пароль, отозванный или истекший токен
	ErrInvalidCredential = errors.New("invalid credential")
)

// StatusCode maps an Authenticate result to an HTTP status.
// nil maps to 200, storage failures to 500.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, ErrMalformedCredential):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredential):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
