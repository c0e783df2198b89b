// Package validation проверяет учетные данные до хеширования и сохранения.
package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// Ограничения на учетные данные
const (
	MinUsernameLen = 3
	MaxUsernameLen = 64
	// MaxPasswordLen ограничивает стоимость PBKDF2 на один запрос
	MaxPasswordLen = 1024
)

// ErrInvalidUsername и ErrInvalidPassword оборачиваются с подробностями
var (
	ErrInvalidUsername = errors.New("invalid username")
	ErrInvalidPassword = errors.New("invalid password")
)

// usernamePattern: латиница, цифры и _ . @ -
// Двоеточие запрещено, Basic credentials делятся по первому ':'
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.@-]+$`)

// ValidateUsername checks length and the allowed alphabet
func ValidateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: cannot be empty", ErrInvalidUsername)
	case len(username) < MinUsernameLen:
		return fmt.Errorf("%w: must be at least %d characters long", ErrInvalidUsername, MinUsernameLen)
	case len(username) > MaxUsernameLen:
		return fmt.Errorf("%w: must not exceed %d characters", ErrInvalidUsername, MaxUsernameLen)
	case !usernamePattern.MatchString(username):
		return fmt.Errorf("%w: only letters, digits and the characters _ . @ - are allowed", ErrInvalidUsername)
	}
	return nil
}

// ValidatePassword проверяет пароль перед хешированием.
// Пробелы по краям значимы и не обрезаются.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: cannot be empty", ErrInvalidPassword)
	}
	if len(password) > MaxPasswordLen {
		return fmt.Errorf("%w: must not exceed %d bytes", ErrInvalidPassword, MaxPasswordLen)
	}
	return nil
}
