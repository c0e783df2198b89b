package models

import "time"

// User представляет пользователя в системе
// Создается вне ядра (cmd/adduser), заменяется только целиком
type User struct {
	CreatedAt    time.Time `json:"created_at"` // время создания (хранится в unix millis)
	Username     string    `json:"username"`   // первичный ключ
	PasswordHash []byte    `json:"-"`          // PBKDF2 хеш пароля
	Salt         []byte    `json:"-"`          // соль (32 bytes)
	Iterations   int       `json:"-"`          // число итераций PBKDF2, с которым получен хеш
}

// AuthToken представляет bearer token пользователя
// ID используется для поиска, Secret сравнивается за константное время
type AuthToken struct {
	ExpiresAt time.Time `json:"expires_at"` // время истечения (хранится в unix millis)
	Owner     string    `json:"owner"`      // username владельца
	ID        []byte    `json:"-"`          // случайный идентификатор (16 bytes)
	Secret    []byte    `json:"-"`          // случайный секрет (32 bytes)
}

// IsExpired reports whether the token is no longer valid at now.
// A token is valid strictly before ExpiresAt.
func (t *AuthToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
