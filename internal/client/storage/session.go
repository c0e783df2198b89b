package storage

import "context"

// SessionStorage хранит bearer token текущего входа
type SessionStorage interface {
	// SaveSession replaces the stored session
	SaveSession(ctx context.Context, session *Session) error

	// GetSession returns ErrSessionNotFound if the client is not logged in
	GetSession(ctx context.Context) (*Session, error)

	// DeleteSession removes the session (logout)
	// Returns ErrSessionNotFound if there was nothing to delete
	DeleteSession(ctx context.Context) error
}

// Session описывает выданный сервером токен.
// Токен хранится как есть: сервер принимает его только до истечения TTL,
// а отзыв выполняется командой logout.
type Session struct {
	ServerURL string `json:"server_url"`
	Username  string `json:"username"`
	Token     string `json:"token"`
	IssuedAt  int64  `json:"issued_at"` // unix millis
}
