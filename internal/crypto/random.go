package crypto

import (
	"crypto/rand"
	"fmt"
)

// RandomBytes возвращает n криптографически случайных байт.
// Используется для солей, id и секретов токенов.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("random length must be positive, got %d", n)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}
