package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// Параметры PBKDF2 по умолчанию
const (
	// DefaultIterations - количество итераций PBKDF2
	DefaultIterations = 10000
	// SaltSize - размер соли в байтах
	SaltSize = 32
	// HashSize - длина выходного ключа в байтах
	HashSize = 32
	// MinHashSize - более короткие хеши не создаются и не принимаются
	MinHashSize = 16
)

// PasswordParams задает параметры деривации для новых хешей.
// Уже сохраненные хеши всегда проверяются с собственными параметрами.
type PasswordParams struct {
	Iterations int
	SaltLen    int
	KeyLen     int
}

// DefaultPasswordParams PBKDF2-SHA256, 10000 итераций, 32 байта соли и ключа
var DefaultPasswordParams = PasswordParams{
	Iterations: DefaultIterations,
	SaltLen:    SaltSize,
	KeyLen:     HashSize,
}

// HashedPassword содержит хеш вместе с параметрами, которыми он получен
type HashedPassword struct {
	Salt       []byte
	Hash       []byte
	Iterations int
}

// HashPassword хеширует пароль со свежей случайной солью
func HashPassword(password string, params PasswordParams) (*HashedPassword, error) {
	if params.Iterations <= 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", params.Iterations)
	}
	if params.SaltLen <= 0 {
		return nil, fmt.Errorf("salt length must be positive")
	}
	if params.KeyLen < MinHashSize {
		return nil, fmt.Errorf("key length must be at least %d bytes, got %d", MinHashSize, params.KeyLen)
	}

	salt, err := RandomBytes(params.SaltLen)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &HashedPassword{
		Salt:       salt,
		Iterations: params.Iterations,
		Hash:       derive(password, salt, params.Iterations, params.KeyLen),
	}, nil
}

// VerifyPassword проверяет пароль против сохраненного хеша.
// Деривация повторяется с сохраненными солью, числом итераций и длиной,
// поэтому результат всегда той же длины, что и stored.Hash.
// Хеш короче MinHashSize считается поврежденным: его префикс PBKDF2 не проверяется.
func VerifyPassword(stored HashedPassword, password string) bool {
	if len(stored.Hash) < MinHashSize || stored.Iterations <= 0 {
		return false
	}

	actual := derive(password, stored.Salt, stored.Iterations, len(stored.Hash))

	return subtle.ConstantTimeCompare(stored.Hash, actual) == 1
}

func derive(password string, salt []byte, iterations, keyLen int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keyLen, sha256.New)
}
