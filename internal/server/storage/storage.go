package storage

import "context"

// Storage is the full persistence layer used by the server.
// Implementations are safe for concurrent use.
type Storage interface {
	UserStorage
	ObjectStorage
	TokenStorage

	// Ping checks that the database is reachable
	Ping(ctx context.Context) error

	// Close releases the underlying connection pool
	Close() error
}

// NextWatermark computes the first watermark of a new batch:
// max(now, currentMax+1). It catches up with wall-clock time when the owner's
// clock has fallen behind but never goes backwards, so watermarks stay loosely
// correlated with real time while remaining strictly increasing.
func NextWatermark(nowMillis, currentMax int64) int64 {
	if currentMax+1 > nowMillis {
		return currentMax + 1
	}
	return nowMillis
}
