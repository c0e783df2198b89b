package storage

//go:generate moq -out metadata_mock.go . MetadataStorage

import "context"

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// GetCursor returns the highest modifiedAt seen by the last pull.
	// Returns 0 if no pull has been performed yet
	GetCursor(ctx context.Context) (int64, error)

	// GetDeviceID returns a stable random identifier of this client installation
	GetDeviceID(ctx context.Context) (string, error)
}
