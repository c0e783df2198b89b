package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	keyCursor   = []byte("cursor")
	keyDeviceID = []byte("device_id")
)

// GetCursor returns the cursor saved by the last ApplyPull
// Returns 0 if no pull has been performed yet
func (s *Storage) GetCursor(ctx context.Context) (int64, error) {
	var cursor int64

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketMetadata).Get(keyCursor)
		if raw == nil {
			return nil
		}
		if len(raw) != 8 {
			return fmt.Errorf("corrupted cursor: %d bytes", len(raw))
		}

		cursor = int64(binary.BigEndian.Uint64(raw))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get cursor: %w", err)
	}

	return cursor, nil
}

// GetDeviceID returns the id generated when the database was created
func (s *Storage) GetDeviceID(ctx context.Context) (string, error) {
	var id string

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketMetadata).Get(keyDeviceID)
		if raw == nil {
			return fmt.Errorf("device id not initialized")
		}
		id = string(raw)
		return nil
	})

	return id, err
}

func putCursor(tx *bbolt.Tx, cursor int64) error {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(cursor))

	if err := tx.Bucket(bucketMetadata).Put(keyCursor, raw); err != nil {
		return fmt.Errorf("failed to save cursor: %w", err)
	}
	return nil
}
