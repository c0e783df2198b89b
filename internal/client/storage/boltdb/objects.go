package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/objsync/internal/client/storage"
)

// ApplyPull stores pulled objects and the new cursor in one transaction,
// so a crash never leaves the cursor ahead of the cache.
// Версия с меньшей меткой не заменяет уже кэшированную (last-writer-wins).
func (s *Storage) ApplyPull(ctx context.Context, objects []storage.Object, cursor int64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketObjects)

		for i := range objects {
			newer, err := isNewer(bucket, &objects[i])
			if err != nil {
				return err
			}
			if !newer {
				continue
			}

			data, err := json.Marshal(&objects[i])
			if err != nil {
				return fmt.Errorf("failed to marshal object %q: %w", objects[i].ID, err)
			}
			if err := bucket.Put([]byte(objects[i].ID), data); err != nil {
				return fmt.Errorf("failed to save object %q: %w", objects[i].ID, err)
			}
		}

		return putCursor(tx, cursor)
	})
}

// isNewer reports whether obj should replace the cached version
func isNewer(bucket *bbolt.Bucket, obj *storage.Object) (bool, error) {
	existing := bucket.Get([]byte(obj.ID))
	if existing == nil {
		return true, nil
	}

	var cached storage.Object
	if err := json.Unmarshal(existing, &cached); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached object %q: %w", obj.ID, err)
	}
	return obj.ModifiedAt >= cached.ModifiedAt, nil
}

// GetObject retrieves a cached object by id
func (s *Storage) GetObject(ctx context.Context, id string) (*storage.Object, error) {
	var obj *storage.Object

	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketObjects).Get([]byte(id))
		if data == nil {
			return storage.ErrObjectNotFound
		}

		obj = &storage.Object{}
		if err := json.Unmarshal(data, obj); err != nil {
			return fmt.Errorf("failed to unmarshal object: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return obj, nil
}

// ListObjects returns all cached objects ordered by id (bbolt key order)
func (s *Storage) ListObjects(ctx context.Context) ([]storage.Object, error) {
	objects := make([]storage.Object, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketObjects).ForEach(func(k, v []byte) error {
			var obj storage.Object
			if err := json.Unmarshal(v, &obj); err != nil {
				return fmt.Errorf("failed to unmarshal object %q: %w", k, err)
			}
			objects = append(objects, obj)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return objects, nil
}

// Clear drops the object cache and resets the cursor.
// Используется при смене пользователя: кэш принадлежит владельцу токена.
func (s *Storage) Clear(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketObjects); err != nil {
			return fmt.Errorf("failed to drop objects bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketObjects); err != nil {
			return fmt.Errorf("failed to create objects bucket: %w", err)
		}
		return putCursor(tx, 0)
	})
}
