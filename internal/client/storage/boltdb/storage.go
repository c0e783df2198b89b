// Package boltdb хранит локальное состояние клиента в одном файле bbolt:
// сессию, курсор синхронизации, id устройства и кэш объектов.
package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/iudanet/objsync/internal/client/storage"
)

var (
	bucketSession  = []byte("session")
	bucketObjects  = []byte("objects")
	bucketMetadata = []byte("metadata")

	allBuckets = [][]byte{bucketSession, bucketObjects, bucketMetadata}
)

var (
	_ storage.SessionStorage  = (*Storage)(nil)
	_ storage.ObjectCache     = (*Storage)(nil)
	_ storage.MetadataStorage = (*Storage)(nil)
)

// openTimeout ограничивает ожидание file lock, если файл занят другим процессом клиента
const openTimeout = time.Second

// Storage is the client state store backed by bbolt
type Storage struct {
	db *bbolt.DB
}

// New opens (or creates) the state file at dbPath
func New(ctx context.Context, dbPath string) (*Storage, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}
	if err := s.db.Update(s.bootstrap); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return s, nil
}

// Close is idempotent
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// bootstrap создает buckets и id устройства при первом запуске
func (s *Storage) bootstrap(tx *bbolt.Tx) error {
	for _, name := range allBuckets {
		if _, err := tx.CreateBucketIfNotExists(name); err != nil {
			return fmt.Errorf("failed to create %s bucket: %w", name, err)
		}
	}

	meta := tx.Bucket(bucketMetadata)
	if meta.Get(keyDeviceID) != nil {
		return nil
	}
	return meta.Put(keyDeviceID, []byte(uuid.NewString()))
}
