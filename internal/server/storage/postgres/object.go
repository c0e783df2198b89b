package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/objsync/internal/dbx"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

const (
	lockOwnerQuery = `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`

	maxModifiedAtQuery = `SELECT COALESCE(MAX(modified_at), 0) FROM objects WHERE owner = $1`

	upsertObjectQuery = `
		INSERT INTO objects (owner, id, data, modified_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner, id) DO UPDATE SET
			data = EXCLUDED.data,
			modified_at = EXCLUDED.modified_at
	`
)

// SaveObjects upserts the batch and assigns per-owner watermarks in one transaction.
// Батчи одного владельца сериализуются transaction-level advisory lock,
// батчи разных владельцев идут параллельно.
func (s *Storage) SaveObjects(ctx context.Context, owner string, batch []models.ObjectInput) (int64, error) {
	if len(batch) == 0 {
		return maxModifiedAt(ctx, s.db, owner)
	}

	var watermark int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, lockOwnerQuery, owner); err != nil {
			return fmt.Errorf("failed to lock owner: %w", err)
		}

		current, err := maxModifiedAt(ctx, tx, owner)
		if err != nil {
			return err
		}

		base := storage.NextWatermark(s.nowMillis(), current)

		for i, obj := range batch {
			watermark = base + int64(i)
			if _, err := tx.ExecContext(ctx, upsertObjectQuery, owner, obj.ID, obj.Data, watermark); err != nil {
				return fmt.Errorf("failed to save object %q: %w", obj.ID, err)
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return watermark, nil
}

// GetObjectsByOwner retrieves objects modified after since, ascending by watermark
func (s *Storage) GetObjectsByOwner(ctx context.Context, owner string, since int64) ([]*models.StoredObject, error) {
	query := `
		SELECT owner, id, data, modified_at
		FROM objects
		WHERE owner = $1 AND modified_at > $2
		ORDER BY modified_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, owner, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects since watermark: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	objects := make([]*models.StoredObject, 0)
	for rows.Next() {
		obj := &models.StoredObject{}
		if err := rows.Scan(&obj.Owner, &obj.ID, &obj.Data, &obj.ModifiedAt); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return objects, nil
}

// GetObject retrieves a single object
func (s *Storage) GetObject(ctx context.Context, owner, id string) (*models.StoredObject, error) {
	query := `
		SELECT owner, id, data, modified_at
		FROM objects
		WHERE owner = $1 AND id = $2
	`

	obj := &models.StoredObject{}
	if err := s.db.QueryRowContext(ctx, query, owner, id).Scan(
		&obj.Owner,
		&obj.ID,
		&obj.Data,
		&obj.ModifiedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj, nil
}

func maxModifiedAt(ctx context.Context, q dbx.DBTX, owner string) (int64, error) {
	var current int64
	if err := q.QueryRowContext(ctx, maxModifiedAtQuery, owner).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to get current watermark: %w", err)
	}
	return current, nil
}
