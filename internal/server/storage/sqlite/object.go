package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/iudanet/objsync/internal/dbx"
	"github.com/iudanet/objsync/internal/models"
	"github.com/iudanet/objsync/internal/server/storage"
)

// SaveObjects upserts the batch and assigns per-owner watermarks in one transaction
func (s *Storage) SaveObjects(ctx context.Context, owner string, batch []models.ObjectInput) (int64, error) {
	if len(batch) == 0 {
		return s.maxModifiedAt(ctx, s.db, owner)
	}

	var watermark int64

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		// Единственное соединение уже сериализует писателей, поэтому
		// чтение максимума и запись выполняются без вмешательства других транзакций
		current, err := s.maxModifiedAt(ctx, tx, owner)
		if err != nil {
			return err
		}

		base := storage.NextWatermark(s.nowMillis(), current)

		query := `
			INSERT INTO objects (owner, id, data, modified_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (owner, id) DO UPDATE SET
				data = excluded.data,
				modified_at = excluded.modified_at
		`

		for i, obj := range batch {
			watermark = base + int64(i)
			if _, err := tx.ExecContext(ctx, query, owner, obj.ID, obj.Data, watermark); err != nil {
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
		WHERE owner = ? AND modified_at > ?
		ORDER BY modified_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, owner, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects since watermark: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanObjects(rows)
}

// GetObject retrieves a single object
func (s *Storage) GetObject(ctx context.Context, owner, id string) (*models.StoredObject, error) {
	query := `
		SELECT owner, id, data, modified_at
		FROM objects
		WHERE owner = ? AND id = ?
	`

	obj := &models.StoredObject{}

	err := s.db.QueryRowContext(ctx, query, owner, id).Scan(
		&obj.Owner,
		&obj.ID,
		&obj.Data,
		&obj.ModifiedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object: %w", err)
	}

	return obj, nil
}

// maxModifiedAt returns the owner's current high-water mark, 0 if the owner has no objects
func (s *Storage) maxModifiedAt(ctx context.Context, q dbx.DBTX, owner string) (int64, error) {
	var current int64

	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(modified_at), 0) FROM objects WHERE owner = ?`,
		owner,
	).Scan(&current)
	if err != nil {
		return 0, fmt.Errorf("failed to get current watermark: %w", err)
	}

	return current, nil
}

// scanObjects is a helper function to scan multiple objects from rows
func scanObjects(rows *sql.Rows) ([]*models.StoredObject, error) {
	objects := make([]*models.StoredObject, 0)

	for rows.Next() {
		obj := &models.StoredObject{}
		if err := rows.Scan(
			&obj.Owner,
			&obj.ID,
			&obj.Data,
			&obj.ModifiedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, obj)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return objects, nil
}
