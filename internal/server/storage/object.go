package storage

import (
	"context"

	"github.com/iudanet/objsync/internal/models"
)

// ObjectStorage defines interface for synchronized object persistence
type ObjectStorage interface {
	// SaveObjects upserts the batch in a single transaction and assigns each
	// object a per-owner watermark. Members get strictly increasing values in
	// batch order, all greater than any value previously assigned to the owner.
	// Returns the last assigned watermark; for an empty batch nothing is
	// written and the owner's current high-water mark is returned.
	SaveObjects(ctx context.Context, owner string, batch []models.ObjectInput) (int64, error)

	// GetObjectsByOwner retrieves all objects of the owner with ModifiedAt > since,
	// ascending by ModifiedAt. Used for incremental synchronization.
	// Returns empty slice if no objects found
	GetObjectsByOwner(ctx context.Context, owner string, since int64) ([]*models.StoredObject, error)

	// GetObject retrieves a single object
	// Returns ErrObjectNotFound if object doesn't exist
	GetObject(ctx context.Context, owner, id string) (*models.StoredObject, error)
}
