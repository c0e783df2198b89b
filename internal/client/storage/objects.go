package storage

import (
	"context"
	"encoding/json"
)

// Object is a locally cached copy of a server object
type Object struct {
	ID         string          `json:"id"`
	Data       json.RawMessage `json:"data"`
	ModifiedAt int64           `json:"modified_at"`
}

// ObjectCache хранит объекты, полученные с сервера
type ObjectCache interface {
	// ApplyPull atomically stores pulled objects and advances the cursor.
	// A cached object is replaced unless it carries a newer modifiedAt.
	ApplyPull(ctx context.Context, objects []Object, cursor int64) error

	// GetObject returns ErrObjectNotFound if the id is not cached
	GetObject(ctx context.Context, id string) (*Object, error)

	// ListObjects returns cached objects ordered by id
	ListObjects(ctx context.Context) ([]Object, error)

	// Clear drops all cached objects and resets the cursor
	Clear(ctx context.Context) error
}
