package cli

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/iudanet/objsync/pkg/api"
)

func (c *Cli) runPush(ctx context.Context, args []string) error {
	var id, raw string

	switch len(args) {
	case 1:
		id, raw = c.newID(), args[0]
	case 2:
		id, raw = args[0], args[1]
	default:
		return errors.New("usage: push [ID] JSON")
	}

	if id == "" {
		return errors.New("object id must not be empty")
	}
	if !json.Valid([]byte(raw)) {
		return errors.New("object data must be valid JSON")
	}

	modifiedAt, err := c.syncService.Push(ctx, []api.ObjectInput{{ID: id, Data: json.RawMessage(raw)}})
	if err != nil {
		return err
	}

	c.io.Success("Pushed %s (modifiedAt %d)", id, modifiedAt)
	return nil
}
