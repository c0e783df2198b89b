package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/iudanet/objsync/internal/client/storage"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	remote := fs.Bool("remote", false, "fetch from server instead of local cache")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: get [-remote] ID")
	}
	id := fs.Arg(0)

	var (
		obj *storage.Object
		err error
	)
	if *remote {
		obj, err = c.syncService.Fetch(ctx, id)
	} else {
		obj, err = c.cache.GetObject(ctx, id)
		if errors.Is(err, storage.ErrObjectNotFound) {
			return fmt.Errorf("%w: %s (try 'objsync pull' or 'get -remote')", err, id)
		}
	}
	if err != nil {
		return err
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, obj.Data, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(obj.Data)
	}

	c.io.Printf("ID:         %s\n", obj.ID)
	c.io.Printf("ModifiedAt: %d\n", obj.ModifiedAt)
	c.io.Printf("Data:\n%s\n", pretty.String())
	return nil
}
