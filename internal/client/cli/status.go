package cli

import (
	"context"
	"time"
)

func (c *Cli) runStatus(ctx context.Context) error {
	status, err := c.syncService.Status(ctx)
	if err != nil {
		return err
	}

	if status.Session == nil {
		c.io.Warn("Not logged in")
	} else {
		c.io.Success("Logged in as %s", status.Session.Username)
		c.io.Printf("Server:      %s\n", status.Session.ServerURL)
		c.io.Printf("Issued:      %s\n", time.UnixMilli(status.Session.IssuedAt).UTC().Format(time.RFC3339))
	}

	c.io.Printf("Device:      %s\n", status.DeviceID)
	c.io.Printf("Cursor:      %d\n", status.Cursor)
	c.io.Printf("Cached:      %d object(s)\n", status.CachedObjects)
	return nil
}
