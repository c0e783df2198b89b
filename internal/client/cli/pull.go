package cli

import "context"

func (c *Cli) runPull(ctx context.Context) error {
	result, err := c.syncService.Pull(ctx)
	if err != nil {
		return err
	}

	if result.Pulled == 0 {
		c.io.Success("Up to date (cursor %d)", result.Cursor)
		return nil
	}

	c.io.Success("Pulled %d object(s), cursor %d -> %d", result.Pulled, result.Since, result.Cursor)
	return nil
}
