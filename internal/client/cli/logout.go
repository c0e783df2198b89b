package cli

import (
	"context"
	"errors"

	"github.com/iudanet/objsync/internal/client/storage"
)

func (c *Cli) runLogout(ctx context.Context) error {
	if err := c.authService.Logout(ctx); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			c.io.Warn("Not logged in")
			return nil
		}
		return err
	}

	c.io.Success("Logged out, token revoked")
	return nil
}
