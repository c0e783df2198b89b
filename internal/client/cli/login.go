package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"
)

func (c *Cli) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	username := fs.String("u", "", "username")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *username == "" {
		var err error
		if *username, err = c.io.ReadInput("Username: "); err != nil {
			return fmt.Errorf("failed to read username: %w", err)
		}
	}

	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	session, err := c.authService.Login(ctx, *username, password)
	if err != nil {
		return err
	}

	c.io.Success("Logged in as %s", session.Username)
	c.io.Printf("Server: %s\n", session.ServerURL)
	c.io.Printf("Issued: %s\n", time.UnixMilli(session.IssuedAt).UTC().Format(time.RFC3339))
	return nil
}
