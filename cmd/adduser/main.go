// Command adduser creates or replaces a user in the objsync database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/iudanet/objsync/internal/client/iocli"
	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/config"
	"github.com/iudanet/objsync/internal/server/provision"
	"github.com/iudanet/objsync/internal/server/storage/backend"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adduser", flag.ContinueOnError)

	var username, password string
	fs.StringVar(&username, "u", "", "Username")
	fs.StringVar(&username, "username", "", "Username")
	fs.StringVar(&password, "p", "", "Password (prompted if omitted)")
	fs.StringVar(&password, "password", "", "Password (prompted if omitted)")
	iterations := fs.Int("iterations", 0, "PBKDF2 iterations (default from config)")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	if username == "" {
		return errors.New("missing username (-u)")
	}

	if password == "" {
		io := iocli.NewStdio()
		if password, err = io.ReadPassword("Password: "); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		confirm, err := io.ReadPassword("Repeat password: ")
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		if confirm != password {
			return errors.New("passwords do not match")
		}
	}

	cost := cfg.Auth.PBKDF2Iterations
	if *iterations > 0 {
		cost = *iterations
	}

	store, err := backend.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, clock.Real)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	user, err := provision.AddUser(ctx, store, username, password, cost, clock.Real.Now())
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Printf("✓ User %s saved (%d iterations)\n", user.Username, user.Iterations)
	return nil
}
