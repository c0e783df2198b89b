package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/iudanet/objsync/internal/client/api"
	"github.com/iudanet/objsync/internal/client/auth"
	"github.com/iudanet/objsync/internal/client/cli"
	"github.com/iudanet/objsync/internal/client/iocli"
	"github.com/iudanet/objsync/internal/client/storage/boltdb"
	"github.com/iudanet/objsync/internal/client/sync"
	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/logger"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://127.0.0.1:8000", "Server URL")
	dbPath := flag.String("db", "objsync-client.db", "Path to local database")
	logLevel := flag.String("log-level", "warn", "Log level (debug, info, warn, error)")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	stdio := iocli.NewStdio()

	args := flag.Args()
	if len(args) == 0 {
		cli.New(stdio, nil, nil, nil, nil).PrintUsage()
		os.Exit(1)
	}

	log, err := logger.New(*logLevel, logger.FormatText, os.Stderr)
	if err != nil {
		fail(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Открываем BoltDB storage
	store, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fail(fmt.Errorf("failed to open database: %w", err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close database", slog.Any("error", err))
		}
	}()

	apiClient := api.NewClient(*serverURL)

	c := cli.New(
		stdio,
		auth.NewService(apiClient, store, store, apiClient.BaseURL(), clock.Real, log),
		sync.NewService(apiClient, store, store, store, log),
		store,
		uuid.NewString,
	)

	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		if errors.Is(err, cli.ErrUnknownCommand) {
			c.PrintUsage()
		}
		_ = store.Close()
		fail(err)
	}
}

func fail(err error) {
	color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func printVersion() {
	fmt.Printf("objsync client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
