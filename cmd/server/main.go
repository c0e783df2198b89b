package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/config"
	"github.com/iudanet/objsync/internal/logger"
	"github.com/iudanet/objsync/internal/server"
	"github.com/iudanet/objsync/internal/server/auth"
	"github.com/iudanet/objsync/internal/server/reaper"
	"github.com/iudanet/objsync/internal/server/storage/backend"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	fs := flag.NewFlagSet("objsync-server", flag.ExitOnError)
	showVersion := fs.Bool("version", false, "Show version information")

	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	store, err := backend.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, clock.Real)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	log.Info("storage opened", slog.String("driver", cfg.Database.Driver))

	// отменяется при любом выходе из run раньше, чем закроется store
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	gw, err := auth.NewGateway(store, store, log, auth.WithIterations(cfg.Auth.PBKDF2Iterations))
	if err != nil {
		return err
	}

	router := server.NewRouter(cfg, server.Deps{
		Storage: store,
		Auth:    gw,
		Clock:   clock.Real,
		Logger:  log,
		Version: Version,
	})
	defer router.Stop()

	if cfg.Reaper.Interval > 0 {
		r, err := reaper.New(store, cfg.Reaper.Interval, log, reaper.WithRunOnStart(true))
		if err != nil {
			return err
		}
		stopReaper := r.Start(ctx)
		defer stopReaper()
	} else {
		log.Info("token reaper disabled")
	}

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", slog.String("address", cfg.Address), slog.String("version", Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	return nil
}

func printVersion() {
	fmt.Printf("objsync server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
