// Package backend opens the storage implementation selected by configuration.
package backend

import (
	"context"
	"fmt"

	"github.com/iudanet/objsync/internal/clock"
	"github.com/iudanet/objsync/internal/config"
	"github.com/iudanet/objsync/internal/server/storage"
	"github.com/iudanet/objsync/internal/server/storage/postgres"
	"github.com/iudanet/objsync/internal/server/storage/sqlite"
)

// Open connects to the storage backend named by driver and applies migrations.
// For sqlite dsn is a file path (or ":memory:"), for postgres a connection string.
func Open(ctx context.Context, driver, dsn string, clk clock.Clock) (storage.Storage, error) {
	if clk == nil {
		clk = clock.Real
	}

	switch driver {
	case config.DriverSQLite:
		s, err := sqlite.New(ctx, dsn, sqlite.WithClock(clk))
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := postgres.New(ctx, dsn, postgres.WithClock(clk))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
