package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/database"
	"github.com/osse101/PotSettle_Go/internal/database/memory"
	"github.com/osse101/PotSettle_Go/internal/database/postgres"
	"github.com/osse101/PotSettle_Go/internal/repository"
)

// Storage bundles the domain store, the audit log store and a close hook for
// the underlying connection pool.
type Storage struct {
	Store    repository.Store
	EventLog repository.EventLog
	close    func()
}

// Close releases the connection pool, if any
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
		slog.Info(LogMsgStoreClosed)
	}
}

// InitializeStorage opens the configured store. The postgres driver connects,
// migrates to the latest schema, and returns pgx-backed repositories.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.Store {
	case config.StoreMemory:
		slog.Warn(LogMsgStoreMemory)
		return &Storage{Store: memory.NewStore(), EventLog: memory.NewEventLog()}, nil

	case config.StorePostgres:
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
		}
		if err := database.Migrate(ctx, pool, database.MigrateUp); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgStorePostgres, "host", cfg.DBHost, "db", cfg.DBName)
		slog.Info(LogMsgMigrationsApplied)

		return &Storage{
			Store:    postgres.NewStore(pool),
			EventLog: postgres.NewEventLogRepository(pool),
			close:    pool.Close,
		}, nil
	}

	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStoreDriver, cfg.Store)
}
