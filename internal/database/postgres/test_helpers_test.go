package postgres

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/PotSettle_Go/internal/database"
)

var (
	testPool     *pgxpool.Pool
	testSetupErr error
	testSetup    sync.Once
	testShutdown func()
)

// setupTestPool starts one container for the package and applies the
// embedded migrations. Tests skip when Docker is unavailable.
func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testSetup.Do(func() {
		testPool, testShutdown, testSetupErr = startContainer(context.Background())
	})
	if testSetupErr != nil {
		t.Skipf("Skipping integration test: %v", testSetupErr)
	}
	return testPool
}

func startContainer(ctx context.Context) (pool *pgxpool.Pool, shutdown func(), err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("testcontainers panic (likely Docker issue): %v", r)
		}
	}()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, nil, fmt.Errorf("connection string: %w", err)
	}

	pool, err = database.NewPool(ctx, connStr, 20, time.Minute, 5*time.Minute)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, nil, err
	}

	if err := database.Migrate(ctx, pool, database.MigrateUp); err != nil {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, nil, err
	}

	return pool, func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}, nil
}

// resetTables empties every table between tests
func resetTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE pots, participation_events, predictions, penalties, outcome_votes, settlements, events RESTART IDENTITY`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}
