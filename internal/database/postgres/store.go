package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PotSettle_Go/internal/repository"
)

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// queries implements repository.Queries on top of a pool or a transaction
type queries struct {
	db dbtx
}

// Store implements repository.Store for PostgreSQL
type Store struct {
	*queries
	pool *pgxpool.Pool
}

var _ repository.Store = (*Store)(nil)

// NewStore creates a new Store backed by the pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		queries: &queries{db: pool},
		pool:    pool,
	}
}

// WithTx runs fn in a single transaction at the requested isolation level
func (s *Store) WithTx(ctx context.Context, iso repository.Isolation, fn func(q repository.Queries) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}
	if iso == repository.RepeatableRead {
		opts.IsoLevel = pgx.RepeatableRead
	}

	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return storeErr(OpBeginTx, err)
	}
	defer SafeRollback(ctx, tx)

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr(OpCommitTx, err)
	}
	return nil
}

// Ping checks connectivity
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return storeErr(OpPing, err)
	}
	return nil
}
