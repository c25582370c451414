package repository

import "context"

// Isolation selects the isolation level of a store transaction
type Isolation int

const (
	// ReadCommitted is enough for the penalty check: the only conflicting
	// writers are inserts guarded by unique keys.
	ReadCommitted Isolation = iota
	// RepeatableRead gives a read view that does not change mid-computation
	RepeatableRead
)

// Queries groups every data access interface. Both the store and an open
// transaction satisfy it.
type Queries interface {
	Pot
	Ledger
	Prediction
	Penalty
	Outcome
	Settlement
}

// Store is the shared relational store
type Store interface {
	Queries

	// WithTx runs fn inside one transaction. The transaction commits when fn
	// returns nil and rolls back otherwise.
	WithTx(ctx context.Context, iso Isolation, fn func(q Queries) error) error

	Ping(ctx context.Context) error
}
