package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

const potColumns = `pot_id, creator, name, description, entry_amount::text, created_at, updated_at`

// CreatePot inserts a new pot master record
func (q *queries) CreatePot(ctx context.Context, pot *domain.Pot) error {
	query := `
		INSERT INTO pots (pot_id, creator, name, description, entry_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
	`
	_, err := q.db.Exec(ctx, query,
		pot.ID, pot.Creator, pot.Name, pot.Description, pot.EntryAmount.String(), pot.CreatedAt, pot.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrPotAlreadyExists, pot.ID)
		}
		return storeErr(OpCreatePot, err)
	}
	return nil
}

// GetPot retrieves a pot by ID
func (q *queries) GetPot(ctx context.Context, potID string) (*domain.Pot, error) {
	query := `SELECT ` + potColumns + ` FROM pots WHERE pot_id = $1`

	pot, err := scanPot(q.db.QueryRow(ctx, query, potID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(OpGetPot, err)
	}
	return pot, nil
}

// ListPots returns pots newest first
func (q *queries) ListPots(ctx context.Context, limit int) ([]domain.Pot, error) {
	query := `SELECT ` + potColumns + ` FROM pots ORDER BY created_at DESC, pot_id LIMIT $1`

	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, storeErr(OpListPots, err)
	}
	defer rows.Close()

	var pots []domain.Pot
	for rows.Next() {
		pot, err := scanPot(rows)
		if err != nil {
			return nil, storeErr(OpListPots, err)
		}
		pots = append(pots, *pot)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(OpListPots, err)
	}
	return pots, nil
}

// ListPotIDs returns the IDs of every registered pot plus any pot that only
// exists through its ledger
func (q *queries) ListPotIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT pot_id FROM pots
		UNION
		SELECT DISTINCT pot_id FROM participation_events
		ORDER BY pot_id
	`
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, storeErr(OpListPots, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, storeErr(OpListPots, err)
	}
	return ids, nil
}

// UpdatePot overwrites the mutable fields of a pot
func (q *queries) UpdatePot(ctx context.Context, pot *domain.Pot) error {
	query := `
		UPDATE pots
		SET name = $2, description = $3, entry_amount = $4::numeric, updated_at = $5
		WHERE pot_id = $1
	`
	tag, err := q.db.Exec(ctx, query, pot.ID, pot.Name, pot.Description, pot.EntryAmount.String(), pot.UpdatedAt)
	if err != nil {
		return storeErr(OpUpdatePot, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrPotNotFound, pot.ID)
	}
	return nil
}

// DeletePot removes the pot master record
func (q *queries) DeletePot(ctx context.Context, potID string) error {
	if _, err := q.db.Exec(ctx, `DELETE FROM pots WHERE pot_id = $1`, potID); err != nil {
		return storeErr(OpDeletePot, err)
	}
	return nil
}

func scanPot(row pgx.Row) (*domain.Pot, error) {
	var pot domain.Pot
	var amount string
	if err := row.Scan(&pot.ID, &pot.Creator, &pot.Name, &pot.Description, &amount, &pot.CreatedAt, &pot.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid entry amount %q: %w", amount, err)
	}
	pot.EntryAmount = d
	return &pot, nil
}
