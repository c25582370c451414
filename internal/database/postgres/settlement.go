package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// SaveSettlement stores the winner snapshot once per (pot, date)
func (q *queries) SaveSettlement(ctx context.Context, s *domain.Settlement) (bool, error) {
	query := `
		INSERT INTO settlements (pot_id, settlement_date, outcome, winners, computed_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pot_id, settlement_date) DO NOTHING
	`
	tag, err := q.db.Exec(ctx, query, s.PotID, s.SettlementDate, string(s.Outcome), s.Winners, s.ComputedAt)
	if err != nil {
		return false, storeErr(OpSaveSettlement, err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetSettlement retrieves the snapshot for (pot, date)
func (q *queries) GetSettlement(ctx context.Context, potID string, date time.Time) (*domain.Settlement, error) {
	query := `
		SELECT pot_id, settlement_date, outcome, winners, computed_at
		FROM settlements
		WHERE pot_id = $1 AND settlement_date = $2
	`
	var s domain.Settlement
	var outcome string
	err := q.db.QueryRow(ctx, query, potID, date).Scan(&s.PotID, &s.SettlementDate, &outcome, &s.Winners, &s.ComputedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(OpGetSettlement, err)
	}
	s.Outcome = domain.Direction(outcome)
	return &s, nil
}

// DeleteSettlements removes every snapshot of the pot
func (q *queries) DeleteSettlements(ctx context.Context, potID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM settlements WHERE pot_id = $1`, potID)
	if err != nil {
		return 0, storeErr(OpDeleteSettlements, err)
	}
	return tag.RowsAffected(), nil
}
