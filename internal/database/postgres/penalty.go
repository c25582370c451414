package postgres

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// InsertPenalty relies on the (pot_id, participant) primary key: a concurrent
// or repeated insert affects zero rows instead of creating a duplicate.
func (q *queries) InsertPenalty(ctx context.Context, rec *domain.PenaltyRecord) (bool, error) {
	query := `
		INSERT INTO penalties (pot_id, participant, penalized_on, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pot_id, participant) DO NOTHING
	`
	tag, err := q.db.Exec(ctx, query, rec.PotID, rec.Participant, rec.PenalizedOn, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, storeErr(OpInsertPenalty, err)
	}
	return tag.RowsAffected() == 1, nil
}

// HasPenalty reports whether the participant has been penalized in the pot
func (q *queries) HasPenalty(ctx context.Context, potID, participant string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM penalties WHERE pot_id = $1 AND participant = $2)`

	var exists bool
	if err := q.db.QueryRow(ctx, query, potID, participant).Scan(&exists); err != nil {
		return false, storeErr(OpHasPenalty, err)
	}
	return exists, nil
}

// ListPenalties returns every penalty of the pot
func (q *queries) ListPenalties(ctx context.Context, potID string) ([]domain.PenaltyRecord, error) {
	query := `
		SELECT pot_id, participant, penalized_on, created_at
		FROM penalties
		WHERE pot_id = $1
		ORDER BY created_at, participant
	`
	rows, err := q.db.Query(ctx, query, potID)
	if err != nil {
		return nil, storeErr(OpListPenalties, err)
	}
	defer rows.Close()

	var records []domain.PenaltyRecord
	for rows.Next() {
		var rec domain.PenaltyRecord
		if err := rows.Scan(&rec.PotID, &rec.Participant, &rec.PenalizedOn, &rec.CreatedAt); err != nil {
			return nil, storeErr(OpListPenalties, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(OpListPenalties, err)
	}
	return records, nil
}

// DeletePenalties removes every penalty of the pot
func (q *queries) DeletePenalties(ctx context.Context, potID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM penalties WHERE pot_id = $1`, potID)
	if err != nil {
		return 0, storeErr(OpDeletePenalties, err)
	}
	return tag.RowsAffected(), nil
}
