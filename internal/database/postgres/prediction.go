package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// UpsertPrediction inserts the prediction or overwrites direction and
// created_at of the existing row (last write wins)
func (q *queries) UpsertPrediction(ctx context.Context, p *domain.Prediction) error {
	query := `
		INSERT INTO predictions (pot_id, participant, prediction_date, direction, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pot_id, participant, prediction_date)
		DO UPDATE SET direction = EXCLUDED.direction, created_at = EXCLUDED.created_at
	`
	_, err := q.db.Exec(ctx, query, p.PotID, p.Participant, p.PredictionDate, string(p.Direction), p.CreatedAt)
	if err != nil {
		return storeErr(OpUpsertPrediction, err)
	}
	return nil
}

// GetPrediction retrieves the prediction for a key
func (q *queries) GetPrediction(ctx context.Context, potID, participant string, date time.Time) (*domain.Prediction, error) {
	query := `
		SELECT pot_id, participant, prediction_date, direction, created_at
		FROM predictions
		WHERE pot_id = $1 AND participant = $2 AND prediction_date = $3
	`
	p, err := scanPrediction(q.db.QueryRow(ctx, query, potID, participant, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, storeErr(OpGetPrediction, err)
	}
	return p, nil
}

// ListPredictions returns every prediction of the pot for the date
func (q *queries) ListPredictions(ctx context.Context, potID string, date time.Time) ([]domain.Prediction, error) {
	query := `
		SELECT pot_id, participant, prediction_date, direction, created_at
		FROM predictions
		WHERE pot_id = $1 AND prediction_date = $2
		ORDER BY participant
	`
	rows, err := q.db.Query(ctx, query, potID, date)
	if err != nil {
		return nil, storeErr(OpListPredictions, err)
	}
	defer rows.Close()

	var predictions []domain.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, storeErr(OpListPredictions, err)
		}
		predictions = append(predictions, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(OpListPredictions, err)
	}
	return predictions, nil
}

// DeletePredictions removes every prediction of the pot
func (q *queries) DeletePredictions(ctx context.Context, potID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM predictions WHERE pot_id = $1`, potID)
	if err != nil {
		return 0, storeErr(OpDeletePredictions, err)
	}
	return tag.RowsAffected(), nil
}

func scanPrediction(row pgx.Row) (*domain.Prediction, error) {
	var p domain.Prediction
	var direction string
	if err := row.Scan(&p.PotID, &p.Participant, &p.PredictionDate, &direction, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Direction = domain.Direction(direction)
	return &p, nil
}
