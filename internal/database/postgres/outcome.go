package postgres

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// UpsertOutcomeVote inserts or overwrites the participant's vote
func (q *queries) UpsertOutcomeVote(ctx context.Context, vote *domain.OutcomeVote) error {
	query := `
		INSERT INTO outcome_votes (pot_id, participant, vote, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (pot_id, participant)
		DO UPDATE SET vote = EXCLUDED.vote, updated_at = EXCLUDED.updated_at
	`
	_, err := q.db.Exec(ctx, query, vote.PotID, vote.Participant, string(vote.Vote), vote.UpdatedAt)
	if err != nil {
		return storeErr(OpUpsertOutcomeVote, err)
	}
	return nil
}

// ListOutcomeVotes returns every vote of the pot
func (q *queries) ListOutcomeVotes(ctx context.Context, potID string) ([]domain.OutcomeVote, error) {
	query := `
		SELECT pot_id, participant, vote, updated_at
		FROM outcome_votes
		WHERE pot_id = $1
		ORDER BY participant
	`
	rows, err := q.db.Query(ctx, query, potID)
	if err != nil {
		return nil, storeErr(OpListOutcomeVotes, err)
	}
	defer rows.Close()

	var votes []domain.OutcomeVote
	for rows.Next() {
		var v domain.OutcomeVote
		var vote string
		if err := rows.Scan(&v.PotID, &v.Participant, &vote, &v.UpdatedAt); err != nil {
			return nil, storeErr(OpListOutcomeVotes, err)
		}
		v.Vote = domain.Direction(vote)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(OpListOutcomeVotes, err)
	}
	return votes, nil
}

// DeleteOutcomeVotes removes every vote of the pot
func (q *queries) DeleteOutcomeVotes(ctx context.Context, potID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM outcome_votes WHERE pot_id = $1`, potID)
	if err != nil {
		return 0, storeErr(OpDeleteOutcomeVotes, err)
	}
	return tag.RowsAffected(), nil
}
