package postgres

import (
	"context"
	"time"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

const ledgerColumns = `seq, pot_id, participant, event_type, event_date, event_timestamp`

// ledgerOrder is the total order used for eligibility reconstruction
const ledgerOrder = ` ORDER BY event_date ASC, event_timestamp ASC, seq ASC`

// AppendEvent inserts one participation event. No validation against prior
// state happens here: the on-chain action that triggered the call is the
// source of truth.
func (q *queries) AppendEvent(ctx context.Context, evt *domain.ParticipationEvent) error {
	query := `
		INSERT INTO participation_events (pot_id, participant, event_type, event_date, event_timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq
	`
	err := q.db.QueryRow(ctx, query,
		evt.PotID, evt.Participant, string(evt.Type), evt.EventDate, evt.EventTimestamp,
	).Scan(&evt.Seq)
	if err != nil {
		return storeErr(OpAppendEvent, err)
	}
	return nil
}

// ListParticipantEvents returns the participant's events dated on or before upTo
func (q *queries) ListParticipantEvents(ctx context.Context, potID, participant string, upTo time.Time) ([]domain.ParticipationEvent, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM participation_events
		WHERE pot_id = $1 AND participant = $2 AND event_date <= $3` + ledgerOrder

	return q.listEvents(ctx, query, potID, participant, upTo)
}

// ListPotEvents returns every event of the pot dated on or before upTo
func (q *queries) ListPotEvents(ctx context.Context, potID string, upTo time.Time) ([]domain.ParticipationEvent, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM participation_events
		WHERE pot_id = $1 AND event_date <= $2` + ledgerOrder

	return q.listEvents(ctx, query, potID, upTo)
}

// ListParticipantHistory returns all of the participant's events
func (q *queries) ListParticipantHistory(ctx context.Context, potID, participant string) ([]domain.ParticipationEvent, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM participation_events
		WHERE pot_id = $1 AND participant = $2` + ledgerOrder

	return q.listEvents(ctx, query, potID, participant)
}

// HasJoinOn reports whether an Entry or ReEntry is dated exactly on date
func (q *queries) HasJoinOn(ctx context.Context, potID, participant string, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM participation_events
			WHERE pot_id = $1 AND participant = $2 AND event_date = $3
			  AND event_type IN ('entry', 'reentry')
		)
	`
	var exists bool
	if err := q.db.QueryRow(ctx, query, potID, participant, date).Scan(&exists); err != nil {
		return false, storeErr(OpHasJoinOn, err)
	}
	return exists, nil
}

// ClearLedger deletes every event of the pot
func (q *queries) ClearLedger(ctx context.Context, potID string) (int64, error) {
	tag, err := q.db.Exec(ctx, `DELETE FROM participation_events WHERE pot_id = $1`, potID)
	if err != nil {
		return 0, storeErr(OpClearLedger, err)
	}
	return tag.RowsAffected(), nil
}

func (q *queries) listEvents(ctx context.Context, query string, args ...any) ([]domain.ParticipationEvent, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storeErr(OpListEvents, err)
	}
	defer rows.Close()

	var events []domain.ParticipationEvent
	for rows.Next() {
		var evt domain.ParticipationEvent
		var eventType string
		if err := rows.Scan(&evt.Seq, &evt.PotID, &evt.Participant, &eventType, &evt.EventDate, &evt.EventTimestamp); err != nil {
			return nil, storeErr(OpListEvents, err)
		}
		evt.Type = domain.ParticipationEventType(eventType)
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(OpListEvents, err)
	}
	return events, nil
}
