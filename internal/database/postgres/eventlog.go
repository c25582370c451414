package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/PotSettle_Go/internal/repository"
)

type eventLogRepository struct {
	db *pgxpool.Pool
}

// NewEventLogRepository creates a new PostgreSQL event log repository
func NewEventLogRepository(db *pgxpool.Pool) repository.EventLog {
	return &eventLogRepository{db: db}
}

// LogEvent stores an event in the database
func (r *eventLogRepository) LogEvent(ctx context.Context, eventType string, potID, participant *string, payload, metadata map[string]interface{}) error {
	query := `
		INSERT INTO events (event_type, pot_id, participant, payload, metadata)
		VALUES ($1, $2, $3, $4, $5)
	`

	if payload == nil {
		payload = map[string]interface{}{}
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	var metadataJSON []byte
	if metadata != nil {
		metadataJSON, err = json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("marshal event metadata: %w", err)
		}
	}

	if _, err := r.db.Exec(ctx, query, eventType, potID, participant, payloadJSON, metadataJSON); err != nil {
		return storeErr(OpLogEvent, err)
	}
	return nil
}

// GetEvents retrieves events based on filter criteria, newest first
func (r *eventLogRepository) GetEvents(ctx context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, event_type, pot_id, participant, payload, metadata, created_at
		FROM events
		WHERE 1=1`)

	args := []interface{}{}
	argNum := 1

	addClause := func(clause string, value interface{}) {
		fmt.Fprintf(&queryBuilder, clause, argNum)
		args = append(args, value)
		argNum++
	}

	if filter.PotID != nil {
		addClause(" AND pot_id = $%d", *filter.PotID)
	}
	if filter.Participant != nil {
		addClause(" AND participant = $%d", *filter.Participant)
	}
	if filter.EventType != nil {
		addClause(" AND event_type = $%d", *filter.EventType)
	}
	if filter.Since != nil {
		addClause(" AND created_at >= $%d", *filter.Since)
	}
	if filter.Until != nil {
		addClause(" AND created_at <= $%d", *filter.Until)
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	if filter.Limit > 0 {
		addClause(" LIMIT $%d", filter.Limit)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, storeErr(OpGetEvents, err)
	}
	defer rows.Close()

	events, err := scanEventLog(rows)
	if err != nil {
		return nil, storeErr(OpGetEvents, err)
	}
	return events, nil
}

// CleanupOldEvents removes events older than the specified number of days
func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	query := `
		DELETE FROM events
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`

	result, err := r.db.Exec(ctx, query, retentionDays)
	if err != nil {
		return 0, storeErr(OpCleanupEvents, err)
	}
	return result.RowsAffected(), nil
}

func scanEventLog(rows pgx.Rows) ([]repository.EventLogEntry, error) {
	var events []repository.EventLogEntry

	for rows.Next() {
		var evt repository.EventLogEntry
		var payloadJSON, metadataJSON []byte

		if err := rows.Scan(&evt.ID, &evt.EventType, &evt.PotID, &evt.Participant, &payloadJSON, &metadataJSON, &evt.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payloadJSON, &evt.Payload); err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &evt.Metadata); err != nil {
				return nil, err
			}
		}
		events = append(events, evt)
	}

	return events, rows.Err()
}
