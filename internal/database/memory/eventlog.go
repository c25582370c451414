package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/PotSettle_Go/internal/repository"
)

// EventLog keeps audit events in memory
type EventLog struct {
	mu     sync.Mutex
	nextID int64
	events []repository.EventLogEntry
	now    func() time.Time
}

var _ repository.EventLog = (*EventLog)(nil)

// NewEventLog creates an empty event log
func NewEventLog() *EventLog {
	return &EventLog{now: time.Now}
}

// LogEvent appends an event
func (l *EventLog) LogEvent(_ context.Context, eventType string, potID, participant *string, payload, metadata map[string]interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	l.events = append(l.events, repository.EventLogEntry{
		ID:          l.nextID,
		EventType:   eventType,
		PotID:       potID,
		Participant: participant,
		Payload:     payload,
		Metadata:    metadata,
		CreatedAt:   l.now().UTC(),
	})
	return nil
}

// GetEvents returns matching events, newest first
func (l *EventLog) GetEvents(_ context.Context, filter repository.EventLogFilter) ([]repository.EventLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []repository.EventLogEntry
	for _, e := range l.events {
		if filter.PotID != nil && (e.PotID == nil || *e.PotID != *filter.PotID) {
			continue
		}
		if filter.Participant != nil && (e.Participant == nil || *e.Participant != *filter.Participant) {
			continue
		}
		if filter.EventType != nil && e.EventType != *filter.EventType {
			continue
		}
		if filter.Since != nil && e.CreatedAt.Before(*filter.Since) {
			continue
		}
		if filter.Until != nil && e.CreatedAt.After(*filter.Until) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// CleanupOldEvents drops events older than retentionDays
func (l *EventLog) CleanupOldEvents(_ context.Context, retentionDays int) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().AddDate(0, 0, -retentionDays)
	kept := l.events[:0]
	var removed int64
	for _, e := range l.events {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	l.events = kept
	return removed, nil
}
