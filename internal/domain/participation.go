package domain

import (
	"strings"
	"time"
)

// ParticipationEventType marks a change in membership status
type ParticipationEventType string

const (
	ParticipationEntry   ParticipationEventType = "entry"
	ParticipationReEntry ParticipationEventType = "reentry"
	ParticipationExit    ParticipationEventType = "exit"
)

// IsJoin reports whether the event type makes the participant a member
func (t ParticipationEventType) IsJoin() bool {
	return t == ParticipationEntry || t == ParticipationReEntry
}

// Valid reports whether t is a known event type
func (t ParticipationEventType) Valid() bool {
	switch t {
	case ParticipationEntry, ParticipationReEntry, ParticipationExit:
		return true
	}
	return false
}

// ParticipationEvent is one append-only ledger row.
// Events for a (pot, participant) pair are ordered by EventDate, then
// EventTimestamp, then Seq.
type ParticipationEvent struct {
	Seq            int64                  `json:"seq"`
	PotID          string                 `json:"pot_id"`
	Participant    string                 `json:"participant"`
	Type           ParticipationEventType `json:"event_type"`
	EventDate      time.Time              `json:"event_date"`
	EventTimestamp time.Time              `json:"event_timestamp"`
}

// Before reports whether e sorts before other in ledger order
func (e ParticipationEvent) Before(other ParticipationEvent) bool {
	if !e.EventDate.Equal(other.EventDate) {
		return e.EventDate.Before(other.EventDate)
	}
	if !e.EventTimestamp.Equal(other.EventTimestamp) {
		return e.EventTimestamp.Before(other.EventTimestamp)
	}
	return e.Seq < other.Seq
}

// NormalizeParticipant lower-cases and trims an account identifier so that
// wallet addresses compare equal regardless of checksum casing.
func NormalizeParticipant(participant string) string {
	return strings.ToLower(strings.TrimSpace(participant))
}
