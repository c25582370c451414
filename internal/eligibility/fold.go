// Package eligibility reconstructs point-in-time membership by folding the
// participation ledger. No membership status is ever stored.
package eligibility

import (
	"sort"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

// IsActive folds one participant's events. The caller passes only events
// dated on or before the target date; order does not matter. With no events
// the participant is not active; otherwise the last event in ledger order
// decides.
func IsActive(events []domain.ParticipationEvent) bool {
	if len(events) == 0 {
		return false
	}
	last := events[0]
	for _, e := range events[1:] {
		if last.Before(e) {
			last = e
		}
	}
	return last.Type.IsJoin()
}

// Fold groups events by participant and reports each participant's status
func Fold(events []domain.ParticipationEvent) map[string]bool {
	latest := make(map[string]domain.ParticipationEvent)
	for _, e := range events {
		if cur, ok := latest[e.Participant]; !ok || cur.Before(e) {
			latest[e.Participant] = e
		}
	}

	status := make(map[string]bool, len(latest))
	for participant, e := range latest {
		status[participant] = e.Type.IsJoin()
	}
	return status
}

// Active returns the sorted participants whose folded status is active
func Active(events []domain.ParticipationEvent) []string {
	var active []string
	for participant, ok := range Fold(events) {
		if ok {
			active = append(active, participant)
		}
	}
	sort.Strings(active)
	return active
}
