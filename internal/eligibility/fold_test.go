package eligibility

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/database/memory"
	"github.com/osse101/PotSettle_Go/internal/domain"
)

func day(n int) time.Time {
	return calendar.Date(2024, time.March, n)
}

func ev(participant string, typ domain.ParticipationEventType, date time.Time, tsOffset time.Duration, seq int64) domain.ParticipationEvent {
	return domain.ParticipationEvent{
		Seq:            seq,
		PotID:          "pot",
		Participant:    participant,
		Type:           typ,
		EventDate:      date,
		EventTimestamp: date.Add(12*time.Hour + tsOffset),
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		name   string
		events []domain.ParticipationEvent
		want   bool
	}{
		{"no events", nil, false},
		{"single entry", []domain.ParticipationEvent{ev("a", domain.ParticipationEntry, day(1), 0, 1)}, true},
		{"entry then exit", []domain.ParticipationEvent{
			ev("a", domain.ParticipationEntry, day(1), 0, 1),
			ev("a", domain.ParticipationExit, day(2), 0, 2),
		}, false},
		{"unsorted input", []domain.ParticipationEvent{
			ev("a", domain.ParticipationReEntry, day(5), 0, 3),
			ev("a", domain.ParticipationEntry, day(1), 0, 1),
			ev("a", domain.ParticipationExit, day(3), 0, 2),
		}, true},
		{"same day later timestamp wins", []domain.ParticipationEvent{
			ev("a", domain.ParticipationExit, day(1), time.Hour, 1),
			ev("a", domain.ParticipationEntry, day(1), 0, 2),
		}, false},
		{"same timestamp falls back to seq", []domain.ParticipationEvent{
			ev("a", domain.ParticipationEntry, day(1), 0, 2),
			ev("a", domain.ParticipationExit, day(1), 0, 1),
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActive(tt.events))
		})
	}
}

func TestFold_GroupsByParticipant(t *testing.T) {
	events := []domain.ParticipationEvent{
		ev("a", domain.ParticipationEntry, day(1), 0, 1),
		ev("b", domain.ParticipationEntry, day(1), 0, 2),
		ev("b", domain.ParticipationExit, day(2), 0, 3),
		ev("c", domain.ParticipationExit, day(1), 0, 4),
		ev("c", domain.ParticipationReEntry, day(2), 0, 5),
	}

	assert.Equal(t, map[string]bool{"a": true, "b": false, "c": true}, Fold(events))
	assert.Equal(t, []string{"a", "c"}, Active(events))
}

func newResolver(t *testing.T, events ...domain.ParticipationEvent) *Resolver {
	t.Helper()
	store := memory.NewStore()
	for _, e := range events {
		e := e
		require.NoError(t, store.AppendEvent(context.Background(), &e))
	}
	return NewResolver(store)
}

func TestResolver_ReEntryAfterExit(t *testing.T) {
	r := newResolver(t,
		ev("p", domain.ParticipationEntry, day(1), 0, 0),
		ev("p", domain.ParticipationExit, day(3), 0, 0),
		ev("p", domain.ParticipationReEntry, day(5), 0, 0),
	)
	ctx := context.Background()

	for _, tc := range []struct {
		day  int
		want bool
	}{{1, true}, {2, true}, {3, false}, {4, false}, {5, true}, {6, true}} {
		active, err := r.IsActiveOn(ctx, "pot", "P", day(tc.day))
		require.NoError(t, err)
		assert.Equal(t, tc.want, active, "day %d", tc.day)
	}
}

func TestResolver_SameDayEntry(t *testing.T) {
	r := newResolver(t, ev("p", domain.ParticipationEntry, day(10), 0, 0))
	ctx := context.Background()

	active, err := r.IsActiveOn(ctx, "pot", "p", day(10))
	require.NoError(t, err)
	assert.True(t, active)

	active, err = r.IsActiveOn(ctx, "pot", "p", day(9))
	require.NoError(t, err)
	assert.False(t, active)
}

// Active on d with no exit in (d, d'] implies active on d'
func TestResolver_Monotonicity(t *testing.T) {
	r := newResolver(t,
		ev("p", domain.ParticipationEntry, day(1), 0, 0),
		ev("p", domain.ParticipationEntry, day(4), 0, 0),
		ev("p", domain.ParticipationExit, day(8), 0, 0),
	)
	ctx := context.Background()

	for d := 1; d < 8; d++ {
		active, err := r.IsActiveOn(ctx, "pot", "p", day(d))
		require.NoError(t, err)
		assert.True(t, active, "day %d", d)
	}
}

func TestResolver_EligibleParticipants(t *testing.T) {
	r := newResolver(t,
		ev("a", domain.ParticipationEntry, day(1), 0, 0),
		ev("b", domain.ParticipationEntry, day(1), 0, 0),
		ev("b", domain.ParticipationExit, day(2), 0, 0),
		ev("c", domain.ParticipationEntry, day(3), 0, 0),
	)
	ctx := context.Background()

	got, err := r.EligibleParticipants(ctx, "pot", day(2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)

	got, err = r.EligibleParticipants(ctx, "pot", day(3))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)

	n, err := r.CountActive(ctx, "pot", day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func BenchmarkFold(b *testing.B) {
	events := make([]domain.ParticipationEvent, 0, 3000)
	for i := 0; i < 1000; i++ {
		p := fmt.Sprintf("0x%04x", i)
		events = append(events,
			ev(p, domain.ParticipationEntry, day(1), 0, int64(3*i)),
			ev(p, domain.ParticipationExit, day(2), 0, int64(3*i+1)),
			ev(p, domain.ParticipationReEntry, day(3), 0, int64(3*i+2)),
		)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Fold(events)
	}
}
