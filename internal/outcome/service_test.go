package outcome

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

var (
	joinDay = calendar.Date(2024, time.March, 1)
	today   = calendar.Date(2024, time.March, 4)
)

func newTestService(t *testing.T, members ...string) (Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	for _, m := range members {
		evt := domain.ParticipationEvent{PotID: "pot", Participant: m, Type: domain.ParticipationEntry, EventDate: joinDay, EventTimestamp: joinDay}
		require.NoError(t, store.AppendEvent(context.Background(), &evt))
	}
	cal := calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time {
		return today.Add(9 * time.Hour)
	}))
	return NewService(store, cal, nil), store
}

func members(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("m%d", i)
	}
	return out
}

func TestGetOutcomeStatus_FiveMembersNeedThree(t *testing.T) {
	m := members(5)
	svc, _ := newTestService(t, m...)
	ctx := context.Background()

	status, err := svc.GetOutcomeStatus(ctx, "pot")
	require.NoError(t, err)
	assert.Equal(t, 5, status.ActiveMembers)
	assert.Equal(t, 3, status.RequiredVotes)
	assert.False(t, status.MajorityAchieved)
	assert.Nil(t, status.MajorityOutcome)

	for i := 0; i < 2; i++ {
		_, err := svc.CastOutcomeVote(ctx, "pot", m[i], domain.DirectionPositive)
		require.NoError(t, err)
	}
	_, err = svc.CastOutcomeVote(ctx, "pot", m[3], domain.DirectionNegative)
	require.NoError(t, err)

	status, err = svc.GetOutcomeStatus(ctx, "pot")
	require.NoError(t, err)
	assert.False(t, status.MajorityAchieved)
	assert.Equal(t, 3, status.TotalVotes)

	_, err = svc.CastOutcomeVote(ctx, "pot", m[2], domain.DirectionPositive)
	require.NoError(t, err)

	status, err = svc.GetOutcomeStatus(ctx, "pot")
	require.NoError(t, err)
	assert.True(t, status.MajorityAchieved)
	require.NotNil(t, status.MajorityOutcome)
	assert.Equal(t, domain.DirectionPositive, *status.MajorityOutcome)
	assert.Equal(t, 3, status.PositiveVotes)
	assert.Equal(t, 1, status.NegativeVotes)
}

func TestCastOutcomeVote_OverwritesPreviousVote(t *testing.T) {
	svc, store := newTestService(t, "a", "b")
	ctx := context.Background()

	_, err := svc.CastOutcomeVote(ctx, "pot", "a", domain.DirectionPositive)
	require.NoError(t, err)
	_, err = svc.CastOutcomeVote(ctx, "pot", "A", domain.DirectionNegative)
	require.NoError(t, err)

	votes, err := store.ListOutcomeVotes(ctx, "pot")
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, domain.DirectionNegative, votes[0].Vote)
}

func TestCastOutcomeVote_RequiresActiveMember(t *testing.T) {
	svc, store := newTestService(t, "a")
	ctx := context.Background()

	_, err := svc.CastOutcomeVote(ctx, "pot", "stranger", domain.DirectionPositive)
	assert.ErrorIs(t, err, domain.ErrNotAMember)

	exit := domain.ParticipationEvent{PotID: "pot", Participant: "a", Type: domain.ParticipationExit, EventDate: today, EventTimestamp: today.Add(time.Hour)}
	require.NoError(t, store.AppendEvent(ctx, &exit))

	_, err = svc.CastOutcomeVote(ctx, "pot", "a", domain.DirectionPositive)
	assert.ErrorIs(t, err, domain.ErrNotAMember)

	_, err = svc.CastOutcomeVote(ctx, "pot", "a", domain.Direction("maybe"))
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)
}

// Membership is recomputed per query: an exited voter stops counting and the
// threshold shrinks with the member count
func TestGetOutcomeStatus_ExitedVotersNotCounted(t *testing.T) {
	svc, store := newTestService(t, "a", "b", "c", "d")
	ctx := context.Background()

	for _, m := range []string{"a", "b"} {
		_, err := svc.CastOutcomeVote(ctx, "pot", m, domain.DirectionNegative)
		require.NoError(t, err)
	}

	status, err := svc.GetOutcomeStatus(ctx, "pot")
	require.NoError(t, err)
	assert.Equal(t, 3, status.RequiredVotes)
	assert.False(t, status.MajorityAchieved)

	for _, m := range []string{"b", "c"} {
		exit := domain.ParticipationEvent{PotID: "pot", Participant: m, Type: domain.ParticipationExit, EventDate: today, EventTimestamp: today}
		require.NoError(t, store.AppendEvent(ctx, &exit))
	}

	status, err = svc.GetOutcomeStatus(ctx, "pot")
	require.NoError(t, err)
	assert.Equal(t, 2, status.ActiveMembers)
	assert.Equal(t, 2, status.RequiredVotes)
	assert.Equal(t, 1, status.NegativeVotes)
	assert.False(t, status.MajorityAchieved)
}

func TestTally(t *testing.T) {
	neg := domain.DirectionNegative
	tests := []struct {
		name    string
		members []string
		votes   []domain.OutcomeVote
		want    *domain.OutcomeStatus
	}{
		{
			name: "no members",
			want: &domain.OutcomeStatus{PotID: "pot", RequiredVotes: 1},
		},
		{
			name:    "even split of four",
			members: []string{"a", "b", "c", "d"},
			votes: []domain.OutcomeVote{
				{Participant: "a", Vote: domain.DirectionPositive},
				{Participant: "b", Vote: domain.DirectionPositive},
				{Participant: "c", Vote: domain.DirectionNegative},
				{Participant: "d", Vote: domain.DirectionNegative},
			},
			want: &domain.OutcomeStatus{PotID: "pot", PositiveVotes: 2, NegativeVotes: 2, TotalVotes: 4, ActiveMembers: 4, RequiredVotes: 3},
		},
		{
			name:    "negative majority of three",
			members: []string{"a", "b", "c"},
			votes: []domain.OutcomeVote{
				{Participant: "a", Vote: domain.DirectionNegative},
				{Participant: "b", Vote: domain.DirectionNegative},
				{Participant: "z", Vote: domain.DirectionPositive},
			},
			want: &domain.OutcomeStatus{PotID: "pot", NegativeVotes: 2, TotalVotes: 2, ActiveMembers: 3, RequiredVotes: 2, MajorityAchieved: true, MajorityOutcome: &neg},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tally("pot", tt.members, tt.votes))
		})
	}
}
