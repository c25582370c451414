package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/database/memory"
	"github.com/osse101/PotSettle_Go/internal/domain"
)

var (
	joinDay = calendar.Date(2024, time.March, 1)
	day     = calendar.Date(2024, time.March, 4)
)

// MockEscrow is a testify mock of Escrow
type MockEscrow struct {
	mock.Mock
}

func (m *MockEscrow) Distribute(ctx context.Context, potID string, winners []string) error {
	return m.Called(ctx, potID, winners).Error(0)
}

type fixture struct {
	store  *memory.Store
	escrow *MockEscrow
	svc    Service
}

func newFixture(t *testing.T, members ...string) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), escrow: new(MockEscrow)}
	for _, m := range members {
		evt := domain.ParticipationEvent{PotID: "pot", Participant: m, Type: domain.ParticipationEntry, EventDate: joinDay, EventTimestamp: joinDay}
		require.NoError(t, f.store.AppendEvent(context.Background(), &evt))
	}
	cal := calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time { return day.Add(20 * time.Hour) }))
	f.svc = NewService(f.store, cal, f.escrow, nil)
	return f
}

func (f *fixture) predict(t *testing.T, participant string, d domain.Direction) {
	t.Helper()
	require.NoError(t, f.store.UpsertPrediction(context.Background(), &domain.Prediction{
		PotID: "pot", Participant: participant, PredictionDate: day, Direction: d,
	}))
}

func (f *fixture) vote(t *testing.T, participant string, d domain.Direction) {
	t.Helper()
	require.NoError(t, f.store.UpsertOutcomeVote(context.Background(), &domain.OutcomeVote{
		PotID: "pot", Participant: participant, Vote: d,
	}))
}

func TestComputeWinners_MatchingPredictions(t *testing.T) {
	f := newFixture(t, "a", "b", "c")
	f.predict(t, "a", domain.DirectionPositive)
	f.predict(t, "b", domain.DirectionPositive)
	f.predict(t, "c", domain.DirectionNegative)
	f.vote(t, "a", domain.DirectionPositive)
	f.vote(t, "c", domain.DirectionPositive)

	winners, err := f.svc.ComputeWinners(context.Background(), "pot", day)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, winners)
}

func TestComputeWinners_NotDecidedCarriesTally(t *testing.T) {
	f := newFixture(t, "a", "b", "c")
	f.predict(t, "a", domain.DirectionPositive)
	f.vote(t, "a", domain.DirectionPositive)

	_, err := f.svc.ComputeWinners(context.Background(), "pot", day)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOutcomeNotDecided)

	var notDecided *domain.OutcomeNotDecidedError
	require.True(t, errors.As(err, &notDecided))
	assert.Equal(t, 1, notDecided.Status.PositiveVotes)
	assert.Equal(t, 2, notDecided.Status.RequiredVotes)

	snap, err := f.svc.GetSettlement(context.Background(), "pot", day)
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestComputeWinners_NoWinners(t *testing.T) {
	f := newFixture(t, "a", "b", "c")
	for _, m := range []string{"a", "b", "c"} {
		f.predict(t, m, domain.DirectionNegative)
		f.vote(t, m, domain.DirectionPositive)
	}

	_, err := f.svc.ComputeWinners(context.Background(), "pot", day)
	assert.ErrorIs(t, err, domain.ErrNoWinners)
}

// Once winners are computed, a later vote change does not alter them
func TestComputeWinners_SnapshotStableAfterVoteChange(t *testing.T) {
	f := newFixture(t, "a", "b", "c", "d", "e")
	f.predict(t, "a", domain.DirectionPositive)
	f.predict(t, "b", domain.DirectionNegative)
	for _, m := range []string{"a", "b", "c"} {
		f.vote(t, m, domain.DirectionPositive)
	}
	ctx := context.Background()

	first, err := f.svc.ComputeWinners(ctx, "pot", day)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, first)

	for _, m := range []string{"a", "b", "c", "d", "e"} {
		f.vote(t, m, domain.DirectionNegative)
	}

	second, err := f.svc.ComputeWinners(ctx, "pot", day)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	snap, err := f.svc.GetSettlement(ctx, "pot", day)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, domain.DirectionPositive, snap.Outcome)
}

func TestDistribute_HandsSnapshotToEscrow(t *testing.T) {
	f := newFixture(t, "a", "b")
	f.predict(t, "a", domain.DirectionPositive)
	f.vote(t, "a", domain.DirectionPositive)
	f.vote(t, "b", domain.DirectionPositive)
	f.escrow.On("Distribute", mock.Anything, "pot", []string{"a"}).Return(nil).Once()

	snap, err := f.svc.Distribute(context.Background(), "pot", day)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, snap.Winners)
	f.escrow.AssertExpectations(t)
}

func TestDistribute_EscrowErrorPropagates(t *testing.T) {
	f := newFixture(t, "a")
	f.predict(t, "a", domain.DirectionNegative)
	f.vote(t, "a", domain.DirectionNegative)
	boom := errors.New("contract reverted")
	f.escrow.On("Distribute", mock.Anything, "pot", []string{"a"}).Return(boom)

	_, err := f.svc.Distribute(context.Background(), "pot", day)
	assert.ErrorIs(t, err, boom)

	// The snapshot survives for the retry
	snap, err := f.svc.GetSettlement(context.Background(), "pot", day)
	require.NoError(t, err)
	require.NotNil(t, snap)
}

func TestWinners_DistinctAndSorted(t *testing.T) {
	predictions := []domain.Prediction{
		{Participant: "c", Direction: domain.DirectionPositive},
		{Participant: "a", Direction: domain.DirectionPositive},
		{Participant: "c", Direction: domain.DirectionPositive},
		{Participant: "b", Direction: domain.DirectionNegative},
	}
	assert.Equal(t, []string{"a", "c"}, Winners(predictions, domain.DirectionPositive))
	assert.Empty(t, Winners(nil, domain.DirectionPositive))
}

// conflictingStore reports every snapshot insert as a conflict
type conflictingStore struct {
	*memory.Store
}

func (conflictingStore) SaveSettlement(context.Context, *domain.Settlement) (bool, error) {
	return false, nil
}

func TestComputeWinners_ConflictWithoutSnapshotFails(t *testing.T) {
	f := newFixture(t, "a", "b")
	f.predict(t, "a", domain.DirectionPositive)
	f.vote(t, "a", domain.DirectionPositive)
	f.vote(t, "b", domain.DirectionPositive)

	cal := calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time { return day.Add(20 * time.Hour) }))
	svc := NewService(conflictingStore{f.store}, cal, f.escrow, nil)

	winners, err := svc.ComputeWinners(context.Background(), "pot", day)
	assert.ErrorIs(t, err, domain.ErrPotNotFound)
	assert.Nil(t, winners)

	snap, err := f.store.GetSettlement(context.Background(), "pot", day)
	require.NoError(t, err)
	assert.Nil(t, snap)
}
