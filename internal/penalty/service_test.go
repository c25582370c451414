package penalty

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/calendar"
	"github.com/osse101/PotSettle_Go/internal/concurrency"
	"github.com/osse101/PotSettle_Go/internal/database/memory"
	"github.com/osse101/PotSettle_Go/internal/domain"
)

// 2024-03-04 is a Monday; 2024-03-03 is the Sunday reset day
var (
	monday    = calendar.Date(2024, time.March, 4)
	sunday    = calendar.Date(2024, time.March, 3)
	lastWeek  = calendar.Date(2024, time.February, 26)
	mondayNow = time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
)

type fixture struct {
	store *memory.Store
	svc   Service
	now   time.Time
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), now: now}
	cal := calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time { return f.now }))
	f.svc = NewService(f.store, cal, concurrency.NewLockManager(), nil)
	return f
}

func (f *fixture) join(t *testing.T, participant string, typ domain.ParticipationEventType, date time.Time) {
	t.Helper()
	evt := domain.ParticipationEvent{PotID: "pot", Participant: participant, Type: typ, EventDate: date, EventTimestamp: date.Add(time.Hour)}
	require.NoError(t, f.store.AppendEvent(context.Background(), &evt))
}

func (f *fixture) predict(t *testing.T, participant string, date time.Time) {
	t.Helper()
	require.NoError(t, f.store.UpsertPrediction(context.Background(), &domain.Prediction{
		PotID: "pot", Participant: participant, PredictionDate: date, Direction: domain.DirectionPositive,
	}))
}

func TestCheckMissedPredictionPenalty_Rules(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		setup func(t *testing.T, f *fixture)
		want  domain.PenaltyCheckResult
	}{
		{
			name: "reset day",
			now:  sunday.Add(10 * time.Hour),
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, lastWeek)
			},
			want: domain.PenaltyResultResetDay,
		},
		{
			name:  "never joined",
			now:   mondayNow,
			setup: func(t *testing.T, f *fixture) {},
			want:  domain.PenaltyResultNotMember,
		},
		{
			name: "exited",
			now:  mondayNow,
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, lastWeek)
				f.join(t, "a", domain.ParticipationExit, sunday)
			},
			want: domain.PenaltyResultNotMember,
		},
		{
			name: "already penalized",
			now:  mondayNow,
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, lastWeek)
				_, err := f.store.InsertPenalty(context.Background(), &domain.PenaltyRecord{PotID: "pot", Participant: "a", PenalizedOn: lastWeek})
				require.NoError(t, err)
			},
			want: domain.PenaltyResultAlreadyPenalized,
		},
		{
			name: "joined today",
			now:  mondayNow,
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, monday)
			},
			want: domain.PenaltyResultJoinedToday,
		},
		{
			name: "re-entered today",
			now:  mondayNow,
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, lastWeek)
				f.join(t, "a", domain.ParticipationExit, sunday)
				f.join(t, "a", domain.ParticipationReEntry, monday)
			},
			want: domain.PenaltyResultJoinedToday,
		},
		{
			name: "predicted today",
			now:  mondayNow,
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, lastWeek)
				f.predict(t, "a", monday)
			},
			want: domain.PenaltyResultComplied,
		},
		{
			name: "predicted yesterday only",
			now:  mondayNow,
			setup: func(t *testing.T, f *fixture) {
				f.join(t, "a", domain.ParticipationEntry, lastWeek)
				f.predict(t, "a", sunday)
			},
			want: domain.PenaltyResultPenalized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.now)
			tt.setup(t, f)

			got, err := f.svc.CheckMissedPredictionPenalty(context.Background(), "pot", "A")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckMissedPredictionPenalty_SecondCallIsNoOp(t *testing.T) {
	f := newFixture(t, mondayNow)
	f.join(t, "a", domain.ParticipationEntry, lastWeek)
	ctx := context.Background()

	got, err := f.svc.CheckMissedPredictionPenalty(ctx, "pot", "a")
	require.NoError(t, err)
	assert.Equal(t, domain.PenaltyResultPenalized, got)

	got, err = f.svc.CheckMissedPredictionPenalty(ctx, "pot", "a")
	require.NoError(t, err)
	assert.Equal(t, domain.PenaltyResultAlreadyPenalized, got)

	records, err := f.svc.ListPenalties(ctx, "pot")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].PenalizedOn.Equal(monday))
}

// N concurrent checks from separate engines that share only the store must
// still produce exactly one penalty record
func TestCheckMissedPredictionPenalty_ConcurrentExactlyOnce(t *testing.T) {
	f := newFixture(t, mondayNow)
	f.join(t, "a", domain.ParticipationEntry, lastWeek)
	cal := calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time { return mondayNow }))

	const callers = 25
	results := make(chan domain.PenaltyCheckResult, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			svc := f.svc
			if i%2 == 1 {
				svc = NewService(f.store, cal, concurrency.NewLockManager(), nil)
			}
			res, err := svc.CheckMissedPredictionPenalty(context.Background(), "pot", "a")
			assert.NoError(t, err)
			results <- res
		}(i)
	}
	wg.Wait()
	close(results)

	penalized := 0
	for res := range results {
		if res == domain.PenaltyResultPenalized {
			penalized++
		} else {
			assert.Equal(t, domain.PenaltyResultAlreadyPenalized, res)
		}
	}
	assert.Equal(t, 1, penalized)

	records, err := f.store.ListPenalties(context.Background(), "pot")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCanReEnter(t *testing.T) {
	f := newFixture(t, mondayNow)
	f.join(t, "a", domain.ParticipationEntry, lastWeek)
	ctx := context.Background()

	ok, err := f.svc.CanReEnter(ctx, "pot", "a")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.svc.CheckMissedPredictionPenalty(ctx, "pot", "a")
	require.NoError(t, err)

	ok, err = f.svc.CanReEnter(ctx, "pot", "A")
	require.NoError(t, err)
	assert.False(t, ok)

	penalized, err := f.svc.IsPenalized(ctx, "pot", "a")
	require.NoError(t, err)
	assert.True(t, penalized)
}

func TestSweepPot(t *testing.T) {
	f := newFixture(t, mondayNow)
	f.join(t, "a", domain.ParticipationEntry, lastWeek)
	f.join(t, "b", domain.ParticipationEntry, lastWeek)
	f.join(t, "c", domain.ParticipationEntry, monday)
	f.join(t, "d", domain.ParticipationEntry, lastWeek)
	f.join(t, "d", domain.ParticipationExit, sunday)
	f.predict(t, "b", monday)
	ctx := context.Background()

	res, err := f.svc.SweepPot(ctx, "pot")
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 3, res.Checked)
	assert.Equal(t, []string{"a"}, res.Penalized)
	assert.Zero(t, res.Failed)
}

// The clock rolls over to Tuesday right after the sweep reads the date.
// Monday's predictions must still count for every participant.
func TestSweepPot_MidnightRolloverKeepsSweepDate(t *testing.T) {
	store := memory.NewStore()
	var calls atomic.Int32
	clock := calendar.ClockFunc(func() time.Time {
		if calls.Add(1) == 1 {
			return time.Date(2024, 3, 4, 23, 59, 59, 0, time.UTC)
		}
		return time.Date(2024, 3, 5, 0, 0, 1, 0, time.UTC)
	})
	f := &fixture{store: store}
	f.svc = NewService(store, calendar.New(time.UTC, time.Sunday, clock), concurrency.NewLockManager(), nil)

	f.join(t, "a", domain.ParticipationEntry, lastWeek)
	f.join(t, "b", domain.ParticipationEntry, lastWeek)
	f.predict(t, "a", monday)
	f.predict(t, "b", monday)

	res, err := f.svc.SweepPot(context.Background(), "pot")
	require.NoError(t, err)
	assert.Equal(t, monday, res.Date)
	assert.Equal(t, 2, res.Checked)
	assert.Empty(t, res.Penalized)

	records, err := store.ListPenalties(context.Background(), "pot")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSweepAll_SkipsOnResetDay(t *testing.T) {
	f := newFixture(t, sunday.Add(23*time.Hour))
	f.join(t, "a", domain.ParticipationEntry, lastWeek)
	require.NoError(t, f.store.CreatePot(context.Background(), &domain.Pot{ID: "pot", Creator: "c"}))

	summary, err := f.svc.SweepAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Pots)
	assert.Zero(t, summary.Checked)

	penalized, err := f.svc.IsPenalized(context.Background(), "pot", "a")
	require.NoError(t, err)
	assert.False(t, penalized)
}
