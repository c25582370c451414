package prediction

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

var testDay = calendar.Date(2024, time.March, 4)

func testCalendar(now *time.Time) *calendar.Calendar {
	return calendar.New(time.UTC, time.Sunday, calendar.ClockFunc(func() time.Time { return *now }))
}

func TestSubmitPrediction_LastWriteWins(t *testing.T) {
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	svc := NewService(store, testCalendar(&now), nil)
	ctx := context.Background()

	first, err := svc.SubmitPrediction(ctx, "pot", "0xA", testDay, domain.DirectionPositive)
	require.NoError(t, err)

	now = now.Add(time.Hour)
	second, err := svc.SubmitPrediction(ctx, "pot", "0xa", testDay, domain.DirectionNegative)
	require.NoError(t, err)
	assert.True(t, second.CreatedAt.After(first.CreatedAt))

	all, err := svc.GetAllPredictions(ctx, "pot", testDay)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.DirectionNegative, all[0].Direction)
	assert.Equal(t, now, all[0].CreatedAt)
}

func TestGetPrediction_Absent(t *testing.T) {
	now := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	svc := NewService(memory.NewStore(), testCalendar(&now), nil)

	p, err := svc.GetPrediction(context.Background(), "pot", "a", testDay)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestSubmitPrediction_RejectsBadInput(t *testing.T) {
	now := time.Now()
	svc := NewService(memory.NewStore(), testCalendar(&now), nil)
	ctx := context.Background()

	_, err := svc.SubmitPrediction(ctx, "pot", "a", testDay, domain.Direction("sideways"))
	assert.ErrorIs(t, err, domain.ErrInvalidDirection)

	_, err = svc.SubmitPrediction(ctx, "pot", "", testDay, domain.DirectionPositive)
	assert.ErrorIs(t, err, domain.ErrEmptyParticipant)
}

// MockRepository is a testify mock of repository.Prediction
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) UpsertPrediction(ctx context.Context, p *domain.Prediction) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockRepository) GetPrediction(ctx context.Context, potID, participant string, date time.Time) (*domain.Prediction, error) {
	args := m.Called(ctx, potID, participant, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Prediction), args.Error(1)
}

func (m *MockRepository) ListPredictions(ctx context.Context, potID string, date time.Time) ([]domain.Prediction, error) {
	args := m.Called(ctx, potID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Prediction), args.Error(1)
}

func (m *MockRepository) DeletePredictions(ctx context.Context, potID string) (int64, error) {
	args := m.Called(ctx, potID)
	return args.Get(0).(int64), args.Error(1)
}

func TestSubmitPrediction_StoreFailurePropagates(t *testing.T) {
	now := time.Now()
	repo := new(MockRepository)
	storeErr := errors.Join(domain.ErrStoreUnavailable, errors.New("connection reset"))
	repo.On("UpsertPrediction", mock.Anything, mock.AnythingOfType("*domain.Prediction")).Return(storeErr)

	svc := NewService(repo, testCalendar(&now), nil)
	p, err := svc.SubmitPrediction(context.Background(), "pot", "a", testDay, domain.DirectionPositive)

	assert.Nil(t, p)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	repo.AssertExpectations(t)
}
