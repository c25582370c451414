package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/PotSettle_Go/internal/domain"
)

func TestStoreErr_WrapsAsUnavailable(t *testing.T) {
	cause := errors.New("connection refused")

	err := storeErr(OpInsertPenalty, cause)

	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), OpInsertPenalty)

	err = storeErr(OpGetPot, context.DeadlineExceeded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: PgErrorCodeUniqueViolation}

	assert.True(t, isUniqueViolation(unique))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
	assert.False(t, isUniqueViolation(nil))
}

// rollbackTx is a testify mock; only Rollback is exercised
type rollbackTx struct {
	pgx.Tx
	mock.Mock
}

func (m *rollbackTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func TestSafeRollback(t *testing.T) {
	for _, rbErr := range []error{nil, pgx.ErrTxClosed, errors.New("network down")} {
		tx := new(rollbackTx)
		tx.On("Rollback", mock.Anything).Return(rbErr)

		assert.NotPanics(t, func() { SafeRollback(context.Background(), tx) })
		tx.AssertExpectations(t)
	}
}
