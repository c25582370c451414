package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/testing/leaktest"
)

func TestPool_RunsEveryJob(t *testing.T) {
	checker := leaktest.Track(t)

	var ran atomic.Int32
	pool := NewPool(2, 10)
	pool.Start()

	for i := 0; i < 5; i++ {
		pool.Enqueue(JobFunc(func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	require.Eventually(t, func() bool { return ran.Load() == 5 }, time.Second, 5*time.Millisecond)

	pool.Stop()
	checker.Settle(1)
}

func TestPool_SurvivesFailingAndPanickingJobs(t *testing.T) {
	pool := NewPool(1, 4)
	pool.Start()
	defer pool.Stop()

	done := make(chan struct{})
	pool.Enqueue(JobFunc(func(context.Context) error { return errors.New("sweep failed") }))
	pool.Enqueue(JobFunc(func(context.Context) error { panic("boom") }))
	pool.Enqueue(JobFunc(func(context.Context) error {
		close(done)
		return nil
	}))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive the panicking job")
	}
}

func TestPool_TryEnqueueFullQueue(t *testing.T) {
	pool := NewPool(1, 1)
	// Not started, so the single slot stays occupied
	assert.True(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
	assert.False(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
	pool.Stop()
	assert.False(t, pool.TryEnqueue(JobFunc(func(context.Context) error { return nil })))
}

func TestPool_StopCancelsJobContext(t *testing.T) {
	pool := NewPool(1, 1)
	pool.Start()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}))

	<-started
	pool.Stop()

	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Fatal("job context was not cancelled")
	}
}
