package importer_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/shardflow/internal/importer"
)

func TestExecutorRunsSubmittedJobs(t *testing.T) {
	e := importer.NewExecutor(4, 16)
	defer e.Stop()

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		err := e.Submit(func(ctx context.Context) {
			defer wg.Done()
			count.Add(1)
		})
		require.NoError(t, err)
	}
	wg.Wait()
	assert.Equal(t, int32(20), count.Load())
}

func TestExecutorRejectsSubmissionAfterStop(t *testing.T) {
	e := importer.NewExecutor(1, 4)
	e.Stop()

	err := e.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, importer.ErrFatalExecutorFailure)
}

func TestDelayedExecutorSchedulesAfterDelay(t *testing.T) {
	e := importer.NewDelayedExecutor(2, 10*time.Millisecond)
	defer e.Stop()

	fired := make(chan struct{})
	err := e.Schedule(10*time.Millisecond, func(ctx context.Context) {
		close(fired)
	})
	require.NoError(t, err)

	select {
	case <-fired:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("scheduled job never fired")
	}
}

func TestDelayedExecutorStopPreventsFutureTicks(t *testing.T) {
	e := importer.NewDelayedExecutor(2, time.Hour)

	fired := make(chan struct{}, 1)
	err := e.Schedule(50*time.Millisecond, func(ctx context.Context) {
		fired <- struct{}{}
	})
	require.NoError(t, err)

	e.Stop()

	select {
	case <-fired:
		t.Fatal("tick scheduled before shutdown must not fire after Stop")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDelayedExecutorRejectsScheduleAfterStop(t *testing.T) {
	e := importer.NewDelayedExecutor(1, time.Second)
	e.Stop()

	err := e.Schedule(time.Millisecond, func(ctx context.Context) {})
	assert.ErrorIs(t, err, importer.ErrFatalExecutorFailure)
}
