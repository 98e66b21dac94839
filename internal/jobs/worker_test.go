package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_EnqueueAsyncRunsJob(t *testing.T) {
	w := NewWorker(0)
	t.Cleanup(w.Shutdown)

	done := make(chan struct{})
	w.EnqueueAsync(func(ctx context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async job did not run")
	}

	require.Eventually(t, func() bool {
		return w.GetStats().CompletedJobs == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_EnqueueAsyncLogsErrorWithoutSetup(t *testing.T) {
	// logger.Setup is intentionally not called here; the default logger
	// must handle the error path.
	w := NewWorker(0)
	t.Cleanup(w.Shutdown)

	w.EnqueueAsync(func(ctx context.Context) error {
		return errors.New("boom")
	})

	require.Eventually(t, func() bool {
		return w.GetStats().FailedJobs == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWorker_EnqueueAsyncAfterShutdown(t *testing.T) {
	w := NewWorker(0)
	w.Shutdown()

	var ran atomic.Bool
	w.EnqueueAsync(func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	time.Sleep(100 * time.Millisecond)
	assert.False(t, ran.Load(), "job should be dropped after shutdown")
	assert.Zero(t, w.GetStats().CompletedJobs)
}

func TestWorker_ScheduleEveryImmediate(t *testing.T) {
	w := NewWorker(0)
	t.Cleanup(w.Shutdown)

	var runs atomic.Int32
	w.ScheduleEveryImmediate(time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	require.Eventually(t, func() bool {
		return runs.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
