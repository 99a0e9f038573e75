package worker_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fiadopay/gateway/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestPool_RunsSubmittedTasks(t *testing.T) {
	pool := worker.NewPool(4, 16, testLogger())
	pool.Start(context.Background())

	var count atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		err := pool.Submit(func(ctx context.Context) {
			defer wg.Done()
			count.Add(1)
		})
		require.NoError(t, err)
	}

	wg.Wait()
	pool.Stop()
	assert.Equal(t, int32(10), count.Load())
}

func TestPool_BackpressureIsObservable(t *testing.T) {
	pool := worker.NewPool(1, 1, testLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	block := make(chan struct{})
	started := make(chan struct{})

	// occupy the single worker
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(started)
		<-block
	}))
	<-started

	// fill the queue
	require.NoError(t, pool.Submit(func(ctx context.Context) {}))

	err := pool.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, worker.ErrQueueFull)

	close(block)
}

func TestPool_SubmitAfterStop(t *testing.T) {
	pool := worker.NewPool(1, 1, testLogger())
	pool.Start(context.Background())
	pool.Stop()

	err := pool.Submit(func(ctx context.Context) {})
	assert.ErrorIs(t, err, worker.ErrPoolStopped)
}

func TestPool_StopDrainsQueuedTasks(t *testing.T) {
	pool := worker.NewPool(1, 8, testLogger())
	pool.Start(context.Background())

	var count atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func(ctx context.Context) {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		}))
	}

	pool.Stop()
	assert.Equal(t, int32(5), count.Load())
}

func TestPool_RecoversFromTaskPanic(t *testing.T) {
	pool := worker.NewPool(1, 4, testLogger())
	pool.Start(context.Background())

	done := make(chan struct{})
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		panic("boom")
	}))
	require.NoError(t, pool.Submit(func(ctx context.Context) {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not survive task panic")
	}
	pool.Stop()
}
