package cleanup

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls atomic.Int32
}

func (c *countingCleaner) CleanupOldSessions(context.Context) int {
	c.calls.Add(1)
	return 0
}

func TestWorkerRunsUntilCancelled(t *testing.T) {
	cleaner := &countingCleaner{}
	worker := NewWorker(cleaner, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return cleaner.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}

	calls := cleaner.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, cleaner.calls.Load())
}
