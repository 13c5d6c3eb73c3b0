package pool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ignitedb/ignite/internal/pool"
	"github.com/ignitedb/ignite/pkg/logger"
)

func TestExecuteRunsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := pool.New(ctx, 4, logger.NewNop())
	require.NoError(t, err)
	defer p.Close()

	var wg sync.WaitGroup
	var count atomic.Int64
	for i := 0; i < 100; i++ {
		wg.Add(1)
		p.Execute(func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()

	require.EqualValues(t, 100, count.Load())
}

func TestPoolSurvivesPanickingJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const size = 4
	p, err := pool.New(ctx, size, logger.NewNop())
	require.NoError(t, err)
	defer p.Close()

	p.Execute(func() { panic("boom") })

	// Give the supervisor time to observe the Dead event and respawn.
	time.Sleep(100 * time.Millisecond)

	var wg sync.WaitGroup
	var count atomic.Int64
	for i := 0; i < size*10; i++ {
		wg.Add(1)
		p.Execute(func() {
			defer wg.Done()
			count.Add(1)
		})
	}
	wg.Wait()

	require.EqualValues(t, size*10, count.Load())
}

func TestNewRejectsNonPositiveSize(t *testing.T) {
	_, err := pool.New(context.Background(), 0, logger.NewNop())
	require.Error(t, err)
}
