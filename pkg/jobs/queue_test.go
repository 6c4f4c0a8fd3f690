package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestQueueProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]bool{}
	done := make(chan struct{}, 3)

	q := NewQueue("briefs", func(_ context.Context, job Job[string]) error {
		mu.Lock()
		seen[job.Payload] = true
		mu.Unlock()
		done <- struct{}{}
		return nil
	}, nil, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, id := range []string{"gig-1", "gig-2", "gig-3"} {
		jobID, err := q.Enqueue(id)
		require.NoError(t, err)
		assert.NotEmpty(t, jobID)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 3)
}

func TestQueueRetriesThenReportsExhaustion(t *testing.T) {
	var attempts atomic.Int32
	exhausted := make(chan Job[string], 1)
	failure := errors.New("render failed")

	q := NewQueue("briefs", func(context.Context, Job[string]) error {
		attempts.Add(1)
		return failure
	}, func(job Job[string], err error) {
		assert.ErrorIs(t, err, failure)
		exhausted <- job
	}, QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	_, err := q.Enqueue("gig-1")
	require.NoError(t, err)

	select {
	case job := <-exhausted:
		assert.Equal(t, "gig-1", job.Payload)
		assert.Equal(t, 3, job.Attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job never exhausted")
	}
	assert.EqualValues(t, 3, attempts.Load())
}

func TestQueueRejectsWhenNotStarted(t *testing.T) {
	q := NewQueue("briefs", func(context.Context, Job[string]) error { return nil }, nil, QueueConfig{})
	_, err := q.Enqueue("gig-1")
	assert.ErrorIs(t, err, ErrNotStarted)

	q.Start(context.Background())
	q.Stop()
	_, err = q.Enqueue("gig-1")
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestQueueReportsFullBuffer(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue("briefs", func(ctx context.Context, _ Job[string]) error {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, nil, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(release)

	_, err := q.Enqueue("gig-1")
	require.NoError(t, err)
	<-started
	_, err = q.Enqueue("gig-2")
	require.NoError(t, err)
	_, err = q.Enqueue("gig-3")
	assert.ErrorIs(t, err, ErrQueueFull)
}
