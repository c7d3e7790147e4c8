package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	name string
	fn   func(context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

func TestPoolRunsJobs(t *testing.T) {
	p := NewPool(2, 8)
	p.Start(context.Background())
	defer p.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(funcJob{name: "count", fn: func(context.Context) error {
			defer wg.Done()
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		}}))
	}
	wg.Wait()

	assert.Equal(t, 5, ran)
}

func TestPoolSubmitRejectsWhenFull(t *testing.T) {
	p := NewPool(1, 1)

	require.NoError(t, p.Submit(funcJob{name: "a", fn: func(context.Context) error { return nil }}))
	err := p.Submit(funcJob{name: "b", fn: func(context.Context) error { return nil }})

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Len(t, p.jobs, 1)
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())
	p.Stop()
	p.Stop()

	err := p.Submit(funcJob{name: "late", fn: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrPoolStopped)
}

func TestPoolSurvivesFailingAndPanickingJobs(t *testing.T) {
	p := NewPool(1, 4)
	p.Start(context.Background())
	defer p.Stop()

	done := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "fail", fn: func(context.Context) error { return errors.New("nope") }}))
	require.NoError(t, p.Submit(funcJob{name: "panic", fn: func(context.Context) error { panic("boom") }}))
	require.NoError(t, p.Submit(funcJob{name: "ok", fn: func(context.Context) error { close(done); return nil }}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive earlier jobs")
	}
}

func TestStopCancelsRunningJob(t *testing.T) {
	p := NewPool(1, 1)
	p.Start(context.Background())

	started := make(chan struct{})
	cancelled := make(chan struct{})
	require.NoError(t, p.Submit(funcJob{name: "block", fn: func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return ctx.Err()
	}}))
	<-started
	p.Stop()

	select {
	case <-cancelled:
	default:
		t.Fatal("running job was not cancelled")
	}
}
