package jobmgr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRejectsDuplicateNames(t *testing.T) {
	m := New(context.Background())
	block := make(chan struct{})

	require.NoError(t, m.Start("sweeper", func(ctx context.Context) error {
		<-block
		return nil
	}))
	assert.Error(t, m.Start("sweeper", func(ctx context.Context) error { return nil }))
	assert.Equal(t, []string{"sweeper"}, m.Active())

	close(block)
}

func TestStopCancelsJobContext(t *testing.T) {
	m := New(context.Background())
	done := make(chan struct{})

	require.NoError(t, m.Start("sweeper", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return nil
	}))
	require.NoError(t, m.Stop("sweeper"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not observe cancellation")
	}
	assert.Error(t, m.Stop("sweeper"), "stopping twice must fail")
}

func TestParentContextEndsJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := New(ctx)
	done := make(chan struct{})

	require.NoError(t, m.Start("sweeper", func(ctx context.Context) error {
		<-ctx.Done()
		close(done)
		return nil
	}))
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not inherit parent cancellation")
	}
}

func TestJobsUntrackAfterCompletion(t *testing.T) {
	m := New(context.Background())
	require.NoError(t, m.Start("once", func(ctx context.Context) error { return nil }))

	assert.Eventually(t, func() bool {
		return len(m.Active()) == 0
	}, time.Second, 10*time.Millisecond)

	// The name is reusable once the first run finished.
	assert.NoError(t, m.Start("once", func(ctx context.Context) error { return nil }))
}
