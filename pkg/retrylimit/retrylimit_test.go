package retrylimit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetryRecoversFromTransientFailure(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetryStopsOnFatalError(t *testing.T) {
	sentinel := errors.New("bad token")
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return Fatal(sentinel)
	}, nil)

	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 1, calls, "fatal errors must not be retried")
}

func TestWithRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestAdaptiveLimiterAdjustsWithinBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 2, 16, 1, 0.5)

	lim.Pushback()
	assert.InDelta(t, 4, lim.CurrentLimit(), 0.01)
	lim.Pushback()
	lim.Pushback()
	lim.Pushback()
	assert.InDelta(t, 2, lim.CurrentLimit(), 0.01, "limit must not fall below the floor")
}

func TestAdaptiveLimiterSuccessWaitsForQuietPeriod(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 2, 16, 1, 0.5)

	lim.Pushback()
	lim.Success()
	assert.InDelta(t, 4, lim.CurrentLimit(), 0.01, "a success right after a failure must not raise the limit")
}
