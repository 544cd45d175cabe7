// Package retrylimit paces bursts of API calls with an adaptive rate limit
// and retries transient failures with exponential backoff. The limit rises
// slowly while calls succeed and drops sharply when the remote side pushes
// back.
package retrylimit

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter wraps a token bucket whose rate adjusts with call
// outcomes. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter builds a limiter starting at initial requests per
// second, bounded by [min, max]. stepUp is added after a quiet success;
// stepDown multiplies the limit after a pushback (0.5 halves it).
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if min < 1 {
		min = 1
	}
	if initial < min {
		initial = min
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, 1),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or the context ends.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success nudges the rate up. Raises only after a quiet period so one
// success between failures does not oscillate the limit.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > 10*time.Second {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// Pushback cuts the rate after the remote side signaled overload.
func (a *AdaptiveLimiter) Pushback() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	if l > a.maxLimit {
		l = a.maxLimit
	}
	if l < a.minLimit {
		l = a.minLimit
	}
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
	}
}

// FatalError wraps an error that must not be retried.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal marks err as non-retryable.
func Fatal(err error) error {
	return &FatalError{Err: err}
}

const (
	maxAttempts  = 5
	initialDelay = 500 * time.Millisecond
	maxDelay     = 10 * time.Second
)

// WithRetry runs fn, waiting on the limiter before each attempt and backing
// off exponentially with jitter between failures. It stops on success, on a
// FatalError, on context cancellation, or after the attempt cap.
func WithRetry(ctx context.Context, fn func() error, lim *AdaptiveLimiter) error {
	delay := initialDelay
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}

		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
		lastErr = err
		if lim != nil {
			lim.Pushback()
		}
		if attempt == maxAttempts {
			break
		}

		wait := delay + time.Duration(rand.Int63n(int64(delay/2)+1))
		log.Debug().Err(err).Int("attempt", attempt).Dur("backoff", wait).Msg("retrying after failure")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
	return lastErr
}
