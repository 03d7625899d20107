// Package retry runs an operation under a bounded retry policy with a per
// attempt timeout and a backoff delay between attempts.
package retry

import (
	"context"
	"errors"
	"math"
	"time"
)

// Policy describes how an operation is retried
type Policy struct {
	// MaxAttempts is the total number of tries, including the first
	MaxAttempts int
	// AttemptTimeout bounds each try; zero means no per-attempt limit
	AttemptTimeout time.Duration
	// Backoff returns the delay after the given failed attempt (0-based)
	Backoff func(attempt int) time.Duration
	// Retryable decides whether an error is worth another try; nil retries
	// everything except cancellation of the parent context
	Retryable func(err error) bool
	// OnRetry is called before each delay
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Exponential returns base * 2^attempt
func Exponential(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(float64(base) * math.Pow(2, float64(attempt)))
	}
}

// DefaultPolicy is three attempts of ten seconds each, waiting 1s then 2s
// between them.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		AttemptTimeout: 10 * time.Second,
		Backoff:        Exponential(time.Second),
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. fn receives a context bounded by AttemptTimeout. The
// wait between attempts ends early when ctx is done.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		lastErr = p.attempt(ctx, attempt, fn)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || !p.retryable(lastErr) || attempt == attempts-1 {
			return lastErr
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, lastErr, delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return lastErr
		}
	}

	return lastErr
}

func (p Policy) attempt(ctx context.Context, attempt int, fn func(context.Context, int) error) error {
	if p.AttemptTimeout <= 0 {
		return fn(ctx, attempt)
	}
	attemptCtx, cancel := context.WithTimeout(ctx, p.AttemptTimeout)
	defer cancel()
	return fn(attemptCtx, attempt)
}

func (p Policy) retryable(err error) bool {
	if p.Retryable != nil {
		return p.Retryable(err)
	}
	return !errors.Is(err, context.Canceled)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
