package retry

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Policy defines retry behavior for one submission.
type Policy struct {
	MaxRetries int           // retries after the initial attempt
	BaseDelay  time.Duration // delay before the first retry
	MaxDelay   time.Duration // exponential growth saturates here

	// ShouldRetry decides whether a failure is retried. Nil retries
	// everything, matching the observed form behavior.
	ShouldRetry func(error) bool
}

// DefaultPolicy provides the form's shipped settings.
var DefaultPolicy = Policy{
	MaxRetries: 3,
	BaseDelay:  1 * time.Second,
	MaxDelay:   5 * time.Second,
}

// Executor runs operations with exponential backoff. The zero value is
// usable; Sleep exists so tests can observe delays without waiting.
type Executor struct {
	// Sleep waits for the computed delay. Nil uses a context-aware
	// real sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Do attempts op up to policy.MaxRetries+1 times, waiting
// min(BaseDelay * 2^n, MaxDelay) between attempt n and n+1. The last
// attempt's error is returned after exhaustion, wrapped with the attempt
// count. Cancellation is honored while waiting between attempts.
func (e *Executor) Do(ctx context.Context, policy Policy, op func(ctx context.Context) error) error {
	attempts := policy.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if policy.ShouldRetry != nil && !policy.ShouldRetry(err) {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		if err := e.sleep(ctx, Backoff(attempt, policy)); err != nil {
			return err
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Backoff computes the delay between attempt n and n+1 (0-indexed):
// min(BaseDelay * 2^n, MaxDelay).
func Backoff(attempt int, policy Policy) time.Duration {
	delay := float64(policy.BaseDelay) * math.Pow(2, float64(attempt))
	if delay > float64(policy.MaxDelay) {
		delay = float64(policy.MaxDelay)
	}
	return time.Duration(delay)
}
