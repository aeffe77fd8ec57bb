package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// recordingSleep captures computed delays without waiting.
func recordingSleep(delays *[]time.Duration) func(ctx context.Context, d time.Duration) error {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestBackoff_MonotonicAndCapped(t *testing.T) {
	policy := Policy{MaxRetries: 3, BaseDelay: 1 * time.Second, MaxDelay: 5 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 5 * time.Second}, // 8s capped at 5s
		{4, 5 * time.Second},
		{10, 5 * time.Second},
	}

	var prev time.Duration
	for _, tt := range tests {
		got := Backoff(tt.attempt, policy)
		if got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
		if got < prev {
			t.Errorf("Backoff(%d) = %v decreased from %v", tt.attempt, got, prev)
		}
		prev = got
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	var delays []time.Duration
	e := &Executor{Sleep: recordingSleep(&delays)}

	calls := 0
	err := e.Do(context.Background(), DefaultPolicy, func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
	if len(delays) != 0 {
		t.Errorf("Expected no delays, got %v", delays)
	}
}

func TestDo_RecoversAfterFailures(t *testing.T) {
	var delays []time.Duration
	e := &Executor{Sleep: recordingSleep(&delays)}

	calls := 0
	err := e.Do(context.Background(), DefaultPolicy, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
	want := []time.Duration{1 * time.Second, 2 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("Expected delays %v, got %v", want, delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestDo_ExhaustsAndSurfacesLastError(t *testing.T) {
	var delays []time.Duration
	e := &Executor{Sleep: recordingSleep(&delays)}

	calls := 0
	lastErr := errors.New("still down")
	err := e.Do(context.Background(), DefaultPolicy, func(ctx context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("down")
		}
		return lastErr
	})
	if err == nil {
		t.Fatal("Expected error after exhaustion")
	}
	if calls != 4 { // initial + 3 retries
		t.Errorf("Expected 4 calls, got %d", calls)
	}
	if !errors.Is(err, lastErr) {
		t.Errorf("Expected last error to be surfaced, got %v", err)
	}
	if !strings.Contains(err.Error(), "4 attempts") {
		t.Errorf("Expected attempt count in error, got %v", err)
	}
	if len(delays) != 3 {
		t.Errorf("Expected 3 delays, got %v", delays)
	}
}

func TestDo_ShouldRetryPredicate(t *testing.T) {
	var delays []time.Duration
	e := &Executor{Sleep: recordingSleep(&delays)}

	fatal := errors.New("duplicate record")
	policy := DefaultPolicy
	policy.ShouldRetry = func(err error) bool { return !errors.Is(err, fatal) }

	calls := 0
	err := e.Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("Expected fatal error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected no retries for non-retryable error, got %d calls", calls)
	}
}

func TestDo_CancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	e := &Executor{Sleep: func(ctx context.Context, d time.Duration) error {
		cancel()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
			return nil
		}
	}}

	calls := 0
	err := e.Do(ctx, DefaultPolicy, func(ctx context.Context) error {
		calls++
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected cancellation to stop retries, got %d calls", calls)
	}
}

func TestDo_ZeroRetriesRunsOnce(t *testing.T) {
	e := &Executor{Sleep: recordingSleep(&[]time.Duration{})}

	calls := 0
	policy := Policy{MaxRetries: 0, BaseDelay: time.Second, MaxDelay: time.Second}
	_ = e.Do(context.Background(), policy, func(ctx context.Context) error {
		calls++
		return errors.New("down")
	})
	if calls != 1 {
		t.Errorf("Expected exactly 1 call, got %d", calls)
	}
}
