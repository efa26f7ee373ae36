package resilience

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ALLiDoizCode/adp-relay/core"
)

func fastRetryConfig(attempts int) *RetryConfig {
	return &RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterEnabled: false,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return errors.New("persistent")
	})
	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if !errors.Is(err, core.ErrMaxRetriesExceeded) {
		t.Errorf("error %v does not wrap ErrMaxRetriesExceeded", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, fastRetryConfig(5), func() error {
		calls++
		return errors.New("never reached")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("function ran %d times after cancellation", calls)
	}
}

func TestRetryStopsOnTerminalFaults(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"rejected request", fmt.Errorf("%w: gateway returned 404", core.ErrRequestFailed)},
		{"invalid configuration", fmt.Errorf("%w: bad threshold", core.ErrInvalidConfiguration)},
		{"missing configuration", core.ErrMissingConfiguration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), fastRetryConfig(5), func() error {
				calls++
				return tc.err
			})
			if calls != 1 {
				t.Errorf("terminal fault retried %d times", calls)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("error = %v, want %v", err, tc.err)
			}
			if errors.Is(err, core.ErrMaxRetriesExceeded) {
				t.Errorf("terminal fault reported as retry exhaustion: %v", err)
			}
		})
	}
}

func TestRetryKeepsRetryingTransientSentinels(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastRetryConfig(3), func() error {
		calls++
		return fmt.Errorf("%w: gateway returned 502", core.ErrActorUnreachable)
	})
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, core.ErrMaxRetriesExceeded) {
		t.Errorf("error %v does not wrap ErrMaxRetriesExceeded", err)
	}
}

func TestRetryNilConfigUsesDefaults(t *testing.T) {
	// A nil config must not panic; one immediate success needs no delay.
	if err := Retry(context.Background(), nil, func() error { return nil }); err != nil {
		t.Fatalf("Retry failed: %v", err)
	}
}

func TestRetryWithCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker(2, time.Hour, nil)

	calls := 0
	err := RetryWithCircuitBreaker(context.Background(), fastRetryConfig(5), cb, func() error {
		calls++
		return errors.New("failing")
	})
	if err == nil {
		t.Fatal("expected failure")
	}
	// Two failures open the circuit; the remaining attempts are blocked
	// without reaching the function.
	if calls != 2 {
		t.Errorf("expected 2 calls before the circuit opened, got %d", calls)
	}
	if cb.GetState() != "open" {
		t.Errorf("breaker state = %q", cb.GetState())
	}
}
