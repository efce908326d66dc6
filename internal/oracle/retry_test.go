package oracle

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"google.golang.org/api/googleapi"
)

func fastPolicy(maxAttempts int) *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: maxAttempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
		IsRetryable: IsRetryableOracleError,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), nil, "match", func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if got != "ok" {
		t.Errorf("Expected 'ok', got %q", got)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestDoRetriesTransientErrors(t *testing.T) {
	transient := &googleapi.Error{Code: http.StatusServiceUnavailable}

	calls := 0
	got, err := Do(context.Background(), fastPolicy(3), nil, "match", func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", transient
		}
		return "recovered", nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if got != "recovered" {
		t.Errorf("Expected 'recovered', got %q", got)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	authErr := &googleapi.Error{Code: http.StatusUnauthorized}

	calls := 0
	_, err := Do(context.Background(), fastPolicy(3), nil, "match", func(ctx context.Context) (string, error) {
		calls++
		return "", authErr
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected 1 call for non-retryable error, got %d", calls)
	}
	if !errors.Is(err, authErr) {
		t.Errorf("Expected wrapped cause %v, got %v", authErr, err)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	transient := &googleapi.Error{Code: http.StatusTooManyRequests}

	calls := 0
	_, err := Do(context.Background(), fastPolicy(3), nil, "match", func(ctx context.Context) (string, error) {
		calls++
		return "", transient
	})
	if err == nil {
		t.Fatal("Expected error after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestDoZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy(0), nil, "detect_language", func(ctx context.Context) (string, error) {
		calls++
		return "", &googleapi.Error{Code: http.StatusServiceUnavailable}
	})
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Expected exactly 1 call when MaxAttempts is 0, got %d", calls)
	}
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := &RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Minute,
		MaxDelay:    time.Minute,
		IsRetryable: func(error) bool { return true },
	}

	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, policy, nil, "match", func(ctx context.Context) (string, error) {
			return "", errors.New("transient")
		})
		done <- err
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestBackoffDelayGrowsAndCaps(t *testing.T) {
	policy := &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    60 * time.Second,
	}

	first := policy.backoffDelay(1)
	if first < 4*time.Second || first > 5*time.Second {
		t.Errorf("First backoff out of range: %s", first)
	}

	second := policy.backoffDelay(2)
	if second < 16*time.Second || second > 18*time.Second {
		t.Errorf("Second backoff out of range: %s", second)
	}

	capped := policy.backoffDelay(10)
	if capped > 60*time.Second {
		t.Errorf("Backoff exceeded cap: %s", capped)
	}
}

func TestIsRetryableOracleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"rate limited", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server error", &googleapi.Error{Code: http.StatusInternalServerError}, true},
		{"bad gateway", &googleapi.Error{Code: http.StatusBadGateway}, true},
		{"unavailable", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"gateway timeout", &googleapi.Error{Code: http.StatusGatewayTimeout}, true},
		{"unauthorized", &googleapi.Error{Code: http.StatusUnauthorized}, false},
		{"bad request", &googleapi.Error{Code: http.StatusBadRequest}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryableOracleError(tt.err); got != tt.want {
				t.Errorf("IsRetryableOracleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
