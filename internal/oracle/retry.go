package oracle

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"net"
	"net/http"
	"time"

	resumefitErrors "resumefit/internal/errors"

	"google.golang.org/api/googleapi"
)

// RetryPolicy is the single retry mechanism shared by every oracle-calling
// stage: max attempts, an exponential backoff schedule and a retryability
// predicate.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	IsRetryable func(error) bool
}

// DefaultRetryPolicy retries transient oracle failures up to 3 attempts with
// waits scaling roughly 4s to 60s
func DefaultRetryPolicy() *RetryPolicy {
	return &RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   4 * time.Second,
		MaxDelay:    60 * time.Second,
		IsRetryable: IsRetryableOracleError,
	}
}

// backoffDelay computes the wait before the given retry (1-based), with
// random jitter to avoid thundering herds
func (p *RetryPolicy) backoffDelay(retry int) time.Duration {
	delay := time.Duration(float64(p.BaseDelay) * math.Pow(4, float64(retry-1)))
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}

	jitterMax := big.NewInt(int64(float64(delay) * 0.1))
	if jitterMax.Sign() > 0 {
		if jitterBig, err := rand.Int(rand.Reader, jitterMax); err == nil {
			delay += time.Duration(jitterBig.Int64())
		}
	}
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

// Do runs fn under the policy. MaxAttempts counts total attempts, not
// retries; a policy with MaxAttempts 0 or 1 runs fn exactly once.
func Do[T any](ctx context.Context, p *RetryPolicy, logger *resumefitErrors.Logger, operation string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if logger != nil {
				logger.Warn("Retrying oracle operation",
					"operation", operation,
					"attempt", attempt,
					"max_attempts", attempts,
					"error", lastErr.Error())
			}

			select {
			case <-time.After(p.backoffDelay(attempt - 1)):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn(ctx)
		if err == nil {
			if attempt > 1 && logger != nil {
				logger.Info("Oracle operation succeeded after retry",
					"operation", operation,
					"successful_attempt", attempt)
			}
			return result, nil
		}

		lastErr = err
		if p.IsRetryable != nil && !p.IsRetryable(err) {
			if logger != nil {
				logger.Debug("Error is not retryable, stopping",
					"operation", operation,
					"error", err.Error())
			}
			break
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
	}

	if logger != nil {
		logger.LogError(lastErr, "Oracle operation exhausted all attempts",
			"operation", operation,
			"attempts", attempts)
	}

	return zero, resumefitErrors.NewOracleError(resumefitErrors.ErrCodeOracleFailed,
		"Operation '"+operation+"' exhausted retry attempts", lastErr)
}

// IsRetryableOracleError reports whether an error is worth retrying:
// timeouts, connection problems, rate limits and transient 5xx responses.
// Auth and invalid-input failures are not.
func IsRetryableOracleError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	return false
}
