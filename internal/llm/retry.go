package llm

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"
)

// retryPolicy says how often a failure class may be retried.
type retryPolicy int

const (
	retryNever retryPolicy = iota
	retryOnce
	retryAlways
)

// policyFor classifies err. Cancellation, rejection and truncation are
// final. A malformed reply gets one more try. Anything else is assumed to
// be a transient transport or provider failure.
func policyFor(err error) retryPolicy {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return retryNever
	}
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
	)
	if errors.As(err, &maxTok) || errors.As(err, &rejected) {
		return retryNever
	}
	var inv *ErrInvalidResponse
	if errors.As(err, &inv) {
		return retryOnce
	}
	return retryAlways
}

// delay is the wait before retry number attempt+1, with ±20% jitter.
func (c RetryConfig) delay(attempt int) time.Duration {
	wait := min(float64(c.InitialWait)*math.Pow(c.Multiplier, float64(attempt)), float64(c.MaxWait))
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}

// RetryProvider retries failed calls on the wrapped Provider with
// exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		lastErr error
		retried = map[retryPolicy]int{}
	)
	for attempt := range max(r.config.MaxAttempts, 1) {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		policy := policyFor(err)
		if policy == retryNever || (policy == retryOnce && retried[policy] > 0) {
			return nil, err
		}
		retried[policy]++
		if attempt == r.config.MaxAttempts-1 {
			break
		}

		wait := r.config.delay(attempt)
		var rl *ErrRateLimit
		if errors.As(err, &rl) && rl.RetryAfter > 0 {
			wait = rl.RetryAfter
		}
		slog.Debug("retrying LLM call", "purpose", PurposeFrom(ctx), "attempt", attempt+1, "wait", wait, "error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}
