package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy bounds retries per failure category. Attempts are retries
// beyond the initial request; a zero budget means fail fast.
type RetryPolicy struct {
	// RateLimitRetries applies when the provider reports a rate limit.
	RateLimitRetries int
	// TimeoutRetries applies when a request exceeds its deadline.
	TimeoutRetries int
	// ServerErrorRetries applies to provider 5xx failures.
	ServerErrorRetries int
	// NetworkRetries applies to client-side network failures.
	NetworkRetries int
	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration
	// MaxDelay caps any single backoff sleep.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns the retry budgets used in production wiring:
// rate limits get two retries, transient failures one, and request or
// credential errors none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		RateLimitRetries:   2,
		TimeoutRetries:     1,
		ServerErrorRetries: 1,
		NetworkRetries:     1,
		BaseDelay:          500 * time.Millisecond,
		MaxDelay:           10 * time.Second,
	}
}

// budgetFor returns the retry budget for a classified failure.
// Unclassified errors and non-retryable categories get no retries.
func (p RetryPolicy) budgetFor(err error) int {
	var pe *ProviderError
	if !errors.As(err, &pe) || !pe.IsRetryable() {
		return 0
	}
	switch pe.Type {
	case ErrorTypeRateLimit:
		return p.RateLimitRetries
	case ErrorTypeTimeout:
		return p.TimeoutRetries
	case ErrorTypeServerError:
		return p.ServerErrorRetries
	case ErrorTypeNetwork:
		return p.NetworkRetries
	default:
		return 0
	}
}

// retryLLM retries transient failures with exponential backoff and jitter.
// Authentication and bad-request errors are never retried; they would fail
// identically on every attempt.
type retryLLM struct {
	next   CoreLLM
	policy RetryPolicy
}

// RetryMiddleware creates middleware that retries failed requests according
// to the given policy.
func RetryMiddleware(policy RetryPolicy) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &retryLLM{next: next, policy: policy}
	}
}

// DoRequest executes the request, retrying within the policy's budget for
// the failure category observed. Context cancellation stops retries
// immediately.
func (r *retryLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		response, tokensIn, tokensOut, err := r.next.DoRequest(ctx, prompt, opts)
		if err == nil {
			return response, tokensIn, tokensOut, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			break
		}

		if attempt >= r.policy.budgetFor(err) {
			break
		}

		select {
		case <-ctx.Done():
			return "", 0, 0, ctx.Err()
		case <-time.After(r.calculateDelay(attempt)):
			// Continue to next attempt.
		}
	}

	return "", 0, 0, fmt.Errorf("request failed: %w", lastErr)
}

func (r *retryLLM) calculateDelay(attempt int) time.Duration {
	// Exponential backoff with jitter.
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}
	// #nosec G115 - attempt is bounded between 0 and 30
	multiplier := 1 << uint(attempt)
	delay := time.Duration(float64(r.policy.BaseDelay) * float64(multiplier))

	// Add jitter (±25%)
	// #nosec G404 - Using weak RNG is acceptable for jitter calculation
	jitter := time.Duration(rand.Float64() * float64(delay) * 0.5)
	delay = delay + jitter - (delay / 4)

	if delay > r.policy.MaxDelay {
		delay = r.policy.MaxDelay
	}

	return delay
}

// GetModel returns the model name from the wrapped implementation.
func (r *retryLLM) GetModel() string { return r.next.GetModel() }

// SetModel updates the model name in the wrapped implementation.
func (r *retryLLM) SetModel(m string) { r.next.SetModel(m) }
