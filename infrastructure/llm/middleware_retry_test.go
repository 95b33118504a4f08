package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetryPolicy() RetryPolicy {
	return RetryPolicy{
		RateLimitRetries:   2,
		TimeoutRetries:     1,
		ServerErrorRetries: 1,
		NetworkRetries:     1,
		BaseDelay:          time.Millisecond,
		MaxDelay:           5 * time.Millisecond,
	}
}

func TestRetryMiddleware_RecoversFromTransientFailure(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.FailUntilAttempt = 1
	mock.Error = NewProviderError("openai", ErrorTypeServerError, 500, "internal", nil)

	wrapped := RetryMiddleware(fastRetryPolicy())(mock)

	response, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "test response", response)
	assert.Equal(t, 2, mock.GetCallCount())
}

func TestRetryMiddleware_TimeoutIsPerAttempt(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.StallUntilAttempt = 1

	// Production order: retry outermost, timeout inside. The first attempt
	// stalls until its deadline fires, but the parent context stays live, so
	// the retry layer runs a second attempt under a fresh deadline.
	chain := RetryMiddleware(fastRetryPolicy())(TimeoutMiddleware(20 * time.Millisecond)(mock))

	response, _, _, err := chain.DoRequest(context.Background(), "prompt", nil)
	require.NoError(t, err)
	assert.Equal(t, "test response", response)
	assert.Equal(t, 2, mock.GetCallCount())
}

func TestRetryMiddleware_BudgetsByErrorType(t *testing.T) {
	tests := []struct {
		name      string
		err       *ProviderError
		wantCalls int
	}{
		{
			name:      "rate limit retried twice",
			err:       NewProviderError("openai", ErrorTypeRateLimit, 429, "slow down", nil),
			wantCalls: 3,
		},
		{
			name:      "timeout retried once",
			err:       NewProviderError("openai", ErrorTypeTimeout, 0, "deadline", nil),
			wantCalls: 2,
		},
		{
			name:      "server error retried once",
			err:       NewProviderError("openai", ErrorTypeServerError, 503, "unavailable", nil),
			wantCalls: 2,
		},
		{
			name:      "authentication fails fast",
			err:       NewProviderError("openai", ErrorTypeAuthentication, 401, "bad key", nil),
			wantCalls: 1,
		},
		{
			name:      "bad request fails fast",
			err:       NewProviderError("openai", ErrorTypeBadRequest, 400, "malformed", nil),
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockCoreLLM()
			mock.Error = tt.err

			wrapped := RetryMiddleware(fastRetryPolicy())(mock)

			_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.wantCalls, mock.GetCallCount())
		})
	}
}

func TestRetryMiddleware_UnclassifiedErrorsNotRetried(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = &testError{message: "opaque failure"}

	wrapped := RetryMiddleware(fastRetryPolicy())(mock)

	_, _, _, err := wrapped.DoRequest(context.Background(), "prompt", nil)
	require.Error(t, err)
	assert.Equal(t, 1, mock.GetCallCount())
}

func TestRetryMiddleware_StopsOnCanceledContext(t *testing.T) {
	mock := NewMockCoreLLM()
	mock.Error = NewProviderError("openai", ErrorTypeServerError, 500, "internal", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	wrapped := RetryMiddleware(fastRetryPolicy())(mock)

	_, _, _, err := wrapped.DoRequest(ctx, "prompt", nil)
	require.Error(t, err)
	assert.Equal(t, 1, mock.GetCallCount())
}
