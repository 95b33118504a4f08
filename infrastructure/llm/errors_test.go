package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassifier_ClassifyHTTPError(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "anthropic"}

	tests := []struct {
		name       string
		statusCode int
		wantType   ErrorType
		retryable  bool
	}{
		{name: "unauthorized", statusCode: 401, wantType: ErrorTypeAuthentication, retryable: false},
		{name: "forbidden", statusCode: 403, wantType: ErrorTypeAuthentication, retryable: false},
		{name: "rate limited", statusCode: 429, wantType: ErrorTypeRateLimit, retryable: true},
		{name: "bad request", statusCode: 400, wantType: ErrorTypeBadRequest, retryable: false},
		{name: "model not found", statusCode: 404, wantType: ErrorTypeNotFound, retryable: false},
		{name: "internal error", statusCode: 500, wantType: ErrorTypeServerError, retryable: true},
		{name: "bad gateway", statusCode: 502, wantType: ErrorTypeServerError, retryable: true},
		{name: "unavailable", statusCode: 503, wantType: ErrorTypeServerError, retryable: true},
		{name: "other 4xx", statusCode: 422, wantType: ErrorTypeBadRequest, retryable: false},
		{name: "other 5xx", statusCode: 599, wantType: ErrorTypeServerError, retryable: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifier.ClassifyHTTPError(tt.statusCode, "upstream message", errors.New("raw"))

			assert.Equal(t, tt.wantType, err.Type)
			assert.Equal(t, tt.statusCode, err.StatusCode)
			assert.Equal(t, "anthropic", err.Provider)
			assert.Equal(t, tt.retryable, err.IsRetryable())
		})
	}
}

func TestErrorClassifier_ClassifyContextError(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "openai"}

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		err := classifier.ClassifyContextError(context.DeadlineExceeded)

		assert.Equal(t, ErrorTypeTimeout, err.Type)
		assert.True(t, err.IsRetryable())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("cancellation is a network abort", func(t *testing.T) {
		err := classifier.ClassifyContextError(context.Canceled)

		assert.Equal(t, ErrorTypeNetwork, err.Type)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("other errors stay unknown", func(t *testing.T) {
		err := classifier.ClassifyContextError(errors.New("boom"))

		assert.Equal(t, ErrorTypeUnknown, err.Type)
		assert.False(t, err.IsRetryable())
	})
}

func TestProviderError_Error(t *testing.T) {
	err := NewProviderError("google", ErrorTypeRateLimit, 429, "quota exhausted", errors.New("raw"))

	msg := err.Error()
	assert.Contains(t, msg, "google")
	assert.Contains(t, msg, "429")
	assert.Contains(t, msg, "rate_limit")
	assert.Contains(t, msg, "quota exhausted")
}

func TestTypeOf(t *testing.T) {
	t.Run("finds provider error through wrapping", func(t *testing.T) {
		inner := NewProviderError("anthropic", ErrorTypeTimeout, 0, "deadline", nil)
		wrapped := fmt.Errorf("request failed: %w", inner)

		errType, ok := TypeOf(wrapped)
		require.True(t, ok)
		assert.Equal(t, ErrorTypeTimeout, errType)
	})

	t.Run("plain errors are unclassified", func(t *testing.T) {
		_, ok := TypeOf(errors.New("boom"))
		assert.False(t, ok)
	})
}
