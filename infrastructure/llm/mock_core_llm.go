package llm

import (
	"context"
	"sync"
)

// MockCoreLLM is the CoreLLM test double for middleware tests. It can fail
// or stall a leading window of calls and then recover, which is how the
// retry and timeout layers are exercised without a provider.
type MockCoreLLM struct {
	mu sync.Mutex

	Response  string
	TokensIn  int
	TokensOut int
	Model     string

	// Error is the failure to return. With FailUntilAttempt zero it applies
	// to every call; otherwise only to the first FailUntilAttempt calls,
	// after which calls succeed.
	Error error

	// FailUntilAttempt bounds the failure window. Zero means no window:
	// behavior is uniform across calls.
	FailUntilAttempt int

	// StallUntilAttempt makes the first N calls block until the request
	// context expires, returning the context error classified the way real
	// providers classify it. Later calls respond immediately.
	StallUntilAttempt int

	CallCount  int
	LastPrompt string
}

// NewMockCoreLLM returns a mock that succeeds on every call.
func NewMockCoreLLM() *MockCoreLLM {
	return &MockCoreLLM{
		Response:  "test response",
		TokensIn:  10,
		TokensOut: 20,
		Model:     "test-model",
	}
}

// DoRequest implements CoreLLM with the configured failure behavior.
func (m *MockCoreLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	m.mu.Lock()
	m.CallCount++
	call := m.CallCount
	m.LastPrompt = prompt
	m.mu.Unlock()

	if call <= m.StallUntilAttempt {
		<-ctx.Done()
		classifier := &ErrorClassifier{Provider: "mock"}
		return "", 0, 0, classifier.ClassifyContextError(ctx.Err())
	}

	if err := ctx.Err(); err != nil {
		return "", 0, 0, err
	}

	if m.Error != nil && (m.FailUntilAttempt == 0 || call <= m.FailUntilAttempt) {
		return "", 0, 0, m.Error
	}
	if m.FailUntilAttempt > 0 && call <= m.FailUntilAttempt {
		return "", 0, 0, &testError{message: "simulated failure"}
	}

	return m.Response, m.TokensIn, m.TokensOut, nil
}

// GetModel returns the configured model name.
func (m *MockCoreLLM) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Model
}

// SetModel updates the model name.
func (m *MockCoreLLM) SetModel(model string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Model = model
}

// GetCallCount returns how many times DoRequest has been called.
func (m *MockCoreLLM) GetCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// testError is an unclassified error for exercising the no-retry paths.
type testError struct {
	message string
}

func (e *testError) Error() string {
	return e.message
}
