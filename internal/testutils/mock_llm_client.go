// Package testutils provides shared test doubles for the validation and
// generation pipelines.
package testutils

import (
	"context"
	"strings"
	"sync"
)

// MockLLMClient implements ports.LLMClient with canned responses for
// deterministic tests. Responses are matched by substring against the
// prompt; a default response serves prompts with no match.
type MockLLMClient struct {
	mu sync.Mutex

	model           string
	defaultResponse string
	responses       []MockResponse

	// Err, when set, fails every request.
	Err error

	// CallCount tracks the number of Complete calls.
	CallCount int
	// LastPrompt holds the most recent prompt received.
	LastPrompt string
}

// MockResponse maps a prompt substring to a canned response.
type MockResponse struct {
	Pattern  string
	Response string
}

// NewMockLLMClient creates a mock client whose unmatched prompts return
// defaultResponse.
func NewMockLLMClient(model, defaultResponse string) *MockLLMClient {
	return &MockLLMClient{
		model:           model,
		defaultResponse: defaultResponse,
	}
}

// AddResponse registers a pattern-matched response. Patterns are checked in
// registration order; the first match wins.
func (m *MockLLMClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// Complete returns the first pattern-matched response, the default
// response, or the configured error.
func (m *MockLLMClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastPrompt = prompt

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Err != nil {
		return "", m.Err
	}

	for _, resp := range m.responses {
		if resp.Pattern != "" && strings.Contains(prompt, resp.Pattern) {
			return resp.Response, nil
		}
	}
	return m.defaultResponse, nil
}

// EstimateTokens approximates tokens at four characters apiece.
func (m *MockLLMClient) EstimateTokens(text string) (int, error) {
	return (len(text) + 3) / 4, nil
}

// GetModel returns the configured model identifier.
func (m *MockLLMClient) GetModel() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model
}

// Calls returns the number of Complete invocations so far.
func (m *MockLLMClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}
