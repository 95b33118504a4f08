// Package ports defines the interfaces between the agent's core logic and
// the infrastructure that serves it: the model gateway, persistence stores,
// the result cache, and metrics. The core depends only on these interfaces;
// concrete implementations live under infrastructure/ and internal/storage.
package ports

import "context"

// LLMClient is the boundary to the external text-generation service.
// Implementations handle provider-specific details like authentication,
// request formatting, retries, and timeouts.
type LLMClient interface {
	// Complete sends a prompt to the model and returns the raw response
	// text. The options map carries provider-specific parameters; common
	// keys include:
	//   - "temperature": float64 (0.0-1.0)
	//   - "max_tokens": int
	//   - "model": string (override the configured model)
	// The call blocks until the provider responds, the context is
	// canceled, or the configured timeout elapses.
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// EstimateTokens approximates the token count of the given text,
	// useful for cost estimation before a request is made.
	EstimateTokens(text string) (int, error)

	// GetModel returns the model identifier this client is configured
	// with, for logging and diagnostics.
	GetModel() string
}
