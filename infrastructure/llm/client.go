// Package llm is the gateway between the agent and external text-generation
// providers. It hides provider-specific APIs (Anthropic, OpenAI, Google)
// behind a small CoreLLM interface and layers cross-cutting behavior on top
// through a middleware chain: bounded retries, per-request timeouts, rate
// limiting, metrics, and tracing.
//
// Basic usage:
//
//	client, err := llm.NewClient("anthropic", llm.ClientConfig{
//	    APIKey: os.Getenv("ANTHROPIC_API_KEY"),
//	    Model:  "claude-3-5-sonnet-20241022",
//	    Middleware: []llm.Middleware{
//	        llm.RetryMiddleware(llm.DefaultRetryPolicy()),
//	        llm.TimeoutMiddleware(30 * time.Second),
//	    },
//	})
//	response, err := client.Complete(ctx, prompt, nil)
//
// In mock mode no provider is contacted at all; a deterministic in-process
// core serves canned analysis responses so the rest of the system can run
// without credentials.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/mvpagent/mvpagent/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware wraps
// any conforming implementation, so resilience and observability compose
// without the providers knowing about them.
type CoreLLM interface {
	// DoRequest sends a prompt to the provider and returns the response
	// text plus input/output token counts. The opts map carries
	// provider-specific parameters such as temperature or max tokens.
	DoRequest(
		ctx context.Context,
		prompt string,
		opts map[string]any,
	) (
		response string,
		tokensIn, tokensOut int,
		err error,
	)

	// GetModel returns the currently configured model name.
	GetModel() string

	// SetModel switches the model used for subsequent requests.
	SetModel(model string)
}

// TokenEstimator approximates token counts before a request is made,
// for cost estimation and rate limiting.
type TokenEstimator interface {
	EstimateTokens(text string) int
}

// ClientConfig holds the configuration for assembling a gateway client:
// provider credentials, model selection, and the middleware chain.
type ClientConfig struct {
	// APIKey authenticates requests to the provider. For the Google
	// provider this may instead be a path to a credentials file.
	// Not required when MockMode is set.
	APIKey string

	// Model names the model to use. Each provider accepts its own set.
	Model string

	// BaseURL overrides the provider's default endpoint when non-empty.
	BaseURL string

	// Timeout bounds individual requests at the provider level.
	// Zero means no provider-level timeout; use TimeoutMiddleware for a
	// chain-level one.
	Timeout time.Duration

	// MockMode replaces the provider with a deterministic in-process core.
	// No network calls are made and no API key is needed.
	MockMode bool

	// TokenEstimator supplies custom token counting. A character-based
	// estimator is used when nil.
	TokenEstimator TokenEstimator

	// Middleware is applied in the order given; the first entry becomes
	// the outermost wrapper.
	Middleware []Middleware
}

// Middleware wraps a CoreLLM to add behavior around requests.
type Middleware func(CoreLLM) CoreLLM

// Client implements ports.LLMClient by delegating to a middleware-wrapped
// CoreLLM.
type Client struct {
	core      CoreLLM
	estimator TokenEstimator
}

// NewClient assembles a gateway client for the named provider. It validates
// configuration, builds the provider core (or the mock core when
// config.MockMode is set), and applies the middleware chain.
func NewClient(providerType string, config ClientConfig) (ports.LLMClient, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	var core CoreLLM
	if config.MockMode {
		core = NewMockProvider(config.Model)
	} else {
		if config.APIKey == "" {
			return nil, ErrEmptyAPIKey
		}
		factory, ok := providerFactories[providerType]
		if !ok {
			return nil, fmt.Errorf("unknown provider: %s", providerType)
		}
		var err error
		core, err = factory(config)
		if err != nil {
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	// Apply middleware in reverse order so the first middleware is the outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	estimator := config.TokenEstimator
	if estimator == nil {
		estimator = &SimpleTokenEstimator{}
	}

	return &Client{core: core, estimator: estimator}, nil
}

// Complete sends a prompt and returns the response text, discarding token
// usage for callers that do not track it.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.CompleteWithUsage(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response text along with
// input and output token counts.
func (c *Client) CompleteWithUsage(
	ctx context.Context,
	prompt string,
	options map[string]any,
) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// EstimateTokens returns an approximate token count for the given text.
func (c *Client) EstimateTokens(text string) (int, error) {
	return c.estimator.EstimateTokens(text), nil
}

// GetModel returns the model the underlying provider is configured with.
func (c *Client) GetModel() string { return c.core.GetModel() }

// SimpleTokenEstimator approximates tokens at four characters apiece, which
// is close enough for English prose to bound cost estimates.
type SimpleTokenEstimator struct{}

// EstimateTokens returns an approximate token count for text.
func (e *SimpleTokenEstimator) EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// ProviderFactory builds a CoreLLM from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

// providerFactories maps provider names to their constructors. Providers
// register themselves from init so NewClient stays provider-agnostic.
var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory adds a provider constructor under a name,
// replacing any existing registration.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
