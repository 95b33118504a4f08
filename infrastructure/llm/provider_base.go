package llm

import "sync"

// BaseProvider carries the thread-safe model bookkeeping shared by all
// provider implementations.
type BaseProvider struct {
	mu    sync.RWMutex
	model string
}

// GetModel returns the model currently configured for the provider.
// It is safe for concurrent use.
func (b *BaseProvider) GetModel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.model
}

// SetModel updates the model name for the provider.
// It is safe for concurrent use.
func (b *BaseProvider) SetModel(model string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.model = model
}

// RequestOptions is the standardized set of request parameters shared
// across providers.
type RequestOptions struct {
	// MaxTokens caps the number of tokens to generate.
	MaxTokens int
	// Model identifies the language model for this request.
	Model string
	// Temperature controls output randomness. Nil uses the provider default.
	Temperature *float64
	// TopP enables nucleus sampling. Nil uses the provider default.
	TopP *float64
	// System supplies instructions that frame the model's behavior.
	System string
	// Extra holds provider-specific options outside the standardized set.
	Extra map[string]any
}

// ParseRequestOptions extracts and validates request parameters from a
// generic options map, falling back to defaults for missing or invalid
// entries. Unrecognized keys are collected into Extra.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens: ExtractOptionalInt(opts, "max_tokens", DefaultMaxTokens, IsPositiveInt),
		Model:     ExtractOptionalString(opts, "model", defaultModel, IsNonEmptyString),
		System:    ExtractOptionalString(opts, "system", "", nil),
		Extra:     make(map[string]any),
	}

	if temp := ExtractOptionalFloat64(opts, "temperature", -1, IsValidTemperature); temp != -1 {
		options.Temperature = &temp
	}

	if topP := ExtractOptionalFloat64(opts, "top_p", -1, IsValidTopP); topP != -1 {
		options.TopP = &topP
	}

	for k, v := range opts {
		switch k {
		case "max_tokens", "model", "system", "temperature", "top_p":
		// Standard options, already processed.
		default:
			options.Extra[k] = v
		}
	}

	return options
}

// TokenCounter estimates token counts for models without an exact tokenizer.
type TokenCounter struct {
	// CharactersPerToken is the average character-to-token ratio.
	CharactersPerToken float64
}

// NewTokenCounter creates a TokenCounter with a ratio suitable for
// English text.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens returns an estimated token count for text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount returns the actual count when the provider reported one,
// otherwise an estimate from the text.
func (tc *TokenCounter) GetTokenCount(actualCount int, text string) int {
	if actualCount > 0 {
		return actualCount
	}
	return tc.EstimateTokens(text)
}
