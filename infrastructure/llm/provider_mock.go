package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// MockDefaultModel names the in-process model used when no real provider is
// configured.
const MockDefaultModel = "mock-analyst-v1"

// mockProvider serves a fixed analysis payload without contacting any
// external service. It lets the full pipeline run in development and CI
// without credentials: the response is valid analysis JSON and identical
// for every prompt.
type mockProvider struct {
	BaseProvider
	tokenCounter *TokenCounter
}

// NewMockProvider creates the deterministic in-process core used in mock
// mode.
func NewMockProvider(model string) CoreLLM {
	if model == "" {
		model = MockDefaultModel
	}
	p := &mockProvider{tokenCounter: NewTokenCounter()}
	p.SetModel(model)
	return p
}

// mockAnalysis mirrors the JSON shape real providers are prompted to return.
type mockAnalysis struct {
	CoreMVPScore    float64  `json:"core_mvp_score"`
	ComplexityScore float64  `json:"complexity_score"`
	UserValueScore  float64  `json:"user_value_score"`
	Rationale       string   `json:"rationale"`
	Alternatives    []string `json:"alternatives"`
	Dependencies    []string `json:"dependencies"`
	TimelineImpact  string   `json:"timeline_impact"`
}

// cannedAnalysis is the one analysis the mock ever returns. The scores land in the
// accept band so the default demo flow approves features end to end.
var cannedAnalysis = mockAnalysis{
	CoreMVPScore:    8.0,
	ComplexityScore: 5.0,
	UserValueScore:  7.0,
	Rationale: "Simulated analysis: the feature was scored on how essential it is " +
		"to a first release, its implementation complexity, and the value it " +
		"delivers to the stated target users. The payload is fixed, so every " +
		"submission receives the same assessment.",
	Alternatives:   []string{"Ship a simplified manual workflow first"},
	Dependencies:   []string{"User accounts must exist before this feature"},
	TimelineImpact: "Adds roughly one sprint to the initial release",
}

// DoRequest returns the canned analysis regardless of prompt content. Only
// the token counts vary with the prompt.
func (p *mockProvider) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, 0, err
	}

	payload, err := json.Marshal(cannedAnalysis)
	if err != nil {
		return "", 0, 0, fmt.Errorf("marshaling mock analysis: %w", err)
	}

	response := string(payload)
	tokensIn := p.tokenCounter.EstimateTokens(prompt)
	tokensOut := p.tokenCounter.EstimateTokens(response)

	return response, tokensIn, tokensOut, nil
}
