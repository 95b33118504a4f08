package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/logger"
	"github.com/mvpagent/mvpagent/internal/testutils"
)

const acceptableAnalysis = `{"core_mvp_score": 9, "complexity_score": 3, "user_value_score": 8,
	"rationale": "Login is table stakes for any account-based product and unlocks every other feature.",
	"alternatives": [], "dependencies": ["session storage"], "timeline_impact": "1 week"}`

func newTestValidator(client *testutils.MockLLMClient) *Validator {
	return NewValidator(client, NewLRUCache(DefaultCacheCapacity), logger.NewNop(), nil)
}

func loginRequest() domain.FeatureRequest {
	return domain.FeatureRequest{
		Name:        "User Login",
		Description: "Email and password authentication with session persistence",
		Priority:    domain.PriorityHigh,
	}
}

func TestValidateFeature_Success(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	resp, err := v.ValidateFeature(context.Background(), loginRequest(), domain.ProjectContext{})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionAccept, resp.Result.Decision)
	assert.InDelta(t, 8.15, resp.Result.Score.Overall, 0.001)
	assert.False(t, resp.Cached)
	assert.Contains(t, client.LastPrompt, "User Login")
	assert.Contains(t, client.LastPrompt, "core_mvp_score")
}

func TestValidateFeature_ProjectContextReachesPrompt(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	projCtx := domain.ProjectContext{
		Industry:    "fintech",
		TargetUsers: "freelancers tracking invoices",
	}

	_, err := v.ValidateFeature(context.Background(), loginRequest(), projCtx)
	require.NoError(t, err)

	assert.Contains(t, client.LastPrompt, "fintech")
	assert.Contains(t, client.LastPrompt, "freelancers tracking invoices")
}

func TestValidateFeature_SecondCallServedFromCache(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	first, err := v.ValidateFeature(context.Background(), loginRequest(), domain.ProjectContext{})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := v.ValidateFeature(context.Background(), loginRequest(), domain.ProjectContext{})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Result, second.Result)
	assert.Equal(t, 1, client.Calls(), "cached validation must not contact the model")
}

func TestValidateFeature_InputValidation(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	tests := []struct {
		name    string
		req     domain.FeatureRequest
		wantErr error
	}{
		{
			name:    "empty name",
			req:     domain.FeatureRequest{Description: "something"},
			wantErr: domain.ErrEmptyFeatureName,
		},
		{
			name:    "empty description",
			req:     domain.FeatureRequest{Name: "something"},
			wantErr: domain.ErrEmptyFeatureDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateFeature(context.Background(), tt.req, domain.ProjectContext{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Equal(t, 0, client.Calls(), "invalid requests must not contact the model")
}

func TestValidateFeature_FailuresAreNotCached(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	client.Err = errors.New("upstream unavailable")
	v := newTestValidator(client)

	_, err := v.ValidateFeature(context.Background(), loginRequest(), domain.ProjectContext{})
	require.Error(t, err)
	assert.Equal(t, 0, v.Stats().CacheSize)

	// Once the model recovers, the same feature validates fresh.
	client.Err = nil
	resp, err := v.ValidateFeature(context.Background(), loginRequest(), domain.ProjectContext{})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 1, v.Stats().CacheSize)
}

func TestValidateFeature_UnparseableResponse(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", "I refuse to answer in JSON.")
	v := newTestValidator(client)

	_, err := v.ValidateFeature(context.Background(), loginRequest(), domain.ProjectContext{})
	require.Error(t, err)

	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 0, v.Stats().CacheSize, "parse failures must not be cached")
}

func TestValidateBatch(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	reqs := []domain.FeatureRequest{
		{Name: "Login", Description: "Email auth"},
		{Name: "Search", Description: "Full-text search"},
		{Name: "Export", Description: "CSV export"},
	}

	responses, err := v.ValidateBatch(context.Background(), reqs, domain.ProjectContext{})
	require.NoError(t, err)
	require.Len(t, responses, 3)

	// Responses preserve request order.
	for i, resp := range responses {
		assert.Equal(t, reqs[i].Name, resp.Feature.Name)
	}
}

func TestValidateBatch_Limits(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	t.Run("empty batch rejected", func(t *testing.T) {
		_, err := v.ValidateBatch(context.Background(), nil, domain.ProjectContext{})
		assert.Error(t, err)
	})

	t.Run("oversized batch rejected", func(t *testing.T) {
		reqs := make([]domain.FeatureRequest, MaxBatchSize+1)
		for i := range reqs {
			reqs[i] = domain.FeatureRequest{Name: "f", Description: "d"}
		}
		_, err := v.ValidateBatch(context.Background(), reqs, domain.ProjectContext{})
		assert.ErrorIs(t, err, ErrBatchTooLarge)
	})
}

func TestStats(t *testing.T) {
	client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
	v := newTestValidator(client)

	req := loginRequest()
	_, err := v.ValidateFeature(context.Background(), req, domain.ProjectContext{})
	require.NoError(t, err)
	_, err = v.ValidateFeature(context.Background(), req, domain.ProjectContext{})
	require.NoError(t, err)

	stats := v.Stats()
	assert.Equal(t, int64(2), stats.TotalValidations)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.InDelta(t, 0.5, stats.CacheHitRate, 0.0001)
	assert.Equal(t, 1, stats.CacheSize)

	v.ClearCache()
	assert.Equal(t, 0, v.Stats().CacheSize)
}

func TestFingerprint(t *testing.T) {
	base := domain.FeatureRequest{Name: "Login", Description: "Email auth"}

	t.Run("identical requests share a fingerprint", func(t *testing.T) {
		assert.Equal(t, Fingerprint(base), Fingerprint(base))
	})

	t.Run("criteria change the fingerprint", func(t *testing.T) {
		withCriteria := base
		withCriteria.AcceptanceCriteria = []string{"must support SSO"}
		assert.NotEqual(t, Fingerprint(base), Fingerprint(withCriteria))
	})

	t.Run("field boundaries do not collide", func(t *testing.T) {
		a := domain.FeatureRequest{Name: "ab", Description: "c"}
		b := domain.FeatureRequest{Name: "a", Description: "bc"}
		assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	})

	t.Run("priority does not affect the fingerprint", func(t *testing.T) {
		high := base
		high.Priority = domain.PriorityHigh
		assert.Equal(t, Fingerprint(base), Fingerprint(high))
	})
}
