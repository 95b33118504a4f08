package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvpagent/mvpagent/infrastructure/llm"
	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/estimation"
	"github.com/mvpagent/mvpagent/internal/handlers"
	"github.com/mvpagent/mvpagent/internal/logger"
	"github.com/mvpagent/mvpagent/internal/mvp"
	"github.com/mvpagent/mvpagent/internal/server"
	"github.com/mvpagent/mvpagent/internal/storage"
	"github.com/mvpagent/mvpagent/internal/testutils"
	"github.com/mvpagent/mvpagent/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const acceptableAnalysis = `{"core_mvp_score": 9, "complexity_score": 3, "user_value_score": 8,
	"rationale": "Login is table stakes for any account-based product.",
	"alternatives": [], "dependencies": [], "timeline_impact": "1 week"}`

func newTestServer(client *testutils.MockLLMClient) *gin.Engine {
	log := logger.NewNop()
	v := validation.NewValidator(client, validation.NewLRUCache(validation.DefaultCacheCapacity), log, nil)
	est := estimation.NewEstimator(log)
	gen := mvp.NewGenerator(est, log)

	features := storage.NewMemoryFeatureStore()
	projects := storage.NewMemoryProjectStore(features)

	return server.NewRouter(server.RouterConfig{
		Validation:  handlers.NewValidationHandler(v, log),
		Projects:    handlers.NewProjectHandler(projects, features, v, est, gen, log),
		CORSOrigins: []string{"*"},
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func createProject(t *testing.T, router *gin.Engine) domain.Project {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/api/v1/projects", domain.ProjectCreate{
		Name:        "Craftly",
		Description: "storefront builder for artisans",
		Industry:    "e-commerce",
		TargetUsers: "small business owners",
		TechStack: domain.TechStack{
			Frontend: []string{"React"},
			Backend:  []string{"Node.js"},
			Database: []string{"PostgreSQL"},
		},
		TeamSize:       3,
		TeamExperience: domain.ExperienceIntermediate,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var project domain.Project
	decode(t, w, &project)
	return project
}

func TestHealth(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))

	w := doRequest(t, router, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	decode(t, w, &resp)
	assert.Equal(t, "healthy", resp["status"])
}

func TestValidateFeature(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))

	t.Run("success", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/validate-feature", gin.H{
			"feature_name":        "User Login",
			"feature_description": "Email and password authentication",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp domain.ValidationResponse
		decode(t, w, &resp)
		assert.Equal(t, domain.DecisionAccept, resp.Result.Decision)
		assert.InDelta(t, 8.15, resp.Result.Score.Overall, 0.001)
	})

	t.Run("missing description", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/validate-feature", gin.H{
			"feature_name": "Nameless",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp handlers.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, "INVALID_REQUEST", resp.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/validate-feature",
			bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidateFeature_UpstreamErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "rate limited",
			err:        llm.NewProviderError("anthropic", llm.ErrorTypeRateLimit, 429, "throttled", nil),
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "RATE_LIMITED",
		},
		{
			name:       "auth failure",
			err:        llm.NewProviderError("anthropic", llm.ErrorTypeAuthentication, 401, "bad key", nil),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "PROVIDER_AUTH",
		},
		{
			name:       "timeout",
			err:        llm.NewProviderError("anthropic", llm.ErrorTypeTimeout, 0, "deadline", nil),
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   "UPSTREAM_TIMEOUT",
		},
		{
			name:       "server error",
			err:        llm.NewProviderError("anthropic", llm.ErrorTypeServerError, 500, "boom", nil),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis)
			client.Err = tt.err
			router := newTestServer(client)

			w := doRequest(t, router, http.MethodPost, "/api/v1/validate-feature", gin.H{
				"feature_name":        "Login",
				"feature_description": "auth",
			})
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp handlers.ErrorResponse
			decode(t, w, &resp)
			assert.Equal(t, tt.wantCode, resp.Error)
		})
	}
}

func TestValidateFeature_UnparseableResponse(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", "no JSON here"))

	w := doRequest(t, router, http.MethodPost, "/api/v1/validate-feature", gin.H{
		"feature_name":        "Login",
		"feature_description": "auth",
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp handlers.ErrorResponse
	decode(t, w, &resp)
	assert.Equal(t, "UNPARSEABLE_RESPONSE", resp.Error)
}

func TestValidateBatch(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))

	t.Run("success", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/validate-batch", gin.H{
			"features": []gin.H{
				{"feature_name": "Login", "feature_description": "auth"},
				{"feature_name": "Search", "feature_description": "full-text"},
			},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Results       []domain.ValidationResponse `json:"results"`
			TotalFeatures int                         `json:"total_features"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 2, resp.TotalFeatures)
		require.Len(t, resp.Results, 2)
		assert.Equal(t, "Login", resp.Results[0].Feature.Name)
	})

	t.Run("oversized batch", func(t *testing.T) {
		features := make([]gin.H, validation.MaxBatchSize+1)
		for i := range features {
			features[i] = gin.H{"feature_name": "f", "feature_description": "d"}
		}

		w := doRequest(t, router, http.MethodPost, "/api/v1/validate-batch", gin.H{"features": features})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestValidationStatsAndCache(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))

	w := doRequest(t, router, http.MethodPost, "/api/v1/validate-feature", gin.H{
		"feature_name":        "Login",
		"feature_description": "auth",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/validation-stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats validation.Stats
	decode(t, w, &stats)
	assert.Equal(t, int64(1), stats.TotalValidations)
	assert.Equal(t, 1, stats.CacheSize)

	w = doRequest(t, router, http.MethodDelete, "/api/v1/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/v1/validation-stats", nil)
	decode(t, w, &stats)
	assert.Equal(t, 0, stats.CacheSize)
}

func TestProjectCRUD(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))

	project := createProject(t, router)
	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.Equal(t, domain.ExperienceIntermediate, project.TeamExperience)

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/projects/"+project.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Project
		decode(t, w, &got)
		assert.Equal(t, project.ID, got.ID)
	})

	t.Run("list", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/projects", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Projects []domain.Project `json:"projects"`
			Total    int              `json:"total"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 1, resp.Total)
	})

	t.Run("update", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/api/v1/projects/"+project.ID.String(), domain.ProjectCreate{
			Name:        "Craftly Pro",
			Description: "storefront builder for artisans",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got domain.Project
		decode(t, w, &got)
		assert.Equal(t, "Craftly Pro", got.Name)
	})

	t.Run("create without required fields", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/api/v1/projects", gin.H{"name": "No description"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/projects/not-a-uuid", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing project", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/api/v1/projects/"+uuid.NewString(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doRequest(t, router, http.MethodDelete, "/api/v1/projects/"+project.ID.String(), nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(t, router, http.MethodGet, "/api/v1/projects/"+project.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFeatureEndpoints(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))
	project := createProject(t, router)
	base := "/api/v1/projects/" + project.ID.String() + "/features"

	var feature domain.Feature

	t.Run("create pending", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, base, gin.H{
			"feature_name":        "Search",
			"feature_description": "full-text product search",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		decode(t, w, &feature)
		assert.Equal(t, domain.FeatureStatusPending, feature.Status)
		assert.Nil(t, feature.Validation)
	})

	t.Run("create with inline validation", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, base+"?validate=true", gin.H{
			"feature_name":        "User Login",
			"feature_description": "Email and password authentication",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var validated domain.Feature
		decode(t, w, &validated)
		assert.Equal(t, domain.FeatureStatusApproved, validated.Status)
		require.NotNil(t, validated.Validation)
		assert.Equal(t, domain.DecisionAccept, validated.Validation.Decision)
	})

	t.Run("list", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, base, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Total int `json:"total"`
		}
		decode(t, w, &resp)
		assert.Equal(t, 2, resp.Total)
	})

	t.Run("get", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, base+"/"+feature.ID.String(), nil)
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("feature under wrong project reads as missing", func(t *testing.T) {
		other := createProject(t, router)
		w := doRequest(t, router, http.MethodGet,
			"/api/v1/projects/"+other.ID.String()+"/features/"+feature.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, base+"/"+feature.ID.String(), gin.H{
			"feature_name":        "Faceted Search",
			"feature_description": "full-text search with filters",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var got domain.Feature
		decode(t, w, &got)
		assert.Equal(t, "Faceted Search", got.Name)
	})

	t.Run("status transitions", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, base+"/"+feature.ID.String()+"/status",
			gin.H{"status": "approved"})
		require.Equal(t, http.StatusOK, w.Code)

		var got domain.Feature
		decode(t, w, &got)
		assert.Equal(t, domain.FeatureStatusApproved, got.Status)

		w = doRequest(t, router, http.MethodPut, base+"/"+feature.ID.String()+"/status",
			gin.H{"status": "shipped"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEstimateEndpoint(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))
	project := createProject(t, router)
	base := "/api/v1/projects/" + project.ID.String()

	w := doRequest(t, router, http.MethodPost, base+"/features?validate=true", gin.H{
		"feature_name":        "User Login",
		"feature_description": "Email and password authentication",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, router, http.MethodPost, base+"/estimate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var rollup estimation.ProjectEstimate
	decode(t, w, &rollup)
	assert.Equal(t, 1, rollup.TotalFeatures)
	assert.Equal(t, 1, rollup.EstimatedFeatures)
	assert.Positive(t, rollup.TotalWithOverheadHours)
}

func TestGenerateMVPEndpoint(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))
	project := createProject(t, router)
	base := "/api/v1/projects/" + project.ID.String()

	t.Run("no approved features", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, base+"/generate-mvp", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp handlers.ErrorResponse
		decode(t, w, &resp)
		assert.Equal(t, "NO_APPROVED_FEATURES", resp.Error)
	})

	t.Run("success", func(t *testing.T) {
		for _, name := range []string{"User Login", "Product Dashboard", "Checkout"} {
			w := doRequest(t, router, http.MethodPost, base+"/features?validate=true", gin.H{
				"feature_name":        name,
				"feature_description": fmt.Sprintf("%s for the storefront", name),
				"priority":            "high",
			})
			require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		}

		w := doRequest(t, router, http.MethodPost, base+"/generate-mvp", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var def domain.MVPDefinition
		decode(t, w, &def)
		assert.Equal(t, project.ID, def.ProjectID)
		assert.Len(t, def.CoreFeatures, 3)
		assert.NotEmpty(t, def.ValueProposition.Headline)
		assert.NotEmpty(t, def.UserPersonas)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestServer(testutils.NewMockLLMClient("mock-analyst-v1", acceptableAnalysis))

	w := doRequest(t, router, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
