package validation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/logger"
	"github.com/mvpagent/mvpagent/internal/ports"
)

// MaxBatchSize caps how many features a single batch call may carry.
const MaxBatchSize = 10

// ErrBatchTooLarge is returned when a batch exceeds MaxBatchSize.
var ErrBatchTooLarge = fmt.Errorf("batch exceeds maximum of %d features", MaxBatchSize)

// Model request parameters for analysis calls. Low temperature keeps
// scoring consistent across runs.
const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 1500
)

// Validator orchestrates feature validation: input checking, memo lookup,
// prompt construction, the external model call, parsing, and decision
// policy. Concurrent validations of the same fingerprint are collapsed into
// a single in-flight model request.
type Validator struct {
	llm      ports.LLMClient
	cache    ports.ResultCache
	log      *logger.Logger
	metrics  ports.MetricsCollector
	validate *validator.Validate
	group    singleflight.Group

	totalValidations atomic.Int64
	cacheHits        atomic.Int64
}

// Stats is a point-in-time snapshot of validation activity.
type Stats struct {
	TotalValidations int64   `json:"total_validations"`
	CacheHits        int64   `json:"cache_hits"`
	CacheHitRate     float64 `json:"cache_hit_rate"`
	CacheSize        int     `json:"cache_size"`
}

// NewValidator wires a validator from its collaborators. The metrics
// collector may be nil; all other collaborators are required.
func NewValidator(
	llm ports.LLMClient,
	cache ports.ResultCache,
	log *logger.Logger,
	metrics ports.MetricsCollector,
) *Validator {
	return &Validator{
		llm:      llm,
		cache:    cache,
		log:      log,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// ValidateFeature evaluates a single feature request. Identical requests
// (by fingerprint) are served from the memo without contacting the model;
// failures are returned to the caller and never cached.
func (v *Validator) ValidateFeature(
	ctx context.Context,
	req domain.FeatureRequest,
	projCtx domain.ProjectContext,
) (domain.ValidationResponse, error) {
	if err := v.checkRequest(req); err != nil {
		return domain.ValidationResponse{}, err
	}

	v.totalValidations.Add(1)
	fingerprint := Fingerprint(req)

	if result, ok := v.cache.Get(fingerprint); ok {
		v.cacheHits.Add(1)
		v.count("validation_cache_hits", nil)
		v.log.Debug("validation served from cache", "feature", req.Name)
		return domain.ValidationResponse{
			Feature:   req,
			Result:    result,
			Timestamp: time.Now().UTC(),
			Cached:    true,
		}, nil
	}

	start := time.Now()
	shared, err, _ := v.group.Do(fingerprint, func() (any, error) {
		return v.analyze(ctx, req, projCtx, fingerprint)
	})
	if err != nil {
		v.count("validation_failures", map[string]string{"feature": req.Name})
		return domain.ValidationResponse{}, err
	}

	if v.metrics != nil {
		v.metrics.RecordLatency("validate_feature", time.Since(start), map[string]string{
			"model": v.llm.GetModel(),
		})
	}

	result := shared.(domain.ValidationResult)
	v.log.Info("feature validated",
		"feature", req.Name,
		"decision", string(result.Decision),
		"overall_score", result.Score.Overall,
	)

	return domain.ValidationResponse{
		Feature:   req,
		Result:    result,
		Timestamp: time.Now().UTC(),
		Cached:    false,
	}, nil
}

// analyze performs the uncached validation path: prompt, model call, parse,
// memoize. Only successful results reach the cache.
func (v *Validator) analyze(
	ctx context.Context,
	req domain.FeatureRequest,
	projCtx domain.ProjectContext,
	fingerprint string,
) (domain.ValidationResult, error) {
	prompt, err := BuildAnalysisPrompt(req, projCtx)
	if err != nil {
		return domain.ValidationResult{}, err
	}

	response, err := v.llm.Complete(ctx, prompt, map[string]any{
		"temperature": analysisTemperature,
		"max_tokens":  analysisMaxTokens,
	})
	if err != nil {
		return domain.ValidationResult{}, fmt.Errorf("analyzing feature %q: %w", req.Name, err)
	}

	result, err := ParseAnalysis(response)
	if err != nil {
		return domain.ValidationResult{}, err
	}

	v.cache.Set(fingerprint, result)
	return result, nil
}

// ValidateBatch evaluates up to MaxBatchSize features concurrently. The
// whole batch fails if any single validation fails; responses preserve
// request order.
func (v *Validator) ValidateBatch(
	ctx context.Context,
	reqs []domain.FeatureRequest,
	projCtx domain.ProjectContext,
) ([]domain.ValidationResponse, error) {
	if len(reqs) == 0 {
		return nil, errors.New("batch must contain at least one feature")
	}
	if len(reqs) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	responses := make([]domain.ValidationResponse, len(reqs))
	g, gctx := errgroup.WithContext(ctx)

	for i, req := range reqs {
		g.Go(func() error {
			resp, err := v.ValidateFeature(gctx, req, projCtx)
			if err != nil {
				return err
			}
			responses[i] = resp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// Stats returns a snapshot of validation counters and cache occupancy.
func (v *Validator) Stats() Stats {
	total := v.totalValidations.Load()
	hits := v.cacheHits.Load()

	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		TotalValidations: total,
		CacheHits:        hits,
		CacheHitRate:     hitRate,
		CacheSize:        v.cache.Len(),
	}
}

// ClearCache drops all memoized results.
func (v *Validator) ClearCache() {
	v.cache.Clear()
	v.log.Info("validation cache cleared")
}

// checkRequest rejects structurally invalid requests before any external
// call is attempted.
func (v *Validator) checkRequest(req domain.FeatureRequest) error {
	if req.Name == "" {
		return domain.ErrEmptyFeatureName
	}
	if req.Description == "" {
		return domain.ErrEmptyFeatureDescription
	}
	if err := v.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid feature request: %w", err)
	}
	return nil
}

func (v *Validator) count(metric string, labels map[string]string) {
	if v.metrics != nil {
		v.metrics.RecordCounter(metric, 1, labels)
	}
}
