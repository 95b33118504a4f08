package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/logger"
	"github.com/mvpagent/mvpagent/internal/validation"
)

// Version is the API version reported by the health endpoint.
const Version = "1.0.0"

// ValidationHandler serves the standalone validation endpoints: single and
// batch feature validation plus cache introspection.
type ValidationHandler struct {
	validator *validation.Validator
	log       *logger.Logger
}

// NewValidationHandler creates the handler.
func NewValidationHandler(v *validation.Validator, log *logger.Logger) *ValidationHandler {
	return &ValidationHandler{validator: v, log: log}
}

// Health reports service liveness.
func (h *ValidationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type validateFeatureRequest struct {
	domain.FeatureRequest
	ProjectContext *domain.ProjectContext `json:"project_context,omitempty"`
}

func (r validateFeatureRequest) context() domain.ProjectContext {
	if r.ProjectContext == nil {
		return domain.ProjectContext{}
	}
	return *r.ProjectContext
}

// ValidateFeature scores a single feature for MVP inclusion.
func (h *ValidationHandler) ValidateFeature(c *gin.Context) {
	var req validateFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	resp, err := h.validator.ValidateFeature(c.Request.Context(), req.FeatureRequest, req.context())
	if err != nil {
		h.log.Warn("feature validation failed", "feature", req.Name, "error", err)
		respondForError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

type validateBatchRequest struct {
	Features       []domain.FeatureRequest `json:"features"`
	ProjectContext *domain.ProjectContext  `json:"project_context,omitempty"`
}

// ValidateBatch scores up to validation.MaxBatchSize features concurrently.
func (h *ValidationHandler) ValidateBatch(c *gin.Context) {
	var req validateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	projCtx := domain.ProjectContext{}
	if req.ProjectContext != nil {
		projCtx = *req.ProjectContext
	}

	start := time.Now()
	results, err := h.validator.ValidateBatch(c.Request.Context(), req.Features, projCtx)
	if err != nil {
		h.log.Warn("batch validation failed", "features", len(req.Features), "error", err)
		respondForError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"results":         results,
		"total_features":  len(results),
		"processing_time": time.Since(start).Seconds(),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// Stats reports validation counters and cache state.
func (h *ValidationHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.validator.Stats())
}

// ClearCache empties the validation result cache.
func (h *ValidationHandler) ClearCache(c *gin.Context) {
	h.validator.ClearCache()
	c.JSON(http.StatusOK, gin.H{
		"message":   "Cache cleared successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
