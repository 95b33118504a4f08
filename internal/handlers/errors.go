// Package handlers contains the gin HTTP handlers for the agent's API:
// feature validation, project and feature CRUD, effort estimation, and MVP
// generation.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mvpagent/mvpagent/infrastructure/llm"
	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/validation"
)

// ErrorResponse is the error payload shape shared by every endpoint.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details map[string]any) {
	c.JSON(status, ErrorResponse{Error: code, Message: message, Details: details})
}

// respondForError maps a pipeline error onto the HTTP status and error code
// the client sees. Input problems are the client's fault (400), missing
// resources are 404, and provider failures distinguish misconfiguration
// (503), throttling (429), upstream timeouts (504), and everything else the
// upstream did wrong (502).
func respondForError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var fieldErrs validator.ValidationErrors
	var parseErr *validation.ParseError

	switch {
	case errors.Is(err, domain.ErrEmptyFeatureName),
		errors.Is(err, domain.ErrEmptyFeatureDescription),
		errors.Is(err, validation.ErrBatchTooLarge),
		errors.As(err, &validationErr),
		errors.As(err, &fieldErrs):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)

	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrFeatureNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error(), nil)

	case errors.Is(err, domain.ErrNoApprovedFeatures):
		respondError(c, http.StatusBadRequest, "NO_APPROVED_FEATURES", err.Error(), nil)

	case errors.As(err, &parseErr):
		respondError(c, http.StatusBadGateway, "UNPARSEABLE_RESPONSE",
			"the model returned a response that could not be parsed", nil)

	default:
		if errType, ok := llm.TypeOf(err); ok {
			switch errType {
			case llm.ErrorTypeAuthentication:
				respondError(c, http.StatusServiceUnavailable, "PROVIDER_AUTH",
					"the model provider rejected the configured credentials", nil)
				return
			case llm.ErrorTypeRateLimit:
				respondError(c, http.StatusTooManyRequests, "RATE_LIMITED",
					"the model provider is throttling requests", nil)
				return
			case llm.ErrorTypeTimeout:
				respondError(c, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT",
					"the model provider did not respond in time", nil)
				return
			default:
				respondError(c, http.StatusBadGateway, "UPSTREAM_ERROR",
					"the model provider request failed", nil)
				return
			}
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR",
			"an internal server error occurred", nil)
	}
}
