package domain

import (
	"errors"
	"fmt"
)

// Input validation errors, rejected before any external call is made.
var (
	// ErrEmptyFeatureName indicates a validation request without a name.
	ErrEmptyFeatureName = errors.New("feature name cannot be empty")

	// ErrEmptyFeatureDescription indicates a validation request without a
	// description.
	ErrEmptyFeatureDescription = errors.New("feature description cannot be empty")

	// ErrProjectNotFound indicates that a referenced project does not exist.
	ErrProjectNotFound = errors.New("project not found")

	// ErrFeatureNotFound indicates that a referenced feature does not exist.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrNoApprovedFeatures indicates that MVP generation was requested for
	// a project with no features eligible for inclusion.
	ErrNoApprovedFeatures = errors.New("no approved features to build an MVP from")
)

// ValidationError aggregates one or more validation failures for an entity.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the individual validation failure messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError appends a validation failure message.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors reports whether any failure has been recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates an empty ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}
