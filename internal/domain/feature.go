package domain

import (
	"time"

	"github.com/google/uuid"
)

// Priority expresses how important a feature is to its project.
type Priority string

// Recognized feature priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is a recognized priority. The empty string is not
// valid; callers that allow omission should default to PriorityMedium first.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// FeatureStatus is the lifecycle state of a feature within its project.
// Features are never physically deleted while their project exists; they
// move through statuses instead.
type FeatureStatus string

// Feature lifecycle states.
const (
	FeatureStatusPending       FeatureStatus = "pending"
	FeatureStatusApproved      FeatureStatus = "approved"
	FeatureStatusRejected      FeatureStatus = "rejected"
	FeatureStatusInDevelopment FeatureStatus = "in-development"
	FeatureStatusCompleted     FeatureStatus = "completed"
)

// Valid reports whether s is a recognized feature status.
func (s FeatureStatus) Valid() bool {
	switch s {
	case FeatureStatusPending, FeatureStatusApproved, FeatureStatusRejected,
		FeatureStatusInDevelopment, FeatureStatusCompleted:
		return true
	}
	return false
}

// StatusForDecision maps a validation decision to the feature status it
// implies: accepted features are approved, rejected features are rejected,
// and everything in between stays pending for human review.
func StatusForDecision(d Decision) FeatureStatus {
	switch d {
	case DecisionAccept:
		return FeatureStatusApproved
	case DecisionReject:
		return FeatureStatusRejected
	default:
		return FeatureStatusPending
	}
}

// Feature is a discrete unit of proposed product functionality owned by a
// project. Its lifetime is bounded by the owning project's lifetime.
type Feature struct {
	ID                 uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ProjectID          uuid.UUID         `json:"project_id" gorm:"type:uuid;index"`
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	UserStory          string            `json:"user_story,omitempty"`
	AcceptanceCriteria []string          `json:"acceptance_criteria,omitempty" gorm:"serializer:json"`
	Priority           Priority          `json:"priority"`
	Status             FeatureStatus     `json:"status"`
	Validation         *ValidationResult `json:"validation,omitempty" gorm:"serializer:json"`
	EstimatedWeeks     float64           `json:"estimated_weeks,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewFeature creates a pending feature for the given project from a request.
// Missing priority defaults to medium.
func NewFeature(projectID uuid.UUID, req FeatureRequest) Feature {
	priority := req.Priority
	if !priority.Valid() {
		priority = PriorityMedium
	}

	now := time.Now().UTC()
	return Feature{
		ID:                 uuid.New(),
		ProjectID:          projectID,
		Name:               req.Name,
		Description:        req.Description,
		UserStory:          req.UserStory,
		AcceptanceCriteria: req.AcceptanceCriteria,
		Priority:           priority,
		Status:             FeatureStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// ApplyValidation records a validation result on the feature, superseding
// any previous result, and moves the status according to the decision.
func (f *Feature) ApplyValidation(result ValidationResult) {
	f.Validation = &result
	f.Status = StatusForDecision(result.Decision)
	f.UpdatedAt = time.Now().UTC()
}
