package domain

import "time"

// ValidationResult is the outcome of validating a single feature. A feature
// holds at most one result at a time; re-validation supersedes the previous
// result rather than mutating it.
type ValidationResult struct {
	// Decision is derived from Score via DecisionFor, never hand-set.
	Decision Decision `json:"decision"`

	// Score is the four-dimension assessment the decision was derived from.
	Score Score `json:"score"`

	// Rationale is the model's explanation for the scores.
	Rationale string `json:"rationale"`

	// Alternatives lists simpler implementations suggested when the
	// feature is too complex. Empty when the model suggested none.
	Alternatives []string `json:"alternatives"`

	// Dependencies lists technical prerequisites the model identified.
	Dependencies []string `json:"dependencies"`

	// TimelineImpact is the model's estimate of development time impact.
	TimelineImpact string `json:"timeline_impact"`

	// Confidence expresses how much the analysis can be trusted (0.0-1.0),
	// computed from the richness of the parsed response.
	Confidence float64 `json:"confidence"`
}

// FeatureRequest is the inbound shape for a validation call. Name and
// Description are required; validation fails before any external call when
// either is empty.
type FeatureRequest struct {
	Name               string   `json:"feature_name" validate:"required,min=1"`
	Description        string   `json:"feature_description" validate:"required,min=1"`
	UserStory          string   `json:"user_story,omitempty"`
	AcceptanceCriteria []string `json:"acceptance_criteria,omitempty"`
	Priority           Priority `json:"priority,omitempty"`
}

// ProjectContext carries the optional project information that shapes the
// analysis prompt: the industry, who the product is for, and what it is
// built with.
type ProjectContext struct {
	Industry    string    `json:"industry,omitempty"`
	TargetUsers string    `json:"target_users,omitempty"`
	TechStack   TechStack `json:"tech_stack,omitempty"`
}

// ValidationResponse is the outbound payload for a validation call.
type ValidationResponse struct {
	Feature   FeatureRequest   `json:"feature"`
	Result    ValidationResult `json:"result"`
	Timestamp time.Time        `json:"timestamp"`
	Cached    bool             `json:"cached"`
}
