package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserPersona sketches a representative user of the product, derived from
// the project's target-user description and approved features.
type UserPersona struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	PainPoints      []string `json:"pain_points"`
	Goals           []string `json:"goals"`
	TechSavviness   string   `json:"tech_savviness"`
	PrimaryBenefits []string `json:"primary_benefits"`
}

// CompetitiveAnalysis summarizes how the MVP positions against the market.
type CompetitiveAnalysis struct {
	DirectCompetitors            []string `json:"direct_competitors"`
	IndirectCompetitors          []string `json:"indirect_competitors"`
	MarketGaps                   []string `json:"market_gaps"`
	DifferentiationOpportunities []string `json:"differentiation_opportunities"`
	CompetitiveAdvantages        []string `json:"competitive_advantages"`
}

// ValueProposition is the business-facing articulation of why the MVP is
// worth building.
type ValueProposition struct {
	Headline         string   `json:"headline"`
	ProblemStatement string   `json:"problem_statement"`
	SolutionSummary  string   `json:"solution_summary"`
	SuccessMetrics   []string `json:"success_metrics"`
	ElevatorPitch    string   `json:"elevator_pitch"`
	Confidence       float64  `json:"confidence"`
}

// MVPDefinition is the on-demand aggregate built from a project's approved
// features. It exists only as a response payload and is never persisted.
type MVPDefinition struct {
	ID                    uuid.UUID           `json:"id"`
	ProjectID             uuid.UUID           `json:"project_id"`
	CoreFeatures          []uuid.UUID         `json:"core_features"`
	Rationale             string              `json:"rationale"`
	EstimatedEffortHours  float64             `json:"estimated_effort_hours"`
	EstimatedWeeks        float64             `json:"estimated_timeline_weeks"`
	TargetUserJourney     string              `json:"target_user_journey"`
	SuccessMetrics        []string            `json:"success_metrics"`
	ValueProposition      ValueProposition    `json:"value_proposition"`
	UserPersonas          []UserPersona       `json:"user_personas"`
	CompetitiveAnalysis   CompetitiveAnalysis `json:"competitive_analysis"`
	TechnicalRequirements []string            `json:"technical_requirements"`
	Assumptions           []string            `json:"assumptions"`
	Risks                 []string            `json:"risks"`
	DefinedAt             time.Time           `json:"defined_at"`
}
