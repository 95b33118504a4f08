package domain

import (
	"time"

	"github.com/google/uuid"
)

// TeamExperience is the self-reported experience level of the team building
// the project. It scales effort estimates.
type TeamExperience string

// Recognized team experience levels.
const (
	ExperienceBeginner     TeamExperience = "beginner"
	ExperienceIntermediate TeamExperience = "intermediate"
	ExperienceAdvanced     TeamExperience = "advanced"
	ExperienceExpert       TeamExperience = "expert"
)

// Valid reports whether e is a recognized experience level.
func (e TeamExperience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced, ExperienceExpert:
		return true
	}
	return false
}

// TechStack groups the technology selections of a project by layer. Values
// are free-form tags; the effort estimator recognizes a documented subset
// and treats everything else as neutral.
type TechStack struct {
	Frontend     []string `json:"frontend,omitempty"`
	Backend      []string `json:"backend,omitempty"`
	Database     []string `json:"database,omitempty"`
	Cloud        []string `json:"cloud,omitempty"`
	Integrations []string `json:"integrations,omitempty"`
}

// Size returns the total number of selected technologies across all layers.
func (t TechStack) Size() int {
	return len(t.Frontend) + len(t.Backend) + len(t.Database) +
		len(t.Cloud) + len(t.Integrations)
}

// IsZero reports whether no technology has been selected.
func (t TechStack) IsZero() bool { return t.Size() == 0 }

// Project is a container for features under evaluation. It carries the
// context (industry, audience, stack, team) that shapes both the analysis
// prompt and the effort estimates.
type Project struct {
	ID             uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Industry       string         `json:"industry"`
	TargetUsers    string         `json:"target_users"`
	ReferenceURL   string         `json:"reference_url,omitempty"`
	TechStack      TechStack      `json:"tech_stack" gorm:"serializer:json"`
	TeamSize       int            `json:"team_size,omitempty"`
	TeamExperience TeamExperience `json:"team_experience"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProjectCreate is the inbound shape for creating a project.
type ProjectCreate struct {
	Name           string         `json:"name" validate:"required,min=1"`
	Description    string         `json:"description" validate:"required,min=1"`
	Industry       string         `json:"industry"`
	TargetUsers    string         `json:"target_users"`
	ReferenceURL   string         `json:"reference_url,omitempty" validate:"omitempty,url"`
	TechStack      TechStack      `json:"tech_stack"`
	TeamSize       int            `json:"team_size,omitempty" validate:"omitempty,min=1"`
	TeamExperience TeamExperience `json:"team_experience,omitempty"`
}

// NewProject creates a project from a create request. Missing team
// experience defaults to intermediate.
func NewProject(req ProjectCreate) Project {
	experience := req.TeamExperience
	if !experience.Valid() {
		experience = ExperienceIntermediate
	}

	now := time.Now().UTC()
	return Project{
		ID:             uuid.New(),
		Name:           req.Name,
		Description:    req.Description,
		Industry:       req.Industry,
		TargetUsers:    req.TargetUsers,
		ReferenceURL:   req.ReferenceURL,
		TechStack:      req.TechStack,
		TeamSize:       req.TeamSize,
		TeamExperience: experience,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Context extracts the prompt-relevant slice of the project.
func (p Project) Context() ProjectContext {
	return ProjectContext{
		Industry:    p.Industry,
		TargetUsers: p.TargetUsers,
		TechStack:   p.TechStack,
	}
}
