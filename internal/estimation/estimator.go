// Package estimation computes deterministic effort estimates for features
// and projects from a catalog of known feature types, technology
// multipliers, and team characteristics. No external model is involved;
// identical inputs always produce identical estimates.
package estimation

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/logger"
)

// fuzzyMatchThreshold is the minimum similarity for a near-miss keyword or
// technology name to count as a match.
const fuzzyMatchThreshold = 0.8

// Estimate is the full effort breakdown for a single feature.
type Estimate struct {
	BaseEstimateHours     float64            `json:"base_estimate_hours"`
	TechStackMultiplier   float64            `json:"tech_stack_multiplier"`
	ComplexityFactor      float64            `json:"complexity_factor"`
	TeamExperienceFactor  float64            `json:"team_experience_factor"`
	IntegrationComplexity float64            `json:"integration_complexity"`
	FinalEstimateHours    float64            `json:"final_estimate_hours"`
	FinalEstimateWeeks    float64            `json:"final_estimate_weeks"`
	ConfidenceLevel       float64            `json:"confidence_level"`
	Breakdown             map[string]float64 `json:"breakdown"`
}

// FeatureEstimate pairs a feature with its estimate inside a project
// rollup.
type FeatureEstimate struct {
	FeatureID   uuid.UUID `json:"feature_id"`
	FeatureName string    `json:"feature_name"`
	Estimate    Estimate  `json:"estimate"`
}

// ProjectEstimate is the project-level effort rollup across approved and
// in-development features, with overhead and team velocity applied.
type ProjectEstimate struct {
	TotalFeatures             int               `json:"total_features"`
	EstimatedFeatures         int               `json:"estimated_features"`
	TotalEffortHours          float64           `json:"total_effort_hours"`
	TotalEffortWeeks          float64           `json:"total_effort_weeks"`
	TotalWithOverheadHours    float64           `json:"total_with_overhead_hours"`
	TotalWithOverheadWeeks    float64           `json:"total_with_overhead_weeks"`
	TeamVelocityAdjustedWeeks float64           `json:"team_velocity_adjusted_weeks"`
	TeamVelocityFactor        float64           `json:"team_velocity_factor"`
	OverheadFactor            float64           `json:"overhead_factor"`
	FeatureEstimates          []FeatureEstimate `json:"feature_estimates"`
}

// Estimator computes effort estimates. It is stateless and safe for
// concurrent use.
type Estimator struct {
	log *logger.Logger
}

// NewEstimator creates an estimator.
func NewEstimator(log *logger.Logger) *Estimator {
	return &Estimator{log: log}
}

// EstimateFeature computes the effort estimate for one feature in the
// context of its project.
func (e *Estimator) EstimateFeature(feature domain.Feature, project domain.Project) Estimate {
	baseHours := baseEstimate(feature)
	techMultiplier := techStackMultiplier(project.TechStack)
	complexityFactor := complexityFactorFor(feature)
	experienceFactor := lookupFactor(experienceMultipliers, string(project.TeamExperience), 1.0)
	integrationComplexity := integrationComplexityFor(feature, project.TechStack)

	finalHours := baseHours * techMultiplier * complexityFactor * experienceFactor * integrationComplexity
	finalWeeks := finalHours / hoursPerWeek

	// Each step's impact is the marginal hours it adds on top of the
	// factors applied before it.
	breakdown := map[string]float64{
		"base_estimate":     baseHours,
		"tech_stack_impact": baseHours * (techMultiplier - 1),
		"complexity_impact": baseHours * techMultiplier * (complexityFactor - 1),
		"experience_impact": baseHours * techMultiplier * complexityFactor * (experienceFactor - 1),
		"integration_impact": baseHours * techMultiplier * complexityFactor * experienceFactor *
			(integrationComplexity - 1),
	}

	return Estimate{
		BaseEstimateHours:     baseHours,
		TechStackMultiplier:   techMultiplier,
		ComplexityFactor:      complexityFactor,
		TeamExperienceFactor:  experienceFactor,
		IntegrationComplexity: integrationComplexity,
		FinalEstimateHours:    round1(finalHours),
		FinalEstimateWeeks:    round1(finalWeeks),
		ConfidenceLevel:       confidenceFor(feature, project),
		Breakdown:             breakdown,
	}
}

// EstimateProject rolls up estimates across a project's approved and
// in-development features, then applies overhead and team velocity.
func (e *Estimator) EstimateProject(features []domain.Feature, project domain.Project) ProjectEstimate {
	var totalHours, totalWeeks float64
	estimates := make([]FeatureEstimate, 0, len(features))

	for _, feature := range features {
		if feature.Status != domain.FeatureStatusApproved && feature.Status != domain.FeatureStatusInDevelopment {
			continue
		}
		est := e.EstimateFeature(feature, project)
		estimates = append(estimates, FeatureEstimate{
			FeatureID:   feature.ID,
			FeatureName: feature.Name,
			Estimate:    est,
		})
		totalHours += est.FinalEstimateHours
		totalWeeks += est.FinalEstimateWeeks
	}

	velocity := teamVelocity(project)

	if e.log != nil {
		e.log.Debug("project effort estimated",
			"project", project.Name,
			"estimated_features", len(estimates),
			"total_hours", totalHours,
		)
	}

	return ProjectEstimate{
		TotalFeatures:             len(features),
		EstimatedFeatures:         len(estimates),
		TotalEffortHours:          round1(totalHours),
		TotalEffortWeeks:          round1(totalWeeks),
		TotalWithOverheadHours:    round1(totalHours * overheadMultiplier),
		TotalWithOverheadWeeks:    round1(totalWeeks * overheadMultiplier),
		TeamVelocityAdjustedWeeks: round1(totalWeeks * overheadMultiplier / velocity),
		TeamVelocityFactor:        velocity,
		OverheadFactor:            overheadMultiplier,
		FeatureEstimates:          estimates,
	}
}

// baseEstimate picks the base hours for a feature: a catalog match on the
// name or description wins, then a fuzzy match on the name absorbs typos,
// and finally description length decides.
func baseEstimate(feature domain.Feature) float64 {
	name := strings.ToLower(feature.Name)
	desc := strings.ToLower(feature.Description)

	for _, entry := range baseEstimateCatalog {
		if strings.Contains(name, entry.keyword) || strings.Contains(desc, entry.keyword) {
			return entry.hours
		}
	}

	// Near-miss spellings of a catalog keyword still match.
	for _, entry := range baseEstimateCatalog {
		if similarity(name, entry.keyword) >= fuzzyMatchThreshold {
			return entry.hours
		}
	}

	switch {
	case len(feature.Description) < simpleDescriptionMax:
		return fallbackSimpleHours
	case len(feature.Description) < mediumDescriptionMax:
		return fallbackMediumHours
	default:
		return fallbackComplexHours
	}
}

// techStackMultiplier combines the primary technology of each layer with a
// breadth penalty for sprawling stacks.
func techStackMultiplier(stack domain.TechStack) float64 {
	multiplier := 1.0

	if len(stack.Frontend) > 0 {
		multiplier *= lookupTech(frontendMultipliers, stack.Frontend[0])
	}
	if len(stack.Backend) > 0 {
		multiplier *= lookupTech(backendMultipliers, stack.Backend[0])
	}
	if len(stack.Database) > 0 {
		multiplier *= lookupTech(databaseMultipliers, stack.Database[0])
	}

	switch size := stack.Size(); {
	case size > sprawlingStackSize:
		multiplier *= sprawlingStackFactor
	case size > broadStackSize:
		multiplier *= broadStackPenalty
	}

	return multiplier
}

// complexityFactorFor scales effort by signal words in the description plus
// the breadth of acceptance criteria and dependencies, capped so no single
// feature explodes the estimate.
func complexityFactorFor(feature domain.Feature) float64 {
	desc := strings.ToLower(feature.Description)
	factor := 1.0

	for _, kw := range complexityKeywords {
		if strings.Contains(desc, kw.keyword) {
			factor *= kw.factor
			break // First match only; factors never compound.
		}
	}

	if len(feature.AcceptanceCriteria) > 5 {
		factor *= 1.2
	}
	if feature.Validation != nil && len(feature.Validation.Dependencies) > 2 {
		factor *= 1.3
	}

	return math.Min(factor, maxComplexityFactor)
}

// integrationComplexityFor combines multipliers of the configured managed
// integrations with description-driven adjustments.
func integrationComplexityFor(feature domain.Feature, stack domain.TechStack) float64 {
	complexity := 1.0

	for _, integration := range stack.Integrations {
		complexity *= lookupTech(integrationMultipliers, integration)
	}

	desc := strings.ToLower(feature.Description)
	switch {
	case strings.Contains(desc, "payment") || strings.Contains(desc, "stripe"):
		// Payment providers are well documented.
		complexity *= 0.9
	case strings.Contains(desc, "auth") && stackHas(stack.Integrations, "auth0"):
		complexity *= 0.8
	case strings.Contains(desc, "email"):
		complexity *= 0.7
	case strings.Contains(desc, "api") && strings.Contains(desc, "integration"):
		complexity *= 1.4
	}

	return complexity
}

// confidenceFor expresses how much the estimate can be trusted, from the
// definition quality of the feature and the team's experience.
func confidenceFor(feature domain.Feature, project domain.Project) float64 {
	confidence := 0.8

	if len(feature.AcceptanceCriteria) > 2 {
		confidence += 0.1
	}
	if feature.UserStory != "" {
		confidence += 0.05
	}

	switch project.TeamExperience {
	case domain.ExperienceAdvanced:
		confidence += 0.1
	case domain.ExperienceExpert:
		confidence += 0.15
	case domain.ExperienceBeginner:
		confidence -= 0.2
	}

	desc := strings.ToLower(feature.Description)
	switch {
	case strings.Contains(desc, "machine learning"):
		confidence -= 0.2
	case strings.Contains(desc, "ai"):
		confidence -= 0.15
	}

	if stackHas(project.TechStack.Frontend, "react") {
		confidence += 0.05
	}
	if stackHas(project.TechStack.Backend, "node.js") {
		confidence += 0.05
	}

	return math.Min(math.Max(confidence, minConfidence), maxConfidence)
}

// teamVelocity scales delivery speed by team size and experience. Small
// teams move at baseline, mid-size teams parallelize well, and large teams
// pay coordination overhead.
func teamVelocity(project domain.Project) float64 {
	velocity := 1.0

	switch size := project.TeamSize; {
	case size == 1:
		velocity = 0.8
	case size > 1 && size <= 3:
		velocity = 1.0
	case size > 3 && size <= 6:
		velocity = 1.2
	case size > 6:
		velocity = 0.9
	}

	return velocity * lookupFactor(experienceVelocity, string(project.TeamExperience), 1.0)
}

// lookupTech finds the multiplier for a technology name, tolerating case
// differences, containment (e.g. "React 18" matches "react"), and close
// spellings.
func lookupTech(table map[string]float64, tech string) float64 {
	normalized := strings.ToLower(strings.TrimSpace(tech))
	if factor, ok := table[normalized]; ok {
		return factor
	}

	for key, factor := range table {
		if strings.Contains(normalized, key) || strings.Contains(key, normalized) {
			return factor
		}
	}

	for key, factor := range table {
		if similarity(normalized, key) >= fuzzyMatchThreshold {
			return factor
		}
	}

	return 1.0
}

// similarity normalizes the Levenshtein edit distance into [0, 1], where 1.0
// means identical. Rune counts keep multi-byte characters consistent with
// the distance, which also operates on runes.
func similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

func lookupFactor(table map[string]float64, key string, fallback float64) float64 {
	if factor, ok := table[strings.ToLower(key)]; ok {
		return factor
	}
	return fallback
}

func stackHas(entries []string, name string) bool {
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry), name) {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
