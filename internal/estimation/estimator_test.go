package estimation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/logger"
)

func standardProject() domain.Project {
	return domain.Project{
		Name:           "Invoicing App",
		TeamSize:       3,
		TeamExperience: domain.ExperienceIntermediate,
		TechStack: domain.TechStack{
			Frontend: []string{"React"},
			Backend:  []string{"Node.js"},
			Database: []string{"PostgreSQL"},
		},
	}
}

func TestEstimateFeature_CatalogMatch(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	feature := domain.Feature{
		Name:        "User Authentication",
		Description: "Basic login with password",
	}

	est := e.EstimateFeature(feature, standardProject())

	assert.Equal(t, 40.0, est.BaseEstimateHours)
	// "basic" is the first complexity keyword hit.
	assert.InDelta(t, 0.8, est.ComplexityFactor, 0.0001)
	assert.InDelta(t, 1.0, est.TechStackMultiplier, 0.0001)
	assert.InDelta(t, 1.0, est.TeamExperienceFactor, 0.0001)
	assert.InDelta(t, 32.0, est.FinalEstimateHours, 0.001)
	assert.InDelta(t, 0.8, est.FinalEstimateWeeks, 0.001)
}

func TestEstimateFeature_FuzzyCatalogMatch(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	// A close misspelling of "authentication" still hits the catalog.
	feature := domain.Feature{
		Name:        "authentification",
		Description: "Let people sign in",
	}

	est := e.EstimateFeature(feature, standardProject())
	assert.Equal(t, 40.0, est.BaseEstimateHours)
}

func TestEstimateFeature_DescriptionLengthFallback(t *testing.T) {
	e := NewEstimator(logger.NewNop())
	project := standardProject()

	tests := []struct {
		name      string
		desc      string
		wantHours float64
	}{
		{name: "short description", desc: "Show a greeting", wantHours: fallbackSimpleHours},
		{
			name: "medium description",
			desc: "Allow members to bookmark their favorite vendors so they can quickly reorder from them later on",
			wantHours: fallbackMediumHours,
		},
		{
			name: "long description",
			desc: "Allow members to bookmark their favorite vendors so they can quickly reorder from them later. " +
				"Bookmarks should sync across devices and be sortable by most recently used, with an undo affordance.",
			wantHours: fallbackComplexHours,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feature := domain.Feature{Name: "Vendor bookmarks", Description: tt.desc}
			est := e.EstimateFeature(feature, project)
			assert.Equal(t, tt.wantHours, est.BaseEstimateHours)
		})
	}
}

func TestEstimateFeature_ExperienceScaling(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	feature := domain.Feature{
		Name:        "Password Reset",
		Description: "Standard reset flow over mail tokens",
	}

	tests := []struct {
		experience domain.TeamExperience
		factor     float64
	}{
		{domain.ExperienceBeginner, 1.8},
		{domain.ExperienceIntermediate, 1.0},
		{domain.ExperienceAdvanced, 0.7},
		{domain.ExperienceExpert, 0.5},
	}

	for _, tt := range tests {
		t.Run(string(tt.experience), func(t *testing.T) {
			project := standardProject()
			project.TeamExperience = tt.experience

			est := e.EstimateFeature(feature, project)
			assert.InDelta(t, tt.factor, est.TeamExperienceFactor, 0.0001)
		})
	}
}

func TestEstimateFeature_TechStackMultipliers(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	feature := domain.Feature{Name: "Dashboard", Description: "Standard overview page"}

	t.Run("heavier stack raises the estimate", func(t *testing.T) {
		light := standardProject()

		heavy := standardProject()
		heavy.TechStack = domain.TechStack{
			Frontend: []string{"Angular"},
			Backend:  []string{"ASP.NET Core"},
			Database: []string{"PostgreSQL"},
		}

		lightEst := e.EstimateFeature(feature, light)
		heavyEst := e.EstimateFeature(feature, heavy)
		assert.Greater(t, heavyEst.FinalEstimateHours, lightEst.FinalEstimateHours)
		assert.InDelta(t, 1.3*1.4, heavyEst.TechStackMultiplier, 0.0001)
	})

	t.Run("broad stack pays a penalty", func(t *testing.T) {
		project := standardProject()
		project.TechStack.Cloud = []string{"AWS", "Cloudflare"}
		project.TechStack.Integrations = []string{"Stripe"}
		// Six technologies total crosses the breadth threshold.
		require.Greater(t, project.TechStack.Size(), broadStackSize)

		est := e.EstimateFeature(feature, project)
		assert.InDelta(t, broadStackPenalty, est.TechStackMultiplier, 0.0001)
	})

	t.Run("unknown technologies are neutral", func(t *testing.T) {
		project := standardProject()
		project.TechStack.Frontend = []string{"HyperCard"}

		est := e.EstimateFeature(feature, project)
		assert.InDelta(t, 1.0, est.TechStackMultiplier, 0.0001)
	})
}

func TestEstimateFeature_ComplexityCap(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	feature := domain.Feature{
		Name:        "Forecasting",
		Description: "machine learning based demand forecasting",
		AcceptanceCriteria: []string{
			"a", "b", "c", "d", "e", "f",
		},
		Validation: &domain.ValidationResult{
			Dependencies: []string{"data pipeline", "feature store", "labeling"},
		},
	}

	est := e.EstimateFeature(feature, standardProject())
	// 2.5 * 1.2 * 1.3 would exceed the cap.
	assert.InDelta(t, maxComplexityFactor, est.ComplexityFactor, 0.0001)
}

func TestEstimateFeature_ManagedIntegrationsReduceEffort(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	project := standardProject()
	project.TechStack.Integrations = []string{"SendGrid"}

	feature := domain.Feature{
		Name:        "Invoice reminders",
		Description: "Send email reminders for overdue invoices",
	}

	est := e.EstimateFeature(feature, project)
	// SendGrid (0.6) combined with the email adjustment (0.7).
	assert.InDelta(t, 0.6*0.7, est.IntegrationComplexity, 0.0001)
}

func TestEstimateFeature_ConfidenceBounds(t *testing.T) {
	e := NewEstimator(logger.NewNop())

	t.Run("beginner team on machine learning scores low", func(t *testing.T) {
		project := standardProject()
		project.TeamExperience = domain.ExperienceBeginner
		project.TechStack = domain.TechStack{}

		feature := domain.Feature{
			Name:        "Forecasting",
			Description: "machine learning model",
		}

		est := e.EstimateFeature(feature, project)
		assert.InDelta(t, 0.4, est.ConfidenceLevel, 0.0001)
		assert.GreaterOrEqual(t, est.ConfidenceLevel, minConfidence)
	})

	t.Run("well-defined feature with expert team tops out", func(t *testing.T) {
		project := standardProject()
		project.TeamExperience = domain.ExperienceExpert

		feature := domain.Feature{
			Name:               "Password Reset",
			Description:        "Standard reset flow",
			UserStory:          "As a user I want to reset my password",
			AcceptanceCriteria: []string{"a", "b", "c"},
		}

		est := e.EstimateFeature(feature, project)
		assert.InDelta(t, maxConfidence, est.ConfidenceLevel, 0.0001)
	})
}

func TestEstimateProject(t *testing.T) {
	e := NewEstimator(logger.NewNop())
	project := standardProject()

	features := []domain.Feature{
		{Name: "Password Reset", Description: "Standard reset flow", Status: domain.FeatureStatusApproved},
		{Name: "Dashboard", Description: "Standard overview page", Status: domain.FeatureStatusInDevelopment},
		{Name: "Forecasting", Description: "machine learning", Status: domain.FeatureStatusPending},
		{Name: "Old idea", Description: "dropped", Status: domain.FeatureStatusRejected},
	}

	rollup := e.EstimateProject(features, project)

	assert.Equal(t, 4, rollup.TotalFeatures)
	assert.Equal(t, 2, rollup.EstimatedFeatures, "only approved and in-development features count")
	assert.Equal(t, overheadMultiplier, rollup.OverheadFactor)
	assert.InDelta(t, rollup.TotalEffortHours*overheadMultiplier, rollup.TotalWithOverheadHours, 0.1)
	assert.Positive(t, rollup.TeamVelocityAdjustedWeeks)
	require.Len(t, rollup.FeatureEstimates, 2)
	assert.Equal(t, "Password Reset", rollup.FeatureEstimates[0].FeatureName)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		s1   string
		s2   string
		want float64
	}{
		{name: "identical", s1: "react", s2: "react", want: 1.0},
		{name: "both empty", s1: "", s2: "", want: 1.0},
		{name: "near miss", s1: "authentification", s2: "authentication", want: 0.875},
		{name: "disjoint", s1: "abc", s2: "xyz", want: 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, similarity(tt.s1, tt.s2), 0.0001)
		})
	}
}

func TestTeamVelocity(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		experience domain.TeamExperience
		want       float64
	}{
		{name: "solo developer", size: 1, experience: domain.ExperienceIntermediate, want: 0.8},
		{name: "small team", size: 3, experience: domain.ExperienceIntermediate, want: 1.0},
		{name: "medium team", size: 5, experience: domain.ExperienceIntermediate, want: 1.2},
		{name: "large team overhead", size: 10, experience: domain.ExperienceIntermediate, want: 0.9},
		{name: "expert small team", size: 2, experience: domain.ExperienceExpert, want: 1.5},
		{name: "beginner solo", size: 1, experience: domain.ExperienceBeginner, want: 0.8 * 0.6},
		{name: "unspecified size", size: 0, experience: domain.ExperienceAdvanced, want: 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			project := domain.Project{TeamSize: tt.size, TeamExperience: tt.experience}
			assert.InDelta(t, tt.want, teamVelocity(project), 0.0001)
		})
	}
}
