// Package domain contains the core types of the MVP generation agent:
// feature scores, validation decisions, projects, features, and the derived
// MVP definition. Types in this package are pure data plus pure functions;
// nothing here performs I/O or talks to the model provider.
package domain

import "math"

// Scoring bounds and the fixed weights used to combine the three component
// scores into an overall score. Complexity contributes inverted: a feature
// that is hard to build lowers the overall score. The weights are a fixed
// design decision; changing them would silently change every decision the
// agent makes, so they are constants rather than configuration.
const (
	// ScoreMin is the lower bound of every score dimension.
	ScoreMin = 0.0
	// ScoreMax is the upper bound of every score dimension.
	ScoreMax = 10.0

	// WeightCoreMVP weights how essential the feature is to a minimum
	// viable product.
	WeightCoreMVP = 0.40
	// WeightUserValue weights the value the feature delivers to users.
	WeightUserValue = 0.35
	// WeightComplexity weights implementation complexity, applied to the
	// inverted complexity score (ScoreMax - complexity).
	WeightComplexity = 0.25
)

// Score is the four-dimension assessment of a feature. The three component
// dimensions come from the model's analysis; Overall is always computed
// locally by NewScore and is never taken from model output.
type Score struct {
	// CoreMVP rates how essential the feature is for a basic MVP (0-10).
	CoreMVP float64 `json:"core_mvp_score"`

	// Complexity rates how hard the feature is to implement (0-10).
	Complexity float64 `json:"complexity_score"`

	// UserValue rates how much value the feature provides to users (0-10).
	UserValue float64 `json:"user_value_score"`

	// Overall is the weighted combination of the other three dimensions,
	// rounded to two decimals. See NewScore for the formula.
	Overall float64 `json:"overall_score"`
}

// NewScore builds a Score from the three component dimensions. Inputs are
// clamped into [ScoreMin, ScoreMax] before combining, so out-of-range model
// output degrades gracefully instead of failing. The overall score is
//
//	0.40*coreMVP + 0.35*userValue + 0.25*(10 - complexity)
//
// rounded to two decimal places. Two Scores built from identical components
// are identical.
func NewScore(coreMVP, complexity, userValue float64) Score {
	coreMVP = ClampScore(coreMVP)
	complexity = ClampScore(complexity)
	userValue = ClampScore(userValue)

	overall := coreMVP*WeightCoreMVP +
		userValue*WeightUserValue +
		(ScoreMax-complexity)*WeightComplexity

	return Score{
		CoreMVP:    coreMVP,
		Complexity: complexity,
		UserValue:  userValue,
		Overall:    math.Round(overall*100) / 100,
	}
}

// ClampScore bounds a single score dimension into [ScoreMin, ScoreMax].
func ClampScore(v float64) float64 {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// InRange reports whether every dimension of the score, including Overall,
// lies within [ScoreMin, ScoreMax].
func (s Score) InRange() bool {
	for _, v := range []float64{s.CoreMVP, s.Complexity, s.UserValue, s.Overall} {
		if v < ScoreMin || v > ScoreMax {
			return false
		}
	}
	return true
}
