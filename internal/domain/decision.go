package domain

// Decision is the validation outcome for a feature. It is always derived
// from a Score by DecisionFor; the model's own stated decision, if any, is
// ignored so that the policy stays locally testable and auditable.
type Decision string

// The four possible validation decisions, ordered from highest to lowest
// commitment.
const (
	// DecisionAccept includes the feature in the MVP as proposed.
	DecisionAccept Decision = "ACCEPT"

	// DecisionModify includes the feature only in a simplified form;
	// the rationale and alternatives explain what to cut.
	DecisionModify Decision = "MODIFY"

	// DecisionDefer postpones the feature to a post-MVP iteration.
	DecisionDefer Decision = "DEFER"

	// DecisionReject excludes the feature entirely.
	DecisionReject Decision = "REJECT"
)

// Decision thresholds on the overall score. A value exactly on a threshold
// falls into the band below it, resolving boundary ties toward the more
// conservative decision.
const (
	acceptThreshold = 7.5
	modifyThreshold = 6.0
	deferThreshold  = 4.0

	// highComplexity marks the complexity score above which an otherwise
	// acceptable feature should be simplified first.
	highComplexity = 7.0

	// highUserValue marks the user-value score at which a mid-band
	// feature is worth reshaping rather than deferring.
	highUserValue = 7.0
)

// Valid reports whether d is one of the four recognized decisions.
func (d Decision) Valid() bool {
	switch d {
	case DecisionAccept, DecisionModify, DecisionDefer, DecisionReject:
		return true
	}
	return false
}

// DecisionFor maps a Score to a Decision. The function is pure, total, and
// deterministic: every in-range Score maps to exactly one decision.
//
// The policy bands on the overall score:
//
//	overall > 7.5              ACCEPT
//	overall > 6.0              ACCEPT, or MODIFY when complexity is high
//	overall > 4.0              DEFER, or MODIFY when both user value and
//	                           complexity are high (valuable but oversized)
//	otherwise                  REJECT
//
// Scores exactly on a band boundary take the lower band.
func DecisionFor(s Score) Decision {
	switch {
	case s.Overall > acceptThreshold:
		return DecisionAccept
	case s.Overall > modifyThreshold:
		if s.Complexity >= highComplexity {
			return DecisionModify
		}
		return DecisionAccept
	case s.Overall > deferThreshold:
		if s.UserValue >= highUserValue && s.Complexity >= highComplexity {
			return DecisionModify
		}
		return DecisionDefer
	default:
		return DecisionReject
	}
}
