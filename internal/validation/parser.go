package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// Confidence scoring constants. Confidence starts at a base value and
// grows with the richness of the parsed analysis.
const (
	baseConfidence         = 0.8
	rationaleBonus         = 0.1
	rationaleBonusMinChars = 100
	alternativesBonus      = 0.05
	dependenciesBonus      = 0.05
	maxConfidence          = 1.0
)

// ParseError reports a model response that could not be turned into a
// validation result. The response snippet is kept for diagnostics.
type ParseError struct {
	Reason   string
	Response string
	Err      error
}

// Error satisfies the standard error interface.
func (e *ParseError) Error() string {
	snippet := e.Response
	if len(snippet) > 120 {
		snippet = snippet[:120] + "..."
	}
	if e.Err != nil {
		return fmt.Sprintf("parsing analysis response: %s: %v (response: %q)", e.Reason, e.Err, snippet)
	}
	return fmt.Sprintf("parsing analysis response: %s (response: %q)", e.Reason, snippet)
}

// Unwrap returns the underlying error, if any.
func (e *ParseError) Unwrap() error { return e.Err }

// analysisPayload is the JSON shape the model is prompted to return.
// Scores absent from the response stay at the neutral midpoint.
type analysisPayload struct {
	CoreMVPScore    float64  `json:"core_mvp_score"`
	ComplexityScore float64  `json:"complexity_score"`
	UserValueScore  float64  `json:"user_value_score"`
	Rationale       string   `json:"rationale"`
	Alternatives    []string `json:"alternatives"`
	Dependencies    []string `json:"dependencies"`
	TimelineImpact  string   `json:"timeline_impact"`
}

// ParseAnalysis turns a raw model response into a validation result. The
// JSON payload may be wrapped in markdown fences or surrounding prose; it is
// located, unmarshaled, and its scores clamped into range. The decision is
// always computed locally from the scores, regardless of anything the model
// may have claimed.
func ParseAnalysis(response string) (domain.ValidationResult, error) {
	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return domain.ValidationResult{}, &ParseError{
			Reason:   "no JSON object found",
			Response: response,
		}
	}

	// Absent score fields keep the neutral midpoint rather than zero.
	payload := analysisPayload{
		CoreMVPScore:    5,
		ComplexityScore: 5,
		UserValueScore:  5,
	}
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return domain.ValidationResult{}, &ParseError{
			Reason:   "invalid JSON",
			Response: response,
			Err:      err,
		}
	}

	score := domain.NewScore(payload.CoreMVPScore, payload.ComplexityScore, payload.UserValueScore)

	rationale := payload.Rationale
	if rationale == "" {
		rationale = "No rationale provided"
	}
	timelineImpact := payload.TimelineImpact
	if timelineImpact == "" {
		timelineImpact = "Unknown"
	}

	// Absent lists become empty slices so they serialize as [] rather
	// than null.
	alternatives := payload.Alternatives
	if alternatives == nil {
		alternatives = []string{}
	}
	dependencies := payload.Dependencies
	if dependencies == nil {
		dependencies = []string{}
	}

	return domain.ValidationResult{
		Decision:       domain.DecisionFor(score),
		Score:          score,
		Rationale:      rationale,
		Alternatives:   alternatives,
		Dependencies:   dependencies,
		TimelineImpact: timelineImpact,
		Confidence:     confidenceFor(payload),
	}, nil
}

// confidenceFor scores how much the analysis can be trusted based on the
// richness of the response.
func confidenceFor(payload analysisPayload) float64 {
	confidence := baseConfidence
	if len(payload.Rationale) > rationaleBonusMinChars {
		confidence += rationaleBonus
	}
	if len(payload.Alternatives) > 0 {
		confidence += alternativesBonus
	}
	if len(payload.Dependencies) > 0 {
		confidence += dependenciesBonus
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	return confidence
}

// extractJSON locates a JSON object in a response that may contain markdown
// code fences or prose around the payload. It returns the empty string when
// no balanced object is found.
func extractJSON(response string) string {
	response = strings.TrimSpace(response)

	// Prefer an explicit ```json fence.
	if strings.Contains(response, "```json") {
		start := strings.Index(response, "```json")
		if start != -1 {
			start += 7
			end := strings.Index(response[start:], "```")
			if end != -1 {
				return strings.TrimSpace(response[start : start+end])
			}
		}
	}

	// Then a generic fence, skipping any language identifier.
	if strings.Contains(response, "```") {
		start := strings.Index(response, "```")
		if start != -1 {
			start += 3
			newlineIdx := strings.Index(response[start:], "\n")
			if newlineIdx != -1 {
				start += newlineIdx + 1
			}
			end := strings.Index(response[start:], "```")
			if end != -1 {
				candidate := strings.TrimSpace(response[start : start+end])
				if strings.HasPrefix(candidate, "{") {
					return candidate
				}
			}
		}
	}

	// Finally, scan for a balanced object, respecting strings and escapes.
	start := strings.Index(response, "{")
	if start == -1 {
		return ""
	}

	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}

		if char == '\\' {
			escapeNext = true
			continue
		}

		if char == '"' && !escapeNext {
			inString = !inString
			continue
		}

		if !inString {
			switch char {
			case '{':
				braceCount++
			case '}':
				braceCount--
				if braceCount == 0 {
					return response[start : i+1]
				}
			}
		}
	}

	return ""
}
