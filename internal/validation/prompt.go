// Package validation implements the feature evaluation pipeline: prompt
// construction, external model scoring, response parsing, decision policy
// application, and result memoization.
package validation

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/mvpagent/mvpagent/internal/domain"
)

// analysisPromptText frames the model as an MVP consultant and pins the
// response to a strict JSON shape. Only scores and supporting prose are
// requested; the decision is computed locally from the returned scores.
const analysisPromptText = `You are an expert MVP (Minimum Viable Product) consultant. Analyze the following feature request and provide a structured assessment.

Feature Name: {{.Name}}
Feature Description: {{.Description}}
Priority: {{.Priority}}
{{- if .UserStory}}
User Story: {{.UserStory}}
{{- end}}
{{- if .AcceptanceCriteria}}
Acceptance Criteria:
{{- range .AcceptanceCriteria}}
- {{.}}
{{- end}}
{{- end}}
{{- if .ProjectContext}}

Project Context:
{{.ProjectContext}}
{{- end}}

Please analyze this feature and respond with a JSON structure containing:

1. "core_mvp_score" (0-10): How essential is this feature for a basic MVP?
2. "complexity_score" (0-10): How complex would this feature be to implement?
3. "user_value_score" (0-10): How much value does this provide to users?
4. "rationale": Detailed explanation of your assessment
5. "alternatives": List of simpler alternatives if the feature is too complex
6. "timeline_impact": Estimated development time impact
7. "dependencies": Any technical dependencies or prerequisites

Consider these MVP principles:
- Focus on core user problems
- Minimize complexity for initial release
- Prioritize features that validate key assumptions
- Defer nice-to-have features for later iterations

Respond only with valid JSON format.`

var analysisPrompt = template.Must(template.New("analysis").Parse(analysisPromptText))

// promptData carries the template inputs for a single analysis request.
type promptData struct {
	Name               string
	Description        string
	Priority           string
	UserStory          string
	AcceptanceCriteria []string
	ProjectContext     string
}

// BuildAnalysisPrompt renders the analysis prompt for a feature, optionally
// framed by its project's context.
func BuildAnalysisPrompt(req domain.FeatureRequest, projCtx domain.ProjectContext) (string, error) {
	data := promptData{
		Name:               req.Name,
		Description:        req.Description,
		Priority:           string(req.Priority),
		UserStory:          req.UserStory,
		AcceptanceCriteria: req.AcceptanceCriteria,
		ProjectContext:     formatProjectContext(projCtx),
	}

	var sb strings.Builder
	if err := analysisPrompt.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("rendering analysis prompt: %w", err)
	}
	return sb.String(), nil
}

// formatProjectContext flattens the project context into prompt lines.
// An empty context yields an empty string and the section is omitted.
func formatProjectContext(projCtx domain.ProjectContext) string {
	var lines []string
	if projCtx.Industry != "" {
		lines = append(lines, "Industry: "+projCtx.Industry)
	}
	if projCtx.TargetUsers != "" {
		lines = append(lines, "Target Users: "+projCtx.TargetUsers)
	}
	if !projCtx.TechStack.IsZero() {
		if len(projCtx.TechStack.Frontend) > 0 {
			lines = append(lines, "Frontend: "+strings.Join(projCtx.TechStack.Frontend, ", "))
		}
		if len(projCtx.TechStack.Backend) > 0 {
			lines = append(lines, "Backend: "+strings.Join(projCtx.TechStack.Backend, ", "))
		}
		if len(projCtx.TechStack.Database) > 0 {
			lines = append(lines, "Database: "+strings.Join(projCtx.TechStack.Database, ", "))
		}
		if len(projCtx.TechStack.Cloud) > 0 {
			lines = append(lines, "Cloud: "+strings.Join(projCtx.TechStack.Cloud, ", "))
		}
		if len(projCtx.TechStack.Integrations) > 0 {
			lines = append(lines, "Integrations: "+strings.Join(projCtx.TechStack.Integrations, ", "))
		}
	}
	return strings.Join(lines, "\n")
}
