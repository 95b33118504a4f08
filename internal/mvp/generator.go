// Package mvp assembles an MVPDefinition from a project's approved features:
// a curated feature set within timeline and effort constraints, plus the
// narrative around it (rationale, user journey, personas, competitive
// analysis, value proposition). Generation is deterministic and performs no
// external calls; the definition is a response payload, never stored.
package mvp

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mvpagent/mvpagent/internal/domain"
	"github.com/mvpagent/mvpagent/internal/estimation"
	"github.com/mvpagent/mvpagent/internal/logger"
)

// minViableFeatures is the floor below which timeline and effort caps are
// relaxed: an MVP with fewer core features than this rarely demonstrates a
// coherent product.
const minViableFeatures = 3

// complexityRiskThreshold marks validated features whose complexity score
// calls for a delivery risk callout.
const complexityRiskThreshold = 7.0

// Options constrain which features the generator may include.
type Options struct {
	// MaxTimelineWeeks caps the cumulative estimated weeks of the selected
	// features. Zero means unconstrained.
	MaxTimelineWeeks float64 `json:"max_timeline_weeks,omitempty" validate:"omitempty,gt=0"`

	// MaxEffortHours caps the cumulative estimated hours. Zero means
	// unconstrained.
	MaxEffortHours float64 `json:"max_effort_hours,omitempty" validate:"omitempty,gt=0"`

	// PriorityThreshold excludes features below the given priority.
	PriorityThreshold domain.Priority `json:"priority_threshold,omitempty"`

	// IncludePending also considers features still awaiting review.
	IncludePending bool `json:"include_pending,omitempty"`
}

// Generator builds MVP definitions. It is stateless and safe for concurrent
// use.
type Generator struct {
	estimator *estimation.Estimator
	log       *logger.Logger
}

// NewGenerator creates a generator backed by the given estimator.
func NewGenerator(estimator *estimation.Estimator, log *logger.Logger) *Generator {
	return &Generator{estimator: estimator, log: log}
}

// Generate assembles the MVP definition for a project from its features.
// It returns domain.ErrNoApprovedFeatures when no feature is eligible.
func (g *Generator) Generate(project domain.Project, features []domain.Feature, opts Options) (domain.MVPDefinition, error) {
	selected := g.selectFeatures(project, features, opts)
	if len(selected) == 0 {
		return domain.MVPDefinition{}, domain.ErrNoApprovedFeatures
	}

	effort := g.estimator.EstimateProject(buildable(selected), project)

	personas := g.personas(project, selected)
	analysis := competitiveAnalysis(project)

	definition := domain.MVPDefinition{
		ID:                    uuid.New(),
		ProjectID:             project.ID,
		CoreFeatures:          featureIDs(selected),
		Rationale:             rationale(project, selected),
		EstimatedEffortHours:  effort.TotalWithOverheadHours,
		EstimatedWeeks:        effort.TeamVelocityAdjustedWeeks,
		TargetUserJourney:     userJourney(project, selected),
		SuccessMetrics:        successMetrics(project, selected),
		ValueProposition:      g.valueProposition(project, selected),
		UserPersonas:          personas,
		CompetitiveAnalysis:   analysis,
		TechnicalRequirements: technicalRequirements(project, selected),
		Assumptions:           assumptions(project, selected),
		Risks:                 risks(project, selected),
		DefinedAt:             time.Now().UTC(),
	}

	if g.log != nil {
		g.log.Info("mvp generated",
			"project_id", project.ID,
			"core_features", len(selected),
			"timeline_weeks", definition.EstimatedWeeks,
		)
	}

	return definition, nil
}

var priorityRank = map[domain.Priority]int{
	domain.PriorityHigh:   3,
	domain.PriorityMedium: 2,
	domain.PriorityLow:    1,
}

// selectFeatures filters eligible features, orders them by priority and
// validation score, and packs them under the timeline and effort caps. When
// the caps leave fewer than minViableFeatures, the top candidates are taken
// regardless of the caps.
func (g *Generator) selectFeatures(project domain.Project, features []domain.Feature, opts Options) []domain.Feature {
	threshold := priorityRank[opts.PriorityThreshold]

	candidates := make([]domain.Feature, 0, len(features))
	for _, f := range features {
		eligible := f.Status == domain.FeatureStatusApproved ||
			(opts.IncludePending && f.Status == domain.FeatureStatusPending)
		if !eligible {
			continue
		}
		if priorityRank[f.Priority] < threshold {
			continue
		}
		candidates = append(candidates, f)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return selectionScore(candidates[i]) > selectionScore(candidates[j])
	})

	var selected []domain.Feature
	var totalWeeks, totalHours float64

	for _, f := range candidates {
		weeks := f.EstimatedWeeks
		if weeks <= 0 {
			weeks = g.estimator.EstimateFeature(f, project).FinalEstimateWeeks
		}
		hours := weeks * 40

		if opts.MaxTimelineWeeks > 0 && totalWeeks+weeks > opts.MaxTimelineWeeks {
			continue
		}
		if opts.MaxEffortHours > 0 && totalHours+hours > opts.MaxEffortHours {
			continue
		}

		selected = append(selected, f)
		totalWeeks += weeks
		totalHours += hours
	}

	if len(selected) < minViableFeatures && len(candidates) >= minViableFeatures {
		selected = candidates[:minViableFeatures]
	}

	return selected
}

// selectionScore ranks a feature for inclusion: priority dominates, the
// validation overall score breaks ties.
func selectionScore(f domain.Feature) float64 {
	score := float64(priorityRank[f.Priority])
	if score == 0 {
		score = 1
	}
	score *= 10
	if f.Validation != nil {
		score += f.Validation.Score.Overall
	}
	return score
}

// buildable normalizes the selected features so the estimator's rollup
// counts every one of them. Pending features admitted via IncludePending
// are part of the plan once selected.
func buildable(features []domain.Feature) []domain.Feature {
	out := make([]domain.Feature, len(features))
	copy(out, features)
	for i := range out {
		if out[i].Status == domain.FeatureStatusPending {
			out[i].Status = domain.FeatureStatusApproved
		}
	}
	return out
}

func featureIDs(features []domain.Feature) []uuid.UUID {
	ids := make([]uuid.UUID, len(features))
	for i, f := range features {
		ids[i] = f.ID
	}
	return ids
}

func featureNames(features []domain.Feature) []string {
	names := make([]string, len(features))
	for i, f := range features {
		names[i] = f.Name
	}
	return names
}

func rationale(project domain.Project, features []domain.Feature) string {
	var b strings.Builder

	fmt.Fprintf(&b, "This MVP focuses on %d core features that deliver maximum user value with minimal complexity. ", len(features))

	highPriority := 0
	for _, f := range features {
		if f.Priority == domain.PriorityHigh {
			highPriority++
		}
	}
	if highPriority > 0 {
		fmt.Fprintf(&b, "It includes %d high-priority features that are essential for the target user journey. ", highPriority)
	}

	if tmpl, ok := templateFor(project.Industry); ok {
		fmt.Fprintf(&b, "For the %s industry, this MVP addresses key user needs around %s. ",
			strings.ToLower(project.Industry), strings.Join(tmpl.valueThemes[:3], ", "))
	}

	fmt.Fprintf(&b, "The selected features (%s) create a cohesive user experience that validates the core value proposition.",
		strings.Join(featureNames(features), ", "))

	return b.String()
}

// isAuthFeature reports whether a feature is about sign-in rather than core
// product functionality, which places it first in the user journey.
func isAuthFeature(f domain.Feature) bool {
	name := strings.ToLower(f.Name)
	return strings.Contains(name, "auth") || strings.Contains(name, "login")
}

func userJourney(project domain.Project, features []domain.Feature) string {
	var hasAuth bool
	var core []domain.Feature
	for _, f := range features {
		if isAuthFeature(f) {
			hasAuth = true
		} else {
			core = append(core, f)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Target users (%s) will: ", project.TargetUsers)

	step := 1
	if hasAuth {
		fmt.Fprintf(&b, "%d) Register/login to access the platform, ", step)
		step++
	}
	for i, f := range core {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "%d) %s, ", step, featureAction(f))
		step++
	}

	fmt.Fprintf(&b, "ultimately achieving their goal of %s.", userGoal(project))
	return b.String()
}

// featureAction phrases a feature as a step in the user journey.
func featureAction(f domain.Feature) string {
	name := strings.ToLower(f.Name)
	switch {
	case strings.Contains(name, "dashboard"):
		return "view their personalized dashboard"
	case strings.Contains(name, "search"):
		return "search and discover relevant content"
	case strings.Contains(name, "create"), strings.Contains(name, "add"):
		return "create and manage their content"
	case strings.Contains(name, "profile"):
		return "set up and customize their profile"
	case strings.Contains(name, "payment"), strings.Contains(name, "checkout"):
		return "complete secure transactions"
	case strings.Contains(name, "message"), strings.Contains(name, "chat"):
		return "communicate with other users"
	default:
		return "use " + name
	}
}

func userGoal(project domain.Project) string {
	if tmpl, ok := templateFor(project.Industry); ok {
		return tmpl.userGoal
	}
	return "solving their core problem efficiently"
}

const maxSuccessMetrics = 6

func successMetrics(project domain.Project, features []domain.Feature) []string {
	var metrics []string

	if tmpl, ok := templateFor(project.Industry); ok {
		metrics = append(metrics, tmpl.successMetrics[:3]...)
	}

	names := strings.ToLower(strings.Join(featureNames(features), " "))
	if strings.Contains(names, "auth") || strings.Contains(names, "login") {
		metrics = append(metrics, "user registration rate")
	}
	if strings.Contains(names, "dashboard") {
		metrics = append(metrics, "daily active users")
	}
	if strings.Contains(names, "search") {
		metrics = append(metrics, "search success rate")
	}
	if strings.Contains(names, "payment") || strings.Contains(names, "checkout") {
		metrics = append(metrics, "transaction completion rate")
	}

	metrics = append(metrics,
		"user retention rate (30-day)",
		"feature adoption rate",
		"user satisfaction score",
		"time to value (first meaningful action)",
	)

	return dedupe(metrics, maxSuccessMetrics)
}

// dedupe removes duplicates preserving first-seen order and caps the result.
func dedupe(values []string, limit int) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, limit)
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out
}

func technicalRequirements(project domain.Project, features []domain.Feature) []string {
	var reqs []string

	stack := project.TechStack
	if len(stack.Frontend) > 0 {
		reqs = append(reqs, "Frontend: "+strings.Join(stack.Frontend, ", "))
	}
	if len(stack.Backend) > 0 {
		reqs = append(reqs, "Backend: "+strings.Join(stack.Backend, ", "))
	}
	if len(stack.Database) > 0 {
		reqs = append(reqs, "Database: "+strings.Join(stack.Database, ", "))
	}

	var text strings.Builder
	for _, f := range features {
		text.WriteString(strings.ToLower(f.Name))
		text.WriteByte(' ')
		text.WriteString(strings.ToLower(f.Description))
		text.WriteByte(' ')
	}
	ft := text.String()

	if strings.Contains(ft, "auth") || strings.Contains(ft, "login") {
		reqs = append(reqs, "User authentication and session management")
	}
	if strings.Contains(ft, "payment") || strings.Contains(ft, "stripe") {
		reqs = append(reqs, "Payment processing integration (PCI compliance)")
	}
	if strings.Contains(ft, "real-time") || strings.Contains(ft, "chat") {
		reqs = append(reqs, "Real-time communication infrastructure")
	}
	if strings.Contains(ft, "search") {
		reqs = append(reqs, "Search and indexing capabilities")
	}
	if strings.Contains(ft, "file") || strings.Contains(ft, "upload") {
		reqs = append(reqs, "File storage and management")
	}

	reqs = append(reqs,
		"HTTPS/SSL encryption",
		"Data backup and recovery",
		"Basic security measures (input validation, XSS protection)",
	)

	if project.TeamSize > 3 {
		reqs = append(reqs, "Scalable architecture for team development")
	}

	return reqs
}

func assumptions(project domain.Project, features []domain.Feature) []string {
	out := []string{
		fmt.Sprintf("Target users (%s) have the technical capability to use the platform", project.TargetUsers),
		fmt.Sprintf("The selected features address the core user needs in the %s space", strings.ToLower(project.Industry)),
		"Users are willing to adopt a new solution for their current problem",
	}

	if len(project.TechStack.Frontend) > 0 {
		out = append(out, fmt.Sprintf("Team has sufficient experience with %s", project.TechStack.Frontend[0]))
	}

	var highPriority []string
	for _, f := range features {
		if f.Priority == domain.PriorityHigh {
			highPriority = append(highPriority, f.Name)
		}
	}
	if len(highPriority) > 0 {
		out = append(out, fmt.Sprintf("High-priority features (%s) are correctly identified as most valuable",
			strings.Join(highPriority, ", ")))
	}

	return out
}

const maxRisks = 6

func risks(project domain.Project, features []domain.Feature) []string {
	var out []string

	var complexNames []string
	for _, f := range features {
		if f.Validation != nil && f.Validation.Score.Complexity > complexityRiskThreshold {
			complexNames = append(complexNames, f.Name)
		}
	}
	if len(complexNames) > 0 {
		out = append(out, fmt.Sprintf("High complexity features (%s) may cause timeline delays",
			strings.Join(complexNames, ", ")))
	}

	if project.TeamExperience == domain.ExperienceBeginner {
		out = append(out, "Inexperienced team may face learning curve challenges")
	}
	if project.TeamSize == 1 {
		out = append(out, "Single developer dependency creates bottleneck risk")
	}
	if project.TechStack.Size() > 6 {
		out = append(out, "Complex tech stack may increase integration challenges")
	}

	out = append(out,
		"User adoption may be slower than expected",
		"Competitive landscape may change during development",
		"Feature priorities may shift based on user feedback",
	)

	var desc strings.Builder
	for _, f := range features {
		desc.WriteString(strings.ToLower(f.Description))
		desc.WriteByte(' ')
	}
	if strings.Contains(desc.String(), "payment") {
		out = append(out, "Payment integration requires PCI compliance and security considerations")
	}
	if strings.Contains(desc.String(), "real-time") {
		out = append(out, "Real-time features add infrastructure complexity and scaling challenges")
	}

	if len(out) > maxRisks {
		out = out[:maxRisks]
	}
	return out
}

func (g *Generator) personas(project domain.Project, features []domain.Feature) []domain.UserPersona {
	personas := []domain.UserPersona{primaryPersona(project, features)}

	switch normalizeIndustry(project.Industry) {
	case industryECommerce, industrySocial, industryProductivity:
		personas = append(personas, secondaryPersona(project))
	}

	return personas
}

func primaryPersona(project domain.Project, features []domain.Feature) domain.UserPersona {
	targetUsers := strings.ToLower(project.TargetUsers)

	var persona domain.UserPersona
	switch {
	case strings.Contains(targetUsers, "business") || strings.Contains(targetUsers, "owner"):
		persona = domain.UserPersona{
			Name:          "Business Owner",
			Description:   "Small to medium business owner looking to " + userGoal(project),
			PainPoints:    []string{"Limited time for complex tools", "Need cost-effective solutions", "Want quick results"},
			Goals:         []string{"Increase efficiency", "Reduce costs", "Grow business"},
			TechSavviness: "medium",
		}
	case strings.Contains(targetUsers, "developer") || strings.Contains(targetUsers, "technical"):
		persona = domain.UserPersona{
			Name:          "Technical User",
			Description:   "Developer or technical professional who needs " + strings.ToLower(project.Description),
			PainPoints:    []string{"Complex setup processes", "Poor documentation", "Limited customization"},
			Goals:         []string{"Streamline workflow", "Integrate with existing tools", "Maintain control"},
			TechSavviness: "high",
		}
	default:
		persona = domain.UserPersona{
			Name:          "Primary User",
			Description:   project.TargetUsers,
			PainPoints:    []string{"Current solutions are too complex", "Lack of suitable options", "Time-consuming processes"},
			Goals:         []string{"Solve core problem efficiently", "Easy-to-use solution", "Reliable results"},
			TechSavviness: "medium",
		}
	}

	for i, f := range features {
		if i == 3 {
			break
		}
		persona.PrimaryBenefits = append(persona.PrimaryBenefits, featureBenefit(f))
	}

	return persona
}

func secondaryPersona(project domain.Project) domain.UserPersona {
	switch normalizeIndustry(project.Industry) {
	case industryECommerce:
		return domain.UserPersona{
			Name:            "Online Shopper",
			Description:     "End customer who purchases through the e-commerce platform",
			PainPoints:      []string{"Complicated checkout", "Security concerns", "Limited payment options"},
			Goals:           []string{"Quick purchases", "Secure transactions", "Good deals"},
			TechSavviness:   "medium",
			PrimaryBenefits: []string{"Easy shopping experience", "Secure payments", "Fast delivery"},
		}
	case industrySocial:
		return domain.UserPersona{
			Name:            "Community Member",
			Description:     "Active participant in the social platform",
			PainPoints:      []string{"Privacy concerns", "Information overload", "Fake content"},
			Goals:           []string{"Connect with others", "Share experiences", "Discover content"},
			TechSavviness:   "medium",
			PrimaryBenefits: []string{"Authentic connections", "Relevant content", "Privacy control"},
		}
	default:
		return domain.UserPersona{
			Name:            "Secondary User",
			Description:     "Additional user type who benefits from the platform",
			PainPoints:      []string{"Limited access", "Complex interface", "Poor support"},
			Goals:           []string{"Easy access", "Simple interface", "Reliable support"},
			TechSavviness:   "low",
			PrimaryBenefits: []string{"Simplified access", "User-friendly design", "Good support"},
		}
	}
}

// featureBenefit phrases a feature as the benefit its users get from it.
func featureBenefit(f domain.Feature) string {
	name := strings.ToLower(f.Name)
	switch {
	case strings.Contains(name, "auth"), strings.Contains(name, "login"):
		return "Secure access to personal account"
	case strings.Contains(name, "dashboard"):
		return "Clear overview of important information"
	case strings.Contains(name, "search"):
		return "Quick discovery of relevant content"
	case strings.Contains(name, "payment"):
		return "Safe and easy transactions"
	case strings.Contains(name, "profile"):
		return "Personalized experience"
	default:
		return "Access to " + name
	}
}

func competitiveAnalysis(project domain.Project) domain.CompetitiveAnalysis {
	analysis := domain.CompetitiveAnalysis{
		CompetitiveAdvantages: []string{
			"Focused feature set reduces complexity",
			"Faster time-to-market with MVP approach",
			"Lower cost structure enables competitive pricing",
			"Agile development allows rapid iteration",
		},
	}

	if tmpl, ok := templateFor(project.Industry); ok {
		analysis.DirectCompetitors = tmpl.directCompetitors
		analysis.MarketGaps = tmpl.marketGaps
		analysis.DifferentiationOpportunities = tmpl.differentiation
	}

	return analysis
}

func (g *Generator) valueProposition(project domain.Project, features []domain.Feature) domain.ValueProposition {
	headline := headline(project, len(features))
	problem := problemStatement(project, features)
	solution := solutionSummary(project, features)

	return domain.ValueProposition{
		Headline:         headline,
		ProblemStatement: problem,
		SolutionSummary:  solution,
		SuccessMetrics:   successMetrics(project, features),
		ElevatorPitch:    elevatorPitch(headline, problem, solution),
		Confidence:       valuePropConfidence(project, features),
	}
}

func headline(project domain.Project, featureCount int) string {
	if tmpl, ok := templateFor(project.Industry); ok {
		return fmt.Sprintf(tmpl.headline, featureCount)
	}
	industry := strings.ToLower(strings.ReplaceAll(project.Industry, "-", " "))
	if industry == "" {
		industry = "product"
	}
	return fmt.Sprintf("Solve your %s challenges with %d focused features", industry, featureCount)
}

func problemStatement(project domain.Project, features []domain.Feature) string {
	persona := primaryPersona(project, features)

	painPoint := "complex solutions"
	if len(persona.PainPoints) > 0 {
		painPoint = strings.ToLower(persona.PainPoints[0])
	}

	// cases.Title handles multi-word persona names without the deprecated
	// strings.Title casing quirks.
	name := cases.Title(language.English).String(strings.ToLower(persona.Name))

	return fmt.Sprintf("%ss struggle with %s. Current solutions are either too complex, too expensive, or don't address the specific needs of %s.",
		name, painPoint, strings.ToLower(project.TargetUsers))
}

func solutionSummary(project domain.Project, features []domain.Feature) string {
	top := featureNames(features)
	if len(top) > 3 {
		top = top[:3]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s provides a streamlined solution with %d core features: %s. ",
		project.Name, len(features), strings.Join(top, ", "))
	fmt.Fprintf(&b, "Designed specifically for %s, it eliminates complexity while delivering essential functionality. ",
		strings.ToLower(project.TargetUsers))
	b.WriteString("Built with modern technology and user-centered design, it offers the perfect balance of power and simplicity.")
	return b.String()
}

func elevatorPitch(headline, problem, solution string) string {
	problemCore := firstSentence(problem)
	solutionCore := firstSentence(solution)

	var b strings.Builder
	b.WriteString(headline)
	b.WriteString(". ")
	b.WriteString(problemCore)
	b.WriteString(", but ")
	b.WriteString(lowerFirst(solutionCore))
	b.WriteString(". Our MVP approach means you get essential features fast, without the complexity and cost of traditional solutions.")
	return b.String()
}

func firstSentence(s string) string {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return s[:i]
	}
	return s
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// valuePropConfidence scores how well-grounded the value proposition is:
// more approved features, a described audience, a chosen stack, and a
// recognized industry all raise it.
func valuePropConfidence(project domain.Project, features []domain.Feature) float64 {
	confidence := 0.7

	if len(features) >= minViableFeatures {
		confidence += 0.1
	}
	if len(project.TargetUsers) > 20 {
		confidence += 0.1
	}
	if len(project.TechStack.Frontend)+len(project.TechStack.Backend)+len(project.TechStack.Database) >= 3 {
		confidence += 0.05
	}
	if _, ok := templateFor(project.Industry); ok {
		confidence += 0.05
	}

	if confidence > 0.95 {
		confidence = 0.95
	}
	return confidence
}
