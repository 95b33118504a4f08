package mvp

import "strings"

// industryTemplate carries the per-industry knowledge used to assemble an
// MVP definition: what users in the space care about, how success is
// measured, who the incumbents are, and where the gaps sit.
type industryTemplate struct {
	valueThemes       []string
	successMetrics    []string
	directCompetitors []string
	marketGaps        []string
	differentiation   []string
	userGoal          string
	headline          string // format string receiving the feature count
}

// Canonical industry keys. Free-form industry strings are normalized onto
// these; unrecognized industries fall back to generic content.
const (
	industryECommerce    = "e-commerce"
	industryFintech      = "fintech"
	industryHealthcare   = "healthcare"
	industryEducation    = "education"
	industrySocial       = "social"
	industryProductivity = "productivity"
)

var industryTemplates = map[string]industryTemplate{
	industryECommerce: {
		valueThemes:       []string{"convenience", "security", "speed", "selection", "price"},
		successMetrics:    []string{"conversion rate", "average order value", "customer acquisition cost", "time to purchase"},
		directCompetitors: []string{"Shopify", "WooCommerce", "Magento"},
		marketGaps:        []string{"Simplified setup for small businesses", "Industry-specific features"},
		differentiation:   []string{"Niche market focus", "Superior user experience", "Better pricing"},
		userGoal:          "making purchases efficiently and securely",
		headline:          "Launch your online store with %d essential features in weeks, not months",
	},
	industryFintech: {
		valueThemes:       []string{"security", "transparency", "accessibility", "efficiency", "compliance"},
		successMetrics:    []string{"transaction volume", "user adoption", "security incidents", "regulatory compliance"},
		directCompetitors: []string{"Traditional banks", "Fintech startups", "Payment processors"},
		marketGaps:        []string{"Underserved demographics", "Specific use cases", "Regulatory compliance"},
		differentiation:   []string{"Better security", "Lower fees", "Faster processing"},
		userGoal:          "managing their finances securely and efficiently",
		headline:          "Secure financial platform with %d core features for modern users",
	},
	industryHealthcare: {
		valueThemes:       []string{"accessibility", "accuracy", "privacy", "efficiency", "outcomes"},
		successMetrics:    []string{"patient outcomes", "time to diagnosis", "cost reduction", "user satisfaction"},
		userGoal:          "managing their health and wellness",
		headline:          "Improve patient outcomes with %d essential healthcare features",
	},
	industryEducation: {
		valueThemes:       []string{"accessibility", "engagement", "personalization", "effectiveness", "affordability"},
		successMetrics:    []string{"learning outcomes", "engagement rate", "completion rate", "knowledge retention"},
		userGoal:          "learning new skills and knowledge effectively",
		headline:          "Transform learning with %d engaging educational features",
	},
	industrySocial: {
		valueThemes:       []string{"connection", "engagement", "privacy", "authenticity", "discovery"},
		successMetrics:    []string{"daily active users", "engagement rate", "content creation", "user retention"},
		userGoal:          "connecting and engaging with their community",
		headline:          "Connect your community with %d powerful social features",
	},
	industryProductivity: {
		valueThemes:       []string{"efficiency", "collaboration", "organization", "automation", "integration"},
		successMetrics:    []string{"time saved", "task completion rate", "team productivity", "user adoption"},
		directCompetitors: []string{"Slack", "Microsoft Teams", "Asana"},
		marketGaps:        []string{"Small team solutions", "Industry-specific workflows"},
		differentiation:   []string{"Simpler interface", "Better integrations", "Lower cost"},
		userGoal:          "improving their work efficiency and collaboration",
		headline:          "Boost team productivity with %d streamlined workflow features",
	},
}

// normalizeIndustry maps a free-form industry string onto a canonical
// template key, or "" when nothing matches.
func normalizeIndustry(industry string) string {
	s := strings.ToLower(strings.TrimSpace(industry))
	switch {
	case strings.Contains(s, "commerce"), strings.Contains(s, "retail"):
		return industryECommerce
	case strings.Contains(s, "fintech"), strings.Contains(s, "finance"), strings.Contains(s, "banking"):
		return industryFintech
	case strings.Contains(s, "health"), strings.Contains(s, "medical"):
		return industryHealthcare
	case strings.Contains(s, "education"), strings.Contains(s, "learning"):
		return industryEducation
	case strings.Contains(s, "social"), strings.Contains(s, "community"):
		return industrySocial
	case strings.Contains(s, "productivity"), strings.Contains(s, "workflow"):
		return industryProductivity
	default:
		return ""
	}
}

// templateFor returns the industry template and whether one was found.
func templateFor(industry string) (industryTemplate, bool) {
	key := normalizeIndustry(industry)
	if key == "" {
		return industryTemplate{}, false
	}
	tmpl, ok := industryTemplates[key]
	return tmpl, ok
}
