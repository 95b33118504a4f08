package estimation

// catalogEntry maps a recognized feature type to its base effort in hours.
// Matching is ordered: earlier entries win when several types appear in the
// same description.
type catalogEntry struct {
	keyword string
	hours   float64
}

// baseEstimateCatalog holds base effort for common feature types, grouped
// roughly by product area. Unmatched features fall back to a
// description-length heuristic.
var baseEstimateCatalog = []catalogEntry{
	// Authentication and user management.
	{"authentication", 40},
	{"user registration", 24},
	{"user profile", 32},
	{"password reset", 16},
	{"social login", 20},

	// Core CRUD operations.
	{"basic crud", 32},
	{"advanced crud", 48},
	{"data import/export", 40},
	{"search functionality", 36},
	{"filtering", 24},

	// UI and UX components.
	{"dashboard", 60},
	{"forms", 20},
	{"navigation", 16},
	{"responsive design", 32},
	{"mobile optimization", 40},

	// E-commerce.
	{"shopping cart", 48},
	{"checkout process", 72},
	{"payment integration", 56},
	{"inventory management", 64},
	{"order tracking", 40},

	// Communication.
	{"messaging system", 80},
	{"notifications", 32},
	{"email integration", 24},
	{"real-time chat", 96},

	// Analytics and reporting.
	{"basic analytics", 48},
	{"advanced reporting", 80},
	{"data visualization", 56},
	{"export reports", 32},

	// Integration and APIs.
	{"third-party api", 40},
	{"webhook integration", 32},
	{"api development", 48},
	{"data synchronization", 56},

	// Advanced features.
	{"machine learning", 160},
	{"ai integration", 120},
	{"recommendation engine", 200},
	{"advanced search", 80},
	{"real-time features", 96},

	// Security and compliance.
	{"security features", 48},
	{"data encryption", 40},
	{"compliance features", 64},
	{"audit logging", 32},
}

// Description-length fallback when no catalog entry matches.
const (
	fallbackSimpleHours  = 24
	fallbackMediumHours  = 40
	fallbackComplexHours = 64

	simpleDescriptionMax = 50
	mediumDescriptionMax = 150

	defaultBaseHours = 40
)

// complexityKeyword scales effort by signal words in the description. Only
// the first match applies so factors never compound.
type complexityKeyword struct {
	keyword string
	factor  float64
}

var complexityKeywords = []complexityKeyword{
	{"simple", 0.7},
	{"basic", 0.8},
	{"standard", 1.0},
	{"advanced", 1.4},
	{"complex", 1.8},
	{"enterprise", 2.0},
	{"real-time", 1.6},
	{"machine learning", 2.5},
	{"ai", 2.2},
	{"integration", 1.3},
	{"custom", 1.5},
	{"scalable", 1.4},
	{"secure", 1.2},
	{"compliant", 1.3},
}

// maxComplexityFactor caps the combined complexity factor.
const maxComplexityFactor = 3.0

// Per-layer technology multipliers. Unlisted technologies are neutral.
var (
	frontendMultipliers = map[string]float64{
		"react":              1.0,
		"vue.js":             1.1,
		"angular":            1.3,
		"svelte":             1.2,
		"vanilla javascript": 0.8,
	}

	backendMultipliers = map[string]float64{
		"node.js":        1.0,
		"python/django":  1.1,
		"python/fastapi": 0.9,
		"ruby on rails":  1.2,
		"asp.net core":   1.4,
		"php/laravel":    1.1,
	}

	databaseMultipliers = map[string]float64{
		"postgresql": 1.0,
		"mongodb":    0.9,
		"mysql":      1.0,
		"firebase":   0.7,
		"sqlite":     0.6,
	}

	// Managed integrations mostly reduce effort; they replace code the
	// team would otherwise write.
	integrationMultipliers = map[string]float64{
		"stripe":   0.8,
		"auth0":    0.7,
		"sendgrid": 0.6,
		"twilio":   0.9,
	}
)

// Tech stack breadth penalties.
const (
	broadStackSize       = 5
	broadStackPenalty    = 1.2
	sprawlingStackSize   = 8
	sprawlingStackFactor = 1.4
)

// experienceMultipliers scale raw effort by team experience.
var experienceMultipliers = map[string]float64{
	"beginner":     1.8,
	"intermediate": 1.0,
	"advanced":     0.7,
	"expert":       0.5,
}

// experienceVelocity scales delivery speed by team experience.
var experienceVelocity = map[string]float64{
	"beginner":     0.6,
	"intermediate": 1.0,
	"advanced":     1.3,
	"expert":       1.5,
}

// Project-level constants.
const (
	hoursPerWeek       = 40.0
	overheadMultiplier = 1.3

	minConfidence = 0.3
	maxConfidence = 0.95
)
