// Package config loads the service configuration from the environment and
// validates it before anything is wired up.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/mvpagent/mvpagent/internal/logger"
)

// Recognized LLM providers.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGoogle    = "google"
)

// defaultModels maps each provider to the model used when LLM_MODEL is
// unset.
var defaultModels = map[string]string{
	ProviderAnthropic: "claude-3-5-sonnet-20241022",
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderGoogle:    "gemini-2.0-flash-exp",
}

// Config is the full service configuration, sourced from the environment.
type Config struct {
	// Port is the HTTP listen port.
	Port string `validate:"required"`

	// LogMode selects the logger configuration: development or production.
	LogMode string `validate:"oneof=development production"`

	// Provider selects the LLM provider behind the gateway.
	Provider string `validate:"oneof=anthropic openai google"`

	// Model overrides the provider's default model. Empty picks the
	// provider default.
	Model string

	// APIKey is the credential for the selected provider. Required unless
	// MockMode is set.
	APIKey string `validate:"required_if=MockMode false"`

	// TimeoutSeconds bounds a single model request.
	TimeoutSeconds int `validate:"gt=0"`

	// MockMode replaces the provider with the deterministic in-process
	// model; no API key is needed and no network calls are made.
	MockMode bool

	// CORSOrigins lists the allowed CORS origins.
	CORSOrigins []string `validate:"min=1"`

	// DBDriver selects the persistence backend: sqlite, postgres, or
	// memory for the non-persistent in-memory stores.
	DBDriver string `validate:"oneof=sqlite postgres memory"`

	// DatabaseURL is the DSN for the selected driver. Optional for sqlite
	// (defaults to a local file), required for postgres.
	DatabaseURL string

	// CacheCapacity bounds the validation result cache.
	CacheCapacity int `validate:"gt=0"`
}

// Load reads the configuration from the environment and validates it.
func Load(log *logger.Logger) (Config, error) {
	provider := GetEnv("LLM_PROVIDER", ProviderAnthropic, log)

	cfg := Config{
		Port:           GetEnv("PORT", "8080", log),
		LogMode:        GetEnv("LOG_MODE", "development", log),
		Provider:       provider,
		Model:          GetEnv("LLM_MODEL", defaultModels[provider], log),
		APIKey:         apiKeyFor(provider, log),
		TimeoutSeconds: GetEnvAsInt("LLM_TIMEOUT_SECONDS", 30, log),
		MockMode:       GetEnvAsBool("MOCK_MODE", false, log),
		CORSOrigins:    GetEnvAsList("CORS_ORIGINS", []string{"*"}, log),
		DBDriver:       GetEnv("DB_DRIVER", "sqlite", log),
		DatabaseURL:    GetEnv("DATABASE_URL", "", log),
		CacheCapacity:  GetEnvAsInt("VALIDATION_CACHE_SIZE", 100, log),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("invalid configuration: DATABASE_URL is required with DB_DRIVER=postgres")
	}

	return cfg, nil
}

// apiKeyFor reads the credential environment variable of the selected
// provider.
func apiKeyFor(provider string, log *logger.Logger) string {
	switch provider {
	case ProviderOpenAI:
		return GetEnv("OPENAI_API_KEY", "", log)
	case ProviderGoogle:
		return GetEnv("GOOGLE_API_KEY", "", log)
	default:
		return GetEnv("ANTHROPIC_API_KEY", "", log)
	}
}
