package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"visiostar-nodes/backend/internal/constants"
	apperrors "visiostar-nodes/backend/pkg/errors"
)

// Config holds all application configuration
type Config struct {
	// App
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	// Providers
	DeepSeekAPIKey     string `envconfig:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL    string `envconfig:"DEEPSEEK_BASE_URL" default:"https://api.deepseek.com"`
	SiliconFlowAPIKey  string `envconfig:"SILICONFLOW_API_KEY"`
	SiliconFlowBaseURL string `envconfig:"SILICONFLOW_BASE_URL" default:"https://api.siliconflow.cn/v1"`

	// Composer defaults
	DefaultProvider  string        `envconfig:"DEFAULT_PROVIDER" default:"deepseek"`
	DefaultModel     string        `envconfig:"DEFAULT_MODEL" default:"deepseek-chat"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"60s"`
	BatchConcurrency int           `envconfig:"BATCH_CONCURRENCY" default:"4"`
}

// Load reads configuration from the environment, after merging a .env file
// if one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config processing failed: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	switch c.DefaultProvider {
	case constants.ProviderDeepSeek, constants.ProviderSiliconFlow:
	default:
		return apperrors.NewConfigValidationFailed("DEFAULT_PROVIDER", fmt.Sprintf("unknown provider %q", c.DefaultProvider))
	}
	if c.DefaultModel == "" {
		return apperrors.NewConfigMissingRequired("DEFAULT_MODEL")
	}
	if c.RequestTimeout <= 0 {
		return apperrors.NewConfigValidationFailed("REQUEST_TIMEOUT", "must be positive")
	}
	if c.BatchConcurrency <= 0 {
		return apperrors.NewConfigValidationFailed("BATCH_CONCURRENCY", "must be positive")
	}
	// API keys are optional: callers may pass their own per request.
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
