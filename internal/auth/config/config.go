package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the auth module.
type Config struct {
	// MongoDB
	MongoDBURI   string `env:"MONGODB_URI,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"corpsuite"`

	// Redis (OAuth state storage)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// JWT
	JWTSecretKey   string        `env:"JWT_SECRET_KEY,required"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"corpsuite-auth"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"60m"`

	// OAuth providers
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID" envDefault:""`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET" envDefault:""`
	GitHubClientID     string        `env:"GITHUB_CLIENT_ID" envDefault:""`
	GitHubClientSecret string        `env:"GITHUB_CLIENT_SECRET" envDefault:""`
	OAuthRedirectURL   string        `env:"OAUTH_REDIRECT_URL" envDefault:"http://localhost:3000/oauth/callback"`
	OAuthStateTTL      time.Duration `env:"OAUTH_STATE_TTL" envDefault:"30m"`

	// Subscriptions
	DefaultPlan         string `env:"DEFAULT_SUBSCRIPTION_PLAN" envDefault:"basic"`
	DefaultPlanDuration int    `env:"DEFAULT_PLAN_DURATION_DAYS" envDefault:"30"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}

	if cfg.JWTSecretKey == "" {
		return nil, errors.New("jwt_secret_key is required")
	}
	if cfg.MongoDBURI == "" {
		return nil, errors.New("mongodb_uri is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = time.Hour
	}
	if cfg.OAuthStateTTL <= 0 {
		cfg.OAuthStateTTL = 30 * time.Minute
	}
	if cfg.DefaultPlanDuration <= 0 {
		cfg.DefaultPlanDuration = 30
	}

	return cfg, nil
}
