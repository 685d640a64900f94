// Package config holds the client-side configuration: where the backend
// lives and where the session token is kept between runs.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration for the session client.
type Config struct {
	// Backend endpoint
	APIURL string `env:"CORPSUITE_API_URL" envDefault:"http://localhost:8000"`

	// Token persistence. Empty TokenPath means the per-user config dir.
	TokenPath string `env:"CORPSUITE_TOKEN_PATH"`

	// HTTP behaviour
	RequestTimeout time.Duration `env:"CORPSUITE_REQUEST_TIMEOUT" envDefault:"15s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads configuration from environment variables and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load configuration from environment: " + err.Error())
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.APIURL == "" {
		return nil, errors.New("corpsuite_api_url is required")
	}
	if !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return nil, errors.New("corpsuite_api_url must start with http:// or https://")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 15 * time.Second
	}

	if cfg.TokenPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.New("failed to resolve config dir for token store: " + err.Error())
		}
		cfg.TokenPath = filepath.Join(dir, "corpsuite", "session.db")
	}

	return cfg, nil
}
