// Package app wires runtime configuration and logging for the console
// binaries.
package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the console.
type Config struct {
	AppEnv string `envconfig:"APP_ENV" default:"development"`

	// APIBaseURL is the remote admin backend.
	APIBaseURL     string        `envconfig:"AMOURA_API_URL" default:"http://localhost:8080"`
	RequestTimeout time.Duration `envconfig:"AMOURA_REQUEST_TIMEOUT" default:"30s"`

	// CredentialsFile is the durable session location when Redis is not
	// configured. Empty means ~/.amoura/credentials.json.
	CredentialsFile string `envconfig:"AMOURA_CREDENTIALS_FILE" default:""`

	// RedisAddr switches the session store to Redis when set.
	RedisAddr   string `envconfig:"AMOURA_REDIS_ADDR" default:""`
	RedisPrefix string `envconfig:"AMOURA_REDIS_PREFIX" default:"amoura:console"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		return nil, errors.New("backend API URL must be provided")
	}
	if cfg.CredentialsFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.CredentialsFile = filepath.Join(home, ".amoura", "credentials.json")
	}
	return &cfg, nil
}

// IsProduction returns true when the console runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
