// Package config provides configuration loading from YAML files.
package config

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Auth  AuthConfig  `yaml:"auth"`
	Store StoreConfig `yaml:"store"`
}

// AuthConfig represents identity provider configuration.
type AuthConfig struct {
	ClientID     string `yaml:"client_id" validate:"required"`
	ClientSecret string `yaml:"client_secret" validate:"required"`
	RefreshToken string `yaml:"refresh_token"`
	TokenURL     string `yaml:"token_url" validate:"required,url"`
	UserInfoURL  string `yaml:"userinfo_url" validate:"required,url"`
}

// StoreConfig represents remote store configuration.
type StoreConfig struct {
	Backend string            `yaml:"backend" default:"http" validate:"oneof=http sqlite"`
	HTTP    HTTPStoreConfig   `yaml:"http"`
	SQLite  SQLiteStoreConfig `yaml:"sqlite"`
}

// HTTPStoreConfig represents the HTTP document store backend.
type HTTPStoreConfig struct {
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
	APIKey     string `yaml:"api_key"`
	TimeoutSec int    `yaml:"timeout_sec" default:"10" validate:"gte=1,lte=60"`
	MaxRetries int    `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
}

// SQLiteStoreConfig represents the SQLite store backend.
type SQLiteStoreConfig struct {
	Path string `yaml:"path" default:"tunedeck.db"`
}

// Load loads configuration from a YAML file.
// Environment variables take precedence over file values for sensitive fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	// Override with environment variables
	cfg.overrideFromEnv()

	// Set defaults using creasty/defaults
	if err := defaults.Set(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to set defaults")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables.
func (c *Config) overrideFromEnv() {
	if v := os.Getenv("AUTH_CLIENT_ID"); v != "" {
		c.Auth.ClientID = v
	}
	if v := os.Getenv("AUTH_CLIENT_SECRET"); v != "" {
		c.Auth.ClientSecret = v
	}
	if v := os.Getenv("AUTH_REFRESH_TOKEN"); v != "" {
		c.Auth.RefreshToken = v
	}
	if v := os.Getenv("STORE_API_KEY"); v != "" {
		c.Store.HTTP.APIKey = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "struct validation failed")
	}

	// The HTTP backend cannot run without an endpoint
	if c.Store.Backend == "http" && c.Store.HTTP.BaseURL == "" {
		return errors.New("store.http.base_url is required for the http backend")
	}

	return nil
}
