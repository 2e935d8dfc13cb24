// Package config loads the server configuration from environment variables.
//
// Everything has a default except the JWT secret — the server refuses to
// start without one rather than falling back to a guessable value. The env
// tags are parsed by caarlos0/env, so the full configuration surface is
// readable from this one struct.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Server      struct {
		Port            int `env:"PORT" envDefault:"8080"`
		ReadTimeout     int `env:"READ_TIMEOUT" envDefault:"15"`  // seconds
		WriteTimeout    int `env:"WRITE_TIMEOUT" envDefault:"15"` // seconds
		IdleTimeout     int `env:"IDLE_TIMEOUT" envDefault:"60"`  // seconds
		ShutdownTimeout int `env:"SHUTDOWN_TIMEOUT" envDefault:"30"`
	} `envPrefix:"SERVER_"`
	Database struct {
		Path string `env:"PATH" envDefault:"data/internboard.db"`
	} `envPrefix:"DB_"`
	JWT struct {
		// Generate with: openssl rand -hex 32
		Secret string `env:"SECRET,required"`
	} `envPrefix:"JWT_"`
	GitHub struct {
		ClientID     string `env:"CLIENT_ID"`
		ClientSecret string `env:"CLIENT_SECRET"`
		CallbackURL  string `env:"CALLBACK_URL"`
	} `envPrefix:"GITHUB_"`
}

// OAuthEnabled reports whether GitHub sign-in is configured. Without
// credentials the OAuth routes are simply not registered.
func (c *Config) OAuthEnabled() bool {
	return c.GitHub.ClientID != "" && c.GitHub.ClientSecret != ""
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		// env returns every failure at once; the first one is enough to
		// act on and keeps the startup error readable.
		aggErr := env.AggregateError{}
		if errors.As(err, &aggErr) && len(aggErr.Errors) > 0 {
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return cfg, nil
}
