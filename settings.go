package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Settings holds environment-only configuration. It is read after .env is loaded.
type Settings struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`

	// Underscore spelling of NGROK_AUTHTOKEN
	NgrokAuthTokenAlt string `env:"NGROK_AUTH_TOKEN"`
}

// loadSettings parses Settings from the environment
func loadSettings() (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &s, nil
}

// ngrokToken returns the ngrok auth token from either variable
func (s *Settings) ngrokToken() string {
	if s.NgrokAuthToken != "" {
		return s.NgrokAuthToken
	}
	return s.NgrokAuthTokenAlt
}
