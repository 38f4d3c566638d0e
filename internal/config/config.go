// Package config loads process configuration for the coffeeshop-api
// binary from the environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"

	"github.com/coffeeshop/authgate/jwks"
)

// Config holds everything the demo API needs to build its AuthGate.
type Config struct {
	// Domain is the identity provider tenant, e.g. "coffee.us.auth0.com".
	Domain string `env:"AUTH0_DOMAIN,required"`
	// Audience is the API identifier tokens must be issued for.
	Audience string `env:"API_AUDIENCE,required"`
	// Algorithms are separated by ";".
	Algorithms       []string      `env:"AUTH_ALGORITHMS,default=RS256"`
	ClockSkew        time.Duration `env:"AUTH_CLOCK_SKEW,default=0s"`
	JWKSFetchTimeout time.Duration `env:"JWKS_FETCH_TIMEOUT,default=10s"`
	// RedisAddr enables the shared key set fallback when set.
	RedisAddr  string `env:"REDIS_ADDR"`
	ListenAddr string `env:"LISTEN_ADDR,default=:8080"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`
}

// Load reads envFile if it exists and decodes the environment into a
// Config. Variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values envdecode cannot express in tags.
func (c *Config) Validate() error {
	domain := strings.TrimSpace(c.Domain)
	if domain == "" {
		return errors.New("AUTH0_DOMAIN cannot be empty")
	}
	if strings.Contains(strings.TrimSuffix(strings.TrimPrefix(domain, "https://"), "/"), "/") {
		return fmt.Errorf("AUTH0_DOMAIN must be a bare host, got %q", c.Domain)
	}
	if c.Audience == "" {
		return errors.New("API_AUDIENCE cannot be empty")
	}
	if len(c.Algorithms) == 0 {
		return errors.New("AUTH_ALGORITHMS cannot be empty")
	}
	if c.JWKSFetchTimeout <= 0 {
		return errors.New("JWKS_FETCH_TIMEOUT must be positive")
	}
	if c.ClockSkew < 0 {
		return errors.New("AUTH_CLOCK_SKEW cannot be negative")
	}
	return nil
}

func (c *Config) host() string {
	return strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(c.Domain), "https://"), "/")
}

// IssuerURL is the expected "iss" claim: "https://<domain>/".
func (c *Config) IssuerURL() string {
	return "https://" + c.host() + "/"
}

// JWKSURL is the tenant's well-known key set document.
func (c *Config) JWKSURL() string {
	return jwks.WellKnownURL(c.host())
}
