// Copyright (c) 2026 Scolaria. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, cookies) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Scolaria API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Cryptographic keys for CSRF and session signing
	SessionSecret  string `env:"SESSION_SECRET,required,notEmpty"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Multi-tenant routing. Each establishment lives on <slug>.RootDomain.
	RootDomain string `env:"ROOT_DOMAIN"`
	BaseURL    string `env:"BASE_URL" envDefault:"http://localhost:3000"`

	// Set only behind an edge that overwrites X-Forwarded-Host/Proto.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Session lifetime
	SessionMaxAge    time.Duration `env:"SESSION_MAX_AGE"    envDefault:"720h"`
	SessionUpdateAge time.Duration `env:"SESSION_UPDATE_AGE" envDefault:"24h"`

	// Pages the browser is sent to by the auth routes
	SignInPath string `env:"AUTH_SIGNIN_PATH" envDefault:"/login"`
	ErrorPath  string `env:"AUTH_ERROR_PATH"  envDefault:"/login"`

	// Login throttling (disabled unless explicitly turned on)
	LoginThrottleEnabled bool          `env:"LOGIN_THROTTLE_ENABLED" envDefault:"false"`
	LoginThrottleLimit   int           `env:"LOGIN_THROTTLE_LIMIT"   envDefault:"5"`
	LoginThrottleWindow  time.Duration `env:"LOGIN_THROTTLE_WINDOW"  envDefault:"15m"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	cfg.RootDomain = strings.Trim(strings.ToLower(strings.TrimSpace(cfg.RootDomain)), ".")

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects combinations that would silently weaken the session setup.
func (c *Config) validate() error {
	if c.SessionMaxAge <= 0 {
		return errors.New("config: SESSION_MAX_AGE must be positive")
	}
	if c.SessionUpdateAge < 0 || c.SessionUpdateAge > c.SessionMaxAge {
		return errors.New("config: SESSION_UPDATE_AGE must be between 0 and SESSION_MAX_AGE")
	}
	if c.LoginThrottleEnabled && (c.LoginThrottleLimit <= 0 || c.LoginThrottleWindow <= 0) {
		return errors.New("config: login throttle requires a positive limit and window")
	}
	if !strings.HasPrefix(c.SignInPath, "/") || !strings.HasPrefix(c.ErrorPath, "/") {
		return errors.New("config: auth page paths must be absolute paths")
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the additional CORS origins configured via EXTRA_ORIGINS.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// PlatformDomain returns the root domain used for tenant subdomains.
func (c *Config) PlatformDomain() string {
	return c.RootDomain
}
