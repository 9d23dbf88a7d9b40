package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

var knownWeakSecrets = []string{
	"change-me", "dev-secret-change-me", "secret", "admin", "password",
}

// SessionBackend selects which session persistence strategy is active.
// Exactly one is used per deployment; the guard and the auth handlers
// always go through the same store.
const (
	SessionBackendCookie = "cookie"
	SessionBackendLocal  = "local"
)

type Config struct {
	Port                int    `env:"PORT" envDefault:"8080"`
	BackendBaseURL      string `env:"BACKEND_BASE_URL,required"`
	SessionBackend      string `env:"SESSION_BACKEND" envDefault:"cookie"`
	SessionSecret       string `env:"SESSION_SECRET"`
	DatabaseURL         string `env:"DATABASE_URL"`
	RedisURL            string `env:"REDIS_URL"`
	LoginTimeoutSeconds int    `env:"LOGIN_TIMEOUT_SECONDS" envDefault:"10"`
	StaticDir           string `env:"STATIC_DIR" envDefault:"static/dashboard"`
	LogLevel            string `env:"LOG_LEVEL" envDefault:"info"`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) LoginTimeout() time.Duration {
	return time.Duration(c.LoginTimeoutSeconds) * time.Second
}

// Validate checks deployment-level invariants. A missing session
// secret for the cookie backend is a misconfiguration, not a runtime
// error: the process must refuse to serve rather than fall back to an
// unsigned session.
func (c *Config) Validate(isProduction bool) error {
	switch c.SessionBackend {
	case SessionBackendCookie:
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET is required for the cookie session backend")
		}
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the cookie session backend (revocation registry)")
		}
	case SessionBackendLocal:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the local session backend")
		}
	default:
		return fmt.Errorf("SESSION_BACKEND must be %q or %q, got %q",
			SessionBackendCookie, SessionBackendLocal, c.SessionBackend)
	}

	if !strings.HasPrefix(c.BackendBaseURL, "http://") && !strings.HasPrefix(c.BackendBaseURL, "https://") {
		return fmt.Errorf("BACKEND_BASE_URL must be an http(s) URL")
	}

	if isProduction {
		if c.SessionBackend == SessionBackendCookie {
			if err := validateSecret("SESSION_SECRET", c.SessionSecret); err != nil {
				return err
			}
		}
		if c.SessionBackend == SessionBackendLocal {
			log.Warn().Msg("SESSION_BACKEND=local in production: route protection runs after client code loads; prefer the cookie backend")
		}
		if strings.HasPrefix(c.RedisURL, "redis://") {
			log.Warn().Msg("REDIS_URL uses redis:// (not TLS) in production: consider using rediss://")
		}
	}

	return nil
}

func validateSecret(name, value string) error {
	if len(value) < 32 {
		return fmt.Errorf("%s must be at least 32 characters in production (generate with: openssl rand -base64 32)", name)
	}
	for _, weak := range knownWeakSecrets {
		if value == weak {
			return fmt.Errorf("%s is a known weak default; set a strong secret in production", name)
		}
	}
	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
