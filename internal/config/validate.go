package config

import (
	"errors"
	"fmt"
)

const minSessionSecretLen = 32

// Validate checks cross-field rules. Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverPGX:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", c.Database.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("database.driver must be postgres, pgx or memory (got %q)", c.Database.Driver)
	}

	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("rate_limit: %w", err)
	}

	if c.Admin.Password == "" {
		return errors.New("admin.password is required")
	}
	if len(c.Admin.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("admin.session_secret must be at least %d characters (got %d)",
			minSessionSecretLen, len(c.Admin.SessionSecret))
	}
	if c.Admin.SessionTTL <= 0 {
		return fmt.Errorf("admin.session_ttl must be > 0 (got %s)", c.Admin.SessionTTL)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range (got %d)", c.Server.Port)
	}

	return nil
}

func (r *RateLimitConfig) validate() error {
	if r.Limit <= 0 {
		return fmt.Errorf("limit must be > 0 (got %d)", r.Limit)
	}
	if r.Window <= 0 {
		return fmt.Errorf("window must be > 0 (got %s)", r.Window)
	}
	switch r.Backend {
	case LimiterMemory:
	case LimiterRedis:
		if r.RedisURL == "" {
			return errors.New("redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("backend must be memory or redis (got %q)", r.Backend)
	}
	return nil
}
