package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks cross-field constraints that tag-level validation
// cannot express.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		errs = append(errs, "database.min_conns exceeds max_conns")
	}
	if c.RateLimit.PerMinute <= 0 {
		errs = append(errs, "rate_limit.per_minute must be positive")
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format %q must be json or text", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
