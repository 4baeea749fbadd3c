package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is usable in the current
// environment. Production refuses to start without real credentials;
// development and test tolerate empty passwords for local databases.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.ServerPort == "" {
		errors = append(errors, "server port is required")
	}
	if cfg.DBHost == "" || cfg.DBName == "" {
		errors = append(errors, "database host and name are required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT_SECRET (or jwt_secret secret) is required")
	}

	if IsProduction() {
		if cfg.DBPassword == "" {
			errors = append(errors, "db_password secret is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errors = append(errors, "DB_SSL_MODE must not be disable in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}
	return nil
}
