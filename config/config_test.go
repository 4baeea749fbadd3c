package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "pantry")
	t.Setenv("DB_PASSWORD", "pantry-pass")
	t.Setenv("DB_NAME", "pantryplan_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://app.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "pantry", cfg.DBUser)
	assert.Equal(t, "pantry-pass", cfg.DBPassword)
	assert.Equal(t, "pantryplan_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, []string{"http://localhost:5173", "https://app.example.com"}, cfg.AllowedOrigins)

	assert.Equal(t, "host=db.internal port=5433 user=pantry password=pantry-pass dbname=pantryplan_test sslmode=disable", cfg.DatabaseDSN())
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "pantryplan", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateConfigProduction(t *testing.T) {
	t.Setenv("ENV", "production")

	cfg := &Config{
		ServerPort: "8080",
		DBHost:     "db",
		DBName:     "pantryplan",
		DBSSLMode:  "disable",
		JWTSecret:  "secret",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db_password")
	assert.Contains(t, err.Error(), "DB_SSL_MODE")
}
