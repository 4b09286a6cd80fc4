package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.MongoURI)
	assert.NotEmpty(t, cfg.Database)
	assert.NotEmpty(t, cfg.Port)
	assert.NotEmpty(t, cfg.LogLevel)
	assert.NotZero(t, cfg.JWTExpiration)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://example:27017")
	t.Setenv("DATABASE_NAME", "fleet_test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "1h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://example:27017", cfg.MongoURI)
	assert.Equal(t, "fleet_test", cfg.Database)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTExpiration)
}

func TestDir(t *testing.T) {
	dir, err := Dir()
	require.NoError(t, err)
	assert.Contains(t, dir, "fleet-maintenance")
}
