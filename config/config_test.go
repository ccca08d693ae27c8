package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KNACK_TIMEOUT", "not-a-number")
	t.Setenv("EXECUTION_RETENTION", "")

	cfg := Load()
	assert.Equal(t, 30*time.Second, cfg.KnackTimeout)
	assert.Equal(t, 24*time.Hour, cfg.ExecutionRetention)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KNACK_APPLICATION_ID", "app_1")
	t.Setenv("KNACK_API_KEY", "key_1")
	t.Setenv("KNACK_TIMEOUT", "5")
	t.Setenv("CLEANUP_INTERVAL", "10")

	cfg := Load()
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "app_1", cfg.KnackApplicationID)
	assert.Equal(t, "key_1", cfg.KnackAPIKey)
	assert.Equal(t, 5*time.Second, cfg.KnackTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CleanupInterval)
}
