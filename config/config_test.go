package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com/api/")
	t.Setenv("STORE_DRIVER", "")

	cfg := LoadConfig()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "https://api.example.com/api", cfg.APIBaseURL)
	assert.Equal(t, "gorm", cfg.StoreDriver)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, "0 3 * * *", cfg.HousekeepingCron)
	assert.False(t, cfg.IsProduction())
}

func TestGetEnvDuration(t *testing.T) {
	t.Setenv("X_TIMEOUT", "90s")
	assert.Equal(t, 90*time.Second, getEnvDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "30")
	assert.Equal(t, 30*time.Second, getEnvDuration("X_TIMEOUT", time.Second))

	t.Setenv("X_TIMEOUT", "soon")
	assert.Equal(t, time.Second, getEnvDuration("X_TIMEOUT", time.Second))
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("X_SECURE", "true")
	assert.True(t, getEnvBool("X_SECURE", false))

	t.Setenv("X_SECURE", "maybe")
	assert.False(t, getEnvBool("X_SECURE", false))
}

func TestIsProduction(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "Production"}).IsProduction())
	assert.True(t, (&Config{AppEnv: "prod"}).IsProduction())
	assert.False(t, (&Config{AppEnv: "staging"}).IsProduction())
}
