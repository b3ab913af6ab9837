package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SLOT_MINUTES", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./database/fitnessma.db", cfg.DatabaseURL)
	assert.Equal(t, "5001", cfg.Port)
	assert.True(t, cfg.IsTest())
	assert.NotEmpty(t, cfg.JWTSecret, "non-production environments fall back to a dev secret")
	assert.Equal(t, 60, cfg.SlotMinutes)
	assert.Equal(t, 60, cfg.AppointmentDuration)
	assert.Equal(t, []string{"http://localhost:3000", "https://app.example.com"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SeedData)
	assert.False(t, cfg.ImageStorageEnabled())
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("SLOT_MINUTES", "half-hour")
	t.Setenv("SEED_DATA", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.SlotMinutes)
	assert.False(t, cfg.SeedData)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"half hour slots with hour sessions", func(c *Config) { c.SlotMinutes = 30 }, false},
		{"missing database url", func(c *Config) { c.DatabaseURL = "" }, true},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero slot size", func(c *Config) { c.SlotMinutes = 0 }, true},
		{"duration not on grid", func(c *Config) { c.SlotMinutes = 45 }, true},
		{"non-positive rate limit", func(c *Config) { c.BookingRateLimit = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetConfigFallsBackToDefault(t *testing.T) {
	original := appConfig
	defer SetConfig(original)

	SetConfig(nil)
	assert.Equal(t, Default(), GetConfig())

	custom := Default()
	custom.SlotMinutes = 30
	SetConfig(custom)
	assert.Same(t, custom, GetConfig())
}
