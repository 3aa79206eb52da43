package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, int64(5<<20), cfg.MediaMaxBytes)
		assert.Equal(t, 168*time.Hour, cfg.DraftTTL)
		assert.Equal(t, 10, cfg.RateLimitBurst)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("Environment Variables", func(t *testing.T) {
		t.Setenv("PORT", "9999")
		t.Setenv("DRAFT_TTL", "30m")
		t.Setenv("PUBLIC_BASE_URL", "https://bio.example.com/")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, 30*time.Minute, cfg.DraftTTL)
		assert.Equal(t, "https://bio.example.com", cfg.PublicBaseURL)
	})

	t.Run("Production Requires Secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "must be changed in production")

		t.Setenv("SESSION_SECRET", "a-real-production-secret-of-enough-length")
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestValidate(t *testing.T) {
	valid := Config{
		SessionSecret: defaultSessionSecret,
		MediaMaxBytes: 1,
		DraftTTL:      time.Minute,
	}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.MediaMaxBytes = 0
	bad.DraftTTL = -time.Second
	bad.RateLimitBurst = -1
	bad.SessionSecret = "short"
	err := bad.Validate()
	require.Error(t, err)
	for _, msg := range []string{"MEDIA_MAX_BYTES", "DRAFT_TTL", "RATE_LIMIT_BURST", "at least 32 bytes"} {
		assert.ErrorContains(t, err, msg)
	}
}
