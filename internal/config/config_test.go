package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "DB_DRIVER", "SESSION_EXPIRES_IN", "RESET_TOKEN_EXPIRES_IN", "COOKIE_SECURE", "BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.SessionDuration)
	assert.Equal(t, time.Hour, cfg.ResetTokenDuration)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.ShowResetLinkInPage)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("SESSION_EXPIRES_IN", "2h")
	t.Setenv("RESET_TOKEN_EXPIRES_IN", "not-a-duration")
	t.Setenv("BASE_URL", "https://expenses.example.com/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.SessionDuration)
	assert.Equal(t, time.Hour, cfg.ResetTokenDuration, "invalid duration falls back to default")
	assert.True(t, cfg.CookieSecure, "production defaults to secure cookies")
	assert.False(t, cfg.ShowResetLinkInPage)
	assert.Equal(t, "https://expenses.example.com", cfg.BaseURL)
	assert.Equal(t, "prod-secret", cfg.SessionSecret)
}

func TestLoad_CookieSecureExplicit(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_ProductionRequiresSessionSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_DevelopmentFallsBackToDevSecret(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, devSessionSecret, cfg.SessionSecret)
}
