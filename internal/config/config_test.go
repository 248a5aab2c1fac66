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

	assert.Equal(t, "hospital-complaint-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())

	assert.Equal(t, 10*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 24*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.Equal(t, "access_token", cfg.Auth.AccessCookieName)
	assert.Equal(t, "refresh_token", cfg.Auth.RefreshCookieName)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)

	assert.Equal(t, "qr:jobs", cfg.QR.QueueKey)
	assert.Equal(t, "media/qr_codes", cfg.QR.OutputDir)
	assert.Equal(t, 3, cfg.QR.MaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.QR.RetryBackoff())

	assert.Equal(t, "media/complaint_images", cfg.Media.Dir)
	assert.True(t, cfg.Postgres.RunMigrations)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "5")
	t.Setenv("QR_RETRY_BACKOFF_MS", "250")
	t.Setenv("POSTGRES_RUN_MIGRATIONS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 250*time.Millisecond, cfg.QR.RetryBackoff())
	assert.False(t, cfg.Postgres.RunMigrations)
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	_, err := Load()
	assert.Error(t, err)
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("AUTH_BCRYPT_COST", "high")
	t.Setenv("AUTH_COOKIE_SECURE", "yes-please")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Auth.CookieSecure)
}
