package config

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, "PORT", "SEARCH_DEPTH", "DEFAULT_DIFFICULTY", "SESSION_TTL", "REDIS_URL")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.SearchDepth)
	assert.Equal(t, "hard", cfg.DefaultDifficulty)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SEARCH_DEPTH", "7")
	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("FRONTEND_URL", "https://play.example.com")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test, ,http://b.test")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 7, cfg.SearchDepth)
	assert.Equal(t, 90*time.Second, cfg.SessionIdleTimeout)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"https://play.example.com", "http://a.test", "http://b.test"}, cfg.Origins())
}

func TestLoadConfigRejectsBadDepth(t *testing.T) {
	t.Setenv("SEARCH_DEPTH", "0")

	_, err := LoadConfig()

	require.Error(t, err)
}

func TestValidateWarnsOnDefaultSecret(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	unsetenv(t, "JWT_SECRET", "LOG_LEVEL")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Contains(t, buf.String(), "JWT_SECRET is the public default")

	buf.Reset()
	cfg.LogLevel = "debug"
	require.NoError(t, cfg.Validate())
	assert.NotContains(t, buf.String(), "JWT_SECRET")

	buf.Reset()
	cfg.LogLevel = "info"
	cfg.JWTSecret = "a-private-secret"
	require.NoError(t, cfg.Validate())
	assert.NotContains(t, buf.String(), "JWT_SECRET")
}

// unsetenv clears keys for the test and restores them afterwards.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}
