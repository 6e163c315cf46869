package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "go-chi-keypad", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.TracesEnabled)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.LogsEnabled)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.Equal(t, time.Minute, cfg.SessionSweepInterval)
	assert.Equal(t, 10000, cfg.SessionMax)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_DEVELOPMENT", "true")
	t.Setenv("OTEL_TRACES_ENABLED", "false")
	t.Setenv("SESSION_IDLE_TTL", "90s")
	t.Setenv("SESSION_MAX", "3")

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.True(t, cfg.LogDevelopment)
	assert.False(t, cfg.TracesEnabled)
	assert.Equal(t, 90*time.Second, cfg.SessionIdleTTL)
	assert.Equal(t, 3, cfg.SessionMax)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SESSION_SWEEP_INTERVAL=10s\nLOG_LEVEL=debug\n"), 0o600))

	t.Setenv("LOG_LEVEL", "warn")
	// godotenv sets variables for the whole process; make sure t.Setenv
	// restores SESSION_SWEEP_INTERVAL afterwards.
	t.Setenv("SESSION_SWEEP_INTERVAL", "")
	require.NoError(t, os.Unsetenv("SESSION_SWEEP_INTERVAL"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.SessionSweepInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SESSION_MAX", "0")
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_MAX")
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "soon")

	_, err := Load(missingEnvFile(t))
	assert.Error(t, err)
}
