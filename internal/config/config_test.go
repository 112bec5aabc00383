package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: "9090"
storage:
  type: minio
jwt:
  secret: short
  expire_hours: 2
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
	assert.Equal(t, "logs/app.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.RateLimit.QuizStartPerMinute)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
}

func TestLoadConfigReadsAdminSecretFromEnv(t *testing.T) {
	dir := writeConfig(t, "storage:\n  type: minio\n")
	t.Setenv("ADMIN_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Admin.Secret)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
storage:
  type: minio
jwt:
  secret: too-short
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret is too short")
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := &Config{
		AI:        AIConfig{Provider: "llama"},
		RateLimit: RateLimitConfig{MaxRequests: 1, WindowMinutes: 1},
	}
	assert.Error(t, cfg.Validate())

	cfg.AI.Provider = "gemini"
	assert.NoError(t, cfg.Validate())
}
