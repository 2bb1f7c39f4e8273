package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "*", cfg.Server.CorsOrigin)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, 60, cfg.RateLimit.WriteMax)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wisewallet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
database:
  url: postgres://file/db
  max_conns: 4
auth:
  project_id: wisewallet-prod
ratelimit:
  window: 30s
`), 0o600))

	t.Setenv("WISEWALLET_AUTH_DEV_SECRET", "s3cret")
	t.Setenv("WISEWALLET_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgres://file/db", cfg.Database.URL)
	assert.Equal(t, int32(4), cfg.Database.MaxConns)
	assert.Equal(t, "wisewallet-prod", cfg.Auth.ProjectID)
	assert.Equal(t, "s3cret", cfg.Auth.DevSecret)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestPlatformEnv(t *testing.T) {
	chdirTemp(t)
	t.Setenv("DATABASE_URL", "postgres://platform/db")
	t.Setenv("PORT", "5555")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://platform/db", cfg.Database.URL)
	assert.Equal(t, ":5555", cfg.Addr())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{RateLimit: RateLimitConfig{WriteMax: 60, Window: time.Minute}}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url is required")
	assert.Contains(t, err.Error(), "auth.project_id or auth.dev_secret is required")

	cfg.Database.URL = "postgres://x"
	cfg.Auth.DevSecret = "dev"
	assert.NoError(t, cfg.Validate())
}
