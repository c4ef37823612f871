package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key := range envKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	want := Default()
	want.Token = "secret"
	assert.Equal(t, want, cfg)
	assert.Equal(t, ":5000", cfg.Addr())
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
token: from-file
server:
  port: 8080
  origin: http://localhost:3000
  request_timeout: 3s
log:
  level: debug
spaces:
  bucket: archive
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Token)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Server.Origin)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "logs", cfg.Log.Dir)
	assert.Equal(t, "archive", cfg.Spaces.Bucket)
	assert.Equal(t, "fra1", cfg.Spaces.Region)
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "token: from-file\nserver:\n  port: 8080\n")
	t.Setenv("BOT_TOKEN", "from-env")
	t.Setenv("PORT", "9000")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("UNRELATED", "ignored")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.RequestTimeout)
}

func TestLoadValidation(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		clearEnv(t)
		_, err := Load("")
		assert.ErrorContains(t, err, "BOT_TOKEN")
	})
	t.Run("bad port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("BOT_TOKEN", "secret")
		t.Setenv("PORT", "70000")
		_, err := Load("")
		assert.ErrorContains(t, err, "invalid port")
	})
	t.Run("bad yaml", func(t *testing.T) {
		clearEnv(t)
		_, err := Load(writeConfig(t, "server: [unterminated"))
		assert.Error(t, err)
	})
}
