package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "microblog.db", cfg.Database)
	assert.Equal(t, 24*time.Hour, cfg.SessionLifetime())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
addr = ":9000"
database = "/tmp/blog.db"
session_hours = 1
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "/tmp/blog.db", cfg.Database)
	assert.Equal(t, time.Hour, cfg.SessionLifetime())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `addr = ":9000"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "microblog.db", cfg.Database)
	assert.Equal(t, 24, cfg.SessionHours)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(t, err)
}

func TestLoadInvalidSessionHours(t *testing.T) {
	path := writeConfig(t, `session_hours = 0`)

	_, err := Load(path)
	assert.ErrorContains(t, err, "session_hours")
}

func TestPortEnvOverridesAddr(t *testing.T) {
	t.Setenv("PORT", "9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
}
