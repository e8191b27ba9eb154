package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8053", c.BaseURL)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, "kbconsole.db", c.SessionDB)
	assert.Equal(t, "info", c.LogLevel)
	assert.Empty(t, c.DownloadDir)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8053", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv(EnvBaseURL, "http://env:1")
	t.Setenv(EnvLogLevel, "warn")
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"base_url":   "http://json:2",
		"session_db": "json.db",
	})
	os.Args = []string{"testbin", "-c", path, "-d", "flag.db"}

	cfg := LoadConfig()

	assert.Equal(t, "http://json:2", cfg.BaseURL)
	assert.Equal(t, "flag.db", cfg.SessionDB)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
}
