package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "auto", cfg.UI.Theme)
	assert.Equal(t, 25, cfg.UI.EventsPageSize)
	assert.False(t, cfg.Logging.DebugMode)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://localhost:8000
  timeout: 5s
ui:
  theme: dark
  events_page_size: 50
logging:
  debug_mode: true
  level: debug
`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.Equal(t, 50, cfg.UI.EventsPageSize)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://from-file\n"), 0644))

	t.Setenv("TOKENWATCHER_API_URL", "http://from-env:9000")
	t.Setenv("TOKENWATCHER_THEME", "light")
	t.Setenv("TOKENWATCHER_DEBUG", "1")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:9000", cfg.API.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.True(t, cfg.Logging.DebugMode)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.API.Timeout = "soon"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.UI.Theme = "solarized"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.API.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestDirHonorsOverride(t *testing.T) {
	t.Setenv("TOKENWATCHER_HOME", "/tmp/tw-test")
	dir, err := Dir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tw-test", dir)
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [not, a, map"), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}
