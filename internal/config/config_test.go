package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "Europe/Moscow", cfg.Timezone)
	assert.Equal(t, "data/cleaning.db", cfg.Database.Path)
	assert.Equal(t, 2, cfg.Calendar.WindowBack)
	assert.Equal(t, 7, cfg.Calendar.WindowForward)
	assert.Equal(t, 7, cfg.Calendar.OverdueLookback)
}

func TestLoad_ParsesYAMLAndFillsGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
timezone: "UTC"
database:
  path: /tmp/test.db
calendar:
  window_forward_days: 14
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "/tmp/test.db", cfg.Database.Path)
	assert.Equal(t, 14, cfg.Calendar.WindowForward)
	// unset values still get defaults
	assert.Equal(t, 2, cfg.Calendar.WindowBack)
	assert.Equal(t, 7, cfg.Calendar.OverdueLookback)
}

func TestLoad_ListenAddrOverride(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7070")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Listen)
}

func TestLoad_RejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "Europe/Moscow"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
