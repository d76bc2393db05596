package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `{
		"username": "s123456",
		"password": "hunter2",
		"line_token": "tok",
		"due_within_hours": 6,
		"watch_minutes": 30,
		"ics_path": "deadlines.ics"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "s123456", cfg.Username)
	assert.Equal(t, "tok", cfg.LineToken)
	assert.Equal(t, 6, cfg.DueWithinHours)
	assert.Equal(t, 30, cfg.WatchMinutes)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "https://letus.ed.tus.ac.jp/my/", cfg.DashboardURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 48, cfg.DueWithinHours)
	assert.Empty(t, cfg.Username)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"username": "from-file", "due_within_hours": 6}`)
	t.Setenv("LETUS_USERNAME", "from-env")
	t.Setenv("LETUS_DUE_WITHIN_HOURS", "12")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Username)
	assert.Equal(t, 12, cfg.DueWithinHours)
}

func TestLoadConfigRejectsMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"username": `)
	_, err := LoadConfig(path)
	assert.Error(t, err)
}
