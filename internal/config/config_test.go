package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir, "")
	require.NoError(t, err)

	// First run materializes a commented default config.yaml.
	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "fetch:")

	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(4<<20), cfg.Fetch.MaxBodyBytes)
	assert.False(t, cfg.Fetch.Disabled)
	assert.NotEmpty(t, cfg.DatabasePath)
}

func TestLoadReadsValues(t *testing.T) {
	dir := t.TempDir()
	content := `database: /tmp/custom/linkpad.db
fetch:
  timeout: 30s
  max_body_bytes: 1024
  disabled: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom/linkpad.db", cfg.DatabasePath)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, int64(1024), cfg.Fetch.MaxBodyBytes)
	assert.True(t, cfg.Fetch.Disabled)
}

func TestLoadDBFlagWins(t *testing.T) {
	dir := t.TempDir()
	content := "database: /tmp/from-config.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir, "/tmp/from-flag.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-flag.db", cfg.DatabasePath)
}

func TestResolveConfigDirPrecedence(t *testing.T) {
	t.Setenv(EnvConfigDir, "/tmp/from-env")

	dir, err := ResolveConfigDir("/tmp/from-flag")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-flag", dir)

	dir, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env", dir)
}

func TestResolveDatabasePathPrecedence(t *testing.T) {
	t.Setenv(EnvDataDir, "/tmp/data-env")

	path, err := ResolveDatabasePath("", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/data-env", "linkpad.db"), path)

	path, err = ResolveDatabasePath("", "/tmp/configured.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/configured.db", path)

	path, err = ResolveDatabasePath("/tmp/flagged.db", "/tmp/configured.db")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flagged.db", path)
}

func TestDefaultDirsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	if dir, err := DefaultConfigDir(); err == nil {
		assert.Contains(t, dir, "linkpad")
	}
	if dir, err := DefaultDataDir(); err == nil {
		assert.Contains(t, dir, "linkpad")
	}
}
