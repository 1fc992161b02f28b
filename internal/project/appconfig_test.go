package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ArcadeLayout/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := model.DefaultAppConfig()
	cfg.DarkMode = false
	cfg.SnapThreshold = 15
	cfg.DefaultRoom = model.Room{Width: 12, Height: 9, GridSize: 0.5}
	cfg.Storage = model.StorageJSON
	cfg.RecentLayouts = []string{"/tmp/a_Layout.json", "/tmp/b_Layout.json"}

	require.NoError(t, SaveAppConfig(path, cfg))

	loaded, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.yaml")

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultAppConfig(), cfg)
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simple_mode: false\ndefault_room:\n  width: 0\n"), 0644))

	cfg, err := LoadAppConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.SimpleMode)
	assert.True(t, cfg.DarkMode)
	assert.Equal(t, model.DefaultRoom(), cfg.DefaultRoom, "invalid room falls back to defaults")
	assert.Equal(t, model.DefaultPixelsPerUnit, cfg.PixelsPerUnit)
	assert.NotNil(t, cfg.RecentLayouts)
}

func TestLoadAppConfigCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dark_mode: [unterminated"), 0644))

	_, err := LoadAppConfig(path)
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("ARCADE_LOG_LEVEL", "debug")
	t.Setenv("ARCADE_LOG_FILE", "/tmp/arcade.log")
	t.Setenv("ARCADE_STORAGE", "JSON")
	t.Setenv("ARCADE_DATA_DIR", "/srv/arcade")

	cfg := model.DefaultAppConfig()
	require.NoError(t, ApplyEnvOverrides(&cfg))
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "unset variables keep config values")
	assert.Equal(t, "/tmp/arcade.log", cfg.Log.File)
	assert.Equal(t, model.StorageJSON, cfg.Storage)
	assert.Equal(t, "/srv/arcade", DataDir(cfg))
}

func TestDataDirDefault(t *testing.T) {
	assert.Equal(t, DefaultConfigDir(), DataDir(model.DefaultAppConfig()))
}
