package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/piwi3910/ArcadeLayout/internal/model"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g. ARCADE_LOG_LEVEL.
const EnvPrefix = "ARCADE"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.arcadelayout/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".arcadelayout")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// SaveAppConfig persists an AppConfig to the given path as YAML.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given path. Fields missing from
// the file keep their defaults. If the file does not exist, it returns
// DefaultAppConfig with no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	config := model.DefaultAppConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return model.AppConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.RecentLayouts == nil {
		config.RecentLayouts = []string{}
	}
	if !config.DefaultRoom.Valid() {
		config.DefaultRoom = model.DefaultRoom()
	}
	if config.PixelsPerUnit <= 0 {
		config.PixelsPerUnit = model.DefaultPixelsPerUnit
	}
	return config, nil
}

// envOverrides lists the settings that may be overridden from the environment.
type envOverrides struct {
	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`
	LogFile   string `envconfig:"LOG_FILE"`
	DataDir   string `envconfig:"DATA_DIR"`
	Storage   string `envconfig:"STORAGE"`
}

// ApplyEnvOverrides overlays ARCADE_* environment variables onto config.
// Overrides are not written back to the config file.
func ApplyEnvOverrides(config *model.AppConfig) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&config.Log.Level, env.LogLevel)
	set(&config.Log.Format, env.LogFormat)
	set(&config.Log.File, env.LogFile)
	set(&config.DataDir, env.DataDir)
	set(&config.Storage, strings.ToLower(env.Storage))
	return nil
}

// DataDir returns the directory for saved rooms and cabinets.
func DataDir(config model.AppConfig) string {
	if config.DataDir != "" {
		return config.DataDir
	}
	return DefaultConfigDir()
}
