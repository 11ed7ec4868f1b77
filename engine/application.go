package engine

import (
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/vistralabs/tarn/engine/core"
)

type ApplicationConfig struct {
	// The application name used in logging.
	Name string `toml:"name"`
	// Logging verbosity: "debug", "info", "warn" or "error".
	LogLevel string `toml:"log_level"`
	// The relative base path for assets.
	AssetBasePath string `toml:"asset_base_path"`
	// The scene manifest loaded at startup, relative to AssetBasePath.
	// Optional; without one the scene manager stays unset.
	StartupScene string `toml:"startup_scene"`
	// Reload the current scene when its manifest changes on disk.
	HotReload bool `toml:"hot_reload"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:          "Tarn",
		LogLevel:      "info",
		AssetBasePath: "assets",
		HotReload:     false,
	}
}

// LoadApplicationConfig reads a TOML config file over the defaults.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := DefaultApplicationConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		core.LogError("failed to parse application config '%s': %s", path, err.Error())
		return nil, err
	}
	return config, nil
}
