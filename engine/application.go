package engine

import "github.com/spaghettifunk/gin/engine/renderer"

type ApplicationConfig struct {
	// ConfigPath is the TOML file read at startup. A missing file leaves
	// the defaults in place.
	ConfigPath string
	// AssetsDir overrides the assets directory of the configuration.
	AssetsDir string
	// Renderer names the shaders of every pass. The particle count comes
	// from the configuration.
	Renderer renderer.Config
}
