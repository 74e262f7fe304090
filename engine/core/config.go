package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type WindowConfig struct {
	Title  string `toml:"title"`
	X      int32  `toml:"x"`
	Y      int32  `toml:"y"`
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
	VSync  bool   `toml:"vsync"`
}

type RendererConfig struct {
	GLMajor     int        `toml:"gl_major"`
	GLMinor     int        `toml:"gl_minor"`
	DebugChecks bool       `toml:"debug_checks"`
	ClearColour [4]float32 `toml:"clear_colour"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type AssetsConfig struct {
	Dir   string `toml:"dir"`
	Watch bool   `toml:"watch"`
}

type ParticlesConfig struct {
	Count int `toml:"count"`
}

// Config is the engine configuration, read from a TOML file.
type Config struct {
	Window    WindowConfig    `toml:"window"`
	Renderer  RendererConfig  `toml:"renderer"`
	Log       LogConfig       `toml:"log"`
	Assets    AssetsConfig    `toml:"assets"`
	Particles ParticlesConfig `toml:"particles"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Gin",
			X:      100,
			Y:      100,
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Renderer: RendererConfig{
			GLMajor:     3,
			GLMinor:     3,
			DebugChecks: true,
			ClearColour: [4]float32{0.05, 0.05, 0.08, 1},
		},
		Log:       LogConfig{Level: "debug"},
		Assets:    AssetsConfig{Dir: "assets", Watch: true},
		Particles: ParticlesConfig{Count: 2048},
	}
}

// LoadConfig reads the configuration at path on top of the defaults. A
// missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		LogWarn("config file %s not found, using defaults", path)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := ParseConfig(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML data into cfg and validates the result.
func ParseConfig(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.Window.Width <= 0 || cfg.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Renderer.GLMajor < 3 || (cfg.Renderer.GLMajor == 3 && cfg.Renderer.GLMinor < 3) {
		return fmt.Errorf("OpenGL %d.%d is not supported, 3.3 core is the minimum", cfg.Renderer.GLMajor, cfg.Renderer.GLMinor)
	}
	if cfg.Particles.Count < 0 {
		return fmt.Errorf("invalid particle count %d", cfg.Particles.Count)
	}
	return nil
}

// Apply pushes the process wide parts of the configuration into effect.
func (c *Config) Apply() {
	SetLogLevel(c.Log.Level)
	SetDebugChecks(c.Renderer.DebugChecks)
}
