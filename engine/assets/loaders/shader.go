package loaders

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

// ShaderLoader reads a .shadercfg and the GLSL of every stage it names.
// Stage files are relative to the directory of the config.
type ShaderLoader struct{}

func (sl *ShaderLoader) Load(path string, params any) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseShaderConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	size := uint64(len(data))
	dir := filepath.Dir(path)
	for stage, file := range cfg.Stages {
		src, err := os.ReadFile(filepath.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("shader %s, %s stage: %w", cfg.Name, stage, err)
		}
		cfg.Sources[stage] = string(src)
		size += uint64(len(src))
	}
	return &resources.Resource{
		Name:     cfg.Name,
		FullPath: path,
		Type:     resources.ResourceTypeShader,
		DataSize: size,
		Data:     cfg,
	}, nil
}

// ParseShaderConfig decodes and validates a .shadercfg. Sources is left
// empty.
func ParseShaderConfig(data []byte) (*resources.ShaderConfig, error) {
	cfg := &resources.ShaderConfig{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("shader name is required")
	}
	if len(cfg.Stages) == 0 {
		return nil, fmt.Errorf("shader %s has no stages", cfg.Name)
	}
	for stage := range cfg.Stages {
		if _, ok := opengl.StageFromName(stage); !ok {
			return nil, fmt.Errorf("shader %s: unknown stage %q", cfg.Name, stage)
		}
	}
	cfg.Sources = make(map[string]string, len(cfg.Stages))
	return cfg, nil
}

func (sl *ShaderLoader) Unload(*resources.Resource) error {
	return nil
}
