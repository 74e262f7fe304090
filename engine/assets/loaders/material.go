package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/gin/engine/resources"
)

type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, params any) (*resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseMaterialConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &resources.Resource{
		Name:     cfg.Name,
		FullPath: path,
		Type:     resources.ResourceTypeMaterial,
		DataSize: uint64(len(data)),
		Data:     cfg,
	}, nil
}

// ParseMaterialConfig decodes a .mat file. Colours left out of the file
// default to white, with full opacity.
func ParseMaterialConfig(data []byte) (*resources.MaterialConfig, error) {
	cfg := &resources.MaterialConfig{
		AmbientColour:  [4]float32{1, 1, 1, 1},
		DiffuseColour:  [4]float32{1, 1, 1, 1},
		SpecularColour: [4]float32{1, 1, 1, 1},
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := validateMaterial(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateMaterial(material *resources.MaterialConfig) error {
	if material.Name == "" {
		return fmt.Errorf("material name is required")
	}
	if material.Shader == "" {
		return fmt.Errorf("shader name is required")
	}
	for name, c := range map[string][4]float32{
		"ambient_colour":  material.AmbientColour,
		"diffuse_colour":  material.DiffuseColour,
		"specular_colour": material.SpecularColour,
	} {
		if !isValidColour(c) {
			return fmt.Errorf("%s values must be between 0.0 and 1.0", name)
		}
	}
	if material.Shininess < 0 {
		return fmt.Errorf("shininess must be a non-negative value")
	}
	if _, err := resources.ParseTextureFilter(material.Filter); err != nil {
		return err
	}
	if _, err := resources.ParseTextureRepeat(material.Repeat); err != nil {
		return err
	}
	return nil
}

func isValidColour(c [4]float32) bool {
	for _, v := range c {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

func (ml *MaterialLoader) Unload(*resources.Resource) error {
	return nil
}
