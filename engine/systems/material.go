package systems

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

const DefaultMaterialName = "default"

type MaterialSystemConfig struct {
	/** @brief The maximum number of loaded materials. */
	MaxMaterialCount uint32
}

// Material is a named set of Material class components. The Values are
// shared by every node drawn with the material and are updated in place
// when the material file changes.
type Material struct {
	Name   string
	Shader string
	Values *components.Values

	diffuseMap  string
	refs        uint32
	autoRelease bool
}

type MaterialSystem struct {
	Config          *MaterialSystemConfig
	registry        *components.Registry
	materials       map[string]*Material
	defaultMaterial *Material
	// sub systems
	textureSystem *TextureSystem
	assetManager  *assets.AssetManager
}

func NewMaterialSystem(config *MaterialSystemConfig, r *components.Registry, ts *TextureSystem, am *assets.AssetManager) (*MaterialSystem, error) {
	if config.MaxMaterialCount == 0 {
		err := fmt.Errorf("func NewMaterialSystem - config.MaxMaterialCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	ms := &MaterialSystem{
		Config:        config,
		registry:      r,
		materials:     make(map[string]*Material),
		textureSystem: ts,
		assetManager:  am,
	}
	ms.defaultMaterial = &Material{Name: DefaultMaterialName, Values: components.NewValues(r, components.Material)}
	ms.apply(ms.defaultMaterial, &resources.MaterialConfig{
		Name:           DefaultMaterialName,
		AmbientColour:  [4]float32{0.1, 0.1, 0.1, 1},
		DiffuseColour:  [4]float32{1, 1, 1, 1},
		SpecularColour: [4]float32{0.5, 0.5, 0.5, 1},
		Shininess:      16,
	})
	if am != nil {
		am.Subscribe(ms.onAssetChanged)
	}
	return ms, nil
}

func (ms *MaterialSystem) GetDefault() *Material { return ms.defaultMaterial }

// Aquire returns the material called name, loading its .mat asset on first
// use.
func (ms *MaterialSystem) Aquire(name string) (*Material, error) {
	if name == DefaultMaterialName {
		return ms.defaultMaterial, nil
	}
	if m, ok := ms.materials[name]; ok {
		m.refs++
		return m, nil
	}
	cfg, err := ms.loadConfig(name)
	if err != nil {
		return nil, err
	}
	return ms.AquireFromConfig(cfg)
}

// AquireFromConfig registers a material built from cfg.
func (ms *MaterialSystem) AquireFromConfig(cfg *resources.MaterialConfig) (*Material, error) {
	if m, ok := ms.materials[cfg.Name]; ok {
		m.refs++
		return m, nil
	}
	if uint32(len(ms.materials)) >= ms.Config.MaxMaterialCount {
		err := fmt.Errorf("material system is full (%d materials)", ms.Config.MaxMaterialCount)
		core.LogError(err.Error())
		return nil, err
	}
	m := &Material{
		Name:        cfg.Name,
		Values:      components.NewValues(ms.registry, components.Material),
		refs:        1,
		autoRelease: cfg.AutoRelease,
	}
	ms.apply(m, cfg)
	ms.materials[cfg.Name] = m
	core.LogDebug("material %s created for shader %s", m.Name, m.Shader)
	return m, nil
}

// Lookup returns the components of the named material, or those of the
// default material when it cannot be loaded.
func (ms *MaterialSystem) Lookup(name string) *components.Values {
	m, err := ms.Aquire(name)
	if err != nil {
		core.LogWarn("material %s falls back to the default material: %s", name, err)
		return ms.defaultMaterial.Values
	}
	return m.Values
}

func (ms *MaterialSystem) Release(name string) {
	m, ok := ms.materials[name]
	if !ok {
		return
	}
	if m.refs > 0 {
		m.refs--
	}
	if m.refs == 0 && m.autoRelease {
		ms.releaseTexture(m)
		delete(ms.materials, name)
		core.LogDebug("released material %s", name)
	}
}

// Reload reads the material file again and updates its components.
func (ms *MaterialSystem) Reload(name string) error {
	m, ok := ms.materials[name]
	if !ok {
		return fmt.Errorf("%w: material %s", core.ErrUnknownResource, name)
	}
	cfg, err := ms.loadConfig(name)
	if err != nil {
		return err
	}
	ms.apply(m, cfg)
	core.LogInfo("reloaded material %s", name)
	return nil
}

func (ms *MaterialSystem) loadConfig(name string) (*resources.MaterialConfig, error) {
	if ms.assetManager == nil {
		return nil, fmt.Errorf("%w: material %s, no asset manager", core.ErrUnknownResource, name)
	}
	res, err := ms.assetManager.LoadAsset(name, resources.ResourceTypeMaterial, nil)
	if err != nil {
		return nil, err
	}
	cfg, ok := res.Data.(*resources.MaterialConfig)
	if !ok {
		return nil, fmt.Errorf("asset %s is not a material", name)
	}
	return cfg, nil
}

func (ms *MaterialSystem) apply(m *Material, cfg *resources.MaterialConfig) {
	m.Shader = cfg.Shader
	a, d, s := cfg.AmbientColour, cfg.DiffuseColour, cfg.SpecularColour
	m.Values.Set(components.AmbientColor, opengl.Vec3(math.NewVec3(a[0], a[1], a[2])))
	m.Values.Set(components.DiffuseColor, opengl.Vec4(math.NewVec4(d[0], d[1], d[2], d[3])))
	m.Values.Set(components.SpecularColor, opengl.Vec3(math.NewVec3(s[0], s[1], s[2])))
	m.Values.Set(components.Shininess, opengl.Float(cfg.Shininess))

	if ms.textureSystem == nil {
		return
	}
	previous := m.diffuseMap
	tex := ms.textureSystem.GetDefaultDiffuseTexture()
	m.diffuseMap = ""
	if cfg.DiffuseMap != "" {
		t, err := ms.textureSystem.Aquire(cfg.DiffuseMap, true)
		if err != nil {
			core.LogWarn("material %s uses the default diffuse map: %s", cfg.Name, err)
		} else {
			tex, m.diffuseMap = t, cfg.DiffuseMap
			// validated by the loader
			filter, _ := resources.ParseTextureFilter(cfg.Filter)
			repeat, _ := resources.ParseTextureRepeat(cfg.Repeat)
			tex.SetSampler(ms.textureSystem.Sampler(filter, repeat))
		}
	}
	if previous != "" {
		ms.textureSystem.Release(previous)
	}
	m.Values.SetTexture(components.DiffuseTexture, tex)
}

func (ms *MaterialSystem) releaseTexture(m *Material) {
	if m.diffuseMap != "" && ms.textureSystem != nil {
		ms.textureSystem.Release(m.diffuseMap)
		m.diffuseMap = ""
	}
}

func (ms *MaterialSystem) onAssetChanged(info assets.AssetInfo) {
	if info.Type != resources.ResourceTypeMaterial {
		return
	}
	if _, ok := ms.materials[info.Name]; ok {
		if err := ms.Reload(info.Name); err != nil {
			core.LogError("material %s: %s", info.Name, err)
		}
	}
}

func (ms *MaterialSystem) Shutdown() error {
	for name, m := range ms.materials {
		ms.releaseTexture(m)
		delete(ms.materials, name)
	}
	return nil
}
