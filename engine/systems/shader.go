package systems

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

/** @brief Configuration for the shader system. */
type ShaderSystemConfig struct {
	/** @brief The maximum number of shaders held in the system. */
	MaxShaderCount uint16
}

type shaderEntry struct {
	program *opengl.Program
	config  *resources.ShaderConfig
	path    string
}

// ShaderSystem builds programs from .shadercfg assets and keeps them by
// name. A program links once, so a reload builds a new program and swaps
// it in; OnReload subscribers are told about the swap.
type ShaderSystem struct {
	// This system's configuration.
	Config *ShaderSystemConfig
	ctx    *opengl.Context
	// A lookup table for shader name->program
	shaders map[string]*shaderEntry
	// sub systems
	assetManager *assets.AssetManager

	reloaded []func(name string, old, program *opengl.Program)
}

func NewShaderSystem(config *ShaderSystemConfig, ctx *opengl.Context, am *assets.AssetManager) (*ShaderSystem, error) {
	if config.MaxShaderCount == 0 {
		err := fmt.Errorf("NewShaderSystem - config.MaxShaderCount must be greater than 0")
		core.LogError(err.Error())
		return nil, err
	}
	ss := &ShaderSystem{
		Config:       config,
		ctx:          ctx,
		shaders:      make(map[string]*shaderEntry),
		assetManager: am,
	}
	if am != nil {
		am.Subscribe(ss.onAssetChanged)
	}
	return ss, nil
}

// CreateShader compiles and links the program described by config and
// registers it under config.Name, replacing nothing: the name must be free.
func (ss *ShaderSystem) CreateShader(config *resources.ShaderConfig) (*opengl.Program, error) {
	if _, ok := ss.shaders[config.Name]; ok {
		return nil, fmt.Errorf("shader %s already exists", config.Name)
	}
	if len(ss.shaders) >= int(ss.Config.MaxShaderCount) {
		err := fmt.Errorf("unable to find free slot to create shader %s. Aborting", config.Name)
		core.LogError(err.Error())
		return nil, err
	}
	p, err := ss.build(config)
	if err != nil {
		return nil, err
	}
	ss.shaders[config.Name] = &shaderEntry{program: p, config: config}
	core.LogInfo("created shader %s", config.Name)
	return p, nil
}

// Load returns the program called name, building it from its .shadercfg
// asset on first use.
func (ss *ShaderSystem) Load(name string) (*opengl.Program, error) {
	if e, ok := ss.shaders[name]; ok {
		return e.program, nil
	}
	cfg, path, err := ss.loadConfig(name)
	if err != nil {
		return nil, err
	}
	p, err := ss.CreateShader(cfg)
	if err != nil {
		return nil, err
	}
	ss.shaders[name].path = path
	return p, nil
}

func (ss *ShaderSystem) GetShader(name string) (*opengl.Program, error) {
	e, ok := ss.shaders[name]
	if !ok {
		err := fmt.Errorf("%w: shader %s", core.ErrUnknownResource, name)
		core.LogError(err.Error())
		return nil, err
	}
	return e.program, nil
}

// Names returns the registered shader names, sorted.
func (ss *ShaderSystem) Names() []string {
	names := make([]string, 0, len(ss.shaders))
	for name := range ss.shaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UseShader makes the named program current. The switcher must be
// restored by the caller.
func (ss *ShaderSystem) UseShader(name string) (opengl.Switcher, error) {
	p, err := ss.GetShader(name)
	if err != nil {
		return opengl.Switcher{}, err
	}
	return ss.ctx.UseProgram(p), nil
}

// OnReload registers fn to be called after a program was replaced. old is
// already released when fn runs.
func (ss *ShaderSystem) OnReload(fn func(name string, old, program *opengl.Program)) {
	ss.reloaded = append(ss.reloaded, fn)
}

// Reload rebuilds the named shader from its asset. On failure the current
// program stays in place.
func (ss *ShaderSystem) Reload(name string) error {
	e, ok := ss.shaders[name]
	if !ok {
		return fmt.Errorf("%w: shader %s", core.ErrUnknownResource, name)
	}
	if e.path == "" {
		return fmt.Errorf("shader %s was not loaded from an asset", name)
	}
	core.Assert(ss.ctx.CurrentProgram() != e.program, "shader %s reloaded while in use", name)
	cfg, _, err := ss.loadConfig(name)
	if err != nil {
		core.LogError("shader %s keeps its previous program: %s", name, err)
		return err
	}
	p, err := ss.build(cfg)
	if err != nil {
		core.LogError("shader %s keeps its previous program: %s", name, err)
		return err
	}
	old := e.program
	e.program, e.config = p, cfg
	old.Release()
	core.LogInfo("reloaded shader %s", name)
	for _, fn := range ss.reloaded {
		fn(name, old, p)
	}
	return nil
}

func (ss *ShaderSystem) loadConfig(name string) (*resources.ShaderConfig, string, error) {
	if ss.assetManager == nil {
		return nil, "", fmt.Errorf("%w: shader %s, no asset manager", core.ErrUnknownResource, name)
	}
	res, err := ss.assetManager.LoadAsset(name, resources.ResourceTypeShader, nil)
	if err != nil {
		return nil, "", err
	}
	cfg, ok := res.Data.(*resources.ShaderConfig)
	if !ok {
		return nil, "", fmt.Errorf("asset %s is not a shader config", name)
	}
	if cfg.Name != name {
		core.LogWarn("shader config %s is named %s", res.FullPath, cfg.Name)
		cfg.Name = name
	}
	return cfg, res.FullPath, nil
}

// build compiles every stage and links them. Stages are compiled in name
// order so logs are stable.
func (ss *ShaderSystem) build(config *resources.ShaderConfig) (*opengl.Program, error) {
	stages := make([]string, 0, len(config.Sources))
	for stage := range config.Sources {
		stages = append(stages, stage)
	}
	sort.Strings(stages)

	shaders := make([]*opengl.Shader, 0, len(stages))
	defer func() {
		for _, s := range shaders {
			s.Release()
		}
	}()
	for _, stage := range stages {
		glStage, ok := opengl.StageFromName(stage)
		if !ok {
			return nil, fmt.Errorf("shader %s: unknown stage %q", config.Name, stage)
		}
		s, err := opengl.CompileShader(ss.ctx, glStage, config.Name, config.Sources[stage])
		if err != nil {
			core.LogError(err.Error())
			return nil, err
		}
		shaders = append(shaders, s)
	}
	return opengl.LinkProgram(ss.ctx, opengl.ProgramConfig{
		Name:             config.Name,
		Shaders:          shaders,
		AttribLocations:  config.AttributeLocations,
		FeedbackVaryings: config.FeedbackVaryings,
	})
}

func (ss *ShaderSystem) onAssetChanged(info assets.AssetInfo) {
	for _, name := range ss.Names() {
		e := ss.shaders[name]
		if e.path == "" || !ss.uses(e, info) {
			continue
		}
		// Reload logs the cause
		if err := ss.Reload(name); err != nil {
			core.LogWarn("%s changed but shader %s was not reloaded", info.Path, name)
		}
	}
}

// uses reports whether the shader is built from the changed file.
func (ss *ShaderSystem) uses(e *shaderEntry, info assets.AssetInfo) bool {
	switch info.Type {
	case resources.ResourceTypeShader:
		return filepath.Clean(info.Path) == filepath.Clean(e.path)
	case resources.ResourceTypeShaderSource:
		dir := filepath.Dir(e.path)
		for _, file := range e.config.Stages {
			if filepath.Clean(filepath.Join(dir, file)) == filepath.Clean(info.Path) {
				return true
			}
		}
	}
	return false
}

/**
 * @brief Shuts down the shader system, destroying every program.
 */
func (ss *ShaderSystem) Shutdown() error {
	for name, e := range ss.shaders {
		e.program.Release()
		delete(ss.shaders, name)
	}
	return nil
}
