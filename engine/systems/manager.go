package systems

import (
	"runtime"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// SystemManager owns the engine systems and shuts them down in reverse
// order of creation.
type SystemManager struct {
	Assets    *assets.AssetManager
	Jobs      *JobSystem
	Cameras   *CameraSystem
	Textures  *TextureSystem
	Shaders   *ShaderSystem
	Materials *MaterialSystem
	Fonts     *FontSystem
	Registry  *components.Registry
}

// NewSystemManager creates the systems on top of ctx. am may be nil, in
// which case nothing can be loaded from disk.
func NewSystemManager(ctx *opengl.Context, r *components.Registry, am *assets.AssetManager) (*SystemManager, error) {
	js, err := NewJobSystem(max(1, runtime.NumCPU()-1), 64)
	if err != nil {
		return nil, err
	}
	cs, err := NewCameraSystem(&CameraSystemConfig{
		MaxCameraCount: 100,
	})
	if err != nil {
		return nil, err
	}
	ts, err := NewTextureSystem(&TextureSystemConfig{
		MaxTextureCount: 1000,
		MaxDimension:    4096,
	}, ctx, js, am)
	if err != nil {
		return nil, err
	}
	ss, err := NewShaderSystem(&ShaderSystemConfig{
		MaxShaderCount: 256,
	}, ctx, am)
	if err != nil {
		return nil, err
	}
	ms, err := NewMaterialSystem(&MaterialSystemConfig{
		MaxMaterialCount: 1000,
	}, r, ts, am)
	if err != nil {
		return nil, err
	}
	fs, err := NewFontSystem(&FontSystemConfig{
		MaxFontCount: 16,
	}, ctx, am)
	if err != nil {
		return nil, err
	}
	return &SystemManager{
		Assets:    am,
		Jobs:      js,
		Cameras:   cs,
		Textures:  ts,
		Shaders:   ss,
		Materials: ms,
		Fonts:     fs,
		Registry:  r,
	}, nil
}

// Update hands finished background work and changed assets to the
// systems. Call it once a frame on the GL thread.
func (sm *SystemManager) Update() {
	if sm.Assets != nil {
		sm.Assets.Poll()
	}
	sm.Jobs.Update()
}

func (sm *SystemManager) Shutdown() error {
	if sm.Assets != nil {
		if err := sm.Assets.Close(); err != nil {
			return err
		}
	}
	if err := sm.Jobs.Shutdown(); err != nil {
		return err
	}
	if err := sm.Fonts.Shutdown(); err != nil {
		return err
	}
	if err := sm.Materials.Shutdown(); err != nil {
		return err
	}
	if err := sm.Shaders.Shutdown(); err != nil {
		return err
	}
	if err := sm.Textures.Shutdown(); err != nil {
		return err
	}
	if err := sm.Cameras.Shutdown(); err != nil {
		return err
	}
	return nil
}
