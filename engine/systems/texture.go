package systems

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

// Names of the textures built in code, always available.
const (
	DefaultTextureName         = "default"
	DefaultDiffuseTextureName  = "default_diffuse"
	DefaultSpecularTextureName = "default_specular"
	DefaultNormalTextureName   = "default_normal"
)

type TextureSystemConfig struct {
	/** @brief The maximum number of textures that can be loaded at once. */
	MaxTextureCount uint32
	/** @brief Loaded images are scaled down to fit this size. 0 keeps them as they are. */
	MaxDimension int
}

type textureReference struct {
	texture     *opengl.Texture
	refs        uint32
	autoRelease bool
	// generation counts the uploads; a load finishing for an older
	// generation is stale.
	generation uint32
}

type TextureSystem struct {
	Config   *TextureSystemConfig
	ctx      *opengl.Context
	defaults map[string]*opengl.Texture
	// Hashtable for texture lookups.
	registered map[string]*textureReference
	samplers   map[opengl.SamplerConfig]*opengl.Sampler
	// sub systems
	jobSystem    *JobSystem
	assetManager *assets.AssetManager
}

func NewTextureSystem(config *TextureSystemConfig, ctx *opengl.Context, js *JobSystem, am *assets.AssetManager) (*TextureSystem, error) {
	if config.MaxTextureCount == 0 {
		err := fmt.Errorf("func NewTextureSystem - config.MaxTextureCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}

	ts := &TextureSystem{
		Config:       config,
		ctx:          ctx,
		defaults:     make(map[string]*opengl.Texture),
		registered:   make(map[string]*textureReference),
		samplers:     make(map[opengl.SamplerConfig]*opengl.Sampler),
		jobSystem:    js,
		assetManager: am,
	}

	// Create default textures for use in the system.
	for name, img := range DefaultImages() {
		tex, err := opengl.NewTextureFromImage(ctx, img, defaultInternalFormat(name))
		if err != nil {
			return nil, fmt.Errorf("default texture %s: %w", name, err)
		}
		tex.GenerateMipmaps()
		tex.SetSampler(ts.Sampler(resources.TextureFilterModeLinear, resources.TextureRepeatRepeat))
		ts.defaults[name] = tex
	}
	if am != nil {
		am.Subscribe(ts.onAssetChanged)
	}
	return ts, nil
}

// DefaultImages builds the images of the default textures: a blue and
// white checkerboard, a white diffuse map, a black specular map and a flat
// normal map.
func DefaultImages() map[string]*resources.ImageData {
	fill := func(size int, texel func(x, y int) [4]byte) *resources.ImageData {
		img, _ := resources.NewImageData(resources.ImageConfig{
			Width:    size,
			Height:   size,
			Type:     resources.Image2D,
			Format:   resources.FormatRGBA,
			DataType: resources.DataTypeUint8,
		})
		pixels := img.Level(0)
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				c := texel(x, y)
				copy(pixels[(y*size+x)*4:], c[:])
			}
		}
		return img
	}
	return map[string]*resources.ImageData{
		DefaultTextureName: fill(256, func(x, y int) [4]byte {
			if (x/16+y/16)%2 == 0 {
				return [4]byte{0, 0, 255, 255}
			}
			return [4]byte{255, 255, 255, 255}
		}),
		DefaultDiffuseTextureName:  fill(16, func(int, int) [4]byte { return [4]byte{255, 255, 255, 255} }),
		DefaultSpecularTextureName: fill(16, func(int, int) [4]byte { return [4]byte{0, 0, 0, 255} }),
		DefaultNormalTextureName:   fill(16, func(int, int) [4]byte { return [4]byte{128, 128, 255, 255} }),
	}
}

// colourInternalFormat stores colour maps, the default checkerboard and
// every texture acquired by name: they hold sRGB encoded colours that
// samplers must linearize.
const colourInternalFormat = gl.SRGB8_ALPHA8

// defaultInternalFormat keeps data maps (specular, normal) linear.
func defaultInternalFormat(name string) gl.Enum {
	switch name {
	case DefaultSpecularTextureName, DefaultNormalTextureName:
		return 0
	}
	return colourInternalFormat
}

func (ts *TextureSystem) GetDefaultTexture() *opengl.Texture {
	return ts.defaults[DefaultTextureName]
}

func (ts *TextureSystem) GetDefaultDiffuseTexture() *opengl.Texture {
	return ts.defaults[DefaultDiffuseTextureName]
}

func (ts *TextureSystem) GetDefaultSpecularTexture() *opengl.Texture {
	return ts.defaults[DefaultSpecularTextureName]
}

func (ts *TextureSystem) GetDefaultNormalTexture() *opengl.Texture {
	return ts.defaults[DefaultNormalTextureName]
}

// Count is the number of registered textures, defaults excluded.
func (ts *TextureSystem) Count() int { return len(ts.registered) }

// References returns the reference count of a registered texture.
func (ts *TextureSystem) References(name string) uint32 {
	if ref, ok := ts.registered[name]; ok {
		return ref.refs
	}
	return 0
}

// Aquire returns the texture called name, loading it on first use. Until
// the image is decoded the texture shows the default checkerboard. An
// auto released texture is destroyed when its last reference goes.
func (ts *TextureSystem) Aquire(name string, autoRelease bool) (*opengl.Texture, error) {
	if tex, ok := ts.defaults[name]; ok {
		core.LogWarn("texture system Aquire called for default texture %s. Use the GetDefault functions instead", name)
		return tex, nil
	}
	if ref, ok := ts.registered[name]; ok {
		ref.refs++
		return ref.texture, nil
	}
	if err := ts.checkCapacity(); err != nil {
		return nil, err
	}
	if ts.assetManager == nil {
		return nil, fmt.Errorf("%w: texture %s, no asset manager", core.ErrUnknownResource, name)
	}
	if _, ok := ts.assetManager.Lookup(name, resources.ResourceTypeImage); !ok {
		err := fmt.Errorf("%w: texture %s", core.ErrUnknownResource, name)
		core.LogError(err.Error())
		return nil, err
	}

	images := DefaultImages()
	tex, err := opengl.NewTextureFromImage(ts.ctx, images[DefaultTextureName], colourInternalFormat)
	if err != nil {
		return nil, err
	}
	tex.SetSampler(ts.Sampler(resources.TextureFilterModeLinear, resources.TextureRepeatRepeat))
	ref := &textureReference{texture: tex, refs: 1, autoRelease: autoRelease}
	ts.registered[name] = ref
	ts.load(name, ref)
	return tex, nil
}

// AquireWriteable creates an empty texture under a generated name, for use
// as a render target. It is released like any other texture.
func (ts *TextureSystem) AquireWriteable(width, height int, format opengl.PixelFormat) (string, *opengl.Texture, error) {
	if err := ts.checkCapacity(); err != nil {
		return "", nil, err
	}
	name := uuid.NewString()
	tex := opengl.NewTexture(ts.ctx, opengl.Texture2D, format)
	tex.SetStorage(opengl.Size{Width: width, Height: height, Layers: 1}, 1)
	ts.registered[name] = &textureReference{texture: tex, refs: 1, autoRelease: true}
	core.LogDebug("created writeable texture %s (%dx%d)", name, width, height)
	return name, tex, nil
}

// Release drops a reference to name.
func (ts *TextureSystem) Release(name string) {
	if _, ok := ts.defaults[name]; ok {
		return
	}
	ref, ok := ts.registered[name]
	if !ok {
		core.LogWarn("texture system Release called for unknown texture %s", name)
		return
	}
	if ref.refs > 0 {
		ref.refs--
	}
	if ref.refs == 0 && ref.autoRelease {
		ref.texture.Release()
		delete(ts.registered, name)
		core.LogDebug("released texture %s", name)
	}
}

// Reload decodes the image of a registered texture again.
func (ts *TextureSystem) Reload(name string) error {
	ref, ok := ts.registered[name]
	if !ok {
		return fmt.Errorf("%w: texture %s", core.ErrUnknownResource, name)
	}
	ts.load(name, ref)
	return nil
}

// Sampler returns the shared sampler for a filter and wrap mode.
func (ts *TextureSystem) Sampler(filter resources.TextureFilter, repeat resources.TextureRepeat) *opengl.Sampler {
	cfg := opengl.DefaultSamplerConfig()
	if filter == resources.TextureFilterModeNearest {
		cfg.MinFilter, cfg.MagFilter = gl.NEAREST_MIPMAP_NEAREST, gl.NEAREST
	}
	wrap := gl.REPEAT
	switch repeat {
	case resources.TextureRepeatMirroredRepeat:
		wrap = gl.MIRRORED_REPEAT
	case resources.TextureRepeatClampToEdge:
		wrap = gl.CLAMP_TO_EDGE
	case resources.TextureRepeatClampToBorder:
		wrap = gl.CLAMP_TO_BORDER
	}
	cfg.WrapS, cfg.WrapT, cfg.WrapR = wrap, wrap, wrap

	if s, ok := ts.samplers[cfg]; ok {
		return s
	}
	s := opengl.NewSampler(ts.ctx, cfg)
	ts.samplers[cfg] = s
	return s
}

func (ts *TextureSystem) checkCapacity() error {
	if uint32(len(ts.registered)) >= ts.Config.MaxTextureCount {
		err := fmt.Errorf("texture system is full (%d textures). Adjust the configuration to allow more", ts.Config.MaxTextureCount)
		core.LogError(err.Error())
		return err
	}
	return nil
}

// load decodes the image on a worker; the upload happens in
// JobSystem.Update.
func (ts *TextureSystem) load(name string, ref *textureReference) {
	ref.generation++
	generation := ref.generation
	params := &resources.ImageResourceParams{FlipY: true, MaxDimension: ts.Config.MaxDimension}
	ts.jobSystem.Submit(Job{
		Name: "load texture " + name,
		Run: func() (any, error) {
			res, err := ts.assetManager.LoadAsset(name, resources.ResourceTypeImage, params)
			if err != nil {
				return nil, err
			}
			img, ok := res.Data.(*resources.ImageData)
			if !ok {
				return nil, errors.New("image loader returned no image data")
			}
			return img, nil
		},
		OnComplete: func(result any) {
			if ts.registered[name] != ref || ref.generation != generation {
				return
			}
			if err := ref.texture.SetImageData(result.(*resources.ImageData), colourInternalFormat); err != nil {
				core.LogError("texture %s: %s", name, err)
				return
			}
			ref.texture.GenerateMipmaps()
			core.LogDebug("loaded texture %s", name)
		},
		OnFailure: func(err error) {
			core.LogWarn("texture %s keeps the default image: %s", name, err)
		},
	})
}

func (ts *TextureSystem) onAssetChanged(info assets.AssetInfo) {
	if info.Type != resources.ResourceTypeImage {
		return
	}
	if _, ok := ts.registered[info.Name]; ok {
		core.LogInfo("reloading texture %s", info.Name)
		if err := ts.Reload(info.Name); err != nil {
			core.LogError("texture %s was not reloaded: %s", info.Name, err)
		}
	}
}

func (ts *TextureSystem) Shutdown() error {
	for name, ref := range ts.registered {
		ref.texture.Release()
		delete(ts.registered, name)
	}
	for name, tex := range ts.defaults {
		tex.Release()
		delete(ts.defaults, name)
	}
	for cfg, s := range ts.samplers {
		s.Release()
		delete(ts.samplers, cfg)
	}
	return nil
}
