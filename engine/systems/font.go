package systems

import (
	"fmt"
	"path/filepath"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

type FontSystemConfig struct {
	/** @brief The maximum number of bitmap fonts loaded at once. */
	MaxFontCount uint32
}

// Font is a loaded bitmap font: its glyph metrics and the texture of its
// atlas. A reload updates both in place.
type Font struct {
	Name  string
	Data  *resources.FontData
	Atlas *opengl.Texture
}

type fontReference struct {
	font  *Font
	refs  uint32
	pages []string // paths of the page images
}

// FontSystem loads bitmap fonts from .fnt assets and keeps them by name,
// reference counted. Only single page fonts are supported.
type FontSystem struct {
	Config  *FontSystemConfig
	ctx     *opengl.Context
	fonts   map[string]*fontReference
	sampler *opengl.Sampler
	// sub systems
	assetManager *assets.AssetManager
}

func NewFontSystem(config *FontSystemConfig, ctx *opengl.Context, am *assets.AssetManager) (*FontSystem, error) {
	if config.MaxFontCount == 0 {
		err := fmt.Errorf("func NewFontSystem - config.MaxFontCount must be > 0")
		core.LogError(err.Error())
		return nil, err
	}
	// glyphs are drawn at their atlas size
	cfg := opengl.DefaultSamplerConfig()
	cfg.MinFilter, cfg.MagFilter = gl.NEAREST, gl.NEAREST
	cfg.WrapS, cfg.WrapT, cfg.WrapR = gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE

	fs := &FontSystem{
		Config:       config,
		ctx:          ctx,
		fonts:        make(map[string]*fontReference),
		sampler:      opengl.NewSampler(ctx, cfg),
		assetManager: am,
	}
	if am != nil {
		am.Subscribe(fs.onAssetChanged)
	}
	return fs, nil
}

// Acquire returns the font called name, loading it on first use.
func (fs *FontSystem) Acquire(name string) (*Font, error) {
	if ref, ok := fs.fonts[name]; ok {
		ref.refs++
		return ref.font, nil
	}
	if uint32(len(fs.fonts)) >= fs.Config.MaxFontCount {
		err := fmt.Errorf("font system is full (%d fonts). Adjust the configuration to allow more", fs.Config.MaxFontCount)
		core.LogError(err.Error())
		return nil, err
	}
	if fs.assetManager == nil {
		return nil, fmt.Errorf("%w: font %s, no asset manager", core.ErrUnknownResource, name)
	}
	data, path, err := fs.read(name)
	if err != nil {
		return nil, err
	}
	atlas, err := opengl.NewTextureFromImage(fs.ctx, data.Pages[0].Image, 0)
	if err != nil {
		return nil, fmt.Errorf("font %s: %w", name, err)
	}
	atlas.SetSampler(fs.sampler)

	ref := &fontReference{
		font:  &Font{Name: name, Data: data.Data, Atlas: atlas},
		refs:  1,
		pages: pagePaths(path, data),
	}
	fs.fonts[name] = ref
	core.LogInfo("loaded font %s (%s, %d glyphs)", name, data.Data.Face, len(data.Data.Glyphs))
	return ref.font, nil
}

// Release drops a reference to name. The atlas goes with the last one.
func (fs *FontSystem) Release(name string) {
	ref, ok := fs.fonts[name]
	if !ok {
		core.LogWarn("font system Release called for unknown font %s", name)
		return
	}
	ref.refs--
	if ref.refs == 0 {
		ref.font.Atlas.Release()
		delete(fs.fonts, name)
		core.LogDebug("released font %s", name)
	}
}

// References returns the reference count of a loaded font.
func (fs *FontSystem) References(name string) uint32 {
	if ref, ok := fs.fonts[name]; ok {
		return ref.refs
	}
	return 0
}

// Reload reads the font again and uploads its page into the same atlas.
// On error the font keeps its previous glyphs.
func (fs *FontSystem) Reload(name string) error {
	ref, ok := fs.fonts[name]
	if !ok {
		return fmt.Errorf("%w: font %s", core.ErrUnknownResource, name)
	}
	data, path, err := fs.read(name)
	if err != nil {
		core.LogError("font %s keeps its previous glyphs: %s", name, err)
		return err
	}
	if err := ref.font.Atlas.SetImageData(data.Pages[0].Image, 0); err != nil {
		return fmt.Errorf("font %s: %w", name, err)
	}
	ref.font.Data = data.Data
	ref.pages = pagePaths(path, data)
	core.LogInfo("reloaded font %s", name)
	return nil
}

func (fs *FontSystem) read(name string) (*resources.BitmapFontResourceData, string, error) {
	res, err := fs.assetManager.LoadAsset(name, resources.ResourceTypeBitmapFont, nil)
	if err != nil {
		return nil, "", err
	}
	data, ok := res.Data.(*resources.BitmapFontResourceData)
	if !ok {
		return nil, "", fmt.Errorf("bitmap font loader returned no font data for %s", name)
	}
	if len(data.Pages) != 1 {
		return nil, "", fmt.Errorf("%w: font %s has %d pages, only single page fonts are supported",
			core.ErrUnsupportedFormat, name, len(data.Pages))
	}
	return data, res.FullPath, nil
}

func pagePaths(path string, data *resources.BitmapFontResourceData) []string {
	out := make([]string, len(data.Pages))
	for i, p := range data.Pages {
		out[i] = filepath.Join(filepath.Dir(path), p.File)
	}
	return out
}

// onAssetChanged reloads a font when its descriptor or a page image
// changes.
func (fs *FontSystem) onAssetChanged(info assets.AssetInfo) {
	for name, ref := range fs.fonts {
		changed := info.Type == resources.ResourceTypeBitmapFont && info.Name == name
		for _, p := range ref.pages {
			changed = changed || (info.Type == resources.ResourceTypeImage && filepath.Clean(p) == filepath.Clean(info.Path))
		}
		if !changed {
			continue
		}
		// Reload logs the cause
		if err := fs.Reload(name); err != nil {
			core.LogWarn("%s changed but font %s was not reloaded", info.Path, name)
		}
	}
}

func (fs *FontSystem) Shutdown() error {
	for name, ref := range fs.fonts {
		ref.font.Atlas.Release()
		delete(fs.fonts, name)
	}
	fs.sampler.Release()
	return nil
}
