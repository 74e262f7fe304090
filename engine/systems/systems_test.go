package systems

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/assets"
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/gl/gltest"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

const litConfig = `
name = "lit"

[stages]
vertex = "lit.vert"
fragment = "lit.frag"

[attribute_locations]
Position = 0
`

const litVertex = `#version 330 core
in vec3 Position;
uniform mat4 ModelViewProjection;
void main() { gl_Position = ModelViewProjection * vec4(Position, 1.0); }
`

const litFragment = `#version 330 core
uniform vec4 DiffuseColor;
out vec4 Color;
void main() { Color = DiffuseColor; }
`

const crateMaterial = `
name = "crate"
shader = "lit"
diffuse_colour = [0.8, 0.6, 0.4, 1.0]
shininess = 32.0
diffuse_map = "crate"
filter = "nearest"
`

type fixture struct {
	dir     string
	driver  *gltest.Driver
	ctx     *opengl.Context
	manager *SystemManager
}

func write(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

// fontDescriptor is a BMFont text descriptor with the given atlas size whose
// pages all point at mono_0.png.
func fontDescriptor(w, h, pages int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "info face=\"Test Mono\" size=8 bold=0 italic=0 charset=\"\" unicode=1 stretchH=100 smooth=0 aa=1 padding=0,0,0,0 spacing=1,1 outline=0\n")
	fmt.Fprintf(&b, "common lineHeight=10 base=8 scaleW=%d scaleH=%d pages=%d packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4\n", w, h, pages)
	for i := 0; i < pages; i++ {
		fmt.Fprintf(&b, "page id=%d file=\"mono_0.png\"\n", i)
	}
	b.WriteString("chars count=2\n")
	b.WriteString("char id=32 x=0 y=0 width=0 height=0 xoffset=0 yoffset=0 xadvance=4 page=0 chnl=15\n")
	b.WriteString("char id=65 x=0 y=0 width=4 height=6 xoffset=0 yoffset=1 xadvance=5 page=0 chnl=15\n")
	return b.String()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	write(t, filepath.Join(dir, "shaders", "lit.shadercfg"), []byte(litConfig))
	write(t, filepath.Join(dir, "shaders", "lit.vert"), []byte(litVertex))
	write(t, filepath.Join(dir, "shaders", "lit.frag"), []byte(litFragment))
	write(t, filepath.Join(dir, "materials", "crate.mat"), []byte(crateMaterial))
	write(t, filepath.Join(dir, "textures", "crate.png"), pngBytes(t, 8, 4))
	write(t, filepath.Join(dir, "fonts", "mono.fnt"), []byte(fontDescriptor(16, 8, 1)))
	write(t, filepath.Join(dir, "fonts", "mono_0.png"), pngBytes(t, 16, 8))
	write(t, filepath.Join(dir, "fonts", "split.fnt"), []byte(fontDescriptor(16, 8, 2)))

	am, err := assets.NewAssetManager(dir)
	require.NoError(t, err)
	d := gltest.New()
	ctx := opengl.NewContext(d)
	sm, err := NewSystemManager(ctx, components.NewDefaultRegistry(), am)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, sm.Shutdown()) })
	return &fixture{dir: dir, driver: d, ctx: ctx, manager: sm}
}

func TestJobSystemRunsCallbacksOnUpdate(t *testing.T) {
	js, err := NewJobSystem(2, 4)
	require.NoError(t, err)

	var done []any
	var failed []error
	for i := 0; i < 8; i++ {
		js.Submit(Job{
			Name: "square",
			Run: func() (any, error) {
				if i == 3 {
					return nil, errors.New("boom")
				}
				return i * i, nil
			},
			OnComplete: func(result any) { done = append(done, result) },
			OnFailure:  func(err error) { failed = append(failed, err) },
		})
	}
	js.Flush()
	assert.ElementsMatch(t, []any{0, 1, 4, 16, 25, 36, 49}, done)
	require.Len(t, failed, 1)
	assert.EqualError(t, failed[0], "boom")
	assert.Zero(t, js.Update())
	assert.NoError(t, js.Shutdown())

	_, err = NewJobSystem(0, 1)
	assert.ErrorIs(t, err, ErrNoWorkers)
	_, err = NewJobSystem(1, -1)
	assert.ErrorIs(t, err, ErrNegativeChannelSize)
}

func TestTextureSystemDefaults(t *testing.T) {
	f := newFixture(t)
	ts := f.manager.Textures

	checker := ts.GetDefaultTexture()
	assert.Equal(t, 256, checker.Size().Width)
	assert.Equal(t, resources.MipCount(256, 256, 1), checker.Levels())
	data, _, _, _, ok := f.driver.TextureImage(checker.ID(), gl.TEXTURE_2D, 0)
	require.True(t, ok)
	assert.Equal(t, []byte{0, 0, 255, 255}, data[:4])
	assert.Equal(t, []byte{255, 255, 255, 255}, data[16*4:16*4+4])

	normal, _, _, _, ok := f.driver.TextureImage(ts.GetDefaultNormalTexture().ID(), gl.TEXTURE_2D, 0)
	require.True(t, ok)
	assert.Equal(t, []byte{128, 128, 255, 255}, normal[:4])
	assert.NotNil(t, ts.GetDefaultDiffuseTexture())
	assert.NotNil(t, ts.GetDefaultSpecularTexture())

	// colour maps are sRGB, data maps stay linear
	assert.Equal(t, gl.SRGB8_ALPHA8, f.driver.TextureInternalFormat(checker.ID(), gl.TEXTURE_2D, 0))
	assert.Equal(t, gl.SRGB8_ALPHA8, f.driver.TextureInternalFormat(ts.GetDefaultDiffuseTexture().ID(), gl.TEXTURE_2D, 0))
	assert.Equal(t, gl.RGBA8, f.driver.TextureInternalFormat(ts.GetDefaultNormalTexture().ID(), gl.TEXTURE_2D, 0))
	assert.Equal(t, gl.RGBA8, f.driver.TextureInternalFormat(ts.GetDefaultSpecularTexture().ID(), gl.TEXTURE_2D, 0))

	tex, err := ts.Aquire(DefaultTextureName, false)
	require.NoError(t, err)
	assert.Same(t, checker, tex)
	assert.Zero(t, ts.Count())
}

func TestTextureSystemLoadsInTheBackground(t *testing.T) {
	f := newFixture(t)
	ts := f.manager.Textures

	tex, err := ts.Aquire("crate", true)
	require.NoError(t, err)
	// the checkerboard stands in until the image is decoded
	assert.Equal(t, 256, tex.Size().Width)

	f.manager.Jobs.Flush()
	assert.Equal(t, 8, tex.Size().Width)
	assert.Equal(t, 4, tex.Size().Height)
	assert.Equal(t, resources.MipCount(8, 4, 1), tex.Levels())
	data, _, _, _, ok := f.driver.TextureImage(tex.ID(), gl.TEXTURE_2D, 0)
	require.True(t, ok)
	// flipped: the top left texel lands in the last row
	assert.Equal(t, []byte{1, 2, 3, 255}, data[3*8*4:3*8*4+4])
	assert.Equal(t, opengl.FormatSRGBA8, tex.Format())
	assert.Equal(t, gl.SRGB8_ALPHA8, f.driver.TextureInternalFormat(tex.ID(), gl.TEXTURE_2D, 0))

	again, err := ts.Aquire("crate", true)
	require.NoError(t, err)
	assert.Same(t, tex, again)
	assert.Equal(t, uint32(2), ts.References("crate"))

	ts.Release("crate")
	assert.Equal(t, 1, ts.Count())
	id := tex.ID()
	ts.Release("crate")
	assert.Zero(t, ts.Count())
	assert.False(t, f.driver.TextureExists(id))
}

func TestTextureSystemUnknownTexture(t *testing.T) {
	f := newFixture(t)
	_, err := f.manager.Textures.Aquire("missing", true)
	assert.ErrorIs(t, err, core.ErrUnknownResource)
	assert.Error(t, f.manager.Textures.Reload("missing"))
}

func TestTextureSystemWriteableAndSamplers(t *testing.T) {
	f := newFixture(t)
	ts := f.manager.Textures

	name, tex, err := ts.AquireWriteable(64, 32, opengl.FormatRGBA8)
	require.NoError(t, err)
	_, err = uuid.Parse(name)
	assert.NoError(t, err)
	assert.Equal(t, 64, tex.Size().Width)
	id := tex.ID()
	ts.Release(name)
	assert.False(t, f.driver.TextureExists(id))

	nearest := ts.Sampler(resources.TextureFilterModeNearest, resources.TextureRepeatClampToEdge)
	assert.Same(t, nearest, ts.Sampler(resources.TextureFilterModeNearest, resources.TextureRepeatClampToEdge))
	assert.NotSame(t, nearest, ts.Sampler(resources.TextureFilterModeLinear, resources.TextureRepeatClampToEdge))
	assert.Equal(t, int32(gl.NEAREST), f.driver.SamplerParam(nearest.ID(), gl.TEXTURE_MAG_FILTER))
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), f.driver.SamplerParam(nearest.ID(), gl.TEXTURE_WRAP_S))
}

func TestShaderSystemLoadsAndReloads(t *testing.T) {
	f := newFixture(t)
	ss := f.manager.Shaders

	p, err := ss.Load("lit")
	require.NoError(t, err)
	assert.Equal(t, opengl.ProgramLinked, p.State())
	_, ok := p.Uniform(components.DiffuseColor)
	assert.True(t, ok)
	again, err := ss.Load("lit")
	require.NoError(t, err)
	assert.Same(t, p, again)
	assert.Equal(t, []string{"lit"}, ss.Names())

	oldID := p.ID()
	var swapped *opengl.Program
	ss.OnReload(func(name string, old, program *opengl.Program) {
		assert.Equal(t, "lit", name)
		assert.Same(t, p, old)
		swapped = program
	})

	// a broken edit keeps the running program
	frag := filepath.Join(f.dir, "shaders", "lit.frag")
	write(t, frag, []byte("#error half written\n"))
	assert.ErrorIs(t, ss.Reload("lit"), core.ErrShaderCompile)
	current, err := ss.GetShader("lit")
	require.NoError(t, err)
	assert.Same(t, p, current)
	assert.Nil(t, swapped)

	write(t, frag, []byte("#version 330 core\nuniform vec4 LightColor;\nout vec4 Color;\nvoid main() { Color = LightColor; }\n"))
	source, ok := f.manager.Assets.Lookup("lit", resources.ResourceTypeShaderSource)
	require.True(t, ok)
	// the vertex source shares the name; reload through the fragment path
	source.Path = frag
	ss.onAssetChanged(source)
	require.NotNil(t, swapped)
	assert.NotSame(t, p, swapped)
	assert.False(t, f.driver.ProgramExists(oldID))
	_, ok = swapped.Uniform(components.LightColor)
	assert.True(t, ok)

	sw, err := ss.UseShader("lit")
	require.NoError(t, err)
	assert.Same(t, swapped, f.ctx.CurrentProgram())
	sw.Restore()

	_, err = ss.GetShader("missing")
	assert.ErrorIs(t, err, core.ErrUnknownResource)
	_, err = ss.Load("missing")
	assert.ErrorIs(t, err, core.ErrUnknownResource)
}

func TestShaderSystemCreateShaderRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	cfg := &resources.ShaderConfig{
		Name:    "inline",
		Stages:  map[string]string{"vertex": "", "fragment": ""},
		Sources: map[string]string{"vertex": litVertex, "fragment": litFragment},
	}
	_, err := f.manager.Shaders.CreateShader(cfg)
	require.NoError(t, err)
	_, err = f.manager.Shaders.CreateShader(cfg)
	assert.Error(t, err)
	assert.Error(t, f.manager.Shaders.Reload("inline"))
}

func TestMaterialSystemBuildsComponents(t *testing.T) {
	f := newFixture(t)
	ms := f.manager.Materials
	r := f.manager.Registry

	values := ms.Lookup("crate")
	diffuse, _ := r.Lookup(components.Material, components.DiffuseColor)
	assert.Equal(t, opengl.Vec4(math.NewVec4(0.8, 0.6, 0.4, 1)), values.Get(diffuse))
	for _, c := range r.Components(components.Material) {
		assert.True(t, values.Has(c), c.Name)
	}
	sampler, _ := r.Lookup(components.Material, components.DiffuseTexture)
	tex := values.Texture(sampler)
	crate, err := f.manager.Textures.Aquire("crate", true)
	require.NoError(t, err)
	assert.Same(t, crate, tex)
	assert.Equal(t, gl.NEAREST, tex.Sampler().Config().MagFilter)

	m, err := ms.Aquire("crate")
	require.NoError(t, err)
	assert.Equal(t, "lit", m.Shader)
	assert.Same(t, values, m.Values)

	// the values change in place so every node sees the edit
	write(t, filepath.Join(f.dir, "materials", "crate.mat"), []byte("name = \"crate\"\nshader = \"lit\"\ndiffuse_colour = [0.1, 0.2, 0.3, 1.0]\n"))
	ms.onAssetChanged(assets.AssetInfo{Name: "crate", Type: resources.ResourceTypeMaterial})
	assert.Equal(t, opengl.Vec4(math.NewVec4(0.1, 0.2, 0.3, 1)), values.Get(diffuse))
	assert.Same(t, f.manager.Textures.GetDefaultDiffuseTexture(), values.Texture(sampler))
}

func TestMaterialSystemFallsBackToDefault(t *testing.T) {
	f := newFixture(t)
	ms := f.manager.Materials
	assert.Same(t, ms.GetDefault().Values, ms.Lookup("missing"))
	m, err := ms.Aquire(DefaultMaterialName)
	require.NoError(t, err)
	assert.Same(t, ms.GetDefault(), m)
}

func TestCameraSystemReferences(t *testing.T) {
	cs, err := NewCameraSystem(&CameraSystemConfig{MaxCameraCount: 1})
	require.NoError(t, err)

	c, err := cs.Acquire("main")
	require.NoError(t, err)
	again, err := cs.Acquire("main")
	require.NoError(t, err)
	assert.Same(t, c, again)
	_, err = cs.Acquire("other")
	assert.Error(t, err)

	cs.Release("main")
	cs.Release("main")
	fresh, err := cs.Acquire("main")
	require.NoError(t, err)
	assert.NotSame(t, c, fresh)

	def, err := cs.Acquire(components.DEFAULT_CAMERA_NAME)
	require.NoError(t, err)
	assert.Same(t, cs.GetDefault(), def)

	_, err = NewCameraSystem(&CameraSystemConfig{})
	assert.Error(t, err)
}

func TestShaderSystemReportsBrokenConfigOnChange(t *testing.T) {
	f := newFixture(t)
	ss := f.manager.Shaders
	p, err := ss.Load("lit")
	require.NoError(t, err)

	var logs bytes.Buffer
	core.SetLogOutput(&logs)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })

	// a half saved config
	write(t, filepath.Join(f.dir, "shaders", "lit.shadercfg"), []byte("name = \"lit\"\n[stages\n"))
	cfg, ok := f.manager.Assets.Lookup("lit", resources.ResourceTypeShader)
	require.True(t, ok)
	ss.onAssetChanged(cfg)

	current, err := ss.GetShader("lit")
	require.NoError(t, err)
	assert.Same(t, p, current)
	assert.Contains(t, logs.String(), "shader lit keeps its previous program")
	assert.Contains(t, logs.String(), "shader lit was not reloaded")
}

func TestFontSystemAcquireAndRelease(t *testing.T) {
	f := newFixture(t)
	fs := f.manager.Fonts

	font, err := fs.Acquire("mono")
	require.NoError(t, err)
	assert.Equal(t, "Test Mono", font.Data.Face)
	assert.Equal(t, float32(16), font.Data.TabXAdvance)
	assert.Equal(t, 16, font.Atlas.Size().Width)
	assert.Equal(t, 8, font.Atlas.Size().Height)
	// glyph coverage is not colour
	assert.Equal(t, gl.RGBA8, f.driver.TextureInternalFormat(font.Atlas.ID(), gl.TEXTURE_2D, 0))

	again, err := fs.Acquire("mono")
	require.NoError(t, err)
	assert.Same(t, font, again)
	assert.Equal(t, uint32(2), fs.References("mono"))

	fs.Release("mono")
	assert.True(t, f.driver.TextureExists(font.Atlas.ID()))
	fs.Release("mono")
	assert.Zero(t, fs.References("mono"))
	assert.False(t, f.driver.TextureExists(font.Atlas.ID()))

	_, err = fs.Acquire("missing")
	assert.ErrorIs(t, err, core.ErrUnknownResource)
	_, err = fs.Acquire("split")
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)
	assert.Zero(t, fs.References("split"))

	_, err = NewFontSystem(&FontSystemConfig{}, f.ctx, nil)
	assert.Error(t, err)
}

func TestFontSystemReloadsOnPageChange(t *testing.T) {
	f := newFixture(t)
	fs := f.manager.Fonts
	font, err := fs.Acquire("mono")
	require.NoError(t, err)
	atlas, data := font.Atlas, font.Data

	write(t, filepath.Join(f.dir, "fonts", "mono.fnt"), []byte(fontDescriptor(32, 16, 1)))
	write(t, filepath.Join(f.dir, "fonts", "mono_0.png"), pngBytes(t, 32, 16))
	page, ok := f.manager.Assets.Lookup("mono_0", resources.ResourceTypeImage)
	require.True(t, ok)
	fs.onAssetChanged(page)

	assert.Same(t, atlas, font.Atlas)
	assert.NotSame(t, data, font.Data)
	assert.Equal(t, 32, font.Data.AtlasSizeX)
	_, w, h, _, ok := f.driver.TextureImage(atlas.ID(), gl.TEXTURE_2D, 0)
	require.True(t, ok)
	assert.Equal(t, int32(32), w)
	assert.Equal(t, int32(16), h)

	// the page no longer matches the descriptor
	var logs bytes.Buffer
	core.SetLogOutput(&logs)
	t.Cleanup(func() { core.SetLogOutput(os.Stderr) })

	write(t, filepath.Join(f.dir, "fonts", "mono.fnt"), []byte(fontDescriptor(64, 64, 1)))
	desc, ok := f.manager.Assets.Lookup("mono", resources.ResourceTypeBitmapFont)
	require.True(t, ok)
	current := font.Data
	fs.onAssetChanged(desc)
	assert.Same(t, current, font.Data)
	assert.Contains(t, logs.String(), "font mono keeps its previous glyphs")
}
