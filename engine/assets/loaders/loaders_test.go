package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/resources"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 7, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeImageFlipsRows(t *testing.T) {
	data := encodePNG(t, 3, 2)

	top, err := DecodeImage(bytes.NewReader(data), &resources.ImageResourceParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, top.Width)
	assert.Equal(t, 2, top.Height)
	assert.Equal(t, resources.FormatRGBA, top.Format)
	assert.Equal(t, []byte{0, 0, 7, 255}, top.Level(0)[:4])

	flipped, err := DecodeImage(bytes.NewReader(data), &resources.ImageResourceParams{FlipY: true})
	require.NoError(t, err)
	// the first row now holds y = 1
	assert.Equal(t, []byte{0, 1, 7, 255}, flipped.Level(0)[:4])
}

func TestDecodeImageScalesDown(t *testing.T) {
	img, err := DecodeImage(bytes.NewReader(encodePNG(t, 64, 16)), &resources.ImageResourceParams{MaxDimension: 32})
	require.NoError(t, err)
	assert.Equal(t, 32, img.Width)
	assert.Equal(t, 8, img.Height)
	assert.Len(t, img.Level(0), 32*8*4)
}

func TestDecodeImageRejectsGarbage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")), &resources.ImageResourceParams{})
	assert.Error(t, err)
}

func TestShaderLoaderReadsStages(t *testing.T) {
	dir := t.TempDir()
	cfg := `
name = "lit"
feedback_varyings = []

[stages]
vertex = "lit.vert"
fragment = "lit.frag"

[attribute_locations]
Position = 0
Normal = 1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lit.shadercfg"), []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lit.vert"), []byte("void main() {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lit.frag"), []byte("out vec4 c;"), 0o644))

	res, err := (&ShaderLoader{}).Load(filepath.Join(dir, "lit.shadercfg"), nil)
	require.NoError(t, err)
	sc := res.Data.(*resources.ShaderConfig)
	assert.Equal(t, "lit", sc.Name)
	assert.Equal(t, map[string]uint32{"Position": 0, "Normal": 1}, sc.AttributeLocations)
	assert.Equal(t, "void main() {}", sc.Sources["vertex"])
	assert.Equal(t, "out vec4 c;", sc.Sources["fragment"])
}

func TestParseShaderConfigErrors(t *testing.T) {
	for name, cfg := range map[string]string{
		"no name":       "[stages]\nvertex = \"a.vert\"\n",
		"no stages":     "name = \"x\"\n",
		"unknown stage": "name = \"x\"\n[stages]\ncompute = \"a.comp\"\n",
		"bad toml":      "name = ",
	} {
		_, err := ParseShaderConfig([]byte(cfg))
		assert.Error(t, err, name)
	}
}

func TestParseMaterialConfig(t *testing.T) {
	cfg, err := ParseMaterialConfig([]byte(`
name = "crate"
shader = "lit"
diffuse_colour = [0.8, 0.6, 0.4, 1.0]
shininess = 32.0
diffuse_map = "crate"
filter = "nearest"
repeat = "clamp_to_edge"
`))
	require.NoError(t, err)
	assert.Equal(t, "crate", cfg.Name)
	assert.Equal(t, [4]float32{0.8, 0.6, 0.4, 1}, cfg.DiffuseColour)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, cfg.AmbientColour)
	assert.Equal(t, float32(32), cfg.Shininess)
	assert.Equal(t, "crate", cfg.DiffuseMap)
}

func TestParseMaterialConfigValidates(t *testing.T) {
	for name, cfg := range map[string]string{
		"no name":        `shader = "lit"`,
		"no shader":      `name = "m"`,
		"colour range":   "name = \"m\"\nshader = \"lit\"\ndiffuse_colour = [2.0, 0.0, 0.0, 1.0]",
		"shininess":      "name = \"m\"\nshader = \"lit\"\nshininess = -1.0",
		"unknown filter": "name = \"m\"\nshader = \"lit\"\nfilter = \"cubic\"",
		"unknown repeat": "name = \"m\"\nshader = \"lit\"\nrepeat = \"wrap\"",
	} {
		_, err := ParseMaterialConfig([]byte(cfg))
		assert.Error(t, err, name)
	}
}

const testFont = `info face="Test Mono" size=8 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=0 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=10 base=8 scaleW=16 scaleH=8 pages=1 packed=0 alphaChnl=0 redChnl=4 greenChnl=4 blueChnl=4
page id=0 file="mono_0.png"
chars count=3
char id=32   x=0     y=0     width=0     height=0     xoffset=0     yoffset=0     xadvance=4     page=0  chnl=15
char id=65   x=0     y=0     width=4     height=6     xoffset=0     yoffset=1     xadvance=5     page=0  chnl=15
char id=86   x=5     y=0     width=4     height=6     xoffset=0     yoffset=1     xadvance=5     page=0  chnl=15
kernings count=1
kerning first=65  second=86  amount=-1
`

func TestBitmapFontLoaderReadsDescriptorAndPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mono.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFont), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mono_0.png"), encodePNG(t, 16, 8), 0o644))

	fl := &BitmapFontLoader{}
	res, err := fl.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "mono", res.Name)
	assert.Equal(t, resources.ResourceTypeBitmapFont, res.Type)
	assert.Equal(t, uint64(16*8*4), res.DataSize)

	font := res.Data.(*resources.BitmapFontResourceData)
	assert.Equal(t, "Test Mono", font.Data.Face)
	assert.Equal(t, 10, font.Data.LineHeight)
	assert.Equal(t, 8, font.Data.Baseline)
	assert.Equal(t, 16, font.Data.AtlasSizeX)
	assert.Equal(t, 8, font.Data.AtlasSizeY)
	assert.Equal(t, float32(16), font.Data.TabXAdvance)
	require.Len(t, font.Data.Glyphs, 3)
	assert.Equal(t, resources.FontGlyph{Codepoint: 'V', X: 5, Width: 4, Height: 6, YOffset: 1, XAdvance: 5},
		font.Data.Glyphs['V'])
	assert.Equal(t, -1, font.Data.Kernings[[2]rune{'A', 'V'}])

	require.Len(t, font.Pages, 1)
	assert.Equal(t, "mono_0.png", font.Pages[0].File)
	// pages are not flipped: the first row is the top of the atlas
	assert.Equal(t, []byte{0, 0, 7, 255}, font.Pages[0].Image.Level(0)[:4])

	require.NoError(t, fl.Unload(res))
	assert.Nil(t, res.Data)
}

func TestBitmapFontLoaderChecksPageSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mono.fnt")
	require.NoError(t, os.WriteFile(path, []byte(testFont), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mono_0.png"), encodePNG(t, 8, 8), 0o644))

	_, err := (&BitmapFontLoader{}).Load(path, nil)
	assert.Error(t, err)

	_, err = (&BitmapFontLoader{}).Load(filepath.Join(dir, "missing.fnt"), nil)
	assert.Error(t, err)
}
