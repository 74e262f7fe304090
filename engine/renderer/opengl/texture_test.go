package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/resources"
)

func TestTextureMipSizes(t *testing.T) {
	base := Size{Width: 16, Height: 5, Layers: 2}
	want := []Size{{16, 5, 2}, {8, 2, 2}, {4, 1, 2}, {2, 1, 2}, {1, 1, 2}}
	for level, s := range want {
		assert.Equal(t, s, MipSize(base, level), "level %d", level)
	}

	ctx, d := newTestContext(t)
	tex := NewTexture(ctx, Texture2D, FormatRGBA8)
	tex.SetStorage(Size{Width: 16, Height: 5, Layers: 1}, 5)
	assert.Equal(t, 5, d.TextureLevels(tex.ID(), gl.TEXTURE_2D))
	assert.Equal(t, int32(4), d.TextureParam(tex.ID(), gl.TEXTURE_MAX_LEVEL))
	for level := 0; level < 5; level++ {
		_, w, h, _, ok := d.TextureImage(tex.ID(), gl.TEXTURE_2D, int32(level))
		require.True(t, ok)
		assert.Equal(t, int32(want[level].Width), w)
		assert.Equal(t, int32(want[level].Height), h)
	}
	assert.Panics(t, func() { tex.SetStorage(Size{Width: 16, Height: 5, Layers: 1}, 6) })
}

func TestTextureGrowKeepsContents(t *testing.T) {
	ctx, d := newTestContext(t)
	tex := NewTexture(ctx, Texture2D, FormatRGBA8)
	old := fill(3*2*4, 11)
	tex.SetData(Size{Width: 3, Height: 2, Layers: 1}, old)

	tex.Grow(Size{Width: 5, Height: 4, Layers: 1})
	assert.Equal(t, Size{Width: 5, Height: 4, Layers: 1}, tex.Size())
	assert.Equal(t, 1, tex.Levels())

	got := tex.Read(0)
	require.Len(t, got, 5*4*4)
	for y := 0; y < 2; y++ {
		assert.Equal(t, old[y*12:(y+1)*12], got[y*20:y*20+12], "row %d", y)
	}
	assert.Equal(t, make([]byte, 2*20), got[2*20:], "new rows start zeroed")

	// the transfer buffer is gone and nothing stays bound
	assert.Zero(t, d.BoundBuffer(gl.PIXEL_PACK_BUFFER))
	assert.Zero(t, d.BoundBuffer(gl.PIXEL_UNPACK_BUFFER))
	assert.Zero(t, ctx.Depth())
}

func TestTextureArrayGrowKeepsLayers(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex := NewTexture(ctx, TextureArray2D, FormatR8)
	old := fill(2*2*2, 3)
	tex.SetData(Size{Width: 2, Height: 2, Layers: 2}, old)

	tex.Grow(Size{Width: 4, Height: 2, Layers: 3})
	got := tex.Read(0)
	require.Len(t, got, 4*2*3)
	for layer := 0; layer < 2; layer++ {
		for y := 0; y < 2; y++ {
			src := old[(layer*2+y)*2 : (layer*2+y)*2+2]
			dst := got[(layer*2+y)*4 : (layer*2+y)*4+2]
			assert.Equal(t, src, dst, "layer %d row %d", layer, y)
		}
	}
}

func TestTextureGrowRejectsShrinkAndCubes(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex := NewTexture(ctx, Texture2D, FormatRGBA8)
	tex.SetData(Size{Width: 4, Height: 4, Layers: 1}, make([]byte, 64))
	assert.Panics(t, func() { tex.Grow(Size{Width: 2, Height: 8, Layers: 1}) })

	cube := NewTexture(ctx, TextureCube, FormatRGBA8)
	assert.Panics(t, func() { cube.Grow(Size{Width: 8, Height: 8, Layers: 1}) })
}

func TestTextureSetSubData(t *testing.T) {
	ctx, _ := newTestContext(t)
	tex := NewTexture(ctx, Texture2D, FormatR8)
	tex.SetData(Size{Width: 4, Height: 3, Layers: 1}, make([]byte, 12))
	tex.SetSubData(0, Region{X: 1, Y: 1, Width: 2, Height: 2, Layers: 1}, []byte{1, 2, 3, 4})

	assert.Equal(t, []byte{
		0, 0, 0, 0,
		0, 1, 2, 0,
		0, 3, 4, 0,
	}, tex.Read(0))
	assert.Panics(t, func() { tex.SetSubData(0, Region{X: 3, Width: 2, Height: 1, Layers: 1}, []byte{1, 2}) })
}

func TestSetImageDataCube(t *testing.T) {
	ctx, d := newTestContext(t)
	img, err := resources.NewImageData(resources.ImageConfig{
		Width: 4, Height: 4, Type: resources.ImageCube,
		Format: resources.FormatRGBA, DataType: resources.DataTypeUint8,
		MipCount: 3,
	})
	require.NoError(t, err)
	for level := 0; level < 3; level++ {
		for face := 0; face < 6; face++ {
			require.NoError(t, img.SetImage(level, 0, face, fill(img.ImageSize(level), byte(face*16+level))))
		}
	}

	tex, err := NewTextureFromImage(ctx, img, 0)
	require.NoError(t, err)
	assert.Equal(t, TextureCube, tex.Kind())
	assert.Equal(t, 3, tex.Levels())
	for level := 0; level < 3; level++ {
		for face := 0; face < 6; face++ {
			data, w, _, _, ok := d.TextureImage(tex.ID(), gl.CubeFaces[face], int32(level))
			require.True(t, ok)
			assert.Equal(t, int32(resources.MipDim(4, level)), w)
			assert.Equal(t, img.Image(level, 0, face), data, "level %d face %d", level, face)
			assert.Equal(t, data, tex.ReadFace(face, level))
		}
	}
}

func TestSetImageDataArray(t *testing.T) {
	ctx, _ := newTestContext(t)
	img, err := resources.NewImageData(resources.ImageConfig{
		Width: 4, Height: 2, Type: resources.Image2D,
		Format: resources.FormatRGB, DataType: resources.DataTypeUint8,
		MipCount: 2, ArrayCount: 3,
	})
	require.NoError(t, err)
	for level := 0; level < 2; level++ {
		for layer := 0; layer < 3; layer++ {
			require.NoError(t, img.SetImage(level, layer, 0, fill(img.ImageSize(level), byte(layer+1))))
		}
	}

	tex, err := NewTextureFromImage(ctx, img, 0)
	require.NoError(t, err)
	assert.Equal(t, TextureArray2D, tex.Kind())
	assert.Equal(t, Size{Width: 4, Height: 2, Layers: 3}, tex.Size())
	assert.Equal(t, img.Level(0), tex.Read(0))
	assert.Equal(t, img.Level(1), tex.Read(1))
}

func TestSetImageDataCompressed(t *testing.T) {
	ctx, d := newTestContext(t)
	img, err := resources.NewImageData(resources.ImageConfig{
		Width: 8, Height: 8, Type: resources.Image2D,
		Compression: resources.CompressionDXT5, MipCount: 2,
	})
	require.NoError(t, err)
	copy(img.Level(0), fill(len(img.Level(0)), 5))

	tex, err := NewTextureFromImage(ctx, img, 0)
	require.NoError(t, err)
	assert.True(t, tex.Compressed())
	data, _, _, _, ok := d.TextureImage(tex.ID(), gl.TEXTURE_2D, 0)
	require.True(t, ok)
	assert.Equal(t, img.Level(0), data)
	assert.Len(t, data, 2*2*16)

	assert.Panics(t, func() { tex.Read(0) })
	assert.Panics(t, func() { tex.Grow(Size{Width: 16, Height: 16, Layers: 1}) })
}

func TestSetImageDataRejectsVolumes(t *testing.T) {
	ctx, _ := newTestContext(t)
	img, err := resources.NewImageData(resources.ImageConfig{
		Width: 4, Height: 4, Depth: 4, Type: resources.Image3D,
		Format: resources.FormatRGBA, DataType: resources.DataTypeUint8,
	})
	require.NoError(t, err)
	_, err = NewTextureFromImage(ctx, img, 0)
	assert.ErrorIs(t, err, core.ErrUnsupportedFormat)

	flat := NewTexture(ctx, Texture2D, FormatRGBA8)
	cube, err := resources.NewImageData(resources.ImageConfig{
		Width: 2, Height: 2, Type: resources.ImageCube,
		Format: resources.FormatRGBA, DataType: resources.DataTypeUint8,
	})
	require.NoError(t, err)
	assert.ErrorIs(t, flat.SetImageData(cube, 0), core.ErrUnsupportedFormat)
}

func TestSamplerBindsWithTexture(t *testing.T) {
	ctx, d := newTestContext(t)
	s := NewSampler(ctx, DefaultSamplerConfig())
	assert.Equal(t, int32(gl.LINEAR), d.SamplerParam(s.ID(), gl.TEXTURE_MAG_FILTER))

	tex := NewTexture(ctx, Texture2D, FormatRGBA8)
	tex.SetData(Size{Width: 1, Height: 1, Layers: 1}, []byte{1, 2, 3, 4})
	tex.SetSampler(s)
	p := linkProgram(t, ctx, testVertexShader, testFragmentShader)
	sw := ctx.UseProgram(p)
	require.True(t, p.BindTexture("DiffuseTexture", tex))
	sw.Restore()

	u, _ := p.Uniform("DiffuseTexture")
	assert.Equal(t, tex.ID(), d.BoundTexture(uint32(u.Unit), gl.TEXTURE_2D))
	assert.Equal(t, s.ID(), d.BoundSampler(uint32(u.Unit)))
}

func TestSetImageDataInternalFormatHint(t *testing.T) {
	ctx, d := newTestContext(t)
	img, err := resources.NewImageData(resources.ImageConfig{
		Width: 4, Height: 4, Type: resources.Image2D,
		Format: resources.FormatRGBA, DataType: resources.DataTypeUint8, MipCount: 2,
	})
	require.NoError(t, err)

	linear, err := NewTextureFromImage(ctx, img, 0)
	require.NoError(t, err)
	assert.Equal(t, FormatRGBA8, linear.Format())
	assert.Equal(t, gl.RGBA8, d.TextureInternalFormat(linear.ID(), gl.TEXTURE_2D, 0))

	colour, err := NewTextureFromImage(ctx, img, gl.SRGB8_ALPHA8)
	require.NoError(t, err)
	assert.Equal(t, FormatSRGBA8, colour.Format())
	for level := int32(0); level < 2; level++ {
		assert.Equal(t, gl.SRGB8_ALPHA8, d.TextureInternalFormat(colour.ID(), gl.TEXTURE_2D, level))
	}

	// compressed blocks keep their own format
	dxt, err := resources.NewImageData(resources.ImageConfig{
		Width: 8, Height: 8, Type: resources.Image2D, Compression: resources.CompressionDXT1, MipCount: 1,
	})
	require.NoError(t, err)
	compressed, err := NewTextureFromImage(ctx, dxt, gl.SRGB8_ALPHA8)
	require.NoError(t, err)
	assert.Equal(t, gl.COMPRESSED_RGBA_S3TC_DXT1_EXT, compressed.Format().Internal)
}
