package opengl

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/resources"
)

type formatKey struct {
	format   resources.PixelFormat
	dataType resources.DataType
}

var imageFormats = map[formatKey]PixelFormat{
	{resources.FormatRed, resources.DataTypeUint8}:     FormatR8,
	{resources.FormatRG, resources.DataTypeUint8}:      FormatRG8,
	{resources.FormatRGB, resources.DataTypeUint8}:     FormatRGB8,
	{resources.FormatRGBA, resources.DataTypeUint8}:    FormatRGBA8,
	{resources.FormatBGR, resources.DataTypeUint8}:     {gl.RGB8, gl.BGR, gl.UNSIGNED_BYTE},
	{resources.FormatBGRA, resources.DataTypeUint8}:    {gl.RGBA8, gl.BGRA, gl.UNSIGNED_BYTE},
	{resources.FormatRed, resources.DataTypeFloat32}:   FormatR32F,
	{resources.FormatRG, resources.DataTypeFloat32}:    {gl.RG32F, gl.RG, gl.FLOAT},
	{resources.FormatRGB, resources.DataTypeFloat32}:   {gl.RGB32F, gl.RGB, gl.FLOAT},
	{resources.FormatRGBA, resources.DataTypeFloat32}:  FormatRGBA32F,
	{resources.FormatDepth, resources.DataTypeFloat32}: {gl.DEPTH_COMPONENT32, gl.DEPTH_COMPONENT, gl.FLOAT},
}

var compressedFormats = map[resources.Compression]gl.Enum{
	resources.CompressionDXT1: gl.COMPRESSED_RGBA_S3TC_DXT1_EXT,
	resources.CompressionDXT3: gl.COMPRESSED_RGBA_S3TC_DXT3_EXT,
	resources.CompressionDXT5: gl.COMPRESSED_RGBA_S3TC_DXT5_EXT,
}

// ImageFormat returns the texture format for the pixels of img. For
// compressed images only the internal format is set.
func ImageFormat(img *resources.ImageData) (PixelFormat, error) {
	if img.Compressed() {
		internal, ok := compressedFormats[img.Compression]
		if !ok {
			return PixelFormat{}, fmt.Errorf("%w: compression %s", core.ErrUnsupportedFormat, img.Compression)
		}
		return PixelFormat{Internal: internal}, nil
	}
	f, ok := imageFormats[formatKey{img.Format, img.DataType}]
	if !ok {
		return PixelFormat{}, fmt.Errorf("%w: pixel format %d with data type %d", core.ErrUnsupportedFormat, img.Format, img.DataType)
	}
	return f, nil
}

// TextureKindFor picks the texture kind that stores img.
func TextureKindFor(img *resources.ImageData) (TextureKind, error) {
	switch img.Type {
	case resources.Image1D:
		if img.ArrayCount > 1 {
			return TextureArray1D, nil
		}
		return Texture1D, nil
	case resources.Image2D:
		if img.ArrayCount > 1 {
			return TextureArray2D, nil
		}
		return Texture2D, nil
	case resources.ImageCube:
		if img.ArrayCount == 1 {
			return TextureCube, nil
		}
	}
	return 0, fmt.Errorf("%w: %s image with %d layers", core.ErrUnsupportedFormat, img.Type, img.ArrayCount)
}

func compatible(kind TextureKind, img *resources.ImageData) bool {
	switch kind {
	case Texture1D:
		return img.Type == resources.Image1D && img.ArrayCount == 1
	case TextureArray1D:
		return img.Type == resources.Image1D
	case Texture2D:
		return img.Type == resources.Image2D && img.ArrayCount == 1
	case TextureArray2D:
		return img.Type == resources.Image2D
	case TextureCube:
		return img.Type == resources.ImageCube && img.ArrayCount == 1
	}
	return false
}

// SetImageData replaces the texture with every mip level, array layer and
// cube face of img. The pixel transfer format follows the image. A non zero
// internalFormatHint replaces the internal format of uncompressed images,
// for example gl.SRGB8_ALPHA8 for colour maps; compressed images keep the
// format of their blocks.
func (t *Texture) SetImageData(img *resources.ImageData, internalFormatHint gl.Enum) error {
	if !compatible(t.kind, img) {
		return fmt.Errorf("%w: %s image with %d layers in a %s texture", core.ErrUnsupportedFormat, img.Type, img.ArrayCount, t.kind)
	}
	format, err := ImageFormat(img)
	if err != nil {
		return err
	}
	if img.Compressed() && t.kind != Texture2D && t.kind != TextureArray2D && t.kind != TextureCube {
		return fmt.Errorf("%w: compressed %s textures", core.ErrUnsupportedFormat, t.kind)
	}

	if internalFormatHint != 0 && !img.Compressed() {
		format.Internal = internalFormatHint
	}

	f := t.ctx.gl
	t.format = format
	t.compressed = 0
	if img.Compressed() {
		t.compressed = format.Internal
	}
	base := Size{Width: img.Width, Height: img.Height, Layers: img.ArrayCount}

	sw := t.bind()
	for level := 0; level < img.MipCount; level++ {
		w, h, _ := img.MipSize(level)
		lv, s := int32(level), Size{Width: w, Height: h, Layers: img.ArrayCount}
		switch {
		case img.Compressed() && t.kind == TextureArray2D:
			f.CompressedTexImage3D(gl.TEXTURE_2D_ARRAY, lv, format.Internal, int32(w), int32(h), int32(img.ArrayCount), img.Level(level))
		case img.Compressed():
			for face := 0; face < img.Faces(); face++ {
				target := t.Target()
				if t.kind == TextureCube {
					target = gl.CubeFaces[face]
				}
				f.CompressedTexImage2D(target, lv, format.Internal, int32(w), int32(h), img.Image(level, 0, face))
			}
		case t.kind.array():
			t.allocLevel(level, s, nil)
			for layer := 0; layer < img.ArrayCount; layer++ {
				t.subImage(level, Region{Layer: layer, Width: w, Height: h, Layers: 1}, img.Image(level, layer, 0))
			}
		default:
			t.allocLevel(level, s, img.Level(level))
		}
	}
	t.size, t.levels = base, img.MipCount
	t.setMipRange(0, img.MipCount-1)
	sw.Restore()
	t.ctx.CheckError("Texture.SetImageData")
	return nil
}

// NewTextureFromImage creates a texture of the kind matching img and
// uploads it with SetImageData.
func NewTextureFromImage(ctx *Context, img *resources.ImageData, internalFormatHint gl.Enum) (*Texture, error) {
	kind, err := TextureKindFor(img)
	if err != nil {
		return nil, err
	}
	format, err := ImageFormat(img)
	if err != nil {
		return nil, err
	}
	t := NewTexture(ctx, kind, format)
	if err := t.SetImageData(img, internalFormatHint); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}
