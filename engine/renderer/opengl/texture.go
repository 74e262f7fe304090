package opengl

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/resources"
)

type TextureKind int

const (
	Texture1D TextureKind = iota
	Texture2D
	TextureArray1D
	TextureArray2D
	TextureCube
)

func (k TextureKind) Target() gl.Enum {
	switch k {
	case Texture1D:
		return gl.TEXTURE_1D
	case Texture2D:
		return gl.TEXTURE_2D
	case TextureArray1D:
		return gl.TEXTURE_1D_ARRAY
	case TextureArray2D:
		return gl.TEXTURE_2D_ARRAY
	case TextureCube:
		return gl.TEXTURE_CUBE_MAP
	}
	core.Assert(false, "unknown texture kind %d", int(k))
	return 0
}

// SamplerType is the float sampler type that reads textures of kind k.
func (k TextureKind) SamplerType() gl.Enum {
	switch k {
	case Texture1D:
		return gl.SAMPLER_1D
	case Texture2D:
		return gl.SAMPLER_2D
	case TextureArray1D:
		return gl.SAMPLER_1D_ARRAY
	case TextureArray2D:
		return gl.SAMPLER_2D_ARRAY
	case TextureCube:
		return gl.SAMPLER_CUBE
	}
	core.Assert(false, "unknown texture kind %d", int(k))
	return 0
}

func (k TextureKind) String() string {
	switch k {
	case Texture1D:
		return "1D"
	case Texture2D:
		return "2D"
	case TextureArray1D:
		return "1D array"
	case TextureArray2D:
		return "2D array"
	case TextureCube:
		return "cube"
	}
	return fmt.Sprintf("TextureKind(%d)", int(k))
}

func (k TextureKind) array() bool { return k == TextureArray1D || k == TextureArray2D }

func (k TextureKind) faces() int {
	if k == TextureCube {
		return 6
	}
	return 1
}

// PixelFormat pairs the internal storage format of a texture with the
// client format used to transfer its texels.
type PixelFormat struct {
	Internal gl.Enum
	Format   gl.Enum
	Type     gl.Enum
}

// PixelSize is the byte size of one transferred texel.
func (f PixelFormat) PixelSize() int {
	return gl.FormatComponents(f.Format) * gl.DataTypeSize(f.Type)
}

var (
	FormatR8      = PixelFormat{gl.R8, gl.RED, gl.UNSIGNED_BYTE}
	FormatRG8     = PixelFormat{gl.RG8, gl.RG, gl.UNSIGNED_BYTE}
	FormatRGB8    = PixelFormat{gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE}
	FormatRGBA8   = PixelFormat{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}
	FormatSRGBA8  = PixelFormat{gl.SRGB8_ALPHA8, gl.RGBA, gl.UNSIGNED_BYTE}
	FormatR32F    = PixelFormat{gl.R32F, gl.RED, gl.FLOAT}
	FormatRGBA32F = PixelFormat{gl.RGBA32F, gl.RGBA, gl.FLOAT}
	FormatDepth24 = PixelFormat{gl.DEPTH_COMPONENT24, gl.DEPTH_COMPONENT, gl.UNSIGNED_INT}
)

// Size is the extent of a texture level. Height is 1 for 1D kinds, Layers
// is 1 for non-array kinds.
type Size struct {
	Width, Height, Layers int
}

// MipSize returns the extent of level i: each axis is halved and clamped
// to 1, the layer count is unchanged.
func MipSize(s Size, level int) Size {
	return Size{
		Width:  resources.MipDim(s.Width, level),
		Height: resources.MipDim(s.Height, level),
		Layers: s.Layers,
	}
}

// Region selects texels of one level. For cube textures Layer and Layers
// select faces.
type Region struct {
	X, Y, Layer           int
	Width, Height, Layers int
}

// Texture owns a GL texture object.
type Texture struct {
	ctx        *Context
	id         uint32
	kind       TextureKind
	format     PixelFormat
	compressed gl.Enum
	size       Size
	levels     int
	sampler    *Sampler
}

func NewTexture(ctx *Context, kind TextureKind, format PixelFormat) *Texture {
	t := &Texture{ctx: ctx, id: ctx.gl.GenTexture(), kind: kind, format: format}
	core.Assert(kind.Target() != 0, "unknown texture kind")
	return t
}

func (t *Texture) ID() uint32          { return t.id }
func (t *Texture) Kind() TextureKind   { return t.kind }
func (t *Texture) Target() gl.Enum     { return t.kind.Target() }
func (t *Texture) Format() PixelFormat { return t.format }
func (t *Texture) Size() Size          { return t.size }
func (t *Texture) Levels() int         { return t.levels }
func (t *Texture) Sampler() *Sampler   { return t.sampler }

// Compressed reports whether the storage is block compressed.
func (t *Texture) Compressed() bool { return t.compressed != 0 }

// SetSampler attaches a sampler object used whenever the texture is bound
// to a program.
func (t *Texture) SetSampler(s *Sampler) { t.sampler = s }

// bind binds the texture on unit 0. Unit 0 is kept for texture
// maintenance so program sampler bindings, which start at 1, survive it.
func (t *Texture) bind() Switcher {
	core.Assert(t.id != gl.InvalidID, "texture used after release")
	return t.ctx.BindTexture(0, t.Target(), t.id)
}

func (t *Texture) checkSize(s Size) {
	core.Assert(s.Width > 0 && s.Height > 0 && s.Layers > 0, "invalid %s texture size %v", t.kind, s)
	switch t.kind {
	case Texture1D:
		core.Assert(s.Height == 1 && s.Layers == 1, "1D texture of size %v", s)
	case TextureArray1D:
		core.Assert(s.Height == 1, "1D array texture of size %v", s)
	case Texture2D:
		core.Assert(s.Layers == 1, "2D texture of size %v", s)
	case TextureCube:
		core.Assert(s.Layers == 1 && s.Width == s.Height, "cube texture of size %v", s)
	}
}

// levelBytes is the transfer size of a whole level.
func (t *Texture) levelBytes(s Size) int {
	return s.Width * s.Height * s.Layers * t.kind.faces() * t.format.PixelSize()
}

// allocLevel (re)specifies one level. data is nil, or holds the whole
// level with cube faces in +X, -X, +Y, -Y, +Z, -Z order.
func (t *Texture) allocLevel(level int, s Size, data []byte) {
	f, lv := t.ctx.gl, int32(level)
	w, h, layers := int32(s.Width), int32(s.Height), int32(s.Layers)
	p := t.format
	switch t.kind {
	case Texture1D:
		f.TexImage1D(gl.TEXTURE_1D, lv, p.Internal, w, p.Format, p.Type, data)
	case Texture2D:
		f.TexImage2D(gl.TEXTURE_2D, lv, p.Internal, w, h, p.Format, p.Type, data)
	case TextureArray1D:
		f.TexImage2D(gl.TEXTURE_1D_ARRAY, lv, p.Internal, w, layers, p.Format, p.Type, data)
	case TextureArray2D:
		f.TexImage3D(gl.TEXTURE_2D_ARRAY, lv, p.Internal, w, h, layers, p.Format, p.Type, data)
	case TextureCube:
		for face, target := range gl.CubeFaces {
			f.TexImage2D(target, lv, p.Internal, w, h, p.Format, p.Type, faceSlice(data, face))
		}
	}
}

func faceSlice(data []byte, face int) []byte {
	if data == nil {
		return nil
	}
	n := len(data) / 6
	return data[face*n : (face+1)*n]
}

func (t *Texture) subImage(level int, r Region, data []byte) {
	f, lv := t.ctx.gl, int32(level)
	x, y, z := int32(r.X), int32(r.Y), int32(r.Layer)
	w, h, d := int32(r.Width), int32(r.Height), int32(r.Layers)
	p := t.format
	switch t.kind {
	case Texture1D:
		f.TexSubImage1D(gl.TEXTURE_1D, lv, x, w, p.Format, p.Type, data)
	case Texture2D:
		f.TexSubImage2D(gl.TEXTURE_2D, lv, x, y, w, h, p.Format, p.Type, data)
	case TextureArray1D:
		f.TexSubImage2D(gl.TEXTURE_1D_ARRAY, lv, x, z, w, d, p.Format, p.Type, data)
	case TextureArray2D:
		f.TexSubImage3D(gl.TEXTURE_2D_ARRAY, lv, x, y, z, w, h, d, p.Format, p.Type, data)
	case TextureCube:
		per := r.Width * r.Height * p.PixelSize()
		for i := 0; i < r.Layers; i++ {
			var face []byte
			if data != nil {
				face = data[i*per : (i+1)*per]
			}
			f.TexSubImage2D(gl.CubeFaces[r.Layer+i], lv, x, y, w, h, p.Format, p.Type, face)
		}
	}
}

// SetStorage allocates levels mip levels of uninitialized texels.
func (t *Texture) SetStorage(s Size, levels int) {
	t.checkSize(s)
	core.Assert(levels >= 1 && levels <= resources.MipCount(s.Width, s.Height, 1),
		"%d mip levels for a %dx%d texture", levels, s.Width, s.Height)
	sw := t.bind()
	for level := 0; level < levels; level++ {
		t.allocLevel(level, MipSize(s, level), nil)
	}
	t.size, t.levels, t.compressed = s, levels, 0
	t.setMipRange(0, levels-1)
	sw.Restore()
	t.ctx.CheckError("Texture.SetStorage")
}

// SetData replaces the texture with a single level holding data.
func (t *Texture) SetData(s Size, data []byte) {
	t.checkSize(s)
	core.Assert(len(data) == t.levelBytes(s), "%d bytes for a %v %s texture of %d bytes", len(data), s, t.kind, t.levelBytes(s))
	sw := t.bind()
	t.allocLevel(0, s, data)
	t.size, t.levels, t.compressed = s, 1, 0
	t.setMipRange(0, 0)
	sw.Restore()
	t.ctx.CheckError("Texture.SetData")
}

// SetSubData overwrites a region of a level.
func (t *Texture) SetSubData(level int, r Region, data []byte) {
	core.Assert(!t.Compressed(), "sub-image updates of compressed textures are not supported")
	core.Assert(level >= 0 && level < t.levels, "level %d of a %d level texture", level, t.levels)
	s := MipSize(t.size, level)
	limit := s.Layers
	if t.kind == TextureCube {
		limit = 6
	}
	core.Assert(r.X >= 0 && r.Y >= 0 && r.Layer >= 0 && r.Width > 0 && r.Height > 0 && r.Layers > 0 &&
		r.X+r.Width <= s.Width && r.Y+r.Height <= s.Height && r.Layer+r.Layers <= limit,
		"region %+v outside level %d of size %v", r, level, s)
	core.Assert(len(data) == r.Width*r.Height*r.Layers*t.format.PixelSize(),
		"%d bytes for region %+v", len(data), r)
	sw := t.bind()
	t.subImage(level, r, data)
	sw.Restore()
	t.ctx.CheckError("Texture.SetSubData")
}

// Grow enlarges the texture to s, keeping the texels of level 0 in the
// lower corner (and lower layers). The old contents round-trip through a
// pixel pack buffer without leaving the GPU. Mip levels are discarded.
func (t *Texture) Grow(s Size) {
	core.Assert(t.kind != TextureCube, "cube textures cannot grow")
	core.Assert(!t.Compressed(), "compressed textures cannot grow")
	t.checkSize(s)
	old := t.size
	core.Assert(s.Width >= old.Width && s.Height >= old.Height && s.Layers >= old.Layers,
		"cannot shrink a texture from %v to %v", old, s)
	if t.levels == 0 {
		t.SetStorage(s, 1)
		return
	}

	f := t.ctx.gl
	pack := NewBuffer(t.ctx, gl.PIXEL_PACK_BUFFER, ByteLayout)
	pack.Reserve(t.levelBytes(old), gl.STREAM_COPY)

	bs := t.ctx.BindBuffer(gl.PIXEL_PACK_BUFFER, pack.ID())
	sw := t.bind()
	f.GetTexImage(t.Target(), 0, t.format.Format, t.format.Type, nil)
	sw.Restore()
	bs.Restore()

	sw = t.bind()
	t.allocLevel(0, s, nil)
	bs = t.ctx.BindBuffer(gl.PIXEL_UNPACK_BUFFER, pack.ID())
	t.subImage(0, Region{Width: old.Width, Height: old.Height, Layers: old.Layers}, nil)
	bs.Restore()
	t.size, t.levels = s, 1
	t.setMipRange(0, 0)
	sw.Restore()

	pack.Release()
	t.ctx.CheckError("Texture.Grow")
}

// GenerateMipmaps builds the full mip chain from level 0.
func (t *Texture) GenerateMipmaps() {
	core.Assert(t.levels > 0, "texture has no storage")
	sw := t.bind()
	t.ctx.gl.GenerateMipmap(t.Target())
	t.levels = resources.MipCount(t.size.Width, t.size.Height, 1)
	t.setMipRange(0, t.levels-1)
	sw.Restore()
	t.ctx.CheckError("Texture.GenerateMipmaps")
}

// SetMipRange limits sampling to levels [base, maxLevel].
func (t *Texture) SetMipRange(base, maxLevel int) {
	core.Assert(base >= 0 && base <= maxLevel && maxLevel < t.levels,
		"mip range [%d, %d] of a %d level texture", base, maxLevel, t.levels)
	sw := t.bind()
	t.setMipRange(base, maxLevel)
	sw.Restore()
}

func (t *Texture) setMipRange(base, maxLevel int) {
	t.ctx.gl.TexParameteri(t.Target(), gl.TEXTURE_BASE_LEVEL, int32(base))
	t.ctx.gl.TexParameteri(t.Target(), gl.TEXTURE_MAX_LEVEL, int32(maxLevel))
}

// SetParameter sets a texture parameter on the texture object itself.
// Parameters of an attached sampler take precedence.
func (t *Texture) SetParameter(pname gl.Enum, value int32) {
	sw := t.bind()
	t.ctx.gl.TexParameteri(t.Target(), pname, value)
	sw.Restore()
}

// Read copies a whole level back into client memory. Cube textures are
// read face by face with ReadFace.
func (t *Texture) Read(level int) []byte {
	core.Assert(t.kind != TextureCube, "read cube textures with ReadFace")
	return t.read(t.Target(), level)
}

// ReadFace copies one face of a cube texture level.
func (t *Texture) ReadFace(face, level int) []byte {
	core.Assert(t.kind == TextureCube, "ReadFace on a %s texture", t.kind)
	return t.read(gl.CubeFaces[face], level)
}

func (t *Texture) read(target gl.Enum, level int) []byte {
	core.Assert(!t.Compressed(), "reading compressed textures is not supported")
	core.Assert(level >= 0 && level < t.levels, "level %d of a %d level texture", level, t.levels)
	s := MipSize(t.size, level)
	out := make([]byte, s.Width*s.Height*s.Layers*t.format.PixelSize())
	sw := t.bind()
	t.ctx.gl.GetTexImage(target, int32(level), t.format.Format, t.format.Type, out)
	sw.Restore()
	t.ctx.CheckError("Texture.Read")
	return out
}

// Release frees the GL texture.
func (t *Texture) Release() {
	if t.id == gl.InvalidID {
		return
	}
	t.ctx.gl.DeleteTexture(t.id)
	for _, targets := range t.ctx.textures {
		for target, id := range targets {
			if id == t.id {
				targets[target] = 0
			}
		}
	}
	t.id, t.levels = gl.InvalidID, 0
}
