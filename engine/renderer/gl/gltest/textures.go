package gltest

import (
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type imageKey struct {
	face  gl.Enum
	level int32
}

type image struct {
	width, height, depth int32
	internalFormat       gl.Enum
	format, ty           gl.Enum
	compressed           bool
	data                 []byte
}

type texture struct {
	target gl.Enum
	images map[imageKey]*image
	params map[gl.Enum]int32
}

type sampler struct {
	params map[gl.Enum]int32
}

func (d *Driver) GenTexture() uint32 {
	id := d.genID()
	d.textures[id] = &texture{images: map[imageKey]*image{}, params: map[gl.Enum]int32{}}
	return id
}

func (d *Driver) DeleteTexture(id uint32) {
	delete(d.textures, id)
	for _, unit := range d.textureUnits {
		for t, b := range unit {
			if b == id {
				unit[t] = 0
			}
		}
	}
}

func (d *Driver) ActiveTexture(unit gl.Enum) {
	if unit < gl.TEXTURE0 || int32(unit-gl.TEXTURE0) >= d.MaxTextureUnits {
		d.setError(gl.INVALID_ENUM)
		return
	}
	d.activeUnit = uint32(unit - gl.TEXTURE0)
}

func (d *Driver) BindTexture(target gl.Enum, id uint32) {
	if id != 0 {
		t := d.textures[id]
		if t == nil {
			d.setError(gl.INVALID_OPERATION)
			return
		}
		if t.target == 0 {
			t.target = target
		} else if t.target != target {
			d.setError(gl.INVALID_OPERATION)
			return
		}
	}
	if d.textureUnits[d.activeUnit] == nil {
		d.textureUnits[d.activeUnit] = map[gl.Enum]uint32{}
	}
	d.textureUnits[d.activeUnit][target] = id
}

// BoundTexture returns the texture bound to target on a texture unit.
func (d *Driver) BoundTexture(unit uint32, target gl.Enum) uint32 {
	return d.textureUnits[unit][target]
}

// ActiveUnit returns the index of the active texture unit.
func (d *Driver) ActiveUnit() uint32 { return d.activeUnit }

func bindingTarget(target gl.Enum) gl.Enum {
	if target >= gl.TEXTURE_CUBE_MAP_POSITIVE_X && target <= gl.TEXTURE_CUBE_MAP_NEGATIVE_Z {
		return gl.TEXTURE_CUBE_MAP
	}
	return target
}

func (d *Driver) boundTexture(target gl.Enum) *texture {
	t := d.textures[d.textureUnits[d.activeUnit][bindingTarget(target)]]
	if t == nil {
		d.setError(gl.INVALID_OPERATION)
	}
	return t
}

func (d *Driver) TexParameteri(target, pname gl.Enum, param int32) {
	if t := d.boundTexture(target); t != nil {
		t.params[pname] = param
	}
}

func (d *Driver) PixelStorei(pname gl.Enum, param int32) {
	switch param {
	case 1, 2, 4, 8:
		d.pixelStore[pname] = param
	default:
		d.setError(gl.INVALID_VALUE)
	}
}

func pixelSize(format, ty gl.Enum) int {
	return gl.FormatComponents(format) * gl.DataTypeSize(ty)
}

func alignUp(v, a int) int {
	return (v + a - 1) / a * a
}

// source resolves client data or the bound unpack buffer for an upload of
// rows of rowBytes each.
func (d *Driver) source(data []byte, rows, rowBytes int) ([]byte, int, bool) {
	stride := alignUp(rowBytes, int(d.pixelStore[gl.UNPACK_ALIGNMENT]))
	need := 0
	if rows > 0 {
		need = stride*(rows-1) + rowBytes
	}
	if id := d.bufferBindings[gl.PIXEL_UNPACK_BUFFER]; id != 0 {
		if data != nil {
			d.setError(gl.INVALID_OPERATION)
			return nil, 0, false
		}
		b := d.buffers[id]
		if len(b.data) < need || b.mapped {
			d.setError(gl.INVALID_OPERATION)
			return nil, 0, false
		}
		return b.data, stride, true
	}
	if data == nil {
		return nil, stride, true
	}
	if len(data) < need {
		d.setError(gl.INVALID_VALUE)
		return nil, 0, false
	}
	return data, stride, true
}

func (d *Driver) texImage(target gl.Enum, level int32, internalFormat gl.Enum, w, h, depth int32, format, ty gl.Enum, data []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	if w < 0 || h < 0 || depth < 0 || level < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	bpp := pixelSize(format, ty)
	if bpp == 0 {
		d.setError(gl.INVALID_ENUM)
		return
	}
	rowBytes := int(w) * bpp
	rows := int(h * depth)
	src, stride, ok := d.source(data, rows, rowBytes)
	if !ok {
		return
	}
	img := &image{
		width:          w,
		height:         h,
		depth:          depth,
		internalFormat: internalFormat,
		format:         format,
		ty:             ty,
		data:           make([]byte, rowBytes*rows),
	}
	if src != nil {
		for r := 0; r < rows; r++ {
			copy(img.data[r*rowBytes:(r+1)*rowBytes], src[r*stride:])
		}
	}
	t.images[imageKey{target, level}] = img
}

func (d *Driver) TexImage1D(target gl.Enum, level int32, internalFormat gl.Enum, width int32, format, ty gl.Enum, data []byte) {
	d.texImage(target, level, internalFormat, width, 1, 1, format, ty, data)
}

func (d *Driver) TexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, format, ty gl.Enum, data []byte) {
	d.texImage(target, level, internalFormat, width, height, 1, format, ty, data)
}

func (d *Driver) TexImage3D(target gl.Enum, level int32, internalFormat gl.Enum, width, height, depth int32, format, ty gl.Enum, data []byte) {
	d.texImage(target, level, internalFormat, width, height, depth, format, ty, data)
}

func (d *Driver) texSubImage(target gl.Enum, level, x, y, z, w, h, depth int32, format, ty gl.Enum, data []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	img := t.images[imageKey{target, level}]
	if img == nil || img.compressed {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	if x < 0 || y < 0 || z < 0 || x+w > img.width || y+h > img.height || z+depth > img.depth {
		d.setError(gl.INVALID_VALUE)
		return
	}
	bpp := pixelSize(format, ty)
	if format != img.format || ty != img.ty {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	rowBytes := int(w) * bpp
	src, stride, ok := d.source(data, int(h*depth), rowBytes)
	if !ok || src == nil {
		if ok {
			d.setError(gl.INVALID_VALUE)
		}
		return
	}
	dstRow := int(img.width) * bpp
	for k := int32(0); k < depth; k++ {
		for j := int32(0); j < h; j++ {
			srcOff := int(k*h+j) * stride
			dstOff := int((z+k)*img.height+(y+j))*dstRow + int(x)*bpp
			copy(img.data[dstOff:dstOff+rowBytes], src[srcOff:])
		}
	}
}

func (d *Driver) TexSubImage1D(target gl.Enum, level, x, width int32, format, ty gl.Enum, data []byte) {
	d.texSubImage(target, level, x, 0, 0, width, 1, 1, format, ty, data)
}

func (d *Driver) TexSubImage2D(target gl.Enum, level, x, y, width, height int32, format, ty gl.Enum, data []byte) {
	d.texSubImage(target, level, x, y, 0, width, height, 1, format, ty, data)
}

func (d *Driver) TexSubImage3D(target gl.Enum, level, x, y, z, width, height, depth int32, format, ty gl.Enum, data []byte) {
	d.texSubImage(target, level, x, y, z, width, height, depth, format, ty, data)
}

// CompressedSize returns the byte size of an S3TC image.
func CompressedSize(format gl.Enum, w, h, depth int32) int {
	block := 16
	if format == gl.COMPRESSED_RGB_S3TC_DXT1_EXT || format == gl.COMPRESSED_RGBA_S3TC_DXT1_EXT {
		block = 8
	}
	return int((w+3)/4) * int((h+3)/4) * int(depth) * block
}

func (d *Driver) compressedTexImage(target gl.Enum, level int32, internalFormat gl.Enum, w, h, depth int32, data []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	switch internalFormat {
	case gl.COMPRESSED_RGB_S3TC_DXT1_EXT, gl.COMPRESSED_RGBA_S3TC_DXT1_EXT,
		gl.COMPRESSED_RGBA_S3TC_DXT3_EXT, gl.COMPRESSED_RGBA_S3TC_DXT5_EXT:
	default:
		d.setError(gl.INVALID_ENUM)
		return
	}
	if len(data) != CompressedSize(internalFormat, w, h, depth) {
		d.setError(gl.INVALID_VALUE)
		return
	}
	t.images[imageKey{target, level}] = &image{
		width:          w,
		height:         h,
		depth:          depth,
		internalFormat: internalFormat,
		compressed:     true,
		data:           append([]byte(nil), data...),
	}
}

func (d *Driver) CompressedTexImage2D(target gl.Enum, level int32, internalFormat gl.Enum, width, height int32, data []byte) {
	d.compressedTexImage(target, level, internalFormat, width, height, 1, data)
}

func (d *Driver) CompressedTexImage3D(target gl.Enum, level int32, internalFormat gl.Enum, width, height, depth int32, data []byte) {
	d.compressedTexImage(target, level, internalFormat, width, height, depth, data)
}

func (d *Driver) GetTexImage(target gl.Enum, level int32, format, ty gl.Enum, data []byte) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	img := t.images[imageKey{target, level}]
	if img == nil || img.compressed || format != img.format || ty != img.ty {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	rowBytes := int(img.width) * pixelSize(format, ty)
	rows := int(img.height * img.depth)
	stride := alignUp(rowBytes, int(d.pixelStore[gl.PACK_ALIGNMENT]))
	need := stride*(rows-1) + rowBytes
	dst := data
	if id := d.bufferBindings[gl.PIXEL_PACK_BUFFER]; id != 0 {
		if data != nil {
			d.setError(gl.INVALID_OPERATION)
			return
		}
		dst = d.buffers[id].data
	}
	if len(dst) < need {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	for r := 0; r < rows; r++ {
		copy(dst[r*stride:r*stride+rowBytes], img.data[r*rowBytes:])
	}
}

func (d *Driver) GetTexLevelParameteri(target gl.Enum, level int32, pname gl.Enum) int32 {
	t := d.boundTexture(target)
	if t == nil {
		return 0
	}
	img := t.images[imageKey{target, level}]
	if img == nil {
		return 0
	}
	switch pname {
	case gl.TEXTURE_WIDTH:
		return img.width
	case gl.TEXTURE_HEIGHT:
		return img.height
	case gl.TEXTURE_DEPTH:
		return img.depth
	case gl.TEXTURE_INTERNAL_FORMAT:
		return int32(img.internalFormat)
	}
	d.setError(gl.INVALID_ENUM)
	return 0
}

func (d *Driver) GenerateMipmap(target gl.Enum) {
	t := d.boundTexture(target)
	if t == nil {
		return
	}
	faces := []gl.Enum{target}
	if target == gl.TEXTURE_CUBE_MAP {
		faces = gl.CubeFaces[:]
	}
	halveH := target != gl.TEXTURE_1D && target != gl.TEXTURE_1D_ARRAY
	halveD := target == gl.TEXTURE_3D
	for _, face := range faces {
		base := t.images[imageKey{face, 0}]
		if base == nil || base.compressed {
			d.setError(gl.INVALID_OPERATION)
			return
		}
		w, h, depth := base.width, base.height, base.depth
		for level := int32(1); w > 1 || (halveH && h > 1) || (halveD && depth > 1); level++ {
			w = max(1, w/2)
			if halveH {
				h = max(1, h/2)
			}
			if halveD {
				depth = max(1, depth/2)
			}
			t.images[imageKey{face, level}] = &image{
				width:          w,
				height:         h,
				depth:          depth,
				internalFormat: base.internalFormat,
				format:         base.format,
				ty:             base.ty,
				data:           make([]byte, int(w*h*depth)*pixelSize(base.format, base.ty)),
			}
		}
	}
}

// TextureInternalFormat returns the internal format an image of a texture
// was specified with, or 0.
func (d *Driver) TextureInternalFormat(id uint32, face gl.Enum, level int32) gl.Enum {
	if t := d.textures[id]; t != nil {
		if img := t.images[imageKey{face, level}]; img != nil {
			return img.internalFormat
		}
	}
	return 0
}

// TextureImage returns a copy of one image of a texture. face is the
// texture target for non cube textures.
func (d *Driver) TextureImage(id uint32, face gl.Enum, level int32) (data []byte, width, height, depth int32, ok bool) {
	t := d.textures[id]
	if t == nil {
		return nil, 0, 0, 0, false
	}
	img := t.images[imageKey{face, level}]
	if img == nil {
		return nil, 0, 0, 0, false
	}
	return append([]byte(nil), img.data...), img.width, img.height, img.depth, true
}

// TextureLevels returns how many mip levels are defined for face.
func (d *Driver) TextureLevels(id uint32, face gl.Enum) int {
	t := d.textures[id]
	if t == nil {
		return 0
	}
	n := 0
	for k := range t.images {
		if k.face == face {
			n++
		}
	}
	return n
}

// TextureParam returns a texture parameter set with TexParameteri.
func (d *Driver) TextureParam(id uint32, pname gl.Enum) int32 {
	if t := d.textures[id]; t != nil {
		return t.params[pname]
	}
	return 0
}

// TextureExists reports whether id names a live texture.
func (d *Driver) TextureExists(id uint32) bool {
	return d.textures[id] != nil
}

func (d *Driver) GenSampler() uint32 {
	id := d.genID()
	d.samplers[id] = &sampler{params: map[gl.Enum]int32{}}
	return id
}

func (d *Driver) DeleteSampler(id uint32) {
	delete(d.samplers, id)
	for u, s := range d.samplerUnits {
		if s == id {
			d.samplerUnits[u] = 0
		}
	}
}

func (d *Driver) BindSampler(unit, id uint32) {
	if id != 0 && d.samplers[id] == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.samplerUnits[unit] = id
}

func (d *Driver) SamplerParameteri(id uint32, pname gl.Enum, param int32) {
	s := d.samplers[id]
	if s == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	s.params[pname] = param
}

// BoundSampler returns the sampler object bound to a texture unit.
func (d *Driver) BoundSampler(unit uint32) uint32 {
	return d.samplerUnits[unit]
}

// SamplerParam returns a parameter of a sampler object.
func (d *Driver) SamplerParam(id uint32, pname gl.Enum) int32 {
	if s := d.samplers[id]; s != nil {
		return s.params[pname]
	}
	return 0
}
