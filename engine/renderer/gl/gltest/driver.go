// Package gltest provides an in-memory gl.Functions implementation for
// tests. It keeps buffer and texture storage on the CPU, introspects GLSL
// declarations to report active uniforms, attributes and uniform blocks,
// and records every draw call.
package gltest

import (
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// DrawCall is one recorded draw.
type DrawCall struct {
	Mode        gl.Enum
	First       int32
	Count       int32
	Indexed     bool
	Program     uint32
	VertexArray uint32
	ColorMask   [4]bool
	DepthMask   bool
	DepthFunc   gl.Enum
	Blend       bool
	BlendSrc    gl.Enum
	BlendDst    gl.Enum
	Feedback    bool
	Discard     bool
	Framebuffer uint32
}

// Driver is a fake GL context. The zero value is not usable; use New.
type Driver struct {
	nextID uint32
	err    gl.Enum

	// Limits reported by GetInteger.
	MaxUniformBufferBindings int32
	MaxTextureUnits          int32
	MaxVertexAttribs         int32

	// FailUnmaps makes the next n UnmapBuffer calls report lost contents.
	FailUnmaps int
	// UnmapCalls counts UnmapBuffer calls.
	UnmapCalls int

	caps       map[gl.Enum]bool
	colorMask  [4]bool
	depthMask  bool
	depthFunc  gl.Enum
	blendSrc   gl.Enum
	blendDst   gl.Enum
	viewport   [4]int32
	clearColor [4]float32
	Clears     int

	buffers        map[uint32]*buffer
	bufferBindings map[gl.Enum]uint32
	indexed        map[gl.Enum]map[uint32]uint32

	textures     map[uint32]*texture
	activeUnit   uint32
	textureUnits map[uint32]map[gl.Enum]uint32
	samplers     map[uint32]*sampler
	samplerUnits map[uint32]uint32
	pixelStore   map[gl.Enum]int32

	vertexArrays map[uint32]*vertexArray
	currentVAO   uint32

	shaders  map[uint32]*shader
	programs map[uint32]*program
	current  uint32

	feedbackActive bool
	feedbackMode   gl.Enum

	framebuffers map[uint32]*framebuffer
	drawFBO      uint32
	readFBO      uint32

	Draws []DrawCall
}

var _ gl.Functions = (*Driver)(nil)

func New() *Driver {
	d := &Driver{
		MaxUniformBufferBindings: 36,
		MaxTextureUnits:          32,
		MaxVertexAttribs:         16,
		caps:                     map[gl.Enum]bool{},
		colorMask:                [4]bool{true, true, true, true},
		depthMask:                true,
		depthFunc:                gl.LESS,
		blendSrc:                 gl.ONE,
		blendDst:                 gl.ZERO,
		buffers:                  map[uint32]*buffer{},
		bufferBindings:           map[gl.Enum]uint32{},
		indexed:                  map[gl.Enum]map[uint32]uint32{},
		textures:                 map[uint32]*texture{},
		textureUnits:             map[uint32]map[gl.Enum]uint32{},
		samplers:                 map[uint32]*sampler{},
		samplerUnits:             map[uint32]uint32{},
		pixelStore:               map[gl.Enum]int32{gl.PACK_ALIGNMENT: 4, gl.UNPACK_ALIGNMENT: 4},
		vertexArrays:             map[uint32]*vertexArray{0: newVertexArray()},
		shaders:                  map[uint32]*shader{},
		programs:                 map[uint32]*program{},
		framebuffers:             map[uint32]*framebuffer{},
	}
	return d
}

func (d *Driver) genID() uint32 {
	d.nextID++
	return d.nextID
}

// setError records the first error since the last GetError, like a driver
// does.
func (d *Driver) setError(e gl.Enum) {
	if d.err == gl.NO_ERROR {
		d.err = e
	}
}

// InjectError makes the next GetError report e.
func (d *Driver) InjectError(e gl.Enum) {
	d.setError(e)
}

func (d *Driver) GetError() gl.Enum {
	e := d.err
	d.err = gl.NO_ERROR
	return e
}

func (d *Driver) GetInteger(pname gl.Enum) int32 {
	switch pname {
	case gl.MAX_UNIFORM_BUFFER_BINDINGS:
		return d.MaxUniformBufferBindings
	case gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS:
		return d.MaxTextureUnits
	case gl.MAX_VERTEX_ATTRIBS:
		return d.MaxVertexAttribs
	case gl.MAX_TEXTURE_SIZE:
		return 16384
	case gl.MAX_UNIFORM_BLOCK_SIZE:
		return 65536
	case gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT:
		return 256
	case gl.CURRENT_PROGRAM:
		return int32(d.current)
	case gl.PACK_ALIGNMENT, gl.UNPACK_ALIGNMENT:
		return d.pixelStore[pname]
	}
	d.setError(gl.INVALID_ENUM)
	return 0
}

func (d *Driver) GetString(pname gl.Enum) string {
	switch pname {
	case gl.VENDOR:
		return "gin"
	case gl.RENDERER:
		return "gltest"
	case gl.VERSION:
		return "3.3.0 gltest"
	case gl.SHADING_LANGUAGE_VERSION:
		return "3.30"
	}
	d.setError(gl.INVALID_ENUM)
	return ""
}

func (d *Driver) Enable(c gl.Enum)         { d.caps[c] = true }
func (d *Driver) Disable(c gl.Enum)        { d.caps[c] = false }
func (d *Driver) IsEnabled(c gl.Enum) bool { return d.caps[c] }

func (d *Driver) ColorMask(r, g, b, a bool) { d.colorMask = [4]bool{r, g, b, a} }
func (d *Driver) DepthMask(flag bool)       { d.depthMask = flag }
func (d *Driver) DepthFunc(fn gl.Enum)      { d.depthFunc = fn }

func (d *Driver) BlendFunc(s, dst gl.Enum) {
	d.blendSrc = s
	d.blendDst = dst
}

func (d *Driver) Viewport(x, y, w, h int32) { d.viewport = [4]int32{x, y, w, h} }

func (d *Driver) ClearColor(r, g, b, a float32) { d.clearColor = [4]float32{r, g, b, a} }

func (d *Driver) Clear(mask gl.Enum) { d.Clears++ }

// ColorMaskState returns the current colour write mask.
func (d *Driver) ColorMaskState() [4]bool { return d.colorMask }

// BlendFuncState returns the current blend factors.
func (d *Driver) BlendFuncState() (gl.Enum, gl.Enum) { return d.blendSrc, d.blendDst }

// DepthFuncState returns the current depth comparison.
func (d *Driver) DepthFuncState() gl.Enum { return d.depthFunc }

// DepthMaskState returns whether depth writes are enabled.
func (d *Driver) DepthMaskState() bool { return d.depthMask }

// CurrentProgram returns the program made current by UseProgram.
func (d *Driver) CurrentProgram() uint32 { return d.current }

// ViewportState returns the last viewport set.
func (d *Driver) ViewportState() [4]int32 { return d.viewport }

func (d *Driver) recordDraw(mode gl.Enum, first, count int32, indexed bool) {
	d.Draws = append(d.Draws, DrawCall{
		Mode:        mode,
		First:       first,
		Count:       count,
		Indexed:     indexed,
		Program:     d.current,
		VertexArray: d.currentVAO,
		ColorMask:   d.colorMask,
		DepthMask:   d.depthMask,
		DepthFunc:   d.depthFunc,
		Blend:       d.caps[gl.BLEND],
		BlendSrc:    d.blendSrc,
		BlendDst:    d.blendDst,
		Feedback:    d.feedbackActive,
		Discard:     d.caps[gl.RASTERIZER_DISCARD],
		Framebuffer: d.drawFBO,
	})
}
