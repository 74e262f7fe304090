// Package opengl wraps GL objects (buffers, textures, vertex arrays,
// programs and uniform blocks) around an explicit Context that tracks
// bindings and restores them through scoped switchers.
package opengl

import (
	"sync/atomic"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// Caps are the driver limits queried once per context.
type Caps struct {
	Vendor                   string
	Renderer                 string
	Version                  string
	MaxUniformBufferBindings int
	MaxTextureUnits          int
	MaxVertexAttribs         int
}

type blendState struct {
	src, dst gl.Enum
}

// Context tracks the GL state the renderer changes. All GL work happens on
// the thread that owns the GL context, so Context is not safe for
// concurrent use apart from the uniform block binding counter.
type Context struct {
	gl   gl.Functions
	caps Caps

	program      *Program
	vao          uint32
	buffers      map[gl.Enum]uint32
	textures     map[uint32]map[gl.Enum]uint32
	samplers     map[uint32]uint32
	activeUnit   uint32
	drawFBO      uint32
	readFBO      uint32
	capabilities map[gl.Enum]bool
	colorMask    [4]bool
	depthMask    bool
	depthFunc    gl.Enum
	blend        blendState

	guards    []uint64
	nextGuard uint64

	blockBindings atomic.Uint32
}

// NewContext wraps the GL context current on the calling thread.
func NewContext(f gl.Functions) *Context {
	c := &Context{
		gl:           f,
		buffers:      map[gl.Enum]uint32{},
		textures:     map[uint32]map[gl.Enum]uint32{},
		samplers:     map[uint32]uint32{},
		capabilities: map[gl.Enum]bool{},
		colorMask:    [4]bool{true, true, true, true},
		depthMask:    true,
		depthFunc:    gl.LESS,
		blend:        blendState{gl.ONE, gl.ZERO},
	}
	c.caps = Caps{
		Vendor:                   f.GetString(gl.VENDOR),
		Renderer:                 f.GetString(gl.RENDERER),
		Version:                  f.GetString(gl.VERSION),
		MaxUniformBufferBindings: int(f.GetInteger(gl.MAX_UNIFORM_BUFFER_BINDINGS)),
		MaxTextureUnits:          int(f.GetInteger(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS)),
		MaxVertexAttribs:         int(f.GetInteger(gl.MAX_VERTEX_ATTRIBS)),
	}
	// texel rows are tightly packed everywhere in the engine
	f.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	f.PixelStorei(gl.PACK_ALIGNMENT, 1)
	core.LogInfo("OpenGL context: %s (%s), version %s", c.caps.Renderer, c.caps.Vendor, c.caps.Version)
	c.CheckError("NewContext")
	return c
}

func (c *Context) Functions() gl.Functions { return c.gl }

func (c *Context) Caps() Caps { return c.caps }

// CurrentProgram returns the program made current through UseProgram, or
// nil.
func (c *Context) CurrentProgram() *Program { return c.program }

// CheckError asserts that the driver reports no error. op names the call
// sequence that just ran.
func (c *Context) CheckError(op string) {
	if !core.DebugChecks() {
		return
	}
	if e := c.gl.GetError(); e != gl.NO_ERROR {
		core.Assert(false, "%s: %s (0x%04X)", op, gl.ErrorString(e), uint32(e))
	}
}

// allocBlockBinding hands out uniform buffer binding points. Points are
// never reused, even after the block that held one is released.
func (c *Context) allocBlockBinding() uint32 {
	n := c.blockBindings.Add(1) - 1
	core.Assert(int(n) < c.caps.MaxUniformBufferBindings,
		"uniform buffer binding %d exceeds the driver limit of %d", n, c.caps.MaxUniformBufferBindings)
	return n
}

// Switcher restores a piece of GL state when it goes out of scope. Nested
// switchers must be restored in reverse order of creation.
type Switcher struct {
	ctx     *Context
	id      uint64
	restore func()
}

func (c *Context) push(restore func()) Switcher {
	c.nextGuard++
	c.guards = append(c.guards, c.nextGuard)
	return Switcher{ctx: c, id: c.nextGuard, restore: restore}
}

// Restore puts back the state that was current when the switcher was made.
func (s Switcher) Restore() {
	c := s.ctx
	top := len(c.guards) - 1
	core.Assert(top >= 0, "state switcher restored with an empty stack")
	core.Assert(c.guards[top] == s.id, "state switchers restored out of order (depth %d)", len(c.guards))
	c.guards = c.guards[:top]
	s.restore()
}

// Depth returns the number of live switchers.
func (c *Context) Depth() int { return len(c.guards) }

func (c *Context) UseProgram(p *Program) Switcher {
	prev := c.program
	c.useProgram(p)
	return c.push(func() { c.useProgram(prev) })
}

func (c *Context) useProgram(p *Program) {
	if c.program == p {
		return
	}
	var id uint32
	if p != nil {
		core.Assert(p.state == ProgramLinked, "program %s is %s, not linked", p.name, p.state)
		id = p.id
	}
	c.gl.UseProgram(id)
	c.program = p
}

// BindBuffer binds id to a non-indexed buffer target. Index buffers are
// vertex array state and are bound through VertexArray.SetIndices.
func (c *Context) BindBuffer(target gl.Enum, id uint32) Switcher {
	core.Assert(target != gl.ELEMENT_ARRAY_BUFFER, "element buffers are bound through a vertex array")
	prev := c.buffers[target]
	c.bindBuffer(target, id)
	return c.push(func() { c.bindBuffer(target, prev) })
}

func (c *Context) bindBuffer(target gl.Enum, id uint32) {
	if c.buffers[target] == id {
		return
	}
	c.gl.BindBuffer(target, id)
	c.buffers[target] = id
}

func (c *Context) BindVertexArray(id uint32) Switcher {
	prev := c.vao
	c.bindVertexArray(id)
	return c.push(func() { c.bindVertexArray(prev) })
}

func (c *Context) bindVertexArray(id uint32) {
	if c.vao == id {
		return
	}
	c.gl.BindVertexArray(id)
	c.vao = id
}

// BindTexture binds a texture on a unit for the lifetime of the switcher.
func (c *Context) BindTexture(unit uint32, target gl.Enum, id uint32) Switcher {
	prev := c.textures[unit][target]
	c.bindTexture(unit, target, id)
	return c.push(func() { c.bindTexture(unit, target, prev) })
}

func (c *Context) bindTexture(unit uint32, target gl.Enum, id uint32) {
	if c.textures[unit] == nil {
		c.textures[unit] = map[gl.Enum]uint32{}
	}
	if c.textures[unit][target] == id {
		return
	}
	if c.activeUnit != unit {
		c.gl.ActiveTexture(gl.TEXTURE0 + gl.Enum(unit))
		c.activeUnit = unit
	}
	c.gl.BindTexture(target, id)
	c.textures[unit][target] = id
}

func (c *Context) bindSampler(unit, id uint32) {
	if c.samplers[unit] == id {
		return
	}
	c.gl.BindSampler(unit, id)
	c.samplers[unit] = id
}

// BindFramebuffer binds a framebuffer to the draw target, the read target
// or both when target is gl.FRAMEBUFFER.
func (c *Context) BindFramebuffer(target gl.Enum, id uint32) Switcher {
	prevDraw, prevRead := c.drawFBO, c.readFBO
	c.bindFramebuffer(target, id)
	return c.push(func() {
		switch target {
		case gl.DRAW_FRAMEBUFFER:
			c.bindFramebuffer(gl.DRAW_FRAMEBUFFER, prevDraw)
		case gl.READ_FRAMEBUFFER:
			c.bindFramebuffer(gl.READ_FRAMEBUFFER, prevRead)
		default:
			c.bindFramebuffer(gl.DRAW_FRAMEBUFFER, prevDraw)
			c.bindFramebuffer(gl.READ_FRAMEBUFFER, prevRead)
		}
	})
}

func (c *Context) bindFramebuffer(target gl.Enum, id uint32) {
	switch target {
	case gl.DRAW_FRAMEBUFFER:
		if c.drawFBO != id {
			c.gl.BindFramebuffer(target, id)
			c.drawFBO = id
		}
	case gl.READ_FRAMEBUFFER:
		if c.readFBO != id {
			c.gl.BindFramebuffer(target, id)
			c.readFBO = id
		}
	default:
		core.Assert(target == gl.FRAMEBUFFER, "unknown framebuffer target 0x%04X", uint32(target))
		if c.drawFBO != id || c.readFBO != id {
			c.gl.BindFramebuffer(gl.FRAMEBUFFER, id)
			c.drawFBO, c.readFBO = id, id
		}
	}
}

// Enable switches a capability on or off.
func (c *Context) Enable(capability gl.Enum, enabled bool) Switcher {
	prev := c.capabilities[capability]
	c.enable(capability, enabled)
	return c.push(func() { c.enable(capability, prev) })
}

func (c *Context) enable(capability gl.Enum, enabled bool) {
	if c.capabilities[capability] == enabled {
		return
	}
	if enabled {
		c.gl.Enable(capability)
	} else {
		c.gl.Disable(capability)
	}
	c.capabilities[capability] = enabled
}

func (c *Context) ColorMask(r, g, b, a bool) Switcher {
	prev := c.colorMask
	c.colorMaskSet([4]bool{r, g, b, a})
	return c.push(func() { c.colorMaskSet(prev) })
}

func (c *Context) colorMaskSet(mask [4]bool) {
	if c.colorMask == mask {
		return
	}
	c.gl.ColorMask(mask[0], mask[1], mask[2], mask[3])
	c.colorMask = mask
}

func (c *Context) DepthMask(flag bool) Switcher {
	prev := c.depthMask
	c.depthMaskSet(flag)
	return c.push(func() { c.depthMaskSet(prev) })
}

func (c *Context) depthMaskSet(flag bool) {
	if c.depthMask == flag {
		return
	}
	c.gl.DepthMask(flag)
	c.depthMask = flag
}

func (c *Context) DepthFunc(fn gl.Enum) Switcher {
	prev := c.depthFunc
	c.depthFuncSet(fn)
	return c.push(func() { c.depthFuncSet(prev) })
}

func (c *Context) depthFuncSet(fn gl.Enum) {
	if c.depthFunc == fn {
		return
	}
	c.gl.DepthFunc(fn)
	c.depthFunc = fn
}

func (c *Context) BlendFunc(src, dst gl.Enum) Switcher {
	prev := c.blend
	c.blendSet(blendState{src, dst})
	return c.push(func() { c.blendSet(prev) })
}

func (c *Context) blendSet(b blendState) {
	if c.blend == b {
		return
	}
	c.gl.BlendFunc(b.src, b.dst)
	c.blend = b
}

// Clear clears the bound draw framebuffer.
func (c *Context) Clear(r, g, b, a float32) {
	c.gl.ClearColor(r, g, b, a)
	c.gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (c *Context) Viewport(x, y, width, height int32) {
	c.gl.Viewport(x, y, width, height)
}

// BindBufferBase binds id to an indexed binding point of target. Like GL
// it also replaces the generic binding of target.
func (c *Context) BindBufferBase(target gl.Enum, index, id uint32) {
	c.gl.BindBufferBase(target, index, id)
	c.buffers[target] = id
}

// TransformFeedback captures the vertex output of the draws issued until
// Restore into the buffers bound to TRANSFORM_FEEDBACK_BUFFER. mode is
// the primitive mode of those draws.
func (c *Context) TransformFeedback(mode gl.Enum) Switcher {
	core.Assert(c.program != nil, "transform feedback needs a current program")
	c.gl.BeginTransformFeedback(mode)
	return c.push(func() { c.gl.EndTransformFeedback() })
}
