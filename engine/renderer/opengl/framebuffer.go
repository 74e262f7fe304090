package opengl

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// Framebuffer renders into textures. Attachments are made while the
// framebuffer is bound to the draw target and leave the previous binding in
// place afterwards.
type Framebuffer struct {
	ctx         *Context
	id          uint32
	attachments map[gl.Enum]*Texture
}

func NewFramebuffer(ctx *Context) *Framebuffer {
	return &Framebuffer{ctx: ctx, id: ctx.gl.GenFramebuffer(), attachments: map[gl.Enum]*Texture{}}
}

func (fb *Framebuffer) ID() uint32 { return fb.id }

func (fb *Framebuffer) attach(attachment gl.Enum, tex *Texture, attachFn func()) {
	core.Assert(fb.id != gl.InvalidID, "framebuffer used after release")
	s := fb.ctx.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.id)
	attachFn()
	s.Restore()
	fb.attachments[attachment] = tex
	fb.ctx.CheckError("Framebuffer.Attach")
}

// AttachColor attaches a mip level of a 2D texture, or of a cube face when
// tex is a cube map, as colour attachment index.
func (fb *Framebuffer) AttachColor(index int, tex *Texture, level int) {
	fb.attachTexture(gl.COLOR_ATTACHMENT0+gl.Enum(index), tex, 0, level)
}

// AttachCubeFace attaches one face of a cube map as colour attachment index.
func (fb *Framebuffer) AttachCubeFace(index int, tex *Texture, face, level int) {
	core.Assert(tex.Kind() == TextureCube, "%s texture has no faces", tex.Kind())
	fb.attachTexture(gl.COLOR_ATTACHMENT0+gl.Enum(index), tex, face, level)
}

// AttachDepth attaches a depth texture.
func (fb *Framebuffer) AttachDepth(tex *Texture, level int) {
	fb.attachTexture(gl.DEPTH_ATTACHMENT, tex, 0, level)
}

func (fb *Framebuffer) attachTexture(attachment gl.Enum, tex *Texture, face, level int) {
	core.Assert(!tex.Kind().array(), "array textures are attached by layer")
	target := tex.Target()
	if tex.Kind() == TextureCube {
		target = gl.CubeFaces[face]
	}
	fb.attach(attachment, tex, func() {
		fb.ctx.gl.FramebufferTexture2D(gl.DRAW_FRAMEBUFFER, attachment, target, tex.ID(), int32(level))
	})
}

// AttachColorLayer attaches one layer of an array texture.
func (fb *Framebuffer) AttachColorLayer(index int, tex *Texture, layer, level int) {
	core.Assert(tex.Kind().array(), "%s texture has no layers", tex.Kind())
	core.Assert(layer >= 0 && layer < tex.Size().Layers, "layer %d of %d", layer, tex.Size().Layers)
	attachment := gl.COLOR_ATTACHMENT0 + gl.Enum(index)
	fb.attach(attachment, tex, func() {
		fb.ctx.gl.FramebufferTextureLayer(gl.DRAW_FRAMEBUFFER, attachment, tex.ID(), int32(level), int32(layer))
	})
}

// Attachment returns the texture attached at attachment, or nil.
func (fb *Framebuffer) Attachment(attachment gl.Enum) *Texture { return fb.attachments[attachment] }

// Check reports whether the framebuffer can be rendered to.
func (fb *Framebuffer) Check() error {
	s := fb.ctx.BindFramebuffer(gl.DRAW_FRAMEBUFFER, fb.id)
	status := fb.ctx.gl.CheckFramebufferStatus(gl.DRAW_FRAMEBUFFER)
	s.Restore()
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("%w: framebuffer %d status 0x%04X", core.ErrFramebuffer, fb.id, uint32(status))
	}
	return nil
}

// Bind makes the framebuffer the draw target, the read target or both.
func (fb *Framebuffer) Bind(target gl.Enum) Switcher {
	core.Assert(fb.id != gl.InvalidID, "framebuffer used after release")
	return fb.ctx.BindFramebuffer(target, fb.id)
}

// Release frees the framebuffer. Attached textures stay alive.
func (fb *Framebuffer) Release() {
	if fb.id == gl.InvalidID {
		return
	}
	fb.ctx.gl.DeleteFramebuffer(fb.id)
	if fb.ctx.drawFBO == fb.id {
		fb.ctx.drawFBO = 0
	}
	if fb.ctx.readFBO == fb.id {
		fb.ctx.readFBO = 0
	}
	fb.id = gl.InvalidID
	fb.attachments = nil
}
