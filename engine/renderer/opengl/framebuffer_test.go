package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

func TestFramebufferAttachments(t *testing.T) {
	ctx, d := newTestContext(t)
	fb := NewFramebuffer(ctx)
	assert.ErrorIs(t, fb.Check(), core.ErrFramebuffer)

	color := NewTexture(ctx, Texture2D, FormatRGBA8)
	color.SetStorage(Size{Width: 8, Height: 8, Layers: 1}, 1)
	depth := NewTexture(ctx, Texture2D, FormatDepth24)
	depth.SetStorage(Size{Width: 8, Height: 8, Layers: 1}, 1)

	fb.AttachColor(0, color, 0)
	fb.AttachDepth(depth, 0)
	require.NoError(t, fb.Check())
	assert.Equal(t, color.ID(), d.FramebufferAttachment(fb.ID(), gl.COLOR_ATTACHMENT0))
	assert.Equal(t, depth.ID(), d.FramebufferAttachment(fb.ID(), gl.DEPTH_ATTACHMENT))
	assert.Same(t, color, fb.Attachment(gl.COLOR_ATTACHMENT0))

	// attaching leaves the default framebuffer bound
	draw, read := d.BoundFramebuffers()
	assert.Zero(t, draw)
	assert.Zero(t, read)

	sw := fb.Bind(gl.DRAW_FRAMEBUFFER)
	draw, read = d.BoundFramebuffers()
	assert.Equal(t, fb.ID(), draw)
	assert.Zero(t, read)
	sw.Restore()

	fb.Release()
	assert.Zero(t, fb.ID())
}

func TestFramebufferLayersAndFaces(t *testing.T) {
	ctx, d := newTestContext(t)
	layers := NewTexture(ctx, TextureArray2D, FormatRGBA8)
	layers.SetStorage(Size{Width: 4, Height: 4, Layers: 3}, 1)
	cube := NewTexture(ctx, TextureCube, FormatRGBA8)
	cube.SetStorage(Size{Width: 4, Height: 4, Layers: 1}, 1)

	fb := NewFramebuffer(ctx)
	fb.AttachColorLayer(0, layers, 2, 0)
	fb.AttachCubeFace(1, cube, 3, 0)
	require.NoError(t, fb.Check())
	assert.Equal(t, layers.ID(), d.FramebufferAttachment(fb.ID(), gl.COLOR_ATTACHMENT0))
	assert.Equal(t, cube.ID(), d.FramebufferAttachment(fb.ID(), gl.COLOR_ATTACHMENT0+1))

	assert.Panics(t, func() { fb.AttachColorLayer(0, layers, 3, 0) })
	assert.Panics(t, func() { fb.AttachColor(0, layers, 0) })
	assert.Panics(t, func() { fb.AttachCubeFace(0, layers, 0, 0) })
}
