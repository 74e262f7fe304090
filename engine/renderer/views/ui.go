package views

import (
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
	"github.com/spaghettifunk/gin/engine/systems"
)

// Uniform names the UI program reads.
const (
	UIProjection = "Projection"
	UIOffset     = "Offset"
	UIColour     = "Colour"
	UIAtlas      = "Atlas"
)

// Text is a string laid out with a bitmap font. Position is in pixels from
// the top left corner of the screen.
type Text struct {
	Position math.Vec2
	Colour   math.Vec4

	font     *systems.Font
	text     string
	laidOut  *resources.FontData // font data of the current geometry
	geometry *resources.TextGeometry
	uploaded *resources.TextGeometry
	vertices *opengl.Buffer
	indices  *opengl.Buffer
	vao      *opengl.VertexArray
}

func NewText(ctx *opengl.Context, font *systems.Font, text string) *Text {
	t := &Text{
		Colour:   math.NewVec4(1, 1, 1, 1),
		font:     font,
		text:     text,
		vertices: opengl.NewBuffer(ctx, gl.ARRAY_BUFFER, opengl.Vertex2DLayout),
		indices:  opengl.NewBuffer(ctx, gl.ELEMENT_ARRAY_BUFFER, opengl.IndexLayout),
		vao:      opengl.NewVertexArray(ctx),
	}
	t.vao.BindBuffer(t.vertices, PositionLocation, TexcoordLocation)
	t.vao.SetIndices(t.indices)
	return t
}

func (t *Text) Text() string { return t.text }

// SetText changes the string. The quads are rebuilt on the next draw.
func (t *Text) SetText(text string) {
	if text != t.text {
		t.text = text
		t.laidOut = nil
	}
}

// Size returns the width and height of the laid out text in pixels.
func (t *Text) Size() (float32, float32) {
	g := t.layout()
	return g.Width, g.Height
}

func (t *Text) VertexArray() *opengl.VertexArray { return t.vao }

func (t *Text) layout() *resources.TextGeometry {
	if t.laidOut != t.font.Data || t.geometry == nil {
		t.geometry = t.font.Data.Layout(t.text)
		t.laidOut = t.font.Data
	}
	return t.geometry
}

// upload writes the quads of the text, growing the buffers only when they
// are too small. It returns the number of indices to draw.
func (t *Text) upload() int {
	g := t.layout()
	if g == t.uploaded {
		return len(g.Indices)
	}
	if len(g.Vertices) > t.vertices.Count() {
		t.vertices.Upload(g.Vertices, gl.DYNAMIC_DRAW)
		t.indices.Upload(g.Indices, gl.DYNAMIC_DRAW)
	} else if len(g.Vertices) > 0 {
		t.vertices.SetValues(g.Vertices, 0)
		t.indices.SetValues(g.Indices, 0)
	}
	t.uploaded = g
	return len(g.Indices)
}

func (t *Text) Release() {
	t.vao.Release()
	t.indices.Release()
	t.vertices.Release()
}

// UI draws texts over the frame in screen pixels. Depth is ignored and
// glyph coverage blends over what is below.
type UI struct {
	ctx        *opengl.Context
	program    *opengl.Program
	projection math.Mat4
}

func NewUI(ctx *opengl.Context, program *opengl.Program) *UI {
	return &UI{ctx: ctx, program: program, projection: math.NewMat4Identity()}
}

func (ui *UI) SetProgram(p *opengl.Program) { ui.program = p }

// OnResize maps pixels to clip space with y growing downwards.
func (ui *UI) OnResize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	ui.projection = math.NewMat4Orthographic(0, float32(width), float32(height), 0, -1, 1)
}

func (ui *UI) Render(texts []*Text) {
	if len(texts) == 0 {
		return
	}
	program := ui.ctx.UseProgram(ui.program)
	depthTest := ui.ctx.Enable(gl.DEPTH_TEST, false)
	depthWrites := ui.ctx.DepthMask(false)
	blend := ui.ctx.Enable(gl.BLEND, true)
	alpha := ui.ctx.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	ui.program.SetUniform(UIProjection, opengl.Mat4(ui.projection))
	for _, t := range texts {
		count := t.upload()
		if count == 0 {
			continue
		}
		ui.program.SetUniform(UIOffset, opengl.Vec2(t.Position))
		ui.program.SetUniform(UIColour, opengl.Vec4(t.Colour))
		ui.program.BindTexture(UIAtlas, t.font.Atlas)
		t.vao.DrawElementsCount(ui.program, gl.TRIANGLES, count)
	}

	alpha.Restore()
	blend.Restore()
	depthWrites.Restore()
	depthTest.Restore()
	program.Restore()
	ui.ctx.CheckError("UI.Render")
}
