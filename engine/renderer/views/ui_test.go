package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/gl/gltest"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
	"github.com/spaghettifunk/gin/engine/systems"
)

const uiVertexShader = `#version 330 core
in vec2 Position;
in vec2 Texcoord;
uniform mat4 Projection;
uniform vec2 Offset;
out vec2 texcoord;
void main() {
	texcoord = Texcoord;
	gl_Position = Projection * vec4(Position + Offset, 0.0, 1.0);
}
`

const uiFragmentShader = `#version 330 core
in vec2 texcoord;
uniform sampler2D Atlas;
uniform vec4 Colour;
out vec4 Color;
void main() { Color = vec4(Colour.rgb, Colour.a * texture(Atlas, texcoord).a); }
`

func testFont(t *testing.T, ctx *opengl.Context) *systems.Font {
	t.Helper()
	img, err := resources.NewImageData(resources.ImageConfig{
		Width:    16,
		Height:   8,
		Type:     resources.Image2D,
		Format:   resources.FormatRGBA,
		DataType: resources.DataTypeUint8,
	})
	require.NoError(t, err)
	atlas, err := opengl.NewTextureFromImage(ctx, img, 0)
	require.NoError(t, err)
	return &systems.Font{
		Name: "mono",
		Data: &resources.FontData{
			LineHeight: 10,
			AtlasSizeX: 16,
			AtlasSizeY: 8,
			Glyphs: map[rune]resources.FontGlyph{
				'A': {Codepoint: 'A', Width: 4, Height: 6, YOffset: 1, XAdvance: 5},
				'B': {Codepoint: 'B', X: 5, Width: 4, Height: 6, YOffset: 1, XAdvance: 5},
			},
		},
		Atlas: atlas,
	}
}

func TestUIDrawsTextsOverTheFrame(t *testing.T) {
	d := gltest.New()
	ctx := opengl.NewContext(d)
	p := program(t, ctx, "ui", uiVertexShader, uiFragmentShader)
	font := testFont(t, ctx)

	ui := NewUI(ctx, p)
	ui.OnResize(640, 480)
	text := NewText(ctx, font, "AB")
	text.Position = math.NewVec2(10, 20)
	text.Colour = math.NewVec4(1, 0, 0, 0.5)
	empty := NewText(ctx, font, "")

	ui.Render(nil)
	assert.Empty(t, d.Draws)

	ui.Render([]*Text{text, empty})
	require.Len(t, d.Draws, 1)
	call := d.Draws[0]
	assert.Equal(t, p.ID(), call.Program)
	assert.Equal(t, text.VertexArray().ID(), call.VertexArray)
	assert.True(t, call.Indexed)
	assert.Equal(t, int32(12), call.Count)
	assert.False(t, call.DepthMask)
	assert.True(t, call.Blend)
	assert.Equal(t, gl.SRC_ALPHA, call.BlendSrc)
	assert.Equal(t, gl.ONE_MINUS_SRC_ALPHA, call.BlendDst)

	assert.Equal(t, []float32{10, 20}, d.UniformFloats(p.ID(), UIOffset))
	assert.Equal(t, []float32{1, 0, 0, 0.5}, d.UniformFloats(p.ID(), UIColour))
	projection := d.UniformFloats(p.ID(), UIProjection)
	require.Len(t, projection, 16)
	// y grows downwards
	assert.InDelta(t, -2.0/480, projection[5], 1e-6)

	// state is restored for the next frame
	assert.Nil(t, ctx.CurrentProgram())
	assert.True(t, d.DepthMaskState())
	assert.False(t, d.IsEnabled(gl.BLEND))
}

func TestTextReusesItsBuffers(t *testing.T) {
	d := gltest.New()
	ctx := opengl.NewContext(d)
	p := program(t, ctx, "ui", uiVertexShader, uiFragmentShader)
	font := testFont(t, ctx)
	ui := NewUI(ctx, p)

	text := NewText(ctx, font, "AB")
	w, h := text.Size()
	assert.Equal(t, float32(10), w)
	assert.Equal(t, float32(10), h)

	ui.Render([]*Text{text})
	assert.Equal(t, 8, text.vertices.Count())

	// shorter strings write into the same storage
	text.SetText("A")
	ui.Render([]*Text{text})
	require.Len(t, d.Draws, 2)
	assert.Equal(t, int32(6), d.Draws[1].Count)
	assert.Equal(t, 8, text.vertices.Count())

	text.SetText("ABA\nB")
	ui.Render([]*Text{text})
	require.Len(t, d.Draws, 3)
	assert.Equal(t, int32(24), d.Draws[2].Count)
	assert.Equal(t, 16, text.vertices.Count())

	// a reloaded font lays the text out again
	reloaded := *font.Data
	reloaded.LineHeight = 12
	font.Data = &reloaded
	_, h = text.Size()
	assert.Equal(t, float32(24), h)

	vertices := text.vertices.ID()
	text.Release()
	assert.False(t, d.BufferExists(vertices))
}
