package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/gl/gltest"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

const depthVertexShader = `#version 330 core
in vec3 Position;
uniform mat4 ModelViewProjection;
void main() { gl_Position = ModelViewProjection * vec4(Position, 1.0); }
`

const depthFragmentShader = `#version 330 core
void main() {}
`

const litVertexShader = `#version 330 core
in vec3 Position;
in vec3 Normal;
in vec2 Texcoord;
uniform mat4 ModelViewProjection;
uniform mat4 Model;
uniform mat3 NormalMatrix;
out vec3 normal;
out vec3 position;
void main() {
	normal = NormalMatrix * Normal;
	position = (Model * vec4(Position, 1.0)).xyz;
	gl_Position = ModelViewProjection * vec4(Position, 1.0);
}
`

const litFragmentShader = `#version 330 core
in vec3 normal;
in vec3 position;
uniform vec4 DiffuseColor;
uniform vec4 LightVector;
uniform vec3 LightColor;
out vec4 Color;
void main() {
	vec3 l = normalize(LightVector.xyz - position * LightVector.w);
	Color = DiffuseColor * vec4(LightColor * max(dot(normal, l), 0.0), 1.0);
}
`

const skyboxVertexShader = `#version 330 core
in vec3 Position;
uniform mat4 ViewProjection;
out vec3 direction;
void main() {
	direction = Position;
	gl_Position = (ViewProjection * vec4(Position, 1.0)).xyww;
}
`

const skyboxFragmentShader = `#version 330 core
in vec3 direction;
uniform samplerCube Skybox;
out vec4 Color;
void main() { Color = texture(Skybox, direction); }
`

func program(t *testing.T, ctx *opengl.Context, name, vs, fs string) *opengl.Program {
	t.Helper()
	v, err := opengl.CompileShader(ctx, gl.VERTEX_SHADER, name, vs)
	require.NoError(t, err)
	f, err := opengl.CompileShader(ctx, gl.FRAGMENT_SHADER, name, fs)
	require.NoError(t, err)
	p, err := opengl.LinkProgram(ctx, opengl.ProgramConfig{
		Name:            name,
		Shaders:         []*opengl.Shader{v, f},
		AttribLocations: AttribLocations,
	})
	require.NoError(t, err)
	return p
}

type scene struct {
	ctx      *opengl.Context
	driver   *gltest.Driver
	registry *components.Registry
	renderer *ForwardRenderer
	model    *Model
}

func newScene(t *testing.T) *scene {
	t.Helper()
	d := gltest.New()
	ctx := opengl.NewContext(d)
	r := components.NewDefaultRegistry()
	depth := program(t, ctx, "depth", depthVertexShader, depthFragmentShader)
	lit := program(t, ctx, "lit", litVertexShader, litFragmentShader)

	crate := components.NewValues(r, components.Material)
	crate.Set(components.DiffuseColor, opengl.Vec4(math.NewVec4(0.8, 0.6, 0.4, 1)))
	stone := components.NewValues(r, components.Material)
	stone.Set(components.DiffuseColor, opengl.Vec4(math.NewVec4(0.5, 0.5, 0.5, 1)))
	materials := map[string]*components.Values{"crate": crate, "stone": stone}

	data := resources.NewModelData("scene",
		resources.GenerateCube(1, 1, 1, 1, 1, "cube", "crate"),
		resources.GeneratePlane(10, 10, 2, 2, 1, 1, "floor", "stone"),
		resources.GenerateCube(2, 1, 2, 1, 1, "box", "crate"),
	)
	model := NewModel(ctx, data, func(name string) *components.Values { return materials[name] })

	camera := components.NewCamera()
	camera.SetPosition(math.NewVec3(0, 2, 8))
	fr := NewForwardRenderer(ctx, r, depth, lit, camera)
	fr.AddLight(components.NewDirectionalLight(r, math.NewVec3(-1, -1, 0), math.NewVec3(1, 1, 1)))
	fr.AddLight(components.NewPointLight(r, math.NewVec3(0, 3, 0), math.NewVec3(1, 0.5, 0)))
	return &scene{ctx: ctx, driver: d, registry: r, renderer: fr, model: model}
}

func TestForwardRendererPasses(t *testing.T) {
	s := newScene(t)
	s.renderer.OnResize(1280, 720)
	assert.Equal(t, [4]int32{0, 0, 1280, 720}, s.driver.ViewportState())

	s.renderer.Render([]*Model{s.model})

	nodes, lights := len(s.model.Nodes), len(s.renderer.Lights)
	require.Equal(t, 3, nodes)
	require.Len(t, s.driver.Draws, nodes+nodes*lights)
	assert.Equal(t, 1, s.driver.Clears)

	for i, call := range s.driver.Draws[:nodes] {
		assert.Equal(t, s.renderer.depth.ID(), call.Program, "depth draw %d", i)
		assert.Equal(t, [4]bool{}, call.ColorMask)
		assert.True(t, call.DepthMask)
		assert.Equal(t, gl.LESS, call.DepthFunc)
		assert.True(t, call.Blend)
		assert.Equal(t, gl.ONE, call.BlendSrc)
		assert.Equal(t, gl.ONE, call.BlendDst)
		assert.True(t, call.Indexed)
		assert.Equal(t, s.model.Nodes[i].VertexArray().ID(), call.VertexArray)
	}
	for i, call := range s.driver.Draws[nodes:] {
		assert.Equal(t, s.renderer.lit.ID(), call.Program, "lit draw %d", i)
		assert.Equal(t, [4]bool{true, true, true, true}, call.ColorMask)
		assert.False(t, call.DepthMask)
		assert.Equal(t, gl.LEQUAL, call.DepthFunc)
		assert.True(t, call.Blend)
		// node major, light minor
		assert.Equal(t, s.model.Nodes[i/lights].VertexArray().ID(), call.VertexArray)
	}

	// the frame leaves the default state behind
	assert.Zero(t, s.ctx.Depth())
	assert.Nil(t, s.ctx.CurrentProgram())
	assert.Equal(t, [4]bool{true, true, true, true}, s.driver.ColorMaskState())
	assert.True(t, s.driver.DepthMaskState())
	assert.False(t, s.driver.IsEnabled(gl.BLEND))
	assert.False(t, s.driver.IsEnabled(gl.DEPTH_TEST))
}

func TestForwardRendererFillsComponents(t *testing.T) {
	s := newScene(t)
	s.model.Transform.Position = math.NewVec3(3, 0, 0)
	s.renderer.Render([]*Model{s.model})

	// the last draw was the crate box lit by the point light
	lit := s.renderer.lit.ID()
	assert.Equal(t, []float32{0.8, 0.6, 0.4, 1}, s.driver.UniformFloats(lit, components.DiffuseColor))
	assert.Equal(t, []float32{0, 3, 0, 1}, s.driver.UniformFloats(lit, components.LightVector))
	assert.Equal(t, []float32{1, 0.5, 0}, s.driver.UniformFloats(lit, components.LightColor))
	model := s.driver.UniformFloats(lit, components.Model)
	require.Len(t, model, 16)
	assert.Equal(t, []float32{3, 0, 0}, model[12:15])
	assert.Len(t, s.driver.UniformFloats(s.renderer.depth.ID(), components.ModelViewProjection), 16)
}

func TestForwardRendererWithoutLightsOnlyWritesDepth(t *testing.T) {
	s := newScene(t)
	s.renderer.Lights = nil
	s.renderer.Render([]*Model{s.model})
	assert.Len(t, s.driver.Draws, len(s.model.Nodes))
}

func TestForwardRendererIntoFramebufferWithSkybox(t *testing.T) {
	s := newScene(t)
	color := opengl.NewTexture(s.ctx, opengl.Texture2D, opengl.FormatRGBA8)
	color.SetStorage(opengl.Size{Width: 64, Height: 64, Layers: 1}, 1)
	depth := opengl.NewTexture(s.ctx, opengl.Texture2D, opengl.FormatDepth24)
	depth.SetStorage(opengl.Size{Width: 64, Height: 64, Layers: 1}, 1)
	fb := opengl.NewFramebuffer(s.ctx)
	fb.AttachColor(0, color, 0)
	fb.AttachDepth(depth, 0)
	require.NoError(t, fb.Check())

	cube := opengl.NewTexture(s.ctx, opengl.TextureCube, opengl.FormatRGBA8)
	cube.SetStorage(opengl.Size{Width: 4, Height: 4, Layers: 1}, 1)
	sky := program(t, s.ctx, "skybox", skyboxVertexShader, skyboxFragmentShader)
	s.renderer.Skybox = NewSkybox(s.ctx, sky, cube)
	s.renderer.Target = fb

	s.renderer.Render([]*Model{s.model})
	last := s.driver.Draws[len(s.driver.Draws)-1]
	assert.Equal(t, sky.ID(), last.Program)
	assert.False(t, last.Blend)
	assert.False(t, last.DepthMask)
	assert.Equal(t, gl.LEQUAL, last.DepthFunc)
	for _, call := range s.driver.Draws {
		assert.Equal(t, fb.ID(), call.Framebuffer)
	}
	draw, _ := s.driver.BoundFramebuffers()
	assert.Zero(t, draw)
	assert.Zero(t, s.ctx.Depth())
}
