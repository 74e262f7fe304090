package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

func uniformNames(p *Program) []string {
	var names []string
	for _, u := range p.Uniforms() {
		names = append(names, u.Name)
	}
	return names
}

func TestLinkIntrospectsProgram(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := linkProgram(t, ctx, testVertexShader, testFragmentShader)

	assert.Equal(t, ProgramLinked, p.State())
	assert.ElementsMatch(t, []string{"ModelViewProjection", "AmbientColor", "DiffuseTexture"}, uniformNames(p))

	mvp, ok := p.Uniform("ModelViewProjection")
	require.True(t, ok)
	assert.Equal(t, gl.FLOAT_MAT4, mvp.Type)
	assert.Equal(t, 1, mvp.Size)
	assert.Equal(t, -1, mvp.Unit)
	assert.False(t, mvp.IsSet())

	assert.Equal(t, int32(0), p.AttribLocation("Position"))
	assert.Equal(t, int32(2), p.AttribLocation("Texcoord"))
	assert.Equal(t, int32(-1), p.AttribLocation("Missing"))
	assert.Panics(t, func() { _ = p.Link() })
}

func TestBuiltinsAndBlockMembersAreSkipped(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := linkProgram(t, ctx, `
in vec3 Position;
uniform float Near;
void main() { gl_Position = vec4(Position * gl_DepthRange.far, Near); }
`, `
layout(std140) uniform Lights {
	vec4 LightVector;
	vec4 LightColor;
};
out vec4 Color;
void main() { Color = LightColor; }
`)
	assert.Equal(t, []string{"Near"}, uniformNames(p))
}

func TestSamplerUnitsStartAtOne(t *testing.T) {
	ctx, d := newTestContext(t)
	p := linkProgram(t, ctx, testVertexShader, `
uniform sampler2D Albedo;
uniform sampler2D Shadows[2];
uniform samplerCube Environment;
out vec4 Color;
void main() { Color = vec4(1.0); }
`)
	units := map[string]int{}
	for _, u := range p.Uniforms() {
		if u.Unit >= 0 {
			units[u.Name] = u.Unit
		}
	}
	assert.Equal(t, map[string]int{"Albedo": 1, "Shadows": 2, "Environment": 4}, units)
	assert.Equal(t, []int32{1}, d.UniformInts(p.ID(), "Albedo"))
	assert.Equal(t, []int32{2, 3}, d.UniformInts(p.ID(), "Shadows"))
	assert.Equal(t, []int32{4}, d.UniformInts(p.ID(), "Environment"))
	// introspection leaves no program current
	assert.Nil(t, ctx.CurrentProgram())
	assert.Zero(t, d.CurrentProgram())
}

func TestCompileErrorCarriesLog(t *testing.T) {
	ctx, d := newTestContext(t)
	_, err := CompileShader(ctx, gl.FRAGMENT_SHADER, "broken", "#error missing light model\nvoid main() {}")
	require.ErrorIs(t, err, core.ErrShaderCompile)
	assert.Contains(t, err.Error(), "missing light model")
	assert.Contains(t, err.Error(), "fragment shader broken")
	assert.False(t, d.ShaderExists(1))
}

func TestLinkFailureCarriesLog(t *testing.T) {
	ctx, d := newTestContext(t)
	fs := compile(t, ctx, gl.FRAGMENT_SHADER, testFragmentShader)
	p := NewProgram(ctx, ProgramConfig{Name: "fragment-only", Shaders: []*Shader{fs}})

	err := p.Link()
	require.ErrorIs(t, err, core.ErrProgramLink)
	assert.Equal(t, ProgramFailed, p.State())
	assert.Contains(t, p.InfoLog(), "no vertex shader")
	assert.Contains(t, err.Error(), p.InfoLog())
	assert.Zero(t, p.ID())
	assert.False(t, d.ProgramExists(fs.ID()+1))
	assert.Panics(t, func() { ctx.UseProgram(p) })
}

func TestAttributeLocationHints(t *testing.T) {
	ctx, _ := newTestContext(t)
	p, err := LinkProgram(ctx, ProgramConfig{
		Name: "hinted",
		Shaders: []*Shader{
			compile(t, ctx, gl.VERTEX_SHADER, "in vec3 Position;\nin vec2 Texcoord;\nvoid main() {}"),
			compile(t, ctx, gl.FRAGMENT_SHADER, "out vec4 Color;\nvoid main() {}"),
		},
		AttribLocations: map[string]uint32{"Texcoord": 5},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(5), p.AttribLocation("Texcoord"))
	assert.Equal(t, int32(0), p.AttribLocation("Position"))
}

func TestFeedbackVaryings(t *testing.T) {
	ctx, d := newTestContext(t)
	vs := "in vec4 Particle;\nout vec4 NextParticle;\nvoid main() { NextParticle = Particle; }"
	p, err := LinkProgram(ctx, ProgramConfig{
		Name:             "feedback",
		Shaders:          []*Shader{compile(t, ctx, gl.VERTEX_SHADER, vs)},
		FeedbackVaryings: []string{"NextParticle"},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(1), d.GetProgrami(p.ID(), gl.TRANSFORM_FEEDBACK_VARYINGS))
	assert.Equal(t, int32(gl.INTERLEAVED_ATTRIBS), d.GetProgrami(p.ID(), gl.TRANSFORM_FEEDBACK_BUFFER_MODE))

	_, err = LinkProgram(ctx, ProgramConfig{
		Name:             "bad-feedback",
		Shaders:          []*Shader{compile(t, ctx, gl.VERTEX_SHADER, vs)},
		FeedbackVaryings: []string{"Velocity"},
	})
	assert.ErrorIs(t, err, core.ErrProgramLink)
}

func TestSetUniform(t *testing.T) {
	ctx, d := newTestContext(t)
	p := linkProgram(t, ctx, testVertexShader, testFragmentShader)

	// the program has to be current
	assert.Panics(t, func() { p.SetUniform("AmbientColor", Vec3(math.Vec3{X: 1})) })

	sw := ctx.UseProgram(p)
	defer sw.Restore()
	assert.True(t, p.SetUniform("AmbientColor", Vec3(math.Vec3{X: 0.1, Y: 0.2, Z: 0.3})))
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, d.UniformFloats(p.ID(), "AmbientColor"))
	u, _ := p.Uniform("AmbientColor")
	assert.True(t, u.IsSet())

	assert.False(t, p.SetUniform("Optimized", Float(1)))
	assert.Panics(t, func() { p.SetUniform("AmbientColor", Vec4(math.Vec4{})) })
	assert.Panics(t, func() { p.SetUniform("AmbientColor", Vec3(math.Vec3{}, math.Vec3{})) })
	assert.Panics(t, func() { p.SetUniform("DiffuseTexture", Int(1)) })

	mvp, _ := p.Uniform("ModelViewProjection")
	m := math.NewMat4Identity()
	m.Data[12] = 4
	p.SetUniformRaw(mvp.Index, Mat4(m).Bytes())
	assert.Equal(t, m.Data[:], d.UniformFloats(p.ID(), "ModelViewProjection"))
	assert.True(t, mvp.IsSet())
}

func TestBindTextureChecksTarget(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := linkProgram(t, ctx, testVertexShader, testFragmentShader)
	cube := NewTexture(ctx, TextureCube, FormatRGBA8)
	assert.Panics(t, func() { p.BindTexture("DiffuseTexture", cube) })
	assert.False(t, p.BindTexture("NormalMap", cube))
	assert.Panics(t, func() {
		i, _ := p.Uniform("AmbientColor")
		p.BindTextureAt(i.Index, 0, cube)
	})
}

func TestValueBytesRoundTrip(t *testing.T) {
	for _, v := range []Value{
		Vec2(math.Vec2{X: 1, Y: -2}),
		Ints(gl.INT_VEC3, 1, -2, 3),
		Uints(gl.UNSIGNED_INT_VEC2, 7, 9),
		Bool(true, false),
		Mat3(math.NewMat3Identity()),
	} {
		assert.Equal(t, v, DecodeValue(v.Type, v.Bytes()), gl.TypeName(v.Type))
	}
	assert.Equal(t, 2, Bool(true, false).Count())
	assert.Panics(t, func() { Floats(gl.INT, 1) })
}
