package opengl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/gl/gltest"
)

const testVertexShader = `#version 330 core
layout(location = 0) in vec3 Position;
layout(location = 1) in vec3 Normal;
layout(location = 2) in vec2 Texcoord;

uniform mat4 ModelViewProjection;

out vec2 uv;

void main() {
	uv = Texcoord;
	gl_Position = ModelViewProjection * vec4(Position, 1.0);
}
`

const testFragmentShader = `#version 330 core
in vec2 uv;
out vec4 Color;

uniform vec3 AmbientColor;
uniform sampler2D DiffuseTexture;

void main() {
	Color = vec4(AmbientColor, 1.0) * texture(DiffuseTexture, uv);
}
`

func newTestContext(t *testing.T) (*Context, *gltest.Driver) {
	t.Helper()
	d := gltest.New()
	return NewContext(d), d
}

func compile(t *testing.T, ctx *Context, stage gl.Enum, src string) *Shader {
	t.Helper()
	s, err := CompileShader(ctx, stage, t.Name(), src)
	require.NoError(t, err)
	return s
}

func linkProgram(t *testing.T, ctx *Context, vs, fs string) *Program {
	t.Helper()
	p, err := LinkProgram(ctx, ProgramConfig{
		Name:    t.Name(),
		Shaders: []*Shader{compile(t, ctx, gl.VERTEX_SHADER, vs), compile(t, ctx, gl.FRAGMENT_SHADER, fs)},
	})
	require.NoError(t, err)
	return p
}

func fill(n int, seed byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = seed + byte(i*7)
	}
	return out
}
