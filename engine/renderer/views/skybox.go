package views

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

// Uniform names the skybox program reads.
const (
	SkyboxViewProjection = "ViewProjection"
	SkyboxCube           = "Skybox"
)

// Skybox draws a cube map around the camera behind everything else. Its
// program writes depth 1 (gl_Position.xyww) so it passes LEQUAL only where
// nothing was drawn.
type Skybox struct {
	ctx      *opengl.Context
	program  *opengl.Program
	cube     *opengl.Texture
	vertices *opengl.Buffer
	indices  *opengl.Buffer
	vao      *opengl.VertexArray
}

func NewSkybox(ctx *opengl.Context, program *opengl.Program, cube *opengl.Texture) *Skybox {
	core.Assert(cube.Kind() == opengl.TextureCube, "skybox needs a cube texture, got %s", cube.Kind())
	geometry := resources.GenerateCube(2, 2, 2, 1, 1, "skybox", "")
	s := &Skybox{
		ctx:      ctx,
		program:  program,
		cube:     cube,
		vertices: opengl.NewBuffer(ctx, gl.ARRAY_BUFFER, opengl.VertexLayout),
		indices:  opengl.NewBuffer(ctx, gl.ELEMENT_ARRAY_BUFFER, opengl.IndexLayout),
		vao:      opengl.NewVertexArray(ctx),
	}
	s.vertices.Upload(geometry.Vertices, gl.STATIC_DRAW)
	s.indices.Upload(geometry.Indices, gl.STATIC_DRAW)
	s.vao.BindBuffer(s.vertices, PositionLocation, opengl.SkipLocation, opengl.SkipLocation)
	s.vao.SetIndices(s.indices)
	return s
}

func (s *Skybox) SetProgram(p *opengl.Program) { s.program = p }

// Render draws the skybox as seen from camera, ignoring its position.
func (s *Skybox) Render(camera *components.Camera) {
	program := s.ctx.UseProgram(s.program)
	depthWrites := s.ctx.DepthMask(false)
	lequal := s.ctx.DepthFunc(gl.LEQUAL)

	view := camera.GetView()
	view.Data[12], view.Data[13], view.Data[14] = 0, 0, 0
	s.program.SetUniform(SkyboxViewProjection, opengl.Mat4(view.Mul(camera.Projection)))
	s.program.BindTexture(SkyboxCube, s.cube)
	s.vao.DrawElements(s.program, gl.TRIANGLES)

	lequal.Restore()
	depthWrites.Restore()
	program.Restore()
}

func (s *Skybox) Release() {
	s.vao.Release()
	s.indices.Release()
	s.vertices.Release()
}
