package views

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// ForwardRenderer draws models in two passes. The depth pass lays down
// depth with colour writes off; the lit pass then adds one draw per node
// and light on top of it with additive blending.
type ForwardRenderer struct {
	ctx *opengl.Context

	depth        *opengl.Program
	depthFilters *components.FilterOwner
	lit          *opengl.Program
	litFilters   *components.FilterOwner

	Camera     *components.Camera
	Lights     []*components.Values
	ClearColor math.Vec4
	// Target is drawn into instead of the default framebuffer when set.
	Target *opengl.Framebuffer
	// Skybox, when set, fills the pixels no model covered.
	Skybox *Skybox

	FOV      float32
	NearClip float32
	FarClip  float32

	vertex *components.Values
}

// NewForwardRenderer pairs the uniforms of both programs with the
// components of registry. The depth program only sees Vertex components.
func NewForwardRenderer(ctx *opengl.Context, r *components.Registry, depth, lit *opengl.Program, camera *components.Camera) *ForwardRenderer {
	fr := &ForwardRenderer{
		ctx:          ctx,
		depth:        depth,
		depthFilters: components.NewFilterOwner(r, depth, components.Vertex),
		lit:          lit,
		litFilters:   components.NewFilterOwner(r, lit, components.Material, components.LightSource, components.Vertex),
		Camera:       camera,
		ClearColor:   math.NewVec4(0, 0, 0, 1),
		FOV:          math.DegToRad(45.0),
		NearClip:     0.1,
		FarClip:      1000.0,
		vertex:       components.NewValues(r, components.Vertex),
	}
	for _, owner := range []*components.FilterOwner{fr.depthFilters, fr.litFilters} {
		for _, u := range owner.Unmatched() {
			core.LogWarn("uniform %s of program %s is not fed by any component", u.Name, owner.Program().Name())
		}
	}
	return fr
}

func (fr *ForwardRenderer) OnResize(width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	fr.ctx.Viewport(0, 0, int32(width), int32(height))
	fr.Camera.SetPerspective(fr.FOV, float32(width)/float32(height), fr.NearClip, fr.FarClip)
}

func (fr *ForwardRenderer) AddLight(light *components.Values) {
	core.Assert(light.Class() == components.LightSource, "%s values are not a light", light.Class())
	fr.Lights = append(fr.Lights, light)
}

// Render draws models into the target. Any GL error raised on the way
// fails an assertion.
func (fr *ForwardRenderer) Render(models []*Model) {
	if fr.Target != nil {
		fb := fr.Target.Bind(gl.DRAW_FRAMEBUFFER)
		defer fb.Restore()
	}
	fr.ctx.Clear(fr.ClearColor.X, fr.ClearColor.Y, fr.ClearColor.Z, fr.ClearColor.W)

	depthTest := fr.ctx.Enable(gl.DEPTH_TEST, true)
	blend := fr.ctx.Enable(gl.BLEND, true)
	additive := fr.ctx.BlendFunc(gl.ONE, gl.ONE)

	fr.depthPass(models)
	fr.litPass(models)

	additive.Restore()
	blend.Restore()
	if fr.Skybox != nil {
		fr.Skybox.Render(fr.Camera)
	}
	depthTest.Restore()
	fr.ctx.CheckError("ForwardRenderer.Render")
}

func (fr *ForwardRenderer) depthPass(models []*Model) {
	program := fr.ctx.UseProgram(fr.depth)
	colors := fr.ctx.ColorMask(false, false, false, false)
	less := fr.ctx.DepthFunc(gl.LESS)

	vertex := fr.depthFilters.Filter(components.Vertex)
	for _, m := range models {
		fr.Camera.FillVertex(fr.vertex, m.Transform.Matrix())
		vertex.FillUniforms(fr.vertex)
		for _, n := range m.Nodes {
			n.vao.DrawElements(fr.depth, gl.TRIANGLES)
		}
	}

	less.Restore()
	colors.Restore()
	program.Restore()
}

func (fr *ForwardRenderer) litPass(models []*Model) {
	program := fr.ctx.UseProgram(fr.lit)
	// depth is final after the first pass
	depthWrites := fr.ctx.DepthMask(false)
	equal := fr.ctx.DepthFunc(gl.LEQUAL)

	vertex := fr.litFilters.Filter(components.Vertex)
	material := fr.litFilters.Filter(components.Material)
	light := fr.litFilters.Filter(components.LightSource)
	for _, m := range models {
		fr.Camera.FillVertex(fr.vertex, m.Transform.Matrix())
		vertex.FillUniforms(fr.vertex)
		for _, n := range m.Nodes {
			material.FillUniforms(n.Material)
			for _, l := range fr.Lights {
				light.FillUniforms(l)
				n.vao.DrawElements(fr.lit, gl.TRIANGLES)
			}
		}
	}

	equal.Restore()
	depthWrites.Restore()
	program.Restore()
}
