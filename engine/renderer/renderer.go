// Package renderer is the frame level front end. It builds the forward
// renderer, skybox and particles from named shaders and rebuilds them when
// the shader system swaps a program.
package renderer

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/renderer/particles"
	"github.com/spaghettifunk/gin/engine/renderer/views"
	"github.com/spaghettifunk/gin/engine/resources"
	"github.com/spaghettifunk/gin/engine/systems"
)

// Config names the shaders of each pass. An empty SkyboxShader or UIShader
// disables that pass; a zero particle count disables the particles.
type Config struct {
	DepthShader          string
	LitShader            string
	SkyboxShader         string
	ParticleUpdateShader string
	ParticleRenderShader string
	UIShader             string

	ClearColour math.Vec4
	SkyTop      [4]byte
	SkyBottom   [4]byte
	Particles   particles.Config
}

// RenderPacket is everything drawn in one frame.
type RenderPacket struct {
	DeltaTime float64
	Models    []*views.Model
	// Texts are drawn over everything else.
	Texts []*views.Text
}

type Renderer struct {
	ctx      *opengl.Context
	shaders  *systems.ShaderSystem
	registry *components.Registry
	cfg      Config
	camera   *components.Camera

	forward   *views.ForwardRenderer
	skybox    *views.Skybox
	skyCube   *opengl.Texture
	particles *particles.System
	ui        *views.UI

	width, height uint32
	frame         uint64
}

func New(ctx *opengl.Context, sm *systems.SystemManager, camera *components.Camera, cfg Config) (*Renderer, error) {
	r := &Renderer{
		ctx:      ctx,
		shaders:  sm.Shaders,
		registry: sm.Registry,
		cfg:      cfg,
		camera:   camera,
	}
	depth, err := sm.Shaders.Load(cfg.DepthShader)
	if err != nil {
		return nil, err
	}
	lit, err := sm.Shaders.Load(cfg.LitShader)
	if err != nil {
		return nil, err
	}
	r.forward = views.NewForwardRenderer(ctx, r.registry, depth, lit, camera)
	r.forward.ClearColor = cfg.ClearColour

	if cfg.SkyboxShader != "" {
		program, err := sm.Shaders.Load(cfg.SkyboxShader)
		if err != nil {
			return nil, err
		}
		r.skyCube, err = opengl.NewTextureFromImage(ctx, GradientCube(16, cfg.SkyTop, cfg.SkyBottom), gl.SRGB8_ALPHA8)
		if err != nil {
			return nil, err
		}
		sampler := opengl.DefaultSamplerConfig()
		sampler.MinFilter = gl.LINEAR
		sampler.WrapS, sampler.WrapT, sampler.WrapR = gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE
		r.skyCube.SetSampler(opengl.NewSampler(ctx, sampler))
		r.skybox = views.NewSkybox(ctx, program, r.skyCube)
		r.forward.Skybox = r.skybox
	}

	if cfg.Particles.Count > 0 {
		update, err := sm.Shaders.Load(cfg.ParticleUpdateShader)
		if err != nil {
			return nil, err
		}
		render, err := sm.Shaders.Load(cfg.ParticleRenderShader)
		if err != nil {
			return nil, err
		}
		r.particles = particles.New(ctx, r.registry, update, render, cfg.Particles)
	}

	if cfg.UIShader != "" {
		program, err := sm.Shaders.Load(cfg.UIShader)
		if err != nil {
			return nil, err
		}
		r.ui = views.NewUI(ctx, program)
	}

	sm.Shaders.OnReload(r.onShaderReloaded)
	return r, nil
}

func (r *Renderer) Context() *opengl.Context { return r.ctx }

func (r *Renderer) Forward() *views.ForwardRenderer { return r.forward }

func (r *Renderer) Particles() *particles.System { return r.particles }

// FrameNumber counts the frames drawn so far.
func (r *Renderer) FrameNumber() uint64 { return r.frame }

func (r *Renderer) AddLight(light *components.Values) {
	r.forward.AddLight(light)
}

func (r *Renderer) OnResize(width, height uint32) {
	r.width, r.height = width, height
	r.forward.OnResize(width, height)
	if r.ui != nil {
		r.ui.OnResize(width, height)
	}
}

// DrawFrame advances the particles and draws the packet. Particles come
// after the models so the models occlude them; texts go on top.
func (r *Renderer) DrawFrame(packet *RenderPacket) {
	if r.particles != nil {
		r.particles.Update(float32(packet.DeltaTime))
	}
	r.forward.Render(packet.Models)
	if r.particles != nil {
		depthTest := r.ctx.Enable(gl.DEPTH_TEST, true)
		r.particles.Draw(r.camera)
		depthTest.Restore()
	}
	if r.ui != nil {
		r.ui.Render(packet.Texts)
	}
	r.frame++
}

func (r *Renderer) onShaderReloaded(name string, old, program *opengl.Program) {
	switch name {
	case r.cfg.DepthShader, r.cfg.LitShader:
		r.rebuildForward()
	case r.cfg.SkyboxShader:
		if r.skybox != nil {
			r.skybox.SetProgram(program)
		}
	case r.cfg.UIShader:
		if r.ui != nil {
			r.ui.SetProgram(program)
		}
	case r.cfg.ParticleUpdateShader, r.cfg.ParticleRenderShader:
		if r.particles != nil {
			update, err := r.shaders.GetShader(r.cfg.ParticleUpdateShader)
			if err != nil {
				return
			}
			render, err := r.shaders.GetShader(r.cfg.ParticleRenderShader)
			if err != nil {
				return
			}
			r.particles.SetPrograms(update, render)
		}
	default:
		return
	}
	core.LogInfo("renderer picked up shader %s", name)
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_SHADER_RELOADED, Data: name})
}

// rebuildForward pairs the uniforms of the new programs again. Lights and
// targets carry over.
func (r *Renderer) rebuildForward() {
	depth, err := r.shaders.GetShader(r.cfg.DepthShader)
	if err != nil {
		return
	}
	lit, err := r.shaders.GetShader(r.cfg.LitShader)
	if err != nil {
		return
	}
	prev := r.forward
	fr := views.NewForwardRenderer(r.ctx, r.registry, depth, lit, r.camera)
	fr.Lights = prev.Lights
	fr.ClearColor = prev.ClearColor
	fr.Target = prev.Target
	fr.Skybox = prev.Skybox
	fr.FOV, fr.NearClip, fr.FarClip = prev.FOV, prev.NearClip, prev.FarClip
	r.forward = fr
	if r.width > 0 && r.height > 0 {
		fr.OnResize(r.width, r.height)
	}
}

func (r *Renderer) Shutdown() {
	if r.particles != nil {
		r.particles.Release()
	}
	if r.skybox != nil {
		r.skybox.Release()
		r.skyCube.Sampler().Release()
		r.skyCube.Release()
	}
}

// GradientCube returns a cube map fading from top on the +Y face to bottom
// on the -Y face, with the side faces blending between the two.
func GradientCube(size int, top, bottom [4]byte) *resources.ImageData {
	img, err := resources.NewImageData(resources.ImageConfig{
		Width:    size,
		Height:   size,
		Type:     resources.ImageCube,
		Format:   resources.FormatRGBA,
		DataType: resources.DataTypeUint8,
	})
	core.Assert(err == nil, "gradient cube: %v", err)
	lerp := func(t float32) [4]byte {
		var c [4]byte
		for i := range c {
			c[i] = byte(float32(top[i]) + (float32(bottom[i])-float32(top[i]))*t)
		}
		return c
	}
	face := make([]byte, size*size*4)
	for f := 0; f < 6; f++ {
		for y := 0; y < size; y++ {
			var c [4]byte
			switch f {
			case 2: // +Y
				c = top
			case 3: // -Y
				c = bottom
			default:
				// cube face rows run from +Y down to -Y on the side faces
				c = lerp((float32(y) + 0.5) / float32(size))
			}
			for x := 0; x < size; x++ {
				copy(face[(y*size+x)*4:], c[:])
			}
		}
		_ = img.SetImage(0, 0, f, face)
	}
	return img
}
