// Package particles simulates point particles on the GPU. An update program
// advances every particle with transform feedback from one buffer into the
// other; the buffers then swap roles.
package particles

import (
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// Particle is the record stored in the particle buffers.
type Particle struct {
	Position math.Vec3
	Velocity math.Vec3
	Age      float32
	Lifetime float32
}

// Layout matches Particle.
var Layout = opengl.NewLayout(opengl.ElementVec3, opengl.ElementVec3, opengl.ElementFloat32, opengl.ElementFloat32)

// Inputs of both programs, in Layout order.
var AttribLocations = map[string]uint32{
	"Position": 0,
	"Velocity": 1,
	"Age":      2,
	"Lifetime": 3,
}

// FeedbackVaryings are the update program outputs, in Layout order.
var FeedbackVaryings = []string{"NextPosition", "NextVelocity", "NextAge", "NextLifetime"}

// Uniforms of the update program.
const (
	DeltaTime = "DeltaTime"
	Gravity   = "Gravity"
	Emitter   = "Emitter"
)

type Config struct {
	Count   int
	Seed    uint64
	Emitter math.Vec3
	Gravity math.Vec3
	// Speed bounds the initial speed, Lifetime the life span in seconds.
	Speed    [2]float32
	Lifetime [2]float32
	// Spread is the half angle of the emission cone around +Y, in radians.
	Spread float32
}

func DefaultConfig() Config {
	return Config{
		Count:    1024,
		Seed:     1,
		Gravity:  math.NewVec3(0, -9.81, 0),
		Speed:    [2]float32{4, 7},
		Lifetime: [2]float32{1, 3},
		Spread:   math.DegToRad(20),
	}
}

// System owns two particle buffers and a vertex array over each.
type System struct {
	ctx      *opengl.Context
	registry *components.Registry
	cfg      Config
	update   *opengl.Program
	render   *opengl.Program
	filters  *components.FilterOwner
	vertex   *components.Values

	buffers [2]*opengl.Buffer
	vaos    [2]*opengl.VertexArray
	front   int

	Transform math.Transform
}

// New seeds cfg.Count particles. update must capture FeedbackVaryings;
// render draws points and reads its Vertex uniforms from r.
func New(ctx *opengl.Context, r *components.Registry, update, render *opengl.Program, cfg Config) *System {
	core.Assert(cfg.Count > 0, "particle count must be positive, got %d", cfg.Count)
	s := &System{
		ctx:       ctx,
		registry:  r,
		cfg:       cfg,
		update:    update,
		render:    render,
		filters:   components.NewFilterOwner(r, render, components.Vertex),
		vertex:    components.NewValues(r, components.Vertex),
		Transform: math.NewTransform(),
	}
	for _, u := range s.filters.Unmatched() {
		core.LogWarn("uniform %s of particle program %s is not fed by any component", u.Name, render.Name())
	}

	for i := range s.buffers {
		s.buffers[i] = opengl.NewBuffer(ctx, gl.ARRAY_BUFFER, Layout)
		s.vaos[i] = opengl.NewVertexArray(ctx)
	}
	s.buffers[0].Upload(Spawn(cfg), gl.DYNAMIC_COPY)
	s.buffers[1].Reserve(cfg.Count, gl.DYNAMIC_COPY)
	for i := range s.buffers {
		s.vaos[i].BindBuffer(s.buffers[i], 0, 1, 2, 3)
	}
	core.LogDebug("particle system: %d particles", cfg.Count)
	return s
}

// Spawn returns the initial particles of cfg. Ages are spread over the
// lifetime so emission starts steady instead of in one burst.
func Spawn(cfg Config) []Particle {
	rng := rand.New(rand.NewSource(cfg.Seed))
	out := make([]Particle, cfg.Count)
	for i := range out {
		yaw := math.RandomInRange(rng, 0, 2*math.Pi)
		pitch := math.RandomInRange(rng, 0, cfg.Spread)
		dir := math.NewMat4EulerXYZ(pitch, yaw, 0)
		velocity := math.NewVec3Up().Transform(dir).Normalized().
			MulScalar(math.RandomInRange(rng, cfg.Speed[0], cfg.Speed[1]))
		life := math.RandomInRange(rng, cfg.Lifetime[0], cfg.Lifetime[1])
		out[i] = Particle{
			Position: cfg.Emitter,
			Velocity: velocity,
			Age:      math.RandomInRange(rng, 0, life),
			Lifetime: life,
		}
	}
	return out
}

func (s *System) Count() int { return s.cfg.Count }

// SetPrograms swaps in rebuilt programs. The particles keep their state.
func (s *System) SetPrograms(update, render *opengl.Program) {
	s.update, s.render = update, render
	s.filters = components.NewFilterOwner(s.registry, render, components.Vertex)
}

// Front returns the buffer holding the current particles.
func (s *System) Front() *opengl.Buffer { return s.buffers[s.front] }

// Update advances the particles by dt seconds.
func (s *System) Update(dt float32) {
	back := 1 - s.front
	program := s.ctx.UseProgram(s.update)
	s.update.SetUniform(DeltaTime, opengl.Float(dt))
	s.update.SetUniform(Gravity, opengl.Vec3(s.cfg.Gravity))
	s.update.SetUniform(Emitter, opengl.Vec3(s.cfg.Emitter))

	discard := s.ctx.Enable(gl.RASTERIZER_DISCARD, true)
	s.ctx.BindBufferBase(gl.TRANSFORM_FEEDBACK_BUFFER, 0, s.buffers[back].ID())
	feedback := s.ctx.TransformFeedback(gl.POINTS)
	s.vaos[s.front].DrawArrays(s.update, gl.POINTS)
	feedback.Restore()
	s.ctx.BindBufferBase(gl.TRANSFORM_FEEDBACK_BUFFER, 0, gl.InvalidID)
	discard.Restore()
	program.Restore()

	s.front = back
	s.ctx.CheckError("particles.Update")
}

// Draw renders the current particles as additive points seen by camera.
func (s *System) Draw(camera *components.Camera) {
	program := s.ctx.UseProgram(s.render)
	pointSize := s.ctx.Enable(gl.PROGRAM_POINT_SIZE, true)
	blend := s.ctx.Enable(gl.BLEND, true)
	additive := s.ctx.BlendFunc(gl.SRC_ALPHA, gl.ONE)
	depthWrites := s.ctx.DepthMask(false)

	camera.FillVertex(s.vertex, s.Transform.Matrix())
	s.filters.Filter(components.Vertex).FillUniforms(s.vertex)
	s.vaos[s.front].DrawArrays(s.render, gl.POINTS)

	depthWrites.Restore()
	additive.Restore()
	blend.Restore()
	pointSize.Restore()
	program.Restore()
}

func (s *System) Release() {
	for i := range s.buffers {
		s.vaos[i].Release()
		s.buffers[i].Release()
	}
}
