package opengl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type ProgramState int

const (
	ProgramUnlinked ProgramState = iota
	ProgramLinking
	ProgramLinked
	ProgramFailed
)

func (s ProgramState) String() string {
	switch s {
	case ProgramUnlinked:
		return "unlinked"
	case ProgramLinking:
		return "linking"
	case ProgramLinked:
		return "linked"
	case ProgramFailed:
		return "failed"
	}
	return fmt.Sprintf("ProgramState(%d)", int(s))
}

// ProgramConfig lists the stages of a program and the link time hints.
type ProgramConfig struct {
	Name    string
	Shaders []*Shader
	// AttribLocations binds vertex inputs without an explicit layout
	// location.
	AttribLocations map[string]uint32
	// FeedbackVaryings are captured during transform feedback.
	FeedbackVaryings []string
	// FeedbackMode defaults to gl.INTERLEAVED_ATTRIBS.
	FeedbackMode gl.Enum
}

// ActiveUniform is a uniform of the default block that survived linking.
// Array uniforms are named without the [0] suffix.
type ActiveUniform struct {
	Name     string
	Type     gl.Enum
	Size     int // array length, 1 for non-arrays
	Location int32
	// Unit is the first texture unit of a sampler uniform, -1 otherwise.
	Unit  int
	Index int
	set   bool
}

// IsSet reports whether a value (or texture) was assigned since linking.
func (u *ActiveUniform) IsSet() bool { return u.set }

type ActiveAttribute struct {
	Name     string
	Type     gl.Enum
	Size     int
	Location int32
}

// Program is a linked set of shader stages with its introspected uniforms
// and attributes.
type Program struct {
	ctx    *Context
	id     uint32
	name   string
	state  ProgramState
	config ProgramConfig
	log    string

	uniforms   []*ActiveUniform
	lookup     map[string]int
	attributes []ActiveAttribute
}

func NewProgram(ctx *Context, cfg ProgramConfig) *Program {
	if cfg.FeedbackMode == 0 {
		cfg.FeedbackMode = gl.INTERLEAVED_ATTRIBS
	}
	return &Program{ctx: ctx, name: cfg.Name, config: cfg, lookup: map[string]int{}}
}

// LinkProgram creates and links a program in one step.
func LinkProgram(ctx *Context, cfg ProgramConfig) (*Program, error) {
	p := NewProgram(ctx, cfg)
	if err := p.Link(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Program) ID() uint32          { return p.id }
func (p *Program) Name() string        { return p.name }
func (p *Program) State() ProgramState { return p.state }

// Context returns the context the program was created in.
func (p *Program) Context() *Context { return p.ctx }

// InfoLog is the linker log of the last link attempt.
func (p *Program) InfoLog() string { return p.log }

// Link links the configured stages. A program links once; the error of a
// failed link carries the driver's info log.
func (p *Program) Link() error {
	core.Assert(p.state == ProgramUnlinked, "program %s is already %s", p.name, p.state)
	p.state = ProgramLinking
	f := p.ctx.gl

	id := f.CreateProgram()
	for _, s := range p.config.Shaders {
		f.AttachShader(id, s.id)
	}
	for name, loc := range p.config.AttribLocations {
		f.BindAttribLocation(id, loc, name)
	}
	if len(p.config.FeedbackVaryings) > 0 {
		f.TransformFeedbackVaryings(id, p.config.FeedbackVaryings, p.config.FeedbackMode)
	}
	f.LinkProgram(id)
	for _, s := range p.config.Shaders {
		f.DetachShader(id, s.id)
	}

	if f.GetProgrami(id, gl.LINK_STATUS) == 0 {
		p.log = strings.TrimSpace(f.GetProgramInfoLog(id))
		f.DeleteProgram(id)
		p.state = ProgramFailed
		core.LogError("program %s failed to link: %s", p.name, p.log)
		return fmt.Errorf("%w: %s: %s", core.ErrProgramLink, p.name, p.log)
	}
	p.id = id
	p.log = f.GetProgramInfoLog(id)
	p.state = ProgramLinked
	p.introspect()
	p.ctx.CheckError("Program.Link")
	core.LogDebug("program %s linked: %d uniforms, %d attributes", p.name, len(p.uniforms), len(p.attributes))
	return nil
}

func (p *Program) introspect() {
	f := p.ctx.gl
	n := int(f.GetProgrami(p.id, gl.ACTIVE_UNIFORMS))
	indices := make([]uint32, n)
	for i := range indices {
		indices[i] = uint32(i)
	}
	var blocks []int32
	if n > 0 {
		blocks = f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_BLOCK_INDEX)
	}

	// unit 0 is reserved for texture maintenance
	unit := 1
	for i := 0; i < n; i++ {
		name, size, ty := f.GetActiveUniform(p.id, uint32(i))
		if strings.HasPrefix(name, "gl_") || blocks[i] != -1 {
			continue
		}
		name = strings.TrimSuffix(name, "[0]")
		u := &ActiveUniform{
			Name:     name,
			Type:     ty,
			Size:     int(size),
			Location: f.GetUniformLocation(p.id, name),
			Unit:     -1,
			Index:    len(p.uniforms),
		}
		if gl.IsSampler(ty) {
			u.Unit = unit
			unit += u.Size
			core.Assert(unit <= p.ctx.caps.MaxTextureUnits,
				"program %s needs %d texture units, the driver has %d", p.name, unit, p.ctx.caps.MaxTextureUnits)
		}
		p.lookup[name] = len(p.uniforms)
		p.uniforms = append(p.uniforms, u)
	}

	// sampler units never change, so they are assigned once here
	s := p.ctx.UseProgram(p)
	for _, u := range p.uniforms {
		if u.Unit < 0 {
			continue
		}
		units := make([]int32, u.Size)
		for k := range units {
			units[k] = int32(u.Unit + k)
		}
		f.Uniformiv(u.Location, 1, units)
	}
	s.Restore()

	na := int(f.GetProgrami(p.id, gl.ACTIVE_ATTRIBUTES))
	for i := 0; i < na; i++ {
		name, size, ty := f.GetActiveAttrib(p.id, uint32(i))
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		p.attributes = append(p.attributes, ActiveAttribute{
			Name:     name,
			Type:     ty,
			Size:     int(size),
			Location: f.GetAttribLocation(p.id, name),
		})
	}
}

// Uniforms returns the active default block uniforms, gl_ built-ins and
// uniform block members excluded.
func (p *Program) Uniforms() []*ActiveUniform { return p.uniforms }

func (p *Program) Uniform(name string) (*ActiveUniform, bool) {
	i, ok := p.lookup[name]
	if !ok {
		return nil, false
	}
	return p.uniforms[i], true
}

func (p *Program) Attributes() []ActiveAttribute { return p.attributes }

// AttribLocation returns the location of a vertex input, or -1.
func (p *Program) AttribLocation(name string) int32 {
	for _, a := range p.attributes {
		if a.Name == name {
			return a.Location
		}
	}
	return -1
}

func (p *Program) assertCurrent() {
	core.Assert(p.state == ProgramLinked, "program %s is %s", p.name, p.state)
	core.Assert(p.ctx.program == p, "program %s is not current", p.name)
}

// SetUniform sets a uniform by name. Uniforms the compiler removed are
// ignored and reported as false.
func (p *Program) SetUniform(name string, v Value) bool {
	i, ok := p.lookup[name]
	if !ok {
		return false
	}
	p.SetUniformAt(i, v)
	return true
}

// SetUniformAt sets the uniform at index i of Uniforms. The program must be
// current and v must match the declared type.
func (p *Program) SetUniformAt(i int, v Value) {
	p.assertCurrent()
	u := p.uniforms[i]
	core.Assert(u.Unit < 0, "sampler %s of program %s is set with BindTexture", u.Name, p.name)
	core.Assert(v.Type == u.Type, "uniform %s of program %s is %s, got %s",
		u.Name, p.name, gl.TypeName(u.Type), gl.TypeName(v.Type))
	count := v.Count()
	core.Assert(count >= 1 && count <= u.Size, "%d elements for uniform %s[%d]", count, u.Name, u.Size)
	v.apply(p.ctx.gl, u.Location)
	u.set = true
	p.ctx.CheckError("Program.SetUniform")
}

// SetUniformRaw sets the uniform at index i from little endian bytes, the
// encoding of Value.Bytes.
func (p *Program) SetUniformRaw(i int, raw []byte) {
	p.SetUniformAt(i, DecodeValue(p.uniforms[i].Type, raw))
}

// BindTexture binds tex (and its sampler object) to the unit of a sampler
// uniform. It reports false if the program has no such sampler.
func (p *Program) BindTexture(name string, tex *Texture) bool {
	i, ok := p.lookup[name]
	if !ok {
		return false
	}
	p.BindTextureAt(i, 0, tex)
	return true
}

// BindTextureAt binds tex to element elem of the sampler uniform at index
// i.
func (p *Program) BindTextureAt(i, elem int, tex *Texture) {
	u := p.uniforms[i]
	core.Assert(u.Unit >= 0, "uniform %s of program %s is not a sampler", u.Name, p.name)
	core.Assert(elem >= 0 && elem < u.Size, "sampler element %d of %s[%d]", elem, u.Name, u.Size)
	core.Assert(gl.SamplerTarget(u.Type) == tex.Target(), "sampler %s of program %s samples %s textures, got a %s texture",
		u.Name, p.name, gl.TypeName(u.Type), tex.Kind())
	unit := uint32(u.Unit + elem)
	p.ctx.bindTexture(unit, tex.Target(), tex.ID())
	var sampler uint32
	if tex.sampler != nil {
		sampler = tex.sampler.id
	}
	p.ctx.bindSampler(unit, sampler)
	u.set = true
	p.ctx.CheckError("Program.BindTexture")
}

// AssertUniformsSet asserts that every uniform was given a value.
func (p *Program) AssertUniformsSet() {
	for _, u := range p.uniforms {
		core.Assert(u.set, "uniform %s of program %s was never set", u.Name, p.name)
	}
}

// ResetUniforms clears the set flags, for example before a new frame.
func (p *Program) ResetUniforms() {
	for _, u := range p.uniforms {
		u.set = false
	}
}

func (p *Program) Release() {
	if p.id == gl.InvalidID {
		return
	}
	if p.ctx.program == p {
		p.ctx.program = nil
	}
	p.ctx.gl.DeleteProgram(p.id)
	p.id = gl.InvalidID
	p.state = ProgramUnlinked
}
