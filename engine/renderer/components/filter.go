package components

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// binding pairs a component with the index of the active uniform it feeds.
type binding struct {
	component *Component
	uniform   int
}

// UniformFilter is the subset of the active uniforms of one program fed by
// the components of one class.
type UniformFilter struct {
	program  *opengl.Program
	class    Class
	bindings []binding
}

func (f *UniformFilter) Class() Class { return f.class }

func (f *UniformFilter) Program() *opengl.Program { return f.program }

func (f *UniformFilter) UniformCount() int { return len(f.bindings) }

// Component returns the component feeding the i-th filtered uniform.
func (f *UniformFilter) Component(i int) *Component { return f.bindings[i].component }

// Uniform returns the i-th filtered uniform.
func (f *UniformFilter) Uniform(i int) *opengl.ActiveUniform {
	return f.program.Uniforms()[f.bindings[i].uniform]
}

// FillUniforms uploads every filtered uniform from values. The program of
// the filter must be current and values must hold each component.
func (f *UniformFilter) FillUniforms(values *Values) {
	core.Assert(values.Class() == f.class, "%s values for a %s filter", values.Class(), f.class)
	core.Assert(f.program.Context().CurrentProgram() == f.program,
		"program %s is not current while filling %s uniforms", f.program.Name(), f.class)
	for _, b := range f.bindings {
		c := b.component
		core.Assert(values.Has(c), "%s component %s has no value for program %s", c.Class, c.Name, f.program.Name())
		if c.IsSampler() {
			f.program.BindTextureAt(b.uniform, 0, values.Texture(c))
			continue
		}
		// drivers trim arrays to the last element the shader reads
		u := f.program.Uniforms()[b.uniform]
		raw := values.Raw(c)
		f.program.SetUniformRaw(b.uniform, raw[:min(len(raw), u.Size*gl.TypeSize(u.Type))])
	}
}

// FilterOwner splits the active uniforms of a program into one filter per
// declared class. A uniform goes to the first declared class that has a
// component of that name and type; uniforms no class knows are left to the
// caller.
type FilterOwner struct {
	program   *opengl.Program
	filters   [classCount]*UniformFilter
	unmatched []int
}

func NewFilterOwner(r *Registry, p *opengl.Program, classes ...Class) *FilterOwner {
	core.Assert(p.State() == opengl.ProgramLinked, "program %s is %s", p.Name(), p.State())
	o := &FilterOwner{program: p}
	for _, class := range classes {
		core.Assert(class.valid(), "unknown component class %d", int(class))
		core.Assert(o.filters[class] == nil, "%s class declared twice", class)
		o.filters[class] = &UniformFilter{program: p, class: class}
	}

	for i, u := range p.Uniforms() {
		var owner *UniformFilter
		for _, class := range classes {
			c, ok := r.Lookup(class, u.Name)
			if !ok {
				continue
			}
			if c.Type != u.Type || c.Count < u.Size {
				core.LogError("uniform %s of program %s is %s[%d] but %s component %s is %s[%d]",
					u.Name, p.Name(), gl.TypeName(u.Type), u.Size, class, c.Name, gl.TypeName(c.Type), c.Count)
				continue
			}
			if owner != nil {
				core.LogWarn("uniform %s of program %s matches %s and %s components; using %s",
					u.Name, p.Name(), owner.class, class, owner.class)
				continue
			}
			owner = o.filters[class]
			owner.bindings = append(owner.bindings, binding{component: c, uniform: i})
		}
		if owner == nil {
			o.unmatched = append(o.unmatched, i)
		}
	}
	return o
}

func (o *FilterOwner) Program() *opengl.Program { return o.program }

// Filter returns the filter of a declared class.
func (o *FilterOwner) Filter(class Class) *UniformFilter {
	core.Assert(class.valid() && o.filters[class] != nil, "program %s has no %s filter", o.program.Name(), class)
	return o.filters[class]
}

// Unmatched returns the uniforms no filter feeds.
func (o *FilterOwner) Unmatched() []*opengl.ActiveUniform {
	out := make([]*opengl.ActiveUniform, 0, len(o.unmatched))
	for _, i := range o.unmatched {
		out = append(out, o.program.Uniforms()[i])
	}
	return out
}
