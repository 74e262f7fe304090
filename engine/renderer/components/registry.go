package components

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// Class is a namespace of components. A uniform name means different
// things in different classes.
type Class int

const (
	Material Class = iota
	LightSource
	Vertex
	classCount
)

// Classes lists every component class.
var Classes = []Class{Material, LightSource, Vertex}

func (c Class) String() string {
	switch c {
	case Material:
		return "material"
	case LightSource:
		return "light source"
	case Vertex:
		return "vertex"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

func (c Class) valid() bool { return c >= 0 && c < classCount }

// Component is a named value that a shader can read as a uniform. Its data
// lives at Offset in the chunk of its class. Samplers take no bytes: Values
// holds their texture instead.
type Component struct {
	Class  Class
	Name   string
	Type   gl.Enum
	Count  int
	Index  int
	Offset int
	Size   int
}

func (c *Component) IsSampler() bool { return gl.IsSampler(c.Type) }

type classTable struct {
	components []*Component
	lookup     map[string]*Component
	size       int
}

// Registry assigns every (class, name) pair a component with a fixed slot
// in its class chunk. Slots are never moved, so Values created before a
// later registration stay valid.
type Registry struct {
	classes [classCount]classTable
}

func NewRegistry() *Registry {
	r := &Registry{}
	for i := range r.classes {
		r.classes[i].lookup = map[string]*Component{}
	}
	return r
}

// NewDefaultRegistry returns a registry holding the components the
// built-in shaders and the renderer use.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Material, AmbientColor, gl.FLOAT_VEC3, 1)
	r.Register(Material, DiffuseColor, gl.FLOAT_VEC4, 1)
	r.Register(Material, SpecularColor, gl.FLOAT_VEC3, 1)
	r.Register(Material, Shininess, gl.FLOAT, 1)
	r.Register(Material, DiffuseTexture, gl.SAMPLER_2D, 1)
	r.Register(LightSource, LightVector, gl.FLOAT_VEC4, 1)
	r.Register(LightSource, LightColor, gl.FLOAT_VEC3, 1)
	r.Register(Vertex, ModelViewProjection, gl.FLOAT_MAT4, 1)
	r.Register(Vertex, Model, gl.FLOAT_MAT4, 1)
	r.Register(Vertex, NormalMatrix, gl.FLOAT_MAT3, 1)
	r.Register(Vertex, ViewPosition, gl.FLOAT_VEC3, 1)
	return r
}

// Register returns the component called name in class, creating it on
// first use. Registering a name again with another type or count is an
// error.
func (r *Registry) Register(class Class, name string, ty gl.Enum, count int) *Component {
	core.Assert(class.valid(), "unknown component class %d", int(class))
	core.Assert(gl.IsKnownType(ty), "component %s has unknown type 0x%04X", name, uint32(ty))
	core.Assert(count >= 1, "component %s needs at least one element", name)
	t := &r.classes[class]
	if c, ok := t.lookup[name]; ok {
		core.Assert(c.Type == ty && c.Count == count, "%s component %s is %s[%d], registered again as %s[%d]",
			class, name, gl.TypeName(c.Type), c.Count, gl.TypeName(ty), count)
		return c
	}
	c := &Component{Class: class, Name: name, Type: ty, Count: count, Index: len(t.components)}
	if !gl.IsSampler(ty) {
		c.Size = gl.TypeSize(ty) * count
		c.Offset = math.AlignUp(t.size, 4)
		t.size = c.Offset + c.Size
	}
	t.components = append(t.components, c)
	t.lookup[name] = c
	return c
}

// GetOrCreateGlComponent returns the component of class named after u,
// registering it with the uniform's type and array size when missing.
func (r *Registry) GetOrCreateGlComponent(class Class, u *opengl.ActiveUniform) *Component {
	return r.Register(class, u.Name, u.Type, u.Size)
}

// Lookup finds a registered component.
func (r *Registry) Lookup(class Class, name string) (*Component, bool) {
	core.Assert(class.valid(), "unknown component class %d", int(class))
	c, ok := r.classes[class].lookup[name]
	return c, ok
}

// Components returns the components of class in registration order.
func (r *Registry) Components(class Class) []*Component {
	core.Assert(class.valid(), "unknown component class %d", int(class))
	return r.classes[class].components
}

// ChunkSize is the byte size of the data chunk of class.
func (r *Registry) ChunkSize(class Class) int {
	core.Assert(class.valid(), "unknown component class %d", int(class))
	return r.classes[class].size
}
