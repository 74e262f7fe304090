package components

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

// Values holds the component data of one entity, a material or a light for
// example, for a single class. Data is kept in the byte encoding of
// opengl.Value so filters can hand it to the raw uniform setter.
type Values struct {
	registry *Registry
	class    Class
	data     []byte
	set      []bool
	textures map[int]*opengl.Texture
}

func NewValues(r *Registry, class Class) *Values {
	core.Assert(class.valid(), "unknown component class %d", int(class))
	return &Values{registry: r, class: class, textures: map[int]*opengl.Texture{}}
}

func (v *Values) Class() Class { return v.class }

func (v *Values) Registry() *Registry { return v.registry }

// grow makes room for components registered after v was created.
func (v *Values) grow() {
	if n := v.registry.ChunkSize(v.class); len(v.data) < n {
		v.data = append(v.data, make([]byte, n-len(v.data))...)
	}
	if n := len(v.registry.Components(v.class)); len(v.set) < n {
		v.set = append(v.set, make([]bool, n-len(v.set))...)
	}
}

func (v *Values) check(c *Component) {
	core.Assert(c.Class == v.class, "%s component %s in %s values", c.Class, c.Name, v.class)
	v.grow()
}

// Set stores val under name, registering the component when needed.
func (v *Values) Set(name string, val opengl.Value) *Component {
	c, ok := v.registry.Lookup(v.class, name)
	if !ok {
		c = v.registry.Register(v.class, name, val.Type, val.Count())
	}
	v.SetComponent(c, val)
	return c
}

// SetComponent stores val in the slot of c. val may hold fewer elements
// than c; the rest keep their previous contents.
func (v *Values) SetComponent(c *Component, val opengl.Value) {
	v.check(c)
	core.Assert(!c.IsSampler(), "sampler component %s takes a texture", c.Name)
	core.Assert(val.Type == c.Type, "component %s is %s, got %s", c.Name, gl.TypeName(c.Type), gl.TypeName(val.Type))
	raw := val.Bytes()
	core.Assert(len(raw) <= c.Size, "%d bytes for component %s of %d bytes", len(raw), c.Name, c.Size)
	copy(v.data[c.Offset:], raw)
	v.set[c.Index] = true
}

// SetTexture stores tex under the sampler component name.
func (v *Values) SetTexture(name string, tex *opengl.Texture) *Component {
	c := v.registry.Register(v.class, name, tex.Kind().SamplerType(), 1)
	v.SetComponentTexture(c, tex)
	return c
}

func (v *Values) SetComponentTexture(c *Component, tex *opengl.Texture) {
	v.check(c)
	core.Assert(c.IsSampler(), "component %s is not a sampler", c.Name)
	core.Assert(tex.Kind().SamplerType() == c.Type, "component %s cannot sample a %s texture", c.Name, tex.Kind())
	v.textures[c.Index] = tex
	v.set[c.Index] = true
}

// Has reports whether c was given a value.
func (v *Values) Has(c *Component) bool {
	v.check(c)
	return v.set[c.Index]
}

// Raw returns the bytes of c. The slice aliases the chunk.
func (v *Values) Raw(c *Component) []byte {
	v.check(c)
	return v.data[c.Offset : c.Offset+c.Size]
}

// Get decodes the value of c.
func (v *Values) Get(c *Component) opengl.Value {
	return opengl.DecodeValue(c.Type, v.Raw(c))
}

// Texture returns the texture of a sampler component, or nil.
func (v *Values) Texture(c *Component) *opengl.Texture {
	v.check(c)
	return v.textures[c.Index]
}

// Clone returns an independent copy sharing the textures.
func (v *Values) Clone() *Values {
	v.grow()
	out := NewValues(v.registry, v.class)
	out.data = append([]byte(nil), v.data...)
	out.set = append([]bool(nil), v.set...)
	for i, tex := range v.textures {
		out.textures[i] = tex
	}
	return out
}
