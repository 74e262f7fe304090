package opengl

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// SkipLocation leaves a layout element unbound in VertexArray.BindBuffer.
const SkipLocation = gl.InvalidIndex

// VertexArray owns a vertex array object: the attribute pointers into
// vertex buffers and the index buffer.
type VertexArray struct {
	ctx     *Context
	id      uint32
	enabled map[uint32]int // location -> components
	buffers []TypedBuffer
	indices TypedBuffer
}

func NewVertexArray(ctx *Context) *VertexArray {
	return &VertexArray{ctx: ctx, id: ctx.gl.GenVertexArray(), enabled: map[uint32]int{}}
}

func (v *VertexArray) ID() uint32 { return v.id }

// BindBuffer points one attribute location per layout element at buf.
// locations[i] feeds element i; pass SkipLocation to leave an element out.
func (v *VertexArray) BindBuffer(buf TypedBuffer, locations ...uint32) {
	layout := buf.Layout()
	core.Assert(len(locations) == layout.Len(),
		"%d attribute locations for a layout of %d elements", len(locations), layout.Len())
	for _, loc := range locations {
		if loc == SkipLocation {
			continue
		}
		_, taken := v.enabled[loc]
		core.Assert(!taken, "attribute location %d is already enabled in vertex array %d", loc, v.id)
		core.Assert(int(loc) < v.ctx.caps.MaxVertexAttribs, "attribute location %d exceeds the driver limit", loc)
	}
	f := v.ctx.gl
	vs := v.ctx.BindVertexArray(v.id)
	bs := v.ctx.BindBuffer(gl.ARRAY_BUFFER, buf.ID())
	stride := int32(layout.Stride())
	for i, loc := range locations {
		if loc == SkipLocation {
			continue
		}
		e := layout.Element(i)
		f.EnableVertexAttribArray(loc)
		if e.Integer {
			f.VertexAttribIPointer(loc, int32(e.Components), e.Type, stride, layout.Offset(i))
		} else {
			f.VertexAttribPointer(loc, int32(e.Components), e.Type, e.Normalized, stride, layout.Offset(i))
		}
		v.enabled[loc] = e.Components
	}
	bs.Restore()
	vs.Restore()
	v.buffers = append(v.buffers, buf)
	v.ctx.CheckError("VertexArray.BindBuffer")
}

// SetIndices records buf as the index buffer. Indices are 32 bit.
func (v *VertexArray) SetIndices(buf TypedBuffer) {
	l := buf.Layout()
	core.Assert(l.Len() == 1 && l.Element(0) == ElementUint32, "element draws use 32 bit indices")
	vs := v.ctx.BindVertexArray(v.id)
	v.ctx.gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, buf.ID())
	vs.Restore()
	v.indices = buf
	v.ctx.CheckError("VertexArray.SetIndices")
}

// Indices returns the index buffer, or nil.
func (v *VertexArray) Indices() TypedBuffer { return v.indices }

// VertexCount is the number of records in the shortest bound buffer.
func (v *VertexArray) VertexCount() int {
	n := -1
	for _, b := range v.buffers {
		if n < 0 || b.Count() < n {
			n = b.Count()
		}
	}
	return max(n, 0)
}

// prepare validates the draw and binds the vertex array. The program must
// be current and all of its uniforms set.
func (v *VertexArray) prepare(p *Program) Switcher {
	core.Assert(v.id != gl.InvalidID, "vertex array used after release")
	core.Assert(v.ctx.program == p, "program %s is not current", p.name)
	p.AssertUniformsSet()
	s := v.ctx.BindVertexArray(v.id)
	if core.DebugChecks() {
		for _, a := range p.attributes {
			if err := v.feeds(a); err != "" {
				s.Restore()
				core.Assert(false, "attribute %s of program %s %s in vertex array %d", a.Name, p.name, err, v.id)
			}
		}
	}
	return s
}

// feeds checks that every location of attribute a is enabled with the
// component count a reads there. Matrices take one location per column and
// arrays one run of locations per element. It returns what is wrong, or "".
func (v *VertexArray) feeds(a ActiveAttribute) string {
	f := v.ctx.gl
	locations, components := 1, gl.VectorSize(a.Type)
	if cols, rows, ok := gl.MatrixSize(a.Type); ok {
		locations, components = cols, rows
	}
	for i := 0; i < locations*max(a.Size, 1); i++ {
		loc := uint32(a.Location) + uint32(i)
		n, ours := v.enabled[loc]
		if !ours || f.GetVertexAttribi(loc, gl.VERTEX_ATTRIB_ARRAY_ENABLED) == 0 {
			return fmt.Sprintf("at location %d is not fed", loc)
		}
		if n != components || int(f.GetVertexAttribi(loc, gl.VERTEX_ATTRIB_ARRAY_SIZE)) != components {
			return fmt.Sprintf("reads %d components at location %d, fed %d", components, loc, n)
		}
	}
	return ""
}

// DrawRaw draws count vertices starting at first.
func (v *VertexArray) DrawRaw(p *Program, mode gl.Enum, first, count int) {
	s := v.prepare(p)
	v.ctx.gl.DrawArrays(mode, int32(first), int32(count))
	s.Restore()
	v.ctx.CheckError("VertexArray.DrawRaw")
}

// DrawArrays draws every vertex of the bound buffers.
func (v *VertexArray) DrawArrays(p *Program, mode gl.Enum) {
	v.DrawRaw(p, mode, 0, v.VertexCount())
}

// DrawQuad draws the first four vertices as a triangle strip.
func (v *VertexArray) DrawQuad(p *Program) {
	core.Assert(v.VertexCount() >= 4, "quad draw needs 4 vertices, have %d", v.VertexCount())
	v.DrawRaw(p, gl.TRIANGLE_STRIP, 0, 4)
}

// DrawElements draws every index of the index buffer.
func (v *VertexArray) DrawElements(p *Program, mode gl.Enum) {
	core.Assert(v.indices != nil, "vertex array %d has no index buffer", v.id)
	v.DrawElementsCount(p, mode, v.indices.Count())
}

// DrawElementsCount draws the first count indices.
func (v *VertexArray) DrawElementsCount(p *Program, mode gl.Enum, count int) {
	core.Assert(v.indices != nil, "vertex array %d has no index buffer", v.id)
	core.Assert(count >= 0 && count <= v.indices.Count(), "%d of %d indices", count, v.indices.Count())
	s := v.prepare(p)
	v.ctx.gl.DrawElements(mode, int32(count), gl.UNSIGNED_INT, 0)
	s.Restore()
	v.ctx.CheckError("VertexArray.DrawElements")
}

func (v *VertexArray) Release() {
	if v.id == gl.InvalidID {
		return
	}
	v.ctx.gl.DeleteVertexArray(v.id)
	if v.ctx.vao == v.id {
		v.ctx.vao = 0
	}
	v.id = gl.InvalidID
}
