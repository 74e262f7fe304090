package opengl

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// Element is one field of a vertex record.
type Element struct {
	Type       gl.Enum // component type
	Components int
	Normalized bool
	// Integer elements are fed to integer attributes without conversion.
	Integer bool
}

func (e Element) Size() int { return e.Components * gl.DataTypeSize(e.Type) }

func (e Element) align() int { return gl.DataTypeSize(e.Type) }

var (
	ElementFloat32 = Element{Type: gl.FLOAT, Components: 1}
	ElementVec2    = Element{Type: gl.FLOAT, Components: 2}
	ElementVec3    = Element{Type: gl.FLOAT, Components: 3}
	ElementVec4    = Element{Type: gl.FLOAT, Components: 4}
	ElementInt32   = Element{Type: gl.INT, Components: 1, Integer: true}
	ElementIVec2   = Element{Type: gl.INT, Components: 2, Integer: true}
	ElementIVec3   = Element{Type: gl.INT, Components: 3, Integer: true}
	ElementIVec4   = Element{Type: gl.INT, Components: 4, Integer: true}
	ElementUint32  = Element{Type: gl.UNSIGNED_INT, Components: 1, Integer: true}
	ElementUVec2   = Element{Type: gl.UNSIGNED_INT, Components: 2, Integer: true}
	ElementUVec3   = Element{Type: gl.UNSIGNED_INT, Components: 3, Integer: true}
	ElementUVec4   = Element{Type: gl.UNSIGNED_INT, Components: 4, Integer: true}
	ElementUint16  = Element{Type: gl.UNSIGNED_SHORT, Components: 1, Integer: true}
	ElementUint8   = Element{Type: gl.UNSIGNED_BYTE, Components: 1, Integer: true}
	// ElementRGBA8 is a packed colour read as normalized floats.
	ElementRGBA8 = Element{Type: gl.UNSIGNED_BYTE, Components: 4, Normalized: true}
)

// Layout describes the record stored in every element of a buffer. Fields
// are packed like a C struct: each one starts on a multiple of its
// component size and the stride is padded to the largest component.
type Layout struct {
	elements []Element
	offsets  []int
	stride   int
}

func NewLayout(elements ...Element) Layout {
	core.Assert(len(elements) > 0, "a buffer layout needs at least one element")
	l := Layout{elements: elements, offsets: make([]int, len(elements))}
	cursor, maxAlign := 0, 1
	for i, e := range elements {
		core.Assert(e.Components >= 1 && e.Components <= 4 && e.align() > 0,
			"invalid layout element %d: %d components of type 0x%04X", i, e.Components, uint32(e.Type))
		cursor = math.AlignUp(cursor, e.align())
		l.offsets[i] = cursor
		cursor += e.Size()
		maxAlign = max(maxAlign, e.align())
	}
	l.stride = math.AlignUp(cursor, maxAlign)
	return l
}

// Stride is the size in bytes of one record.
func (l Layout) Stride() int { return l.stride }

func (l Layout) Len() int { return len(l.elements) }

func (l Layout) Element(i int) Element { return l.elements[i] }

// Offset returns the byte offset of field i inside a record.
func (l Layout) Offset(i int) int { return l.offsets[i] }

// VertexLayout matches math.Vertex3D: position, normal and texture
// coordinates.
var VertexLayout = NewLayout(ElementVec3, ElementVec3, ElementVec2)

// Vertex2DLayout matches math.Vertex2D: position and texture coordinates.
var Vertex2DLayout = NewLayout(ElementVec2, ElementVec2)

// IndexLayout is the layout of 32 bit element buffers.
var IndexLayout = NewLayout(ElementUint32)

// ByteLayout treats a buffer as raw bytes.
var ByteLayout = NewLayout(ElementUint8)
