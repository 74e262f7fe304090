package opengl

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type BlockLayout int

const (
	// BlockStd140 offsets are known without asking the driver.
	BlockStd140 BlockLayout = iota
	// BlockShared and BlockPacked offsets are read back from the first
	// program the block is bound to.
	BlockShared
	BlockPacked
)

func (l BlockLayout) String() string {
	switch l {
	case BlockStd140:
		return "std140"
	case BlockShared:
		return "shared"
	case BlockPacked:
		return "packed"
	}
	return fmt.Sprintf("BlockLayout(%d)", int(l))
}

// BlockMember declares one member of a uniform block. Count is the array
// length, 0 for plain members. RowMajor must match the matrix order the
// shader declares. The placement fields are filled in by the block.
type BlockMember struct {
	Name     string
	Type     gl.Enum
	Count    int
	RowMajor bool

	Offset       int
	ArrayStride  int
	MatrixStride int
}

func (m BlockMember) elements() int { return max(m.Count, 1) }

// UniformBlock is a uniform buffer with a CPU shadow copy. Values are
// written to the shadow and uploaded on the next Bind or Flush.
type UniformBlock struct {
	ctx     *Context
	name    string
	layout  BlockLayout
	members []BlockMember
	lookup  map[string]int
	binding uint32

	resolved bool
	size     int
	shadow   []byte
	buffer   *Buffer
	dirty    bool
}

// NewUniformBlock declares a block named like its GLSL counterpart. Every
// block takes a binding point of its own for the lifetime of the context.
func NewUniformBlock(ctx *Context, name string, layout BlockLayout, members ...BlockMember) *UniformBlock {
	core.Assert(len(members) > 0, "uniform block %s has no members", name)
	b := &UniformBlock{
		ctx:     ctx,
		name:    name,
		layout:  layout,
		members: slices.Clone(members),
		binding: ctx.allocBlockBinding(),
	}
	b.index()
	if layout == BlockStd140 {
		offsets, size := Std140Offsets(b.members)
		for i := range b.members {
			l := Std140Layout(b.members[i].Type, b.members[i].Count, b.members[i].RowMajor)
			b.members[i].Offset = offsets[i]
			b.members[i].ArrayStride = l.ArrayStride
			b.members[i].MatrixStride = l.MatrixStride
		}
		b.allocate(size)
	}
	core.LogDebug("uniform block %s (%s) uses binding %d", name, layout, b.binding)
	return b
}

func (b *UniformBlock) index() {
	b.lookup = make(map[string]int, len(b.members))
	for i, m := range b.members {
		_, dup := b.lookup[m.Name]
		core.Assert(!dup, "uniform block %s declares %s twice", b.name, m.Name)
		b.lookup[m.Name] = i
	}
}

func (b *UniformBlock) allocate(size int) {
	b.size = size
	b.shadow = make([]byte, size)
	b.buffer = NewBuffer(b.ctx, gl.UNIFORM_BUFFER, ByteLayout)
	b.buffer.Create(b.shadow, gl.DYNAMIC_DRAW)
	b.resolved = true
}

func (b *UniformBlock) Name() string        { return b.name }
func (b *UniformBlock) Layout() BlockLayout { return b.layout }
func (b *UniformBlock) Binding() uint32     { return b.binding }

// Size is the buffer size in bytes, 0 until the layout is known.
func (b *UniformBlock) Size() int { return b.size }

// Members returns the members in ascending offset order once the layout is
// known.
func (b *UniformBlock) Members() []BlockMember { return b.members }

// Resolved reports whether member offsets are known.
func (b *UniformBlock) Resolved() bool { return b.resolved }

// driverMember is what the linked program reports about a block member.
type driverMember struct {
	ty           gl.Enum
	size         int
	offset       int
	arrayStride  int
	matrixStride int
	rowMajor     bool
}

func (b *UniformBlock) query(p *Program) (uint32, map[string]driverMember) {
	f := b.ctx.gl
	index := f.GetUniformBlockIndex(p.id, b.name)
	core.Assert(index != gl.InvalidIndex, "program %s has no uniform block %s", p.name, b.name)
	n := int(f.GetActiveUniformBlocki(p.id, index, gl.UNIFORM_BLOCK_ACTIVE_UNIFORMS))
	core.Assert(n == len(b.members), "uniform block %s has %d members in program %s, expected %d",
		b.name, n, p.name, len(b.members))

	indices := f.GetActiveUniformBlockIndices(p.id, index)
	types := f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_TYPE)
	sizes := f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_SIZE)
	offsets := f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_OFFSET)
	arrayStrides := f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_ARRAY_STRIDE)
	matrixStrides := f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_MATRIX_STRIDE)
	rowMajor := f.GetActiveUniformsi(p.id, indices, gl.UNIFORM_IS_ROW_MAJOR)

	out := make(map[string]driverMember, len(indices))
	for k, i := range indices {
		name, _, _ := f.GetActiveUniform(p.id, i)
		name = strings.TrimSuffix(strings.TrimPrefix(name, b.name+"."), "[0]")
		out[name] = driverMember{
			ty:           gl.Enum(types[k]),
			size:         int(sizes[k]),
			offset:       int(offsets[k]),
			arrayStride:  int(arrayStrides[k]),
			matrixStride: int(matrixStrides[k]),
			rowMajor:     rowMajor[k] != 0,
		}
	}
	return index, out
}

// resolve takes shared and packed offsets from the first program the block
// is bound to and orders the members by offset.
func (b *UniformBlock) resolve(p *Program, index uint32, found map[string]driverMember) {
	for i := range b.members {
		d := found[b.members[i].Name]
		b.members[i].Offset = d.offset
		b.members[i].ArrayStride = d.arrayStride
		b.members[i].MatrixStride = d.matrixStride
	}
	slices.SortFunc(b.members, func(x, y BlockMember) int { return cmp.Compare(x.Offset, y.Offset) })
	for i := 1; i < len(b.members); i++ {
		core.Assert(b.members[i].Offset > b.members[i-1].Offset,
			"members %s and %s of uniform block %s overlap", b.members[i-1].Name, b.members[i].Name, b.name)
	}
	b.index()
	b.allocate(int(b.ctx.gl.GetActiveUniformBlocki(p.id, index, gl.UNIFORM_BLOCK_DATA_SIZE)))
	core.LogDebug("uniform block %s resolved from program %s: %d bytes", b.name, p.name, b.size)
}

// Bind attaches the block to its binding point in p and binds the buffer
// there, uploading pending writes. Every call checks that p declares the
// block with the same members, types and matrix order.
func (b *UniformBlock) Bind(p *Program) {
	core.Assert(p.state == ProgramLinked, "program %s is %s", p.name, p.state)
	index, found := b.query(p)
	for _, m := range b.members {
		d, ok := found[m.Name]
		core.Assert(ok, "program %s has no member %s in uniform block %s", p.name, m.Name, b.name)
		core.Assert(d.ty == m.Type, "member %s.%s is %s in program %s, declared %s",
			b.name, m.Name, gl.TypeName(d.ty), p.name, gl.TypeName(m.Type))
		core.Assert(d.size == m.elements(), "member %s.%s has %d elements in program %s, declared %d",
			b.name, m.Name, d.size, p.name, m.elements())
		if _, _, isMatrix := gl.MatrixSize(m.Type); isMatrix {
			core.Assert(d.rowMajor == m.RowMajor, "member %s.%s matrix order differs in program %s",
				b.name, m.Name, p.name)
		}
	}
	if !b.resolved {
		b.resolve(p, index, found)
	} else if core.DebugChecks() {
		for _, m := range b.members {
			d := found[m.Name]
			core.Assert(d.offset == m.Offset && d.arrayStride == m.ArrayStride && d.matrixStride == m.MatrixStride,
				"member %s.%s is placed at %d (stride %d/%d) in program %s, expected %d (stride %d/%d)",
				b.name, m.Name, d.offset, d.arrayStride, d.matrixStride, p.name, m.Offset, m.ArrayStride, m.MatrixStride)
		}
		driverSize := int(b.ctx.gl.GetActiveUniformBlocki(p.id, index, gl.UNIFORM_BLOCK_DATA_SIZE))
		core.Assert(driverSize <= b.size, "uniform block %s needs %d bytes in program %s, has %d",
			b.name, driverSize, p.name, b.size)
	}

	f := b.ctx.gl
	f.UniformBlockBinding(p.id, index, b.binding)
	b.Flush()
	b.ctx.BindBufferBase(gl.UNIFORM_BUFFER, b.binding, b.buffer.id)
	b.ctx.CheckError("UniformBlock.Bind")
}

// Flush uploads the shadow copy if it changed.
func (b *UniformBlock) Flush() {
	if !b.dirty {
		return
	}
	b.buffer.Set(b.shadow, 0)
	b.dirty = false
}

func (b *UniformBlock) member(name string) *BlockMember {
	core.Assert(b.resolved, "uniform block %s is written before its layout is known", b.name)
	i, ok := b.lookup[name]
	core.Assert(ok, "uniform block %s has no member %s", b.name, name)
	return &b.members[i]
}

// elementOffset is the byte offset of array element elem.
func (m *BlockMember) elementOffset(elem int) int {
	return m.Offset + elem*m.ArrayStride
}

// Set writes v to a member starting at element 0.
func (b *UniformBlock) Set(name string, v Value) {
	b.SetElement(name, 0, v)
}

// SetElement writes the elements of v to a member starting at array
// element first.
func (b *UniformBlock) SetElement(name string, first int, v Value) {
	m := b.member(name)
	core.Assert(v.Type == m.Type, "member %s.%s is %s, got %s", b.name, name, gl.TypeName(m.Type), gl.TypeName(v.Type))
	n := v.Count()
	core.Assert(first >= 0 && first+n <= m.elements(), "elements [%d, %d) of %s.%s[%d]",
		first, first+n, b.name, name, m.elements())
	raw := v.Bytes()
	elemBytes := gl.TypeSize(m.Type)
	for e := 0; e < n; e++ {
		b.put(m, m.elementOffset(first+e), raw[e*elemBytes:(e+1)*elemBytes])
	}
	b.dirty = true
}

// Get reads every element of a member back from the shadow copy.
func (b *UniformBlock) Get(name string) Value {
	m := b.member(name)
	elemBytes := gl.TypeSize(m.Type)
	raw := make([]byte, m.elements()*elemBytes)
	for e := 0; e < m.elements(); e++ {
		b.get(m, m.elementOffset(e), raw[e*elemBytes:(e+1)*elemBytes])
	}
	return DecodeValue(m.Type, raw)
}

// put copies one element given in column major order to the shadow buffer
// at off, honouring the member's matrix order.
func (b *UniformBlock) put(m *BlockMember, off int, src []byte) {
	cols, rows, isMatrix := gl.MatrixSize(m.Type)
	if !isMatrix {
		copy(b.shadow[off:], src)
		return
	}
	if !m.RowMajor {
		for c := 0; c < cols; c++ {
			copy(b.shadow[off+c*m.MatrixStride:], src[c*rows*4:(c+1)*rows*4])
		}
		return
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := off + r*m.MatrixStride + c*4
			copy(b.shadow[at:at+4], src[(c*rows+r)*4:])
		}
	}
}

func (b *UniformBlock) get(m *BlockMember, off int, dst []byte) {
	cols, rows, isMatrix := gl.MatrixSize(m.Type)
	if !isMatrix {
		copy(dst, b.shadow[off:])
		return
	}
	if !m.RowMajor {
		for c := 0; c < cols; c++ {
			copy(dst[c*rows*4:(c+1)*rows*4], b.shadow[off+c*m.MatrixStride:])
		}
		return
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			at := off + r*m.MatrixStride + c*4
			copy(dst[(c*rows+r)*4:(c*rows+r+1)*4], b.shadow[at:at+4])
		}
	}
}

// Bytes returns the shadow copy.
func (b *UniformBlock) Bytes() []byte { return b.shadow }

// Release frees the buffer. The binding point is not handed out again.
func (b *UniformBlock) Release() {
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
	}
	b.resolved = false
}
