package opengl

import (
	"bytes"
	"encoding/binary"
	"reflect"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// TypedBuffer is a GL buffer together with the layout of its records.
type TypedBuffer interface {
	ID() uint32
	Target() gl.Enum
	Layout() Layout
	// Count is the number of records the buffer holds.
	Count() int
}

// BufferView refers to a buffer owned elsewhere. It never frees the GL
// object.
type BufferView struct {
	id     uint32
	target gl.Enum
	layout Layout
	count  int
}

func NewBufferView(id uint32, target gl.Enum, layout Layout, count int) BufferView {
	return BufferView{id: id, target: target, layout: layout, count: count}
}

func (v BufferView) ID() uint32      { return v.id }
func (v BufferView) Target() gl.Enum { return v.target }
func (v BufferView) Layout() Layout  { return v.layout }
func (v BufferView) Count() int      { return v.count }

// Buffer owns a GL buffer object.
type Buffer struct {
	ctx    *Context
	id     uint32
	target gl.Enum
	layout Layout
	count  int
	usage  gl.Enum
}

var _ TypedBuffer = (*Buffer)(nil)

func NewBuffer(ctx *Context, target gl.Enum, layout Layout) *Buffer {
	return &Buffer{
		ctx:    ctx,
		id:     ctx.gl.GenBuffer(),
		target: target,
		layout: layout,
	}
}

func (b *Buffer) ID() uint32      { return b.id }
func (b *Buffer) Target() gl.Enum { return b.target }
func (b *Buffer) Layout() Layout  { return b.layout }
func (b *Buffer) Count() int      { return b.count }

// Size is the allocated size in bytes.
func (b *Buffer) Size() int { return b.count * b.layout.stride }

// View returns a non-owning reference to the buffer.
func (b *Buffer) View() BufferView {
	return NewBufferView(b.id, b.target, b.layout, b.count)
}

// bind makes the buffer current for data transfers. Index buffers belong
// to whichever vertex array is bound, so their storage is reached through
// the copy target instead.
func (b *Buffer) bind() (gl.Enum, Switcher) {
	core.Assert(b.id != gl.InvalidID, "buffer used after release")
	target := b.target
	if target == gl.ELEMENT_ARRAY_BUFFER {
		target = gl.COPY_WRITE_BUFFER
	}
	return target, b.ctx.BindBuffer(target, b.id)
}

// Reserve allocates room for count records without initializing them.
func (b *Buffer) Reserve(count int, usage gl.Enum) {
	target, s := b.bind()
	b.ctx.gl.BufferData(target, count*b.layout.stride, nil, usage)
	s.Restore()
	b.count, b.usage = count, usage
	b.ctx.CheckError("Buffer.Reserve")
}

// Create allocates the buffer and fills it with data, which must hold a
// whole number of records.
func (b *Buffer) Create(data []byte, usage gl.Enum) {
	core.Assert(len(data)%b.layout.stride == 0,
		"buffer data of %d bytes is not a multiple of the %d byte stride", len(data), b.layout.stride)
	target, s := b.bind()
	b.ctx.gl.BufferData(target, len(data), data, usage)
	s.Restore()
	b.count, b.usage = len(data)/b.layout.stride, usage
	b.ctx.CheckError("Buffer.Create")
}

// Upload encodes a slice of fixed-size values and creates the buffer from
// it. The encoded size of one value must equal the layout stride.
func (b *Buffer) Upload(values any, usage gl.Enum) {
	b.Create(b.encode(values), usage)
}

// Set overwrites records starting at record offset.
func (b *Buffer) Set(data []byte, offset int) {
	core.Assert(offset >= 0 && len(data)+offset*b.layout.stride <= b.Size(),
		"buffer write of %d bytes at record %d overflows %d bytes", len(data), offset, b.Size())
	target, s := b.bind()
	b.ctx.gl.BufferSubData(target, offset*b.layout.stride, data)
	s.Restore()
	b.ctx.CheckError("Buffer.Set")
}

// SetValues encodes values and writes them starting at record offset.
func (b *Buffer) SetValues(values any, offset int) {
	b.Set(b.encode(values), offset)
}

func (b *Buffer) encode(values any) []byte {
	v := reflect.ValueOf(values)
	core.Assert(v.Kind() == reflect.Slice, "buffer values must be a slice, got %T", values)
	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, values); err != nil {
		core.Assert(false, "cannot encode %T: %v", values, err)
	}
	if v.Len() > 0 {
		core.Assert(out.Len()/v.Len() == b.layout.stride,
			"%T encodes %d bytes per record, layout stride is %d", values, out.Len()/v.Len(), b.layout.stride)
	}
	return out.Bytes()
}

// MapWrite maps count records starting at offset and lets fill write them.
// Drivers may discard mapped contents (for example on a display mode
// change), in which case the range is mapped and filled again, so fill must
// produce the same bytes every time it runs.
func (b *Buffer) MapWrite(offset, count int, fill func(dst []byte)) {
	stride := b.layout.stride
	core.Assert(offset >= 0 && count > 0 && offset+count <= b.count,
		"mapping records [%d, %d) of a %d record buffer", offset, offset+count, b.count)
	target, s := b.bind()
	defer s.Restore()
	for attempt := 1; ; attempt++ {
		dst := b.ctx.gl.MapBufferRange(target, offset*stride, count*stride,
			gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_RANGE_BIT)
		core.Assert(dst != nil, "MapBufferRange failed for buffer %d", b.id)
		fill(dst)
		if b.ctx.gl.UnmapBuffer(target) {
			break
		}
		core.LogWarn("buffer %d: %v, refilling (attempt %d)", b.id, gl.ErrContentLost, attempt)
	}
	b.ctx.CheckError("Buffer.MapWrite")
}

// Read copies count records starting at offset back from the GPU.
func (b *Buffer) Read(offset, count int) []byte {
	stride := b.layout.stride
	core.Assert(offset >= 0 && offset+count <= b.count,
		"reading records [%d, %d) of a %d record buffer", offset, offset+count, b.count)
	out := make([]byte, count*stride)
	target, s := b.bind()
	b.ctx.gl.GetBufferSubData(target, offset*stride, out)
	s.Restore()
	b.ctx.CheckError("Buffer.Read")
	return out
}

// Release frees the GL buffer. Views of it become dangling.
func (b *Buffer) Release() {
	if b.id == gl.InvalidID {
		return
	}
	b.ctx.gl.DeleteBuffer(b.id)
	for target, id := range b.ctx.buffers {
		if id == b.id {
			b.ctx.buffers[target] = 0
		}
	}
	b.id, b.count = gl.InvalidID, 0
}
