package gltest

import (
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type buffer struct {
	data   []byte
	usage  gl.Enum
	mapped bool
	// staged mapping, copied back on a successful unmap
	mapOffset int
	mapData   []byte
}

func (d *Driver) GenBuffer() uint32 {
	id := d.genID()
	d.buffers[id] = &buffer{}
	return id
}

func (d *Driver) DeleteBuffer(id uint32) {
	delete(d.buffers, id)
	for t, b := range d.bufferBindings {
		if b == id {
			d.bufferBindings[t] = 0
		}
	}
	for _, vao := range d.vertexArrays {
		if vao.elements == id {
			vao.elements = 0
		}
	}
}

func (d *Driver) BindBuffer(target gl.Enum, id uint32) {
	if id != 0 && d.buffers[id] == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	if target == gl.ELEMENT_ARRAY_BUFFER {
		d.vertexArrays[d.currentVAO].elements = id
		return
	}
	d.bufferBindings[target] = id
}

// BoundBuffer returns the buffer bound to a non indexed target.
func (d *Driver) BoundBuffer(target gl.Enum) uint32 {
	if target == gl.ELEMENT_ARRAY_BUFFER {
		return d.vertexArrays[d.currentVAO].elements
	}
	return d.bufferBindings[target]
}

func (d *Driver) BindBufferBase(target gl.Enum, index, id uint32) {
	if id != 0 && d.buffers[id] == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	if d.indexed[target] == nil {
		d.indexed[target] = map[uint32]uint32{}
	}
	d.indexed[target][index] = id
	d.bufferBindings[target] = id
}

// IndexedBuffer returns the buffer bound to an indexed binding point.
func (d *Driver) IndexedBuffer(target gl.Enum, index uint32) uint32 {
	return d.indexed[target][index]
}

func (d *Driver) bound(target gl.Enum) *buffer {
	var id uint32
	if target == gl.ELEMENT_ARRAY_BUFFER {
		id = d.vertexArrays[d.currentVAO].elements
	} else {
		id = d.bufferBindings[target]
	}
	b := d.buffers[id]
	if b == nil {
		d.setError(gl.INVALID_OPERATION)
	}
	return b
}

func (d *Driver) BufferData(target gl.Enum, size int, data []byte, usage gl.Enum) {
	b := d.bound(target)
	if b == nil {
		return
	}
	if size < 0 || (data != nil && len(data) < size) {
		d.setError(gl.INVALID_VALUE)
		return
	}
	b.data = make([]byte, size)
	copy(b.data, data)
	b.usage = usage
	b.mapped = false
}

func (d *Driver) BufferSubData(target gl.Enum, offset int, data []byte) {
	b := d.bound(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		d.setError(gl.INVALID_VALUE)
		return
	}
	copy(b.data[offset:], data)
}

func (d *Driver) GetBufferSubData(target gl.Enum, offset int, data []byte) {
	b := d.bound(target)
	if b == nil {
		return
	}
	if offset < 0 || offset+len(data) > len(b.data) {
		d.setError(gl.INVALID_VALUE)
		return
	}
	copy(data, b.data[offset:])
}

func (d *Driver) MapBufferRange(target gl.Enum, offset, length int, access gl.Enum) []byte {
	b := d.bound(target)
	if b == nil {
		return nil
	}
	if b.mapped || offset < 0 || length <= 0 || offset+length > len(b.data) {
		d.setError(gl.INVALID_OPERATION)
		return nil
	}
	b.mapped = true
	b.mapOffset = offset
	b.mapData = make([]byte, length)
	if access&gl.MAP_INVALIDATE_RANGE_BIT == 0 && access&gl.MAP_INVALIDATE_BUFFER_BIT == 0 {
		copy(b.mapData, b.data[offset:offset+length])
	}
	return b.mapData
}

func (d *Driver) UnmapBuffer(target gl.Enum) bool {
	d.UnmapCalls++
	b := d.bound(target)
	if b == nil || !b.mapped {
		d.setError(gl.INVALID_OPERATION)
		return false
	}
	b.mapped = false
	staged := b.mapData
	b.mapData = nil
	if d.FailUnmaps > 0 {
		d.FailUnmaps--
		// the store is left undefined
		for i := range b.data {
			b.data[i] = 0xCD
		}
		return false
	}
	copy(b.data[b.mapOffset:], staged)
	return true
}

// BufferBytes returns a copy of a buffer's storage.
func (d *Driver) BufferBytes(id uint32) []byte {
	b := d.buffers[id]
	if b == nil {
		return nil
	}
	return append([]byte(nil), b.data...)
}

// BufferUsage returns the usage hint a buffer was last allocated with.
func (d *Driver) BufferUsage(id uint32) gl.Enum {
	if b := d.buffers[id]; b != nil {
		return b.usage
	}
	return 0
}

// BufferExists reports whether id names a live buffer.
func (d *Driver) BufferExists(id uint32) bool {
	return d.buffers[id] != nil
}
