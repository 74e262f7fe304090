package gltest

import (
	"encoding/binary"

	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type attrib struct {
	enabled    bool
	size       int32
	ty         gl.Enum
	normalized bool
	integer    bool
	stride     int32
	offset     int
	buffer     uint32
}

type vertexArray struct {
	attribs  map[uint32]*attrib
	elements uint32
}

func newVertexArray() *vertexArray {
	return &vertexArray{attribs: map[uint32]*attrib{}}
}

type framebuffer struct {
	attachments map[gl.Enum]uint32
}

func (d *Driver) GenVertexArray() uint32 {
	id := d.genID()
	d.vertexArrays[id] = newVertexArray()
	return id
}

func (d *Driver) DeleteVertexArray(id uint32) {
	if id == 0 {
		return
	}
	delete(d.vertexArrays, id)
	if d.currentVAO == id {
		d.currentVAO = 0
	}
}

func (d *Driver) BindVertexArray(id uint32) {
	if d.vertexArrays[id] == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.currentVAO = id
}

// BoundVertexArray returns the current vertex array object.
func (d *Driver) BoundVertexArray() uint32 { return d.currentVAO }

func (d *Driver) attrib(index uint32) *attrib {
	if int32(index) >= d.MaxVertexAttribs {
		d.setError(gl.INVALID_VALUE)
		return nil
	}
	vao := d.vertexArrays[d.currentVAO]
	a := vao.attribs[index]
	if a == nil {
		a = &attrib{size: 4, ty: gl.FLOAT}
		vao.attribs[index] = a
	}
	return a
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	if a := d.attrib(index); a != nil {
		a.enabled = true
	}
}

func (d *Driver) DisableVertexAttribArray(index uint32) {
	if a := d.attrib(index); a != nil {
		a.enabled = false
	}
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, ty gl.Enum, normalized bool, stride int32, offset int) {
	d.vertexAttribPointer(index, size, ty, normalized, false, stride, offset)
}

func (d *Driver) VertexAttribIPointer(index uint32, size int32, ty gl.Enum, stride int32, offset int) {
	d.vertexAttribPointer(index, size, ty, false, true, stride, offset)
}

func (d *Driver) vertexAttribPointer(index uint32, size int32, ty gl.Enum, normalized, integer bool, stride int32, offset int) {
	if size < 1 || size > 4 || stride < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	buf := d.bufferBindings[gl.ARRAY_BUFFER]
	if buf == 0 && d.currentVAO != 0 {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	a := d.attrib(index)
	if a == nil {
		return
	}
	a.size = size
	a.ty = ty
	a.normalized = normalized
	a.integer = integer
	a.stride = stride
	a.offset = offset
	a.buffer = buf
}

func (d *Driver) GetVertexAttribi(index uint32, pname gl.Enum) int32 {
	a := d.attrib(index)
	if a == nil {
		return 0
	}
	switch pname {
	case gl.VERTEX_ATTRIB_ARRAY_ENABLED:
		return boolInt(a.enabled)
	case gl.VERTEX_ATTRIB_ARRAY_SIZE:
		return a.size
	case gl.VERTEX_ATTRIB_ARRAY_STRIDE:
		return a.stride
	case gl.VERTEX_ATTRIB_ARRAY_TYPE:
		return int32(a.ty)
	case gl.VERTEX_ATTRIB_ARRAY_NORMALIZED:
		return boolInt(a.normalized)
	case gl.VERTEX_ATTRIB_ARRAY_INTEGER:
		return boolInt(a.integer)
	}
	d.setError(gl.INVALID_ENUM)
	return 0
}

// AttribPointer describes the pointer set for an attribute of a vertex
// array.
type AttribPointer struct {
	Enabled    bool
	Size       int32
	Type       gl.Enum
	Normalized bool
	Integer    bool
	Stride     int32
	Offset     int
	Buffer     uint32
}

// VertexAttrib returns the attribute state of vertex array vao.
func (d *Driver) VertexAttrib(vao, index uint32) (AttribPointer, bool) {
	v := d.vertexArrays[vao]
	if v == nil || v.attribs[index] == nil {
		return AttribPointer{}, false
	}
	a := v.attribs[index]
	return AttribPointer{
		Enabled:    a.enabled,
		Size:       a.size,
		Type:       a.ty,
		Normalized: a.normalized,
		Integer:    a.integer,
		Stride:     a.stride,
		Offset:     a.offset,
		Buffer:     a.buffer,
	}, true
}

// ElementBuffer returns the index buffer recorded in vertex array vao.
func (d *Driver) ElementBuffer(vao uint32) uint32 {
	if v := d.vertexArrays[vao]; v != nil {
		return v.elements
	}
	return 0
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (d *Driver) canDraw() bool {
	p := d.programs[d.current]
	if p == nil || !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return false
	}
	if d.currentVAO == 0 {
		d.setError(gl.INVALID_OPERATION)
		return false
	}
	return true
}

func (d *Driver) DrawArrays(mode gl.Enum, first, count int32) {
	if first < 0 || count < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if !d.canDraw() {
		return
	}
	d.recordDraw(mode, first, count, false)
	if d.feedbackActive {
		d.captureFeedback(first, count)
	}
}

func (d *Driver) DrawElements(mode gl.Enum, count int32, ty gl.Enum, offset int) {
	if count < 0 {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if !d.canDraw() {
		return
	}
	vao := d.vertexArrays[d.currentVAO]
	eb := d.buffers[vao.elements]
	if eb == nil || d.feedbackActive {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	if size := gl.DataTypeSize(ty); offset+int(count)*size > len(eb.data) {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.recordDraw(mode, int32(offset/4), count, true)
}

// ElementIndices decodes the 32 bit indices a recorded indexed draw used.
func (d *Driver) ElementIndices(call DrawCall) []uint32 {
	vao := d.vertexArrays[call.VertexArray]
	if vao == nil || !call.Indexed {
		return nil
	}
	data := d.buffers[vao.elements].data
	out := make([]uint32, call.Count)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(data[(int(call.First)+i)*4:])
	}
	return out
}

func (d *Driver) BeginTransformFeedback(mode gl.Enum) {
	p := d.programs[d.current]
	if d.feedbackActive || p == nil || len(p.varyings) == 0 {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.feedbackActive = true
	d.feedbackMode = mode
}

func (d *Driver) EndTransformFeedback() {
	if !d.feedbackActive {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	d.feedbackActive = false
}

// captureFeedback models a pass-through vertex stage: the vertex records
// sourced by the lowest enabled attribute are written to feedback binding 0.
func (d *Driver) captureFeedback(first, count int32) {
	vao := d.vertexArrays[d.currentVAO]
	var src *attrib
	var lowest uint32
	for i, a := range vao.attribs {
		if a.enabled && (src == nil || i < lowest) {
			src, lowest = a, i
		}
	}
	dst := d.buffers[d.indexed[gl.TRANSFORM_FEEDBACK_BUFFER][0]]
	if src == nil || dst == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	in := d.buffers[src.buffer]
	stride := int(src.stride)
	begin, end := int(first)*stride, int(first+count)*stride
	if in == nil || end > len(in.data) || int(count)*stride > len(dst.data) {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	copy(dst.data, in.data[begin:end])
}

func (d *Driver) GenFramebuffer() uint32 {
	id := d.genID()
	d.framebuffers[id] = &framebuffer{attachments: map[gl.Enum]uint32{}}
	return id
}

func (d *Driver) DeleteFramebuffer(id uint32) {
	delete(d.framebuffers, id)
	if d.drawFBO == id {
		d.drawFBO = 0
	}
	if d.readFBO == id {
		d.readFBO = 0
	}
}

func (d *Driver) BindFramebuffer(target gl.Enum, id uint32) {
	if id != 0 && d.framebuffers[id] == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	switch target {
	case gl.FRAMEBUFFER:
		d.drawFBO, d.readFBO = id, id
	case gl.DRAW_FRAMEBUFFER:
		d.drawFBO = id
	case gl.READ_FRAMEBUFFER:
		d.readFBO = id
	default:
		d.setError(gl.INVALID_ENUM)
	}
}

// BoundFramebuffers returns the draw and read framebuffers.
func (d *Driver) BoundFramebuffers() (draw, read uint32) {
	return d.drawFBO, d.readFBO
}

func (d *Driver) targetFramebuffer(target gl.Enum) *framebuffer {
	id := d.drawFBO
	if target == gl.READ_FRAMEBUFFER {
		id = d.readFBO
	}
	fb := d.framebuffers[id]
	if fb == nil {
		d.setError(gl.INVALID_OPERATION)
	}
	return fb
}

func (d *Driver) FramebufferTexture2D(target, attachment, texTarget gl.Enum, texture uint32, level int32) {
	fb := d.targetFramebuffer(target)
	if fb == nil {
		return
	}
	if texture != 0 && d.textures[texture] == nil {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	fb.attachments[attachment] = texture
}

func (d *Driver) FramebufferTextureLayer(target, attachment gl.Enum, texture uint32, level, layer int32) {
	d.FramebufferTexture2D(target, attachment, 0, texture, level)
}

func (d *Driver) CheckFramebufferStatus(target gl.Enum) gl.Enum {
	fb := d.targetFramebuffer(target)
	if fb == nil {
		return 0
	}
	attached := 0
	for _, tex := range fb.attachments {
		if tex != 0 {
			attached++
		}
	}
	if attached == 0 {
		return gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT
	}
	return gl.FRAMEBUFFER_COMPLETE
}

// FramebufferAttachment returns the texture attached to a framebuffer.
func (d *Driver) FramebufferAttachment(fbo uint32, attachment gl.Enum) uint32 {
	if fb := d.framebuffers[fbo]; fb != nil {
		return fb.attachments[attachment]
	}
	return 0
}
