// Package glcore implements gl.Functions on top of the go-gl OpenGL 3.3
// core profile bindings. It requires cgo and a current GL context.
package glcore

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	glf "github.com/spaghettifunk/gin/engine/renderer/gl"
)

type Functions struct{}

var _ glf.Functions = (*Functions)(nil)

// New loads the GL entry points for the context current on the calling
// thread.
func New() (*Functions, error) {
	if err := gl.Init(); err != nil {
		return nil, err
	}
	return &Functions{}, nil
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}

func cstr(s string) *uint8 {
	return gl.Str(s + "\x00")
}

func (f *Functions) GetError() glf.Enum { return glf.Enum(gl.GetError()) }

func (f *Functions) GetInteger(pname glf.Enum) int32 {
	var v int32
	gl.GetIntegerv(uint32(pname), &v)
	return v
}

func (f *Functions) GetString(pname glf.Enum) string {
	return gl.GoStr(gl.GetString(uint32(pname)))
}

func (f *Functions) Enable(c glf.Enum)             { gl.Enable(uint32(c)) }
func (f *Functions) Disable(c glf.Enum)            { gl.Disable(uint32(c)) }
func (f *Functions) IsEnabled(c glf.Enum) bool     { return gl.IsEnabled(uint32(c)) }
func (f *Functions) ColorMask(r, g, b, a bool)     { gl.ColorMask(r, g, b, a) }
func (f *Functions) DepthMask(flag bool)           { gl.DepthMask(flag) }
func (f *Functions) DepthFunc(fn glf.Enum)         { gl.DepthFunc(uint32(fn)) }
func (f *Functions) BlendFunc(s, d glf.Enum)       { gl.BlendFunc(uint32(s), uint32(d)) }
func (f *Functions) Viewport(x, y, w, h int32)     { gl.Viewport(x, y, w, h) }
func (f *Functions) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }
func (f *Functions) Clear(mask glf.Enum)           { gl.Clear(uint32(mask)) }

func (f *Functions) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (f *Functions) DeleteBuffer(id uint32) { gl.DeleteBuffers(1, &id) }

func (f *Functions) BindBuffer(target glf.Enum, id uint32) { gl.BindBuffer(uint32(target), id) }

func (f *Functions) BindBufferBase(target glf.Enum, index, id uint32) {
	gl.BindBufferBase(uint32(target), index, id)
}

func (f *Functions) BufferData(target glf.Enum, size int, data []byte, usage glf.Enum) {
	gl.BufferData(uint32(target), size, ptr(data), uint32(usage))
}

func (f *Functions) BufferSubData(target glf.Enum, offset int, data []byte) {
	gl.BufferSubData(uint32(target), offset, len(data), ptr(data))
}

func (f *Functions) GetBufferSubData(target glf.Enum, offset int, data []byte) {
	gl.GetBufferSubData(uint32(target), offset, len(data), ptr(data))
}

func (f *Functions) MapBufferRange(target glf.Enum, offset, length int, access glf.Enum) []byte {
	p := gl.MapBufferRange(uint32(target), offset, length, uint32(access))
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), length)
}

func (f *Functions) UnmapBuffer(target glf.Enum) bool { return gl.UnmapBuffer(uint32(target)) }

func (f *Functions) GenTexture() uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	return id
}

func (f *Functions) DeleteTexture(id uint32)                { gl.DeleteTextures(1, &id) }
func (f *Functions) ActiveTexture(unit glf.Enum)            { gl.ActiveTexture(uint32(unit)) }
func (f *Functions) BindTexture(target glf.Enum, id uint32) { gl.BindTexture(uint32(target), id) }

func (f *Functions) TexParameteri(target, pname glf.Enum, param int32) {
	gl.TexParameteri(uint32(target), uint32(pname), param)
}

func (f *Functions) PixelStorei(pname glf.Enum, param int32) { gl.PixelStorei(uint32(pname), param) }

func (f *Functions) TexImage1D(target glf.Enum, level int32, internalFormat glf.Enum, width int32, format, ty glf.Enum, data []byte) {
	gl.TexImage1D(uint32(target), level, int32(internalFormat), width, 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexImage2D(target glf.Enum, level int32, internalFormat glf.Enum, width, height int32, format, ty glf.Enum, data []byte) {
	gl.TexImage2D(uint32(target), level, int32(internalFormat), width, height, 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexImage3D(target glf.Enum, level int32, internalFormat glf.Enum, width, height, depth int32, format, ty glf.Enum, data []byte) {
	gl.TexImage3D(uint32(target), level, int32(internalFormat), width, height, depth, 0, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexSubImage1D(target glf.Enum, level, x, width int32, format, ty glf.Enum, data []byte) {
	gl.TexSubImage1D(uint32(target), level, x, width, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexSubImage2D(target glf.Enum, level, x, y, width, height int32, format, ty glf.Enum, data []byte) {
	gl.TexSubImage2D(uint32(target), level, x, y, width, height, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) TexSubImage3D(target glf.Enum, level, x, y, z, width, height, depth int32, format, ty glf.Enum, data []byte) {
	gl.TexSubImage3D(uint32(target), level, x, y, z, width, height, depth, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) CompressedTexImage2D(target glf.Enum, level int32, internalFormat glf.Enum, width, height int32, data []byte) {
	gl.CompressedTexImage2D(uint32(target), level, uint32(internalFormat), width, height, 0, int32(len(data)), ptr(data))
}

func (f *Functions) CompressedTexImage3D(target glf.Enum, level int32, internalFormat glf.Enum, width, height, depth int32, data []byte) {
	gl.CompressedTexImage3D(uint32(target), level, uint32(internalFormat), width, height, depth, 0, int32(len(data)), ptr(data))
}

func (f *Functions) GetTexImage(target glf.Enum, level int32, format, ty glf.Enum, data []byte) {
	gl.GetTexImage(uint32(target), level, uint32(format), uint32(ty), ptr(data))
}

func (f *Functions) GetTexLevelParameteri(target glf.Enum, level int32, pname glf.Enum) int32 {
	var v int32
	gl.GetTexLevelParameteriv(uint32(target), level, uint32(pname), &v)
	return v
}

func (f *Functions) GenerateMipmap(target glf.Enum) { gl.GenerateMipmap(uint32(target)) }

func (f *Functions) GenSampler() uint32 {
	var id uint32
	gl.GenSamplers(1, &id)
	return id
}

func (f *Functions) DeleteSampler(id uint32)     { gl.DeleteSamplers(1, &id) }
func (f *Functions) BindSampler(unit, id uint32) { gl.BindSampler(unit, id) }

func (f *Functions) SamplerParameteri(id uint32, pname glf.Enum, param int32) {
	gl.SamplerParameteri(id, uint32(pname), param)
}

func (f *Functions) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (f *Functions) DeleteVertexArray(id uint32)           { gl.DeleteVertexArrays(1, &id) }
func (f *Functions) BindVertexArray(id uint32)             { gl.BindVertexArray(id) }
func (f *Functions) EnableVertexAttribArray(index uint32)  { gl.EnableVertexAttribArray(index) }
func (f *Functions) DisableVertexAttribArray(index uint32) { gl.DisableVertexAttribArray(index) }

func (f *Functions) VertexAttribPointer(index uint32, size int32, ty glf.Enum, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(ty), normalized, stride, gl.PtrOffset(offset))
}

func (f *Functions) VertexAttribIPointer(index uint32, size int32, ty glf.Enum, stride int32, offset int) {
	gl.VertexAttribIPointer(index, size, uint32(ty), stride, gl.PtrOffset(offset))
}

func (f *Functions) GetVertexAttribi(index uint32, pname glf.Enum) int32 {
	var v int32
	gl.GetVertexAttribiv(index, uint32(pname), &v)
	return v
}

func (f *Functions) DrawArrays(mode glf.Enum, first, count int32) {
	gl.DrawArrays(uint32(mode), first, count)
}

func (f *Functions) DrawElements(mode glf.Enum, count int32, ty glf.Enum, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(ty), gl.PtrOffset(offset))
}

func (f *Functions) CreateShader(ty glf.Enum) uint32 { return gl.CreateShader(uint32(ty)) }

func (f *Functions) ShaderSource(id uint32, src string) {
	csrc, free := gl.Strs(src + "\x00")
	gl.ShaderSource(id, 1, csrc, nil)
	free()
}

func (f *Functions) CompileShader(id uint32) { gl.CompileShader(id) }

func (f *Functions) GetShaderi(id uint32, pname glf.Enum) int32 {
	var v int32
	gl.GetShaderiv(id, uint32(pname), &v)
	return v
}

func (f *Functions) GetShaderInfoLog(id uint32) string {
	n := f.GetShaderi(id, glf.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(n+1))
	gl.GetShaderInfoLog(id, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (f *Functions) DeleteShader(id uint32) { gl.DeleteShader(id) }

func (f *Functions) CreateProgram() uint32               { return gl.CreateProgram() }
func (f *Functions) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }
func (f *Functions) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (f *Functions) BindAttribLocation(program, index uint32, name string) {
	gl.BindAttribLocation(program, index, cstr(name))
}

func (f *Functions) TransformFeedbackVaryings(program uint32, varyings []string, mode glf.Enum) {
	terminated := make([]string, len(varyings))
	for i, v := range varyings {
		terminated[i] = v + "\x00"
	}
	cvaryings, free := gl.Strs(terminated...)
	gl.TransformFeedbackVaryings(program, int32(len(varyings)), cvaryings, uint32(mode))
	free()
}

func (f *Functions) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (f *Functions) GetProgrami(program uint32, pname glf.Enum) int32 {
	var v int32
	gl.GetProgramiv(program, uint32(pname), &v)
	return v
}

func (f *Functions) GetProgramInfoLog(program uint32) string {
	n := f.GetProgrami(program, glf.INFO_LOG_LENGTH)
	if n <= 0 {
		return ""
	}
	buf := strings.Repeat("\x00", int(n+1))
	gl.GetProgramInfoLog(program, n, nil, gl.Str(buf))
	return strings.TrimRight(buf, "\x00")
}

func (f *Functions) UseProgram(program uint32)    { gl.UseProgram(program) }
func (f *Functions) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (f *Functions) GetActiveUniform(program, index uint32) (string, int32, glf.Enum) {
	max := f.GetProgrami(program, glf.ACTIVE_UNIFORM_MAX_LENGTH)
	buf := make([]uint8, max+1)
	var length, size int32
	var ty uint32
	gl.GetActiveUniform(program, index, max+1, &length, &size, &ty, &buf[0])
	return string(buf[:length]), size, glf.Enum(ty)
}

func (f *Functions) GetActiveAttrib(program, index uint32) (string, int32, glf.Enum) {
	max := f.GetProgrami(program, glf.ACTIVE_ATTRIBUTE_MAX_LENGTH)
	buf := make([]uint8, max+1)
	var length, size int32
	var ty uint32
	gl.GetActiveAttrib(program, index, max+1, &length, &size, &ty, &buf[0])
	return string(buf[:length]), size, glf.Enum(ty)
}

func (f *Functions) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, cstr(name))
}

func (f *Functions) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, cstr(name))
}

func (f *Functions) GetActiveUniformsi(program uint32, indices []uint32, pname glf.Enum) []int32 {
	out := make([]int32, len(indices))
	if len(indices) == 0 {
		return out
	}
	gl.GetActiveUniformsiv(program, int32(len(indices)), &indices[0], uint32(pname), &out[0])
	return out
}

func (f *Functions) GetUniformBlockIndex(program uint32, name string) uint32 {
	return gl.GetUniformBlockIndex(program, cstr(name))
}

func (f *Functions) GetActiveUniformBlocki(program, block uint32, pname glf.Enum) int32 {
	var v int32
	gl.GetActiveUniformBlockiv(program, block, uint32(pname), &v)
	return v
}

func (f *Functions) GetActiveUniformBlockIndices(program, block uint32) []uint32 {
	n := f.GetActiveUniformBlocki(program, block, glf.UNIFORM_BLOCK_ACTIVE_UNIFORMS)
	if n <= 0 {
		return nil
	}
	raw := make([]int32, n)
	gl.GetActiveUniformBlockiv(program, block, uint32(glf.UNIFORM_BLOCK_ACTIVE_UNIFORM_INDICES), &raw[0])
	out := make([]uint32, n)
	for i, v := range raw {
		out[i] = uint32(v)
	}
	return out
}

func (f *Functions) UniformBlockBinding(program, block, binding uint32) {
	gl.UniformBlockBinding(program, block, binding)
}

func (f *Functions) Uniformfv(location int32, components int, v []float32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / components)
	switch components {
	case 1:
		gl.Uniform1fv(location, n, &v[0])
	case 2:
		gl.Uniform2fv(location, n, &v[0])
	case 3:
		gl.Uniform3fv(location, n, &v[0])
	case 4:
		gl.Uniform4fv(location, n, &v[0])
	}
}

func (f *Functions) Uniformiv(location int32, components int, v []int32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / components)
	switch components {
	case 1:
		gl.Uniform1iv(location, n, &v[0])
	case 2:
		gl.Uniform2iv(location, n, &v[0])
	case 3:
		gl.Uniform3iv(location, n, &v[0])
	case 4:
		gl.Uniform4iv(location, n, &v[0])
	}
}

func (f *Functions) Uniformuiv(location int32, components int, v []uint32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / components)
	switch components {
	case 1:
		gl.Uniform1uiv(location, n, &v[0])
	case 2:
		gl.Uniform2uiv(location, n, &v[0])
	case 3:
		gl.Uniform3uiv(location, n, &v[0])
	case 4:
		gl.Uniform4uiv(location, n, &v[0])
	}
}

func (f *Functions) UniformMatrixfv(location int32, cols, rows int, v []float32) {
	if len(v) == 0 {
		return
	}
	n := int32(len(v) / (cols * rows))
	switch {
	case cols == 2 && rows == 2:
		gl.UniformMatrix2fv(location, n, false, &v[0])
	case cols == 3 && rows == 3:
		gl.UniformMatrix3fv(location, n, false, &v[0])
	case cols == 4 && rows == 4:
		gl.UniformMatrix4fv(location, n, false, &v[0])
	case cols == 2 && rows == 3:
		gl.UniformMatrix2x3fv(location, n, false, &v[0])
	case cols == 3 && rows == 2:
		gl.UniformMatrix3x2fv(location, n, false, &v[0])
	case cols == 2 && rows == 4:
		gl.UniformMatrix2x4fv(location, n, false, &v[0])
	case cols == 4 && rows == 2:
		gl.UniformMatrix4x2fv(location, n, false, &v[0])
	case cols == 3 && rows == 4:
		gl.UniformMatrix3x4fv(location, n, false, &v[0])
	case cols == 4 && rows == 3:
		gl.UniformMatrix4x3fv(location, n, false, &v[0])
	}
}

func (f *Functions) BeginTransformFeedback(mode glf.Enum) { gl.BeginTransformFeedback(uint32(mode)) }
func (f *Functions) EndTransformFeedback()                { gl.EndTransformFeedback() }

func (f *Functions) GenFramebuffer() uint32 {
	var id uint32
	gl.GenFramebuffers(1, &id)
	return id
}

func (f *Functions) DeleteFramebuffer(id uint32) { gl.DeleteFramebuffers(1, &id) }

func (f *Functions) BindFramebuffer(target glf.Enum, id uint32) {
	gl.BindFramebuffer(uint32(target), id)
}

func (f *Functions) FramebufferTexture2D(target, attachment, texTarget glf.Enum, texture uint32, level int32) {
	gl.FramebufferTexture2D(uint32(target), uint32(attachment), uint32(texTarget), texture, level)
}

func (f *Functions) FramebufferTextureLayer(target, attachment glf.Enum, texture uint32, level, layer int32) {
	gl.FramebufferTextureLayer(uint32(target), uint32(attachment), texture, level, layer)
}

func (f *Functions) CheckFramebufferStatus(target glf.Enum) glf.Enum {
	return glf.Enum(gl.CheckFramebufferStatus(uint32(target)))
}
