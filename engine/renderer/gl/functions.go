package gl

import "errors"

// ErrContentLost is reported when the driver discards the contents of a
// mapped buffer before it could be unmapped.
var ErrContentLost = errors.New("buffer content lost")

// Functions is the GL entry point table used by the renderer.
//
// Pixel transfer calls take a byte slice for client memory. When a pixel
// pack or unpack buffer is bound, data must be nil and the transfer reads
// from (or writes to) the bound buffer starting at byte 0.
type Functions interface {
	GetError() Enum
	GetInteger(pname Enum) int32
	GetString(pname Enum) string

	Enable(cap Enum)
	Disable(cap Enum)
	IsEnabled(cap Enum) bool
	ColorMask(r, g, b, a bool)
	DepthMask(flag bool)
	DepthFunc(fn Enum)
	BlendFunc(sfactor, dfactor Enum)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask Enum)

	GenBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target Enum, id uint32)
	BindBufferBase(target Enum, index, id uint32)
	BufferData(target Enum, size int, data []byte, usage Enum)
	BufferSubData(target Enum, offset int, data []byte)
	GetBufferSubData(target Enum, offset int, data []byte)
	MapBufferRange(target Enum, offset, length int, access Enum) []byte
	UnmapBuffer(target Enum) bool

	GenTexture() uint32
	DeleteTexture(id uint32)
	ActiveTexture(unit Enum)
	BindTexture(target Enum, id uint32)
	TexParameteri(target, pname Enum, param int32)
	PixelStorei(pname Enum, param int32)
	TexImage1D(target Enum, level int32, internalFormat Enum, width int32, format, ty Enum, data []byte)
	TexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, format, ty Enum, data []byte)
	TexImage3D(target Enum, level int32, internalFormat Enum, width, height, depth int32, format, ty Enum, data []byte)
	TexSubImage1D(target Enum, level, x, width int32, format, ty Enum, data []byte)
	TexSubImage2D(target Enum, level, x, y, width, height int32, format, ty Enum, data []byte)
	TexSubImage3D(target Enum, level, x, y, z, width, height, depth int32, format, ty Enum, data []byte)
	CompressedTexImage2D(target Enum, level int32, internalFormat Enum, width, height int32, data []byte)
	CompressedTexImage3D(target Enum, level int32, internalFormat Enum, width, height, depth int32, data []byte)
	GetTexImage(target Enum, level int32, format, ty Enum, data []byte)
	GetTexLevelParameteri(target Enum, level int32, pname Enum) int32
	GenerateMipmap(target Enum)

	GenSampler() uint32
	DeleteSampler(id uint32)
	BindSampler(unit, id uint32)
	SamplerParameteri(id uint32, pname Enum, param int32)

	GenVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)
	EnableVertexAttribArray(index uint32)
	DisableVertexAttribArray(index uint32)
	VertexAttribPointer(index uint32, size int32, ty Enum, normalized bool, stride int32, offset int)
	VertexAttribIPointer(index uint32, size int32, ty Enum, stride int32, offset int)
	GetVertexAttribi(index uint32, pname Enum) int32
	DrawArrays(mode Enum, first, count int32)
	DrawElements(mode Enum, count int32, ty Enum, offset int)

	CreateShader(ty Enum) uint32
	ShaderSource(id uint32, src string)
	CompileShader(id uint32)
	GetShaderi(id uint32, pname Enum) int32
	GetShaderInfoLog(id uint32) string
	DeleteShader(id uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	BindAttribLocation(program, index uint32, name string)
	TransformFeedbackVaryings(program uint32, varyings []string, mode Enum)
	LinkProgram(program uint32)
	GetProgrami(program uint32, pname Enum) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)
	GetActiveUniform(program, index uint32) (name string, size int32, ty Enum)
	GetActiveAttrib(program, index uint32) (name string, size int32, ty Enum)
	GetUniformLocation(program uint32, name string) int32
	GetAttribLocation(program uint32, name string) int32
	GetActiveUniformsi(program uint32, indices []uint32, pname Enum) []int32
	GetUniformBlockIndex(program uint32, name string) uint32
	GetActiveUniformBlocki(program, block uint32, pname Enum) int32
	GetActiveUniformBlockIndices(program, block uint32) []uint32
	UniformBlockBinding(program, block, binding uint32)

	// Uniform setters take the component count of one element; the element
	// count is derived from the slice length.
	Uniformfv(location int32, components int, v []float32)
	Uniformiv(location int32, components int, v []int32)
	Uniformuiv(location int32, components int, v []uint32)
	UniformMatrixfv(location int32, cols, rows int, v []float32)

	BeginTransformFeedback(mode Enum)
	EndTransformFeedback()

	GenFramebuffer() uint32
	DeleteFramebuffer(id uint32)
	BindFramebuffer(target Enum, id uint32)
	FramebufferTexture2D(target, attachment, texTarget Enum, texture uint32, level int32)
	FramebufferTextureLayer(target, attachment Enum, texture uint32, level, layer int32)
	CheckFramebufferStatus(target Enum) Enum
}
