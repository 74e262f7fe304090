// Package gl declares the subset of OpenGL 3.3 core used by the renderer
// as a function table, so the renderer can run on a real driver or on an
// in-memory one.
package gl

type Enum uint32

// InvalidID is the zero object name. No GL object is ever created with it.
const InvalidID uint32 = 0

// InvalidIndex is returned by index queries for names that do not exist.
const InvalidIndex uint32 = 0xFFFFFFFF

const (
	NO_ERROR                      Enum = 0
	INVALID_ENUM                  Enum = 0x0500
	INVALID_VALUE                 Enum = 0x0501
	INVALID_OPERATION             Enum = 0x0502
	OUT_OF_MEMORY                 Enum = 0x0505
	INVALID_FRAMEBUFFER_OPERATION Enum = 0x0506

	FALSE Enum = 0
	TRUE  Enum = 1

	VENDOR                   Enum = 0x1F00
	RENDERER                 Enum = 0x1F01
	VERSION                  Enum = 0x1F02
	SHADING_LANGUAGE_VERSION Enum = 0x8B8C

	// Draw modes.
	POINTS         Enum = 0x0000
	LINES          Enum = 0x0001
	LINE_STRIP     Enum = 0x0003
	TRIANGLES      Enum = 0x0004
	TRIANGLE_STRIP Enum = 0x0005
	TRIANGLE_FAN   Enum = 0x0006

	// Capabilities.
	BLEND              Enum = 0x0BE2
	CULL_FACE          Enum = 0x0B44
	DEPTH_TEST         Enum = 0x0B71
	SCISSOR_TEST       Enum = 0x0C11
	RASTERIZER_DISCARD Enum = 0x8C89
	PROGRAM_POINT_SIZE Enum = 0x8642

	// Blend factors.
	ZERO                Enum = 0
	ONE                 Enum = 1
	SRC_ALPHA           Enum = 0x0302
	ONE_MINUS_SRC_ALPHA Enum = 0x0303

	// Depth functions.
	NEVER    Enum = 0x0200
	LESS     Enum = 0x0201
	EQUAL    Enum = 0x0202
	LEQUAL   Enum = 0x0203
	GREATER  Enum = 0x0204
	NOTEQUAL Enum = 0x0205
	GEQUAL   Enum = 0x0206
	ALWAYS   Enum = 0x0207

	COLOR_BUFFER_BIT   Enum = 0x4000
	DEPTH_BUFFER_BIT   Enum = 0x0100
	STENCIL_BUFFER_BIT Enum = 0x0400

	// Buffer targets.
	ARRAY_BUFFER              Enum = 0x8892
	ELEMENT_ARRAY_BUFFER      Enum = 0x8893
	PIXEL_PACK_BUFFER         Enum = 0x88EB
	PIXEL_UNPACK_BUFFER       Enum = 0x88EC
	UNIFORM_BUFFER            Enum = 0x8A11
	TRANSFORM_FEEDBACK_BUFFER Enum = 0x8C8E
	COPY_READ_BUFFER          Enum = 0x8F36
	COPY_WRITE_BUFFER         Enum = 0x8F37

	// Buffer usage hints.
	STREAM_DRAW  Enum = 0x88E0
	STREAM_READ  Enum = 0x88E1
	STREAM_COPY  Enum = 0x88E2
	STATIC_DRAW  Enum = 0x88E4
	STATIC_READ  Enum = 0x88E5
	STATIC_COPY  Enum = 0x88E6
	DYNAMIC_DRAW Enum = 0x88E8
	DYNAMIC_READ Enum = 0x88E9
	DYNAMIC_COPY Enum = 0x88EA

	// MapBufferRange access bits.
	MAP_READ_BIT              Enum = 0x0001
	MAP_WRITE_BIT             Enum = 0x0002
	MAP_INVALIDATE_RANGE_BIT  Enum = 0x0004
	MAP_INVALIDATE_BUFFER_BIT Enum = 0x0008

	// Texture targets.
	TEXTURE_1D                  Enum = 0x0DE0
	TEXTURE_2D                  Enum = 0x0DE1
	TEXTURE_3D                  Enum = 0x806F
	TEXTURE_1D_ARRAY            Enum = 0x8C18
	TEXTURE_2D_ARRAY            Enum = 0x8C1A
	TEXTURE_CUBE_MAP            Enum = 0x8513
	TEXTURE_CUBE_MAP_POSITIVE_X Enum = 0x8515
	TEXTURE_CUBE_MAP_NEGATIVE_X Enum = 0x8516
	TEXTURE_CUBE_MAP_POSITIVE_Y Enum = 0x8517
	TEXTURE_CUBE_MAP_NEGATIVE_Y Enum = 0x8518
	TEXTURE_CUBE_MAP_POSITIVE_Z Enum = 0x8519
	TEXTURE_CUBE_MAP_NEGATIVE_Z Enum = 0x851A
	TEXTURE0                    Enum = 0x84C0

	// Texture parameters.
	TEXTURE_MAG_FILTER Enum = 0x2800
	TEXTURE_MIN_FILTER Enum = 0x2801
	TEXTURE_WRAP_S     Enum = 0x2802
	TEXTURE_WRAP_T     Enum = 0x2803
	TEXTURE_WRAP_R     Enum = 0x8072
	TEXTURE_BASE_LEVEL Enum = 0x813C
	TEXTURE_MAX_LEVEL  Enum = 0x813D
	TEXTURE_WIDTH      Enum = 0x1000
	TEXTURE_HEIGHT     Enum = 0x1001
	TEXTURE_DEPTH      Enum = 0x8071

	TEXTURE_INTERNAL_FORMAT Enum = 0x1003

	NEAREST                Enum = 0x2600
	LINEAR                 Enum = 0x2601
	NEAREST_MIPMAP_NEAREST Enum = 0x2700
	LINEAR_MIPMAP_NEAREST  Enum = 0x2701
	NEAREST_MIPMAP_LINEAR  Enum = 0x2702
	LINEAR_MIPMAP_LINEAR   Enum = 0x2703
	REPEAT                 Enum = 0x2901
	CLAMP_TO_EDGE          Enum = 0x812F
	CLAMP_TO_BORDER        Enum = 0x812D
	MIRRORED_REPEAT        Enum = 0x8370

	UNPACK_ALIGNMENT Enum = 0x0CF5
	PACK_ALIGNMENT   Enum = 0x0D05

	// Pixel formats.
	RED             Enum = 0x1903
	RG              Enum = 0x8227
	RGB             Enum = 0x1907
	RGBA            Enum = 0x1908
	BGR             Enum = 0x80E0
	BGRA            Enum = 0x80E1
	DEPTH_COMPONENT Enum = 0x1902

	// Internal formats.
	R8                Enum = 0x8229
	RG8               Enum = 0x822B
	RGB8              Enum = 0x8051
	RGBA8             Enum = 0x8058
	SRGB8             Enum = 0x8C41
	SRGB8_ALPHA8      Enum = 0x8C43
	R16F              Enum = 0x822D
	R32F              Enum = 0x822E
	RG32F             Enum = 0x8230
	RGB32F            Enum = 0x8815
	RGBA32F           Enum = 0x8814
	RGBA16F           Enum = 0x881A
	DEPTH_COMPONENT24 Enum = 0x81A6
	DEPTH_COMPONENT32 Enum = 0x81A7

	// S3TC compressed formats.
	COMPRESSED_RGB_S3TC_DXT1_EXT  Enum = 0x83F0
	COMPRESSED_RGBA_S3TC_DXT1_EXT Enum = 0x83F1
	COMPRESSED_RGBA_S3TC_DXT3_EXT Enum = 0x83F2
	COMPRESSED_RGBA_S3TC_DXT5_EXT Enum = 0x83F3

	// Data types. These double as uniform type tags for scalars.
	BYTE           Enum = 0x1400
	UNSIGNED_BYTE  Enum = 0x1401
	SHORT          Enum = 0x1402
	UNSIGNED_SHORT Enum = 0x1403
	INT            Enum = 0x1404
	UNSIGNED_INT   Enum = 0x1405
	FLOAT          Enum = 0x1406
	HALF_FLOAT     Enum = 0x140B

	// Uniform and attribute type tags.
	FLOAT_VEC2                    Enum = 0x8B50
	FLOAT_VEC3                    Enum = 0x8B51
	FLOAT_VEC4                    Enum = 0x8B52
	INT_VEC2                      Enum = 0x8B53
	INT_VEC3                      Enum = 0x8B54
	INT_VEC4                      Enum = 0x8B55
	BOOL                          Enum = 0x8B56
	BOOL_VEC2                     Enum = 0x8B57
	BOOL_VEC3                     Enum = 0x8B58
	BOOL_VEC4                     Enum = 0x8B59
	FLOAT_MAT2                    Enum = 0x8B5A
	FLOAT_MAT3                    Enum = 0x8B5B
	FLOAT_MAT4                    Enum = 0x8B5C
	FLOAT_MAT2x3                  Enum = 0x8B65
	FLOAT_MAT2x4                  Enum = 0x8B66
	FLOAT_MAT3x2                  Enum = 0x8B67
	FLOAT_MAT3x4                  Enum = 0x8B68
	FLOAT_MAT4x2                  Enum = 0x8B69
	FLOAT_MAT4x3                  Enum = 0x8B6A
	SAMPLER_1D                    Enum = 0x8B5D
	SAMPLER_2D                    Enum = 0x8B5E
	SAMPLER_3D                    Enum = 0x8B5F
	SAMPLER_CUBE                  Enum = 0x8B60
	SAMPLER_1D_SHADOW             Enum = 0x8B61
	SAMPLER_2D_SHADOW             Enum = 0x8B62
	SAMPLER_1D_ARRAY              Enum = 0x8DC0
	SAMPLER_2D_ARRAY              Enum = 0x8DC1
	SAMPLER_BUFFER                Enum = 0x8DC2
	SAMPLER_1D_ARRAY_SHADOW       Enum = 0x8DC3
	SAMPLER_2D_ARRAY_SHADOW       Enum = 0x8DC4
	SAMPLER_CUBE_SHADOW           Enum = 0x8DC5
	UNSIGNED_INT_VEC2             Enum = 0x8DC6
	UNSIGNED_INT_VEC3             Enum = 0x8DC7
	UNSIGNED_INT_VEC4             Enum = 0x8DC8
	INT_SAMPLER_1D                Enum = 0x8DC9
	INT_SAMPLER_2D                Enum = 0x8DCA
	INT_SAMPLER_3D                Enum = 0x8DCB
	INT_SAMPLER_CUBE              Enum = 0x8DCC
	INT_SAMPLER_1D_ARRAY          Enum = 0x8DCE
	INT_SAMPLER_2D_ARRAY          Enum = 0x8DCF
	UNSIGNED_INT_SAMPLER_1D       Enum = 0x8DD1
	UNSIGNED_INT_SAMPLER_2D       Enum = 0x8DD2
	UNSIGNED_INT_SAMPLER_3D       Enum = 0x8DD3
	UNSIGNED_INT_SAMPLER_CUBE     Enum = 0x8DD4
	UNSIGNED_INT_SAMPLER_1D_ARRAY Enum = 0x8DD6
	UNSIGNED_INT_SAMPLER_2D_ARRAY Enum = 0x8DD7

	// Shader stages.
	FRAGMENT_SHADER Enum = 0x8B30
	VERTEX_SHADER   Enum = 0x8B31
	GEOMETRY_SHADER Enum = 0x8DD9

	// Shader and program queries.
	COMPILE_STATUS                          Enum = 0x8B81
	LINK_STATUS                             Enum = 0x8B82
	VALIDATE_STATUS                         Enum = 0x8B83
	INFO_LOG_LENGTH                         Enum = 0x8B84
	ACTIVE_UNIFORMS                         Enum = 0x8B86
	ACTIVE_UNIFORM_MAX_LENGTH               Enum = 0x8B87
	ACTIVE_ATTRIBUTES                       Enum = 0x8B89
	ACTIVE_ATTRIBUTE_MAX_LENGTH             Enum = 0x8B8A
	CURRENT_PROGRAM                         Enum = 0x8B8D
	ACTIVE_UNIFORM_BLOCKS                   Enum = 0x8A36
	TRANSFORM_FEEDBACK_VARYINGS             Enum = 0x8C83
	TRANSFORM_FEEDBACK_BUFFER_MODE          Enum = 0x8C7F
	UNIFORM_TYPE                            Enum = 0x8A37
	UNIFORM_SIZE                            Enum = 0x8A38
	UNIFORM_BLOCK_INDEX                     Enum = 0x8A3A
	UNIFORM_OFFSET                          Enum = 0x8A3B
	UNIFORM_ARRAY_STRIDE                    Enum = 0x8A3C
	UNIFORM_MATRIX_STRIDE                   Enum = 0x8A3D
	UNIFORM_IS_ROW_MAJOR                    Enum = 0x8A3E
	UNIFORM_BLOCK_BINDING                   Enum = 0x8A3F
	UNIFORM_BLOCK_DATA_SIZE                 Enum = 0x8A40
	UNIFORM_BLOCK_ACTIVE_UNIFORMS           Enum = 0x8A42
	UNIFORM_BLOCK_ACTIVE_UNIFORM_INDICES    Enum = 0x8A43
	MAX_UNIFORM_BUFFER_BINDINGS             Enum = 0x8A2F
	MAX_UNIFORM_BLOCK_SIZE                  Enum = 0x8A30
	MAX_COMBINED_TEXTURE_IMAGE_UNITS        Enum = 0x8B4D
	MAX_VERTEX_ATTRIBS                      Enum = 0x8869
	MAX_TEXTURE_SIZE                        Enum = 0x0D33
	UNIFORM_BUFFER_OFFSET_ALIGNMENT         Enum = 0x8A34
	MAX_TRANSFORM_FEEDBACK_SEPARATE_ATTRIBS Enum = 0x8C8B

	// Transform feedback.
	INTERLEAVED_ATTRIBS Enum = 0x8C8C
	SEPARATE_ATTRIBS    Enum = 0x8C8D

	// Vertex attribute queries.
	VERTEX_ATTRIB_ARRAY_ENABLED    Enum = 0x8622
	VERTEX_ATTRIB_ARRAY_SIZE       Enum = 0x8623
	VERTEX_ATTRIB_ARRAY_STRIDE     Enum = 0x8624
	VERTEX_ATTRIB_ARRAY_TYPE       Enum = 0x8625
	VERTEX_ATTRIB_ARRAY_NORMALIZED Enum = 0x886A
	VERTEX_ATTRIB_ARRAY_INTEGER    Enum = 0x88FD

	// Framebuffers.
	FRAMEBUFFER          Enum = 0x8D40
	READ_FRAMEBUFFER     Enum = 0x8CA8
	DRAW_FRAMEBUFFER     Enum = 0x8CA9
	COLOR_ATTACHMENT0    Enum = 0x8CE0
	DEPTH_ATTACHMENT     Enum = 0x8D00
	FRAMEBUFFER_COMPLETE Enum = 0x8CD5

	FRAMEBUFFER_INCOMPLETE_ATTACHMENT         Enum = 0x8CD6
	FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT Enum = 0x8CD7
	FRAMEBUFFER_UNSUPPORTED                   Enum = 0x8CDD
)

// CubeFaces lists the cube map face targets in layer order.
var CubeFaces = [6]Enum{
	TEXTURE_CUBE_MAP_POSITIVE_X,
	TEXTURE_CUBE_MAP_NEGATIVE_X,
	TEXTURE_CUBE_MAP_POSITIVE_Y,
	TEXTURE_CUBE_MAP_NEGATIVE_Y,
	TEXTURE_CUBE_MAP_POSITIVE_Z,
	TEXTURE_CUBE_MAP_NEGATIVE_Z,
}

// ErrorString names a GL error code.
func ErrorString(e Enum) string {
	switch e {
	case NO_ERROR:
		return "GL_NO_ERROR"
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return "unknown GL error"
	}
}
