package gl

import "fmt"

type typeInfo struct {
	name string
	base Enum
	cols int
	rows int
}

var typeTable = map[Enum]typeInfo{
	FLOAT:             {"float", FLOAT, 1, 1},
	FLOAT_VEC2:        {"vec2", FLOAT, 1, 2},
	FLOAT_VEC3:        {"vec3", FLOAT, 1, 3},
	FLOAT_VEC4:        {"vec4", FLOAT, 1, 4},
	INT:               {"int", INT, 1, 1},
	INT_VEC2:          {"ivec2", INT, 1, 2},
	INT_VEC3:          {"ivec3", INT, 1, 3},
	INT_VEC4:          {"ivec4", INT, 1, 4},
	UNSIGNED_INT:      {"uint", UNSIGNED_INT, 1, 1},
	UNSIGNED_INT_VEC2: {"uvec2", UNSIGNED_INT, 1, 2},
	UNSIGNED_INT_VEC3: {"uvec3", UNSIGNED_INT, 1, 3},
	UNSIGNED_INT_VEC4: {"uvec4", UNSIGNED_INT, 1, 4},
	BOOL:              {"bool", BOOL, 1, 1},
	BOOL_VEC2:         {"bvec2", BOOL, 1, 2},
	BOOL_VEC3:         {"bvec3", BOOL, 1, 3},
	BOOL_VEC4:         {"bvec4", BOOL, 1, 4},
	FLOAT_MAT2:        {"mat2", FLOAT, 2, 2},
	FLOAT_MAT3:        {"mat3", FLOAT, 3, 3},
	FLOAT_MAT4:        {"mat4", FLOAT, 4, 4},
	FLOAT_MAT2x3:      {"mat2x3", FLOAT, 2, 3},
	FLOAT_MAT2x4:      {"mat2x4", FLOAT, 2, 4},
	FLOAT_MAT3x2:      {"mat3x2", FLOAT, 3, 2},
	FLOAT_MAT3x4:      {"mat3x4", FLOAT, 3, 4},
	FLOAT_MAT4x2:      {"mat4x2", FLOAT, 4, 2},
	FLOAT_MAT4x3:      {"mat4x3", FLOAT, 4, 3},
}

var samplerTargets = map[Enum]struct {
	name   string
	target Enum
}{
	SAMPLER_1D:                    {"sampler1D", TEXTURE_1D},
	SAMPLER_2D:                    {"sampler2D", TEXTURE_2D},
	SAMPLER_3D:                    {"sampler3D", TEXTURE_3D},
	SAMPLER_CUBE:                  {"samplerCube", TEXTURE_CUBE_MAP},
	SAMPLER_1D_SHADOW:             {"sampler1DShadow", TEXTURE_1D},
	SAMPLER_2D_SHADOW:             {"sampler2DShadow", TEXTURE_2D},
	SAMPLER_1D_ARRAY:              {"sampler1DArray", TEXTURE_1D_ARRAY},
	SAMPLER_2D_ARRAY:              {"sampler2DArray", TEXTURE_2D_ARRAY},
	SAMPLER_1D_ARRAY_SHADOW:       {"sampler1DArrayShadow", TEXTURE_1D_ARRAY},
	SAMPLER_2D_ARRAY_SHADOW:       {"sampler2DArrayShadow", TEXTURE_2D_ARRAY},
	SAMPLER_CUBE_SHADOW:           {"samplerCubeShadow", TEXTURE_CUBE_MAP},
	INT_SAMPLER_1D:                {"isampler1D", TEXTURE_1D},
	INT_SAMPLER_2D:                {"isampler2D", TEXTURE_2D},
	INT_SAMPLER_3D:                {"isampler3D", TEXTURE_3D},
	INT_SAMPLER_CUBE:              {"isamplerCube", TEXTURE_CUBE_MAP},
	INT_SAMPLER_1D_ARRAY:          {"isampler1DArray", TEXTURE_1D_ARRAY},
	INT_SAMPLER_2D_ARRAY:          {"isampler2DArray", TEXTURE_2D_ARRAY},
	UNSIGNED_INT_SAMPLER_1D:       {"usampler1D", TEXTURE_1D},
	UNSIGNED_INT_SAMPLER_2D:       {"usampler2D", TEXTURE_2D},
	UNSIGNED_INT_SAMPLER_3D:       {"usampler3D", TEXTURE_3D},
	UNSIGNED_INT_SAMPLER_CUBE:     {"usamplerCube", TEXTURE_CUBE_MAP},
	UNSIGNED_INT_SAMPLER_1D_ARRAY: {"usampler1DArray", TEXTURE_1D_ARRAY},
	UNSIGNED_INT_SAMPLER_2D_ARRAY: {"usampler2DArray", TEXTURE_2D_ARRAY},
}

// IsSampler reports whether t is an opaque sampler type.
func IsSampler(t Enum) bool {
	_, ok := samplerTargets[t]
	return ok
}

// SamplerTarget returns the texture target a sampler type samples from.
func SamplerTarget(t Enum) Enum {
	return samplerTargets[t].target
}

// BaseType returns FLOAT, INT, UNSIGNED_INT or BOOL for value types and INT
// for samplers, which are set as integer texture units.
func BaseType(t Enum) Enum {
	if IsSampler(t) {
		return INT
	}
	if info, ok := typeTable[t]; ok {
		return info.base
	}
	return 0
}

// Components returns the number of scalars in one element of t.
func Components(t Enum) int {
	if IsSampler(t) {
		return 1
	}
	info := typeTable[t]
	return info.cols * info.rows
}

// MatrixSize returns the column and row count of a matrix type.
func MatrixSize(t Enum) (cols, rows int, ok bool) {
	info, found := typeTable[t]
	if !found || info.cols == 1 {
		return 0, 0, false
	}
	return info.cols, info.rows, true
}

// VectorSize returns the component count of a scalar or vector type, and 0
// for matrices.
func VectorSize(t Enum) int {
	if IsSampler(t) {
		return 1
	}
	info := typeTable[t]
	if info.cols != 1 {
		return 0
	}
	return info.rows
}

// IsKnownType reports whether t is a uniform or attribute type tag handled
// by this package.
func IsKnownType(t Enum) bool {
	_, ok := typeTable[t]
	return ok || IsSampler(t)
}

// TypeSize is the tightly packed byte size of one element of t.
func TypeSize(t Enum) int {
	return Components(t) * 4
}

// TypeName returns the GLSL spelling of t.
func TypeName(t Enum) string {
	if info, ok := typeTable[t]; ok {
		return info.name
	}
	if s, ok := samplerTargets[t]; ok {
		return s.name
	}
	return fmt.Sprintf("0x%04X", uint32(t))
}

// TypeFromName parses a GLSL type name.
func TypeFromName(name string) (Enum, bool) {
	switch name {
	case "mat2x2":
		return FLOAT_MAT2, true
	case "mat3x3":
		return FLOAT_MAT3, true
	case "mat4x4":
		return FLOAT_MAT4, true
	}
	for t, info := range typeTable {
		if info.name == name {
			return t, true
		}
	}
	for t, s := range samplerTargets {
		if s.name == name {
			return t, true
		}
	}
	return 0, false
}

// DataTypeSize returns the byte size of a pixel or vertex component type.
func DataTypeSize(t Enum) int {
	switch t {
	case BYTE, UNSIGNED_BYTE:
		return 1
	case SHORT, UNSIGNED_SHORT, HALF_FLOAT:
		return 2
	case INT, UNSIGNED_INT, FLOAT:
		return 4
	default:
		return 0
	}
}

// FormatComponents returns the channel count of a pixel transfer format.
func FormatComponents(format Enum) int {
	switch format {
	case RED, DEPTH_COMPONENT:
		return 1
	case RG:
		return 2
	case RGB, BGR:
		return 3
	case RGBA, BGRA:
		return 4
	default:
		return 0
	}
}
