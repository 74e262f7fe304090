package opengl

import (
	"encoding/binary"
	stdmath "math"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// Value is a typed uniform value: one or more elements of a GLSL type.
// Exactly one of F, I and U holds the scalars, matching the base type.
// Matrices are column major.
type Value struct {
	Type gl.Enum
	F    []float32
	I    []int32
	U    []uint32
}

// Count returns the number of elements held.
func (v Value) Count() int {
	n := gl.Components(v.Type)
	if n == 0 {
		return 0
	}
	switch gl.BaseType(v.Type) {
	case gl.FLOAT:
		return len(v.F) / n
	case gl.UNSIGNED_INT:
		return len(v.U) / n
	}
	return len(v.I) / n
}

func Float(f ...float32) Value { return Value{Type: gl.FLOAT, F: f} }

func Vec2(vs ...math.Vec2) Value {
	out := make([]float32, 0, 2*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y)
	}
	return Value{Type: gl.FLOAT_VEC2, F: out}
}

func Vec3(vs ...math.Vec3) Value {
	out := make([]float32, 0, 3*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return Value{Type: gl.FLOAT_VEC3, F: out}
}

func Vec4(vs ...math.Vec4) Value {
	out := make([]float32, 0, 4*len(vs))
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z, v.W)
	}
	return Value{Type: gl.FLOAT_VEC4, F: out}
}

func Int(i ...int32) Value { return Value{Type: gl.INT, I: i} }

func Uint(u ...uint32) Value { return Value{Type: gl.UNSIGNED_INT, U: u} }

func Bool(b ...bool) Value {
	out := make([]int32, len(b))
	for i, v := range b {
		if v {
			out[i] = 1
		}
	}
	return Value{Type: gl.BOOL, I: out}
}

func Mat3(ms ...math.Mat3) Value {
	out := make([]float32, 0, 9*len(ms))
	for _, m := range ms {
		out = append(out, m.Data[:]...)
	}
	return Value{Type: gl.FLOAT_MAT3, F: out}
}

func Mat4(ms ...math.Mat4) Value {
	out := make([]float32, 0, 16*len(ms))
	for _, m := range ms {
		out = append(out, m.Data[:]...)
	}
	return Value{Type: gl.FLOAT_MAT4, F: out}
}

// Floats builds a value of any float vector or matrix type from its
// scalars.
func Floats(ty gl.Enum, f ...float32) Value {
	core.Assert(gl.BaseType(ty) == gl.FLOAT, "%s is not a float type", gl.TypeName(ty))
	return Value{Type: ty, F: f}
}

// Ints builds a value of any int or bool vector type.
func Ints(ty gl.Enum, i ...int32) Value {
	b := gl.BaseType(ty)
	core.Assert(b == gl.INT || b == gl.BOOL, "%s is not an int type", gl.TypeName(ty))
	return Value{Type: ty, I: i}
}

// Uints builds a value of any unsigned vector type.
func Uints(ty gl.Enum, u ...uint32) Value {
	core.Assert(gl.BaseType(ty) == gl.UNSIGNED_INT, "%s is not an unsigned type", gl.TypeName(ty))
	return Value{Type: ty, U: u}
}

// Bytes encodes the scalars as consecutive little endian 4 byte words.
func (v Value) Bytes() []byte {
	var out []byte
	switch gl.BaseType(v.Type) {
	case gl.FLOAT:
		out = make([]byte, 4*len(v.F))
		for i, f := range v.F {
			binary.LittleEndian.PutUint32(out[4*i:], stdmath.Float32bits(f))
		}
	case gl.UNSIGNED_INT:
		out = make([]byte, 4*len(v.U))
		for i, u := range v.U {
			binary.LittleEndian.PutUint32(out[4*i:], u)
		}
	default:
		out = make([]byte, 4*len(v.I))
		for i, n := range v.I {
			binary.LittleEndian.PutUint32(out[4*i:], uint32(n))
		}
	}
	return out
}

// DecodeValue is the inverse of Value.Bytes.
func DecodeValue(ty gl.Enum, raw []byte) Value {
	core.Assert(gl.IsKnownType(ty), "unknown uniform type 0x%04X", uint32(ty))
	core.Assert(len(raw)%gl.TypeSize(ty) == 0, "%d bytes do not hold whole %s elements", len(raw), gl.TypeName(ty))
	n := len(raw) / 4
	v := Value{Type: ty}
	switch gl.BaseType(ty) {
	case gl.FLOAT:
		v.F = make([]float32, n)
		for i := range v.F {
			v.F[i] = stdmath.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case gl.UNSIGNED_INT:
		v.U = make([]uint32, n)
		for i := range v.U {
			v.U[i] = binary.LittleEndian.Uint32(raw[4*i:])
		}
	default:
		v.I = make([]int32, n)
		for i := range v.I {
			v.I[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	}
	return v
}

// apply uploads the value to a uniform location of the current program,
// dispatching on the GL type.
func (v Value) apply(f gl.Functions, location int32) {
	if cols, rows, ok := gl.MatrixSize(v.Type); ok {
		f.UniformMatrixfv(location, cols, rows, v.F)
		return
	}
	n := gl.VectorSize(v.Type)
	switch gl.BaseType(v.Type) {
	case gl.FLOAT:
		f.Uniformfv(location, n, v.F)
	case gl.INT, gl.BOOL:
		f.Uniformiv(location, n, v.I)
	case gl.UNSIGNED_INT:
		f.Uniformuiv(location, n, v.U)
	default:
		core.Assert(false, "cannot set uniform of type %s", gl.TypeName(v.Type))
	}
}
