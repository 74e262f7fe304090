package math

import m "math"

func NewVec2(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

func NewVec3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func NewVec4(x, y, z, w float32) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func NewVec3Up() Vec3 {
	return Vec3{Y: 1}
}

func (v Vec2) Slice() []float32 { return []float32{v.X, v.Y} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vec3) MulScalar(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float32 {
	return float32(m.Sqrt(float64(v.Dot(v))))
}

// Normalized returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec3) Normalized() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.MulScalar(1 / l)
}

func (v Vec3) ToVec4(w float32) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Transform multiplies v as a point (w = 1) by mt.
func (v Vec3) Transform(mt Mat4) Vec3 {
	d := mt.Data
	return Vec3{
		X: v.X*d[0] + v.Y*d[4] + v.Z*d[8] + d[12],
		Y: v.X*d[1] + v.Y*d[5] + v.Z*d[9] + d[13],
		Z: v.X*d[2] + v.Y*d[6] + v.Z*d[10] + d[14],
	}
}

func (v Vec3) Slice() []float32 { return []float32{v.X, v.Y, v.Z} }

func (v Vec4) ToVec3() Vec3 { return Vec3{v.X, v.Y, v.Z} }

func (v Vec4) Slice() []float32 { return []float32{v.X, v.Y, v.Z, v.W} }

// Compare reports whether every component of v is within tolerance of o.
func (v Vec3) Compare(o Vec3, tolerance float32) bool {
	return Abs(v.X-o.X) <= tolerance && Abs(v.Y-o.Y) <= tolerance && Abs(v.Z-o.Z) <= tolerance
}

func NewVec3Zero() Vec3 { return Vec3{} }

func NewVec3Down() Vec3 { return Vec3{Y: -1} }
