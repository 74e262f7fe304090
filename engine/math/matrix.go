package math

import m "math"

func NewMat4Identity() Mat4 {
	out := Mat4{}
	out.Data[0] = 1
	out.Data[5] = 1
	out.Data[10] = 1
	out.Data[15] = 1
	return out
}

func (mt Mat4) Mul(other Mat4) Mat4 {
	out := Mat4{}
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float32
			for i := 0; i < 4; i++ {
				sum += mt.Data[row*4+i] * other.Data[i*4+col]
			}
			out.Data[row*4+col] = sum
		}
	}
	return out
}

func NewMat4Perspective(fovRadians, aspect, near, far float32) Mat4 {
	halfTan := float32(m.Tan(float64(fovRadians) * 0.5))
	out := Mat4{}
	out.Data[0] = 1 / (aspect * halfTan)
	out.Data[5] = 1 / halfTan
	out.Data[10] = -((far + near) / (far - near))
	out.Data[11] = -1
	out.Data[14] = -((2 * far * near) / (far - near))
	return out
}

func NewMat4Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	out := NewMat4Identity()
	lr := 1 / (left - right)
	bt := 1 / (bottom - top)
	nf := 1 / (near - far)
	out.Data[0] = -2 * lr
	out.Data[5] = -2 * bt
	out.Data[10] = 2 * nf
	out.Data[12] = (left + right) * lr
	out.Data[13] = (top + bottom) * bt
	out.Data[14] = (far + near) * nf
	return out
}

// NewMat4LookAt builds a view matrix for an eye at position looking at
// target.
func NewMat4LookAt(position, target, up Vec3) Mat4 {
	z := target.Sub(position).Normalized()
	x := z.Cross(up).Normalized()
	y := x.Cross(z)

	out := NewMat4Identity()
	out.Data[0], out.Data[4], out.Data[8] = x.X, x.Y, x.Z
	out.Data[1], out.Data[5], out.Data[9] = y.X, y.Y, y.Z
	out.Data[2], out.Data[6], out.Data[10] = -z.X, -z.Y, -z.Z
	out.Data[12] = -x.Dot(position)
	out.Data[13] = -y.Dot(position)
	out.Data[14] = z.Dot(position)
	return out
}

func NewMat4Translation(p Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[12] = p.X
	out.Data[13] = p.Y
	out.Data[14] = p.Z
	return out
}

func NewMat4Scale(s Vec3) Mat4 {
	out := NewMat4Identity()
	out.Data[0] = s.X
	out.Data[5] = s.Y
	out.Data[10] = s.Z
	return out
}

func NewMat4EulerXYZ(x, y, z float32) Mat4 {
	sx, cx := sincos(x)
	sy, cy := sincos(y)
	sz, cz := sincos(z)

	rx := NewMat4Identity()
	rx.Data[5], rx.Data[6], rx.Data[9], rx.Data[10] = cx, sx, -sx, cx
	ry := NewMat4Identity()
	ry.Data[0], ry.Data[2], ry.Data[8], ry.Data[10] = cy, -sy, sy, cy
	rz := NewMat4Identity()
	rz.Data[0], rz.Data[1], rz.Data[4], rz.Data[5] = cz, sz, -sz, cz
	return rx.Mul(ry).Mul(rz)
}

func (mt Mat4) Transposed() Mat4 {
	out := Mat4{}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out.Data[c*4+r] = mt.Data[r*4+c]
		}
	}
	return out
}

// Mat3 returns the upper left 3x3 block.
func (mt Mat4) Mat3() Mat3 {
	out := Mat3{}
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			out.Data[c*3+r] = mt.Data[c*4+r]
		}
	}
	return out
}

func NewMat3Identity() Mat3 {
	return Mat3{Data: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

func sincos(a float32) (float32, float32) {
	s, c := m.Sincos(float64(a))
	return float32(s), float32(c)
}

// Inverse returns the inverse of mt. A singular matrix yields the identity.
func (mt Mat4) Inverse() Mat4 {
	a := mt.Data
	var inv [16]float32
	inv[0] = a[5]*a[10]*a[15] - a[5]*a[11]*a[14] - a[9]*a[6]*a[15] + a[9]*a[7]*a[14] + a[13]*a[6]*a[11] - a[13]*a[7]*a[10]
	inv[4] = -a[4]*a[10]*a[15] + a[4]*a[11]*a[14] + a[8]*a[6]*a[15] - a[8]*a[7]*a[14] - a[12]*a[6]*a[11] + a[12]*a[7]*a[10]
	inv[8] = a[4]*a[9]*a[15] - a[4]*a[11]*a[13] - a[8]*a[5]*a[15] + a[8]*a[7]*a[13] + a[12]*a[5]*a[11] - a[12]*a[7]*a[9]
	inv[12] = -a[4]*a[9]*a[14] + a[4]*a[10]*a[13] + a[8]*a[5]*a[14] - a[8]*a[6]*a[13] - a[12]*a[5]*a[10] + a[12]*a[6]*a[9]
	inv[1] = -a[1]*a[10]*a[15] + a[1]*a[11]*a[14] + a[9]*a[2]*a[15] - a[9]*a[3]*a[14] - a[13]*a[2]*a[11] + a[13]*a[3]*a[10]
	inv[5] = a[0]*a[10]*a[15] - a[0]*a[11]*a[14] - a[8]*a[2]*a[15] + a[8]*a[3]*a[14] + a[12]*a[2]*a[11] - a[12]*a[3]*a[10]
	inv[9] = -a[0]*a[9]*a[15] + a[0]*a[11]*a[13] + a[8]*a[1]*a[15] - a[8]*a[3]*a[13] - a[12]*a[1]*a[11] + a[12]*a[3]*a[9]
	inv[13] = a[0]*a[9]*a[14] - a[0]*a[10]*a[13] - a[8]*a[1]*a[14] + a[8]*a[2]*a[13] + a[12]*a[1]*a[10] - a[12]*a[2]*a[9]
	inv[2] = a[1]*a[6]*a[15] - a[1]*a[7]*a[14] - a[5]*a[2]*a[15] + a[5]*a[3]*a[14] + a[13]*a[2]*a[7] - a[13]*a[3]*a[6]
	inv[6] = -a[0]*a[6]*a[15] + a[0]*a[7]*a[14] + a[4]*a[2]*a[15] - a[4]*a[3]*a[14] - a[12]*a[2]*a[7] + a[12]*a[3]*a[6]
	inv[10] = a[0]*a[5]*a[15] - a[0]*a[7]*a[13] - a[4]*a[1]*a[15] + a[4]*a[3]*a[13] + a[12]*a[1]*a[7] - a[12]*a[3]*a[5]
	inv[14] = -a[0]*a[5]*a[14] + a[0]*a[6]*a[13] + a[4]*a[1]*a[14] - a[4]*a[2]*a[13] - a[12]*a[1]*a[6] + a[12]*a[2]*a[5]
	inv[3] = -a[1]*a[6]*a[11] + a[1]*a[7]*a[10] + a[5]*a[2]*a[11] - a[5]*a[3]*a[10] - a[9]*a[2]*a[7] + a[9]*a[3]*a[6]
	inv[7] = a[0]*a[6]*a[11] - a[0]*a[7]*a[10] - a[4]*a[2]*a[11] + a[4]*a[3]*a[10] + a[8]*a[2]*a[7] - a[8]*a[3]*a[6]
	inv[11] = -a[0]*a[5]*a[11] + a[0]*a[7]*a[9] + a[4]*a[1]*a[11] - a[4]*a[3]*a[9] - a[8]*a[1]*a[7] + a[8]*a[3]*a[5]
	inv[15] = a[0]*a[5]*a[10] - a[0]*a[6]*a[9] - a[4]*a[1]*a[10] + a[4]*a[2]*a[9] + a[8]*a[1]*a[6] - a[8]*a[2]*a[5]

	det := a[0]*inv[0] + a[1]*inv[4] + a[2]*inv[8] + a[3]*inv[12]
	if det == 0 {
		return NewMat4Identity()
	}
	out := Mat4{}
	for i := range inv {
		out.Data[i] = inv[i] / det
	}
	return out
}

// Forward returns the forward direction of a view matrix.
func (mt Mat4) Forward() Vec3 {
	return Vec3{-mt.Data[2], -mt.Data[6], -mt.Data[10]}.Normalized()
}

func (mt Mat4) Backward() Vec3 { return mt.Forward().MulScalar(-1) }

func (mt Mat4) Right() Vec3 {
	return Vec3{mt.Data[0], mt.Data[4], mt.Data[8]}.Normalized()
}

func (mt Mat4) Left() Vec3 { return mt.Right().MulScalar(-1) }
