package math

func NewTransform() Transform {
	return Transform{Scale: Vec3{1, 1, 1}}
}

func TransformFromPosition(position Vec3) Transform {
	t := NewTransform()
	t.Position = position
	return t
}

// Matrix returns scale, then rotation, then translation.
func (t Transform) Matrix() Mat4 {
	s := NewMat4Scale(t.Scale)
	r := NewMat4EulerXYZ(t.Rotation.X, t.Rotation.Y, t.Rotation.Z)
	return s.Mul(r).Mul(NewMat4Translation(t.Position))
}
