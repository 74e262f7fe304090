package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func assertMat4InDelta(t *testing.T, want, got Mat4) {
	t.Helper()
	for i := range want.Data {
		assert.InDelta(t, want.Data[i], got.Data[i], 1e-5, "element %d", i)
	}
}

func TestMat4Inverse(t *testing.T) {
	m := NewMat4Scale(Vec3{2, 3, 4}).
		Mul(NewMat4EulerXYZ(0.3, -1.1, 0.7)).
		Mul(NewMat4Translation(Vec3{5, -6, 7}))
	assertMat4InDelta(t, NewMat4Identity(), m.Mul(m.Inverse()))
	assertMat4InDelta(t, NewMat4Identity(), m.Inverse().Mul(m))

	assert.Equal(t, NewMat4Identity(), Mat4{}.Inverse())
}

func TestTranslationIsColumnMajor(t *testing.T) {
	m := NewMat4Translation(Vec3{1, 2, 3})
	assert.Equal(t, []float32{1, 2, 3}, m.Data[12:15])
	assert.Equal(t, Vec3{2, 4, 6}, Vec3{1, 2, 3}.Transform(m))
	assert.Equal(t, m, m.Transposed().Transposed())
}

func TestLookAtMatchesInverseTransform(t *testing.T) {
	eye := Vec3{0, 0, 5}
	view := NewMat4LookAt(eye, Vec3{}, NewVec3Up())
	assertMat4InDelta(t, NewMat4Translation(eye).Inverse(), view)
	assert.True(t, view.Forward().Compare(Vec3{0, 0, -1}, 1e-6))
	assert.True(t, view.Right().Compare(Vec3{1, 0, 0}, 1e-6))
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, 16, AlignUp(1, 16))
	assert.Equal(t, 16, AlignUp(16, 16))
	assert.Equal(t, uint32(32), AlignUp(uint32(17), 16))
	assert.Equal(t, float32(2), Clamp(float32(5), -2, 2))
}
