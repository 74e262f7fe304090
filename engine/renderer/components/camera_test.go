package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
)

func TestCameraView(t *testing.T) {
	c := NewCamera()
	assert.Equal(t, math.NewMat4Identity(), c.GetView())

	c.SetPosition(math.NewVec3(0, 0, 5))
	origin := math.NewVec3Zero().Transform(c.GetView())
	assert.True(t, origin.Compare(math.NewVec3(0, 0, -5), 1e-5), "%v", origin)
	assert.False(t, c.IsDirty)

	c.MoveForward(2)
	assert.True(t, c.GetPosition().Compare(math.NewVec3(0, 0, 3), 1e-5), "%v", c.GetPosition())

	c.Pitch(10)
	assert.InDelta(t, 1.55334306, c.GetEulerRotation().X, 1e-6)
}

func TestCameraFillsVertexComponents(t *testing.T) {
	r := NewDefaultRegistry()
	c := NewCamera()
	c.SetPosition(math.NewVec3(1, 2, 3))
	values := NewValues(r, Vertex)

	model := math.NewMat4Translation(math.NewVec3(1, 2, 3))
	c.FillVertex(values, model)

	mvp, _ := r.Lookup(Vertex, ModelViewProjection)
	got := values.Get(mvp).F
	for i, want := range math.NewMat4Identity().Data {
		assert.InDelta(t, want, got[i], 1e-5, "element %d", i)
	}
	m, _ := r.Lookup(Vertex, Model)
	assert.Equal(t, opengl.Mat4(model), values.Get(m))
	n, _ := r.Lookup(Vertex, NormalMatrix)
	assert.Equal(t, opengl.Mat3(math.NewMat3Identity()), values.Get(n))
	for _, comp := range r.Components(Vertex) {
		assert.True(t, values.Has(comp), comp.Name)
	}
}
