package opengl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

func TestLayoutPacking(t *testing.T) {
	l := NewLayout(ElementUint8, ElementFloat32, ElementVec3)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 0, l.Offset(0))
	assert.Equal(t, 4, l.Offset(1))
	assert.Equal(t, 8, l.Offset(2))
	assert.Equal(t, 20, l.Stride())

	assert.Equal(t, 32, VertexLayout.Stride())
	assert.Equal(t, 4, IndexLayout.Stride())
}

func TestBufferCreateSetRead(t *testing.T) {
	ctx, d := newTestContext(t)
	b := NewBuffer(ctx, gl.ARRAY_BUFFER, IndexLayout)
	b.Reserve(8, gl.STATIC_DRAW)
	assert.Equal(t, 8, b.Count())
	assert.Equal(t, 32, b.Size())
	assert.Equal(t, gl.STATIC_DRAW, d.BufferUsage(b.ID()))

	b.SetValues([]uint32{7, 8, 9}, 5)
	assert.Equal(t, []byte{7, 0, 0, 0, 8, 0, 0, 0, 9, 0, 0, 0}, b.Read(5, 3))
	// the caller's binding is untouched
	assert.Zero(t, d.BoundBuffer(gl.ARRAY_BUFFER))
}

func TestBufferSetOverflowPanics(t *testing.T) {
	ctx, _ := newTestContext(t)
	b := NewBuffer(ctx, gl.ARRAY_BUFFER, IndexLayout)
	b.Reserve(4, gl.STATIC_DRAW)

	assert.NotPanics(t, func() { b.Set(make([]byte, 8), 2) })
	assert.Panics(t, func() { b.Set(make([]byte, 12), 2) })
	assert.Panics(t, func() { b.Create(make([]byte, 6), gl.STATIC_DRAW) })
}

func TestBufferUploadChecksStride(t *testing.T) {
	ctx, d := newTestContext(t)
	b := NewBuffer(ctx, gl.ARRAY_BUFFER, VertexLayout)
	verts := []math.Vertex3D{{Position: math.Vec3{X: 1, Y: 2, Z: 3}}, {Texcoord: math.Vec2{X: 0.5, Y: 1}}}
	b.Upload(verts, gl.STATIC_DRAW)
	assert.Equal(t, 2, b.Count())
	assert.Len(t, d.BufferBytes(b.ID()), 64)

	assert.Panics(t, func() { b.Upload([]uint32{1, 2}, gl.STATIC_DRAW) })
}

func TestIndexBufferUsesCopyTarget(t *testing.T) {
	ctx, d := newTestContext(t)
	b := NewBuffer(ctx, gl.ELEMENT_ARRAY_BUFFER, IndexLayout)
	b.Upload([]uint32{0, 1, 2}, gl.STATIC_DRAW)
	assert.Equal(t, 3, b.Count())
	assert.Zero(t, d.ElementBuffer(0))
}

func TestMapWriteRetriesLostContents(t *testing.T) {
	ctx, d := newTestContext(t)
	b := NewBuffer(ctx, gl.ARRAY_BUFFER, IndexLayout)
	b.Create(make([]byte, 16), gl.DYNAMIC_DRAW)

	d.FailUnmaps = 2
	runs := 0
	b.MapWrite(1, 2, func(dst []byte) {
		runs++
		require.Len(t, dst, 8)
		copy(dst, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	})
	assert.Equal(t, 3, runs)
	assert.Equal(t, 3, d.UnmapCalls)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, b.Read(1, 2))
}

func TestBufferViewDoesNotOwn(t *testing.T) {
	ctx, d := newTestContext(t)
	b := NewBuffer(ctx, gl.ARRAY_BUFFER, ByteLayout)
	b.Create(bytes.Repeat([]byte{9}, 4), gl.STATIC_DRAW)
	v := b.View()
	assert.Equal(t, b.ID(), v.ID())
	assert.Equal(t, 4, v.Count())

	b.Release()
	assert.False(t, d.BufferExists(v.ID()))
	assert.Zero(t, b.ID())
	b.Release()
}
