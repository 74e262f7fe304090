package opengl

import (
	"encoding/binary"
	stdmath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/gl/gltest"
)

func blockProgram(t *testing.T, ctx *Context, block string) *Program {
	t.Helper()
	return linkProgram(t, ctx, "in vec3 Position;\n"+block+"\nvoid main() {}", "out vec4 Color;\nvoid main() {}")
}

func floatAt(b []byte, off int) float32 {
	return stdmath.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

func TestStd140LayoutTable(t *testing.T) {
	tests := []struct {
		name     string
		ty       gl.Enum
		count    int
		rowMajor bool
		want     MemberLayout
	}{
		{"float", gl.FLOAT, 0, false, MemberLayout{Align: 4, Size: 4}},
		{"int", gl.INT, 0, false, MemberLayout{Align: 4, Size: 4}},
		{"bool", gl.BOOL, 0, false, MemberLayout{Align: 4, Size: 4}},
		{"vec2", gl.FLOAT_VEC2, 0, false, MemberLayout{Align: 8, Size: 8}},
		{"vec3", gl.FLOAT_VEC3, 0, false, MemberLayout{Align: 16, Size: 12}},
		{"vec4", gl.FLOAT_VEC4, 0, false, MemberLayout{Align: 16, Size: 16}},
		{"uvec3", gl.UNSIGNED_INT_VEC3, 0, false, MemberLayout{Align: 16, Size: 12}},
		{"mat2", gl.FLOAT_MAT2, 0, false, MemberLayout{Align: 16, Size: 32, MatrixStride: 16}},
		{"mat3", gl.FLOAT_MAT3, 0, false, MemberLayout{Align: 16, Size: 48, MatrixStride: 16}},
		{"mat4", gl.FLOAT_MAT4, 0, false, MemberLayout{Align: 16, Size: 64, MatrixStride: 16}},
		{"mat2x3", gl.FLOAT_MAT2x3, 0, false, MemberLayout{Align: 16, Size: 32, MatrixStride: 16}},
		{"row_major mat2x3", gl.FLOAT_MAT2x3, 0, true, MemberLayout{Align: 16, Size: 48, MatrixStride: 16}},
		{"row_major mat4x2", gl.FLOAT_MAT4x2, 0, true, MemberLayout{Align: 16, Size: 32, MatrixStride: 16}},
		{"float[3]", gl.FLOAT, 3, false, MemberLayout{Align: 16, Size: 48, ArrayStride: 16}},
		{"vec2[2]", gl.FLOAT_VEC2, 2, false, MemberLayout{Align: 16, Size: 32, ArrayStride: 16}},
		{"vec3[2]", gl.FLOAT_VEC3, 2, false, MemberLayout{Align: 16, Size: 32, ArrayStride: 16}},
		{"mat3[2]", gl.FLOAT_MAT3, 2, false, MemberLayout{Align: 16, Size: 96, ArrayStride: 48, MatrixStride: 16}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Std140Layout(tt.ty, tt.count, tt.rowMajor))
		})
	}
	assert.Panics(t, func() { Std140Layout(gl.SAMPLER_2D, 0, false) })
}

func TestStd140OffsetLaw(t *testing.T) {
	types := []gl.Enum{
		gl.FLOAT, gl.INT, gl.UNSIGNED_INT, gl.BOOL,
		gl.FLOAT_VEC2, gl.FLOAT_VEC3, gl.FLOAT_VEC4, gl.INT_VEC2, gl.INT_VEC3,
		gl.FLOAT_MAT2, gl.FLOAT_MAT3, gl.FLOAT_MAT4,
		gl.FLOAT_MAT2x3, gl.FLOAT_MAT3x2, gl.FLOAT_MAT2x4, gl.FLOAT_MAT4x3,
	}
	rng := rand.New(rand.NewSource(140))
	for run := 0; run < 200; run++ {
		members := make([]BlockMember, 1+rng.Intn(8))
		for i := range members {
			members[i] = BlockMember{
				Type:     types[rng.Intn(len(types))],
				RowMajor: rng.Intn(2) == 0,
			}
			if rng.Intn(4) == 0 {
				members[i].Count = 1 + rng.Intn(3)
			}
		}
		offsets, size := Std140Offsets(members)
		require.Equal(t, 0, offsets[0])
		end := 0
		for i, m := range members {
			l := Std140Layout(m.Type, m.Count, m.RowMajor)
			if i > 0 {
				prev := members[i-1]
				pl := Std140Layout(prev.Type, prev.Count, prev.RowMajor)
				require.Equal(t, math.AlignUp(offsets[i-1]+pl.Size, l.Align), offsets[i], "run %d member %d", run, i)
			}
			require.Zero(t, offsets[i]%l.Align)
			end = offsets[i] + l.Size
		}
		require.Equal(t, math.AlignUp(end, 16), size)
	}
}

func TestStd140IntVec3Mat4(t *testing.T) {
	offsets, size := Std140Offsets([]BlockMember{
		{Name: "Mode", Type: gl.INT},
		{Name: "Tint", Type: gl.FLOAT_VEC3},
		{Name: "World", Type: gl.FLOAT_MAT4},
	})
	assert.Equal(t, []int{0, 16, 32}, offsets)
	assert.Equal(t, 96, size)
}

func TestStd140BlockBindsAndUploads(t *testing.T) {
	ctx, d := newTestContext(t)
	p := blockProgram(t, ctx, `
layout(std140) uniform Transform {
	int Mode;
	vec3 Tint;
	mat4 World;
	float Weights[3];
};`)
	block := NewUniformBlock(ctx, "Transform", BlockStd140,
		BlockMember{Name: "Mode", Type: gl.INT},
		BlockMember{Name: "Tint", Type: gl.FLOAT_VEC3},
		BlockMember{Name: "World", Type: gl.FLOAT_MAT4},
		BlockMember{Name: "Weights", Type: gl.FLOAT, Count: 3},
	)
	require.True(t, block.Resolved())
	assert.Equal(t, 144, block.Size())

	world := math.NewMat4Translation(math.Vec3{X: 1, Y: 2, Z: 3})
	block.Set("Mode", Int(7))
	block.Set("Tint", Vec3(math.Vec3{X: 0.5, Y: 0.25, Z: 0.125}))
	block.Set("World", Mat4(world))
	block.SetElement("Weights", 1, Float(2, 3))
	block.Bind(p)

	binding, ok := d.BlockBinding(p.ID(), "Transform")
	require.True(t, ok)
	assert.Equal(t, block.Binding(), binding)
	id := d.IndexedBuffer(gl.UNIFORM_BUFFER, binding)
	require.NotZero(t, id)

	data := d.BufferBytes(id)
	require.Len(t, data, 144)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, float32(0.25), floatAt(data, 20))
	assert.Equal(t, float32(3), floatAt(data, 32+3*16+2*4), "translation z")
	assert.Equal(t, float32(0), floatAt(data, 96))
	assert.Equal(t, float32(2), floatAt(data, 112))
	assert.Equal(t, float32(3), floatAt(data, 128))

	assert.Equal(t, []float32{0, 2, 3}, block.Get("Weights").F)
	assert.Equal(t, world.Data[:], block.Get("World").F)
	assert.Panics(t, func() { block.SetElement("Weights", 2, Float(1, 1)) })
	assert.Panics(t, func() { block.Set("Tint", Vec4(math.Vec4{})) })
	assert.Panics(t, func() { block.Set("Missing", Float(1)) })
}

func TestUniformBlockBindingPointsIncrease(t *testing.T) {
	ctx, _ := newTestContext(t)
	var last uint32
	seen := map[uint32]bool{}
	for i := 0; i < 20; i++ {
		b := NewUniformBlock(ctx, "Block", BlockStd140, BlockMember{Name: "Value", Type: gl.FLOAT_VEC4})
		assert.False(t, seen[b.Binding()], "binding %d handed out twice", b.Binding())
		if i > 0 {
			assert.Greater(t, b.Binding(), last)
		}
		seen[b.Binding()] = true
		last = b.Binding()
		// released blocks keep their binding point
		b.Release()
	}
}

func TestUniformBlockBindingPointsAreCapped(t *testing.T) {
	d := gltest.New()
	d.MaxUniformBufferBindings = 3
	ctx := NewContext(d)
	for i := 0; i < 3; i++ {
		NewUniformBlock(ctx, "Block", BlockStd140, BlockMember{Name: "Value", Type: gl.FLOAT})
	}
	assert.Panics(t, func() {
		NewUniformBlock(ctx, "Block", BlockStd140, BlockMember{Name: "Value", Type: gl.FLOAT})
	})
}

func TestSharedBlockResolvesOnFirstBind(t *testing.T) {
	ctx, d := newTestContext(t)
	p := blockProgram(t, ctx, `
layout(shared) uniform Light {
	vec2 Attenuation;
	float Intensity;
	vec3 Direction;
} light;`)
	block := NewUniformBlock(ctx, "Light", BlockShared,
		BlockMember{Name: "Direction", Type: gl.FLOAT_VEC3},
		BlockMember{Name: "Attenuation", Type: gl.FLOAT_VEC2},
		BlockMember{Name: "Intensity", Type: gl.FLOAT},
	)
	assert.False(t, block.Resolved())
	assert.Panics(t, func() { block.Set("Intensity", Float(1)) })

	block.Bind(p)
	require.True(t, block.Resolved())
	var names []string
	var offsets []int
	for _, m := range block.Members() {
		names = append(names, m.Name)
		offsets = append(offsets, m.Offset)
	}
	assert.Equal(t, []string{"Attenuation", "Intensity", "Direction"}, names)
	assert.IsIncreasing(t, offsets)
	assert.Equal(t, int(d.GetActiveUniformBlocki(p.ID(), 0, gl.UNIFORM_BLOCK_DATA_SIZE)), block.Size())

	block.Set("Intensity", Float(4))
	block.Bind(p)
	data := d.BufferBytes(d.IndexedBuffer(gl.UNIFORM_BUFFER, block.Binding()))
	assert.Equal(t, float32(4), floatAt(data, offsets[1]))
}

func TestRowMajorMembers(t *testing.T) {
	ctx, d := newTestContext(t)
	p := blockProgram(t, ctx, `
layout(std140, row_major) uniform Skin {
	mat2x3 Bend;
	layout(column_major) mat2x3 Twist;
};`)
	block := NewUniformBlock(ctx, "Skin", BlockStd140,
		BlockMember{Name: "Bend", Type: gl.FLOAT_MAT2x3, RowMajor: true},
		BlockMember{Name: "Twist", Type: gl.FLOAT_MAT2x3},
	)
	// two columns of three rows
	m := Floats(gl.FLOAT_MAT2x3, 1, 2, 3, 4, 5, 6)
	block.Set("Bend", m)
	block.Set("Twist", m)
	block.Bind(p)

	data := d.BufferBytes(d.IndexedBuffer(gl.UNIFORM_BUFFER, block.Binding()))
	// row vectors at a 16 byte stride
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, []float32{
		floatAt(data, 0), floatAt(data, 4),
		floatAt(data, 16), floatAt(data, 20),
		floatAt(data, 32), floatAt(data, 36),
	})
	// column vectors at a 16 byte stride after the 48 byte row major member
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6}, []float32{
		floatAt(data, 48), floatAt(data, 52), floatAt(data, 56),
		floatAt(data, 64), floatAt(data, 68), floatAt(data, 72),
	})
	assert.Equal(t, m, block.Get("Bend"))
	assert.Equal(t, m, block.Get("Twist"))
}

func TestBindValidatesDeclaration(t *testing.T) {
	ctx, _ := newTestContext(t)
	p := blockProgram(t, ctx, `
layout(std140) uniform Material {
	vec4 Diffuse;
	mat4 Texture;
	float Shininess[2];
};`)
	valid := []BlockMember{
		{Name: "Diffuse", Type: gl.FLOAT_VEC4},
		{Name: "Texture", Type: gl.FLOAT_MAT4},
		{Name: "Shininess", Type: gl.FLOAT, Count: 2},
	}
	assert.NotPanics(t, func() { NewUniformBlock(ctx, "Material", BlockStd140, valid...).Bind(p) })

	variants := map[string]func([]BlockMember) []BlockMember{
		"type":      func(m []BlockMember) []BlockMember { m[0].Type = gl.FLOAT_VEC3; return m },
		"count":     func(m []BlockMember) []BlockMember { m[2].Count = 3; return m },
		"row major": func(m []BlockMember) []BlockMember { m[1].RowMajor = true; return m },
		"members":   func(m []BlockMember) []BlockMember { return m[:2] },
		"name":      func(m []BlockMember) []BlockMember { m[0].Name = "Albedo"; return m },
	}
	for name, mutate := range variants {
		members := mutate(append([]BlockMember(nil), valid...))
		block := NewUniformBlock(ctx, "Material", BlockStd140, members...)
		assert.Panics(t, func() { block.Bind(p) }, name)
	}
	other := NewUniformBlock(ctx, "Lights", BlockStd140, valid...)
	assert.Panics(t, func() { other.Bind(p) })
}

func TestBindChecksDriverPlacement(t *testing.T) {
	ctx, d := newTestContext(t)
	decl := `
layout(std140) uniform Material {
	vec4 Diffuse;
	mat4 Texture;
	float Shininess[2];
};`
	p := blockProgram(t, ctx, decl)
	moved := blockProgram(t, ctx, decl)
	require.True(t, d.MoveBlockMember(moved.ID(), "Shininess", 100))
	assert.False(t, d.MoveBlockMember(moved.ID(), "Position", 0))

	block := NewUniformBlock(ctx, "Material", BlockStd140,
		BlockMember{Name: "Diffuse", Type: gl.FLOAT_VEC4},
		BlockMember{Name: "Texture", Type: gl.FLOAT_MAT4},
		BlockMember{Name: "Shininess", Type: gl.FLOAT, Count: 2},
	)
	require.True(t, block.Resolved())
	assert.NotPanics(t, func() { block.Bind(p) })
	assert.Panics(t, func() { block.Bind(moved) })

	core.SetDebugChecks(false)
	t.Cleanup(func() { core.SetDebugChecks(true) })
	assert.NotPanics(t, func() { block.Bind(moved) })
}

func TestSharedBlockChecksLaterPrograms(t *testing.T) {
	ctx, d := newTestContext(t)
	decl := `
layout(shared) uniform Light {
	vec3 Direction;
	float Intensity;
};`
	first := blockProgram(t, ctx, decl)
	second := blockProgram(t, ctx, decl)
	require.True(t, d.MoveBlockMember(second.ID(), "Intensity", 48))

	block := NewUniformBlock(ctx, "Light", BlockShared,
		BlockMember{Name: "Direction", Type: gl.FLOAT_VEC3},
		BlockMember{Name: "Intensity", Type: gl.FLOAT},
	)
	require.False(t, block.Resolved())
	block.Bind(first)
	require.True(t, block.Resolved())
	assert.Panics(t, func() { block.Bind(second) })
}
