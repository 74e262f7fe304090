package opengl

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// MemberLayout is the placement rule of one uniform block member.
type MemberLayout struct {
	Align        int
	Size         int
	ArrayStride  int // 0 unless the member is an array
	MatrixStride int // 0 unless the member is a matrix
}

// Std140Layout returns the std140 alignment and size of a member of type
// ty. count is the array length, 0 for a plain member. Matrices are stored
// as arrays of column vectors, or row vectors when rowMajor is set.
func Std140Layout(ty gl.Enum, count int, rowMajor bool) MemberLayout {
	core.Assert(gl.IsKnownType(ty) && !gl.IsSampler(ty), "%s cannot live in a uniform block", gl.TypeName(ty))
	var l MemberLayout
	if cols, rows, ok := gl.MatrixSize(ty); ok {
		vectors := cols
		if rowMajor {
			vectors = rows
		}
		l = MemberLayout{Align: 16, Size: vectors * 16, MatrixStride: 16}
	} else {
		n := gl.VectorSize(ty)
		switch n {
		case 1:
			l = MemberLayout{Align: 4, Size: 4}
		case 2:
			l = MemberLayout{Align: 8, Size: 8}
		case 3:
			l = MemberLayout{Align: 16, Size: 12}
		default:
			l = MemberLayout{Align: 16, Size: 16}
		}
	}
	if count > 0 {
		l.ArrayStride = math.AlignUp(l.Size, 16)
		l.Align = math.AlignUp(l.Align, 16)
		l.Size = l.ArrayStride * count
	}
	return l
}

// Std140Offsets places members one after another: each starts at the end
// of the previous one rounded up to its own alignment. size is the block
// size, rounded up to 16 bytes.
func Std140Offsets(members []BlockMember) (offsets []int, size int) {
	offsets = make([]int, len(members))
	cursor := 0
	for i, m := range members {
		l := Std140Layout(m.Type, m.Count, m.RowMajor)
		offsets[i] = math.AlignUp(cursor, l.Align)
		cursor = offsets[i] + l.Size
	}
	return offsets, math.AlignUp(cursor, 16)
}
