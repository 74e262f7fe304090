package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/gin/engine/math"
)

func testFontData() *FontData {
	return &FontData{
		LineHeight: 10,
		AtlasSizeX: 16,
		AtlasSizeY: 8,
		Glyphs: map[rune]FontGlyph{
			' ': {Codepoint: ' ', XAdvance: 4},
			'A': {Codepoint: 'A', Width: 4, Height: 6, YOffset: 1, XAdvance: 5},
			'V': {Codepoint: 'V', X: 5, Width: 4, Height: 6, YOffset: 1, XAdvance: 5},
			'?': {Codepoint: '?', X: 10, Width: 4, Height: 6, XAdvance: 5},
		},
		Kernings:    map[[2]rune]int{{'A', 'V'}: -1},
		TabXAdvance: 16,
	}
}

func TestLayoutPlacesGlyphQuads(t *testing.T) {
	g := testFontData().Layout("AV")
	require.Len(t, g.Vertices, 8)
	assert.Equal(t, []uint32{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}, g.Indices)

	a := g.Vertices[:4]
	assert.Equal(t, math.NewVec2(0, 1), a[0].Position)
	assert.Equal(t, math.NewVec2(4, 7), a[2].Position)
	assert.Equal(t, math.NewVec2(0, 0), a[0].Texcoord)
	assert.Equal(t, math.NewVec2(0.25, 0.75), a[2].Texcoord)

	// kerning pulls V one pixel towards A
	assert.Equal(t, math.NewVec2(4, 1), g.Vertices[4].Position)
	assert.Equal(t, float32(9), g.Width)
	assert.Equal(t, float32(10), g.Height)
}

func TestLayoutLinesTabsAndMissingGlyphs(t *testing.T) {
	f := testFontData()
	g := f.Layout("A A\n\tV")
	// spaces and tabs advance without a quad
	require.Len(t, g.Vertices, 12)
	assert.Equal(t, math.NewVec2(9, 1), g.Vertices[4].Position)
	assert.Equal(t, math.NewVec2(16, 11), g.Vertices[8].Position)
	assert.Equal(t, float32(21), g.Width)
	assert.Equal(t, float32(20), g.Height)

	// unknown runes draw '?'
	g = f.Layout("é")
	require.Len(t, g.Vertices, 4)
	assert.Equal(t, math.NewVec2(10.0/16, 0), g.Vertices[0].Texcoord)

	delete(f.Glyphs, '?')
	g = f.Layout("é")
	assert.Empty(t, g.Vertices)
	assert.Zero(t, g.Width)
}
