package resources

import "github.com/spaghettifunk/gin/engine/math"

// UnknownCodepoint is the glyph BMFont exporters add for missing
// characters.
const UnknownCodepoint rune = -1

// FontGlyph is one character of a font atlas. X, Y, Width and Height place
// it on its page in pixels, from the top left corner.
type FontGlyph struct {
	Codepoint rune
	X         int
	Y         int
	Width     int
	Height    int
	XOffset   int
	YOffset   int
	XAdvance  int
	PageID    int
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int
}

type FontData struct {
	Face       string
	Size       int
	LineHeight int
	Baseline   int
	AtlasSizeX int
	AtlasSizeY int
	Glyphs     map[rune]FontGlyph
	Kernings   map[[2]rune]int
	// TabXAdvance is four spaces unless the font has no space glyph.
	TabXAdvance float32
}

/** @brief One atlas page of a bitmap font and its decoded image. */
type BitmapFontPage struct {
	ID    int
	File  string
	Image *ImageData
}

type BitmapFontResourceData struct {
	Data  *FontData
	Pages []BitmapFontPage
}

// Glyph returns the glyph drawn for r: its own, the unknown glyph, or '?'.
func (f *FontData) Glyph(r rune) (FontGlyph, bool) {
	for _, c := range []rune{r, UnknownCodepoint, '?'} {
		if g, ok := f.Glyphs[c]; ok {
			return g, true
		}
	}
	return FontGlyph{}, false
}

// TextGeometry holds the glyph quads of a string, in pixels with y growing
// down from the top of the first line. Each quad is four vertices and six
// indices.
type TextGeometry struct {
	Vertices []math.Vertex2D
	Indices  []uint32
	Width    float32
	Height   float32
}

// Layout places one quad per visible glyph of text. Newlines start a new
// line and kerning applies between consecutive glyphs. Runes the font
// cannot draw are skipped.
func (f *FontData) Layout(text string) *TextGeometry {
	g := &TextGeometry{}
	x, y := float32(0), float32(0)
	prev, hasPrev := rune(0), false
	sx, sy := 1/float32(max(f.AtlasSizeX, 1)), 1/float32(max(f.AtlasSizeY, 1))
	for _, r := range text {
		switch r {
		case '\n':
			g.Width = max(g.Width, x)
			x, y = 0, y+float32(f.LineHeight)
			hasPrev = false
			continue
		case '\t':
			x += f.TabXAdvance
			hasPrev = false
			continue
		}
		glyph, ok := f.Glyph(r)
		if !ok {
			continue
		}
		if hasPrev {
			x += float32(f.Kernings[[2]rune{prev, glyph.Codepoint}])
		}
		if glyph.Width > 0 && glyph.Height > 0 {
			minx, miny := x+float32(glyph.XOffset), y+float32(glyph.YOffset)
			maxx, maxy := minx+float32(glyph.Width), miny+float32(glyph.Height)
			u0, v0 := float32(glyph.X)*sx, float32(glyph.Y)*sy
			u1, v1 := float32(glyph.X+glyph.Width)*sx, float32(glyph.Y+glyph.Height)*sy

			base := uint32(len(g.Vertices))
			g.Vertices = append(g.Vertices,
				math.Vertex2D{Position: math.NewVec2(minx, miny), Texcoord: math.NewVec2(u0, v0)},
				math.Vertex2D{Position: math.NewVec2(maxx, miny), Texcoord: math.NewVec2(u1, v0)},
				math.Vertex2D{Position: math.NewVec2(maxx, maxy), Texcoord: math.NewVec2(u1, v1)},
				math.Vertex2D{Position: math.NewVec2(minx, maxy), Texcoord: math.NewVec2(u0, v1)},
			)
			g.Indices = append(g.Indices, base, base+1, base+2, base+2, base+3, base)
		}
		x += float32(glyph.XAdvance)
		prev, hasPrev = glyph.Codepoint, true
	}
	g.Width = max(g.Width, x)
	g.Height = y + float32(f.LineHeight)
	return g
}
