package loaders

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/resources"
)

type BitmapFontLoader struct{}

// Load reads a BMFont text descriptor and decodes its pages, which are
// looked up next to it. Pages keep their top row first, like the glyph
// rectangles that point into them.
func (fl *BitmapFontLoader) Load(path string, params any) (*resources.Resource, error) {
	font, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bitmap font %s: %w", path, err)
	}
	d := font.Descriptor
	data := &resources.FontData{
		Face:       d.Info.Face,
		Size:       int(d.Info.Size),
		LineHeight: int(d.Common.LineHeight),
		Baseline:   int(d.Common.Base),
		AtlasSizeX: int(d.Common.ScaleW),
		AtlasSizeY: int(d.Common.ScaleH),
		Glyphs:     make(map[rune]resources.FontGlyph, len(d.Chars)),
		Kernings:   make(map[[2]rune]int, len(d.Kerning)),
	}
	for _, c := range d.Chars {
		data.Glyphs[rune(c.ID)] = resources.FontGlyph{
			Codepoint: rune(c.ID),
			X:         int(c.X),
			Y:         int(c.Y),
			Width:     int(c.Width),
			Height:    int(c.Height),
			XOffset:   int(c.XOffset),
			YOffset:   int(c.YOffset),
			XAdvance:  int(c.XAdvance),
			PageID:    int(c.Page),
		}
	}
	for pair, k := range d.Kerning {
		data.Kernings[[2]rune{rune(pair.First), rune(pair.Second)}] = int(k.Amount)
	}
	data.TabXAdvance = float32(4 * data.Size)
	if space, ok := data.Glyphs[' ']; ok {
		data.TabXAdvance = float32(4 * space.XAdvance)
	}
	if data.AtlasSizeX <= 0 || data.AtlasSizeY <= 0 {
		return nil, fmt.Errorf("%w: bitmap font %s has an empty atlas", core.ErrInvalidImageLayout, path)
	}

	out := &resources.BitmapFontResourceData{Data: data}
	size := 0
	for _, p := range d.Pages {
		img, err := loadPage(filepath.Join(filepath.Dir(path), p.File))
		if err != nil {
			return nil, fmt.Errorf("bitmap font %s page %d: %w", path, p.ID, err)
		}
		if img.Width != data.AtlasSizeX || img.Height != data.AtlasSizeY {
			return nil, fmt.Errorf("%w: bitmap font %s page %d is %dx%d, atlas is %dx%d", core.ErrInvalidImageLayout,
				path, p.ID, img.Width, img.Height, data.AtlasSizeX, data.AtlasSizeY)
		}
		out.Pages = append(out.Pages, resources.BitmapFontPage{ID: int(p.ID), File: p.File, Image: img})
		size += img.TotalSize()
	}
	if len(out.Pages) == 0 {
		return nil, fmt.Errorf("bitmap font %s has no pages", path)
	}
	sort.Slice(out.Pages, func(i, j int) bool { return out.Pages[i].ID < out.Pages[j].ID })

	core.LogDebug("read bitmap font %s: %d glyphs, %d pages", data.Face, len(data.Glyphs), len(out.Pages))
	return &resources.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     resources.ResourceTypeBitmapFont,
		DataSize: uint64(size),
		Data:     out,
	}, nil
}

func loadPage(path string) (*resources.ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImage(f, &resources.ImageResourceParams{})
}

func (fl *BitmapFontLoader) Unload(res *resources.Resource) error {
	if data, ok := res.Data.(*resources.BitmapFontResourceData); ok {
		data.Pages = nil
		res.Data = nil
		res.DataSize = 0
	}
	return nil
}
