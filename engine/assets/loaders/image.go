package loaders

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/resources"
)

type ImageLoader struct{}

// Load decodes the image at path into RGBA8 ImageData. params may be a
// *resources.ImageResourceParams.
func (il *ImageLoader) Load(path string, params any) (*resources.Resource, error) {
	p := &resources.ImageResourceParams{FlipY: true}
	if typed, ok := params.(*resources.ImageResourceParams); ok && typed != nil {
		p = typed
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := DecodeImage(f, p)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &resources.Resource{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FullPath: path,
		Type:     resources.ResourceTypeImage,
		DataSize: uint64(img.TotalSize()),
		Data:     img,
	}, nil
}

// DecodeImage reads any registered image format from r. Images larger
// than p.MaxDimension are scaled down, keeping the aspect ratio.
func DecodeImage(r io.Reader, p *resources.ImageResourceParams) (*resources.ImageData, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUnsupportedFormat, err)
	}
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: empty %s image", core.ErrInvalidImageLayout, format)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if m := p.MaxDimension; m > 0 && (w > m || h > m) {
		if w >= h {
			w, h = m, max(1, h*m/w)
		} else {
			w, h = max(1, w*m/h), m
		}
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	}

	data, err := resources.NewImageData(resources.ImageConfig{
		Width:    w,
		Height:   h,
		Type:     resources.Image2D,
		Format:   resources.FormatRGBA,
		DataType: resources.DataTypeUint8,
	})
	if err != nil {
		return nil, err
	}
	if err := data.SetImage(0, 0, 0, dst.Pix); err != nil {
		return nil, err
	}
	// GL's first row is the bottom one
	if p.FlipY {
		data.FlipY()
	}
	core.LogDebug("decoded %s image %dx%d", format, w, h)
	return data, nil
}

func (il *ImageLoader) Unload(*resources.Resource) error {
	return nil
}
