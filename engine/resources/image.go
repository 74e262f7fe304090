package resources

import (
	"fmt"

	"github.com/spaghettifunk/gin/engine/core"
)

type ImageType int

const (
	Image1D ImageType = iota
	Image2D
	Image3D
	ImageCube
)

func (t ImageType) String() string {
	switch t {
	case Image1D:
		return "1D"
	case Image2D:
		return "2D"
	case Image3D:
		return "3D"
	case ImageCube:
		return "cube"
	}
	return fmt.Sprintf("ImageType(%d)", int(t))
}

/** @brief Channel layout of uncompressed pixels. */
type PixelFormat int

const (
	FormatNone PixelFormat = iota
	FormatRed
	FormatRG
	FormatRGB
	FormatRGBA
	FormatBGR
	FormatBGRA
	FormatDepth
)

// Channels returns the number of components per pixel.
func (f PixelFormat) Channels() int {
	switch f {
	case FormatRed, FormatDepth:
		return 1
	case FormatRG:
		return 2
	case FormatRGB, FormatBGR:
		return 3
	case FormatRGBA, FormatBGRA:
		return 4
	}
	return 0
}

/** @brief Component type of uncompressed pixels. */
type DataType int

const (
	DataTypeNone DataType = iota
	DataTypeUint8
	DataTypeUint16
	DataTypeFloat32
)

func (t DataType) Size() int {
	switch t {
	case DataTypeUint8:
		return 1
	case DataTypeUint16:
		return 2
	case DataTypeFloat32:
		return 4
	}
	return 0
}

/** @brief Block compression of the pixel data. */
type Compression int

const (
	CompressionNone Compression = iota
	CompressionDXT1
	CompressionDXT3
	CompressionDXT5
)

// BlockSize is the byte size of one 4x4 block.
func (c Compression) BlockSize() int {
	switch c {
	case CompressionDXT1:
		return 8
	case CompressionDXT3, CompressionDXT5:
		return 16
	}
	return 0
}

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionDXT1:
		return "DXT1"
	case CompressionDXT3:
		return "DXT3"
	case CompressionDXT5:
		return "DXT5"
	}
	return fmt.Sprintf("Compression(%d)", int(c))
}

// ImageConfig describes the storage of an ImageData. Either Format and
// DataType are set, or Compression is.
type ImageConfig struct {
	Width, Height, Depth int
	Type                 ImageType
	Format               PixelFormat
	DataType             DataType
	Compression          Compression
	// MipCount and ArrayCount default to 1.
	MipCount   int
	ArrayCount int
}

/**
 * @brief CPU-side pixel storage for every mip level of an image. Each level
 * holds ArrayCount * Faces images of ImageSize(level) bytes, array layer
 * major.
 */
type ImageData struct {
	ImageConfig
	levels [][]byte
}

// NewImageData validates cfg and allocates zeroed storage for all levels.
func NewImageData(cfg ImageConfig) (*ImageData, error) {
	if cfg.MipCount == 0 {
		cfg.MipCount = 1
	}
	if cfg.ArrayCount == 0 {
		cfg.ArrayCount = 1
	}
	if cfg.Height == 0 {
		cfg.Height = 1
	}
	if cfg.Depth == 0 {
		cfg.Depth = 1
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	img := &ImageData{ImageConfig: cfg, levels: make([][]byte, cfg.MipCount)}
	for i := range img.levels {
		img.levels[i] = make([]byte, img.LevelSize(i))
	}
	return img, nil
}

func (c ImageConfig) validate() error {
	uncompressed := c.Format != FormatNone || c.DataType != DataTypeNone
	compressed := c.Compression != CompressionNone
	switch {
	case uncompressed == compressed:
		return fmt.Errorf("%w: image needs either a pixel format and data type or a compression", core.ErrInvalidImageLayout)
	case uncompressed && (c.Format.Channels() == 0 || c.DataType.Size() == 0):
		return fmt.Errorf("%w: pixel format %d with data type %d", core.ErrInvalidImageLayout, c.Format, c.DataType)
	case compressed && c.Compression.BlockSize() == 0:
		return fmt.Errorf("%w: compression %d", core.ErrUnsupportedFormat, c.Compression)
	case compressed && (c.Type == Image1D || c.Type == Image3D):
		return fmt.Errorf("%w: %s images cannot be block compressed", core.ErrUnsupportedFormat, c.Type)
	case c.Width <= 0 || c.Height <= 0 || c.Depth <= 0:
		return fmt.Errorf("%w: size %dx%dx%d", core.ErrInvalidImageLayout, c.Width, c.Height, c.Depth)
	case c.Type == Image1D && (c.Height != 1 || c.Depth != 1):
		return fmt.Errorf("%w: 1D image with height %d and depth %d", core.ErrInvalidImageLayout, c.Height, c.Depth)
	case c.Type != Image3D && c.Depth != 1:
		return fmt.Errorf("%w: %s image with depth %d", core.ErrInvalidImageLayout, c.Type, c.Depth)
	case c.Type == ImageCube && c.Width != c.Height:
		return fmt.Errorf("%w: cube faces of %dx%d are not square", core.ErrInvalidImageLayout, c.Width, c.Height)
	case c.Type == Image3D && c.ArrayCount != 1:
		return fmt.Errorf("%w: 3D images cannot be arrays", core.ErrInvalidImageLayout)
	case c.MipCount < 1 || c.MipCount > MipCount(c.Width, c.Height, c.Depth):
		return fmt.Errorf("%w: %d mip levels for a %dx%dx%d image", core.ErrInvalidImageLayout, c.MipCount, c.Width, c.Height, c.Depth)
	case c.ArrayCount < 1:
		return fmt.Errorf("%w: array count %d", core.ErrInvalidImageLayout, c.ArrayCount)
	}
	return nil
}

// MipDim is the size of an axis at a mip level.
func MipDim(dim, level int) int {
	return max(1, dim>>level)
}

// MipCount returns the length of the full mip chain of an image.
func MipCount(width, height, depth int) int {
	n := 1
	for largest := max(width, height, depth); largest > 1; largest >>= 1 {
		n++
	}
	return n
}

// Faces is 6 for cube images and 1 otherwise.
func (img *ImageData) Faces() int {
	if img.Type == ImageCube {
		return 6
	}
	return 1
}

func (img *ImageData) Compressed() bool { return img.Compression != CompressionNone }

// BytesPerPixel is 0 for compressed images.
func (img *ImageData) BytesPerPixel() int {
	return img.Format.Channels() * img.DataType.Size()
}

// MipSize returns the dimensions of one image at a mip level.
func (img *ImageData) MipSize(level int) (w, h, d int) {
	w = MipDim(img.Width, level)
	if img.Type != Image1D {
		h = MipDim(img.Height, level)
	} else {
		h = 1
	}
	if img.Type == Image3D {
		d = MipDim(img.Depth, level)
	} else {
		d = 1
	}
	return w, h, d
}

// ImageSize is the byte size of a single image (one layer, one face) at a
// mip level.
func (img *ImageData) ImageSize(level int) int {
	w, h, d := img.MipSize(level)
	if img.Compressed() {
		return ((w + 3) / 4) * ((h + 3) / 4) * img.Compression.BlockSize() * d
	}
	return w * h * d * img.BytesPerPixel()
}

// LevelSize is the byte size of all layers and faces at a mip level.
func (img *ImageData) LevelSize(level int) int {
	return img.ArrayCount * img.Faces() * img.ImageSize(level)
}

// Level returns the storage of a mip level.
func (img *ImageData) Level(level int) []byte {
	return img.levels[level]
}

// Image returns the storage of one layer and face at a mip level. The
// returned slice aliases the image.
func (img *ImageData) Image(level, layer, face int) []byte {
	core.Assert(level >= 0 && level < img.MipCount, "mip level %d of %d", level, img.MipCount)
	core.Assert(layer >= 0 && layer < img.ArrayCount, "array layer %d of %d", layer, img.ArrayCount)
	core.Assert(face >= 0 && face < img.Faces(), "face %d of %d", face, img.Faces())
	size := img.ImageSize(level)
	at := (layer*img.Faces() + face) * size
	return img.levels[level][at : at+size : at+size]
}

// SetImage copies data into one layer and face of a mip level.
func (img *ImageData) SetImage(level, layer, face int, data []byte) error {
	dst := img.Image(level, layer, face)
	if len(data) != len(dst) {
		return fmt.Errorf("%w: %d bytes for an image of %d bytes", core.ErrInvalidImageLayout, len(data), len(dst))
	}
	copy(dst, data)
	return nil
}

// TotalSize is the byte size of every level.
func (img *ImageData) TotalSize() int {
	n := 0
	for i := range img.levels {
		n += len(img.levels[i])
	}
	return n
}

// CopyFrom copies every image of src, which must have the same
// configuration, optionally flipping each one upside down.
func (img *ImageData) CopyFrom(src *ImageData, flipY bool) error {
	if src.ImageConfig != img.ImageConfig {
		return fmt.Errorf("%w: cannot copy a %dx%d %s image into a %dx%d %s image", core.ErrInvalidImageLayout,
			src.Width, src.Height, src.Type, img.Width, img.Height, img.Type)
	}
	for level := 0; level < img.MipCount; level++ {
		for layer := 0; layer < img.ArrayCount; layer++ {
			for face := 0; face < img.Faces(); face++ {
				dst, from := img.Image(level, layer, face), src.Image(level, layer, face)
				if !flipY || img.Type == Image1D {
					copy(dst, from)
					continue
				}
				img.flipInto(dst, from, level)
			}
		}
	}
	return nil
}

// FlipY flips every image upside down in place.
func (img *ImageData) FlipY() {
	clone := &ImageData{ImageConfig: img.ImageConfig, levels: make([][]byte, len(img.levels))}
	for i, l := range img.levels {
		clone.levels[i] = append([]byte(nil), l...)
	}
	// same configuration, cannot fail
	_ = img.CopyFrom(clone, true)
}

func (img *ImageData) flipInto(dst, src []byte, level int) {
	w, h, d := img.MipSize(level)
	if img.Compressed() {
		flipBlocks(dst, src, img.Compression, w, h)
		return
	}
	row := w * img.BytesPerPixel()
	slice := row * h
	for z := 0; z < d; z++ {
		for y := 0; y < h; y++ {
			copy(dst[z*slice+y*row:z*slice+(y+1)*row], src[z*slice+(h-1-y)*row:])
		}
	}
}
