package resources

import "fmt"

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	ResourceTypeNone ResourceType = iota
	/** @brief Text resource type. */
	ResourceTypeText
	/** @brief Binary resource type. */
	ResourceTypeBinary
	/** @brief Image resource type (png, jpeg, gif, bmp, tiff, webp). */
	ResourceTypeImage
	/** @brief Material resource type (.mat, TOML). */
	ResourceTypeMaterial
	/** @brief Shader resource type, a .shadercfg naming the stage sources. */
	ResourceTypeShader
	/** @brief GLSL stage source (.vert, .geom, .frag). */
	ResourceTypeShaderSource
	/** @brief Bitmap font descriptor in the BMFont text format (.fnt). */
	ResourceTypeBitmapFont
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeText:
		return "text"
	case ResourceTypeBinary:
		return "binary"
	case ResourceTypeImage:
		return "image"
	case ResourceTypeMaterial:
		return "material"
	case ResourceTypeShader:
		return "shader"
	case ResourceTypeShaderSource:
		return "shader source"
	case ResourceTypeBitmapFont:
		return "bitmap font"
	default:
		return "none"
	}
}

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	Type     ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data: *ImageData, *ShaderConfig, *MaterialConfig, *BitmapFontResourceData, string or []byte. */
	Data any
}

/** @brief Parameters used when loading an image. */
type ImageResourceParams struct {
	/** @brief Indicates if the image should be flipped on the y-axis when loaded. */
	FlipY bool
	/** @brief Images wider or taller than this are scaled down. 0 keeps the size. */
	MaxDimension int
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	TextureFilterModeLinear TextureFilter = iota
	TextureFilterModeNearest
)

// ParseTextureFilter reads the filter names used by material files. An
// empty name is linear.
func ParseTextureFilter(name string) (TextureFilter, error) {
	switch name {
	case "", "linear":
		return TextureFilterModeLinear, nil
	case "nearest":
		return TextureFilterModeNearest, nil
	}
	return 0, fmt.Errorf("unknown texture filter %q", name)
}

type TextureRepeat int

const (
	TextureRepeatRepeat TextureRepeat = iota
	TextureRepeatMirroredRepeat
	TextureRepeatClampToEdge
	TextureRepeatClampToBorder
)

// ParseTextureRepeat reads the wrap mode names used by material files. An
// empty name is repeat.
func ParseTextureRepeat(name string) (TextureRepeat, error) {
	switch name {
	case "", "repeat":
		return TextureRepeatRepeat, nil
	case "mirrored_repeat":
		return TextureRepeatMirroredRepeat, nil
	case "clamp_to_edge":
		return TextureRepeatClampToEdge, nil
	case "clamp_to_border":
		return TextureRepeatClampToBorder, nil
	}
	return 0, fmt.Errorf("unknown texture repeat %q", name)
}

// ShaderConfig is the content of a .shadercfg file.
type ShaderConfig struct {
	Name string `toml:"name"`
	// Stages maps a stage name (vertex, geometry, fragment) to the file
	// holding its GLSL source, relative to the shader directory.
	Stages map[string]string `toml:"stages"`
	// AttributeLocations pins vertex inputs to attribute locations.
	AttributeLocations map[string]uint32 `toml:"attribute_locations"`
	// FeedbackVaryings are captured by transform feedback, interleaved.
	FeedbackVaryings []string `toml:"feedback_varyings"`
	// Sources maps the stage names to their GLSL, filled in by the loader.
	Sources map[string]string `toml:"-"`
}

// MaterialConfig is the content of a .mat file.
type MaterialConfig struct {
	Name           string     `toml:"name"`
	Shader         string     `toml:"shader"`
	AutoRelease    bool       `toml:"auto_release"`
	AmbientColour  [4]float32 `toml:"ambient_colour"`
	DiffuseColour  [4]float32 `toml:"diffuse_colour"`
	SpecularColour [4]float32 `toml:"specular_colour"`
	Shininess      float32    `toml:"shininess"`
	DiffuseMap     string     `toml:"diffuse_map"`
	Filter         string     `toml:"filter"`
	Repeat         string     `toml:"repeat"`
}
