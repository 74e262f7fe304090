package opengl

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type SamplerConfig struct {
	MinFilter gl.Enum
	MagFilter gl.Enum
	WrapS     gl.Enum
	WrapT     gl.Enum
	WrapR     gl.Enum
}

// DefaultSamplerConfig is trilinear filtering with repeat wrapping.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		MinFilter: gl.LINEAR_MIPMAP_LINEAR,
		MagFilter: gl.LINEAR,
		WrapS:     gl.REPEAT,
		WrapT:     gl.REPEAT,
		WrapR:     gl.REPEAT,
	}
}

// Sampler owns a GL sampler object. A sampler bound to a unit overrides
// the filtering and wrapping state of the texture on that unit.
type Sampler struct {
	ctx    *Context
	id     uint32
	config SamplerConfig
}

func NewSampler(ctx *Context, cfg SamplerConfig) *Sampler {
	s := &Sampler{ctx: ctx, id: ctx.gl.GenSampler()}
	s.Configure(cfg)
	return s
}

func (s *Sampler) ID() uint32 { return s.id }

func (s *Sampler) Config() SamplerConfig { return s.config }

func (s *Sampler) Configure(cfg SamplerConfig) {
	core.Assert(s.id != gl.InvalidID, "sampler used after release")
	f := s.ctx.gl
	f.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, int32(cfg.MinFilter))
	f.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, int32(cfg.MagFilter))
	f.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, int32(cfg.WrapS))
	f.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, int32(cfg.WrapT))
	f.SamplerParameteri(s.id, gl.TEXTURE_WRAP_R, int32(cfg.WrapR))
	s.config = cfg
	s.ctx.CheckError("Sampler.Configure")
}

func (s *Sampler) Release() {
	if s.id == gl.InvalidID {
		return
	}
	s.ctx.gl.DeleteSampler(s.id)
	for unit, id := range s.ctx.samplers {
		if id == s.id {
			s.ctx.samplers[unit] = 0
		}
	}
	s.id = gl.InvalidID
}
