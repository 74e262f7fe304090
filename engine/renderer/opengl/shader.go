package opengl

import (
	"fmt"
	"strings"

	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// Shader is a compiled shader stage. It can be attached to any number of
// programs and released once they are linked.
type Shader struct {
	ctx   *Context
	id    uint32
	stage gl.Enum
	name  string
}

// StageName returns the conventional name of a shader stage.
func StageName(stage gl.Enum) string {
	switch stage {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.GEOMETRY_SHADER:
		return "geometry"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return fmt.Sprintf("stage(0x%04X)", uint32(stage))
}

// StageFromName is the inverse of StageName.
func StageFromName(name string) (gl.Enum, bool) {
	switch strings.ToLower(name) {
	case "vertex", "vert":
		return gl.VERTEX_SHADER, true
	case "geometry", "geom":
		return gl.GEOMETRY_SHADER, true
	case "fragment", "frag":
		return gl.FRAGMENT_SHADER, true
	}
	return 0, false
}

// CompileShader compiles source for a stage. name identifies the shader in
// errors and logs.
func CompileShader(ctx *Context, stage gl.Enum, name, source string) (*Shader, error) {
	f := ctx.gl
	id := f.CreateShader(stage)
	if id == gl.InvalidID {
		return nil, fmt.Errorf("%w: cannot create %s shader %s", core.ErrShaderCompile, StageName(stage), name)
	}
	f.ShaderSource(id, source)
	f.CompileShader(id)
	if f.GetShaderi(id, gl.COMPILE_STATUS) == 0 {
		log := strings.TrimSpace(f.GetShaderInfoLog(id))
		f.DeleteShader(id)
		return nil, fmt.Errorf("%w: %s shader %s: %s", core.ErrShaderCompile, StageName(stage), name, log)
	}
	ctx.CheckError("CompileShader")
	return &Shader{ctx: ctx, id: id, stage: stage, name: name}, nil
}

func (s *Shader) ID() uint32     { return s.id }
func (s *Shader) Stage() gl.Enum { return s.stage }
func (s *Shader) Name() string   { return s.name }

func (s *Shader) Release() {
	if s.id == gl.InvalidID {
		return
	}
	s.ctx.gl.DeleteShader(s.id)
	s.id = gl.InvalidID
}
