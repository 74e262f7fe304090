package gltest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

type shader struct {
	stage    gl.Enum
	source   string
	compiled bool
	log      string
	decls    *shaderDecls
}

type activeUniform struct {
	name         string // array uniforms carry a [0] suffix
	base         string
	ty           gl.Enum
	size         int32
	location     int32
	block        int32
	offset       int32
	arrayStride  int32
	matrixStride int32
	rowMajor     bool

	f []float32
	i []int32
	u []uint32
}

type activeAttrib struct {
	name     string
	ty       gl.Enum
	size     int32
	location int32
}

type uniformBlock struct {
	name    string
	layout  string
	size    int32
	binding uint32
	indices []uint32
}

type program struct {
	shaders  []uint32
	hints    map[string]uint32
	varyings []string
	tfMode   gl.Enum

	linked   bool
	log      string
	uniforms []*activeUniform
	attribs  []activeAttrib
	blocks   []*uniformBlock
}

func (d *Driver) CreateShader(ty gl.Enum) uint32 {
	switch ty {
	case gl.VERTEX_SHADER, gl.FRAGMENT_SHADER, gl.GEOMETRY_SHADER:
	default:
		d.setError(gl.INVALID_ENUM)
		return 0
	}
	id := d.genID()
	d.shaders[id] = &shader{stage: ty}
	return id
}

func (d *Driver) ShaderSource(id uint32, src string) {
	s := d.shaders[id]
	if s == nil {
		d.setError(gl.INVALID_VALUE)
		return
	}
	s.source = src
}

func (d *Driver) CompileShader(id uint32) {
	s := d.shaders[id]
	if s == nil {
		d.setError(gl.INVALID_VALUE)
		return
	}
	decls, log := compileGLSL(s.source)
	s.compiled = decls != nil
	s.decls = decls
	s.log = log
}

func (d *Driver) GetShaderi(id uint32, pname gl.Enum) int32 {
	s := d.shaders[id]
	if s == nil {
		d.setError(gl.INVALID_VALUE)
		return 0
	}
	switch pname {
	case gl.COMPILE_STATUS:
		return boolInt(s.compiled)
	case gl.INFO_LOG_LENGTH:
		if s.log == "" {
			return 0
		}
		return int32(len(s.log) + 1)
	}
	d.setError(gl.INVALID_ENUM)
	return 0
}

func (d *Driver) GetShaderInfoLog(id uint32) string {
	if s := d.shaders[id]; s != nil {
		return s.log
	}
	d.setError(gl.INVALID_VALUE)
	return ""
}

func (d *Driver) DeleteShader(id uint32) { delete(d.shaders, id) }

// ShaderExists reports whether id names a live shader object.
func (d *Driver) ShaderExists(id uint32) bool { return d.shaders[id] != nil }

func (d *Driver) CreateProgram() uint32 {
	id := d.genID()
	d.programs[id] = &program{hints: map[string]uint32{}}
	return id
}

func (d *Driver) prog(id uint32) *program {
	p := d.programs[id]
	if p == nil {
		d.setError(gl.INVALID_VALUE)
	}
	return p
}

func (d *Driver) AttachShader(p, s uint32) {
	pr := d.prog(p)
	if pr == nil || d.shaders[s] == nil {
		d.setError(gl.INVALID_VALUE)
		return
	}
	pr.shaders = append(pr.shaders, s)
}

func (d *Driver) DetachShader(p, s uint32) {
	pr := d.prog(p)
	if pr == nil {
		return
	}
	for i, id := range pr.shaders {
		if id == s {
			pr.shaders = append(pr.shaders[:i], pr.shaders[i+1:]...)
			return
		}
	}
	d.setError(gl.INVALID_OPERATION)
}

func (d *Driver) BindAttribLocation(p, index uint32, name string) {
	if pr := d.prog(p); pr != nil {
		pr.hints[name] = index
	}
}

func (d *Driver) TransformFeedbackVaryings(p uint32, varyings []string, mode gl.Enum) {
	if pr := d.prog(p); pr != nil {
		pr.varyings = append([]string(nil), varyings...)
		pr.tfMode = mode
	}
}

func (d *Driver) LinkProgram(id uint32) {
	p := d.prog(id)
	if p == nil {
		return
	}
	if d.current == id && d.feedbackActive {
		d.setError(gl.INVALID_OPERATION)
		return
	}
	p.linked = false
	p.uniforms = nil
	p.attribs = nil
	p.blocks = nil
	if err := d.link(p); err != "" {
		p.log = err
		p.uniforms, p.attribs, p.blocks = nil, nil, nil
		return
	}
	p.log = ""
	p.linked = true
}

func (d *Driver) link(p *program) string {
	if len(p.shaders) == 0 {
		return "error: no shaders attached"
	}
	var stages []*shader
	hasVertex := false
	for _, id := range p.shaders {
		s := d.shaders[id]
		if s == nil || !s.compiled {
			return fmt.Sprintf("error: shader %d is not compiled", id)
		}
		hasVertex = hasVertex || s.stage == gl.VERTEX_SHADER
		stages = append(stages, s)
	}
	if !hasVertex {
		return "error: program has no vertex shader"
	}

	// transform feedback varyings must be written by the last vertex stage
	outputs := map[string]bool{}
	for _, s := range stages {
		if s.stage == gl.VERTEX_SHADER || s.stage == gl.GEOMETRY_SHADER {
			for _, o := range s.decls.outputs {
				outputs[o.name] = true
			}
		}
	}
	for _, v := range p.varyings {
		if !outputs[v] {
			return fmt.Sprintf("error: transform feedback varying %q not written by vertex shader", v)
		}
	}

	// default block uniforms, merged across stages
	seen := map[string]*activeUniform{}
	var location int32
	depthRange := false
	for _, s := range stages {
		depthRange = depthRange || s.decls.usesDepthRange
		for _, u := range s.decls.uniforms {
			if prev, ok := seen[u.name]; ok {
				if prev.ty != u.ty {
					return fmt.Sprintf("error: uniform %q declared with different types", u.name)
				}
				continue
			}
			au := newUniform(u, -1)
			au.location = location
			location += au.size
			seen[u.name] = au
			p.uniforms = append(p.uniforms, au)
		}
	}
	if depthRange {
		for _, f := range []string{"near", "far", "diff"} {
			p.uniforms = append(p.uniforms, &activeUniform{
				name:     "gl_DepthRange." + f,
				base:     "gl_DepthRange." + f,
				ty:       gl.FLOAT,
				size:     1,
				location: -1,
				block:    -1,
			})
		}
	}

	// uniform blocks
	blocks := map[string]bool{}
	for _, s := range stages {
		for _, b := range s.decls.blocks {
			if blocks[b.name] {
				continue
			}
			blocks[b.name] = true
			ub := &uniformBlock{name: b.name, layout: b.layout}
			blockIndex := int32(len(p.blocks))
			cursor := 0
			for _, m := range b.members {
				align, size, arrayStride, matrixStride := memberLayout(b.layout, m)
				offset := alignUp(cursor, align)
				cursor = offset + size
				name := m.name
				if b.instance != "" {
					name = b.name + "." + m.name
				}
				mv := m
				mv.name = name
				au := newUniform(mv, blockIndex)
				au.offset = int32(offset)
				au.arrayStride = int32(arrayStride)
				au.matrixStride = int32(matrixStride)
				au.rowMajor = m.rowMajor && au.matrixStride != 0
				ub.indices = append(ub.indices, uint32(len(p.uniforms)))
				p.uniforms = append(p.uniforms, au)
			}
			ub.size = int32(alignUp(cursor, 16))
			if b.layout != "std140" {
				// implementations report shared block members in any order
				sort.Slice(ub.indices, func(i, j int) bool { return ub.indices[i] > ub.indices[j] })
			}
			p.blocks = append(p.blocks, ub)
		}
	}

	// vertex inputs
	used := map[int32]bool{}
	var vs *shader
	for _, s := range stages {
		if s.stage == gl.VERTEX_SHADER {
			vs = s
		}
	}
	var pending []activeAttrib
	for _, in := range vs.decls.inputs {
		a := activeAttrib{name: in.name, ty: in.ty, size: 1, location: in.location}
		if in.count > 0 {
			a.size = int32(in.count)
		}
		if a.location < 0 {
			if hint, ok := p.hints[in.name]; ok {
				a.location = int32(hint)
			}
		}
		if a.location >= 0 {
			for k := int32(0); k < attribSlots(a); k++ {
				if used[a.location+k] {
					return fmt.Sprintf("error: attribute location %d aliased", a.location+k)
				}
				used[a.location+k] = true
			}
		}
		pending = append(pending, a)
	}
	for i := range pending {
		if pending[i].location >= 0 {
			continue
		}
		n := attribSlots(pending[i])
		next := int32(0)
		for !free(used, next, n) {
			next++
		}
		pending[i].location = next
		for k := int32(0); k < n; k++ {
			used[next+k] = true
		}
	}
	p.attribs = pending
	return ""
}

func newUniform(v varDecl, block int32) *activeUniform {
	au := &activeUniform{name: v.name, base: v.name, ty: v.ty, size: 1, location: -1, block: block}
	if v.count > 0 {
		au.size = int32(v.count)
		au.name = v.name + "[0]"
	}
	if block < 0 {
		n := int(au.size) * gl.Components(v.ty)
		switch gl.BaseType(v.ty) {
		case gl.FLOAT:
			au.f = make([]float32, n)
		case gl.UNSIGNED_INT:
			au.u = make([]uint32, n)
		default:
			au.i = make([]int32, n)
		}
	}
	return au
}

func (d *Driver) GetProgrami(id uint32, pname gl.Enum) int32 {
	p := d.prog(id)
	if p == nil {
		return 0
	}
	switch pname {
	case gl.LINK_STATUS:
		return boolInt(p.linked)
	case gl.INFO_LOG_LENGTH:
		if p.log == "" {
			return 0
		}
		return int32(len(p.log) + 1)
	case gl.ACTIVE_UNIFORMS:
		return int32(len(p.uniforms))
	case gl.ACTIVE_ATTRIBUTES:
		return int32(len(p.attribs))
	case gl.ACTIVE_UNIFORM_BLOCKS:
		return int32(len(p.blocks))
	case gl.TRANSFORM_FEEDBACK_VARYINGS:
		return int32(len(p.varyings))
	case gl.TRANSFORM_FEEDBACK_BUFFER_MODE:
		return int32(p.tfMode)
	case gl.ACTIVE_UNIFORM_MAX_LENGTH:
		n := 0
		for _, u := range p.uniforms {
			n = max(n, len(u.name)+1)
		}
		return int32(n)
	case gl.ACTIVE_ATTRIBUTE_MAX_LENGTH:
		n := 0
		for _, a := range p.attribs {
			n = max(n, len(a.name)+1)
		}
		return int32(n)
	}
	d.setError(gl.INVALID_ENUM)
	return 0
}

func (d *Driver) GetProgramInfoLog(id uint32) string {
	if p := d.prog(id); p != nil {
		return p.log
	}
	return ""
}

func (d *Driver) UseProgram(id uint32) {
	if id != 0 {
		p := d.prog(id)
		if p == nil {
			return
		}
		if !p.linked {
			d.setError(gl.INVALID_OPERATION)
			return
		}
	}
	d.current = id
}

func (d *Driver) DeleteProgram(id uint32) {
	delete(d.programs, id)
	if d.current == id {
		d.current = 0
	}
}

// ProgramExists reports whether id names a live program object.
func (d *Driver) ProgramExists(id uint32) bool { return d.programs[id] != nil }

func (d *Driver) GetActiveUniform(id, index uint32) (string, int32, gl.Enum) {
	p := d.prog(id)
	if p == nil || int(index) >= len(p.uniforms) {
		d.setError(gl.INVALID_VALUE)
		return "", 0, 0
	}
	u := p.uniforms[index]
	return u.name, u.size, u.ty
}

func (d *Driver) GetActiveAttrib(id, index uint32) (string, int32, gl.Enum) {
	p := d.prog(id)
	if p == nil || int(index) >= len(p.attribs) {
		d.setError(gl.INVALID_VALUE)
		return "", 0, 0
	}
	a := p.attribs[index]
	return a.name, a.size, a.ty
}

// parseElement splits "name[3]" into ("name", 3).
func parseElement(name string) (string, int32) {
	open := strings.IndexByte(name, '[')
	if open < 0 || !strings.HasSuffix(name, "]") {
		return name, 0
	}
	n, err := strconv.Atoi(name[open+1 : len(name)-1])
	if err != nil {
		return name, -1
	}
	return name[:open], int32(n)
}

func (d *Driver) GetUniformLocation(id uint32, name string) int32 {
	p := d.prog(id)
	if p == nil || !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return -1
	}
	base, elem := parseElement(name)
	for _, u := range p.uniforms {
		if u.base == base && u.location >= 0 && elem >= 0 && elem < u.size {
			return u.location + elem
		}
	}
	return -1
}

func (d *Driver) GetAttribLocation(id uint32, name string) int32 {
	p := d.prog(id)
	if p == nil || !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return -1
	}
	for _, a := range p.attribs {
		if a.name == name {
			return a.location
		}
	}
	return -1
}

func (d *Driver) GetActiveUniformsi(id uint32, indices []uint32, pname gl.Enum) []int32 {
	p := d.prog(id)
	out := make([]int32, len(indices))
	if p == nil {
		return out
	}
	for k, index := range indices {
		if int(index) >= len(p.uniforms) {
			d.setError(gl.INVALID_VALUE)
			return out
		}
		u := p.uniforms[index]
		switch pname {
		case gl.UNIFORM_TYPE:
			out[k] = int32(u.ty)
		case gl.UNIFORM_SIZE:
			out[k] = u.size
		case gl.UNIFORM_BLOCK_INDEX:
			out[k] = u.block
		case gl.UNIFORM_OFFSET:
			if u.block < 0 {
				out[k] = -1
			} else {
				out[k] = u.offset
			}
		case gl.UNIFORM_ARRAY_STRIDE:
			if u.block < 0 {
				out[k] = -1
			} else {
				out[k] = u.arrayStride
			}
		case gl.UNIFORM_MATRIX_STRIDE:
			if u.block < 0 {
				out[k] = -1
			} else {
				out[k] = u.matrixStride
			}
		case gl.UNIFORM_IS_ROW_MAJOR:
			out[k] = boolInt(u.rowMajor)
		default:
			d.setError(gl.INVALID_ENUM)
			return out
		}
	}
	return out
}

func (d *Driver) GetUniformBlockIndex(id uint32, name string) uint32 {
	p := d.prog(id)
	if p == nil {
		return gl.InvalidIndex
	}
	for i, b := range p.blocks {
		if b.name == name {
			return uint32(i)
		}
	}
	return gl.InvalidIndex
}

func (d *Driver) block(id, index uint32) *uniformBlock {
	p := d.prog(id)
	if p == nil {
		return nil
	}
	if int(index) >= len(p.blocks) {
		d.setError(gl.INVALID_VALUE)
		return nil
	}
	return p.blocks[index]
}

func (d *Driver) GetActiveUniformBlocki(id, index uint32, pname gl.Enum) int32 {
	b := d.block(id, index)
	if b == nil {
		return 0
	}
	switch pname {
	case gl.UNIFORM_BLOCK_DATA_SIZE:
		return b.size
	case gl.UNIFORM_BLOCK_ACTIVE_UNIFORMS:
		return int32(len(b.indices))
	case gl.UNIFORM_BLOCK_BINDING:
		return int32(b.binding)
	}
	d.setError(gl.INVALID_ENUM)
	return 0
}

func (d *Driver) GetActiveUniformBlockIndices(id, index uint32) []uint32 {
	b := d.block(id, index)
	if b == nil {
		return nil
	}
	return append([]uint32(nil), b.indices...)
}

func (d *Driver) UniformBlockBinding(id, index, binding uint32) {
	if int32(binding) >= d.MaxUniformBufferBindings {
		d.setError(gl.INVALID_VALUE)
		return
	}
	if b := d.block(id, index); b != nil {
		b.binding = binding
	}
}

// BlockBinding returns the binding point assigned to a named block.
func (d *Driver) BlockBinding(id uint32, name string) (uint32, bool) {
	p := d.programs[id]
	if p == nil {
		return 0, false
	}
	for _, b := range p.blocks {
		if b.name == name {
			return b.binding, true
		}
	}
	return 0, false
}

// uniformAt resolves location for the current program and checks the
// setter matches the declared type.
func (d *Driver) uniformAt(location int32, check func(gl.Enum) bool, elements int) (*activeUniform, int, bool) {
	p := d.programs[d.current]
	if p == nil || !p.linked {
		d.setError(gl.INVALID_OPERATION)
		return nil, 0, false
	}
	for _, u := range p.uniforms {
		if u.location < 0 || location < u.location || location >= u.location+u.size {
			continue
		}
		elem := int(location - u.location)
		if !check(u.ty) || elem+elements > int(u.size) {
			d.setError(gl.INVALID_OPERATION)
			return nil, 0, false
		}
		return u, elem * gl.Components(u.ty), true
	}
	d.setError(gl.INVALID_OPERATION)
	return nil, 0, false
}

func (d *Driver) Uniformfv(location int32, components int, v []float32) {
	if location < 0 {
		return
	}
	check := func(t gl.Enum) bool {
		return gl.BaseType(t) == gl.FLOAT && gl.VectorSize(t) == components
	}
	if u, at, ok := d.uniformAt(location, check, len(v)/components); ok {
		copy(u.f[at:], v)
	}
}

func (d *Driver) Uniformiv(location int32, components int, v []int32) {
	if location < 0 {
		return
	}
	check := func(t gl.Enum) bool {
		b := gl.BaseType(t)
		return (b == gl.INT || b == gl.BOOL) && gl.VectorSize(t) == components
	}
	if u, at, ok := d.uniformAt(location, check, len(v)/components); ok {
		copy(u.i[at:], v)
	}
}

func (d *Driver) Uniformuiv(location int32, components int, v []uint32) {
	if location < 0 {
		return
	}
	check := func(t gl.Enum) bool {
		return gl.BaseType(t) == gl.UNSIGNED_INT && gl.VectorSize(t) == components
	}
	if u, at, ok := d.uniformAt(location, check, len(v)/components); ok {
		copy(u.u[at:], v)
	}
}

func (d *Driver) UniformMatrixfv(location int32, cols, rows int, v []float32) {
	if location < 0 {
		return
	}
	check := func(t gl.Enum) bool {
		c, r, ok := gl.MatrixSize(t)
		return ok && c == cols && r == rows
	}
	if u, at, ok := d.uniformAt(location, check, len(v)/(cols*rows)); ok {
		copy(u.f[at:], v)
	}
}

func (d *Driver) findUniform(id uint32, name string) *activeUniform {
	p := d.programs[id]
	if p == nil {
		return nil
	}
	for _, u := range p.uniforms {
		if u.base == name || u.name == name {
			return u
		}
	}
	return nil
}

// UniformFloats returns the stored value of a float or matrix uniform.
func (d *Driver) UniformFloats(program uint32, name string) []float32 {
	if u := d.findUniform(program, name); u != nil {
		return append([]float32(nil), u.f...)
	}
	return nil
}

// UniformInts returns the stored value of an int, bool or sampler uniform.
func (d *Driver) UniformInts(program uint32, name string) []int32 {
	if u := d.findUniform(program, name); u != nil {
		return append([]int32(nil), u.i...)
	}
	return nil
}

// UniformUints returns the stored value of an unsigned uniform.
func (d *Driver) UniformUints(program uint32, name string) []uint32 {
	if u := d.findUniform(program, name); u != nil {
		return append([]uint32(nil), u.u...)
	}
	return nil
}

// MoveBlockMember overrides the offset a linked program reports for a
// uniform block member, as a driver with its own layout would. It returns
// false when the program has no such block member.
func (d *Driver) MoveBlockMember(program uint32, name string, offset int32) bool {
	u := d.findUniform(program, name)
	if u == nil || u.block < 0 {
		return false
	}
	u.offset = offset
	return true
}

// attribSlots is the number of consecutive locations an attribute takes:
// one per matrix column and array element.
func attribSlots(a activeAttrib) int32 {
	cols := int32(1)
	if c, _, ok := gl.MatrixSize(a.ty); ok {
		cols = int32(c)
	}
	return cols * max(a.size, 1)
}

func free(used map[int32]bool, from, n int32) bool {
	for k := int32(0); k < n; k++ {
		if used[from+k] {
			return false
		}
	}
	return true
}
