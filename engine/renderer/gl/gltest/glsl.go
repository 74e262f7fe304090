package gltest

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spaghettifunk/gin/engine/renderer/gl"
)

// The parser understands global declarations only: uniforms, uniform
// blocks, stage inputs and outputs. Function bodies are skipped.

type varDecl struct {
	name     string
	ty       gl.Enum
	count    int // 0 when not an array
	location int32
	rowMajor bool
}

type blockDecl struct {
	name     string
	instance string
	layout   string // std140, shared or packed
	rowMajor bool
	members  []varDecl
}

type shaderDecls struct {
	uniforms       []varDecl
	blocks         []blockDecl
	inputs         []varDecl
	outputs        []varDecl
	usesDepthRange bool
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	layoutQual   = regexp.MustCompile(`layout\s*\(([^)]*)\)`)
	arraySuffix  = regexp.MustCompile(`^(\w+)\s*(?:\[\s*(\d+)\s*\])?$`)
)

var ignoredQualifiers = map[string]bool{
	"flat": true, "smooth": true, "noperspective": true, "centroid": true,
	"highp": true, "mediump": true, "lowp": true, "invariant": true,
}

func stripComments(src string) string {
	src = blockComment.ReplaceAllString(src, " ")
	return lineComment.ReplaceAllString(src, "")
}

// compileGLSL returns the declarations of src or an info log describing why
// it does not compile.
func compileGLSL(src string) (*shaderDecls, string) {
	src = stripComments(src)
	var body strings.Builder
	for i, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#error") {
			return nil, fmt.Sprintf("0(%d) : error C0000: %s", i+1, trimmed)
		}
		if strings.HasPrefix(trimmed, "#") {
			body.WriteString("\n")
			continue
		}
		body.WriteString(line)
		body.WriteString("\n")
	}

	decls := &shaderDecls{usesDepthRange: strings.Contains(src, "gl_DepthRange")}
	text := body.String()
	var stmt strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{':
			header := strings.TrimSpace(stmt.String())
			end := matchingBrace(text, i)
			if end < 0 {
				return nil, "0(0) : error C0000: unbalanced braces"
			}
			if isBlockHeader(header) {
				semi := strings.IndexByte(text[end:], ';')
				if semi < 0 {
					return nil, "0(0) : error C0000: uniform block missing ';'"
				}
				block, err := parseBlock(header, text[i+1:end], strings.TrimSpace(text[end+1:end+semi]))
				if err != "" {
					return nil, err
				}
				decls.blocks = append(decls.blocks, block)
				i = end + semi
			} else {
				i = end
			}
			stmt.Reset()
		case c == ';':
			if err := parseStatement(decls, strings.TrimSpace(stmt.String())); err != "" {
				return nil, err
			}
			stmt.Reset()
		default:
			stmt.WriteByte(c)
		}
	}
	return decls, ""
}

func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isBlockHeader(header string) bool {
	for _, f := range strings.Fields(layoutQual.ReplaceAllString(header, " ")) {
		if f == "uniform" {
			return true
		}
	}
	return false
}

// layoutArgs splits layout(...) qualifiers out of a declaration.
func layoutArgs(decl string) (string, map[string]string) {
	args := map[string]string{}
	for _, m := range layoutQual.FindAllStringSubmatch(decl, -1) {
		for _, part := range strings.Split(m[1], ",") {
			kv := strings.SplitN(part, "=", 2)
			key := strings.TrimSpace(kv[0])
			if len(kv) == 2 {
				args[key] = strings.TrimSpace(kv[1])
			} else {
				args[key] = ""
			}
		}
	}
	return layoutQual.ReplaceAllString(decl, " "), args
}

func parseVars(ty string, names string) ([]varDecl, string) {
	t, ok := gl.TypeFromName(ty)
	if !ok {
		return nil, fmt.Sprintf("0(0) : error C1008: undefined type %q", ty)
	}
	var out []varDecl
	for _, n := range strings.Split(names, ",") {
		n = strings.TrimSpace(n)
		if eq := strings.IndexByte(n, '='); eq >= 0 {
			n = strings.TrimSpace(n[:eq])
		}
		m := arraySuffix.FindStringSubmatch(n)
		if m == nil {
			return nil, fmt.Sprintf("0(0) : error C0000: syntax error near %q", n)
		}
		v := varDecl{name: m[1], ty: t, location: -1}
		if m[2] != "" {
			v.count, _ = strconv.Atoi(m[2])
		}
		out = append(out, v)
	}
	return out, ""
}

func parseStatement(decls *shaderDecls, stmt string) string {
	if stmt == "" {
		return ""
	}
	stripped, args := layoutArgs(stmt)
	fields := strings.Fields(stripped)
	var storage string
	i := 0
	for ; i < len(fields); i++ {
		f := fields[i]
		if ignoredQualifiers[f] {
			continue
		}
		if f == "uniform" || f == "in" || f == "out" || f == "attribute" || f == "varying" || f == "const" || f == "precision" {
			storage = f
			continue
		}
		break
	}
	if storage == "" || storage == "precision" || storage == "const" || i >= len(fields) {
		return ""
	}
	vars, err := parseVars(fields[i], strings.Join(fields[i+1:], " "))
	if err != "" {
		return err
	}
	if loc, ok := args["location"]; ok {
		l, _ := strconv.Atoi(loc)
		for k := range vars {
			vars[k].location = int32(l + k)
		}
	}
	switch storage {
	case "uniform":
		decls.uniforms = append(decls.uniforms, vars...)
	case "in", "attribute":
		decls.inputs = append(decls.inputs, vars...)
	case "out", "varying":
		decls.outputs = append(decls.outputs, vars...)
	}
	return ""
}

func parseBlock(header, body, instance string) (blockDecl, string) {
	stripped, args := layoutArgs(header)
	fields := strings.Fields(stripped)
	if len(fields) < 2 || fields[len(fields)-2] != "uniform" {
		return blockDecl{}, fmt.Sprintf("0(0) : error C0000: malformed block %q", header)
	}
	block := blockDecl{name: fields[len(fields)-1], instance: instance, layout: "shared"}
	for key := range args {
		switch key {
		case "std140", "shared", "packed":
			block.layout = key
		case "row_major":
			block.rowMajor = true
		case "column_major":
			block.rowMajor = false
		}
	}
	for _, stmt := range strings.Split(body, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		s, margs := layoutArgs(stmt)
		fields := strings.Fields(s)
		k := 0
		for k < len(fields) && ignoredQualifiers[fields[k]] {
			k++
		}
		if k+1 >= len(fields) {
			return blockDecl{}, fmt.Sprintf("0(0) : error C0000: malformed member %q", stmt)
		}
		vars, err := parseVars(fields[k], strings.Join(fields[k+1:], " "))
		if err != "" {
			return blockDecl{}, err
		}
		rowMajor := block.rowMajor
		if _, ok := margs["row_major"]; ok {
			rowMajor = true
		}
		if _, ok := margs["column_major"]; ok {
			rowMajor = false
		}
		for j := range vars {
			vars[j].rowMajor = rowMajor
		}
		block.members = append(block.members, vars...)
	}
	return block, ""
}

// std140Member is one row of the std140 layout table (OpenGL 4.6, section
// 7.6.2.2). Sizes are in bytes; a matrix lists its column-major layout.
type std140Member struct {
	align        int
	size         int
	arrayStride  int // stride of one element inside an array
	matrixStride int
}

var std140Table = map[gl.Enum]std140Member{
	gl.FLOAT:             {4, 4, 16, 0},
	gl.INT:               {4, 4, 16, 0},
	gl.UNSIGNED_INT:      {4, 4, 16, 0},
	gl.BOOL:              {4, 4, 16, 0},
	gl.FLOAT_VEC2:        {8, 8, 16, 0},
	gl.INT_VEC2:          {8, 8, 16, 0},
	gl.UNSIGNED_INT_VEC2: {8, 8, 16, 0},
	gl.BOOL_VEC2:         {8, 8, 16, 0},
	gl.FLOAT_VEC3:        {16, 12, 16, 0},
	gl.INT_VEC3:          {16, 12, 16, 0},
	gl.UNSIGNED_INT_VEC3: {16, 12, 16, 0},
	gl.BOOL_VEC3:         {16, 12, 16, 0},
	gl.FLOAT_VEC4:        {16, 16, 16, 0},
	gl.INT_VEC4:          {16, 16, 16, 0},
	gl.UNSIGNED_INT_VEC4: {16, 16, 16, 0},
	gl.BOOL_VEC4:         {16, 16, 16, 0},
	gl.FLOAT_MAT2:        {16, 32, 32, 16},
	gl.FLOAT_MAT2x3:      {16, 32, 32, 16},
	gl.FLOAT_MAT2x4:      {16, 32, 32, 16},
	gl.FLOAT_MAT3:        {16, 48, 48, 16},
	gl.FLOAT_MAT3x2:      {16, 48, 48, 16},
	gl.FLOAT_MAT3x4:      {16, 48, 48, 16},
	gl.FLOAT_MAT4:        {16, 64, 64, 16},
	gl.FLOAT_MAT4x2:      {16, 64, 64, 16},
	gl.FLOAT_MAT4x3:      {16, 64, 64, 16},
}

// std140RowMajor holds the matrices whose row-major layout differs from the
// column-major one: a row-major CxR matrix is stored as R vectors.
var std140RowMajor = map[gl.Enum]std140Member{
	gl.FLOAT_MAT2x3: {16, 48, 48, 16},
	gl.FLOAT_MAT2x4: {16, 64, 64, 16},
	gl.FLOAT_MAT3x2: {16, 32, 32, 16},
	gl.FLOAT_MAT3x4: {16, 64, 64, 16},
	gl.FLOAT_MAT4x2: {16, 32, 32, 16},
	gl.FLOAT_MAT4x3: {16, 48, 48, 16},
}

// memberLayout returns alignment, size, array stride and matrix stride of a
// block member. std140 reads the table above; shared and packed blocks use
// an implementation layout that gives every member a 16 byte slot per
// element.
func memberLayout(layout string, v varDecl) (align, size, arrayStride, matrixStride int) {
	if layout != "std140" {
		cols, rows, isMatrix := gl.MatrixSize(v.ty)
		if v.rowMajor {
			cols = rows
		}
		size = 16
		if isMatrix {
			size, matrixStride = 16*cols, 16
		}
		if v.count > 0 {
			return 16, size * v.count, size, matrixStride
		}
		return 16, size, 0, matrixStride
	}
	m, ok := std140Table[v.ty]
	if !ok {
		panic(fmt.Sprintf("gltest: no std140 layout for type 0x%X", uint32(v.ty)))
	}
	if r, ok := std140RowMajor[v.ty]; ok && v.rowMajor {
		m = r
	}
	if v.count > 0 {
		return 16, m.arrayStride * v.count, m.arrayStride, m.matrixStride
	}
	return m.align, m.size, 0, m.matrixStride
}
