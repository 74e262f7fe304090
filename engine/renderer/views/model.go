package views

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
	"github.com/spaghettifunk/gin/engine/renderer/components"
	"github.com/spaghettifunk/gin/engine/renderer/gl"
	"github.com/spaghettifunk/gin/engine/renderer/opengl"
	"github.com/spaghettifunk/gin/engine/resources"
)

// Attribute locations of the interleaved vertex layout. Shaders declare
// them with layout qualifiers or get them pinned at link time.
const (
	PositionLocation uint32 = 0
	NormalLocation   uint32 = 1
	TexcoordLocation uint32 = 2
)

// AttribLocations pins the vertex inputs of programs that draw models.
var AttribLocations = map[string]uint32{
	"Position": PositionLocation,
	"Normal":   NormalLocation,
	"Texcoord": TexcoordLocation,
}

// Node is one draw of a model: its own indices and vertex array over the
// shared vertices, drawn with a material that other nodes may share.
type Node struct {
	Name     string
	Material *components.Values
	vao      *opengl.VertexArray
	indices  *opengl.Buffer
}

func (n *Node) VertexArray() *opengl.VertexArray { return n.vao }

// Model owns the vertex buffer its nodes share.
type Model struct {
	Name      string
	Transform math.Transform
	Nodes     []*Node
	vertices  *opengl.Buffer
}

// MaterialLookup returns the material values for a material name.
type MaterialLookup func(name string) *components.Values

// NewModel uploads data and builds one node per data node.
func NewModel(ctx *opengl.Context, data *resources.ModelData, materials MaterialLookup) *Model {
	m := &Model{
		Name:      data.Name,
		Transform: math.NewTransform(),
		vertices:  opengl.NewBuffer(ctx, gl.ARRAY_BUFFER, opengl.VertexLayout),
	}
	m.vertices.Upload(data.Vertices, gl.STATIC_DRAW)
	for _, nd := range data.Nodes {
		material := materials(nd.MaterialName)
		core.Assert(material != nil && material.Class() == components.Material,
			"node %s of model %s has no material %s", nd.Name, data.Name, nd.MaterialName)

		indices := opengl.NewBuffer(ctx, gl.ELEMENT_ARRAY_BUFFER, opengl.IndexLayout)
		indices.Upload(nd.Indices, gl.STATIC_DRAW)
		vao := opengl.NewVertexArray(ctx)
		vao.BindBuffer(m.vertices, PositionLocation, NormalLocation, TexcoordLocation)
		vao.SetIndices(indices)
		m.Nodes = append(m.Nodes, &Node{Name: nd.Name, Material: material, vao: vao, indices: indices})
	}
	core.LogDebug("model %s: %d vertices, %d nodes", data.Name, len(data.Vertices), len(m.Nodes))
	return m
}

func (m *Model) Release() {
	for _, n := range m.Nodes {
		n.vao.Release()
		n.indices.Release()
	}
	m.Nodes = nil
	m.vertices.Release()
}
