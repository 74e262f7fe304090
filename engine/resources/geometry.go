package resources

import (
	"github.com/spaghettifunk/gin/engine/core"
	"github.com/spaghettifunk/gin/engine/math"
)

const (
	DefaultGeometryName = "default"
	DefaultMaterialName = "default"
)

/**
 * @brief Vertex and index data for one drawable node, with the name of the
 * material it is drawn with.
 */
type GeometryConfig struct {
	Name         string
	MaterialName string
	Vertices     []math.Vertex3D
	Indices      []uint32
	MinExtents   math.Vec3
	MaxExtents   math.Vec3
}

func nonZero(v *float32, what string) {
	if *v == 0 {
		core.LogWarn("%s must be nonzero. Defaulting to one.", what)
		*v = 1
	}
}

func names(config *GeometryConfig, name, materialName string) {
	config.Name = name
	if config.Name == "" {
		config.Name = DefaultGeometryName
	}
	config.MaterialName = materialName
	if config.MaterialName == "" {
		config.MaterialName = DefaultMaterialName
	}
}

// GeneratePlane builds a plane on the XZ axes facing +Y, split into
// segments with tileX by tileY texture repeats.
func GeneratePlane(width, depth float32, xSegments, zSegments uint32, tileX, tileY float32, name, materialName string) *GeometryConfig {
	nonZero(&width, "Width")
	nonZero(&depth, "Depth")
	nonZero(&tileX, "tileX")
	nonZero(&tileY, "tileY")
	if xSegments < 1 {
		core.LogWarn("xSegments must be a positive number. Defaulting to one.")
		xSegments = 1
	}
	if zSegments < 1 {
		core.LogWarn("zSegments must be a positive number. Defaulting to one.")
		zSegments = 1
	}

	config := &GeometryConfig{
		Vertices:   make([]math.Vertex3D, xSegments*zSegments*4),
		Indices:    make([]uint32, xSegments*zSegments*6),
		MinExtents: math.NewVec3(-width*0.5, 0, -depth*0.5),
		MaxExtents: math.NewVec3(width*0.5, 0, depth*0.5),
	}
	segWidth := width / float32(xSegments)
	segDepth := depth / float32(zSegments)
	up := math.NewVec3Up()
	for z := uint32(0); z < zSegments; z++ {
		for x := uint32(0); x < xSegments; x++ {
			minX := float32(x)*segWidth - width*0.5
			minZ := float32(z)*segDepth - depth*0.5
			maxX, maxZ := minX+segWidth, minZ+segDepth
			minU := float32(x) / float32(xSegments) * tileX
			minV := float32(z) / float32(zSegments) * tileY
			maxU := float32(x+1) / float32(xSegments) * tileX
			maxV := float32(z+1) / float32(zSegments) * tileY

			v := ((z * xSegments) + x) * 4
			config.Vertices[v+0] = math.Vertex3D{Position: math.NewVec3(minX, 0, maxZ), Normal: up, Texcoord: math.NewVec2(minU, minV)}
			config.Vertices[v+1] = math.Vertex3D{Position: math.NewVec3(maxX, 0, minZ), Normal: up, Texcoord: math.NewVec2(maxU, maxV)}
			config.Vertices[v+2] = math.Vertex3D{Position: math.NewVec3(minX, 0, minZ), Normal: up, Texcoord: math.NewVec2(minU, maxV)}
			config.Vertices[v+3] = math.Vertex3D{Position: math.NewVec3(maxX, 0, maxZ), Normal: up, Texcoord: math.NewVec2(maxU, minV)}
			quadIndices(config.Indices[((z*xSegments)+x)*6:], v)
		}
	}
	names(config, name, materialName)
	return config
}

// quad corners in the order bottom-left, top-right, top-left, bottom-right
// of the face seen from outside.
type face struct {
	normal  math.Vec3
	corners [4]math.Vec3
}

// GenerateCube builds an axis aligned box centred on the origin with four
// vertices per face so every face gets its own normal.
func GenerateCube(width, height, depth, tileX, tileY float32, name, materialName string) *GeometryConfig {
	nonZero(&width, "Width")
	nonZero(&height, "Height")
	nonZero(&depth, "Depth")
	nonZero(&tileX, "tileX")
	nonZero(&tileY, "tileY")

	x0, y0, z0 := -width*0.5, -height*0.5, -depth*0.5
	x1, y1, z1 := -x0, -y0, -z0
	faces := [6]face{
		{math.NewVec3(0, 0, 1), [4]math.Vec3{{X: x0, Y: y0, Z: z1}, {X: x1, Y: y1, Z: z1}, {X: x0, Y: y1, Z: z1}, {X: x1, Y: y0, Z: z1}}},
		{math.NewVec3(0, 0, -1), [4]math.Vec3{{X: x1, Y: y0, Z: z0}, {X: x0, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z0}, {X: x0, Y: y0, Z: z0}}},
		{math.NewVec3(-1, 0, 0), [4]math.Vec3{{X: x0, Y: y0, Z: z0}, {X: x0, Y: y1, Z: z1}, {X: x0, Y: y1, Z: z0}, {X: x0, Y: y0, Z: z1}}},
		{math.NewVec3(1, 0, 0), [4]math.Vec3{{X: x1, Y: y0, Z: z1}, {X: x1, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z1}, {X: x1, Y: y0, Z: z0}}},
		{math.NewVec3(0, -1, 0), [4]math.Vec3{{X: x1, Y: y0, Z: z1}, {X: x0, Y: y0, Z: z0}, {X: x1, Y: y0, Z: z0}, {X: x0, Y: y0, Z: z1}}},
		{math.NewVec3(0, 1, 0), [4]math.Vec3{{X: x0, Y: y1, Z: z1}, {X: x1, Y: y1, Z: z0}, {X: x0, Y: y1, Z: z0}, {X: x1, Y: y1, Z: z1}}},
	}
	uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: tileX, Y: tileY}, {X: 0, Y: tileY}, {X: tileX, Y: 0}}

	config := &GeometryConfig{
		Vertices:   make([]math.Vertex3D, 0, 24),
		Indices:    make([]uint32, 36),
		MinExtents: math.NewVec3(x0, y0, z0),
		MaxExtents: math.NewVec3(x1, y1, z1),
	}
	for i, f := range faces {
		for c := range f.corners {
			config.Vertices = append(config.Vertices, math.Vertex3D{Position: f.corners[c], Normal: f.normal, Texcoord: uvs[c]})
		}
		quadIndices(config.Indices[i*6:], uint32(i*4))
	}
	names(config, name, materialName)
	return config
}

func quadIndices(dst []uint32, v uint32) {
	dst[0], dst[1], dst[2] = v+0, v+1, v+2
	dst[3], dst[4], dst[5] = v+0, v+3, v+1
}

// NodeData is one drawable part of a model: indices into the shared
// vertices and the material to draw them with.
type NodeData struct {
	Name         string
	MaterialName string
	Indices      []uint32
}

// ModelData is a set of nodes sharing one vertex stream.
type ModelData struct {
	Name     string
	Vertices []math.Vertex3D
	Nodes    []NodeData
}

// NewModelData merges geometries into one model. Each geometry becomes a
// node and its indices are rebased onto the shared vertices.
func NewModelData(name string, geometries ...*GeometryConfig) *ModelData {
	m := &ModelData{Name: name}
	for _, g := range geometries {
		base := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, g.Vertices...)
		indices := make([]uint32, len(g.Indices))
		for i, idx := range g.Indices {
			core.Assert(int(idx) < len(g.Vertices), "geometry %s indexes vertex %d of %d", g.Name, idx, len(g.Vertices))
			indices[i] = base + idx
		}
		m.Nodes = append(m.Nodes, NodeData{Name: g.Name, MaterialName: g.MaterialName, Indices: indices})
	}
	return m
}
