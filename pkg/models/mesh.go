// Package models loads triangle meshes from model files and converts them
// into polygon lists for the scanline renderer.
package models

import (
	"math"

	"github.com/taigrr/scanline/pkg/geometry"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/render"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name      string
	Vertices  []math3d.Vec3
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a counter-clockwise triangle with a material reference.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the subset of a glTF PBR material the renderer can use.
type Material struct {
	Name      string
	BaseColor [4]float64 // RGBA in 0-1 range
	Metallic  float64    // 0 = dielectric, 1 = metal
	Roughness float64    // 0 = smooth, 1 = rough
}

// Constants maps the material onto Phong reflection coefficients. Metals
// lose diffuse reflection and tint their highlights; rough surfaces lose
// highlights.
func (m Material) Constants() render.ReflectionConstants {
	var k render.ReflectionConstants
	gloss := 1 - m.Roughness
	for i := range 3 {
		base := m.BaseColor[i]
		k.Ambient[i] = 0.1 * base
		k.Diffuse[i] = 0.8 * base * (1 - 0.5*m.Metallic)
		k.Specular[i] = gloss * (0.3*(1-m.Metallic) + base*m.Metallic)
	}
	return k
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddFace appends a triangle referencing existing vertices.
func (m *Mesh) AddFace(a, b, c, material int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: material})
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i, v := range m.Vertices {
		m.Vertices[i] = mat.MulVec4(math3d.PointOf(v)).Vec3()
	}
	m.CalculateBounds()
}

// FitTransform returns the matrix that centers the mesh on the origin and
// scales its largest dimension to size.
func (m *Mesh) FitTransform(size float64) math3d.Mat4 {
	s := m.Size()
	maxDim := math.Max(s.X, math.Max(s.Y, s.Z))
	if maxDim <= 0 {
		return math3d.Translate(m.Center().Scale(-1))
	}
	k := size / maxDim
	return math3d.Scale(math3d.V3(k, k, k)).Mul(math3d.Translate(m.Center().Scale(-1)))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]math3d.Vec3, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// AppendPolygons appends every face to p as an unindexed triangle.
func (m *Mesh) AppendPolygons(p *geometry.PolygonList) {
	for _, f := range m.Faces {
		p.AddPolygon(m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]])
	}
}

// Polygons returns the mesh as a new polygon list.
func (m *Mesh) Polygons() geometry.PolygonList {
	p := make(geometry.PolygonList, 0, 3*len(m.Faces))
	m.AppendPolygons(&p)
	return p
}

// Groups splits the mesh into one polygon list per material. Faces without
// a material are grouped under index -1.
func (m *Mesh) Groups() map[int]geometry.PolygonList {
	groups := make(map[int]geometry.PolygonList)
	for _, f := range m.Faces {
		p := groups[f.Material]
		p.AddPolygon(m.Vertices[f.V[0]], m.Vertices[f.V[1]], m.Vertices[f.V[2]])
		groups[f.Material] = p
	}
	return groups
}
