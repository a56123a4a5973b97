package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/scanline/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// ApplyNodeTransforms bakes each node's local transform, composed down
	// the scene graph, into the vertices of the meshes it references.
	ApplyNodeTransforms bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{ApplyNodeTransforms: true}
}

// LoadGLB loads a binary GLTF (.glb) or JSON GLTF file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := l.FromDocument(doc)
	if err != nil {
		return nil, err
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// FromDocument converts an already decoded document.
func (l *GLTFLoader) FromDocument(doc *gltf.Document) (*Mesh, error) {
	mesh := NewMesh("")
	for _, mat := range doc.Materials {
		mesh.Materials = append(mesh.Materials, materialFrom(mat))
	}

	roots := sceneRoots(doc)
	if !l.ApplyNodeTransforms || roots == nil {
		for i, m := range doc.Meshes {
			if err := processMesh(doc, m, math3d.Identity(), mesh); err != nil {
				return nil, fmt.Errorf("process mesh %d: %w", i, err)
			}
		}
	} else {
		stack := math3d.NewStack()
		for _, n := range roots {
			if err := l.walk(doc, n, stack, mesh); err != nil {
				return nil, err
			}
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// sceneRoots returns the root nodes of the default scene, or nil when the
// document has no scene.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	scene := 0
	if doc.Scene != nil {
		scene = *doc.Scene
	}
	if scene < 0 || scene >= len(doc.Scenes) {
		return nil
	}
	return doc.Scenes[scene].Nodes
}

// walk visits node and its children depth first, composing local
// transforms on the coordinate stack.
func (l *GLTFLoader) walk(doc *gltf.Document, idx int, stack *math3d.Stack, mesh *Mesh) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node %d out of range", idx)
	}
	node := doc.Nodes[idx]

	stack.Push()
	defer stack.Pop()
	stack.Apply(nodeMatrix(node))

	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh %d out of range", idx, *node.Mesh)
		}
		m := doc.Meshes[*node.Mesh]
		if err := processMesh(doc, m, stack.Peek(), mesh); err != nil {
			return fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	for _, child := range node.Children {
		if err := l.walk(doc, child, stack, mesh); err != nil {
			return err
		}
	}
	return nil
}

// nodeMatrix returns the node's local transform, either its explicit matrix
// or T · R · S from its decomposed form.
func nodeMatrix(n *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(n.MatrixOrDefault())
	if m != math3d.Identity() {
		return m
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return math3d.Translate(math3d.V3(t[0], t[1], t[2])).
		Mul(quaternionMatrix(r)).
		Mul(math3d.Scale(math3d.V3(s[0], s[1], s[2])))
}

// quaternionMatrix converts a unit quaternion (x, y, z, w) to a rotation.
func quaternionMatrix(q [4]float64) math3d.Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	m := math3d.Identity()
	m.Set(0, 0, 1-2*(y*y+z*z))
	m.Set(0, 1, 2*(x*y-z*w))
	m.Set(0, 2, 2*(x*z+y*w))
	m.Set(1, 0, 2*(x*y+z*w))
	m.Set(1, 1, 1-2*(x*x+z*z))
	m.Set(1, 2, 2*(y*z-x*w))
	m.Set(2, 0, 2*(x*z-y*w))
	m.Set(2, 1, 2*(y*z+x*w))
	m.Set(2, 2, 1-2*(x*x+y*y))
	return m
}

func materialFrom(mat *gltf.Material) Material {
	out := Material{
		Name:      mat.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
	if pbr := mat.PBRMetallicRoughness; pbr != nil {
		out.BaseColor = pbr.BaseColorFactorOrDefault()
		out.Metallic = pbr.MetallicFactorOrDefault()
		out.Roughness = pbr.RoughnessFactorOrDefault()
	}
	return out
}

// processMesh appends the triangle primitives of m, transformed by xf.
// glTF front faces are counter-clockwise, which is the renderer's
// convention, so winding is kept.
func processMesh(doc *gltf.Document, m *gltf.Mesh, xf math3d.Mat4, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if posIdx < 0 || posIdx >= len(doc.Accessors) {
			return fmt.Errorf("position accessor %d out of range", posIdx)
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		material := -1
		if prim.Material != nil {
			material = *prim.Material
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			v := math3d.Point(float64(p[0]), float64(p[1]), float64(p[2]))
			mesh.Vertices = append(mesh.Vertices, xf.MulVec4(v).Vec3())
		}

		if prim.Indices == nil {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.AddFace(base+i, base+i+1, base+i+2, material)
			}
			continue
		}

		if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
			return fmt.Errorf("index accessor %d out of range", *prim.Indices)
		}
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if max(a, b, c) >= len(positions) {
				return fmt.Errorf("index %d out of range for %d vertices", max(a, b, c), len(positions))
			}
			mesh.AddFace(base+a, base+b, base+c, material)
		}
	}
	return nil
}
