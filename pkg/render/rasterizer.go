package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/scanline/pkg/geometry"
	"github.com/taigrr/scanline/pkg/math3d"
)

// ErrNormalsMismatch is returned when Gouraud or Phong shading is requested
// without exactly one normal per polygon-list point.
var ErrNormalsMismatch = errors.New("vertex normals do not match polygon list")

// Rasterizer draws transformed edge and polygon lists into a Picture.
// The viewer looks down -z from <0, 0, 1>; no projection is applied.
type Rasterizer struct {
	pic                    *Picture
	Lighting               Lighting  // Light sources used for shading
	DisableBackfaceCulling bool      // If true, render both sides of triangles
	Wireframe              bool      // If true, outline triangles instead of filling
	LineColor              Color     // Color for edges and wireframe outlines
	Stats                  DrawStats // Running totals since the last ResetStats
}

// DrawStats counts triangles handled by DrawPolygons.
type DrawStats struct {
	Drawn  int // Triangles rasterized
	Culled int // Triangles discarded as back-facing
}

// Add accumulates o into s.
func (s *DrawStats) Add(o DrawStats) {
	s.Drawn += o.Drawn
	s.Culled += o.Culled
}

// NewRasterizer creates a rasterizer targeting pic with the default lighting.
func NewRasterizer(pic *Picture) *Rasterizer {
	return &Rasterizer{
		pic:       pic,
		Lighting:  DefaultLighting(),
		LineColor: ColorBlack,
	}
}

// Picture returns the target picture.
func (r *Rasterizer) Picture() *Picture {
	return r.pic
}

// ResetStats zeroes the running totals.
func (r *Rasterizer) ResetStats() {
	r.Stats = DrawStats{}
}

// IsFrontFacing reports whether the triangle a, b, c faces the viewer, which
// is the case when its normal has a positive z component.
func IsFrontFacing(a, b, c math3d.Vec3) bool {
	return geometry.FaceNormal(a, b, c).Z > 0
}

// DrawEdges draws every segment of e in color c.
func (r *Rasterizer) DrawEdges(e geometry.EdgeList, c Color) {
	for i := range e.Len() {
		a, b := e.Edge(i)
		r.pic.DrawLine(int(a.X), int(a.Y), a.Z, int(b.X), int(b.Y), b.Z, c)
	}
}

// DrawPolygons rasterizes every triangle of p with the given shading mode and
// material. normals must hold one entry per point of p for Gouraud and Phong
// shading and is ignored otherwise.
func (r *Rasterizer) DrawPolygons(p geometry.PolygonList, normals []math3d.Vec3, mode ShadingMode, k ReflectionConstants) (DrawStats, error) {
	var stats DrawStats
	if mode.NeedsNormals() && !r.Wireframe && len(normals) != len(p) {
		return stats, fmt.Errorf("draw %s polygons: %w: %d normals for %d points", mode, ErrNormalsMismatch, len(normals), len(p))
	}

	for i := range p.Len() {
		a, b, c := p.Triangle(i)
		faceNormal := geometry.FaceNormal(a.Vec3(), b.Vec3(), c.Vec3())
		if !r.DisableBackfaceCulling && faceNormal.Z <= 0 {
			stats.Culled++
			continue
		}
		stats.Drawn++

		if r.Wireframe {
			r.drawOutline(a, b, c)
			continue
		}

		tri := cornersOf(a, b, c)
		switch mode {
		case ShadingGouraud:
			for j := range 3 {
				col := Illuminate(normals[3*i+j], r.Lighting, k)
				tri[j].aux = [3]float64{float64(col.R), float64(col.G), float64(col.B)}
			}
			fillGouraud(r.pic, tri)
		case ShadingPhong:
			for j := range 3 {
				n := normals[3*i+j]
				tri[j].aux = [3]float64{n.X, n.Y, n.Z}
			}
			fillPhong(r.pic, tri, r.Lighting, k)
		default:
			fillFlat(r.pic, tri, Illuminate(faceNormal, r.Lighting, k))
		}
	}

	r.Stats.Add(stats)
	return stats, nil
}

func (r *Rasterizer) drawOutline(a, b, c math3d.Vec4) {
	for _, seg := range [3][2]math3d.Vec4{{a, b}, {b, c}, {c, a}} {
		p, q := seg[0], seg[1]
		r.pic.DrawLine(int(p.X), int(p.Y), p.Z, int(q.X), int(q.Y), q.Z, r.LineColor)
	}
}
