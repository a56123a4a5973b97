package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind. The normal
// must have unit length for the result to be a true distance.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the AABB bounding all 8 corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulVec4(math3d.PointOf(c)).Vec3()
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// InFront reports whether any part of b lies on the normal side of p. It
// tests the corner furthest along the normal.
func (b AABB) InFront(p Plane) bool {
	pVertex := math3d.V3(
		selectComponent(p.Normal.X >= 0, b.Max.X, b.Min.X),
		selectComponent(p.Normal.Y >= 0, b.Max.Y, b.Min.Y),
		selectComponent(p.Normal.Z >= 0, b.Max.Z, b.Min.Z),
	)
	return p.DistanceToPoint(pVertex) >= 0
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// ViewPlanes returns the left, right, bottom and top planes of the picture
// with normals pointing inward. They sit half a pixel outside the pixel
// centers so anything that rounds onto the picture is kept. Depth is
// unbounded.
func (p *Picture) ViewPlanes() [4]Plane {
	return [4]Plane{
		{Normal: math3d.V3(1, 0, 0), D: 0.5},
		{Normal: math3d.V3(-1, 0, 0), D: float64(p.width) - 0.5},
		{Normal: math3d.V3(0, 1, 0), D: 0.5},
		{Normal: math3d.V3(0, -1, 0), D: float64(p.height) - 0.5},
	}
}

// Visible reports whether a box in picture coordinates can cover any pixel.
func (p *Picture) Visible(b AABB) bool {
	for _, plane := range p.ViewPlanes() {
		if !b.InFront(plane) {
			return false
		}
	}
	return true
}
