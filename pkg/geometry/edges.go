// Package geometry builds point lists for the scanline renderer.
//
// An EdgeList stores line segments as consecutive point pairs and a
// PolygonList stores triangles as consecutive point triples. Builders append
// points in the caller's local frame; the caller transforms the whole list
// by the current coordinate system before drawing it.
package geometry

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// DefaultSteps is the sampling resolution used for curves and surfaces.
const DefaultSteps = 30

// Parametric maps t in [0, 1] to a point on a curve.
type Parametric func(t float64) math3d.Vec3

// EdgeList is a list of line segments stored as consecutive point pairs.
type EdgeList []math3d.Vec4

// AddEdge appends the segment a-b.
func (e *EdgeList) AddEdge(a, b math3d.Vec3) {
	*e = append(*e, math3d.PointOf(a), math3d.PointOf(b))
}

// AddParametric samples fn at steps+1 evenly spaced values of t and appends
// the steps segments joining consecutive samples.
func (e *EdgeList) AddParametric(fn Parametric, steps int) {
	steps = max(steps, 1)
	prev := fn(0)
	for i := 1; i <= steps; i++ {
		cur := fn(float64(i) / float64(steps))
		e.AddEdge(prev, cur)
		prev = cur
	}
}

// AddCircle appends a circle of radius r around center, lying in the plane
// z = center.Z.
func (e *EdgeList) AddCircle(center math3d.Vec3, r float64, steps int) {
	e.AddParametric(func(t float64) math3d.Vec3 {
		theta := 2 * math.Pi * t
		return math3d.V3(r*math.Cos(theta)+center.X, r*math.Sin(theta)+center.Y, center.Z)
	}, steps)
}

// AddHermite appends the cubic from p0 to p1 with tangents r0 and r1.
func (e *EdgeList) AddHermite(p0, p1, r0, r1 math3d.Vec2, steps int) {
	e.AddParametric(cubicCurve(math3d.HermiteBasis, p0, p1, r0, r1), steps)
}

// AddBezier appends the cubic Bezier curve with control points p0..p3.
func (e *EdgeList) AddBezier(p0, p1, p2, p3 math3d.Vec2, steps int) {
	e.AddParametric(cubicCurve(math3d.BezierBasis, p0, p1, p2, p3), steps)
}

func cubicCurve(basis math3d.Mat4, g0, g1, g2, g3 math3d.Vec2) Parametric {
	x := math3d.CubicCoefficients(basis, [4]float64{g0.X, g1.X, g2.X, g3.X})
	y := math3d.CubicCoefficients(basis, [4]float64{g0.Y, g1.Y, g2.Y, g3.Y})
	return func(t float64) math3d.Vec3 {
		return math3d.V3(x.At(t), y.At(t), 0)
	}
}

// Len returns the number of segments.
func (e EdgeList) Len() int {
	return len(e) / 2
}

// Edge returns the endpoints of segment i.
func (e EdgeList) Edge(i int) (a, b math3d.Vec4) {
	return e[2*i], e[2*i+1]
}

// Transform multiplies every point by m.
func (e EdgeList) Transform(m math3d.Mat4) {
	m.Apply(e)
}

// Reset empties the list, keeping its storage.
func (e *EdgeList) Reset() {
	*e = (*e)[:0]
}
