package geometry

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// PolygonList is a list of triangles stored as consecutive point triples.
// Counter-clockwise winding, seen from the side the normal points to, marks
// the front face.
type PolygonList []math3d.Vec4

// boxTriangles indexes the eight box corners, two triangles per face.
var boxTriangles = [12][3]int{
	{0, 2, 1}, {0, 3, 2}, // front
	{4, 1, 5}, {4, 0, 1}, // top
	{7, 0, 4}, {7, 3, 0}, // left
	{6, 3, 7}, {6, 2, 3}, // bottom
	{5, 2, 6}, {5, 1, 2}, // right
	{7, 5, 6}, {7, 4, 5}, // back
}

// AddPolygon appends the triangle a, b, c.
func (p *PolygonList) AddPolygon(a, b, c math3d.Vec3) {
	*p = append(*p, math3d.PointOf(a), math3d.PointOf(b), math3d.PointOf(c))
}

// AddBox appends an axis-aligned box whose top-front-left corner is origin.
// The box extends width along +x, height along -y and depth along -z.
func (p *PolygonList) AddBox(origin math3d.Vec3, width, height, depth float64) {
	x, y, z := origin.X, origin.Y, origin.Z
	corners := [8]math3d.Vec3{
		{X: x, Y: y, Z: z},
		{X: x + width, Y: y, Z: z},
		{X: x + width, Y: y - height, Z: z},
		{X: x, Y: y - height, Z: z},
		{X: x, Y: y, Z: z - depth},
		{X: x + width, Y: y, Z: z - depth},
		{X: x + width, Y: y - height, Z: z - depth},
		{X: x, Y: y - height, Z: z - depth},
	}
	for _, tri := range boxTriangles {
		p.AddPolygon(corners[tri[0]], corners[tri[1]], corners[tri[2]])
	}
}

// surfaceGrid samples fn over a (steps+1) x (steps+1) grid. Point (rot, cir)
// lives at index rot*(steps+1)+cir.
func surfaceGrid(steps int, fn func(rot, cir float64) math3d.Vec3) []math3d.Vec3 {
	pts := make([]math3d.Vec3, 0, (steps+1)*(steps+1))
	for i := 0; i <= steps; i++ {
		rot := float64(i) / float64(steps)
		for j := 0; j <= steps; j++ {
			pts = append(pts, fn(rot, float64(j)/float64(steps)))
		}
	}
	return pts
}

// SpherePoints returns the sample grid used by AddSphere.
func SpherePoints(center math3d.Vec3, r float64, steps int) []math3d.Vec3 {
	return surfaceGrid(steps, func(rot, cir float64) math3d.Vec3 {
		ring := r * math.Sin(math.Pi*cir)
		return math3d.V3(
			r*math.Cos(math.Pi*cir)+center.X,
			ring*math.Cos(2*math.Pi*rot)+center.Y,
			ring*math.Sin(2*math.Pi*rot)+center.Z,
		)
	})
}

// AddSphere appends a triangulated sphere. The poles lie on the x axis
// through center. It emits 2*steps*(steps-2) band triangles plus steps
// triangles in each pole fan. steps below 3 is raised to 3.
func (p *PolygonList) AddSphere(center math3d.Vec3, r float64, steps int) {
	steps = max(steps, 3)
	pts := SpherePoints(center, r, steps)
	at := func(lon, lat int) math3d.Vec3 {
		return pts[lon*(steps+1)+lat]
	}

	for lon := range steps {
		next := (lon + 1) % steps

		p.AddPolygon(at(lon, 0), at(lon, 1), at(next, 1))

		for lat := 1; lat < steps-1; lat++ {
			p1, p2 := at(lon, lat), at(lon, lat+1)
			p1Across, p2Across := at(next, lat), at(next, lat+1)
			p.AddPolygon(p1, p2, p2Across)
			p.AddPolygon(p1, p2Across, p1Across)
		}

		p.AddPolygon(at(lon, steps), at(next, steps-1), at(lon, steps-1))
	}
}

// TorusPoints returns the sample grid used by AddTorus.
func TorusPoints(center math3d.Vec3, r1, r2 float64, steps int) []math3d.Vec3 {
	return surfaceGrid(steps, func(rot, cir float64) math3d.Vec3 {
		ring := r1*math.Cos(2*math.Pi*cir) + r2
		return math3d.V3(
			math.Cos(2*math.Pi*rot)*ring+center.X,
			r1*math.Sin(2*math.Pi*cir)+center.Y,
			-math.Sin(2*math.Pi*rot)*ring+center.Z,
		)
	})
}

// AddTorus appends a torus with tube radius r1 swept around the y axis at
// distance r2 from center. It emits 2*steps*steps triangles.
func (p *PolygonList) AddTorus(center math3d.Vec3, r1, r2 float64, steps int) {
	steps = max(steps, 3)
	pts := TorusPoints(center, r1, r2, steps)
	at := func(around, on int) math3d.Vec3 {
		return pts[around*(steps+1)+on]
	}

	for around := range steps {
		next := (around + 1) % steps
		for on := range steps {
			p1, p2 := at(around, on), at(around, on+1)
			p1Across, p2Across := at(next, on), at(next, on+1)
			p.AddPolygon(p1, p2Across, p2)
			p.AddPolygon(p1, p1Across, p2Across)
		}
	}
}

// Len returns the number of triangles.
func (p PolygonList) Len() int {
	return len(p) / 3
}

// Triangle returns the vertices of triangle i.
func (p PolygonList) Triangle(i int) (a, b, c math3d.Vec4) {
	return p[3*i], p[3*i+1], p[3*i+2]
}

// Transform multiplies every point by m.
func (p PolygonList) Transform(m math3d.Mat4) {
	m.Apply(p)
}

// Reset empties the list, keeping its storage.
func (p *PolygonList) Reset() {
	*p = (*p)[:0]
}

// Edges appends the outline of every triangle to e.
func (p PolygonList) Edges(e *EdgeList) {
	for i := range p.Len() {
		a, b, c := p.Triangle(i)
		*e = append(*e, a, b, b, c, c, a)
	}
}
