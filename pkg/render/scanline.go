package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
)

// vertex is a transformed triangle corner plus one attribute triple that is
// interpolated alongside x and z (a color for Gouraud, a normal for Phong).
type vertex struct {
	x, y, z float64
	aux     [3]float64
}

// edge walks one triangle edge a scanline at a time.
type edge struct {
	x, z   float64
	aux    [3]float64
	dx, dz float64
	daux   [3]float64
}

// newEdge starts at from and steps towards to over distance scanlines.
// A zero distance yields a flat edge instead of a division by zero.
func newEdge(from, to vertex, distance float64) edge {
	e := edge{x: from.x, z: from.z, aux: from.aux}
	if distance == 0 {
		return e
	}
	e.dx = (to.x - from.x) / distance
	e.dz = (to.z - from.z) / distance
	for i := range 3 {
		e.daux[i] = (to.aux[i] - from.aux[i]) / distance
	}
	return e
}

func (e *edge) step() {
	e.x += e.dx
	e.z += e.dz
	for i := range 3 {
		e.aux[i] += e.daux[i]
	}
}

// sortByY orders the corners bottom, middle, top. Attributes travel with
// their corner.
func sortByY(v *[3]vertex) {
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
}

// spanFunc fills scanline y between two edge positions, in either order.
type spanFunc func(y int, a, b *edge)

// scanTriangle walks the long edge bottom→top against the short edges
// bottom→middle and middle→top, calling fill once per integer scanline.
func scanTriangle(tri [3]vertex, height int, fill spanFunc) {
	sortByY(&tri)
	bot, mid, top := tri[0], tri[1], tri[2]
	yBot, yMid, yTop := int(bot.y), int(mid.y), int(top.y)

	long := newEdge(bot, top, float64(yTop-yBot)+1)
	short := newEdge(bot, mid, float64(yMid-yBot)+1)
	flipped := false

	for y := yBot; y <= yTop; y++ {
		if !flipped && y >= yMid {
			flipped = true
			short = newEdge(mid, top, float64(yTop-yMid)+1)
		}
		if y >= 0 && y < height {
			fill(y, &long, &short)
		}
		long.step()
		short.step()
	}
}

// span is one scanline segment ordered left to right with per-pixel steps.
type span struct {
	x0, x1 int
	z, dz  float64
	aux    [3]float64
	daux   [3]float64
}

// newSpan orders a and b left to right and clips the start to column 0 and
// the end to width-1. Clipping advances the interpolants so visible pixels
// keep the values they would have had unclipped.
func newSpan(a, b *edge, width int) span {
	x0, x1 := int(a.x), int(b.x)
	z0, z1 := a.z, b.z
	aux0, aux1 := a.aux, b.aux
	if x0 > x1 {
		x0, x1 = x1, x0
		z0, z1 = z1, z0
		aux0, aux1 = aux1, aux0
	}

	s := span{x0: x0, x1: x1, z: z0, aux: aux0}
	distance := float64(x1-x0) + 1
	if distance != 0 {
		s.dz = (z1 - z0) / distance
		for i := range 3 {
			s.daux[i] = (aux1[i] - aux0[i]) / distance
		}
	}

	if s.x0 < 0 {
		skip := float64(-s.x0)
		s.z += s.dz * skip
		for i := range 3 {
			s.aux[i] += s.daux[i] * skip
		}
		s.x0 = 0
	}
	s.x1 = min(s.x1, width-1)
	return s
}

func (s *span) step() {
	s.z += s.dz
	for i := range 3 {
		s.aux[i] += s.daux[i]
	}
}

func cornersOf(a, b, c math3d.Vec4) [3]vertex {
	return [3]vertex{
		{x: a.X, y: a.Y, z: a.Z},
		{x: b.X, y: b.Y, z: b.Z},
		{x: c.X, y: c.Y, z: c.Z},
	}
}

// fillFlat fills a triangle with one color using a depth-interpolated line
// per scanline.
func fillFlat(pic *Picture, tri [3]vertex, c Color) {
	scanTriangle(tri, pic.height, func(y int, a, b *edge) {
		pic.DrawLine(int(a.x), y, a.z, int(b.x), y, b.z, c)
	})
}

// fillGouraud interpolates the vertex colors stored in aux.
func fillGouraud(pic *Picture, tri [3]vertex) {
	scanTriangle(tri, pic.height, func(y int, a, b *edge) {
		s := newSpan(a, b, pic.width)
		for x := s.x0; x <= s.x1; x++ {
			pic.Plot(x, y, s.z, RGB8(clampChannel(s.aux[0]), clampChannel(s.aux[1]), clampChannel(s.aux[2])))
			s.step()
		}
	})
}

// fillPhong interpolates the vertex normals stored in aux and lights every
// pixel.
func fillPhong(pic *Picture, tri [3]vertex, l Lighting, k ReflectionConstants) {
	scanTriangle(tri, pic.height, func(y int, a, b *edge) {
		s := newSpan(a, b, pic.width)
		for x := s.x0; x <= s.x1; x++ {
			n := math3d.V3(s.aux[0], s.aux[1], s.aux[2])
			pic.Plot(x, y, s.z, Illuminate(n, l, k))
			s.step()
		}
	})
}
