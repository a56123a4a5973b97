package geometry

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

const epsilon = 1e-9

func near(a, b math3d.Vec3) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

func centroid(a, b, c math3d.Vec4) math3d.Vec3 {
	return a.Vec3().Add(b.Vec3()).Add(c.Vec3()).Scale(1.0 / 3)
}

func TestAddEdge(t *testing.T) {
	var e EdgeList
	e.AddEdge(math3d.V3(0, 0, 0), math3d.V3(10, 20, 30))

	if e.Len() != 1 || len(e) != 2 {
		t.Fatalf("Len() = %d, points = %d", e.Len(), len(e))
	}
	if _, b := e.Edge(0); b != math3d.Point(10, 20, 30) {
		t.Errorf("second endpoint = %v", b)
	}
}

func TestAddCircle(t *testing.T) {
	tests := []struct {
		name   string
		center math3d.Vec3
		r      float64
		steps  int
	}{
		{"origin", math3d.V3(0, 0, 0), 10, DefaultSteps},
		{"offset", math3d.V3(250, 250, -7), 100, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e EdgeList
			e.AddCircle(tt.center, tt.r, tt.steps)

			if e.Len() != tt.steps {
				t.Fatalf("Len() = %d, want %d", e.Len(), tt.steps)
			}
			for i, p := range e {
				if p.Z != tt.center.Z {
					t.Errorf("point %d z = %v, want %v", i, p.Z, tt.center.Z)
				}
				if d := p.Vec3().Sub(tt.center).Len(); math.Abs(d-tt.r) > 1e-6 {
					t.Errorf("point %d at distance %v, want %v", i, d, tt.r)
				}
			}
			first, _ := e.Edge(0)
			_, last := e.Edge(e.Len() - 1)
			if !near(first.Vec3(), last.Vec3()) {
				t.Errorf("circle not closed: %v != %v", first, last)
			}
		})
	}
}

func TestEdgesAreConnected(t *testing.T) {
	var e EdgeList
	e.AddBezier(math3d.V2(0, 0), math3d.V2(1, 5), math3d.V2(4, 5), math3d.V2(5, 0), 8)
	for i := 1; i < e.Len(); i++ {
		_, prevEnd := e.Edge(i - 1)
		start, _ := e.Edge(i)
		if prevEnd != start {
			t.Errorf("edge %d starts at %v, previous ended at %v", i, start, prevEnd)
		}
	}
}

func TestCurveEndpoints(t *testing.T) {
	p0, p1 := math3d.V2(10, 20), math3d.V2(200, 80)

	tests := []struct {
		name  string
		build func(*EdgeList)
	}{
		{"hermite", func(e *EdgeList) {
			e.AddHermite(p0, p1, math3d.V2(50, 300), math3d.V2(-40, 10), DefaultSteps)
		}},
		{"bezier", func(e *EdgeList) {
			e.AddBezier(p0, math3d.V2(0, 400), math3d.V2(300, -100), p1, DefaultSteps)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e EdgeList
			tt.build(&e)
			if e.Len() != DefaultSteps {
				t.Fatalf("Len() = %d, want %d", e.Len(), DefaultSteps)
			}
			first, _ := e.Edge(0)
			_, last := e.Edge(e.Len() - 1)
			if !near(first.Vec3(), math3d.V3(p0.X, p0.Y, 0)) {
				t.Errorf("start = %v, want %v", first, p0)
			}
			if !near(last.Vec3(), math3d.V3(p1.X, p1.Y, 0)) {
				t.Errorf("end = %v, want %v", last, p1)
			}
		})
	}
}

func TestAddBox(t *testing.T) {
	var p PolygonList
	origin := math3d.V3(10, 50, 0)
	p.AddBox(origin, 40, 30, 20)

	if p.Len() != 12 {
		t.Fatalf("Len() = %d, want 12", p.Len())
	}

	mid := math3d.V3(30, 35, -10)
	for i := range p.Len() {
		a, b, c := p.Triangle(i)
		n := FaceNormal(a.Vec3(), b.Vec3(), c.Vec3())
		if n.Dot(centroid(a, b, c).Sub(mid)) <= 0 {
			t.Errorf("triangle %d faces inward: normal %v", i, n)
		}
	}
}

func TestAddSphere(t *testing.T) {
	for _, steps := range []int{4, 10, DefaultSteps} {
		var p PolygonList
		center := math3d.V3(5, -3, 2)
		p.AddSphere(center, 50, steps)

		want := 2*steps*(steps-2) + 2*steps
		if p.Len() != want {
			t.Fatalf("steps %d: Len() = %d, want %d", steps, p.Len(), want)
		}

		for i := range p.Len() {
			a, b, c := p.Triangle(i)
			n := FaceNormal(a.Vec3(), b.Vec3(), c.Vec3())
			if n.Dot(centroid(a, b, c).Sub(center)) <= 0 {
				t.Errorf("steps %d: triangle %d faces inward", steps, i)
			}
			for _, v := range []math3d.Vec4{a, b, c} {
				if d := v.Vec3().Sub(center).Len(); math.Abs(d-50) > 1e-6 {
					t.Errorf("steps %d: vertex off surface at distance %v", steps, d)
				}
			}
		}
	}
}

func TestAddTorus(t *testing.T) {
	for _, steps := range []int{6, DefaultSteps} {
		var p PolygonList
		center := math3d.V3(0, 0, 0)
		r1, r2 := 10.0, 40.0
		p.AddTorus(center, r1, r2, steps)

		if p.Len() != 2*steps*steps {
			t.Fatalf("steps %d: Len() = %d, want %d", steps, p.Len(), 2*steps*steps)
		}

		for i := range p.Len() {
			a, b, c := p.Triangle(i)
			q := centroid(a, b, c)
			ring := math3d.V3(q.X, 0, q.Z).Normalize().Scale(r2)
			n := FaceNormal(a.Vec3(), b.Vec3(), c.Vec3())
			if n.Dot(q.Sub(ring)) <= 0 {
				t.Errorf("steps %d: triangle %d faces inward", steps, i)
			}
		}
	}
}

func TestVertexNormalsSphereAreRadial(t *testing.T) {
	var p PolygonList
	center := math3d.V3(0, 0, 0)
	p.AddSphere(center, 100, 20)

	normals := VertexNormals(p)
	if len(normals) != len(p) {
		t.Fatalf("got %d normals for %d points", len(normals), len(p))
	}
	for i, n := range normals {
		radial := p[i].Vec3().Normalize()
		if n.Dot(radial) < 0.98 {
			t.Errorf("normal %d = %v deviates from radial %v", i, n, radial)
		}
	}
}

func TestVertexNormalsFlatQuad(t *testing.T) {
	var p PolygonList
	p.AddPolygon(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(1, 1, 0))
	p.AddPolygon(math3d.V3(0, 0, 0), math3d.V3(1, 1, 0), math3d.V3(0, 1, 0))

	for i, n := range VertexNormals(p) {
		if !near(n, math3d.V3(0, 0, 1)) {
			t.Errorf("normal %d = %v, want +z", i, n)
		}
	}
}

func TestTransformAndReset(t *testing.T) {
	var p PolygonList
	p.AddPolygon(math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0))
	p.Transform(math3d.Translate(math3d.V3(5, 5, 5)))

	if a, _, _ := p.Triangle(0); a != math3d.Point(5, 5, 5) {
		t.Errorf("translated vertex = %v", a)
	}

	var e EdgeList
	p.Edges(&e)
	if e.Len() != 3 {
		t.Errorf("outline has %d edges, want 3", e.Len())
	}

	p.Reset()
	if p.Len() != 0 {
		t.Errorf("Len() after Reset = %d", p.Len())
	}
}

func BenchmarkAddSphere(b *testing.B) {
	var p PolygonList
	for b.Loop() {
		p.Reset()
		p.AddSphere(math3d.V3(0, 0, 0), 100, DefaultSteps)
	}
}

func BenchmarkVertexNormals(b *testing.B) {
	var p PolygonList
	p.AddTorus(math3d.V3(0, 0, 0), 20, 80, DefaultSteps)

	for b.Loop() {
		_ = VertexNormals(p)
	}
}
