package render

import (
	"math"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if c := box.Center(); c != math3d.V3(0, 0, 0) {
		t.Errorf("center = %v, want (0, 0, 0)", c)
	}
	if s := box.Size(); s != math3d.V3(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", s)
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	moved := box.Transform(math3d.Translate(math3d.V3(10, 0, 0)))
	if moved.Min != math3d.V3(9, -1, -1) || moved.Max != math3d.V3(11, 1, 1) {
		t.Errorf("translated = %+v", moved)
	}

	// A 45 degree turn about Z widens the XY extents to sqrt(2).
	turned := box.Transform(math3d.Rotation(math3d.AxisZ, 45))
	if math.Abs(turned.Max.X-math.Sqrt2) > 1e-9 || math.Abs(turned.Min.Y+math.Sqrt2) > 1e-9 {
		t.Errorf("rotated = %+v", turned)
	}
	if math.Abs(turned.Max.Z-1) > 1e-9 {
		t.Errorf("rotated Z extent = %v, want 1", turned.Max.Z)
	}
}

func TestPictureVisible(t *testing.T) {
	pic := NewPicture(100, 50, 255, ColorWhite)

	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"inside", NewAABB(math3d.V3(10, 10, 0), math3d.V3(20, 20, 0)), true},
		{"covers picture", NewAABB(math3d.V3(-500, -500, -500), math3d.V3(500, 500, 500)), true},
		{"straddles left edge", NewAABB(math3d.V3(-10, 10, 0), math3d.V3(2, 20, 0)), true},
		{"rounds onto first column", NewAABB(math3d.V3(-3, 10, 0), math3d.V3(-0.4, 20, 0)), true},
		{"left of picture", NewAABB(math3d.V3(-30, 10, 0), math3d.V3(-1, 20, 0)), false},
		{"right of picture", NewAABB(math3d.V3(100, 10, 0), math3d.V3(120, 20, 0)), false},
		{"below picture", NewAABB(math3d.V3(10, -20, 0), math3d.V3(20, -5, 0)), false},
		{"above picture", NewAABB(math3d.V3(10, 50, 0), math3d.V3(20, 60, 0)), false},
		{"any depth", NewAABB(math3d.V3(10, 10, -1e6), math3d.V3(20, 20, -1e5)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := pic.Visible(tc.box); got != tc.want {
				t.Errorf("Visible(%+v) = %v, want %v", tc.box, got, tc.want)
			}
		})
	}
}

func BenchmarkPictureVisible(b *testing.B) {
	pic := NewPicture(500, 500, 255, ColorWhite)
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	m := math3d.Translate(math3d.V3(250, 250, 0)).Mul(math3d.Scale(math3d.V3(100, 100, 100)))

	for b.Loop() {
		pic.Visible(box.Transform(m))
	}
}
