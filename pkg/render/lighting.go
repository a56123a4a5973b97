package render

import (
	"math"

	"github.com/taigrr/scanline/pkg/math3d"
)

// RGB is a per-channel intensity or coefficient triple.
type RGB [3]float64

// ReflectionConstants are a material's per-channel reflection coefficients.
type ReflectionConstants struct {
	Ambient  RGB
	Diffuse  RGB
	Specular RGB
}

// Lighting describes the scene's light sources. The viewer is fixed at
// <0, 0, 1>.
type Lighting struct {
	Ambient          RGB
	PointColor       RGB
	PointDir         math3d.Vec3
	SpecularExponent float64
}

// DefaultLighting returns white ambient light and a white point light from
// <1, 0.5, 1>.
func DefaultLighting() Lighting {
	return Lighting{
		Ambient:          RGB{255, 255, 255},
		PointColor:       RGB{255, 255, 255},
		PointDir:         math3d.V3(1, 0.5, 1),
		SpecularExponent: 5,
	}
}

// DefaultConstants returns a dull grey material.
func DefaultConstants() ReflectionConstants {
	return ReflectionConstants{
		Ambient:  RGB{0.1, 0.1, 0.1},
		Diffuse:  RGB{0.5, 0.5, 0.5},
		Specular: RGB{0.5, 0.5, 0.5},
	}
}

// Illuminate evaluates ambient, diffuse and specular reflection for a surface
// with the given normal. Each channel is clamped to [0, 255] and truncated.
func Illuminate(normal math3d.Vec3, l Lighting, k ReflectionConstants) Color {
	n := normal.Normalize()
	light := l.PointDir.Normalize()

	nDotL := math.Max(0, n.Dot(light))
	// R·V with V = <0, 0, 1> reduces to the z component of the reflection.
	spec := math.Pow(math.Max(0, 2*n.Z*nDotL-light.Z), l.SpecularExponent)

	var out [3]uint8
	for i := range 3 {
		v := l.Ambient[i]*k.Ambient[i] +
			l.PointColor[i]*k.Diffuse[i]*nDotL +
			l.PointColor[i]*k.Specular[i]*spec
		out[i] = clampChannel(v)
	}
	return RGB8(out[0], out[1], out[2])
}

func clampChannel(v float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
