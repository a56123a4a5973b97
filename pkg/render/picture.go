// Package render rasterizes edge and polygon lists into a Picture.
package render

import (
	"math"
)

// Picture is an RGB raster with a parallel depth buffer.
//
// Logical coordinates have their origin at the bottom-left corner. Storage
// is top-down: logical row y lives in storage row height-1-y, so Pix can be
// handed to image encoders unchanged.
type Picture struct {
	width      int
	height     int
	maxColor   int
	background Color
	pix        []Color
	depth      []float64

	// DepthTest enables the z-buffer. A write is accepted only when its z is
	// greater than or equal to the stored depth.
	DepthTest bool

	depthScale float64
}

// NewPicture allocates a picture cleared to background with every depth at
// negative infinity. Depth testing starts enabled. Colors are stored with 8
// bits per channel, so maxColor outside [1, 255] is replaced by 255.
func NewPicture(width, height, maxColor int, background Color) *Picture {
	width, height = max(width, 0), max(height, 0)
	if maxColor < 1 || maxColor > 255 {
		maxColor = 255
	}
	p := &Picture{
		width:      width,
		height:     height,
		maxColor:   maxColor,
		background: background,
		pix:        make([]Color, width*height),
		depth:      make([]float64, width*height),
		DepthTest:  true,
	}
	p.Clear()
	return p
}

// Clear restores the background color and resets depth.
func (p *Picture) Clear() {
	for i := range p.pix {
		p.pix[i] = p.background
		p.depth[i] = math.Inf(-1)
	}
}

// SetDepthPrecision truncates incoming depths to the given number of
// decimal places before they are compared or stored. Coplanar triangles that
// share an edge then agree on depth. Zero or less disables truncation.
func (p *Picture) SetDepthPrecision(digits int) {
	if digits <= 0 {
		p.depthScale = 0
		return
	}
	p.depthScale = math.Pow10(digits)
}

// Width returns the horizontal resolution.
func (p *Picture) Width() int { return p.width }

// Height returns the vertical resolution.
func (p *Picture) Height() int { return p.height }

// MaxColor returns the maximum channel value advertised to encoders.
func (p *Picture) MaxColor() int { return p.maxColor }

// Background returns the clear color.
func (p *Picture) Background() Color { return p.background }

// Pix returns the pixels in top-down row-major order. The slice aliases the
// picture's storage and must be treated as read-only.
func (p *Picture) Pix() []Color { return p.pix }

func (p *Picture) index(x, y int) (int, bool) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, false
	}
	return (p.height-1-y)*p.width + x, true
}

// At returns the color at logical (x, y), or the zero color when out of
// bounds.
func (p *Picture) At(x, y int) Color {
	i, ok := p.index(x, y)
	if !ok {
		return Color{}
	}
	return p.pix[i]
}

// Depth returns the stored depth at logical (x, y), or negative infinity when
// out of bounds.
func (p *Picture) Depth(x, y int) float64 {
	i, ok := p.index(x, y)
	if !ok {
		return math.Inf(-1)
	}
	return p.depth[i]
}

// Plot writes c at logical (x, y) with depth z. Writes outside the picture
// are dropped. With DepthTest set, a write whose z is below the stored depth
// is rejected.
func (p *Picture) Plot(x, y int, z float64, c Color) {
	i, ok := p.index(x, y)
	if !ok {
		return
	}
	if p.depthScale > 0 {
		z = math.Trunc(z*p.depthScale) / p.depthScale
	}
	if p.DepthTest && z < p.depth[i] {
		return
	}
	p.pix[i] = c
	p.depth[i] = z
}

// DrawLine draws from (x0, y0, z0) to (x1, y1, z1) with the midpoint
// algorithm. Depth advances by (z1-z0)/(max(dx,dy)+1) per pixel. Both
// endpoints are plotted exactly once.
func (p *Picture) DrawLine(x0, y0 int, z0 float64, x1, y1 int, z1 float64, c Color) {
	dx, dy := abs(x1-x0), abs(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}

	a, b := 2*dy, -2*dx
	dz := (z1 - z0) / float64(max(dx, dy)+1)
	z := z0

	if dy <= dx {
		d := a + b/2
		for x0 != x1 {
			p.Plot(x0, y0, z, c)
			if d > 0 {
				y0 += sy
				d += b
			}
			x0 += sx
			d += a
			z += dz
		}
	} else {
		d := a/2 + b
		for y0 != y1 {
			p.Plot(x0, y0, z, c)
			if d < 0 {
				x0 += sx
				d += a
			}
			y0 += sy
			d += b
			z += dz
		}
	}
	p.Plot(x1, y1, z, c)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
