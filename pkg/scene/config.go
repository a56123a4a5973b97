// Package scene drives the renderer from a list of modeling commands. A
// Session owns the picture, the coordinate stack and the working edge and
// polygon lists; every drawing command fills a list in the current local
// frame, transforms it by the top of the stack, rasterizes it and empties it.
package scene

import (
	"github.com/taigrr/scanline/pkg/geometry"
	"github.com/taigrr/scanline/pkg/render"
)

// Config holds the settings a Session starts from.
type Config struct {
	Width    int
	Height   int
	MaxColor int

	Background render.Color // Clear color
	Foreground render.Color // Line and wireframe color

	Steps   int                // Parametric samples per curve or surface
	Shading render.ShadingMode // Initial shading mode

	BackfaceCulling bool
	DepthTest       bool
	DepthPrecision  int  // Decimal places kept in depth values, 0 for full precision
	Wireframe       bool // Outline triangles instead of filling them

	Lighting  render.Lighting
	Constants render.ReflectionConstants // Used when a shape names no constants
}

// DefaultConfig returns a 500x500 white picture with black lines, Phong
// shading, culling and depth testing enabled.
func DefaultConfig() Config {
	return Config{
		Width:           500,
		Height:          500,
		MaxColor:        255,
		Background:      render.ColorWhite,
		Foreground:      render.ColorBlack,
		Steps:           geometry.DefaultSteps,
		Shading:         render.ShadingPhong,
		BackfaceCulling: true,
		DepthTest:       true,
		Lighting:        render.DefaultLighting(),
		Constants:       render.DefaultConstants(),
	}
}
