package render

import (
	"fmt"
	"strings"
)

// ShadingMode selects how a triangle's interior is colored.
type ShadingMode int

const (
	// ShadingFlat lights each triangle once from its face normal.
	ShadingFlat ShadingMode = iota
	// ShadingGouraud lights each vertex and interpolates colors.
	ShadingGouraud
	// ShadingPhong interpolates vertex normals and lights every pixel.
	ShadingPhong
)

func (m ShadingMode) String() string {
	switch m {
	case ShadingFlat:
		return "flat"
	case ShadingGouraud:
		return "gouraud"
	case ShadingPhong:
		return "phong"
	default:
		return fmt.Sprintf("ShadingMode(%d)", int(m))
	}
}

// NeedsNormals reports whether the mode consumes per-vertex normals.
func (m ShadingMode) NeedsNormals() bool {
	return m == ShadingGouraud || m == ShadingPhong
}

// ParseShadingMode parses "flat", "gouraud" or "phong" in any case.
func ParseShadingMode(s string) (ShadingMode, error) {
	switch strings.ToLower(s) {
	case "flat":
		return ShadingFlat, nil
	case "gouraud":
		return ShadingGouraud, nil
	case "phong":
		return ShadingPhong, nil
	}
	return 0, fmt.Errorf("unknown shading mode %q", s)
}
