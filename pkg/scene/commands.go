package scene

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/taigrr/scanline/pkg/geometry"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// Command is one step of a scene.
type Command interface {
	Apply(s *Session) error
}

// Clear resets the picture to the background color.
type Clear struct{}

// Apply clears the picture and its depth buffer.
func (Clear) Apply(s *Session) error {
	s.pic.Clear()
	return nil
}

// Push duplicates the top of the coordinate stack.
type Push struct{}

// Apply pushes a copy of the top matrix.
func (Push) Apply(s *Session) error {
	s.stack.Push()
	return nil
}

// Pop discards the top of the coordinate stack.
type Pop struct{}

// Apply pops the top matrix. The last frame is never removed.
func (Pop) Apply(s *Session) error {
	s.stack.Pop()
	return nil
}

// Move translates the current frame. A non-empty Knob scales Delta by the
// knob's value.
type Move struct {
	Delta math3d.Vec3
	Knob  string
}

// Apply composes the translation onto the top of the stack.
func (c Move) Apply(s *Session) error {
	k, err := s.knobScale(c.Knob)
	if err != nil {
		return err
	}
	s.stack.Apply(math3d.Translate(c.Delta.Scale(k)))
	return nil
}

// Scale scales the current frame. A non-empty Knob scales Factors by the
// knob's value.
type Scale struct {
	Factors math3d.Vec3
	Knob    string
}

// Apply composes the dilation onto the top of the stack.
func (c Scale) Apply(s *Session) error {
	k, err := s.knobScale(c.Knob)
	if err != nil {
		return err
	}
	s.stack.Apply(math3d.Scale(c.Factors.Scale(k)))
	return nil
}

// Rotate rotates the current frame about an axis. A non-empty Knob scales
// Degrees by the knob's value.
type Rotate struct {
	Axis    math3d.Axis
	Degrees float64
	Knob    string
}

// Apply composes the rotation onto the top of the stack.
func (c Rotate) Apply(s *Session) error {
	k, err := s.knobScale(c.Knob)
	if err != nil {
		return err
	}
	s.stack.Apply(math3d.Rotation(c.Axis, c.Degrees*k))
	return nil
}

// LookAt orients the current frame as seen from Eye toward Center. Up
// defaults to +Y.
type LookAt struct {
	Eye, Center, Up math3d.Vec3
}

// Apply composes the view matrix onto the top of the stack. It fails when
// Eye equals Center or the view direction is parallel to Up.
func (c LookAt) Apply(s *Session) error {
	up := c.Up
	if up == (math3d.Vec3{}) {
		up = math3d.V3(0, 1, 0)
	}
	if c.Eye == c.Center || c.Center.Sub(c.Eye).Cross(up).Len() == 0 {
		return fmt.Errorf("look at: degenerate view from %v to %v", c.Eye, c.Center)
	}
	s.stack.Apply(math3d.LookAt(c.Eye, c.Center, up))
	return nil
}

// Line draws a single segment.
type Line struct {
	From, To math3d.Vec3
}

// Apply draws the segment in the current frame.
func (c Line) Apply(s *Session) error {
	s.edges.AddEdge(c.From, c.To)
	s.drawEdges()
	return nil
}

// Circle draws a circle parallel to the xy plane.
type Circle struct {
	Center math3d.Vec3
	Radius float64
}

// Apply draws the circle with the configured number of steps.
func (c Circle) Apply(s *Session) error {
	s.edges.AddCircle(c.Center, c.Radius, s.cfg.Steps)
	s.drawEdges()
	return nil
}

// CurveKind selects the cubic basis of a Curve.
type CurveKind int

const (
	// Hermite curves take two endpoints followed by their tangents.
	Hermite CurveKind = iota
	// Bezier curves take four control points.
	Bezier
)

// Curve draws a cubic curve in the xy plane.
type Curve struct {
	Kind   CurveKind
	Points [4]math3d.Vec2
}

// Apply draws the curve with the configured number of steps.
func (c Curve) Apply(s *Session) error {
	p := c.Points
	switch c.Kind {
	case Hermite:
		s.edges.AddHermite(p[0], p[1], p[2], p[3], s.cfg.Steps)
	case Bezier:
		s.edges.AddBezier(p[0], p[1], p[2], p[3], s.cfg.Steps)
	default:
		return fmt.Errorf("unknown curve kind %d", c.Kind)
	}
	s.drawEdges()
	return nil
}

// Polygon draws a single triangle.
type Polygon struct {
	A, B, C   math3d.Vec3
	Constants string
}

// Apply fills the triangle with the named constants.
func (c Polygon) Apply(s *Session) error {
	s.polygons.AddPolygon(c.A, c.B, c.C)
	return s.drawPolygons(c.Constants)
}

// Box draws a box extending from Origin by Width along +x, Height along -y
// and Depth along -z.
type Box struct {
	Origin               math3d.Vec3
	Width, Height, Depth float64
	Constants            string
}

// Apply fills the box's twelve triangles.
func (c Box) Apply(s *Session) error {
	s.polygons.AddBox(c.Origin, c.Width, c.Height, c.Depth)
	return s.drawPolygons(c.Constants)
}

// Sphere draws a sphere.
type Sphere struct {
	Center    math3d.Vec3
	Radius    float64
	Constants string
}

// Apply fills the sphere with the configured number of steps.
func (c Sphere) Apply(s *Session) error {
	s.polygons.AddSphere(c.Center, c.Radius, s.cfg.Steps)
	return s.drawPolygons(c.Constants)
}

// Torus draws a torus with tube radius Tube swept around the y axis at
// distance Ring from Center.
type Torus struct {
	Center     math3d.Vec3
	Tube, Ring float64
	Constants  string
}

// Apply fills the torus with the configured number of steps.
func (c Torus) Apply(s *Session) error {
	s.polygons.AddTorus(c.Center, c.Tube, c.Ring, s.cfg.Steps)
	return s.drawPolygons(c.Constants)
}

// Mesh draws imported triangles. Exactly one source is used, in order of
// preference: Model, Polygons, Path.
//
// A Model with materials and no Constants name is drawn one material at a
// time with each material's own constants. A Model whose bounds fall
// outside the picture is skipped.
type Mesh struct {
	Model     *models.Mesh
	Polygons  geometry.PolygonList
	Path      string
	Constants string
}

// Apply rasterizes the mesh in the current frame. A Mesh with no source
// draws nothing.
func (c Mesh) Apply(s *Session) error {
	switch {
	case c.Model != nil:
		if !s.visible(c.Model) {
			return nil
		}
		if c.Constants == "" && c.Model.MaterialCount() > 0 {
			return drawMaterialGroups(s, c.Model)
		}
		c.Model.AppendPolygons(&s.polygons)
	case c.Polygons != nil:
		s.polygons = append(s.polygons, c.Polygons...)
	case c.Path != "":
		p, err := s.loadMesh(c.Path)
		if err != nil {
			return err
		}
		s.polygons = append(s.polygons, p...)
	default:
		return nil
	}
	return s.drawPolygons(c.Constants)
}

func drawMaterialGroups(s *Session, m *models.Mesh) error {
	groups := m.Groups()
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, idx := range keys {
		k := s.cfg.Constants
		if mat := m.GetMaterial(idx); mat != nil {
			k = mat.Constants()
		}
		s.polygons = append(s.polygons, groups[idx]...)
		err := s.rasterize(k)
		s.polygons.Reset()
		if err != nil {
			return fmt.Errorf("material %d: %w", idx, err)
		}
	}
	return nil
}

// SetLight replaces the point light.
type SetLight struct {
	Color     render.RGB
	Direction math3d.Vec3
}

// Apply sets the point light's color and direction.
func (c SetLight) Apply(s *Session) error {
	s.raster.Lighting.PointColor = c.Color
	s.raster.Lighting.PointDir = c.Direction
	return nil
}

// SetAmbient replaces the ambient light color.
type SetAmbient struct {
	Color render.RGB
}

// Apply sets the ambient light.
func (c SetAmbient) Apply(s *Session) error {
	s.raster.Lighting.Ambient = c.Color
	return nil
}

// SetConstants registers reflection constants under Name.
type SetConstants struct {
	Name      string
	Constants render.ReflectionConstants
}

// Apply fails with ErrSymbolKind when Name is already a knob.
func (c SetConstants) Apply(s *Session) error {
	return s.define(c.Name, Symbol{Kind: SymbolConstants, Constants: c.Constants})
}

// SetShading changes the shading mode for subsequent shapes.
type SetShading struct {
	Mode render.ShadingMode
}

// Apply sets the shading mode.
func (c SetShading) Apply(s *Session) error {
	s.shading = c.Mode
	return nil
}

// SetWireframe switches between filled and outlined triangles.
type SetWireframe struct {
	Enabled bool
}

// Apply toggles wireframe drawing.
func (c SetWireframe) Apply(s *Session) error {
	s.raster.Wireframe = c.Enabled
	return nil
}

// SetKnob gives a knob a value. During animation the frame's value wins.
type SetKnob struct {
	Name  string
	Value float64
}

// Apply fails with ErrSymbolKind when Name already holds constants.
func (c SetKnob) Apply(s *Session) error {
	if s.knobsPinned {
		if sym, ok := s.symbols[c.Name]; ok && sym.Kind == SymbolKnob {
			return nil
		}
	}
	return s.define(c.Name, Symbol{Kind: SymbolKnob, Value: c.Value})
}

// Save writes the picture to Path as PNG, or as plain PPM when the extension
// is .ppm.
type Save struct {
	Path string
}

// Apply writes the current picture.
func (c Save) Apply(s *Session) error {
	if strings.EqualFold(filepath.Ext(c.Path), ".ppm") {
		return s.pic.SavePPM(c.Path)
	}
	return s.pic.SavePNG(c.Path)
}

// Frames sets the number of animation frames.
type Frames struct {
	Count int
}

// Apply does nothing; PlanAnimation reads Frames.
func (Frames) Apply(*Session) error { return nil }

// Basename sets the prefix of animation frame names.
type Basename struct {
	Name string
}

// Apply does nothing; PlanAnimation reads Basename.
func (Basename) Apply(*Session) error { return nil }

// Vary changes a knob from StartValue at StartFrame to EndValue at EndFrame.
type Vary struct {
	Knob                 string
	StartFrame, EndFrame int
	StartValue, EndValue float64
	Easing               Easing
}

// Apply does nothing; PlanAnimation reads Vary.
func (Vary) Apply(*Session) error { return nil }

// SaveKnobs snapshots the knob values set so far under Name.
type SaveKnobs struct {
	Name string
}

// Apply does nothing; PlanAnimation reads SaveKnobs.
func (SaveKnobs) Apply(*Session) error { return nil }

// Tween moves every knob from the saved list From at StartFrame to the saved
// list To at EndFrame. A knob missing from one list counts as zero there.
type Tween struct {
	StartFrame, EndFrame int
	From, To             string
	Easing               Easing
}

// Apply does nothing; PlanAnimation reads Tween.
func (Tween) Apply(*Session) error { return nil }
