package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/scanline/pkg/geometry"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	// ErrUnknownSymbol is returned when a command names constants, a knob or
	// a saved knob list that was never defined.
	ErrUnknownSymbol = errors.New("unknown symbol")
	// ErrSymbolKind is returned when a name refers to the wrong kind of
	// symbol, such as a knob used as reflection constants.
	ErrSymbolKind = errors.New("wrong symbol kind")
)

// SymbolKind tells constants and knobs apart in the symbol table.
type SymbolKind int

const (
	SymbolConstants SymbolKind = iota
	SymbolKnob
)

func (k SymbolKind) String() string {
	if k == SymbolKnob {
		return "knob"
	}
	return "constants"
}

// Symbol is a named value defined by a command.
type Symbol struct {
	Kind      SymbolKind
	Constants render.ReflectionConstants // Set when Kind is SymbolConstants
	Value     float64                    // Set when Kind is SymbolKnob
}

// Session is the rendering context commands execute against. It is not safe
// for concurrent use.
type Session struct {
	cfg    Config
	pic    *render.Picture
	raster *render.Rasterizer
	stack  *math3d.Stack

	edges    geometry.EdgeList
	polygons geometry.PolygonList

	shading render.ShadingMode
	symbols map[string]Symbol
	// Knob values come from an animation frame and SetKnob leaves them alone.
	knobsPinned bool

	meshes map[string]geometry.PolygonList
}

// NewSession creates a session with a cleared picture and an identity stack.
func NewSession(cfg Config) *Session {
	pic := render.NewPicture(cfg.Width, cfg.Height, cfg.MaxColor, cfg.Background)
	pic.DepthTest = cfg.DepthTest
	pic.SetDepthPrecision(cfg.DepthPrecision)

	s := &Session{
		cfg:    cfg,
		pic:    pic,
		raster: render.NewRasterizer(pic),
		stack:  math3d.NewStack(),
		meshes: make(map[string]geometry.PolygonList),
	}
	s.raster.DisableBackfaceCulling = !cfg.BackfaceCulling
	s.raster.LineColor = cfg.Foreground
	s.Reset()
	return s
}

// Reset returns the session to its configured starting state. Loaded meshes
// stay cached.
func (s *Session) Reset() {
	s.pic.Clear()
	s.stack.Reset()
	s.edges.Reset()
	s.polygons.Reset()
	s.raster.Lighting = s.cfg.Lighting
	s.raster.Wireframe = s.cfg.Wireframe
	s.raster.ResetStats()
	s.shading = s.cfg.Shading
	s.symbols = make(map[string]Symbol)
	s.knobsPinned = false
}

// Picture returns the target picture.
func (s *Session) Picture() *render.Picture {
	return s.pic
}

// Stack returns the coordinate stack.
func (s *Session) Stack() *math3d.Stack {
	return s.stack
}

// Shading returns the current shading mode.
func (s *Session) Shading() render.ShadingMode {
	return s.shading
}

// Lighting returns the current lighting.
func (s *Session) Lighting() render.Lighting {
	return s.raster.Lighting
}

// Stats returns triangle counts accumulated since the last Reset.
func (s *Session) Stats() render.DrawStats {
	return s.raster.Stats
}

// Symbol looks up a name in the symbol table.
func (s *Session) Symbol(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Execute runs a single command.
func (s *Session) Execute(cmd Command) error {
	return cmd.Apply(s)
}

// Run executes cmds in order and stops at the first error.
func (s *Session) Run(cmds []Command) error {
	for i, cmd := range cmds {
		if err := s.Execute(cmd); err != nil {
			return fmt.Errorf("command %d (%T): %w", i, cmd, err)
		}
	}
	return nil
}

// SetKnobs defines knob values for the current frame. They take precedence
// over SetKnob commands until the next Reset.
func (s *Session) SetKnobs(values map[string]float64) {
	for name, v := range values {
		s.symbols[name] = Symbol{Kind: SymbolKnob, Value: v}
	}
	s.knobsPinned = true
}

// define stores sym under name unless name already holds the other kind.
func (s *Session) define(name string, sym Symbol) error {
	if old, ok := s.symbols[name]; ok && old.Kind != sym.Kind {
		return fmt.Errorf("%w: %q is %s, cannot redefine as %s", ErrSymbolKind, name, old.Kind, sym.Kind)
	}
	s.symbols[name] = sym
	return nil
}

// Knob returns the value of a knob.
func (s *Session) Knob(name string) (float64, error) {
	sym, ok := s.symbols[name]
	if !ok {
		return 0, fmt.Errorf("%w: knob %q", ErrUnknownSymbol, name)
	}
	if sym.Kind != SymbolKnob {
		return 0, fmt.Errorf("%w: %q is %s, not a knob", ErrSymbolKind, name, sym.Kind)
	}
	return sym.Value, nil
}

// knobScale returns 1 for an empty name and the knob's value otherwise.
func (s *Session) knobScale(name string) (float64, error) {
	if name == "" {
		return 1, nil
	}
	return s.Knob(name)
}

// Constants returns the reflection constants registered as name, or the
// configured defaults for an empty name.
func (s *Session) Constants(name string) (render.ReflectionConstants, error) {
	if name == "" {
		return s.cfg.Constants, nil
	}
	sym, ok := s.symbols[name]
	if !ok {
		return render.ReflectionConstants{}, fmt.Errorf("%w: constants %q", ErrUnknownSymbol, name)
	}
	if sym.Kind != SymbolConstants {
		return render.ReflectionConstants{}, fmt.Errorf("%w: %q is %s, not constants", ErrSymbolKind, name, sym.Kind)
	}
	return sym.Constants, nil
}

// drawEdges transforms the edge list by the top of the stack, draws it and
// empties it.
func (s *Session) drawEdges() {
	s.edges.Transform(s.stack.Peek())
	s.raster.DrawEdges(s.edges, s.cfg.Foreground)
	Logger().Debug("edges drawn", "edges", s.edges.Len())
	s.edges.Reset()
}

// drawPolygons transforms the polygon list by the top of the stack,
// rasterizes it with the named constants and empties it. The list is emptied
// even when drawing fails.
func (s *Session) drawPolygons(constants string) error {
	defer s.polygons.Reset()

	k, err := s.Constants(constants)
	if err != nil {
		return err
	}
	return s.rasterize(k)
}

func (s *Session) rasterize(k render.ReflectionConstants) error {
	s.polygons.Transform(s.stack.Peek())

	var normals []math3d.Vec3
	if s.shading.NeedsNormals() && !s.raster.Wireframe {
		normals = geometry.VertexNormals(s.polygons)
	}
	stats, err := s.raster.DrawPolygons(s.polygons, normals, s.shading, k)
	if err != nil {
		return err
	}
	Logger().Debug("polygons drawn",
		"shading", s.shading.String(),
		"drawn", stats.Drawn,
		"culled", stats.Culled)
	return nil
}

// visible reports whether the model's transformed bounds reach the picture.
func (s *Session) visible(m *models.Mesh) bool {
	m.CalculateBounds()
	box := render.NewAABB(m.BoundsMin, m.BoundsMax).Transform(s.stack.Peek())
	if s.pic.Visible(box) {
		return true
	}
	Logger().Debug("mesh outside picture", "name", m.Name, "triangles", m.TriangleCount())
	return false
}

// loadMesh returns the polygons of the model at path, loading it on first
// use.
func (s *Session) loadMesh(path string) (geometry.PolygonList, error) {
	if p, ok := s.meshes[path]; ok {
		return p, nil
	}
	mesh, err := models.Load(path)
	if err != nil {
		return nil, err
	}
	p := mesh.Polygons()
	s.meshes[path] = p
	Logger().Debug("mesh loaded", "path", path, "triangles", p.Len())
	return p, nil
}
