package main

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    render.Color
		wantErr bool
	}{
		{"white", render.ColorWhite, false},
		{"Cyan", render.ColorCyan, false},
		{"30,30,40", render.RGB8(30, 30, 40), false},
		{"chartreuse", render.Color{}, true},
		{"1,2", render.Color{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOptionsConfig(t *testing.T) {
	opts := &options{steps: 12, shading: "gouraud", background: "black", foreground: "255,0,0", noCull: true, depthPrecision: 3}
	cfg, err := opts.config(40, 30)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("size = %dx%d, want 40x30", cfg.Width, cfg.Height)
	}
	if cfg.Steps != 12 || cfg.Shading != render.ShadingGouraud {
		t.Errorf("steps/shading = %d/%v", cfg.Steps, cfg.Shading)
	}
	if cfg.BackfaceCulling {
		t.Error("no-cull should disable backface culling")
	}
	if cfg.Background != render.ColorBlack || cfg.Foreground != render.ColorRed {
		t.Errorf("colors = %v/%v", cfg.Background, cfg.Foreground)
	}
	if cfg.DepthPrecision != 3 {
		t.Errorf("DepthPrecision = %d, want 3", cfg.DepthPrecision)
	}

	opts.shading = "toon"
	if _, err := opts.config(10, 10); err == nil {
		t.Error("expected error for unknown shading mode")
	}
}

func renderedPixels(pic *render.Picture) int {
	n := 0
	for _, c := range pic.Pix() {
		if c != pic.Background() {
			n++
		}
	}
	return n
}

func TestDemoSceneRenders(t *testing.T) {
	opts := &options{steps: 10, shading: "phong", background: "white", foreground: "black"}
	cfg, err := opts.config(100, 100)
	if err != nil {
		t.Fatal(err)
	}

	var calls int
	err = scene.RenderFrames(cfg, demoScene(100), func(frame int, name string, pic *render.Picture) error {
		calls++
		if name != "" {
			t.Errorf("still render named %q", name)
		}
		if renderedPixels(pic) == 0 {
			t.Error("demo scene drew nothing")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RenderFrames: %v", err)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
}

func TestSpinAnimation(t *testing.T) {
	cmds := append(spinAnimation(4, false), demoScene(50)...)
	anim, err := scene.PlanAnimation(cmds)
	if err != nil {
		t.Fatalf("PlanAnimation: %v", err)
	}
	if anim.Frames != 4 {
		t.Fatalf("Frames = %d, want 4", anim.Frames)
	}
	if got := anim.Knobs[0][spinKnob]; got != 0 {
		t.Errorf("first spin = %v, want 0", got)
	}
	if got := anim.Knobs[3][spinKnob]; math.Abs(got-1) > 1e-9 {
		t.Errorf("last spin = %v, want 1", got)
	}
	if name := anim.FrameName(2); name != "frame002" {
		t.Errorf("FrameName(2) = %q", name)
	}
}

func TestFrameDir(t *testing.T) {
	tests := []struct {
		output  string
		changed bool
		want    string
	}{
		{defaultOutput, false, defaultFrameDir},
		{defaultOutput, true, defaultOutput},
		{"out", true, "out"},
	}

	for _, tt := range tests {
		if got := frameDir(tt.output, tt.changed); got != tt.want {
			t.Errorf("frameDir(%q, %v) = %q, want %q", tt.output, tt.changed, got, tt.want)
		}
	}
}

func TestRenderFramesDefaultDir(t *testing.T) {
	t.Chdir(t.TempDir())

	opts := &options{steps: 8, shading: "flat", background: "black", foreground: "white"}
	cmd := newRenderCmd(opts)
	cmd.SetArgs([]string{"--frames", "2", "--size", "32"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, name := range []string{"frame000.png", "frame001.png"} {
		if _, err := os.Stat(filepath.Join(defaultFrameDir, name)); err != nil {
			t.Errorf("missing frame: %v", err)
		}
	}
	if _, err := os.Stat(defaultOutput); !os.IsNotExist(err) {
		t.Errorf("%s should not exist, stat err = %v", defaultOutput, err)
	}
}

func TestModelSceneFitsPicture(t *testing.T) {
	mesh := models.NewMesh("quad")
	mesh.Vertices = []math3d.Vec3{
		math3d.V3(0, 0, 0), math3d.V3(10, 0, 0), math3d.V3(10, 10, 0), math3d.V3(0, 10, 0),
	}
	mesh.AddFace(0, 1, 2, -1)
	mesh.AddFace(0, 2, 3, -1)
	mesh.CalculateBounds()

	opts := &options{steps: 10, shading: "flat", background: "black", foreground: "white", noCull: true}
	cfg, err := opts.config(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	s := scene.NewSession(cfg)
	if err := s.Run(modelScene(mesh, 64)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Stats().Drawn != 2 {
		t.Errorf("Drawn = %d, want 2", s.Stats().Drawn)
	}
	if s.Picture().At(0, 0) != render.ColorBlack {
		t.Error("fitted model should not reach the corner")
	}
	if renderedPixels(s.Picture()) == 0 {
		t.Error("model drew nothing")
	}
}

func TestSavePicture(t *testing.T) {
	pic := render.NewPicture(4, 4, 255, render.ColorWhite)
	dir := t.TempDir()

	for _, name := range []string{"a.png", "b.PPM"} {
		path := filepath.Join(dir, name)
		if err := savePicture(pic, path); err != nil {
			t.Fatalf("savePicture(%s): %v", name, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		isPPM := len(data) > 1 && string(data[:2]) == "P3"
		if wantPPM := name == "b.PPM"; isPPM != wantPPM {
			t.Errorf("%s: PPM = %v, want %v", name, isPPM, wantPPM)
		}
	}
}

func TestViewState(t *testing.T) {
	v := NewViewState(render.ShadingFlat, false)

	v.NextShading()
	if v.Shading != render.ShadingGouraud {
		t.Errorf("after one step shading = %v", v.Shading)
	}
	v.NextShading()
	v.NextShading()
	if v.Shading != render.ShadingFlat {
		t.Errorf("shading should wrap to flat, got %v", v.Shading)
	}

	for range 50 {
		v.ZoomBy(2)
	}
	if v.Zoom != 5 {
		t.Errorf("Zoom = %v, want clamp at 5", v.Zoom)
	}

	dir := v.ScreenToLightDir(50, 50, 100, 100)
	if math.Abs(dir.Z-1) > 1e-9 {
		t.Errorf("center light = %v, want <0,0,1>", dir)
	}
	up := v.ScreenToLightDir(50, 0, 100, 100)
	if up.Y <= 0 {
		t.Errorf("top of screen should light from above, got %v", up)
	}

	v.LightMode = true
	v.PendingLight = up
	if v.Light() != up {
		t.Error("Light should follow the pending direction in light mode")
	}
}

func TestRotationDecays(t *testing.T) {
	r := NewRotationState(60)
	r.ApplyImpulse(0.1, 0, 0)
	for range 600 {
		r.Update()
	}
	if math.Abs(r.Pitch.Velocity) > 1e-3 {
		t.Errorf("velocity = %v, want decay toward 0", r.Pitch.Velocity)
	}
	if r.Pitch.Position <= 0 {
		t.Errorf("position = %v, want positive", r.Pitch.Position)
	}

	cmds := r.Commands()
	if len(cmds) != 3 {
		t.Fatalf("Commands len = %d", len(cmds))
	}
	if rot := cmds[0].(scene.Rotate); math.Abs(rot.Degrees-degrees(r.Pitch.Position)) > 1e-9 {
		t.Errorf("pitch degrees = %v", rot.Degrees)
	}
}
