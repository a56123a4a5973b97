package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

// spinKnob turns the scene once about the y axis as it goes from 0 to 1.
const spinKnob = "spin"

const (
	defaultOutput   = "scene.png"
	defaultFrameDir = "frames"
)

type renderOptions struct {
	size   int
	output string
	frames int
	spring bool
}

func newRenderCmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [model]",
		Short: "Render the demo scene or a model to an image",
		Long: "Render the built-in demo scene, or a .obj, .stl, .glb or .gltf model, to PNG or PPM.\n" +
			"With --frames the scene spins once and every frame is written into the output directory.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(ro.size, ro.size)
			if err != nil {
				return err
			}

			var cmds []scene.Command
			if len(args) == 1 {
				mesh, err := models.Load(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Loaded: %s (%d vertices, %d triangles)\n",
					mesh.Name, mesh.VertexCount(), mesh.TriangleCount())
				cmds = modelScene(mesh, ro.size)
			} else {
				cmds = demoScene(ro.size)
			}

			if ro.frames > 0 {
				ro.output = frameDir(ro.output, cmd.Flags().Changed("output"))
				if err := os.MkdirAll(ro.output, 0o755); err != nil {
					return fmt.Errorf("create output directory: %w", err)
				}
				cmds = append(spinAnimation(ro.frames, ro.spring), cmds...)
			}

			return scene.RenderFrames(cfg, cmds, func(_ int, name string, pic *render.Picture) error {
				path := ro.output
				if name != "" {
					path = filepath.Join(ro.output, name+".png")
				}
				if err := savePicture(pic, path); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.IntVar(&ro.size, "size", 500, "Picture width and height in pixels")
	f.StringVarP(&ro.output, "output", "o", defaultOutput, "Output file, or with --frames the output directory (\""+defaultFrameDir+"\" unless set)")
	f.IntVar(&ro.frames, "frames", 0, "Render a full turn as this many frames")
	f.BoolVar(&ro.spring, "spring", false, "Ease the turn with a spring instead of a constant rate")
	return cmd
}

// frameDir returns the directory frames are written to. An output left at
// its single-picture default is replaced by defaultFrameDir.
func frameDir(output string, changed bool) string {
	if !changed && output == defaultOutput {
		return defaultFrameDir
	}
	return output
}

func savePicture(pic *render.Picture, path string) error {
	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		return pic.SavePPM(path)
	}
	return pic.SavePNG(path)
}

func spinAnimation(frames int, spring bool) []scene.Command {
	easing := scene.EaseLinear
	if spring {
		easing = scene.EaseSpring
	}
	return []scene.Command{
		scene.Frames{Count: frames},
		scene.Basename{Name: "frame"},
		scene.Vary{Knob: spinKnob, StartFrame: 0, EndFrame: frames - 1, StartValue: 0, EndValue: 1, Easing: easing},
	}
}

// demoScene lays out a sphere, a torus and a box around the picture center
// with a few curves underneath. Distances are given for a 500 pixel picture
// and scaled to size.
func demoScene(size int) []scene.Command {
	c := float64(size) / 2
	u := float64(size) / 500

	return []scene.Command{
		scene.SetKnob{Name: spinKnob, Value: 0},
		scene.SetConstants{Name: "shiny_red", Constants: render.ReflectionConstants{
			Ambient:  render.RGB{0.3, 0.1, 0.1},
			Diffuse:  render.RGB{0.8, 0.2, 0.2},
			Specular: render.RGB{0.6, 0.6, 0.6},
		}},
		scene.SetConstants{Name: "dull_blue", Constants: render.ReflectionConstants{
			Ambient:  render.RGB{0.1, 0.1, 0.3},
			Diffuse:  render.RGB{0.2, 0.3, 0.8},
			Specular: render.RGB{0.1, 0.1, 0.1},
		}},

		scene.Push{},
		scene.Move{Delta: math3d.V3(c, c+40*u, 0)},
		scene.Scale{Factors: math3d.V3(u, u, u)},
		scene.LookAt{Eye: math3d.V3(0, 0.35, 1)},
		scene.Rotate{Axis: math3d.AxisY, Degrees: 360, Knob: spinKnob},

		scene.Push{},
		scene.Move{Delta: math3d.V3(-110, 70, 0)},
		scene.Sphere{Radius: 70, Constants: "shiny_red"},
		scene.Pop{},

		scene.Push{},
		scene.Move{Delta: math3d.V3(110, 70, 0)},
		scene.Rotate{Axis: math3d.AxisX, Degrees: 60},
		scene.Torus{Tube: 20, Ring: 60, Constants: "dull_blue"},
		scene.Pop{},

		scene.Push{},
		scene.Move{Delta: math3d.V3(0, -90, 0)},
		scene.Rotate{Axis: math3d.AxisY, Degrees: 30},
		scene.Box{Origin: math3d.V3(-60, 60, 60), Width: 120, Height: 120, Depth: 120},
		scene.Pop{},
		scene.Pop{},

		scene.Circle{Center: math3d.V3(c, c, -1000), Radius: 0.95 * c},
		scene.Curve{Kind: scene.Bezier, Points: [4]math3d.Vec2{
			math3d.V2(c-180*u, 40*u), math3d.V2(c-90*u, 120*u), math3d.V2(c+90*u, -40*u), math3d.V2(c+180*u, 40*u),
		}},
		scene.Curve{Kind: scene.Hermite, Points: [4]math3d.Vec2{
			math3d.V2(c-180*u, 60*u), math3d.V2(c+180*u, 60*u), math3d.V2(0, 300*u), math3d.V2(0, -300*u),
		}},
	}
}

// modelScene fits mesh into the middle of the picture.
func modelScene(mesh *models.Mesh, size int) []scene.Command {
	mesh.Transform(mesh.FitTransform(1))
	c := float64(size) / 2
	k := 0.7 * float64(size)

	return []scene.Command{
		scene.SetKnob{Name: spinKnob, Value: 0},
		scene.Push{},
		scene.Move{Delta: math3d.V3(c, c, 0)},
		scene.Scale{Factors: math3d.V3(k, k, k)},
		scene.Rotate{Axis: math3d.AxisX, Degrees: 15},
		scene.Rotate{Axis: math3d.AxisY, Degrees: 360, Knob: spinKnob},
		scene.Mesh{Model: mesh},
		scene.Pop{},
	}
}
