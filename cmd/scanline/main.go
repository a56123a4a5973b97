// scanline - software scanline renderer
// Renders a built-in scene or an OBJ/STL/GLB model to PNG or PPM, or spins a
// model in the terminal.
//
// Usage:
//
//	scanline render [model] -o out.png
//	scanline render model.glb --frames 60 -o frames/
//	scanline view model.obj
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

// options are the flags shared by every subcommand.
type options struct {
	steps          int
	shading        string
	background     string
	foreground     string
	wireframe      bool
	noCull         bool
	depthPrecision int
	verbose        bool
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "scanline",
		Short: "Software scanline renderer",
		Long:  "scanline rasterizes polygons on the CPU with flat, Gouraud or Phong shading.",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if opts.verbose {
				scene.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
		SilenceUsage: true,
	}

	f := root.PersistentFlags()
	f.IntVar(&opts.steps, "steps", 30, "Parametric samples per curve or surface")
	f.StringVar(&opts.shading, "shading", "phong", "Shading mode (flat, gouraud, phong)")
	f.StringVar(&opts.background, "bg", "white", "Background color (name or R,G,B)")
	f.StringVar(&opts.foreground, "fg", "black", "Line color (name or R,G,B)")
	f.BoolVar(&opts.wireframe, "wireframe", false, "Outline triangles instead of filling them")
	f.BoolVar(&opts.noCull, "no-cull", false, "Draw back-facing triangles")
	f.IntVar(&opts.depthPrecision, "depth-precision", 0, "Decimal places kept in depth values (0 for full precision)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every draw to stderr")

	root.AddCommand(newRenderCmd(opts), newViewCmd(opts))
	return root
}

// config builds a session configuration for a width x height picture.
func (o *options) config(width, height int) (scene.Config, error) {
	cfg := scene.DefaultConfig()
	cfg.Width, cfg.Height = width, height
	cfg.Steps = o.steps
	cfg.Wireframe = o.wireframe
	cfg.BackfaceCulling = !o.noCull
	cfg.DepthPrecision = o.depthPrecision

	mode, err := render.ParseShadingMode(o.shading)
	if err != nil {
		return cfg, err
	}
	cfg.Shading = mode

	if cfg.Background, err = parseColor(o.background); err != nil {
		return cfg, fmt.Errorf("background: %w", err)
	}
	if cfg.Foreground, err = parseColor(o.foreground); err != nil {
		return cfg, fmt.Errorf("foreground: %w", err)
	}
	return cfg, nil
}

// parseColor accepts a color name or "R,G,B".
func parseColor(s string) (render.Color, error) {
	if c, ok := render.ParseColor(strings.ToLower(s)); ok {
		return c, nil
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%d,%d,%d", &r, &g, &b); err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return render.RGB8(r, g, b), nil
}
