package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
	"github.com/taigrr/scanline/pkg/scene"
)

const viewControls = `Controls:
  Mouse drag  - Rotate model
  Scroll      - Zoom in/out
  W/S/A/D     - Pitch and yaw
  Q/E         - Roll left/right
  Space       - Random spin
  R           - Reset view
  T           - Cycle shading (flat, gouraud, phong)
  X           - Toggle wireframe
  L           - Position light (mouse to aim, click to set)
  ?           - Toggle HUD overlay
  Esc         - Quit`

type viewOptions struct {
	fps         int
	supersample int
}

func newViewCmd(opts *options) *cobra.Command {
	vo := &viewOptions{}
	cmd := &cobra.Command{
		Use:   "view <model>",
		Short: "Spin a model in the terminal",
		Long:  "Render a model interactively with half-block characters.\n\n" + viewControls,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mesh, err := models.Load(args[0])
			if err != nil {
				return err
			}
			mesh.Transform(mesh.FitTransform(1))
			return runViewer(cmd.Context(), opts, vo, mesh, filepath.Base(args[0]))
		},
	}

	f := cmd.Flags()
	f.IntVar(&vo.fps, "fps", 60, "Target FPS")
	f.IntVar(&vo.supersample, "supersample", 2, "Render at this multiple of the terminal resolution")
	return cmd
}

// RotationAxis tracks position and velocity for one rotation axis. Velocity
// decays toward zero on a critically damped spring.
type RotationAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis at rest whose velocity decays at fps.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update advances the position and decays the velocity by one frame.
func (a *RotationAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds pitch, yaw and roll in radians.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

// NewRotationState creates a state with all three axes at rest.
func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

// Update advances every axis by one frame.
func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

// ApplyImpulse adds to the velocity of each axis, in radians per frame.
func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

// Reset stops all rotation and returns to the initial orientation.
func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Commands returns the rotations to apply to the model, pitch first.
func (r *RotationState) Commands() []scene.Command {
	return []scene.Command{
		scene.Rotate{Axis: math3d.AxisX, Degrees: degrees(r.Pitch.Position)},
		scene.Rotate{Axis: math3d.AxisY, Degrees: degrees(r.Yaw.Position)},
		scene.Rotate{Axis: math3d.AxisZ, Degrees: degrees(r.Roll.Position)},
	}
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// ViewState holds the interactive settings of the viewer.
type ViewState struct {
	Shading      render.ShadingMode
	Wireframe    bool
	LightMode    bool        // Aiming the light with the mouse
	LightDir     math3d.Vec3 // Direction toward the light
	PendingLight math3d.Vec3 // Light direction while aiming
	ShowHUD      bool
	Zoom         float64
}

// NewViewState starts at zoom 1 with the default light direction.
func NewViewState(shading render.ShadingMode, wireframe bool) *ViewState {
	return &ViewState{
		Shading:   shading,
		Wireframe: wireframe,
		LightDir:  render.DefaultLighting().PointDir.Normalize(),
		Zoom:      1,
	}
}

// NextShading cycles flat, gouraud and phong.
func (v *ViewState) NextShading() {
	v.Shading = (v.Shading + 1) % (render.ShadingPhong + 1)
}

// ZoomBy multiplies the zoom, keeping it within [0.2, 5].
func (v *ViewState) ZoomBy(f float64) {
	v.Zoom = math.Max(0.2, math.Min(5, v.Zoom*f))
}

// Light returns the light direction to render with.
func (v *ViewState) Light() math3d.Vec3 {
	if v.LightMode {
		return v.PendingLight
	}
	return v.LightDir
}

// ScreenToLightDir maps a screen position onto the hemisphere facing the
// viewer. The picture's y axis points up, so screen rows are flipped.
func (v *ViewState) ScreenToLightDir(screenX, screenY, width, height int) math3d.Vec3 {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)
	return math3d.V3(nx, -ny, nz).Normalize()
}

// HUD renders an overlay with model info and the current modes.
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a HUD for the named model with polyCount triangles.
func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS counts a frame.
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD directly to the terminal. stats are the triangle
// counts of the last frame.
func (h *HUD) Render(width, height int, view *ViewState, stats render.DrawStats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Clear both rows so hiding the HUD erases it.
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if view.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max((width-60)/2, 1)) + msg)
		return
	}
	if !view.ShowHUD {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset)
	fmt.Print(moveTo(1, max((width-len(h.filename)-2)/2, 1)) + title)

	polys := fmt.Sprintf("%s%s%s %d/%d polys %s", bgBlack, fgCyan, bold, stats.Drawn, h.polyCount, reset)
	fmt.Print(moveTo(1, max(width-18, 1)) + polys)

	checkWire := "[ ]"
	if view.Wireframe {
		checkWire = "[✓]"
	}
	modes := fmt.Sprintf("%s%s %s shading  %s X-Ray (wireframe) %s",
		bgBlack, fgWhite, view.Shading, checkWire, reset)
	fmt.Print(moveTo(height, 1) + modes)

	hint := fmt.Sprintf("%s%s%s L: position light %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-18, 1)) + hint)
}

// viewer owns the terminal loop state.
type viewer struct {
	opts *options
	mesh *models.Mesh

	width, height int // terminal cells
	supersample   int
	session       *scene.Session
	frame         *image.RGBA

	rotation *RotationState
	view     *ViewState
	hud      *HUD

	torque    struct{ pitch, yaw, roll float64 }
	mouseDown bool
	lastX     int
	lastY     int
	quit      bool
}

const torqueStrength = 3.0

// resize rebuilds the session for a terminal of width x height cells. Each
// cell shows two pixel rows.
func (v *viewer) resize(width, height int) error {
	v.width, v.height = width, height
	cfg, err := v.opts.config(width*v.supersample, height*2*v.supersample)
	if err != nil {
		return err
	}
	v.session = scene.NewSession(cfg)
	v.frame = image.NewRGBA(image.Rect(0, 0, width, height*2))
	return nil
}

// commands builds the scene for the current frame.
func (v *viewer) commands() []scene.Command {
	pic := v.session.Picture()
	w, h := float64(pic.Width()), float64(pic.Height())
	k := 0.8 * v.view.Zoom * math.Min(w, h)

	cmds := []scene.Command{
		scene.SetLight{Color: render.RGB{255, 255, 255}, Direction: v.view.Light()},
		scene.SetShading{Mode: v.view.Shading},
		scene.SetWireframe{Enabled: v.view.Wireframe},
		scene.Push{},
		scene.Move{Delta: math3d.V3(w/2, h/2, 0)},
		scene.Scale{Factors: math3d.V3(k, k, k)},
	}
	cmds = append(cmds, v.rotation.Commands()...)
	return append(cmds, scene.Mesh{Model: v.mesh}, scene.Pop{})
}

// renderFrame draws the scene and scales it down to one pixel per half cell.
func (v *viewer) renderFrame() error {
	v.session.Reset()
	if err := v.session.Run(v.commands()); err != nil {
		return err
	}
	src := v.session.Picture().ToImage()
	xdraw.ApproxBiLinear.Scale(v.frame, v.frame.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return nil
}

func (v *viewer) handle(ev uv.Event) error {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		return v.resize(ev.Width, ev.Height)

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape"):
			if v.view.LightMode {
				v.view.LightMode = false
			} else {
				v.quit = true
			}
		case ev.MatchString("ctrl+c"):
			v.quit = true
		case ev.MatchString("q"):
			v.torque.roll = -torqueStrength
		case ev.MatchString("e"):
			v.torque.roll = torqueStrength
		case ev.MatchString("r"):
			v.rotation.Reset()
			v.view.Zoom = 1
		case ev.MatchString("w", "up"):
			v.torque.pitch = -torqueStrength
		case ev.MatchString("s", "down"):
			v.torque.pitch = torqueStrength
		case ev.MatchString("a", "left"):
			v.torque.yaw = -torqueStrength
		case ev.MatchString("d", "right"):
			v.torque.yaw = torqueStrength
		case ev.MatchString("space"):
			v.rotation.ApplyImpulse(
				(rand.Float64()-0.5)*1.5,
				(rand.Float64()-0.5)*1.5,
				(rand.Float64()-0.5)*1.5,
			)
		case ev.MatchString("+", "="):
			v.view.ZoomBy(1.1)
		case ev.MatchString("-", "_"):
			v.view.ZoomBy(1 / 1.1)
		case ev.MatchString("t"):
			v.view.NextShading()
		case ev.MatchString("x"):
			v.view.Wireframe = !v.view.Wireframe
		case ev.MatchString("l"):
			v.view.LightMode = true
			v.view.PendingLight = v.view.LightDir
		case ev.MatchString("?"), ev.MatchString("shift+/"):
			v.view.ShowHUD = !v.view.ShowHUD
		}

	case uv.KeyReleaseEvent:
		switch {
		case ev.MatchString("w", "up", "s", "down"):
			v.torque.pitch = 0
		case ev.MatchString("a", "left", "d", "right"):
			v.torque.yaw = 0
		case ev.MatchString("q", "e"):
			v.torque.roll = 0
		}

	case uv.MouseClickEvent:
		if v.view.LightMode {
			v.view.LightDir = v.view.PendingLight
			v.view.LightMode = false
		} else {
			v.mouseDown = true
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.view.LightMode {
			v.view.PendingLight = v.view.ScreenToLightDir(ev.X, ev.Y, v.width, v.height)
		} else if v.mouseDown {
			dx, dy := ev.X-v.lastX, ev.Y-v.lastY
			v.rotation.ApplyImpulse(float64(dy)*0.03, float64(dx)*0.03, 0)
			v.lastX, v.lastY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			v.view.ZoomBy(1.1)
		case uv.MouseWheelDown:
			v.view.ZoomBy(1 / 1.1)
		}
	}
	return nil
}

func runViewer(ctx context.Context, opts *options, vo *viewOptions, mesh *models.Mesh, name string) error {
	if vo.fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", vo.fps)
	}

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	v := &viewer{
		opts:        opts,
		mesh:        mesh,
		supersample: max(vo.supersample, 1),
		rotation:    NewRotationState(vo.fps),
		view:        NewViewState(render.ShadingPhong, opts.wireframe),
		hud:         NewHUD(name, mesh.TriangleCount()),
	}
	if v.view.Shading, err = render.ParseShadingMode(opts.shading); err != nil {
		return err
	}
	if err := v.resize(width, height); err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	events := term.Events()
	targetDuration := time.Second / time.Duration(vo.fps)
	lastFrame := time.Now()

	for {
	drain:
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-events:
				if !ok {
					events = nil
					break drain
				}
				prevW, prevH := v.width, v.height
				if err := v.handle(ev); err != nil {
					return err
				}
				if v.width != prevW || v.height != prevH {
					term.Erase()
					term.Resize(v.width, v.height)
				}
			default:
				break drain
			}
		}
		if v.quit {
			return nil
		}

		now := time.Now()
		dt := math.Min(now.Sub(lastFrame).Seconds(), 0.1)
		lastFrame = now

		// Key release events are unreliable, so held torque fades out.
		v.rotation.ApplyImpulse(v.torque.pitch*dt, v.torque.yaw*dt, v.torque.roll*dt)
		v.torque.pitch *= 0.9
		v.torque.yaw *= 0.9
		v.torque.roll *= 0.9
		v.rotation.Update()

		if err := v.renderFrame(); err != nil {
			return err
		}
		render.DrawImage(term, uv.Rectangle(image.Rect(0, 0, v.width, v.height)), v.frame)
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		v.hud.UpdateFPS()
		v.hud.Render(v.width, v.height, v.view, v.session.Stats())

		if elapsed := time.Since(now); elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
