package scene

import (
	"errors"
	"fmt"
	"maps"
	"strconv"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/scanline/pkg/render"
)

var (
	// ErrNoFrames is returned when animation commands appear without a
	// frame count.
	ErrNoFrames = errors.New("animation without frame count")
	// ErrNoBasename is returned when a frame count is set without a basename.
	ErrNoBasename = errors.New("frame count without basename")
	// ErrFrameRange is returned for frame numbers outside [0, frames) or
	// ranges whose start follows their end.
	ErrFrameRange = errors.New("frame out of range")
)

// Easing shapes how a knob moves across a frame range.
type Easing int

const (
	// EaseLinear interpolates at a constant rate.
	EaseLinear Easing = iota
	// EaseSpring follows a damped spring that settles on the end value.
	EaseSpring
)

// Spring parameters for EaseSpring. The whole range is simulated as one
// second of motion.
const (
	springFrequency = 6.0
	springDamping   = 0.7
)

// Animation is the per-frame knob table derived from a command list.
type Animation struct {
	Frames   int
	Basename string
	Knobs    []map[string]float64 // One entry per frame
}

// Animated reports whether the command list defined frames.
func (a *Animation) Animated() bool {
	return a.Frames > 0
}

// FrameName returns the basename followed by the zero-padded frame number.
func (a *Animation) FrameName(frame int) string {
	width := max(3, len(strconv.Itoa(a.Frames-1)))
	return fmt.Sprintf("%s%0*d", a.Basename, width, frame)
}

// PlanAnimation validates the animation commands in cmds and computes every
// knob's value for every frame. A list without animation commands yields an
// Animation with zero frames.
//
// Knobs set with SetKnob hold their value in every frame unless a Vary or
// Tween covering that frame overrides it. SaveKnobs snapshots the SetKnob
// values seen before it.
func PlanAnimation(cmds []Command) (*Animation, error) {
	anim := &Animation{}
	var hasFrames, hasBasename, hasMotion bool
	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case Frames:
			anim.Frames = c.Count
			hasFrames = true
		case Basename:
			anim.Basename = c.Name
			hasBasename = true
		case Vary, Tween:
			hasMotion = true
		}
	}

	switch {
	case (hasMotion || hasBasename) && !hasFrames:
		return nil, ErrNoFrames
	case hasFrames && !hasBasename:
		return nil, ErrNoBasename
	case hasFrames && anim.Frames < 1:
		return nil, fmt.Errorf("%w: %d frames", ErrFrameRange, anim.Frames)
	case !hasFrames:
		return anim, nil
	}

	anim.Knobs = make([]map[string]float64, anim.Frames)
	for i := range anim.Knobs {
		anim.Knobs[i] = make(map[string]float64)
	}
	static := make(map[string]float64)
	saved := make(map[string]map[string]float64)

	for _, cmd := range cmds {
		switch c := cmd.(type) {
		case SetKnob:
			static[c.Name] = c.Value
		case SaveKnobs:
			saved[c.Name] = maps.Clone(static)
		case Vary:
			if err := anim.checkRange(c.StartFrame, c.EndFrame); err != nil {
				return nil, fmt.Errorf("vary %q: %w", c.Knob, err)
			}
			anim.fill(c.Knob, c.StartFrame, c.EndFrame, c.StartValue, c.EndValue, c.Easing)
		case Tween:
			if err := anim.checkRange(c.StartFrame, c.EndFrame); err != nil {
				return nil, fmt.Errorf("tween: %w", err)
			}
			from, ok := saved[c.From]
			if !ok {
				return nil, fmt.Errorf("tween: %w: knob list %q", ErrUnknownSymbol, c.From)
			}
			to, ok := saved[c.To]
			if !ok {
				return nil, fmt.Errorf("tween: %w: knob list %q", ErrUnknownSymbol, c.To)
			}
			names := maps.Clone(from)
			maps.Copy(names, to)
			for name := range names {
				anim.fill(name, c.StartFrame, c.EndFrame, from[name], to[name], c.Easing)
			}
		}
	}

	// Static values cover the frames no Vary or Tween reached.
	for _, frame := range anim.Knobs {
		for name, v := range static {
			if _, ok := frame[name]; !ok {
				frame[name] = v
			}
		}
	}

	Logger().Debug("animation planned", "frames", anim.Frames, "basename", anim.Basename)
	return anim, nil
}

func (a *Animation) checkRange(start, end int) error {
	if start < 0 || end < 0 || start >= a.Frames || end >= a.Frames {
		return fmt.Errorf("%w: %d to %d of %d frames", ErrFrameRange, start, end, a.Frames)
	}
	if start > end {
		return fmt.Errorf("%w: start %d after end %d", ErrFrameRange, start, end)
	}
	return nil
}

func (a *Animation) fill(knob string, start, end int, from, to float64, easing Easing) {
	values := easeSeries(from, to, end-start+1, easing)
	for i, v := range values {
		a.Knobs[start+i][knob] = v
	}
}

// easeSeries returns n values starting at from and ending exactly at to.
func easeSeries(from, to float64, n int, easing Easing) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = to
		return out
	}

	switch easing {
	case EaseSpring:
		spring := harmonica.NewSpring(harmonica.FPS(n-1), springFrequency, springDamping)
		pos, vel := from, 0.0
		for i := range out {
			out[i] = pos
			pos, vel = spring.Update(pos, vel, to)
		}
	default:
		step := (to - from) / float64(n-1)
		for i := range out {
			out[i] = from + step*float64(i)
		}
	}
	out[n-1] = to
	return out
}

// FrameFunc receives each finished frame. name is empty for a still image.
type FrameFunc func(frame int, name string, pic *render.Picture) error

// RenderFrames plans cmds and runs them once per frame on a fresh session
// state, handing every finished picture to fn. A list without animation is
// rendered once.
func RenderFrames(cfg Config, cmds []Command, fn FrameFunc) error {
	anim, err := PlanAnimation(cmds)
	if err != nil {
		return err
	}

	s := NewSession(cfg)
	if !anim.Animated() {
		if err := s.Run(cmds); err != nil {
			return err
		}
		return fn(0, "", s.Picture())
	}

	for frame := range anim.Frames {
		s.Reset()
		s.SetKnobs(anim.Knobs[frame])
		if err := s.Run(cmds); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		name := anim.FrameName(frame)
		if err := fn(frame, name, s.Picture()); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
		stats := s.Stats()
		Logger().Info("frame rendered", "frame", frame, "name", name, "drawn", stats.Drawn, "culled", stats.Culled)
	}
	return nil
}
