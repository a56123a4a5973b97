package render

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func countColor(p *Picture, c Color) int {
	n := 0
	for _, px := range p.Pix() {
		if px == c {
			n++
		}
	}
	return n
}

func TestNewPictureCleared(t *testing.T) {
	p := NewPicture(4, 3, 255, ColorWhite)
	if p.Width() != 4 || p.Height() != 3 || p.MaxColor() != 255 {
		t.Fatalf("got %dx%d max %d", p.Width(), p.Height(), p.MaxColor())
	}
	if countColor(p, ColorWhite) != 12 {
		t.Errorf("expected every pixel white")
	}
	if !math.IsInf(p.Depth(1, 1), -1) {
		t.Errorf("Depth = %v, want -Inf", p.Depth(1, 1))
	}
}

func TestPlotOriginBottomLeft(t *testing.T) {
	p := NewPicture(5, 4, 255, ColorWhite)
	p.Plot(0, 0, 0, ColorRed)

	if got := p.Pix()[3*5]; got != ColorRed {
		t.Errorf("storage row 3 col 0 = %v, want red", got)
	}
	if p.At(0, 0) != ColorRed {
		t.Errorf("At(0,0) = %v, want red", p.At(0, 0))
	}
	img := p.ToImage()
	if img.RGBAAt(0, 3) != ColorRed {
		t.Errorf("image bottom-left = %v, want red", img.RGBAAt(0, 3))
	}
}

func TestPlotOutOfBoundsIgnored(t *testing.T) {
	p := NewPicture(5, 5, 255, ColorWhite)
	for _, pt := range [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {100, 100}} {
		p.Plot(pt[0], pt[1], 0, ColorRed)
	}
	if countColor(p, ColorRed) != 0 {
		t.Error("out-of-bounds plot changed the picture")
	}
	if p.At(-1, 0) != (Color{}) {
		t.Error("At out of bounds should return the zero color")
	}
}

func TestDepthLargerZWins(t *testing.T) {
	p := NewPicture(10, 10, 255, ColorWhite)

	p.Plot(5, 5, 1.0, ColorRed)
	p.Plot(5, 5, 0.5, ColorBlue)
	if p.At(5, 5) != ColorRed {
		t.Fatalf("farther write replaced nearer pixel: got %v", p.At(5, 5))
	}
	if p.Depth(5, 5) != 1.0 {
		t.Errorf("depth = %v, want 1", p.Depth(5, 5))
	}

	p.Plot(5, 5, 1.0, ColorGreen)
	if p.At(5, 5) != ColorGreen {
		t.Errorf("equal depth should be accepted: got %v", p.At(5, 5))
	}
}

func TestDepthTestDisabled(t *testing.T) {
	p := NewPicture(10, 10, 255, ColorWhite)
	p.DepthTest = false

	p.Plot(5, 5, 1.0, ColorRed)
	p.Plot(5, 5, 0.5, ColorBlue)
	if p.At(5, 5) != ColorBlue {
		t.Errorf("got %v, want blue", p.At(5, 5))
	}
}

func TestDepthPrecision(t *testing.T) {
	p := NewPicture(10, 10, 255, ColorWhite)
	p.SetDepthPrecision(2)

	p.Plot(1, 1, 0.999, ColorRed)
	p.Plot(1, 1, 0.991, ColorBlue)
	if p.At(1, 1) != ColorBlue {
		t.Errorf("depths equal after truncation should be accepted: got %v", p.At(1, 1))
	}
	if p.Depth(1, 1) != 0.99 {
		t.Errorf("stored depth = %v, want 0.99", p.Depth(1, 1))
	}
}

func TestClearResetsDepth(t *testing.T) {
	p := NewPicture(10, 10, 255, ColorWhite)
	p.Plot(2, 2, 100, ColorRed)
	p.Clear()

	if p.At(2, 2) != ColorWhite {
		t.Errorf("pixel not cleared: %v", p.At(2, 2))
	}
	p.Plot(2, 2, -100, ColorBlue)
	if p.At(2, 2) != ColorBlue {
		t.Errorf("depth not reset: %v", p.At(2, 2))
	}
}

func TestDrawLineHorizontalElevenPixels(t *testing.T) {
	p := NewPicture(20, 20, 255, ColorWhite)
	p.DrawLine(0, 0, 0, 10, 0, 0, ColorRed)

	if n := countColor(p, ColorRed); n != 11 {
		t.Fatalf("plotted %d pixels, want 11", n)
	}
	for x := 0; x <= 10; x++ {
		if p.At(x, 0) != ColorRed {
			t.Errorf("gap at x=%d", x)
		}
	}
}

func TestDrawLineOctants(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
	}{
		{"east", 2, 10, 18, 14},
		{"north-east steep", 2, 2, 6, 18},
		{"north", 10, 1, 10, 17},
		{"north-west steep", 15, 2, 11, 19},
		{"west", 18, 5, 1, 9},
		{"south-west", 18, 18, 3, 10},
		{"south", 4, 18, 4, 0},
		{"south-east steep", 5, 19, 9, 0},
		{"point", 7, 7, 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPicture(20, 20, 255, ColorWhite)
			p.DrawLine(tt.x0, tt.y0, 0, tt.x1, tt.y1, 0, ColorRed)

			want := max(abs(tt.x1-tt.x0), abs(tt.y1-tt.y0)) + 1
			if n := countColor(p, ColorRed); n != want {
				t.Errorf("plotted %d pixels, want %d", n, want)
			}
			if p.At(tt.x0, tt.y0) != ColorRed || p.At(tt.x1, tt.y1) != ColorRed {
				t.Error("missing endpoint")
			}
		})
	}
}

func TestDrawLineDepthInterpolation(t *testing.T) {
	p := NewPicture(20, 20, 255, ColorWhite)
	p.DrawLine(0, 0, 0, 9, 0, 10, ColorRed)

	for x := range 10 {
		if got := p.Depth(x, 0); math.Abs(got-float64(x)) > 1e-9 {
			t.Errorf("depth at x=%d = %v, want %d", x, got, x)
		}
	}
}

func TestDrawLineClipped(t *testing.T) {
	p := NewPicture(10, 10, 255, ColorWhite)
	p.DrawLine(-20, 5, 0, 30, 5, 0, ColorRed)
	if n := countColor(p, ColorRed); n != 10 {
		t.Errorf("plotted %d visible pixels, want 10", n)
	}
}

func TestWritePPM(t *testing.T) {
	p := NewPicture(2, 1, 255, ColorWhite)
	p.Plot(0, 0, 0, ColorRed)

	var buf bytes.Buffer
	if err := p.WritePPM(&buf); err != nil {
		t.Fatal(err)
	}
	want := "P3 2 1 255\n255 0 0\n255 255 255\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !strings.HasPrefix(buf.String(), "P3") {
		t.Error("missing magic")
	}
}

func TestWritePPMScalesToMaxColor(t *testing.T) {
	p := NewPicture(2, 1, 15, ColorWhite)
	p.Plot(0, 0, 0, RGB8(128, 0, 255))

	var buf bytes.Buffer
	if err := p.WritePPM(&buf); err != nil {
		t.Fatal(err)
	}
	want := "P3 2 1 15\n8 0 15\n15 15 15\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMaxColorClamped(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{1, 1},
		{15, 15},
		{255, 255},
		{0, 255},
		{-4, 255},
		{65535, 255},
	}

	for _, tt := range tests {
		if got := NewPicture(1, 1, tt.in, ColorWhite).MaxColor(); got != tt.want {
			t.Errorf("NewPicture max %d: MaxColor() = %d, want %d", tt.in, got, tt.want)
		}
	}
}
