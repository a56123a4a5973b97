package render

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// ToImage converts the picture to a standard Go image.RGBA.
func (p *Picture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, p.width, p.height))
	for row := 0; row < p.height; row++ {
		for x := 0; x < p.width; x++ {
			img.SetRGBA(x, row, p.pix[row*p.width+x])
		}
	}
	return img
}

// SavePNG writes the picture as a PNG file.
func (p *Picture) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, p.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// WritePPM writes the picture as a plain-text (P3) portable pixmap. Channels
// are rescaled from 0..255 to 0..MaxColor.
func (p *Picture) WritePPM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3 %d %d %d\n", p.width, p.height, p.maxColor)
	for _, c := range p.pix {
		fmt.Fprintf(bw, "%d %d %d\n", p.channel(c.R), p.channel(c.G), p.channel(c.B))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ppm: %w", err)
	}
	return nil
}

// channel maps an 8-bit value onto 0..maxColor, rounding to nearest.
func (p *Picture) channel(v uint8) int {
	return (int(v)*p.maxColor + 127) / 255
}

// SavePPM writes the picture as a plain-text PPM file.
func (p *Picture) SavePPM(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := p.WritePPM(f); err != nil {
		return err
	}
	return f.Close()
}
