package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// DrawImage paints img onto a terminal screen using half-block cells.
// Each terminal row shows two image rows: the upper one as the foreground of
// "▀" and the lower one as the background. The image is drawn from its
// top-left corner; pixels beyond area are skipped.
func DrawImage(scr uv.Screen, area uv.Rectangle, img *image.RGBA) {
	b := img.Bounds()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := b.Min.Y + (row-area.Min.Y)*2
		if top >= b.Max.Y {
			break
		}
		for col := area.Min.X; col < area.Max.X; col++ {
			x := b.Min.X + col - area.Min.X
			if x >= b.Max.X {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(img, x, top),
					Bg: cellColor(img, x, top+1),
				},
			})
		}
	}
}

// cellColor returns nil for transparent or out of range pixels so the
// terminal's own color shows through.
func cellColor(img *image.RGBA, x, y int) color.Color {
	if !image.Pt(x, y).In(img.Bounds()) {
		return nil
	}
	c := img.RGBAAt(x, y)
	if c.A == 0 {
		return nil
	}
	return c
}
