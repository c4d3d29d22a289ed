package ocr

import (
	"image"
	"image/color"
	"image/draw"

	"qwop-bot/internal/pixel"
)

var boxColor = color.RGBA{R: 255, A: 255}

// Annotate renders the bitmap (black ink on white) with a red box around
// each glyph. It is a debugging artifact only.
func Annotate(b *Bitmap, glyphs []Glyph) *image.RGBA {
	gray := b.Gray()
	out := image.NewRGBA(gray.Rect)
	draw.Draw(out, out.Rect, gray, image.Point{}, draw.Src)

	for _, g := range glyphs {
		drawRect(out, g.Bounds, boxColor)
	}
	return out
}

// drawRect draws a one-pixel outline just outside bounds, clipped to img
func drawRect(img *image.RGBA, bounds pixel.Bounds, col color.RGBA) {
	x0, y0 := bounds.X-1, bounds.Y-1
	x1, y1 := bounds.X+bounds.W, bounds.Y+bounds.H

	set := func(x, y int) {
		if (image.Point{X: x, Y: y}).In(img.Rect) {
			img.SetRGBA(x, y, col)
		}
	}

	for x := x0; x <= x1; x++ {
		set(x, y0)
		set(x, y1)
	}
	for y := y0; y <= y1; y++ {
		set(x0, y)
		set(x1, y)
	}
}
