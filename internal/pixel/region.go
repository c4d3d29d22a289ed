package pixel

import (
	"image"
	"image/draw"
)

// Region is a captured block of screen pixels together with the screen-space
// rectangle it was taken from. Regions are produced fresh by every capture and
// are never reused across frames.
type Region struct {
	Bounds Bounds
	Image  *image.RGBA
}

// NewRegion wraps img as the capture of bounds. The image is re-based so that
// its own coordinate space starts at (0,0).
func NewRegion(bounds Bounds, img image.Image) Region {
	return Region{Bounds: bounds, Image: ToRGBA(img)}
}

// Width returns the region width in pixels
func (r Region) Width() int {
	if r.Image == nil {
		return 0
	}
	return r.Image.Rect.Dx()
}

// Height returns the region height in pixels
func (r Region) Height() int {
	if r.Image == nil {
		return 0
	}
	return r.Image.Rect.Dy()
}

// In reports whether the region-local point lies inside the captured image
func (r Region) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < r.Width() && y < r.Height()
}

// At returns the colour at region-local (x, y). Points outside the image
// return black and false.
func (r Region) At(x, y int) (Color, bool) {
	if !r.In(x, y) {
		return Color{}, false
	}
	c := r.Image.RGBAAt(r.Image.Rect.Min.X+x, r.Image.Rect.Min.Y+y)
	return Color{R: c.R, G: c.G, B: c.B}, true
}

// ScreenAt returns the colour at screen point p
func (r Region) ScreenAt(p Point) (Color, bool) {
	return r.At(p.X-r.Bounds.X, p.Y-r.Bounds.Y)
}

// ScreenPoint converts a region-local point to screen space
func (r Region) ScreenPoint(x, y int) Point {
	return Point{X: r.Bounds.X + x, Y: r.Bounds.Y + y}
}

// ToRGBA converts any image to *image.RGBA with a zero-based rectangle
func ToRGBA(img image.Image) *image.RGBA {
	if img == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	return rgba
}
