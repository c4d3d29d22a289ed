package ocr

import (
	"image"
	"sort"

	"gocv.io/x/gocv"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/pixel"
)

// Glyph is one maximal 8-connected ink component: its bounding rectangle in
// bitmap coordinates and the ink pixels that belong to it.
type Glyph struct {
	pixel.Bounds
	Points []pixel.Point
}

// Mask renders only this component's pixels (ink = 255) into an image the
// size of the glyph bounds. Ink from neighbouring components that happens to
// fall inside the rectangle is left out.
func (g Glyph) Mask() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.W, g.H))
	for _, p := range g.Points {
		img.SetGray(p.X-g.X, p.Y-g.Y, colorInk)
	}
	return img
}

// Segment finds the connected ink components of b, drops those smaller than
// minPixels, and returns them ordered left to right (ties top to bottom).
//
// 8-connectivity is used because digits in small bitmap fonts are often joined
// only diagonally (the shoulders of 0, 2 and 3).
func Segment(b *Bitmap, minPixels int) []Glyph {
	if b.W == 0 || b.H == 0 {
		return nil
	}

	mask, err := b.Mat()
	if err != nil {
		logging.Warnf("Segment: build mask: %v", err)
		return nil
	}
	defer mask.Close()

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStatsWithParams(mask, &labels, &stats, &centroids,
		8, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)

	// Label 0 is the background
	points := make([][]pixel.Point, n)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if l := int(labels.GetIntAt(y, x)); l > 0 && l < n {
				points[l] = append(points[l], pixel.Point{X: x, Y: y})
			}
		}
	}

	var glyphs []Glyph
	for l := 1; l < n; l++ {
		if int(stats.GetIntAt(l, int(gocv.CC_STAT_AREA))) < minPixels {
			continue
		}
		bounds := pixel.NewBounds(
			int(stats.GetIntAt(l, int(gocv.CC_STAT_LEFT))),
			int(stats.GetIntAt(l, int(gocv.CC_STAT_TOP))),
			int(stats.GetIntAt(l, int(gocv.CC_STAT_WIDTH))),
			int(stats.GetIntAt(l, int(gocv.CC_STAT_HEIGHT))),
		)
		glyphs = append(glyphs, Glyph{Bounds: bounds, Points: points[l]})
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].X != glyphs[j].X {
			return glyphs[i].X < glyphs[j].X
		}
		return glyphs[i].Y < glyphs[j].Y
	})
	return glyphs
}
