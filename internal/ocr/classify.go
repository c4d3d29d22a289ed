package ocr

import (
	"image"
	"image/color"

	"github.com/nfnt/resize"
)

// Classification grid. Glyphs and templates are both resampled to it so that
// small size differences between capture and template do not matter.
const (
	gridW = 12
	gridH = 16
)

var colorInk = color.Gray{Y: 255}

// Match is the best classification of one glyph
type Match struct {
	Symbol rune
	Score  float64
}

// Classify returns the best-scoring template for g. Symbol is Unknown when no
// template reaches minSimilarity.
func (ts *TemplateSet) Classify(g Glyph, minSimilarity float64) Match {
	cells := normalize(g.Mask())
	aspect := aspectOf(g.W, g.H)

	best := Match{Symbol: Unknown}
	for _, t := range ts.Templates {
		s := similarity(cells, aspect, t)
		if s > best.Score {
			best.Score = s
			if s >= minSimilarity {
				best.Symbol = t.Symbol
			} else {
				best.Symbol = Unknown
			}
		}
	}
	return best
}

// similarity is the fraction of agreeing grid cells scaled by how close the
// two aspect ratios are
func similarity(cells []bool, aspect float64, t Template) float64 {
	agree := 0
	for i := range cells {
		if cells[i] == t.cells[i] {
			agree++
		}
	}
	ratio := aspect / t.aspect
	if ratio > 1 {
		ratio = 1 / ratio
	}
	return float64(agree) / float64(len(cells)) * ratio
}

// normalize resamples a mask onto the grid with nearest-neighbour
// interpolation and re-thresholds it
func normalize(mask *image.Gray) []bool {
	cells := make([]bool, gridW*gridH)
	if mask.Rect.Empty() {
		return cells
	}

	scaled := resize.Resize(gridW, gridH, mask, resize.NearestNeighbor)
	b := scaled.Bounds()
	for y := 0; y < gridH; y++ {
		for x := 0; x < gridW; x++ {
			g := color.GrayModel.Convert(scaled.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			cells[y*gridW+x] = g.Y >= 128
		}
	}
	return cells
}

func aspectOf(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	return float64(w) / float64(h)
}
