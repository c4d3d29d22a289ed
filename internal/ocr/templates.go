package ocr

import (
	"fmt"
	"image"
	"image/draw"
	"sync"

	"github.com/vcaesar/imgo"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultAlphabet is the symbol set a distance score can contain
const DefaultAlphabet = "0123456789.-"

// Template is one reference glyph, normalised to the classification grid
type Template struct {
	Symbol rune
	cells  []bool
	aspect float64
}

// TemplateSet is the fixed set of reference glyphs a reader matches against
type TemplateSet struct {
	Templates []Template
}

// NewTemplate normalises a glyph mask (ink = bright) into a template
func NewTemplate(symbol rune, mask *image.Gray) Template {
	return Template{
		Symbol: symbol,
		cells:  normalize(mask),
		aspect: aspectOf(mask.Rect.Dx(), mask.Rect.Dy()),
	}
}

// Symbols returns the symbols of the set, in order
func (ts *TemplateSet) Symbols() string {
	runes := make([]rune, len(ts.Templates))
	for i, t := range ts.Templates {
		runes[i] = t.Symbol
	}
	return string(runes)
}

var (
	defaultOnce      sync.Once
	defaultTemplates *TemplateSet
	defaultErr       error
)

// DefaultTemplates returns templates rendered from the 7x13 fixed font
func DefaultTemplates() (*TemplateSet, error) {
	defaultOnce.Do(func() {
		defaultTemplates, defaultErr = FontTemplates(basicfont.Face7x13, DefaultAlphabet)
	})
	return defaultTemplates, defaultErr
}

// FontTemplates renders every symbol of alphabet with face and builds a
// template from the ink it produces.
//
// Algorithm:
//  1. Draw the symbol white on black into a canvas three advances wide
//  2. Threshold and segment it exactly as a captured score would be
//  3. The glyph must come out as a single component; it becomes the template
func FontTemplates(face font.Face, alphabet string) (*TemplateSet, error) {
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil() + 4

	ts := &TemplateSet{}
	for _, r := range alphabet {
		adv, ok := face.GlyphAdvance(r)
		if !ok {
			return nil, fmt.Errorf("font has no glyph for %q", r)
		}
		width := adv.Ceil()*3 + 4

		canvas := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.Draw(canvas, canvas.Rect, image.Black, image.Point{}, draw.Src)
		d := &font.Drawer{
			Dst:  canvas,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(adv.Ceil()+2, metrics.Ascent.Ceil()+2),
		}
		d.DrawString(string(r))

		glyphs := Segment(Threshold(canvas, 128, LightInk), 1)
		if len(glyphs) != 1 {
			return nil, fmt.Errorf("symbol %q renders as %d components, want 1", r, len(glyphs))
		}
		ts.Templates = append(ts.Templates, NewTemplate(r, glyphs[0].Mask()))
	}
	return ts, nil
}

// LoadTemplateStrip reads a PNG strip holding the glyphs of alphabet side by
// side, in order, and builds a template from each.
func LoadTemplateStrip(path, alphabet string, cutoff uint8, polarity Polarity) (*TemplateSet, error) {
	img, err := imgo.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read template strip %s: %w", path, err)
	}
	return TemplatesFromStrip(img, alphabet, cutoff, polarity)
}

// TemplatesFromStrip builds templates from an in-memory strip image
func TemplatesFromStrip(img image.Image, alphabet string, cutoff uint8, polarity Polarity) (*TemplateSet, error) {
	symbols := []rune(alphabet)
	glyphs := Segment(Threshold(img, cutoff, polarity), 1)
	if len(glyphs) != len(symbols) {
		return nil, fmt.Errorf("template strip has %d glyphs, alphabet %q has %d", len(glyphs), alphabet, len(symbols))
	}

	ts := &TemplateSet{Templates: make([]Template, 0, len(symbols))}
	for i, g := range glyphs {
		ts.Templates = append(ts.Templates, NewTemplate(symbols[i], g.Mask()))
	}
	return ts, nil
}
