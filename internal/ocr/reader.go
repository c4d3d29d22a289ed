package ocr

import (
	"errors"
	"fmt"
	"image"
	"strconv"
	"strings"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/pixel"
)

// Unknown is emitted for a glyph no template matches well enough
const Unknown = '?'

// ErrNoDigits is returned by ParseDistance when nothing was recognised
var ErrNoDigits = errors.New("no digits recognised")

// RectCapturer captures a screen rectangle
type RectCapturer interface {
	CaptureRect(b pixel.Bounds) (pixel.Region, error)
}

// ScoreReader turns the score area of a located game into text
type ScoreReader interface {
	ReadScore(origin pixel.Point) (Result, error)
}

// Params is the calibration for score recognition
type Params struct {
	Region        pixel.Bounds // origin-relative score rectangle
	Cutoff        uint8        // luminance threshold
	Polarity      Polarity     // which side of the cutoff is ink
	MinSimilarity float64      // below this a glyph is Unknown
	MinPixels     int          // smaller components are noise
	WordGap       int          // horizontal gap that separates words
}

// DefaultParams returns the calibration for the reference layout
func DefaultParams() Params {
	return Params{
		Region:        pixel.NewBounds(200, 20, 200, 30),
		Cutoff:        128,
		Polarity:      LightInk,
		MinSimilarity: 0.75,
		MinPixels:     2,
		WordGap:       6,
	}
}

// Result is the outcome of one recognition
type Result struct {
	Text      string       // recognised symbols, words separated by a space
	Glyphs    []Glyph      // segmented components, left to right
	Matches   []Match      // classification of each glyph
	Capture   pixel.Region // raw captured pixels
	Bitmap    *Bitmap      // thresholded capture
	Annotated *image.RGBA  // thresholded capture with glyph boxes
}

// Reader reads the distance score with template matching
type Reader struct {
	capturer  RectCapturer
	templates *TemplateSet
	params    Params
}

// NewReader creates a template-matching score reader
func NewReader(capturer RectCapturer, templates *TemplateSet, params Params) *Reader {
	return &Reader{capturer: capturer, templates: templates, params: params}
}

// ReadScore captures the score rectangle relative to origin and recognises
// it. The error covers capture failures only; poor recognition shows up in
// Result.Text.
func (r *Reader) ReadScore(origin pixel.Point) (Result, error) {
	rect := r.params.Region.Offset(origin)
	region, err := r.capturer.CaptureRect(rect)
	if err != nil {
		return Result{}, fmt.Errorf("capture score region: %w", err)
	}

	res := Recognize(region.Image, r.templates, r.params)
	res.Capture = region
	logging.Debugf("Score region (%d,%d %dx%d): %d glyphs, text %q", rect.X, rect.Y, rect.W, rect.H, len(res.Glyphs), res.Text)
	return res, nil
}

// Recognize runs threshold, segment, classify and annotate on an image
func Recognize(img image.Image, templates *TemplateSet, params Params) Result {
	bitmap := Threshold(img, params.Cutoff, params.Polarity)
	glyphs := Segment(bitmap, params.MinPixels)

	var sb strings.Builder
	matches := make([]Match, 0, len(glyphs))
	for i, g := range glyphs {
		m := Match{Symbol: Unknown}
		if templates != nil {
			m = templates.Classify(g, params.MinSimilarity)
		}
		matches = append(matches, m)

		if i > 0 && params.WordGap > 0 {
			prev := glyphs[i-1]
			if g.X-(prev.X+prev.W) >= params.WordGap {
				sb.WriteByte(' ')
			}
		}
		sb.WriteRune(m.Symbol)
	}

	return Result{
		Text:      sb.String(),
		Glyphs:    glyphs,
		Matches:   matches,
		Capture:   pixel.NewRegion(pixel.BoundsFromRect(img.Bounds()), img),
		Bitmap:    bitmap,
		Annotated: Annotate(bitmap, glyphs),
	}
}

// ParseDistance parses the first word of recognised text as a number. A
// trailing unit word ("97.3 metres") is ignored.
func ParseDistance(text string) (float64, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, ErrNoDigits
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("unreadable score %q: %w", fields[0], err)
	}
	return v, nil
}
