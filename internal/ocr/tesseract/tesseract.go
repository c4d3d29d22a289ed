// Package tesseract reads the distance score with the Tesseract engine. It is
// a cross-check for the template reader in package ocr: same capture, same
// thresholded bitmap, different classifier.
//
// Requires libtesseract and leptonica at build time (cgo).
package tesseract

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/ocr"
	"qwop-bot/internal/pixel"
)

// Whitelist restricts recognition to characters a score can contain
const Whitelist = "0123456789.-"

// Reader implements ocr.ScoreReader on top of a Tesseract client
type Reader struct {
	capturer ocr.RectCapturer
	params   ocr.Params
	client   *gosseract.Client
}

// NewReader creates a reader. Close must be called to release the engine.
func NewReader(capturer ocr.RectCapturer, params ocr.Params) (*Reader, error) {
	client := gosseract.NewClient()
	if err := client.SetWhitelist(Whitelist); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract whitelist: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		client.Close()
		return nil, fmt.Errorf("tesseract page mode: %w", err)
	}
	return &Reader{capturer: capturer, params: params, client: client}, nil
}

// Close releases the engine
func (r *Reader) Close() error {
	return r.client.Close()
}

// ReadScore captures the score rectangle relative to origin and recognises it
func (r *Reader) ReadScore(origin pixel.Point) (ocr.Result, error) {
	rect := r.params.Region.Offset(origin)
	region, err := r.capturer.CaptureRect(rect)
	if err != nil {
		return ocr.Result{}, fmt.Errorf("capture score region: %w", err)
	}

	res, err := r.Recognize(region)
	if err != nil {
		return ocr.Result{}, err
	}
	logging.Debugf("Tesseract score (%d,%d %dx%d): %q", rect.X, rect.Y, rect.W, rect.H, res.Text)
	return res, nil
}

// Recognize runs the engine on an already captured region. The engine sees
// the thresholded bitmap (dark ink on white), which it handles better than
// the raw game colours.
func (r *Reader) Recognize(region pixel.Region) (ocr.Result, error) {
	bitmap := ocr.Threshold(region.Image, r.params.Cutoff, r.params.Polarity)

	var buf bytes.Buffer
	if err := png.Encode(&buf, bitmap.Gray()); err != nil {
		return ocr.Result{}, fmt.Errorf("encode bitmap: %w", err)
	}
	if err := r.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return ocr.Result{}, fmt.Errorf("tesseract image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return ocr.Result{}, fmt.Errorf("tesseract text: %w", err)
	}

	var glyphs []ocr.Glyph
	boxes, err := r.client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		logging.Debugf("Tesseract boxes unavailable: %v", err)
	}
	for _, b := range boxes {
		glyphs = append(glyphs, ocr.Glyph{Bounds: pixel.BoundsFromRect(b.Box)})
	}

	return ocr.Result{
		Text:      strings.Join(strings.Fields(text), " "),
		Glyphs:    glyphs,
		Capture:   region,
		Bitmap:    bitmap,
		Annotated: ocr.Annotate(bitmap, glyphs),
	}, nil
}
