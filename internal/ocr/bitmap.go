// Package ocr - bitmap.go
//
// This file implements the first stage of score recognition: reducing a
// captured colour region to a monochrome ink/background bitmap.
//
// Pipeline overview (see reader.go for the driver):
//  1. Threshold: grey-level cutoff with gocv -> Bitmap
//  2. Segment: 8-connected ink components (gocv) -> Glyphs, left to right
//  3. Classify: normalised template matching -> symbols
//  4. Annotate: thresholded image with glyph boxes, for diagnostics only
package ocr

import (
	"fmt"
	"image"
	"strings"

	"gocv.io/x/gocv"

	"qwop-bot/internal/logging"
)

// Polarity says whether ink is brighter or darker than the background
type Polarity int

const (
	LightInk Polarity = iota // light text on a dark background
	DarkInk                  // dark text on a light background
)

// String returns the string representation of the polarity
func (p Polarity) String() string {
	if p == DarkInk {
		return "dark"
	}
	return "light"
}

// MarshalText encodes the polarity as "light" or "dark"
func (p Polarity) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses "light" or "dark"
func (p *Polarity) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "light", "":
		*p = LightInk
	case "dark":
		*p = DarkInk
	default:
		return fmt.Errorf("invalid ink polarity %q: want light or dark", text)
	}
	return nil
}

// Bitmap is a monochrome image; true means ink
type Bitmap struct {
	W   int
	H   int
	ink []bool
}

// NewBitmap creates an empty bitmap
func NewBitmap(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{W: w, H: h, ink: make([]bool, w*h)}
}

// Ink reports whether (x, y) is ink. Out-of-range points are background.
func (b *Bitmap) Ink(x, y int) bool {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return false
	}
	return b.ink[y*b.W+x]
}

// Set marks (x, y) as ink or background
func (b *Bitmap) Set(x, y int, ink bool) {
	if x < 0 || y < 0 || x >= b.W || y >= b.H {
		return
	}
	b.ink[y*b.W+x] = ink
}

// Count returns the number of ink pixels
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.ink {
		if v {
			n++
		}
	}
	return n
}

// Gray renders the bitmap as black ink on white
func (b *Bitmap) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.W, b.H))
	for i, v := range b.ink {
		if v {
			img.Pix[i] = 0
		} else {
			img.Pix[i] = 255
		}
	}
	return img
}

// Threshold converts img to a bitmap. A pixel is ink when its grey level is
// at or above cutoff (LightInk) or below it (DarkInk).
func Threshold(img image.Image, cutoff uint8, polarity Polarity) *Bitmap {
	r := img.Bounds()
	if r.Empty() {
		return NewBitmap(0, 0)
	}

	src, err := gocv.ImageToMatRGB(img)
	if err != nil {
		logging.Warnf("Threshold: convert image: %v", err)
		return NewBitmap(r.Dx(), r.Dy())
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

	// OpenCV keeps values strictly above the threshold
	typ := gocv.ThresholdBinary
	if polarity == DarkInk {
		typ = gocv.ThresholdBinaryInv
	}
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(gray, &mask, float32(cutoff)-1, 255, typ)

	return bitmapFromMat(mask)
}

// bitmapFromMat reads a single-channel 8-bit mask; non-zero is ink
func bitmapFromMat(m gocv.Mat) *Bitmap {
	b := NewBitmap(m.Cols(), m.Rows())
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			b.ink[y*b.W+x] = m.GetUCharAt(y, x) != 0
		}
	}
	return b
}

// Mat returns the bitmap as an 8-bit mask (ink = 255). The caller closes it.
func (b *Bitmap) Mat() (gocv.Mat, error) {
	data := make([]byte, len(b.ink))
	for i, v := range b.ink {
		if v {
			data[i] = 255
		}
	}
	return gocv.NewMatFromBytes(b.H, b.W, gocv.MatTypeCV8U, data)
}
