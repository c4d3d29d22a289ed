// Package pixel - color.go
//
// This file defines the colour primitive shared by every recognition component
// and the tolerance-bounded comparison used to absorb capture noise.
//
// Key Responsibilities:
//   - Color: RGB triplet without alpha
//   - Distance: L1 distance in RGB space
//   - Matches: tolerance-bounded equality (distance strictly below tolerance)
//   - Text encoding as "#rrggbb" so colours can live in YAML calibration files
//
// Captured pixels are never compared for exact equality. Screen capture,
// browser compositing and colour management all introduce small per-channel
// drift, so every comparison goes through Matches with a calibrated tolerance.
package pixel

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// DefaultTolerance is the colour distance below which two colours are equal.
const DefaultTolerance = 3

// Color represents an RGB colour with 8 bits per channel
type Color struct {
	R uint8
	G uint8
	B uint8
}

// NewColor creates a new Color
func NewColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex creates a Color from a packed 0xRRGGBB value
func Hex(rgb uint32) Color {
	return Color{
		R: uint8(rgb >> 16),
		G: uint8(rgb >> 8),
		B: uint8(rgb),
	}
}

// FromColor converts any image/color value, dropping alpha
func FromColor(c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

// Packed returns the colour as 0xRRGGBB
func (c Color) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// RGBA converts the colour to an opaque color.RGBA
func (c Color) RGBA() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// Luminance returns the perceived brightness (0-255) using Rec. 601 weights
func (c Color) Luminance() uint8 {
	return uint8((299*int(c.R) + 587*int(c.G) + 114*int(c.B)) / 1000)
}

// Matches reports whether other is within tolerance of c
func (c Color) Matches(other Color, tolerance int) bool {
	return Matches(c, other, tolerance)
}

// String returns the colour as "#rrggbb"
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// MarshalText encodes the colour as "#rrggbb"
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses "#rrggbb", "rrggbb" or "0xrrggbb"
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor parses a hex colour string
func ParseColor(s string) (Color, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimPrefix(raw, "#")
	raw = strings.TrimPrefix(strings.ToLower(raw), "0x")
	if len(raw) != 6 {
		return Color{}, fmt.Errorf("invalid colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

// Distance returns the sum of per-channel absolute differences
func Distance(a, b Color) int {
	return absDiff(a.R, b.R) + absDiff(a.G, b.G) + absDiff(a.B, b.B)
}

// Matches reports whether candidate is strictly closer than tolerance to reference
func Matches(reference, candidate Color, tolerance int) bool {
	return Distance(reference, candidate) < tolerance
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
