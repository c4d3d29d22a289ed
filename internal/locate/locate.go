// Package locate - locate.go
//
// This file implements origin detection: finding the game's rendering surface
// on a full-screen capture by the border of its message box.
//
// Key Responsibilities:
//   - Coarse grid scan for the border signature
//   - Corner slide from the first hit to the exact top-left pixel
//   - Fixed-offset translation from border corner to game origin
//
// Border Signature (step s, default 4):
//
//	P, P+(s,0), P+(2s,0), P+(3s,0), P+(0,s)   must match the border colour
//	P+(0,-s), P+(s,s)                         must NOT match
//
// The two negative probes separate the outer edge of the border from its
// interior: above the top edge is background, and diagonally inside the
// corner is the box fill.
//
// Algorithm:
//  1. Capture the full screen once
//  2. Scan x outer, y inner, both in steps of s; the first match wins
//  3. Slide left one pixel at a time while the signature holds, back off one
//  4. Slide up the same way from the new x
//  5. Origin = corner + Offset (default (-124,-103))
//
// A single game instance on screen is assumed. The scan is deterministic for a
// given static frame.
package locate

import (
	"errors"
	"fmt"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/pixel"
)

// ErrNotFound is returned when no border signature exists on screen
var ErrNotFound = errors.New("origin not found, make sure the game is open and fully visible")

// ScreenCapturer captures the whole screen
type ScreenCapturer interface {
	CaptureScreen() (pixel.Region, error)
}

// Params is the calibration for the border search
type Params struct {
	Border    pixel.Color // message box border colour
	Tolerance int         // colour match tolerance
	Step      int         // grid step and signature probe spacing
	Offset    pixel.Point // border corner -> game origin
}

// DefaultParams returns the calibration for the reference layout
func DefaultParams() Params {
	return Params{
		Border:    pixel.Hex(0x9dbcd0),
		Tolerance: pixel.DefaultTolerance,
		Step:      4,
		Offset:    pixel.NewPoint(-124, -103),
	}
}

// FindOrigin captures the screen and returns the game origin in screen space.
// The error wraps ErrNotFound when the border is absent.
func FindOrigin(capturer ScreenCapturer, params Params) (pixel.Point, error) {
	shot, err := capturer.CaptureScreen()
	if err != nil {
		return pixel.Point{}, fmt.Errorf("capture screen: %w", err)
	}
	logging.Debugf("Scanning %dx%d capture for border %v", shot.Width(), shot.Height(), params.Border)

	corner, ok := FindCorner(shot, params)
	if !ok {
		return pixel.Point{}, ErrNotFound
	}

	origin := corner.Add(params.Offset)
	logging.Infof("Border corner at (%d,%d), origin at (%d,%d)", corner.X, corner.Y, origin.X, origin.Y)
	return origin, nil
}

// FindCorner scans a capture for the border and returns the top-left corner
// of the matched border in screen space.
func FindCorner(shot pixel.Region, params Params) (pixel.Point, bool) {
	step := params.Step
	if step <= 0 {
		step = 4
	}
	params.Step = step

	w, h := shot.Width(), shot.Height()
	for x := 0; x < w; x += step {
		for y := 0; y < h; y += step {
			if MatchesBorder(shot, x, y, params) {
				cx, cy := slideTopLeft(shot, x, y, params)
				logging.Debugf("Signature hit at (%d,%d), slid to (%d,%d)", x, y, cx, cy)
				return shot.ScreenPoint(cx, cy), true
			}
		}
	}
	return pixel.Point{}, false
}

// MatchesBorder checks the seven-point signature at region-local (x, y)
func MatchesBorder(shot pixel.Region, x, y int, params Params) bool {
	s := params.Step
	if x < 0 || y <= s || y >= shot.Height()-s || x >= shot.Width()-3*s {
		return false
	}

	match := func(px, py int) bool {
		c, ok := shot.At(px, py)
		return ok && pixel.Matches(params.Border, c, params.Tolerance)
	}

	return match(x, y) &&
		match(x+s, y) &&
		match(x+2*s, y) &&
		match(x+3*s, y) &&
		match(x, y+s) &&
		!match(x, y-s) &&
		!match(x+s, y+s)
}

// slideTopLeft moves from a matching point to the top-left corner,
// first along x and then along y
func slideTopLeft(shot pixel.Region, x, y int, params Params) (int, int) {
	for x > 0 && MatchesBorder(shot, x-1, y, params) {
		x--
	}
	for y > 0 && MatchesBorder(shot, x, y-1, params) {
		y--
	}
	return x, y
}
