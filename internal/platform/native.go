package platform

import (
	"fmt"
	"image"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/kbinani/screenshot"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/pixel"
)

// Native drives the real desktop.
//
// Capture goes through kbinani/screenshot, which returns the exact requested
// rectangle as RGBA. Input and single-pixel reads go through robotgo. Key
// names are robotgo's ("q", "space", "r").
type Native struct {
	display int
}

// NewNative creates a native environment capturing the given display
func NewNative(display int) *Native {
	return &Native{display: display}
}

// CaptureScreen captures the whole display
func (n *Native) CaptureScreen() (pixel.Region, error) {
	if count := screenshot.NumActiveDisplays(); n.display >= count {
		return pixel.Region{}, fmt.Errorf("display %d not available (%d active)", n.display, count)
	}
	bounds := screenshot.GetDisplayBounds(n.display)
	return n.capture(bounds)
}

// CaptureRect captures a screen rectangle
func (n *Native) CaptureRect(b pixel.Bounds) (pixel.Region, error) {
	return n.capture(b.Rect())
}

func (n *Native) capture(r image.Rectangle) (pixel.Region, error) {
	start := time.Now()
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return pixel.Region{}, fmt.Errorf("capture %v: %w", r, err)
	}
	logging.Debugf("Captured %dx%d at (%d,%d) in %v", r.Dx(), r.Dy(), r.Min.X, r.Min.Y, time.Since(start))
	return pixel.NewRegion(pixel.BoundsFromRect(r), img), nil
}

// PixelColor reads one screen pixel
func (n *Native) PixelColor(p pixel.Point) (pixel.Color, error) {
	return pixel.ParseColor(robotgo.GetPixelColor(p.X, p.Y))
}

// MoveMouse moves the pointer
func (n *Native) MoveMouse(p pixel.Point) error {
	robotgo.Move(p.X, p.Y)
	return nil
}

// Click clicks the left button at the pointer position
func (n *Native) Click() error {
	robotgo.Click("left", false)
	return nil
}

// MousePosition returns the pointer position
func (n *Native) MousePosition() (pixel.Point, error) {
	x, y := robotgo.Location()
	return pixel.NewPoint(x, y), nil
}

// PressKey holds a key down
func (n *Native) PressKey(key string) error {
	return robotgo.KeyToggle(key, "down")
}

// ReleaseKey releases a key
func (n *Native) ReleaseKey(key string) error {
	return robotgo.KeyToggle(key, "up")
}

// TapKey presses and releases a key
func (n *Native) TapKey(key string) error {
	return robotgo.KeyTap(key)
}

// Sleep blocks for d
func (n *Native) Sleep(d time.Duration) {
	time.Sleep(d)
}
