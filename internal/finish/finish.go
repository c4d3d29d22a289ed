// Package finish detects the end-of-game screen by reading the two medal
// icons it shows. Both probes must read as gold; a single match is treated as
// colour bleed and ignored.
package finish

import (
	"qwop-bot/internal/logging"
	"qwop-bot/internal/pixel"
	"qwop-bot/internal/session"
)

// PixelReader reads one screen pixel
type PixelReader interface {
	PixelColor(p pixel.Point) (pixel.Color, error)
}

// Params is the calibration for the medal probes
type Params struct {
	Medal     pixel.Color    // gold reference colour
	Tolerance int            // colour match tolerance
	Probes    [2]pixel.Point // origin-relative probe offsets, checked in order
	Shift     pixel.Point    // origin correction when located on the end screen
}

// DefaultParams returns the calibration for the reference layout
func DefaultParams() Params {
	return Params{
		Medal:     pixel.Hex(0xffff00),
		Tolerance: pixel.DefaultTolerance,
		Probes:    [2]pixel.Point{{X: 157, Y: 126}, {X: 482, Y: 126}},
		Shift:     pixel.NewPoint(-5, 4),
	}
}

// Detector checks for the finished state
type Detector struct {
	reader PixelReader
	params Params
}

// NewDetector creates a detector reading pixels from reader
func NewDetector(reader PixelReader, params Params) *Detector {
	return &Detector{reader: reader, params: params}
}

// Params returns the detector calibration
func (d *Detector) Params() Params {
	return d.params
}

// IsFinishedAt reports whether both medals read as gold relative to origin.
// The second probe is only read when the first matches. A read error counts
// as not finished.
func (d *Detector) IsFinishedAt(origin pixel.Point) bool {
	for _, offset := range d.params.Probes {
		p := origin.Add(offset)
		c, err := d.reader.PixelColor(p)
		if err != nil {
			logging.Debugf("Medal probe at (%d,%d) failed: %v", p.X, p.Y, err)
			return false
		}
		if !pixel.Matches(d.params.Medal, c, d.params.Tolerance) {
			return false
		}
	}
	return true
}

// Check runs IsFinishedAt for the session origin and records the result in
// the session
func (d *Detector) Check(sess *session.Session) bool {
	finished := d.IsFinishedAt(sess.Origin())
	sess.SetFinished(finished)
	return finished
}
