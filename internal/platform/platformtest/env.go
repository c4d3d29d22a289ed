// Package platformtest provides a scripted in-memory environment for tests.
// It records every input event and sleep, serves captures from an image, and
// lets a test script pixel colours as a function of elapsed sleeps.
package platformtest

import (
	"image"
	"image/draw"
	"sync"
	"time"

	"qwop-bot/internal/pixel"
)

// Event kinds
const (
	Press   = "press"
	Release = "release"
	Tap     = "tap"
	Move    = "move"
	Click   = "click"
)

// Event is one recorded input action
type Event struct {
	Kind  string
	Key   string
	Point pixel.Point
}

// Env is a fake environment. The zero value is usable: a blank screen and no
// scripted colours.
type Env struct {
	// Screen is served by CaptureScreen and CaptureRect, positioned at
	// ScreenOffset in screen space.
	Screen       *image.RGBA
	ScreenOffset pixel.Point

	// Pixel overrides PixelColor when set
	Pixel func(p pixel.Point) pixel.Color

	// OnSleep runs after each recorded sleep, outside the lock
	OnSleep func(d time.Duration)

	mu      sync.Mutex
	events  []Event
	sleeps  []time.Duration
	pointer pixel.Point
}

// NewEnv creates an environment with a blank w x h screen
func NewEnv(w, h int) *Env {
	return &Env{Screen: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func (e *Env) record(ev Event) {
	e.mu.Lock()
	e.events = append(e.events, ev)
	e.mu.Unlock()
}

// CaptureScreen returns the whole screen image
func (e *Env) CaptureScreen() (pixel.Region, error) {
	screen := e.screen()
	b := screen.Rect
	return e.CaptureRect(pixel.NewBounds(e.ScreenOffset.X, e.ScreenOffset.Y, b.Dx(), b.Dy()))
}

// CaptureRect copies a screen rectangle. Parts outside the screen are black.
func (e *Env) CaptureRect(b pixel.Bounds) (pixel.Region, error) {
	screen := e.screen()
	out := image.NewRGBA(image.Rect(0, 0, b.W, b.H))
	src := b.Rect().Sub(e.ScreenOffset.ImagePoint())
	draw.Draw(out, out.Rect, screen, src.Min, draw.Src)
	return pixel.NewRegion(b, out), nil
}

// PixelColor returns the scripted colour, or the screen pixel
func (e *Env) PixelColor(p pixel.Point) (pixel.Color, error) {
	if e.Pixel != nil {
		return e.Pixel(p), nil
	}
	screen := e.screen()
	local := p.Sub(e.ScreenOffset).ImagePoint()
	if !local.In(screen.Rect) {
		return pixel.Color{}, nil
	}
	return pixel.FromColor(screen.RGBAAt(local.X, local.Y)), nil
}

// MoveMouse records a pointer move
func (e *Env) MoveMouse(p pixel.Point) error {
	e.mu.Lock()
	e.pointer = p
	e.mu.Unlock()
	e.record(Event{Kind: Move, Point: p})
	return nil
}

// Click records a click at the current pointer position
func (e *Env) Click() error {
	e.record(Event{Kind: Click, Point: e.pointerPos()})
	return nil
}

// MousePosition returns the last pointer position
func (e *Env) MousePosition() (pixel.Point, error) {
	return e.pointerPos(), nil
}

// SetPointer places the pointer without recording an event
func (e *Env) SetPointer(p pixel.Point) {
	e.mu.Lock()
	e.pointer = p
	e.mu.Unlock()
}

// PressKey records a key-down
func (e *Env) PressKey(key string) error {
	e.record(Event{Kind: Press, Key: key})
	return nil
}

// ReleaseKey records a key-up
func (e *Env) ReleaseKey(key string) error {
	e.record(Event{Kind: Release, Key: key})
	return nil
}

// TapKey records a key tap
func (e *Env) TapKey(key string) error {
	e.record(Event{Kind: Tap, Key: key})
	return nil
}

// Sleep records d without blocking
func (e *Env) Sleep(d time.Duration) {
	e.mu.Lock()
	e.sleeps = append(e.sleeps, d)
	e.mu.Unlock()
	if e.OnSleep != nil {
		e.OnSleep(d)
	}
}

// Events returns a copy of the recorded events
func (e *Env) Events() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

// KeyEvents returns only press, release and tap events
func (e *Env) KeyEvents() []Event {
	var out []Event
	for _, ev := range e.Events() {
		if ev.Kind == Press || ev.Kind == Release || ev.Kind == Tap {
			out = append(out, ev)
		}
	}
	return out
}

// Sleeps returns a copy of the recorded sleep durations
func (e *Env) Sleeps() []time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]time.Duration, len(e.sleeps))
	copy(out, e.sleeps)
	return out
}

// SleepsOf counts recorded sleeps of exactly d
func (e *Env) SleepsOf(d time.Duration) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, s := range e.sleeps {
		if s == d {
			n++
		}
	}
	return n
}

// Reset clears recorded events and sleeps
func (e *Env) Reset() {
	e.mu.Lock()
	e.events = nil
	e.sleeps = nil
	e.mu.Unlock()
}

func (e *Env) pointerPos() pixel.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pointer
}

func (e *Env) screen() *image.RGBA {
	if e.Screen == nil {
		return image.NewRGBA(image.Rectangle{})
	}
	return e.Screen
}
