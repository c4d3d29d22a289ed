// Package platform provides the environment the bot observes and drives:
// screen capture, pixel reads, pointer and keyboard injection, and sleeping.
//
// Backends:
//   - Native: the real desktop, via robotgo input and kbinani/screenshot capture
//   - Browser: a Chrome window driven over the DevTools protocol (chromedp)
//
// Core components never import this package's backends. Each declares the
// narrow interface it needs (locate.ScreenCapturer, finish.PixelReader,
// ocr.RectCapturer, playback.Keyboard) and Env satisfies all of them.
package platform

import (
	"context"
	"fmt"
	"strings"
	"time"

	"qwop-bot/internal/pixel"
)

// Env is the full set of capabilities the game driver needs
type Env interface {
	CaptureScreen() (pixel.Region, error)
	CaptureRect(b pixel.Bounds) (pixel.Region, error)
	PixelColor(p pixel.Point) (pixel.Color, error)

	MoveMouse(p pixel.Point) error
	Click() error
	MousePosition() (pixel.Point, error)

	PressKey(key string) error
	ReleaseKey(key string) error
	TapKey(key string) error

	Sleep(d time.Duration)
}

// Backend names an Env implementation
type Backend string

const (
	BackendNative  Backend = "native"
	BackendBrowser Backend = "browser"
)

// ParseBackend validates a backend name
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendNative, BackendBrowser:
		return b, nil
	default:
		return "", fmt.Errorf("unknown backend %q: want native or browser", s)
	}
}

// Options configures Open
type Options struct {
	Backend Backend
	Display int            // native: display index to capture
	Browser BrowserOptions // browser: window and game page
}

// Open starts the requested backend. The returned close function releases it.
func Open(ctx context.Context, opts Options) (Env, func(), error) {
	switch opts.Backend {
	case BackendNative, "":
		return NewNative(opts.Display), func() {}, nil

	case BackendBrowser:
		b := NewBrowser(opts.Browser)
		if err := b.Start(ctx); err != nil {
			b.Close()
			return nil, nil, err
		}
		return b, b.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown backend %q", opts.Backend)
	}
}
