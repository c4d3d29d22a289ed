package platform

// browser.go
//
// Browser drives a Chrome window over the DevTools protocol so the bot can play
// without touching the real desktop pointer or keyboard.
//
// Key Responsibilities:
//   - Chromedp browser lifecycle management (start, navigate, close)
//   - Clipped screenshot capture with timeout protection (5s)
//   - Trusted key and mouse events via Input.dispatch*Event
//   - Action logging of the last few injected events
//
// Browser Architecture:
// The Browser uses nested contexts for resource management:
//   - allocCtx: Allocator context for the browser process
//   - ctx: Browser context for page operations
// Both contexts have cancel functions for graceful cleanup.
//
// Coordinates:
// Every point and rectangle is in page (CSS pixel) coordinates. The viewport is
// pinned to Width x Height at scale 1, so a page pixel is a screenshot pixel.
//
// Timeout Strategy:
//   - Navigation: 60 seconds (slow network tolerance)
//   - Screenshot: 5 seconds (prevent hanging)
//   - Input dispatch: 2 seconds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"qwop-bot/internal/logging"
	"qwop-bot/internal/pixel"
)

// DefaultGameURL hosts the Flash game page
const DefaultGameURL = "http://www.foddy.net/Athletics.html"

const (
	navigateTimeout = 60 * time.Second
	captureTimeout  = 5 * time.Second
	inputTimeout    = 2 * time.Second
	actionLogSize   = 10
)

var errBrowserClosed = errors.New("browser context is invalid")

// BrowserOptions configures the Chrome window
type BrowserOptions struct {
	URL      string
	Width    int
	Height   int
	Headless bool
}

func (o BrowserOptions) withDefaults() BrowserOptions {
	if o.URL == "" {
		o.URL = DefaultGameURL
	}
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	return o
}

// ActionLog is one injected event, kept for diagnostics
type ActionLog struct {
	Message   string
	Timestamp time.Time
}

// Browser is an Env backed by chromedp.
//
// Lifecycle:
//  1. NewBrowser(): create instance with empty action log
//  2. Start(): launch Chrome, pin the viewport and navigate to the game
//  3. Capture/Press/Click repeatedly
//  4. Close(): cancel contexts and stop the browser process
type Browser struct {
	opts BrowserOptions

	ctx         context.Context
	cancel      context.CancelFunc
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu      sync.Mutex
	pointer pixel.Point

	actionLogs []ActionLog
	logMutex   sync.RWMutex
}

// NewBrowser creates a browser environment. Call Start before use.
func NewBrowser(opts BrowserOptions) *Browser {
	return &Browser{
		opts:       opts.withDefaults(),
		actionLogs: make([]ActionLog, 0, actionLogSize),
	}
}

// Start launches Chrome and navigates to the game page.
//
// Algorithm:
//  1. Create exec allocator context with browser options:
//     - headless as configured
//     - automation detection flags disabled
//     - window sized to the viewport
//  2. Create browser context routing chromedp logs to debug
//  3. Pin the viewport to Width x Height at scale 1
//  4. Navigate to the game URL with a 60s timeout
func (b *Browser) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.opts.Headless),
		chromedp.Flag("disable-gpu", false),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(b.opts.Width, b.opts.Height),
	)

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(ctx, opts...)
	logging.Infof("Browser allocator context created")

	b.ctx, b.cancel = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		logging.Debugf(format, args...)
	}))
	logging.Infof("Browser context created")

	logging.Infof("Navigating to %s", b.opts.URL)
	navCtx, navCancel := context.WithTimeout(b.ctx, navigateTimeout)
	defer navCancel()

	err := chromedp.Run(navCtx,
		chromedp.EmulateViewport(int64(b.opts.Width), int64(b.opts.Height)),
		chromedp.Navigate(b.opts.URL),
	)
	if err != nil {
		logging.Errorf("Navigation error: %v", err)
		return fmt.Errorf("navigate %s: %w", b.opts.URL, err)
	}

	logging.Infof("Navigation completed successfully")
	return nil
}

// Close closes the browser
func (b *Browser) Close() {
	logging.Infof("Closing browser...")
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	logging.Infof("Browser closed")
}

func (b *Browser) alive() bool {
	return b.ctx != nil && b.ctx.Err() == nil
}

// LogAction records an action (keeps the last ten)
func (b *Browser) LogAction(message string) {
	b.logMutex.Lock()
	defer b.logMutex.Unlock()

	b.actionLogs = append(b.actionLogs, ActionLog{Message: message, Timestamp: time.Now()})
	if len(b.actionLogs) > actionLogSize {
		b.actionLogs = b.actionLogs[len(b.actionLogs)-actionLogSize:]
	}
}

// ActionLogs returns a copy of the recent actions, oldest first
func (b *Browser) ActionLogs() []ActionLog {
	b.logMutex.RLock()
	defer b.logMutex.RUnlock()

	logs := make([]ActionLog, len(b.actionLogs))
	copy(logs, b.actionLogs)
	return logs
}

// CaptureScreen captures the whole viewport
func (b *Browser) CaptureScreen() (pixel.Region, error) {
	return b.CaptureRect(pixel.NewBounds(0, 0, b.opts.Width, b.opts.Height))
}

// CaptureRect captures a page rectangle.
//
// The screenshot is clipped by Chrome, returned as PNG, decoded and re-based
// so that Region.Bounds carries page coordinates.
func (b *Browser) CaptureRect(r pixel.Bounds) (pixel.Region, error) {
	if !b.alive() {
		return pixel.Region{}, errBrowserClosed
	}
	if r.Empty() {
		return pixel.Region{}, fmt.Errorf("capture %v: empty rectangle", r)
	}

	captureCtx, cancel := context.WithTimeout(b.ctx, captureTimeout)
	defer cancel()

	var buf []byte
	err := chromedp.Run(captureCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().
			WithFormat(page.CaptureScreenshotFormatPng).
			WithClip(&page.Viewport{
				X:      float64(r.X),
				Y:      float64(r.Y),
				Width:  float64(r.W),
				Height: float64(r.H),
				Scale:  1,
			}).
			Do(ctx)
		return err
	}))
	if err != nil {
		logging.Debugf("Screenshot failed: %v", err)
		return pixel.Region{}, fmt.Errorf("capture %v: %w", r, err)
	}

	img, err := png.Decode(bytes.NewReader(buf))
	if err != nil {
		return pixel.Region{}, fmt.Errorf("decode screenshot: %w", err)
	}
	return pixel.NewRegion(r, img), nil
}

// PixelColor reads one page pixel through a 1x1 clip
func (b *Browser) PixelColor(p pixel.Point) (pixel.Color, error) {
	region, err := b.CaptureRect(pixel.NewBounds(p.X, p.Y, 1, 1))
	if err != nil {
		return pixel.Color{}, err
	}
	return decodePixel(region, p)
}

// decodePixel reads page point p from a clip that contains it
func decodePixel(region pixel.Region, p pixel.Point) (pixel.Color, error) {
	c, ok := region.ScreenAt(p)
	if !ok {
		return pixel.Color{}, fmt.Errorf("pixel %v outside capture %+v", p, region.Bounds)
	}
	return c, nil
}

// MoveMouse moves the page pointer
func (b *Browser) MoveMouse(p pixel.Point) error {
	if err := b.dispatchMouse(input.MouseMoved, p, false); err != nil {
		return err
	}
	b.mu.Lock()
	b.pointer = p
	b.mu.Unlock()
	return nil
}

// Click presses and releases the left button at the pointer
func (b *Browser) Click() error {
	p, _ := b.MousePosition()
	if err := b.dispatchMouse(input.MousePressed, p, true); err != nil {
		return err
	}
	if err := b.dispatchMouse(input.MouseReleased, p, true); err != nil {
		return err
	}
	b.LogAction(fmt.Sprintf("Click at (%d, %d)", p.X, p.Y))
	return nil
}

// MousePosition returns the last position the pointer was moved to
func (b *Browser) MousePosition() (pixel.Point, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointer, nil
}

func (b *Browser) dispatchMouse(kind input.MouseType, p pixel.Point, button bool) error {
	if !b.alive() {
		return errBrowserClosed
	}
	ctx, cancel := context.WithTimeout(b.ctx, inputTimeout)
	defer cancel()

	return chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		ev := input.DispatchMouseEvent(kind, float64(p.X), float64(p.Y))
		if button {
			ev = ev.WithButton(input.Left).WithClickCount(1)
		}
		return ev.Do(ctx)
	}))
}

// PressKey holds a key down
func (b *Browser) PressKey(key string) error {
	return b.dispatchKey(input.KeyDown, key)
}

// ReleaseKey releases a key
func (b *Browser) ReleaseKey(key string) error {
	return b.dispatchKey(input.KeyUp, key)
}

// TapKey presses and releases a key
func (b *Browser) TapKey(key string) error {
	if err := b.PressKey(key); err != nil {
		return err
	}
	return b.ReleaseKey(key)
}

// Sleep blocks for d
func (b *Browser) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (b *Browser) dispatchKey(kind input.KeyType, key string) error {
	if !b.alive() {
		return errBrowserClosed
	}
	desc, err := describeKey(key)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(b.ctx, inputTimeout)
	defer cancel()

	err = chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		ev := input.DispatchKeyEvent(kind).
			WithKey(desc.key).
			WithCode(desc.code).
			WithWindowsVirtualKeyCode(desc.vk)
		if kind == input.KeyDown && desc.text != "" {
			ev = ev.WithText(desc.text)
		}
		return ev.Do(ctx)
	}))
	if err != nil {
		logging.Errorf("Failed to send key %s: %v", key, err)
		return fmt.Errorf("key %s %s: %w", kind, key, err)
	}

	b.LogAction(fmt.Sprintf("Key %s: %s", kind, key))
	return nil
}

// keyDescriptor is the DOM view of a key
type keyDescriptor struct {
	key  string
	code string
	text string
	vk   int64
}

// describeKey maps a robotgo style key name to its DOM key, code and virtual
// key code. Letters and digits map directly; a few named keys are supported.
func describeKey(name string) (keyDescriptor, error) {
	lower := strings.ToLower(name)
	switch lower {
	case "space":
		return keyDescriptor{key: " ", code: "Space", text: " ", vk: 32}, nil
	case "enter":
		return keyDescriptor{key: "Enter", code: "Enter", text: "\r", vk: 13}, nil
	case "escape", "esc":
		return keyDescriptor{key: "Escape", code: "Escape", vk: 27}, nil
	}

	if len(lower) == 1 {
		c := lower[0]
		switch {
		case c >= 'a' && c <= 'z':
			upper := strings.ToUpper(lower)
			return keyDescriptor{key: lower, code: "Key" + upper, text: lower, vk: int64(upper[0])}, nil
		case c >= '0' && c <= '9':
			return keyDescriptor{key: lower, code: "Digit" + lower, text: lower, vk: int64(c)}, nil
		}
	}
	return keyDescriptor{}, fmt.Errorf("unsupported key %q", name)
}
