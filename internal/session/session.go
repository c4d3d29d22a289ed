// Package session holds the per-game context passed to every component call:
// the game origin, the external stop request and the last known finished state.
//
// Thread Safety:
// The origin is fixed at construction and read-only afterwards. Stop may be
// raised from any goroutine (tray click, signal handler, context cancellation)
// and is observed by the control goroutine at every token boundary, so both
// flags are atomics and no lock is needed.
package session

import (
	"sync/atomic"

	"qwop-bot/internal/pixel"
)

// Session is the state of one located game instance
type Session struct {
	origin   pixel.Point
	stop     atomic.Bool
	finished atomic.Bool
}

// New creates a session for a game whose origin has already been located
func New(origin pixel.Point) *Session {
	return &Session{origin: origin}
}

// Origin returns the game origin
func (s *Session) Origin() pixel.Point {
	return s.origin
}

// At returns origin + offset
func (s *Session) At(offset pixel.Point) pixel.Point {
	return s.origin.Add(offset)
}

// Stop requests that the current run end at the next check point.
// Safe to call from any goroutine, any number of times.
func (s *Session) Stop() {
	s.stop.Store(true)
}

// Stopped reports whether a stop has been requested
func (s *Session) Stopped() bool {
	return s.stop.Load()
}

// Rearm clears a previous stop request. Only the game driver calls this, and
// only between runs, never while a run is in progress.
func (s *Session) Rearm() {
	s.stop.Store(false)
}

// SetFinished records the latest completion check
func (s *Session) SetFinished(finished bool) {
	s.finished.Store(finished)
}

// Finished returns the latest recorded completion check
func (s *Session) Finished() bool {
	return s.finished.Load()
}

// IsRunning reports whether the game is neither stopped nor finished
func (s *Session) IsRunning() bool {
	return !(s.Stopped() || s.Finished())
}
