// Package playback - engine.go
//
// This file implements the PlaybackEngine: it interprets a control string as
// timed key press and release events on four channels.
//
// Token handling:
//   - Press: issue a key-down, unless the channel is already down (no-op)
//   - Release: always issue a key-up (idempotent)
//   - Wait: sleep one tick, then stop early if the game finished or a stop
//     was requested
//   - Unknown: log a warning and continue
//
// Cancellation:
// The session stop flag is checked before every token and after every wait.
// Once set, playback returns at the next check point. Events already sent are
// not rolled back and channel state is left as it was.
//
// Channel state persists across Play calls so that a game driver can submit
// the same string repeatedly; ReleaseAll resets it.
package playback

import (
	"time"

	"qwop-bot/internal/control"
	"qwop-bot/internal/logging"
	"qwop-bot/internal/session"
)

// Keyboard sends key events
type Keyboard interface {
	PressKey(key string) error
	ReleaseKey(key string) error
}

// Sleeper blocks the control goroutine. An early wake is acceptable.
type Sleeper interface {
	Sleep(d time.Duration)
}

// Params configures the engine
type Params struct {
	Tick time.Duration            // duration of one wait token
	Keys [control.Channels]string // key name per channel
}

// DefaultParams returns a 100ms tick on the Q W O P keys
func DefaultParams() Params {
	return Params{
		Tick: 100 * time.Millisecond,
		Keys: [control.Channels]string{"q", "w", "o", "p"},
	}
}

// Reason says why Play returned
type Reason int

const (
	EndOfString Reason = iota
	Finished
	Stopped
)

// String returns the string representation of the reason
func (r Reason) String() string {
	switch r {
	case EndOfString:
		return "EndOfString"
	case Finished:
		return "Finished"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// Result summarises one Play call
type Result struct {
	Tokens int // tokens processed
	Waits  int // wait tokens slept
	Reason Reason
}

// Engine plays control strings
type Engine struct {
	keys    Keyboard
	sleeper Sleeper
	params  Params
	pressed [control.Channels]bool
}

// NewEngine creates an engine with all channels released
func NewEngine(keys Keyboard, sleeper Sleeper, params Params) *Engine {
	if params.Tick <= 0 {
		params.Tick = DefaultParams().Tick
	}
	return &Engine{keys: keys, sleeper: sleeper, params: params}
}

// Params returns the engine configuration
func (e *Engine) Params() Params {
	return e.params
}

// Pressed reports the tracked state of ch
func (e *Engine) Pressed(ch control.Channel) bool {
	return e.pressed[ch]
}

// Play processes s token by token. finished is polled after every wait and
// may be nil.
func (e *Engine) Play(s control.String, sess *session.Session, finished func() bool) Result {
	var res Result

	for _, tok := range s {
		if sess.Stopped() {
			res.Reason = Stopped
			return res
		}
		res.Tokens++

		switch tok.Kind {
		case control.Press:
			e.press(tok.Channel)

		case control.Release:
			e.release(tok.Channel)

		case control.Wait:
			e.sleeper.Sleep(e.params.Tick)
			res.Waits++
			if finished != nil && finished() {
				res.Reason = Finished
				return res
			}
			if sess.Stopped() {
				res.Reason = Stopped
				return res
			}

		default:
			logging.Warnf("Unknown control token %q, skipping", tok.Raw)
		}
	}

	res.Reason = EndOfString
	return res
}

// ReleaseAll sends a key-up on every channel regardless of tracked state
func (e *Engine) ReleaseAll() {
	for ch := range e.pressed {
		e.release(control.Channel(ch))
	}
}

func (e *Engine) press(ch control.Channel) {
	if e.pressed[ch] {
		return
	}
	key := e.params.Keys[ch]
	if err := e.keys.PressKey(key); err != nil {
		logging.Errorf("Failed to press %s: %v", key, err)
		return
	}
	e.pressed[ch] = true
}

func (e *Engine) release(ch control.Channel) {
	key := e.params.Keys[ch]
	if err := e.keys.ReleaseKey(key); err != nil {
		logging.Errorf("Failed to release %s: %v", key, err)
	}
	e.pressed[ch] = false
}
