// Package runner is the game driver. It ties the locator, completion
// detector, playback engine and score reader into single playthroughs.
//
// Key Responsibilities:
//   - Locate the game and correct the origin when the end screen is showing
//   - Start or restart a game
//   - Play one game with a control string until it finishes or is stopped
//   - Restore input state and read the score afterwards
//
// Game Loop (PlayOneGame):
//  1. Wait the settle delay
//  2. While the game is neither finished nor stopped, play the control string
//     (a pass with no waits sleeps one tick so the loop cannot spin)
//  3. Cleanup: remember the pointer, click the origin to restore focus, release
//     all four keys, move the pointer back
//  4. Read the score and build the Outcome
//
// Threading:
// Everything runs on the caller's goroutine. Other goroutines talk to a run
// only through Session.Stop (or by cancelling the context) and read the
// current phase through State.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"qwop-bot/internal/control"
	"qwop-bot/internal/finish"
	"qwop-bot/internal/locate"
	"qwop-bot/internal/logging"
	"qwop-bot/internal/ocr"
	"qwop-bot/internal/pixel"
	"qwop-bot/internal/playback"
	"qwop-bot/internal/session"
)

// Env is what the driver needs from its environment
type Env interface {
	locate.ScreenCapturer
	finish.PixelReader
	playback.Keyboard
	playback.Sleeper

	MoveMouse(p pixel.Point) error
	Click() error
	MousePosition() (pixel.Point, error)
	TapKey(key string) error
}

// Policy holds the run-level constants
type Policy struct {
	FailBelow float64       // distances below this are failed runs
	Settle    time.Duration // pause before the first pass
}

// DefaultPolicy returns FailBelow 100 and a 500ms settle delay
func DefaultPolicy() Policy {
	return Policy{FailBelow: 100, Settle: 500 * time.Millisecond}
}

// Options configures a Runner
type Options struct {
	Locate   locate.Params
	Finish   finish.Params
	Playback playback.Params
	Policy   Policy
}

// DefaultOptions returns the reference calibration
func DefaultOptions() Options {
	return Options{
		Locate:   locate.DefaultParams(),
		Finish:   finish.DefaultParams(),
		Playback: playback.DefaultParams(),
		Policy:   DefaultPolicy(),
	}
}

// Outcome is the result of one playthrough
type Outcome struct {
	ControlString string
	Success       bool
	Aborted       bool
	Duration      time.Duration
	Distance      float64
	RawScore      string     // recognised score text, kept for diagnosis
	Score         ocr.Result // full recognition result, for snapshots
}

// Status is the one-word summary used in logs and the run store
func (o Outcome) Status() string {
	switch {
	case o.Aborted:
		return "aborted"
	case o.Success:
		return "success"
	default:
		return "failed"
	}
}

// Runner drives games in one environment
type Runner struct {
	env      Env
	reader   ocr.ScoreReader
	detector *finish.Detector
	engine   *playback.Engine
	opts     Options
	state    atomic.Int32
}

// New creates a runner. reader may be any ScoreReader (template or tesseract).
func New(env Env, reader ocr.ScoreReader, opts Options) *Runner {
	return &Runner{
		env:      env,
		reader:   reader,
		detector: finish.NewDetector(env, opts.Finish),
		engine:   playback.NewEngine(env, env, opts.Playback),
		opts:     opts,
	}
}

// State returns the current driver phase. Safe from any goroutine.
func (r *Runner) State() State {
	return State(r.state.Load())
}

func (r *Runner) setState(s State) {
	r.state.Store(int32(s))
}

// Detector returns the completion detector
func (r *Runner) Detector() *finish.Detector {
	return r.detector
}

// Locate finds the game and returns a fresh session for it. When the end
// screen is already showing, the origin is shifted by the finished offset.
func (r *Runner) Locate() (*session.Session, error) {
	r.setState(StateLocating)
	defer r.setState(StateIdle)

	origin, err := locate.FindOrigin(r.env, r.opts.Locate)
	if err != nil {
		return nil, fmt.Errorf("locate game: %w", err)
	}

	finished := r.detector.IsFinishedAt(origin)
	if finished {
		shift := r.opts.Finish.Shift
		logging.Debugf("End screen showing, shifting origin by (%d,%d)", shift.X, shift.Y)
		origin = origin.Add(shift)
	}

	sess := session.New(origin)
	sess.SetFinished(finished)
	logging.Infof("Game origin at (%d,%d), finished=%v", origin.X, origin.Y, finished)
	return sess, nil
}

// StartGame clears the stop flag, focuses the game and starts a new run:
// space dismisses the end screen, r restarts a game in progress.
func (r *Runner) StartGame(sess *session.Session) error {
	r.setState(StateStarting)
	defer r.setState(StateIdle)

	sess.Rearm()
	if err := r.clickAt(sess.Origin()); err != nil {
		return fmt.Errorf("focus game: %w", err)
	}

	key := "r"
	if r.detector.Check(sess) {
		key = "space"
	}
	if err := r.env.TapKey(key); err != nil {
		return fmt.Errorf("start game with %s: %w", key, err)
	}
	logging.Debugf("Game started with %q", key)
	return nil
}

// PlayOneGame plays s repeatedly until the game finishes or is stopped, then
// reads the score. Cancelling ctx raises the session stop flag.
func (r *Runner) PlayOneGame(ctx context.Context, sess *session.Session, s control.String) Outcome {
	if ctx.Err() != nil {
		sess.Stop()
	}
	release := context.AfterFunc(ctx, sess.Stop)
	defer release()

	r.setState(StatePlaying)
	defer r.setState(StateIdle)

	start := time.Now()
	r.env.Sleep(r.opts.Policy.Settle)

	pass := s.Resolve()
	finished := func() bool { return r.detector.Check(sess) }
	passes := 0
	for !(r.detector.Check(sess) || sess.Stopped()) {
		res := r.engine.Play(pass, sess, finished)
		passes++
		if res.Waits == 0 && res.Reason == playback.EndOfString {
			r.env.Sleep(r.engine.Params().Tick)
		}
	}

	r.stopRunning(sess)
	elapsed := time.Since(start)

	r.setState(StateScoring)
	out := Outcome{
		ControlString: s.String(),
		Aborted:       sess.Stopped(),
		Duration:      elapsed,
	}

	score, err := r.reader.ReadScore(sess.Origin())
	if err != nil {
		logging.Warnf("Score read failed: %v", err)
	}
	out.Score = score
	out.RawScore = score.Text

	distance, perr := ocr.ParseDistance(score.Text)
	if perr == nil {
		out.Distance = distance
	} else if err == nil {
		if errors.Is(perr, ocr.ErrNoDigits) {
			logging.Warnf("No score recognised")
		} else {
			logging.Warnf("Score: %v", perr)
		}
	}
	out.Success = !out.Aborted && err == nil && perr == nil && distance >= r.opts.Policy.FailBelow

	logging.Infof("Run %s: %.1fm in %v over %d passes (raw %q)", out.Status(), out.Distance, out.Duration.Round(time.Millisecond), passes, out.RawScore)
	return out
}

// stopRunning restores focus and releases every key, leaving the pointer
// where the user had it
func (r *Runner) stopRunning(sess *session.Session) {
	prev, perr := r.env.MousePosition()
	if err := r.clickAt(sess.Origin()); err != nil {
		logging.Warnf("Failed to focus game: %v", err)
	}
	r.engine.ReleaseAll()
	if perr == nil {
		if err := r.env.MoveMouse(prev); err != nil {
			logging.Warnf("Failed to restore pointer: %v", err)
		}
	}
}

func (r *Runner) clickAt(p pixel.Point) error {
	if err := r.env.MoveMouse(p); err != nil {
		return err
	}
	return r.env.Click()
}
