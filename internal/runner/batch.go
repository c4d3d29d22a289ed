package runner

import (
	"context"
	"fmt"

	"qwop-bot/internal/control"
	"qwop-bot/internal/sequence"
	"qwop-bot/internal/session"
)

// Source supplies the control string for the next game
type Source func() control.String

// FixedSource plays the same string every game
func FixedSource(s control.String) Source {
	return func() control.String { return s }
}

// GeneratedSource draws a fresh string of durationTicks waits every game
func GeneratedSource(g *sequence.Generator, durationTicks int) Source {
	return func() control.String { return g.Generate(durationTicks) }
}

// Batch configures RunBatch
type Batch struct {
	Games     int                       // games to play; zero or less plays until stopped
	Next      Source                    // control string per game
	OnOutcome func(game int, o Outcome) // called after each game, may be nil
}

// RunBatch starts and plays games back to back on one session. It ends when
// the game count is reached, a run is aborted or ctx is cancelled. Stats may
// be nil; a fresh set is created and returned.
func (r *Runner) RunBatch(ctx context.Context, sess *session.Session, b Batch, stats *Statistics) (*Statistics, error) {
	if stats == nil {
		stats = NewStatistics()
	}
	if b.Next == nil {
		return stats, fmt.Errorf("batch has no control string source")
	}

	for game := 1; b.Games <= 0 || game <= b.Games; game++ {
		if ctx.Err() != nil {
			return stats, nil
		}
		if err := r.StartGame(sess); err != nil {
			return stats, fmt.Errorf("game %d: %w", game, err)
		}

		o := r.PlayOneGame(ctx, sess, b.Next())
		stats.Add(o)
		if b.OnOutcome != nil {
			b.OnOutcome(game, o)
		}
		if o.Aborted {
			return stats, nil
		}
	}
	return stats, nil
}
