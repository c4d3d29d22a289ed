// Package sequence generates random control strings that a person could
// physically play: every press is eventually followed by a release of the same
// key, and no key is pressed and released within the same tick.
//
// Algorithm:
//  1. Draw a symbol uniformly from the pool "QWOPqwop++" (waits are twice as
//     likely as any single key event)
//  2. Apply it only if the channel state machine allows it, else redraw
//  3. A wait advances the tick counter and settles every *ThisTick state
//  4. Stop when the counter reaches the duration
//  5. Append a release for every channel still held
package sequence

import (
	"math/rand"
	"time"

	"qwop-bot/internal/control"
)

// Pool is the draw pool
const Pool = "QWOPqwop++"

// Generator produces control strings from a random source. It is not safe for
// concurrent use.
type Generator struct {
	rng  *rand.Rand
	pool control.String
}

// New creates a generator using rng
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng, pool: control.Parse(Pool)}
}

// NewSeeded creates a generator from a seed. Zero seeds from the clock.
func NewSeeded(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(rand.New(rand.NewSource(seed)))
}

// Generate returns a well-formed control string spanning durationTicks waits.
// A duration of zero or less yields an empty string.
func (g *Generator) Generate(durationTicks int) control.String {
	var states [control.Channels]ChannelState
	var out control.String

	for tick := 0; tick < durationTicks; {
		tok := g.pool[g.rng.Intn(len(g.pool))]

		switch tok.Kind {
		case control.Wait:
			tick++
			for ch := range states {
				states[ch] = states[ch].Tick()
			}

		case control.Press:
			if !states[tok.Channel].CanPress() {
				continue
			}
			states[tok.Channel] = states[tok.Channel].Press()

		case control.Release:
			if !states[tok.Channel].CanRelease() {
				continue
			}
			states[tok.Channel] = states[tok.Channel].Release()
		}

		out = append(out, tok)
	}

	for ch, st := range states {
		if st.Down() {
			out = append(out, control.ReleaseOf(control.Channel(ch)))
		}
	}
	return out
}
