// Package control defines control strings: ordered press, release and wait
// tokens that drive four independent input channels over time.
//
// Textual encoding ("music sheet"):
//
//	Q W O P   press channel 0..3
//	q w o p   release channel 0..3
//	+         wait one tick
//
// Any other character decodes to an Unknown token so that playback can warn
// and continue instead of rejecting the whole string.
package control

import (
	"fmt"
	"strings"
)

// Channels is the number of independent input channels
const Channels = 4

// Channel identifies one input line (0..Channels-1)
type Channel int

// Kind is the type of a token
type Kind int

const (
	Press Kind = iota
	Release
	Wait
	Unknown
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Wait:
		return "Wait"
	default:
		return "Unknown"
	}
}

// Token is one step of a control string. Channel is meaningful only for
// Press and Release; Raw keeps the source symbol for diagnostics.
type Token struct {
	Kind    Kind
	Channel Channel
	Raw     rune
}

const (
	pressSymbols   = "QWOP"
	releaseSymbols = "qwop"
	waitSymbol     = '+'
)

// PressOf returns the press token for ch
func PressOf(ch Channel) Token {
	return Token{Kind: Press, Channel: ch, Raw: rune(pressSymbols[ch])}
}

// ReleaseOf returns the release token for ch
func ReleaseOf(ch Channel) Token {
	return Token{Kind: Release, Channel: ch, Raw: rune(releaseSymbols[ch])}
}

// WaitToken returns the wait token
func WaitToken() Token {
	return Token{Kind: Wait, Raw: waitSymbol}
}

// Decode maps a single symbol to its token
func Decode(r rune) Token {
	if i := strings.IndexRune(pressSymbols, r); i >= 0 {
		return PressOf(Channel(i))
	}
	if i := strings.IndexRune(releaseSymbols, r); i >= 0 {
		return ReleaseOf(Channel(i))
	}
	if r == waitSymbol {
		return WaitToken()
	}
	return Token{Kind: Unknown, Raw: r}
}

// Symbol returns the textual symbol of the token
func (t Token) Symbol() rune {
	switch t.Kind {
	case Press:
		return rune(pressSymbols[t.Channel])
	case Release:
		return rune(releaseSymbols[t.Channel])
	case Wait:
		return waitSymbol
	default:
		return t.Raw
	}
}

// String is a control string in token form
type String []Token

// Parse decodes text symbol by symbol. Unknown symbols are kept as Unknown
// tokens.
func Parse(text string) String {
	s := make(String, 0, len(text))
	for _, r := range text {
		s = append(s, Decode(r))
	}
	return s
}

// String encodes the tokens back to text
func (s String) String() string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, t := range s {
		sb.WriteRune(t.Symbol())
	}
	return sb.String()
}

// Waits returns the number of wait tokens
func (s String) Waits() int {
	n := 0
	for _, t := range s {
		if t.Kind == Wait {
			n++
		}
	}
	return n
}

// Validate checks strict press/release alternation per channel, starting
// with a press. Channels left pressed at the end are allowed.
func (s String) Validate() error {
	var down [Channels]bool
	for i, t := range s {
		switch t.Kind {
		case Press:
			if down[t.Channel] {
				return fmt.Errorf("token %d: channel %d pressed twice", i, t.Channel)
			}
			down[t.Channel] = true
		case Release:
			if !down[t.Channel] {
				return fmt.Errorf("token %d: channel %d released while not pressed", i, t.Channel)
			}
			down[t.Channel] = false
		case Unknown:
			return fmt.Errorf("token %d: unknown symbol %q", i, t.Raw)
		}
	}
	return nil
}

// Held returns the channels still pressed at the end of s
func (s String) Held() []Channel {
	var down [Channels]bool
	for _, t := range s {
		switch t.Kind {
		case Press:
			down[t.Channel] = true
		case Release:
			down[t.Channel] = false
		}
	}

	var held []Channel
	for ch, d := range down {
		if d {
			held = append(held, Channel(ch))
		}
	}
	return held
}

// Resolve returns s with a release appended for every channel left pressed
func (s String) Resolve() String {
	held := s.Held()
	if len(held) == 0 {
		return s
	}
	out := make(String, len(s), len(s)+len(held))
	copy(out, s)
	for _, ch := range held {
		out = append(out, ReleaseOf(ch))
	}
	return out
}
