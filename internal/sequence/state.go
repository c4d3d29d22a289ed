package sequence

// ChannelState is the generation-time state of one input channel.
//
// Transitions:
//
//	Released         --press--> PressedThisTick
//	Pressed          --release-> ReleasedThisTick
//	PressedThisTick  --wait---> Pressed
//	ReleasedThisTick --wait---> Released
//
// The *ThisTick states forbid pressing and releasing the same channel within
// one tick, which would be a physically instantaneous tap.
type ChannelState int

const (
	Released ChannelState = iota
	Pressed
	PressedThisTick
	ReleasedThisTick
)

// String returns the string representation of the state
func (s ChannelState) String() string {
	switch s {
	case Released:
		return "Released"
	case Pressed:
		return "Pressed"
	case PressedThisTick:
		return "PressedThisTick"
	case ReleasedThisTick:
		return "ReleasedThisTick"
	default:
		return "Unknown"
	}
}

// CanPress reports whether a press is legal
func (s ChannelState) CanPress() bool {
	return s == Released
}

// CanRelease reports whether a release is legal
func (s ChannelState) CanRelease() bool {
	return s == Pressed
}

// Down reports whether the key is held
func (s ChannelState) Down() bool {
	return s == Pressed || s == PressedThisTick
}

// Press returns the state after a press
func (s ChannelState) Press() ChannelState {
	return PressedThisTick
}

// Release returns the state after a release
func (s ChannelState) Release() ChannelState {
	return ReleasedThisTick
}

// Tick returns the state after a wait
func (s ChannelState) Tick() ChannelState {
	switch s {
	case PressedThisTick:
		return Pressed
	case ReleasedThisTick:
		return Released
	default:
		return s
	}
}
