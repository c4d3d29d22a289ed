package runner

// State is the phase the game driver is in.
//
// State Transitions:
//
//	Idle -> Locating -> Idle             (Locate)
//	Idle -> Starting -> Idle             (StartGame)
//	Idle -> Playing -> Scoring -> Idle   (PlayOneGame)
type State int32

const (
	StateIdle State = iota
	StateLocating
	StateStarting
	StatePlaying
	StateScoring
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLocating:
		return "Locating"
	case StateStarting:
		return "Starting"
	case StatePlaying:
		return "Playing"
	case StateScoring:
		return "Scoring"
	default:
		return "Unknown"
	}
}
