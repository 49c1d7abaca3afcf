package unlock

import "fmt"

// State is the unlock phase of a single promo code.
// Transitions only move forward: Locked → Checking → Revealing.
type State int

const (
	Locked    State = iota // Initial state, unlock control available
	Checking               // Verification animation running
	Revealing              // Terminal, gate has been called
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case Locked:
		return "locked"
	case Checking:
		return "checking"
	case Revealing:
		return "revealing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Snapshot is a point-in-time view of a machine, safe to hand to renderers.
type Snapshot struct {
	State    State
	Progress float64 // 0..100, meaningful while Checking
	Step     int     // ticks elapsed in the current Checking session
}
