package unlock

import "fmt"

// Gate is the optional disclosure-gate hook invoked when checking
// completes. A nil Gate means the host provides none. The returned error is
// only logged; it never changes the outcome of the unlock.
type Gate func() error

// Outcome records how the completion step treated the gate.
type Outcome int

const (
	OutcomeFallback Outcome = iota // No gate present, revealed directly
	OutcomeInvoked                 // Gate called and returned nil
	OutcomeFailed                  // Gate returned an error or panicked
)

// String returns the outcome name used in logs and metrics
func (o Outcome) String() string {
	switch o {
	case OutcomeFallback:
		return "fallback"
	case OutcomeInvoked:
		return "invoked"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Invoke calls gate and converts a panic into an error.
func Invoke(gate Gate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("disclosure gate panicked: %v", r)
		}
	}()
	return gate()
}
