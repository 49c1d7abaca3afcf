package unlock

import (
	"github.com/muurk/promodeck/internal/logging"
	"go.uber.org/zap"
)

// Machine is the synchronous unlock state machine for one promo code.
// It has no timers of its own: a driver calls Tick every Timing.Interval
// and Complete once Timing.SettleDelay has passed after the final tick.
// Machine is not safe for concurrent use.
type Machine struct {
	codeID   int
	timing   Timing
	state    State
	step     int
	progress float64
	session  int
}

// NewMachine creates a machine in the Locked state.
func NewMachine(codeID int, timing Timing) *Machine {
	return &Machine{
		codeID: codeID,
		timing: timing,
		state:  Locked,
	}
}

// CodeID returns the id of the promo code this machine belongs to
func (m *Machine) CodeID() int { return m.codeID }

// Timing returns the animation timing
func (m *Machine) Timing() Timing { return m.timing }

// State returns the current state
func (m *Machine) State() State { return m.state }

// Session identifies the current Checking run. It increases every time
// the machine enters Checking, so drivers can discard stale ticks.
func (m *Machine) Session() int { return m.session }

// Snapshot returns the current state and progress
func (m *Machine) Snapshot() Snapshot {
	return Snapshot{State: m.state, Progress: m.progress, Step: m.step}
}

// RequestUnlock moves a Locked machine to Checking with progress reset.
// From any other state it does nothing and returns false.
func (m *Machine) RequestUnlock() bool {
	if m.state != Locked {
		logging.LogIgnoredRequest(m.codeID, m.state.String())
		return false
	}
	m.state = Checking
	m.step = 0
	m.progress = 0
	m.session++
	logging.LogTransition(m.codeID, Locked.String(), Checking.String())
	return true
}

// Tick advances the checking progress by one step. done reports that
// progress reached 100 and the driver should schedule Complete. Ticks
// outside Checking, or past 100, leave the machine unchanged.
func (m *Machine) Tick() (snap Snapshot, done bool) {
	if m.state != Checking {
		return m.Snapshot(), false
	}
	if m.progress < 100 {
		m.step++
		m.progress = m.timing.ProgressAt(m.step)
	}
	return m.Snapshot(), m.progress >= 100
}

// Complete finishes a Checking run whose progress has reached 100. The
// gate, when present, is invoked once; the machine moves to Revealing
// whatever the gate does. ok is false if the machine was not ready.
func (m *Machine) Complete(gate Gate) (outcome Outcome, ok bool) {
	if m.state != Checking || m.progress < 100 {
		return OutcomeFallback, false
	}

	outcome = OutcomeFallback
	if gate != nil {
		outcome = OutcomeInvoked
		err := Invoke(gate)
		if err != nil {
			outcome = OutcomeFailed
		}
		logging.LogGateInvocation(m.codeID, outcome.String(), err)
	} else {
		logging.Debug("No disclosure gate configured, revealing directly",
			zap.Int("code_id", m.codeID),
		)
	}

	m.state = Revealing
	logging.LogTransition(m.codeID, Checking.String(), Revealing.String())
	return outcome, true
}
