package unlock

import (
	"errors"
	"testing"
	"time"
)

func TestTimingSteps(t *testing.T) {
	timing := DefaultTiming()
	if got := timing.Steps(); got != 50 {
		t.Errorf("Steps() = %d, want 50", got)
	}

	uneven := Timing{Duration: 2500 * time.Millisecond, Interval: 300 * time.Millisecond}
	if got := uneven.Steps(); got != 9 {
		t.Errorf("Steps() for uneven timing = %d, want 9", got)
	}
}

func TestTimingProgressBoundary(t *testing.T) {
	timing := DefaultTiming()

	if p := timing.ProgressAt(49); p >= 100 {
		t.Errorf("ProgressAt(49) = %v, want < 100", p)
	}
	if p := timing.ProgressAt(50); p != 100 {
		t.Errorf("ProgressAt(50) = %v, want exactly 100", p)
	}
	if p := timing.ProgressAt(60); p != 100 {
		t.Errorf("ProgressAt(60) = %v, want clamped to 100", p)
	}
	if p := timing.ProgressAt(25); p != 50 {
		t.Errorf("ProgressAt(25) = %v, want 50", p)
	}
}

func TestTimingValidate(t *testing.T) {
	tests := []struct {
		name    string
		timing  Timing
		wantErr bool
	}{
		{"default", DefaultTiming(), false},
		{"zero duration", Timing{Interval: time.Millisecond}, true},
		{"zero interval", Timing{Duration: time.Second}, true},
		{"interval exceeds duration", Timing{Duration: time.Millisecond, Interval: time.Second}, true},
		{"negative settle", Timing{Duration: time.Second, Interval: time.Millisecond, SettleDelay: -1}, true},
		{"zero settle allowed", Timing{Duration: time.Second, Interval: time.Millisecond}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.timing.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMachineFullRun(t *testing.T) {
	m := NewMachine(101, DefaultTiming())

	if m.State() != Locked {
		t.Fatalf("initial state = %v, want locked", m.State())
	}
	if !m.RequestUnlock() {
		t.Fatal("RequestUnlock() from locked should succeed")
	}
	if m.State() != Checking || m.Snapshot().Progress != 0 {
		t.Fatalf("after request: %+v", m.Snapshot())
	}

	for i := 1; i < 50; i++ {
		snap, done := m.Tick()
		if done {
			t.Fatalf("tick %d reported done at progress %v", i, snap.Progress)
		}
		if snap.Progress >= 100 {
			t.Fatalf("tick %d progress = %v, want < 100", i, snap.Progress)
		}
	}

	snap, done := m.Tick()
	if !done || snap.Progress != 100 || snap.Step != 50 {
		t.Fatalf("tick 50 = %+v done=%v, want progress 100 done", snap, done)
	}

	outcome, ok := m.Complete(nil)
	if !ok {
		t.Fatal("Complete() should succeed after progress reached 100")
	}
	if outcome != OutcomeFallback {
		t.Errorf("outcome = %v, want fallback", outcome)
	}
	if m.State() != Revealing {
		t.Errorf("state = %v, want revealing", m.State())
	}
}

func TestMachineRequestUnlockIdempotent(t *testing.T) {
	m := NewMachine(1, DefaultTiming())
	m.RequestUnlock()
	m.Tick()
	m.Tick()

	before := m.Snapshot()
	session := m.Session()

	if m.RequestUnlock() {
		t.Error("RequestUnlock() while checking should be rejected")
	}
	if m.Snapshot() != before || m.Session() != session {
		t.Errorf("rejected request changed machine: %+v -> %+v", before, m.Snapshot())
	}

	for i := 0; i < 48; i++ {
		m.Tick()
	}
	m.Complete(nil)

	if m.RequestUnlock() {
		t.Error("RequestUnlock() while revealing should be rejected")
	}
	if m.State() != Revealing {
		t.Errorf("state = %v, want revealing", m.State())
	}
}

func TestMachineCompleteNotReady(t *testing.T) {
	m := NewMachine(1, DefaultTiming())

	if _, ok := m.Complete(nil); ok {
		t.Error("Complete() from locked should be rejected")
	}

	m.RequestUnlock()
	m.Tick()
	if _, ok := m.Complete(nil); ok {
		t.Error("Complete() before 100% should be rejected")
	}
	if m.State() != Checking {
		t.Errorf("state = %v, want checking", m.State())
	}
}

func TestMachineTickOutsideChecking(t *testing.T) {
	m := NewMachine(1, DefaultTiming())

	snap, done := m.Tick()
	if done || snap.State != Locked || snap.Progress != 0 {
		t.Errorf("Tick() while locked = %+v done=%v", snap, done)
	}
}

func TestMachineGateOutcomes(t *testing.T) {
	tests := []struct {
		name string
		gate Gate
		want Outcome
	}{
		{"absent", nil, OutcomeFallback},
		{"success", func() error { return nil }, OutcomeInvoked},
		{"error", func() error { return errors.New("locker offline") }, OutcomeFailed},
		{"panic", func() error { panic("boom") }, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(1, Timing{Duration: 100 * time.Millisecond, Interval: 50 * time.Millisecond})
			m.RequestUnlock()
			m.Tick()
			m.Tick()

			outcome, ok := m.Complete(tt.gate)
			if !ok {
				t.Fatal("Complete() rejected")
			}
			if outcome != tt.want {
				t.Errorf("outcome = %v, want %v", outcome, tt.want)
			}
			if m.State() != Revealing {
				t.Errorf("state = %v, want revealing regardless of gate", m.State())
			}
		})
	}
}

func TestInvokeRecoversPanic(t *testing.T) {
	err := Invoke(func() error { panic("locker script missing") })
	if err == nil {
		t.Fatal("expected panic to be converted to an error")
	}
}

func TestStateString(t *testing.T) {
	if Locked.String() != "locked" || Checking.String() != "checking" || Revealing.String() != "revealing" {
		t.Error("unexpected state names")
	}
	if State(9).String() != "State(9)" {
		t.Errorf("unknown state = %q", State(9).String())
	}
}
