package unlock

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// recorder collects listener snapshots
type recorder struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recorder) listen(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) all() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Snapshot(nil), r.snaps...)
}

func newTestController(clock *fakeClock, gate Gate, rec *recorder) *Controller {
	c := NewController(101, DefaultTiming(),
		WithClock(clock),
		WithGate(gate),
		WithListener(rec.listen),
	)
	c.Start()
	return c
}

func TestControllerGatePresent(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	calls := 0
	var outcomes []Outcome

	c := NewController(101, DefaultTiming(),
		WithClock(clock),
		WithGate(func() error { calls++; return nil }),
		WithListener(rec.listen),
		WithCompletion(func(o Outcome) { outcomes = append(outcomes, o) }),
	)
	c.Start()

	if !c.RequestUnlock() {
		t.Fatal("RequestUnlock() failed")
	}

	clock.Advance(2450 * time.Millisecond)
	if snap := c.Snapshot(); snap.State != Checking || snap.Progress >= 100 {
		t.Fatalf("at 2450ms: %+v, want checking below 100", snap)
	}

	clock.Advance(50 * time.Millisecond)
	if snap := c.Snapshot(); snap.State != Checking || snap.Progress != 100 {
		t.Fatalf("at 2500ms: %+v, want checking at 100", snap)
	}

	clock.Advance(299 * time.Millisecond)
	if calls != 0 {
		t.Fatalf("gate called before settle delay elapsed")
	}

	clock.Advance(1 * time.Millisecond)
	if c.Snapshot().State != Revealing {
		t.Fatalf("state = %v, want revealing", c.Snapshot().State)
	}
	if calls != 1 {
		t.Errorf("gate calls = %d, want 1", calls)
	}
	if len(outcomes) != 1 || outcomes[0] != OutcomeInvoked {
		t.Errorf("outcomes = %v, want [invoked]", outcomes)
	}
	if c.Pending() || clock.Pending() != 0 {
		t.Error("no callback should remain after revealing")
	}

	clock.Advance(10 * time.Second)
	if calls != 1 {
		t.Errorf("gate calls after idle = %d, want 1", calls)
	}
}

func TestControllerGateAbsent(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	c := newTestController(clock, nil, rec)

	c.RequestUnlock()
	clock.Advance(2800 * time.Millisecond)

	if c.Snapshot().State != Revealing {
		t.Fatalf("state = %v, want revealing via fallback", c.Snapshot().State)
	}
}

func TestControllerGateFailureStillReveals(t *testing.T) {
	gates := map[string]Gate{
		"error": func() error { return errors.New("no locker") },
		"panic": func() error { panic("window._kt is not a function") },
	}

	for name, gate := range gates {
		t.Run(name, func(t *testing.T) {
			clock := newFakeClock()
			var outcome Outcome = -1
			c := NewController(1, DefaultTiming(),
				WithClock(clock),
				WithGate(gate),
				WithCompletion(func(o Outcome) { outcome = o }),
			)
			c.Start()
			c.RequestUnlock()
			clock.Advance(3 * time.Second)

			if c.Snapshot().State != Revealing {
				t.Fatalf("state = %v, want revealing", c.Snapshot().State)
			}
			if outcome != OutcomeFailed {
				t.Errorf("outcome = %v, want failed", outcome)
			}
		})
	}
}

func TestControllerStopMidChecking(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	calls := 0
	c := newTestController(clock, func() error { calls++; return nil }, rec)

	c.RequestUnlock()
	clock.Advance(1000 * time.Millisecond)

	seen := rec.count()
	if seen == 0 {
		t.Fatal("expected progress updates before stop")
	}

	c.Stop()
	if c.Live() {
		t.Error("controller should not be live after Stop")
	}
	if clock.Pending() != 0 {
		t.Errorf("pending callbacks after Stop = %d, want 0", clock.Pending())
	}

	clock.Advance(10 * time.Second)
	if rec.count() != seen {
		t.Errorf("updates after Stop: %d -> %d", seen, rec.count())
	}
	if calls != 0 {
		t.Error("gate must not be called after Stop")
	}
	if c.Snapshot().State != Checking {
		t.Errorf("state = %v, want frozen in checking", c.Snapshot().State)
	}

	// Stopped controllers cannot be revived
	c.Start()
	if c.Live() || c.RequestUnlock() {
		t.Error("Start after Stop should have no effect")
	}
}

func TestControllerRepeatedRequests(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	c := newTestController(clock, nil, rec)

	if !c.RequestUnlock() {
		t.Fatal("first RequestUnlock() failed")
	}
	clock.Advance(500 * time.Millisecond)
	before := c.Snapshot()
	updates := rec.count()

	for i := 0; i < 5; i++ {
		if c.RequestUnlock() {
			t.Fatal("RequestUnlock() while checking should be rejected")
		}
	}
	if clock.Pending() != 1 {
		t.Errorf("pending callbacks = %d, want exactly 1", clock.Pending())
	}
	if c.Snapshot() != before || rec.count() != updates {
		t.Error("rejected requests must not change state or notify")
	}

	clock.Advance(5 * time.Second)
	if c.RequestUnlock() {
		t.Error("RequestUnlock() while revealing should be rejected")
	}
	if clock.Pending() != 0 {
		t.Errorf("pending callbacks = %d, want 0", clock.Pending())
	}
}

func TestControllerNotLive(t *testing.T) {
	clock := newFakeClock()
	c := NewController(1, DefaultTiming(), WithClock(clock))

	if c.RequestUnlock() {
		t.Error("RequestUnlock() before Start should be rejected")
	}
	if clock.Pending() != 0 {
		t.Error("no timer should be armed before Start")
	}
}

func TestControllerSequenceIsMonotonic(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	c := newTestController(clock, nil, rec)

	c.RequestUnlock()
	clock.Advance(3 * time.Second)

	snaps := rec.all()
	// 1 for entering checking, 50 ticks, 1 for revealing
	if len(snaps) != 52 {
		t.Fatalf("updates = %d, want 52", len(snaps))
	}

	lastState := Locked
	lastProgress := -1.0
	for i, s := range snaps {
		if s.State < lastState {
			t.Fatalf("update %d: state went back from %v to %v", i, lastState, s.State)
		}
		if s.State == Checking && s.Progress < lastProgress {
			t.Fatalf("update %d: progress decreased %v -> %v", i, lastProgress, s.Progress)
		}
		lastState = s.State
		lastProgress = s.Progress
	}
	if snaps[len(snaps)-1].State != Revealing {
		t.Errorf("last update = %v, want revealing", snaps[len(snaps)-1].State)
	}
}

func TestControllerIsolation(t *testing.T) {
	clock := newFakeClock()
	a := NewController(101, DefaultTiming(), WithClock(clock))
	b := NewController(102, DefaultTiming(), WithClock(clock))
	a.Start()
	b.Start()

	a.RequestUnlock()
	clock.Advance(3 * time.Second)

	if a.Snapshot().State != Revealing {
		t.Errorf("a = %v, want revealing", a.Snapshot().State)
	}
	if b.Snapshot().State != Locked {
		t.Errorf("b = %v, want untouched locked", b.Snapshot().State)
	}
}

func TestControllerRealClock(t *testing.T) {
	done := make(chan struct{})
	var once sync.Once

	c := NewController(1, Timing{
		Duration:    20 * time.Millisecond,
		Interval:    5 * time.Millisecond,
		SettleDelay: 5 * time.Millisecond,
	}, WithListener(func(s Snapshot) {
		if s.State == Revealing {
			once.Do(func() { close(done) })
		}
	}))
	c.Start()
	defer c.Stop()

	c.RequestUnlock()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("controller did not reach revealing with the real clock")
	}
}
