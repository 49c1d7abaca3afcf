package unlock

import (
	"sync"
	"time"
)

// Listener receives every state or progress change of a controller. It is
// called with the controller's lock held and must not call back into it.
type Listener func(Snapshot)

// CompletionFunc is told how the gate was treated when checking finished.
type CompletionFunc func(Outcome)

// Controller drives a Machine with a Clock. Callbacks for one controller
// are serialised, so it behaves like a single-threaded event loop even
// with a real clock. A controller is live between Start and Stop; once
// stopped it never reports again.
type Controller struct {
	mu sync.Mutex

	machine    *Machine
	clock      Clock
	gate       Gate
	listener   Listener
	onComplete CompletionFunc

	live    bool
	stopped bool

	// timer is the single pending tick or settle callback
	timer Timer
	// generation invalidates callbacks scheduled before the last
	// cancellation; a callback whose generation differs is dropped
	generation uint64
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the scheduling clock (default RealClock).
func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithGate sets the disclosure-gate hook. A nil gate selects the fallback.
func WithGate(gate Gate) Option {
	return func(c *Controller) { c.gate = gate }
}

// WithListener registers the change listener.
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithCompletion registers a callback for the completion outcome.
func WithCompletion(f CompletionFunc) Option {
	return func(c *Controller) { c.onComplete = f }
}

// NewController creates a stopped-until-started controller for codeID.
func NewController(codeID int, timing Timing, opts ...Option) *Controller {
	c := &Controller{
		machine: NewMachine(codeID, timing),
		clock:   RealClock(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start marks the controller live. It is idempotent and has no effect
// after Stop.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.live = true
}

// Stop cancels any pending callback and silences the controller for good.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = false
	c.stopped = true
	c.cancelLocked()
}

// Live reports whether the controller is between Start and Stop.
func (c *Controller) Live() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

// CodeID returns the promo code id
func (c *Controller) CodeID() int {
	return c.machine.CodeID()
}

// Snapshot returns the current state and progress.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Snapshot()
}

// RequestUnlock starts a Checking run. It returns false without side
// effects when the controller is not live or not Locked.
func (c *Controller) RequestUnlock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.live || !c.machine.RequestUnlock() {
		return false
	}

	c.cancelLocked()
	c.scheduleLocked(c.machine.Timing().Interval, c.tick)
	c.notifyLocked()
	return true
}

// Pending reports whether a callback is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || !c.live {
		return
	}
	c.timer = nil

	_, done := c.machine.Tick()
	c.notifyLocked()

	if done {
		c.scheduleLocked(c.machine.Timing().SettleDelay, c.complete)
		return
	}
	c.scheduleLocked(c.machine.Timing().Interval, c.tick)
}

func (c *Controller) complete(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation || !c.live {
		return
	}
	c.timer = nil

	outcome, ok := c.machine.Complete(c.gate)
	if !ok {
		return
	}
	c.notifyLocked()
	if c.onComplete != nil {
		c.onComplete(outcome)
	}
}

// scheduleLocked arms the single pending callback for the current generation
func (c *Controller) scheduleLocked(d time.Duration, f func(uint64)) {
	gen := c.generation
	c.timer = c.clock.AfterFunc(d, func() { f(gen) })
}

// cancelLocked stops the pending callback and invalidates in-flight ones
func (c *Controller) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.generation++
}

func (c *Controller) notifyLocked() {
	if c.listener != nil {
		c.listener(c.machine.Snapshot())
	}
}
